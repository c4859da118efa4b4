package main

import (
	"fmt"

	"example.com/demo/featureone"
)

func main() {
	fmt.Println(featureone.Greeting())
}
