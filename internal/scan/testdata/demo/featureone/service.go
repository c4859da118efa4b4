package featureone

import (
	"strings"

	"example.com/demo/infrastructure"
	"example.com/demo/infrastructure/internal/db"
)

// Greeting returns a greeting read from the store.
func Greeting() string {
	return strings.ToUpper(infrastructure.Lookup("greeting") + db.Name)
}
