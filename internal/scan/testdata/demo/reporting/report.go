package reporting

import (
	"example.com/demo/featureone"
	"example.com/demo/legacy"
)

// Summary reports the greeting.
func Summary() string {
	return featureone.Greeting() + legacy.Suffix
}
