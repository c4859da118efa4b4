package featureone_test

import (
	"testing"

	"example.com/demo/featureone"
	"example.com/demo/reporting"
)

func TestGreeting(t *testing.T) {
	if featureone.Greeting() == "" || reporting.Summary() == "" {
		t.Fatal("empty")
	}
}
