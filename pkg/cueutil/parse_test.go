// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `
#Item: {
	name:   string & =~"^[a-z]+$"
	weight: int & >=0
	open?:  bool
}
`

type testItem struct {
	Name   string `json:"name"`
	Weight int    `json:"weight"`
	Open   bool   `json:"open,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid data decodes", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "orders"
weight: 3
open: true
`), "#Item")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if *result.Value != (testItem{Name: "orders", Weight: 3, Open: true}) {
			t.Errorf("unexpected value %+v", *result.Value)
		}
	})

	t.Run("JSON input is accepted", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`{"name": "billing", "weight": 1}`), "#Item")
		if err != nil {
			t.Fatalf("ParseAndDecode failed: %v", err)
		}
		if result.Value.Name != "billing" || result.Value.Open {
			t.Errorf("unexpected value %+v", *result.Value)
		}
	})

	t.Run("schema violation carries the field path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "Orders"
weight: 1
`), "#Item", WithFilename("item.cue"))
		if err == nil {
			t.Fatal("expected error")
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %T: %v", err, err)
		}
		if ve.FilePath != "item.cue" || ve.CUEPath != "name" {
			t.Errorf("unexpected location %q %q", ve.FilePath, ve.CUEPath)
		}
	})

	t.Run("missing required field fails when concrete", func(t *testing.T) {
		t.Parallel()

		if _, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "orders"`), "#Item"); err == nil {
			t.Error("expected error for incomplete value")
		}
	})

	t.Run("oversized input is rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "orders", weight: 1`), "#Item", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got %v", err)
		}
	})

	t.Run("unknown definition is an internal error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testItem]([]byte(testSchema), []byte(`name: "orders", weight: 1`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "internal error") {
			t.Errorf("expected internal error, got %v", err)
		}
	})
}

func TestParseFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "item.cue")
	if err := os.WriteFile(path, []byte("name: \"web\"\nweight: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ParseFile[testItem]([]byte(testSchema), path, "#Item")
	if err == nil {
		t.Fatal("expected error for negative weight")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error should name the file, got %v", err)
	}

	_, err = ParseFile[testItem]([]byte(testSchema), filepath.Join(dir, "missing.cue"), "#Item")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
