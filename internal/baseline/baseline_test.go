// SPDX-License-Identifier: MPL-2.0

package baseline

import (
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/modgate/modgate/pkg/modgraph"
)

func sampleResult() *modgraph.ValidationResult {
	return &modgraph.ValidationResult{
		Violations: []modgraph.Violation{
			{From: "orders", To: "billing", Reason: "billing is encapsulated"},
			{From: "catalog", To: "billing", Reason: "billing is encapsulated"},
		},
		UnknownReferences: []modgraph.UnknownModuleReference{
			{From: "orders", To: "legacy", Missing: "legacy", Field: modgraph.FieldEdge},
		},
		Cycles: []modgraph.Cycle{
			{Modules: []modgraph.ModuleName{"a", "b"}, Path: []modgraph.ModuleName{"a", "b", "a"}},
		},
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	b, err := Parse([]byte(`
[[entries]]
from = "orders"
to = "billing"

[[entries]]
kind = "unknown_module"
from = "orders"
to = "legacy"
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", b.Len())
	}
	if b.Entries[1].Kind != KindUnknownModule {
		t.Errorf("Kind = %q", b.Entries[1].Kind)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		is   error
	}{
		{name: "bad kind", data: "[[entries]]\nkind = \"cycle\"\nfrom = \"a\"\nto = \"b\"\n", is: ErrInvalidKind},
		{name: "missing to", data: "[[entries]]\nfrom = \"a\"\n"},
		{name: "not toml", data: "[[entries"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("expected %v, got %v", tt.is, err)
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	b, err := Load(filepath.Join(t.TempDir(), "baseline.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("expected empty baseline, got %d entries", b.Len())
	}

	if b, err := Load(""); err != nil || b.Len() != 0 {
		t.Errorf("Load(\"\") = %v, %v", b, err)
	}
}

func TestBaseline_Apply(t *testing.T) {
	t.Parallel()

	b := &Baseline{Entries: []Entry{
		{From: "orders", To: "billing"},
		{Kind: KindUnknownModule, From: "orders", To: "legacy"},
		{Kind: KindViolation, From: "shipping", To: "billing"},
	}}

	result := sampleResult()
	filtered, stale := b.Apply(result)

	if len(filtered.Violations) != 1 || filtered.Violations[0].From != "catalog" {
		t.Errorf("expected only catalog -> billing to remain, got %v", filtered.Violations)
	}
	if len(filtered.UnknownReferences) != 0 {
		t.Errorf("expected unknown reference to be accepted, got %v", filtered.UnknownReferences)
	}
	if len(filtered.Cycles) != 1 {
		t.Errorf("cycles must not be filtered, got %v", filtered.Cycles)
	}
	want := []Entry{{Kind: KindViolation, From: "shipping", To: "billing"}}
	if !slices.Equal(stale, want) {
		t.Errorf("stale = %v, want %v", stale, want)
	}

	if len(result.Violations) != 2 {
		t.Error("Apply must not modify its input")
	}
}

func TestBaseline_ApplyNil(t *testing.T) {
	t.Parallel()

	var b *Baseline
	filtered, stale := b.Apply(sampleResult())
	if filtered.Count() != sampleResult().Count() || len(stale) != 0 {
		t.Errorf("nil baseline should accept nothing, got %v / %v", filtered, stale)
	}
}

func TestWriteThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "modgate-baseline.toml")
	generated := FromResult(sampleResult())
	if generated.Len() != 3 {
		t.Fatalf("expected 3 entries, got %v", generated.Entries)
	}
	if err := generated.Write(path); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !slices.Equal(loaded.Entries, generated.Entries) {
		t.Errorf("entries = %v, want %v", loaded.Entries, generated.Entries)
	}

	filtered, stale := loaded.Apply(sampleResult())
	if len(filtered.Violations) != 0 || len(filtered.UnknownReferences) != 0 || len(stale) != 0 {
		t.Errorf("generated baseline should accept everything, got %v / %v", filtered, stale)
	}

	data, err := generated.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# modgate baseline") {
		t.Errorf("missing header:\n%s", data)
	}
}
