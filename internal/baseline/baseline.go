// SPDX-License-Identifier: MPL-2.0

// Package baseline stores accepted module boundary problems so that an
// existing codebase can adopt verification without fixing every violation
// first. New problems still fail; entries that no longer match anything are
// reported as stale.
package baseline

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/modgate/modgate/pkg/modgraph"
)

const (
	// KindViolation marks an accepted boundary violation.
	KindViolation Kind = "violation"
	// KindUnknownModule marks an accepted reference to an undeclared module.
	KindUnknownModule Kind = "unknown_module"
)

// ErrInvalidKind is the sentinel error wrapped by InvalidKindError.
var ErrInvalidKind = errors.New("invalid baseline entry kind")

type (
	// Kind identifies which problem list a baseline entry matches.
	Kind string

	// InvalidKindError is returned when an entry carries an unknown kind.
	InvalidKindError struct {
		Value Kind
	}

	// Entry is one accepted problem, identified by its module pair.
	Entry struct {
		Kind Kind                `toml:"kind" json:"kind" yaml:"kind"`
		From modgraph.ModuleName `toml:"from" json:"from" yaml:"from"`
		To   modgraph.ModuleName `toml:"to" json:"to" yaml:"to"`
	}

	// Baseline is the decoded content of a baseline file.
	Baseline struct {
		Entries []Entry `toml:"entries"`
	}
)

// Error implements the error interface.
func (e *InvalidKindError) Error() string {
	return fmt.Sprintf("invalid baseline entry kind %q (valid: %s, %s)", e.Value, KindViolation, KindUnknownModule)
}

// Unwrap returns ErrInvalidKind for errors.Is() compatibility.
func (e *InvalidKindError) Unwrap() error { return ErrInvalidKind }

// IsValid returns whether the Kind is one of the defined kinds.
// The empty kind is valid and means KindViolation.
func (k Kind) IsValid() (bool, []error) {
	switch k {
	case "", KindViolation, KindUnknownModule:
		return true, nil
	default:
		return false, []error{&InvalidKindError{Value: k}}
	}
}

func (k Kind) effective() Kind {
	if k == "" {
		return KindViolation
	}
	return k
}

// String returns the entry as "kind from -> to".
func (e Entry) String() string {
	return fmt.Sprintf("%s %s -> %s", e.Kind.effective(), e.From, e.To)
}

// Load reads a baseline file. A missing file, or an empty path, yields an
// empty baseline.
func Load(path string) (*Baseline, error) {
	if path == "" {
		return &Baseline{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Baseline{}, nil
		}
		return nil, fmt.Errorf("reading baseline: %w", err)
	}
	return Parse(data)
}

// Parse decodes baseline TOML and validates every entry.
func Parse(data []byte) (*Baseline, error) {
	var b Baseline
	if err := toml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing baseline TOML: %w", err)
	}

	var errs []error
	for i, e := range b.Entries {
		if valid, kindErrs := e.Kind.IsValid(); !valid {
			for _, err := range kindErrs {
				errs = append(errs, fmt.Errorf("entries[%d]: %w", i, err))
			}
		}
		if e.From == "" || e.To == "" {
			errs = append(errs, fmt.Errorf("entries[%d]: from and to are required", i))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &b, nil
}

// Len returns the number of entries.
func (b *Baseline) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entries)
}

// Apply returns a copy of result without the accepted problems, plus the
// entries that matched nothing. Cycles are never filtered.
func (b *Baseline) Apply(result *modgraph.ValidationResult) (*modgraph.ValidationResult, []Entry) {
	accepted := make(map[Entry]bool, b.Len())
	if b != nil {
		for _, e := range b.Entries {
			e.Kind = e.Kind.effective()
			accepted[e] = false
		}
	}

	out := &modgraph.ValidationResult{Cycles: slices.Clone(result.Cycles)}
	for _, v := range result.Violations {
		key := Entry{Kind: KindViolation, From: v.From, To: v.To}
		if _, ok := accepted[key]; ok {
			accepted[key] = true
			continue
		}
		out.Violations = append(out.Violations, v)
	}
	for _, r := range result.UnknownReferences {
		key := Entry{Kind: KindUnknownModule, From: r.From, To: r.To}
		if _, ok := accepted[key]; ok {
			accepted[key] = true
			continue
		}
		out.UnknownReferences = append(out.UnknownReferences, r)
	}

	var stale []Entry
	if b != nil {
		seen := make(map[Entry]bool, len(b.Entries))
		for _, e := range b.Entries {
			key := e
			key.Kind = key.Kind.effective()
			if accepted[key] || seen[key] {
				continue
			}
			seen[key] = true
			stale = append(stale, key)
		}
	}
	return out, stale
}

// FromResult builds a baseline accepting every violation and unknown module
// reference in result. Entries are sorted and deduplicated.
func FromResult(result *modgraph.ValidationResult) *Baseline {
	b := &Baseline{}
	for _, v := range result.Violations {
		b.Entries = append(b.Entries, Entry{Kind: KindViolation, From: v.From, To: v.To})
	}
	for _, r := range result.UnknownReferences {
		b.Entries = append(b.Entries, Entry{Kind: KindUnknownModule, From: r.From, To: r.To})
	}
	slices.SortFunc(b.Entries, compareEntries)
	b.Entries = slices.Compact(b.Entries)
	return b
}

// Marshal renders the baseline as TOML with a generated header.
func (b *Baseline) Marshal() ([]byte, error) {
	body, err := toml.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("encoding baseline TOML: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# modgate baseline: accepted module boundary problems\n")
	fmt.Fprintf(&buf, "# Generated: %s\n", time.Now().UTC().Format("2006-01-02"))
	fmt.Fprintf(&buf, "# Total: %d entries\n", b.Len())
	buf.WriteString("# Regenerate: modgate verify --update-baseline <file>\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// Write stores the baseline at path.
func (b *Baseline) Write(path string) error {
	data, err := b.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing baseline: %w", err)
	}
	return nil
}

func compareEntries(a, b Entry) int {
	if c := strings.Compare(string(a.Kind), string(b.Kind)); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.From), string(b.From)); c != 0 {
		return c
	}
	return strings.Compare(string(a.To), string(b.To))
}
