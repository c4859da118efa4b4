// SPDX-License-Identifier: MPL-2.0

// Package report encodes verification results and scanned edges for humans
// and machines.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modgate/modgate/internal/baseline"
	"github.com/modgate/modgate/pkg/modgraph"
)

const (
	// FormatText is the human-readable listing.
	FormatText Format = "text"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
	// FormatYAML is YAML.
	FormatYAML Format = "yaml"
)

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid output format")

type (
	// Format selects the encoding.
	Format string

	// InvalidFormatError is returned for an unknown Format value.
	InvalidFormatError struct {
		Value Format
	}

	// Document is the machine-readable form of a verification run.
	Document struct {
		OK                bool                              `json:"ok" yaml:"ok"`
		Summary           string                            `json:"summary" yaml:"summary"`
		Violations        []modgraph.Violation              `json:"violations" yaml:"violations"`
		UnknownReferences []modgraph.UnknownModuleReference `json:"unknown_references" yaml:"unknown_references"`
		Cycles            []modgraph.Cycle                  `json:"cycles" yaml:"cycles"`
		StaleBaseline     []baseline.Entry                  `json:"stale_baseline,omitempty" yaml:"stale_baseline,omitempty"`
	}

	edgeDocument struct {
		Edges []modgraph.Edge `json:"edges" yaml:"edges"`
	}
)

// Error implements the error interface.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid output format %q (valid: %s)", e.Value, strings.Join(formatNames(), ", "))
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is supported. The empty format is
// valid and means FormatText.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case "", FormatText, FormatJSON, FormatYAML:
		return true, nil
	default:
		return false, []error{&InvalidFormatError{Value: f}}
	}
}

// NewDocument builds the machine-readable form of result. Nil lists are
// normalized to empty ones so JSON consumers always see arrays.
func NewDocument(result *modgraph.ValidationResult, stale []baseline.Entry) Document {
	doc := Document{
		OK:                result.OK() && len(stale) == 0,
		Summary:           result.Summary(),
		Violations:        result.Violations,
		UnknownReferences: result.UnknownReferences,
		Cycles:            result.Cycles,
		StaleBaseline:     stale,
	}
	if doc.Violations == nil {
		doc.Violations = []modgraph.Violation{}
	}
	if doc.UnknownReferences == nil {
		doc.UnknownReferences = []modgraph.UnknownModuleReference{}
	}
	if doc.Cycles == nil {
		doc.Cycles = []modgraph.Cycle{}
	}
	return doc
}

// Encode writes result (and the stale baseline entries, if any) to w.
func Encode(w io.Writer, result *modgraph.ValidationResult, stale []baseline.Entry, format Format) error {
	if valid, errs := format.IsValid(); !valid {
		return errs[0]
	}
	switch format {
	case FormatJSON:
		return encodeJSON(w, NewDocument(result, stale))
	case FormatYAML:
		return encodeYAML(w, NewDocument(result, stale))
	default:
		return encodeText(w, result, stale)
	}
}

// EncodeEdges writes observed edges to w.
func EncodeEdges(w io.Writer, edges []modgraph.Edge, format Format) error {
	if valid, errs := format.IsValid(); !valid {
		return errs[0]
	}
	if edges == nil {
		edges = []modgraph.Edge{}
	}
	switch format {
	case FormatJSON:
		return encodeJSON(w, edgeDocument{Edges: edges})
	case FormatYAML:
		return encodeYAML(w, edgeDocument{Edges: edges})
	default:
		var sb strings.Builder
		for _, e := range edges {
			sb.WriteString(edgeLine(e))
			sb.WriteByte('\n')
		}
		_, err := io.WriteString(w, sb.String())
		return err
	}
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON report: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding YAML report: %w", err)
	}
	return enc.Close()
}

func encodeText(w io.Writer, result *modgraph.ValidationResult, stale []baseline.Entry) error {
	var sb strings.Builder

	if len(result.UnknownReferences) > 0 {
		sb.WriteString("Unknown modules:\n")
		for i := range result.UnknownReferences {
			r := &result.UnknownReferences[i]
			fmt.Fprintf(&sb, "  - %s\n", r.Error())
			if r.Edge != nil && r.Edge.Position != nil {
				fmt.Fprintf(&sb, "      at %s\n", r.Edge.Position)
			}
		}
	}
	if len(result.Violations) > 0 {
		sb.WriteString("Boundary violations:\n")
		for _, v := range result.Violations {
			fmt.Fprintf(&sb, "  - %s\n", v.Error())
			for _, e := range v.Evidence {
				if line := evidenceLine(e); line != "" {
					fmt.Fprintf(&sb, "      %s\n", line)
				}
			}
		}
	}
	if len(result.Cycles) > 0 {
		sb.WriteString("Dependency cycles:\n")
		for _, c := range result.Cycles {
			fmt.Fprintf(&sb, "  - %s\n", c.Error())
		}
	}
	if len(stale) > 0 {
		sb.WriteString("Stale baseline entries:\n")
		for _, e := range stale {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
	}
	sb.WriteString(result.Summary())
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

// evidenceLine describes where an edge was observed, or "" when the edge
// carries neither package nor position.
func evidenceLine(e modgraph.Edge) string {
	switch {
	case e.FromPackage != "" && e.Position != nil:
		return fmt.Sprintf("%s imports %s (%s)", e.FromPackage, e.ToPackage, e.Position)
	case e.FromPackage != "":
		return fmt.Sprintf("%s imports %s", e.FromPackage, e.ToPackage)
	case e.Position != nil:
		return "at " + e.Position.String()
	default:
		return ""
	}
}

func edgeLine(e modgraph.Edge) string {
	line := e.String()
	if detail := evidenceLine(e); detail != "" {
		line += "  " + detail
	}
	return line
}

func formatNames() []string {
	formats := Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return names
}
