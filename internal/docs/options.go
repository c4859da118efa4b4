// SPDX-License-Identifier: MPL-2.0

package docs

import (
	"errors"
	"fmt"
)

const (
	// DefaultOutputDir is where documentation is written when no directory is configured.
	DefaultOutputDir = "modgate-docs"
	// DefaultConcurrency bounds how many files are written at once.
	DefaultConcurrency = 4

	// StyleUML renders plain PlantUML component diagrams.
	StyleUML DiagramStyle = "uml"
	// StyleC4 renders diagrams with the PlantUML C4 component library.
	StyleC4 DiagramStyle = "c4"
)

// ErrInvalidDiagramStyle is the sentinel error wrapped by InvalidDiagramStyleError.
var ErrInvalidDiagramStyle = errors.New("invalid diagram style")

type (
	// DiagramStyle selects the PlantUML dialect.
	DiagramStyle string

	// InvalidDiagramStyleError is returned for an unknown DiagramStyle.
	InvalidDiagramStyleError struct {
		Value DiagramStyle
	}

	// DiagramOptions configures PlantUML output.
	DiagramOptions struct {
		Style DiagramStyle
		// Title overrides the components diagram title.
		Title string
	}

	// CanvasOptions configures module canvases.
	CanvasOptions struct {
		// APIBase, when set, links each canvas to API docs at APIBase/<base package>.
		APIBase string
	}

	// Options configures a Documenter.
	Options struct {
		OutputDir   string
		Diagram     DiagramOptions
		Canvas      CanvasOptions
		Concurrency int
	}
)

// Error implements the error interface.
func (e *InvalidDiagramStyleError) Error() string {
	return fmt.Sprintf("invalid diagram style %q (valid: %s, %s)", e.Value, StyleUML, StyleC4)
}

// Unwrap returns ErrInvalidDiagramStyle for errors.Is() compatibility.
func (e *InvalidDiagramStyleError) Unwrap() error { return ErrInvalidDiagramStyle }

// String returns the string representation of the DiagramStyle.
func (s DiagramStyle) String() string { return string(s) }

// IsValid returns whether the DiagramStyle is supported. The empty style is
// valid and means StyleUML.
func (s DiagramStyle) IsValid() (bool, []error) {
	switch s {
	case "", StyleUML, StyleC4:
		return true, nil
	default:
		return false, []error{&InvalidDiagramStyleError{Value: s}}
	}
}

func (o Options) withDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Diagram.Style == "" {
		o.Diagram.Style = StyleUML
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
	return o
}
