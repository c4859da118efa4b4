// SPDX-License-Identifier: MPL-2.0

// Package modgatetest verifies module boundaries from Go tests.
//
// A typical architecture test lives next to the declaration file:
//
//	func TestModules(t *testing.T) {
//		modgatetest.Verify(t, modgatetest.Options{})
//	}
//
//	func TestWriteDocumentation(t *testing.T) {
//		modgatetest.WriteDocumentation(t, modgatetest.Options{})
//	}
package modgatetest

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/docs"
	"github.com/modgate/modgate/internal/scan"
	"github.com/modgate/modgate/pkg/moddecl"
	"github.com/modgate/modgate/pkg/modgraph"
)

// Options configures a harness run. The zero value loads modgate.cue from
// the current directory and scans ./... below it.
type Options struct {
	// ModulesFile is the declaration file. Defaults to modgate.cue in Dir.
	ModulesFile string
	// Declarations replaces ModulesFile when set.
	Declarations *moddecl.Declarations

	// Dir is the directory packages are scanned in.
	Dir string
	// Tests includes _test.go files in the scan.
	Tests bool
	// BuildTags are passed to the go command.
	BuildTags []string
	// Edges replaces scanning when non-nil.
	Edges []modgraph.Edge

	// SkipCycles disables cycle detection.
	SkipCycles bool
	// BaselineFile lists accepted problems.
	BaselineFile string

	// Docs configures WriteDocumentation.
	Docs DocsOptions
}

// DocsOptions configures WriteDocumentation.
type DocsOptions struct {
	// OutputDir defaults to modgate-docs below Dir.
	OutputDir string
	// Style is "uml" (default) or "c4".
	Style string
	// APIBase links canvases to API documentation when set.
	APIBase string
}

// Verify fails t with the full problem list when the code crosses a module
// boundary, references an undeclared module or, unless SkipCycles is set,
// contains a module dependency cycle. It returns the verification result.
func Verify(t testing.TB, opts Options) *modgraph.ValidationResult {
	t.Helper()

	out := run(t, opts)
	if err := out.Err(); err != nil {
		t.Errorf("%s:\n%s", out.Result.Summary(), problemList(out))
	}
	return out.Result
}

// WriteDocumentation writes diagrams and canvases for the declared modules
// and returns the written paths. It fails t only when the documentation
// cannot be produced; boundary problems are rendered, not reported.
func WriteDocumentation(t testing.TB, opts Options) []string {
	t.Helper()

	out := run(t, opts)

	outputDir := opts.Docs.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(opts.Dir, docs.DefaultOutputDir)
	}
	d, err := docs.New(out.Graph, out.Edges, docs.Options{
		OutputDir: outputDir,
		Diagram:   docs.DiagramOptions{Style: docs.DiagramStyle(opts.Docs.Style)},
		Canvas:    docs.CanvasOptions{APIBase: opts.Docs.APIBase},
	})
	if err != nil {
		t.Fatalf("modgate: %v", err)
	}
	paths, err := d.WriteAll(context.Background())
	if err != nil {
		t.Fatalf("modgate: write documentation: %v", err)
	}
	return paths
}

func run(t testing.TB, opts Options) *analyze.Outcome {
	t.Helper()

	modulesFile := opts.ModulesFile
	if modulesFile == "" {
		modulesFile = filepath.Join(opts.Dir, moddecl.DefaultFileName)
	}

	out, err := analyze.Run(context.Background(), analyze.Request{
		Declarations: opts.Declarations,
		ModulesFile:  modulesFile,
		Edges:        opts.Edges,
		Scan:         scan.Options{Dir: opts.Dir, Tests: opts.Tests, BuildTags: opts.BuildTags},
		DetectCycles: !opts.SkipCycles,
		BaselineFile: opts.BaselineFile,
	})
	if err != nil {
		t.Fatalf("modgate: %v", err)
	}
	return out
}

func problemList(out *analyze.Outcome) string {
	var sb strings.Builder
	for _, err := range out.Result.Errors() {
		sb.WriteString("  - ")
		sb.WriteString(err.Error())
		sb.WriteByte('\n')
	}
	for _, e := range out.Stale {
		sb.WriteString("  - stale baseline entry: ")
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
