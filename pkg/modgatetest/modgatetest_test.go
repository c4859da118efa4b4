// SPDX-License-Identifier: MPL-2.0

package modgatetest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/modgate/modgate/pkg/moddecl"
	"github.com/modgate/modgate/pkg/modgraph"
)

const demoDir = "../../internal/scan/testdata/demo"

// recorder captures failures instead of failing the enclosing test.
type recorder struct {
	testing.TB
	mu     sync.Mutex
	errors []string
	fatal  bool
}

func (r *recorder) Helper() {}

func (r *recorder) Errorf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func (r *recorder) Fatalf(format string, args ...any) {
	r.Errorf(format, args...)
	r.mu.Lock()
	r.fatal = true
	r.mu.Unlock()
	panic(r)
}

// capture runs fn against a recorder and reports what it recorded.
func capture(t *testing.T, fn func(tb testing.TB)) *recorder {
	t.Helper()

	r := &recorder{TB: t}
	func() {
		defer func() {
			if p := recover(); p != nil && p != r {
				panic(p)
			}
		}()
		fn(r)
	}()
	return r
}

func demoDeclarations(reportingOpen bool) *moddecl.Declarations {
	reporting := modgraph.Module{Name: "reporting"}
	if reportingOpen {
		reporting.Visibility = modgraph.VisibilityOpen
	}
	return &moddecl.Declarations{Modules: []modgraph.Module{
		{Name: "featureone", Visibility: modgraph.VisibilityOpen, AllowedDependencies: []modgraph.ModuleName{"infrastructure"}},
		{Name: "infrastructure", Visibility: modgraph.VisibilityOpen},
		reporting,
		{Name: "legacy", Visibility: modgraph.VisibilityOpen},
	}}
}

func TestVerify_Passes(t *testing.T) {
	t.Parallel()

	result := Verify(t, Options{Declarations: demoDeclarations(false), Dir: demoDir})
	if !result.OK() {
		t.Errorf("expected no problems, got %v", result.Err())
	}
}

func TestVerify_ReportsViolations(t *testing.T) {
	t.Parallel()

	r := capture(t, func(tb testing.TB) {
		Verify(tb, Options{Declarations: demoDeclarations(false), Dir: demoDir, Tests: true, SkipCycles: true})
	})
	if r.fatal || len(r.errors) != 1 {
		t.Fatalf("expected one non-fatal failure, got %v (fatal=%v)", r.errors, r.fatal)
	}
	msg := r.errors[0]
	if !strings.HasPrefix(msg, "1 violation(s):") || !strings.Contains(msg, "featureone -> reporting") {
		t.Errorf("unexpected failure message:\n%s", msg)
	}
}

func TestVerify_MissingDeclarationsIsFatal(t *testing.T) {
	t.Parallel()

	r := capture(t, func(tb testing.TB) {
		Verify(tb, Options{Dir: t.TempDir(), Edges: []modgraph.Edge{}})
	})
	if !r.fatal || !strings.Contains(r.errors[0], "modgate.cue") {
		t.Errorf("expected fatal missing declarations failure, got %v", r.errors)
	}
}

func TestVerify_DeclarationFileInDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, moddecl.DefaultFileName), []byte(moddecl.Generate(demoDeclarations(true))), 0o644); err != nil {
		t.Fatal(err)
	}

	result := Verify(t, Options{
		Dir:   dir,
		Edges: []modgraph.Edge{{From: "featureone", To: "reporting"}},
	})
	if !result.OK() {
		t.Errorf("reporting is open, expected no problems, got %v", result.Err())
	}
}

func TestWriteDocumentation(t *testing.T) {
	t.Parallel()

	out := t.TempDir()
	paths := WriteDocumentation(t, Options{
		Declarations: demoDeclarations(false),
		Dir:          demoDir,
		Docs:         DocsOptions{OutputDir: out, Style: "c4"},
	})
	if len(paths) != 1+2*4+1 {
		t.Fatalf("expected 10 files, got %v", paths)
	}

	diagram, err := os.ReadFile(filepath.Join(out, "components.puml"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(diagram), `Rel(featureone, infrastructure, "depends on")`) {
		t.Errorf("components diagram should show featureone -> infrastructure:\n%s", diagram)
	}
}
