// SPDX-License-Identifier: MPL-2.0

package analyze

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/modgate/modgate/internal/issue"
	"github.com/modgate/modgate/internal/scan"
	"github.com/modgate/modgate/internal/testutil"
	"github.com/modgate/modgate/pkg/moddecl"
	"github.com/modgate/modgate/pkg/modgraph"
)

const demoDir = "../../scan/testdata/demo"

func demoDeclarations() *moddecl.Declarations {
	return &moddecl.Declarations{Modules: []modgraph.Module{
		{Name: "featureone", Visibility: modgraph.VisibilityOpen, AllowedDependencies: []modgraph.ModuleName{"infrastructure"}},
		{Name: "infrastructure", Visibility: modgraph.VisibilityOpen},
		{Name: "reporting"},
		{Name: "legacy", Visibility: modgraph.VisibilityOpen},
	}}
}

func TestRun_ScanDiscoversRoot(t *testing.T) {
	t.Parallel()

	out, err := Run(context.Background(), Request{
		Declarations: demoDeclarations(),
		Scan:         scan.Options{Dir: demoDir, Tests: true},
		DetectCycles: true,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if out.Graph.Root() != "example.com/demo" {
		t.Errorf("Root = %q, want the Go module path", out.Graph.Root())
	}
	if len(out.Result.Violations) != 1 || out.Result.Violations[0].To != "reporting" {
		t.Errorf("expected featureone -> reporting violation, got %v", out.Result.Violations)
	}
	// featureone -> reporting (test import) and reporting -> featureone.
	if len(out.Result.Cycles) != 1 {
		t.Errorf("expected one cycle, got %v", out.Result.Cycles)
	}

	err = out.Err()
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.BoundaryViolationsId {
		t.Fatalf("expected boundary violation issue, got %v", err)
	}
	if !errors.Is(err, modgraph.ErrBoundaryViolation) || !errors.Is(err, modgraph.ErrDependencyCycle) {
		t.Errorf("Err() should wrap every problem, got %v", err)
	}
}

func TestRun_EdgesFileAndBaseline(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	edgesFile := filepath.Join(dir, "edges.cue")
	baselineFile := filepath.Join(dir, "baseline.toml")
	testutil.MustWriteFile(t, edgesFile, `edges: [
	{from: "reporting", to: "featureone"},
	{from: "featureone", to: "reporting"},
]`)
	testutil.MustWriteFile(t, baselineFile, `
[[entries]]
from = "featureone"
to = "reporting"

[[entries]]
from = "infrastructure"
to = "reporting"
`)

	out, err := Run(context.Background(), Request{
		Declarations: demoDeclarations(),
		EdgesFile:    edgesFile,
		BaselineFile: baselineFile,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if len(out.Raw.Violations) != 1 || len(out.Result.Violations) != 0 {
		t.Errorf("baseline should accept the violation, raw=%v result=%v", out.Raw.Violations, out.Result.Violations)
	}
	if len(out.Result.Cycles) != 0 {
		t.Error("cycles should only be reported when enabled")
	}
	if len(out.Stale) != 1 || out.Stale[0].From != "infrastructure" {
		t.Errorf("expected one stale entry, got %v", out.Stale)
	}
	if out.Err() == nil {
		t.Error("stale entries should fail the run")
	}
}

func TestRun_Clean(t *testing.T) {
	t.Parallel()

	out, err := Run(context.Background(), Request{
		Declarations: demoDeclarations(),
		Edges:        []modgraph.Edge{{From: "featureone", To: "infrastructure"}},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if err := out.Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}
}

func TestLoadGraph_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, _, err := LoadGraph(context.Background(), Request{ModulesFile: filepath.Join(dir, "modgate.cue"), Edges: []modgraph.Edge{}})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.DeclarationsNotFoundId {
		t.Fatalf("expected declarations-not-found issue, got %v", err)
	}
	if !errors.Is(err, moddecl.ErrDeclarationsNotFound) {
		t.Error("error should wrap ErrDeclarationsNotFound")
	}

	bad := filepath.Join(dir, "bad.cue")
	testutil.MustWriteFile(t, bad, `modules: [{name: "a", allowed_dependencies: ["b"]}]`)
	_, _, err = LoadGraph(context.Background(), Request{ModulesFile: bad, Edges: []modgraph.Edge{}})
	if !errors.As(err, &ae) || ae.IssueID != issue.DeclarationsParseErrorId {
		t.Fatalf("expected declarations-parse issue, got %v", err)
	}
	if !errors.Is(err, modgraph.ErrUnknownModule) {
		t.Error("error should wrap ErrUnknownModule")
	}
}

func TestLoadEdges_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadEdges(context.Background(), Request{EdgesFile: filepath.Join(t.TempDir(), "edges.cue")}, nil)
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.EdgesLoadFailedId {
		t.Fatalf("expected edges issue, got %v", err)
	}
}

