// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/modgate/modgate/pkg/modgraph"
)

const demoDir = "testdata/demo"

func demoGraph(t *testing.T) *modgraph.Graph {
	t.Helper()

	g, err := modgraph.NewGraph("example.com/demo", []modgraph.Module{
		{Name: "featureone", Visibility: modgraph.VisibilityOpen, AllowedDependencies: []modgraph.ModuleName{"infrastructure"}},
		{Name: "infrastructure", Visibility: modgraph.VisibilityOpen},
		{Name: "reporting"},
	})
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}
	return g
}

type wantEdge struct {
	from, to  modgraph.ModuleName
	toPackage string
	file      string
	line      int
}

func checkEdges(t *testing.T, got []modgraph.Edge, want []wantEdge) {
	t.Helper()

	if len(got) != len(want) {
		t.Fatalf("expected %d edges, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		e := got[i]
		if e.From != w.from || e.To != w.to || e.ToPackage != w.toPackage {
			t.Errorf("edge %d = %v (%s), want %s -> %s (%s)", i, e, e.ToPackage, w.from, w.to, w.toPackage)
		}
		if e.Position == nil || e.Position.Filename != w.file || e.Position.Line != w.line {
			t.Errorf("edge %d position = %v, want %s:%d", i, e.Position, w.file, w.line)
		}
	}
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	edges, err := New(demoGraph(t), Options{Dir: demoDir}).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	checkEdges(t, edges, []wantEdge{
		{"featureone", "infrastructure", "example.com/demo/infrastructure", "featureone/service.go", 6},
		{"featureone", "infrastructure", "example.com/demo/infrastructure/internal/db", "featureone/service.go", 7},
		{"reporting", "featureone", "example.com/demo/featureone", "reporting/report.go", 4},
		{"reporting", "legacy", "example.com/demo/legacy", "reporting/report.go", 5},
	})

	result := modgraph.Verify(demoGraph(t), edges)
	if len(result.Violations) != 0 {
		t.Errorf("expected no violations, got %v", result.Violations)
	}
	if len(result.UnknownReferences) != 1 || result.UnknownReferences[0].Missing != "legacy" {
		t.Errorf("expected legacy to be reported unknown, got %v", result.UnknownReferences)
	}
}

func TestScanner_ScanWithTests(t *testing.T) {
	t.Parallel()

	edges, err := New(demoGraph(t), Options{Dir: demoDir, Tests: true}).Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	checkEdges(t, edges, []wantEdge{
		{"featureone", "infrastructure", "example.com/demo/infrastructure", "featureone/service.go", 6},
		{"featureone", "infrastructure", "example.com/demo/infrastructure/internal/db", "featureone/service.go", 7},
		{"featureone", "reporting", "example.com/demo/reporting", "featureone/service_test.go", 7},
		{"reporting", "featureone", "example.com/demo/featureone", "reporting/report.go", 4},
		{"reporting", "legacy", "example.com/demo/legacy", "reporting/report.go", 5},
	})

	result := modgraph.Verify(demoGraph(t), edges)
	if len(result.Violations) != 1 {
		t.Fatalf("expected 1 violation, got %v", result.Violations)
	}
	if v := result.Violations[0]; v.From != "featureone" || v.To != "reporting" {
		t.Errorf("unexpected violation %v", v)
	}
}

func TestScanner_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(demoGraph(t), Options{Dir: demoDir}).Scan(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	d, err := Discover(context.Background(), Options{Dir: demoDir})
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if d.Root != "example.com/demo" {
		t.Errorf("Root = %q", d.Root)
	}

	want := []modgraph.ModuleName{"featureone", "infrastructure", "legacy", "reporting"}
	if len(d.Modules) != len(want) {
		t.Fatalf("expected %d modules, got %v", len(want), d.Modules)
	}
	for i, m := range d.Modules {
		if m.Name != want[i] {
			t.Errorf("module %d = %q, want %q", i, m.Name, want[i])
		}
		if m.Visibility != modgraph.VisibilityEncapsulated {
			t.Errorf("module %q visibility = %q", m.Name, m.Visibility)
		}
	}
}
