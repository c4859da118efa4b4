// SPDX-License-Identifier: MPL-2.0

package docs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modgate/modgate/pkg/modgraph"
)

func shopDocumenter(t *testing.T, opts Options) *Documenter {
	t.Helper()

	g, err := modgraph.NewGraph("example.com/shop", []modgraph.Module{
		{Name: "orders", DisplayName: "Orders", AllowedDependencies: []modgraph.ModuleName{"billing"}},
		{Name: "billing"},
		{Name: "catalog", Visibility: modgraph.VisibilityOpen},
		{Name: "shared.kernel", Visibility: modgraph.VisibilityOpen},
	})
	if err != nil {
		t.Fatalf("NewGraph() error: %v", err)
	}
	edges := []modgraph.Edge{
		{From: "orders", To: "billing", FromPackage: "example.com/shop/orders", ToPackage: "example.com/shop/billing"},
		{From: "orders", To: "catalog", FromPackage: "example.com/shop/orders/api", ToPackage: "example.com/shop/catalog"},
		{From: "catalog", To: "billing", FromPackage: "example.com/shop/catalog", ToPackage: "example.com/shop/billing/internal"},
		{From: "orders", To: "billing"},
		{From: "orders", To: "legacy"},
	}
	d, err := New(g, edges, opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return d
}

func TestNew_InvalidStyle(t *testing.T) {
	t.Parallel()

	g, err := modgraph.NewGraph("", nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = New(g, nil, Options{Diagram: DiagramOptions{Style: "svg"}})
	if !errors.Is(err, ErrInvalidDiagramStyle) {
		t.Errorf("expected ErrInvalidDiagramStyle, got %v", err)
	}
}

func TestComponents_UML(t *testing.T) {
	t.Parallel()

	out := shopDocumenter(t, Options{}).Components()
	for _, want := range []string{
		"@startuml\n",
		"title example.com/shop\n",
		`component "Orders" as orders <<encapsulated>>`,
		`component "catalog" as catalog <<open>>`,
		`component "shared.kernel" as shared_kernel <<open>>`,
		"orders --> billing\n",
		"orders --> catalog\n",
		"catalog .[#red].> billing : violates boundary\n",
		"@enduml\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("components diagram missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "legacy") {
		t.Error("undeclared modules must not appear in diagrams")
	}
	if strings.Count(out, "orders --> billing") != 1 {
		t.Error("repeated edges should render a single relation")
	}
}

func TestComponents_C4(t *testing.T) {
	t.Parallel()

	out := shopDocumenter(t, Options{Diagram: DiagramOptions{Style: StyleC4, Title: "Shop"}}).Components()
	for _, want := range []string{
		"!include <C4/C4_Component>",
		"title Shop\n",
		`Component(orders, "Orders", "encapsulated module", "example.com/shop/orders")`,
		`Rel(orders, billing, "depends on")`,
		`Rel(catalog, billing, "violates boundary", $tags="violation")`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("C4 diagram missing %q:\n%s", want, out)
		}
	}
}

func TestModuleDiagram(t *testing.T) {
	t.Parallel()

	d := shopDocumenter(t, Options{})
	out, err := d.ModuleDiagram("catalog")
	if err != nil {
		t.Fatalf("ModuleDiagram() error: %v", err)
	}
	for _, want := range []string{"as catalog", "as billing", "as orders", "orders --> catalog"} {
		if !strings.Contains(out, want) {
			t.Errorf("module diagram missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "shared_kernel") {
		t.Error("unrelated modules must not appear in a module diagram")
	}

	if _, err := d.ModuleDiagram("nope"); !errors.Is(err, modgraph.ErrUnknownModule) {
		t.Errorf("expected ErrUnknownModule, got %v", err)
	}
}

func TestCanvas(t *testing.T) {
	t.Parallel()

	d := shopDocumenter(t, Options{Canvas: CanvasOptions{APIBase: "https://pkg.go.dev/"}})
	out, err := d.Canvas("billing")
	if err != nil {
		t.Fatalf("Canvas() error: %v", err)
	}
	for _, want := range []string{
		"# billing\n",
		"| Base package | `example.com/shop/billing` |",
		"| Visibility | encapsulated |",
		"| Allowed dependents | `orders` |",
		"| Dependents | `orders`, `catalog` |",
		"| API | [example.com/shop/billing](https://pkg.go.dev/example.com/shop/billing) |",
		"- `example.com/shop/billing/internal`",
		"- `catalog` depends on it without being allowed",
		"Diagram: [module-billing.puml](module-billing.puml)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("canvas missing %q:\n%s", want, out)
		}
	}
}

func TestWriteAll(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "out")
	d := shopDocumenter(t, Options{OutputDir: dir, Concurrency: 2})

	paths, err := d.WriteAll(context.Background())
	if err != nil {
		t.Fatalf("WriteAll() error: %v", err)
	}
	// components + 2 per module + aggregate
	if len(paths) != 1+2*4+1 {
		t.Fatalf("expected 10 files, got %v", paths)
	}
	if filepath.Base(paths[0]) != ComponentsFile || filepath.Base(paths[len(paths)-1]) != AggregateFile {
		t.Errorf("unexpected file order %v", paths)
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
		}
	}

	aggregate, err := os.ReadFile(filepath.Join(dir, AggregateFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(aggregate), "## Orders\n") || !strings.Contains(string(aggregate), "- [Orders](module-orders.md)") {
		t.Errorf("aggregate should contain every canvas:\n%s", aggregate)
	}
}

func TestWriteAll_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := shopDocumenter(t, Options{OutputDir: t.TempDir()})
	if _, err := d.WriteAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
