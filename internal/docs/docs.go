// SPDX-License-Identifier: MPL-2.0

// Package docs renders module documentation: PlantUML component diagrams for
// the whole application and for each module, markdown module canvases, and an
// aggregate document combining all canvases.
package docs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/modgate/modgate/pkg/modgraph"
)

const (
	// ComponentsFile is the file name of the application diagram.
	ComponentsFile = "components.puml"
	// AggregateFile is the file name of the combined document.
	AggregateFile = "all-docs.md"
)

type (
	// Documenter renders documentation for one graph and one set of edges.
	// It is immutable once built and safe for concurrent use.
	Documenter struct {
		graph      *modgraph.Graph
		opts       Options
		deps       map[modgraph.ModuleName][]modgraph.ModuleName
		dependents map[modgraph.ModuleName][]modgraph.ModuleName
		packages   map[modgraph.ModuleName][]string
		violating  map[pair]bool
	}

	pair struct {
		from, to modgraph.ModuleName
	}

	file struct {
		name   string
		render func() (string, error)
	}
)

// New builds a Documenter. Edges between distinct declared modules become
// diagram relations; edges naming undeclared modules are ignored.
func New(g *modgraph.Graph, edges []modgraph.Edge, opts Options) (*Documenter, error) {
	opts = opts.withDefaults()
	if valid, errs := opts.Diagram.Style.IsValid(); !valid {
		return nil, errs[0]
	}

	d := &Documenter{
		graph:      g,
		opts:       opts,
		deps:       make(map[modgraph.ModuleName][]modgraph.ModuleName),
		dependents: make(map[modgraph.ModuleName][]modgraph.ModuleName),
		packages:   make(map[modgraph.ModuleName][]string),
		violating:  make(map[pair]bool),
	}

	for _, e := range edges {
		d.addPackage(e.From, e.FromPackage)
		d.addPackage(e.To, e.ToPackage)
		if e.From == e.To || !g.Has(e.From) || !g.Has(e.To) {
			continue
		}
		if !slices.Contains(d.deps[e.From], e.To) {
			d.deps[e.From] = append(d.deps[e.From], e.To)
			d.dependents[e.To] = append(d.dependents[e.To], e.From)
		}
	}
	for name := range d.packages {
		slices.Sort(d.packages[name])
	}

	for _, v := range modgraph.Verify(g, edges).Violations {
		d.violating[pair{v.From, v.To}] = true
	}
	return d, nil
}

func (d *Documenter) addPackage(name modgraph.ModuleName, pkg string) {
	if pkg == "" || !d.graph.Has(name) || slices.Contains(d.packages[name], pkg) {
		return
	}
	d.packages[name] = append(d.packages[name], pkg)
}

// OutputDir returns the directory WriteAll writes to.
func (d *Documenter) OutputDir() string { return d.opts.OutputDir }

// ModuleDiagramFile returns the diagram file name of a module.
func ModuleDiagramFile(name modgraph.ModuleName) string {
	return fmt.Sprintf("module-%s.puml", name)
}

// CanvasFile returns the canvas file name of a module.
func CanvasFile(name modgraph.ModuleName) string {
	return fmt.Sprintf("module-%s.md", name)
}

// WriteAll writes the components diagram, a diagram and a canvas per module
// and the aggregate document into the output directory, creating it when
// needed. It returns the written paths in a stable order.
func (d *Documenter) WriteAll(ctx context.Context) ([]string, error) {
	if err := os.MkdirAll(d.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []*file{
		{name: ComponentsFile, render: func() (string, error) { return d.Components(), nil }},
	}
	for _, m := range d.graph.Modules() {
		name := m.Name
		files = append(files,
			&file{name: ModuleDiagramFile(name), render: func() (string, error) { return d.ModuleDiagram(name) }},
			&file{name: CanvasFile(name), render: func() (string, error) { return d.Canvas(name) }},
		)
	}
	files = append(files, &file{name: AggregateFile, render: func() (string, error) { return d.Aggregate(), nil }})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.Concurrency)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := f.render()
			if err != nil {
				return err
			}
			path := filepath.Join(d.opts.OutputDir, f.name)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(d.opts.OutputDir, f.name)
	}
	slog.Debug("wrote module documentation", "dir", d.opts.OutputDir, "files", len(paths))
	return paths, nil
}

func (d *Documenter) module(name modgraph.ModuleName) (modgraph.Module, error) {
	m, ok := d.graph.Module(name)
	if !ok {
		return modgraph.Module{}, fmt.Errorf("%w: %q", modgraph.ErrUnknownModule, name)
	}
	return m, nil
}
