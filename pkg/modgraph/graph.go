// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/modgate/modgate/internal/dag"
)

var (
	// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrInvalidConfig is the sentinel error wrapped by ConfigError.
	ErrInvalidConfig = errors.New("invalid module declarations")
)

type (
	// DuplicateModuleError is returned when two declarations share a name.
	DuplicateModuleError struct {
		Name ModuleName
		// First and Index are the declaration indices of both occurrences.
		First int
		Index int
	}

	// ConfigError collects every defect found while building a Graph.
	// It wraps ErrInvalidConfig for errors.Is() compatibility; the individual
	// problems are reachable through Unwrap() []error as well.
	ConfigError struct {
		Problems []error
	}

	// Graph is an immutable set of module declarations.
	Graph struct {
		root    string
		modules []Module
		index   map[ModuleName]int
		bases   map[ModuleName]string
	}
)

// Error implements the error interface for DuplicateModuleError.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("modules[%d]: module %q already declared at modules[%d]", e.Index, e.Name, e.First)
}

// Unwrap returns ErrDuplicateModule for errors.Is() compatibility.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Error implements the error interface for ConfigError.
func (e *ConfigError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: %s", ErrInvalidConfig, e.Problems[0])
	}
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.Error())
	}
	return fmt.Sprintf("%s: %d problem(s):\n  %s", ErrInvalidConfig, len(e.Problems), strings.Join(lines, "\n  "))
}

// Unwrap exposes the sentinel and every collected problem to errors.Is/As.
func (e *ConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.Problems...)
}

// NewGraph validates the declarations and builds a Graph.
//
// root is the Go import path under which module base packages live; it may be
// empty when every module sets BasePackage or when package attribution is not
// needed. The returned error, if any, is a *ConfigError listing all defects.
func NewGraph(root string, modules []Module) (*Graph, error) {
	g := &Graph{
		root:    strings.TrimSuffix(root, "/"),
		modules: make([]Module, 0, len(modules)),
		index:   make(map[ModuleName]int, len(modules)),
		bases:   make(map[ModuleName]string, len(modules)),
	}

	var problems []error
	for i, m := range modules {
		if valid, errs := m.Name.IsValid(); !valid {
			for _, err := range errs {
				problems = append(problems, fmt.Errorf("modules[%d]: %w", i, err))
			}
			continue
		}
		if valid, errs := m.Visibility.IsValid(); !valid {
			for _, err := range errs {
				problems = append(problems, fmt.Errorf("modules[%d]: %w", i, err))
			}
		}
		if first, exists := g.index[m.Name]; exists {
			problems = append(problems, &DuplicateModuleError{Name: m.Name, First: first, Index: i})
			continue
		}
		g.index[m.Name] = len(g.modules)
		g.modules = append(g.modules, m.clone())
		g.bases[m.Name] = g.basePackage(m)
	}

	// Allow-lists are checked once every name is known so that forward
	// references resolve.
	for _, m := range g.modules {
		for _, dep := range m.AllowedDependencies {
			if _, ok := g.index[dep]; !ok {
				problems = append(problems, &UnknownModuleReference{
					From:    m.Name,
					To:      dep,
					Missing: dep,
					Field:   FieldAllowedDependencies,
				})
			}
		}
	}

	if len(problems) > 0 {
		return nil, &ConfigError{Problems: problems}
	}
	return g, nil
}

// basePackage resolves the import path that owns m's packages.
func (g *Graph) basePackage(m Module) string {
	if m.BasePackage != "" {
		return strings.TrimSuffix(m.BasePackage, "/")
	}
	rel := strings.ReplaceAll(string(m.Name), ".", "/")
	if g.root == "" {
		return rel
	}
	return path.Join(g.root, rel)
}

// Root returns the import path under which modules live.
func (g *Graph) Root() string { return g.root }

// Len returns the number of declared modules.
func (g *Graph) Len() int { return len(g.modules) }

// Modules returns a copy of the declarations in declaration order.
func (g *Graph) Modules() []Module {
	out := make([]Module, len(g.modules))
	for i, m := range g.modules {
		out[i] = m.clone()
	}
	return out
}

// Names returns the module names in declaration order.
func (g *Graph) Names() []ModuleName {
	out := make([]ModuleName, len(g.modules))
	for i, m := range g.modules {
		out[i] = m.Name
	}
	return out
}

// Module returns the declaration for name.
func (g *Graph) Module(name ModuleName) (Module, bool) {
	i, ok := g.index[name]
	if !ok {
		return Module{}, false
	}
	return g.modules[i].clone(), true
}

// Has reports whether name is declared.
func (g *Graph) Has(name ModuleName) bool {
	_, ok := g.index[name]
	return ok
}

// BasePackage returns the resolved base import path of a declared module.
func (g *Graph) BasePackage(name ModuleName) string {
	return g.bases[name]
}

// ModuleForPackage attributes an import path to the declared module with the
// longest matching base package.
func (g *Graph) ModuleForPackage(importPath string) (ModuleName, bool) {
	var (
		best    ModuleName
		bestLen = -1
	)
	for _, m := range g.modules {
		base := g.bases[m.Name]
		if base == "" {
			continue
		}
		if importPath == base || strings.HasPrefix(importPath, base+"/") {
			if len(base) > bestLen {
				best, bestLen = m.Name, len(base)
			}
		}
	}
	return best, bestLen >= 0
}

// ImpliedModule returns the module name a package under the root would have
// if it were declared: the first path element below the root. It returns
// false for the root package itself and for packages outside the root.
func (g *Graph) ImpliedModule(importPath string) (ModuleName, bool) {
	if g.root == "" || !strings.HasPrefix(importPath, g.root+"/") {
		return "", false
	}
	rest := strings.TrimPrefix(importPath, g.root+"/")
	first, _, _ := strings.Cut(rest, "/")
	if first == "" {
		return "", false
	}
	return ModuleName(first), true
}

// Order returns module names with dependencies before their dependents,
// considering only edges between distinct declared modules. Modules that are
// not ordered by any edge keep declaration order. When the edges contain a
// cycle, declaration order is returned together with a *dag.CycleError.
func (g *Graph) Order(edges []Edge) ([]ModuleName, error) {
	d := g.dependencyDAG(edges)
	order, err := d.TopologicalSort()
	if err != nil {
		return g.Names(), err
	}
	out := make([]ModuleName, len(order))
	for i, name := range order {
		out[i] = ModuleName(name)
	}
	return out, nil
}

// dependencyDAG builds a dag.Graph where an edge points from a dependency to
// its dependent, so that topological order lists dependencies first.
func (g *Graph) dependencyDAG(edges []Edge) *dag.Graph {
	d := dag.New()
	for _, m := range g.modules {
		d.AddNode(string(m.Name))
	}
	for _, e := range edges {
		if e.From == e.To || !g.Has(e.From) || !g.Has(e.To) {
			continue
		}
		d.AddEdge(string(e.To), string(e.From))
	}
	return d
}
