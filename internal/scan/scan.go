// SPDX-License-Identifier: MPL-2.0

// Package scan extracts module dependency edges from Go source code.
package scan

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/modgate/modgate/pkg/modgraph"
)

// loadMode is the minimal go/packages mode that yields import specs with
// positions. Types are never needed.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports | packages.NeedSyntax | packages.NeedModule

// ErrNoPackages is returned when the patterns match no Go packages.
var ErrNoPackages = errors.New("no Go packages found")

type (
	// Options configures a Scanner.
	Options struct {
		// Dir is the directory go/packages runs in. Empty means the current directory.
		Dir string
		// Patterns are package patterns. Defaults to "./...".
		Patterns []string
		// Tests includes _test.go files.
		Tests bool
		// BuildTags are passed to the build system as -tags.
		BuildTags []string
	}

	// Scanner turns the imports of loaded packages into module edges.
	Scanner struct {
		graph *modgraph.Graph
		opts  Options
	}

	// PackageError reports that go/packages could not fully load a package.
	PackageError struct {
		Package string
		Errors  []packages.Error
	}

	edgeKey struct {
		fromPackage string
		toPackage   string
		pos         modgraph.Position
	}
)

// Error implements the error interface.
func (e *PackageError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("package %s: %s", e.Package, strings.Join(msgs, "; "))
}

// New creates a Scanner that attributes packages to modules of g.
func New(g *modgraph.Graph, opts Options) *Scanner {
	return &Scanner{graph: g, opts: opts}
}

// Scan loads the configured packages and returns one edge per import that
// crosses from one module into another, sorted by source package and
// position. Packages that failed to load are logged and still scanned for
// the imports that could be parsed.
func (s *Scanner) Scan(ctx context.Context) ([]modgraph.Edge, error) {
	pkgs, err := load(ctx, s.opts, loadMode)
	if err != nil {
		return nil, err
	}

	seen := make(map[edgeKey]bool)
	var edges []modgraph.Edge
	for _, pkg := range pkgs {
		if isTestMain(pkg) {
			continue
		}
		for _, pkgErr := range packageErrors(pkg) {
			slog.Warn("package loaded with errors", "error", pkgErr)
		}

		fromPath := strings.TrimSuffix(pkg.PkgPath, "_test")
		from, ok := s.attribute(fromPath)
		if !ok {
			continue
		}
		for _, file := range pkg.Syntax {
			for _, spec := range file.Imports {
				toPath, err := strconv.Unquote(spec.Path.Value)
				if err != nil {
					continue
				}
				to, ok := s.attribute(toPath)
				if !ok || to == from {
					continue
				}
				pos := s.position(pkg.Fset.Position(spec.Pos()))
				key := edgeKey{fromPackage: fromPath, toPackage: toPath, pos: pos}
				if seen[key] {
					continue
				}
				seen[key] = true
				edges = append(edges, modgraph.Edge{
					From:        from,
					To:          to,
					FromPackage: fromPath,
					ToPackage:   toPath,
					Position:    &pos,
				})
			}
		}
	}

	slices.SortStableFunc(edges, compareEdges)
	slog.Debug("scanned module edges", "packages", len(pkgs), "edges", len(edges))
	return edges, nil
}

// attribute maps an import path to a declared module, or to the module it
// implies when it lives under the root without a declaration.
func (s *Scanner) attribute(importPath string) (modgraph.ModuleName, bool) {
	if name, ok := s.graph.ModuleForPackage(importPath); ok {
		return name, true
	}
	return s.graph.ImpliedModule(importPath)
}

func (s *Scanner) position(p token.Position) modgraph.Position {
	filename := p.Filename
	if base := s.opts.Dir; base != "" && filename != "" {
		if abs, err := filepath.Abs(base); err == nil {
			if rel, err := filepath.Rel(abs, filename); err == nil && !strings.HasPrefix(rel, "..") {
				filename = filepath.ToSlash(rel)
			}
		}
	}
	return modgraph.Position{Filename: filename, Line: p.Line, Column: p.Column}
}

func load(ctx context.Context, opts Options, mode packages.LoadMode) ([]*packages.Package, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan canceled: %w", err)
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode:    mode,
		Tests:   opts.Tests,
	}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.BuildTags, ",")}
	}

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("%w matching %s", ErrNoPackages, strings.Join(patterns, " "))
	}
	return pkgs, nil
}

func packageErrors(pkg *packages.Package) []error {
	if len(pkg.Errors) == 0 {
		return nil
	}
	return []error{&PackageError{Package: pkg.PkgPath, Errors: pkg.Errors}}
}

// isTestMain reports the synthesized "pkg.test" main package go/packages
// adds when tests are loaded.
func isTestMain(pkg *packages.Package) bool {
	return pkg.Name == "main" && strings.HasSuffix(pkg.PkgPath, ".test")
}

func compareEdges(a, b modgraph.Edge) int {
	return cmp.Or(
		cmp.Compare(a.FromPackage, b.FromPackage),
		cmp.Compare(a.Position.Filename, b.Position.Filename),
		cmp.Compare(a.Position.Line, b.Position.Line),
		cmp.Compare(a.Position.Column, b.Position.Column),
	)
}
