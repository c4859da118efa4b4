// SPDX-License-Identifier: MPL-2.0

package analyze

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modgate/modgate/internal/baseline"
	"github.com/modgate/modgate/internal/issue"
	"github.com/modgate/modgate/internal/scan"
	"github.com/modgate/modgate/pkg/moddecl"
	"github.com/modgate/modgate/pkg/modgraph"
)

type (
	// Request describes one verification run. Declarations take precedence
	// over ModulesFile, and Edges over EdgesFile; without either edge source
	// the Go packages described by Scan are scanned.
	Request struct {
		Declarations *moddecl.Declarations
		ModulesFile  string

		Edges     []modgraph.Edge
		EdgesFile string
		Scan      scan.Options

		DetectCycles bool
		BaselineFile string
	}

	// Outcome is everything a run produced.
	Outcome struct {
		Declarations *moddecl.Declarations
		Graph        *modgraph.Graph
		Edges        []modgraph.Edge
		// Raw is the result before baseline filtering.
		Raw *modgraph.ValidationResult
		// Result is Raw without the baselined problems.
		Result   *modgraph.ValidationResult
		Baseline *baseline.Baseline
		// Stale lists baseline entries that matched nothing.
		Stale []baseline.Entry
	}
)

// Run executes the full pipeline. Problems found in the code are not errors;
// they are reported through Outcome.Result. Errors are returned as
// *issue.ActionableError.
func Run(ctx context.Context, req Request) (*Outcome, error) {
	decl, g, err := LoadGraph(ctx, req)
	if err != nil {
		return nil, err
	}

	edges, err := LoadEdges(ctx, req, g)
	if err != nil {
		return nil, err
	}

	b, err := baseline.Load(req.BaselineFile)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load baseline").
			WithResource(req.BaselineFile).
			WithIssue(issue.BaselineLoadFailedId).
			Wrap(err).
			BuildError()
	}

	raw := modgraph.Verify(g, edges, modgraph.WithCycleDetection(req.DetectCycles))
	result, stale := b.Apply(raw)
	slog.Debug("verified module boundaries",
		"modules", g.Len(), "edges", len(edges), "problems", raw.Count(), "baselined", raw.Count()-result.Count())

	return &Outcome{
		Declarations: decl,
		Graph:        g,
		Edges:        edges,
		Raw:          raw,
		Result:       result,
		Baseline:     b,
		Stale:        stale,
	}, nil
}

// LoadGraph loads the declarations and builds the module graph. When the
// declarations name no root and packages are scanned, the root defaults to
// the path of the scanned Go module.
func LoadGraph(ctx context.Context, req Request) (*moddecl.Declarations, *modgraph.Graph, error) {
	decl := req.Declarations
	if decl == nil {
		loaded, err := moddecl.Load(ctx, req.ModulesFile)
		if err != nil {
			return nil, nil, declarationsError(req.ModulesFile, err)
		}
		decl = loaded
	}

	if decl.Root == "" && req.scans() {
		discovered, err := scan.Discover(ctx, req.Scan)
		if err != nil {
			return nil, nil, scanError(req.Scan, err)
		}
		withRoot := *decl
		withRoot.Root = discovered.Root
		decl = &withRoot
		slog.Debug("using Go module path as root", "root", decl.Root)
	}

	g, err := decl.Graph()
	if err != nil {
		return nil, nil, declarationsError(decl.FilePath, err)
	}
	return decl, g, nil
}

// LoadEdges returns the explicit edges, the edges file content, or the
// scanned edges, in that order of precedence.
func LoadEdges(ctx context.Context, req Request, g *modgraph.Graph) ([]modgraph.Edge, error) {
	switch {
	case req.Edges != nil:
		return req.Edges, nil
	case req.EdgesFile != "":
		edges, err := moddecl.LoadEdges(ctx, req.EdgesFile)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load dependency edges").
				WithResource(req.EdgesFile).
				WithIssue(issue.EdgesLoadFailedId).
				Wrap(err).
				BuildError()
		}
		return edges, nil
	default:
		edges, err := scan.New(g, req.Scan).Scan(ctx)
		if err != nil {
			return nil, scanError(req.Scan, err)
		}
		return edges, nil
	}
}

// Err returns nil when the run found nothing, otherwise an
// *issue.ActionableError linked to the catalog entry of the most severe
// problem kind and wrapping every problem.
func (o *Outcome) Err() error {
	r := o.Result
	if r.OK() && len(o.Stale) == 0 {
		return nil
	}

	ctx := issue.NewErrorContext().WithOperation("verify module boundaries")
	switch {
	case len(r.UnknownReferences) > 0:
		ctx.WithIssue(issue.UnknownModuleId).
			WithSuggestion("Declare every module that appears in an import")
	case len(r.Violations) > 0:
		ctx.WithIssue(issue.BoundaryViolationsId).
			WithSuggestion("Remove the imports or extend allowed_dependencies")
	case len(r.Cycles) > 0:
		ctx.WithIssue(issue.DependencyCycleId).
			WithSuggestion("Break the cycle by extracting shared code into its own module")
	}

	errs := r.Errors()
	if len(o.Stale) > 0 {
		ctx.WithSuggestion("Remove stale baseline entries or regenerate the baseline")
		errs = append(errs, fmt.Errorf("baseline has %d stale entries", len(o.Stale)))
	}
	return ctx.Wrap(errors.Join(errs...)).BuildError()
}

func (r Request) scans() bool {
	return r.Edges == nil && r.EdgesFile == ""
}

func declarationsError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load module declarations").
		WithResource(path)
	if errors.Is(err, moddecl.ErrDeclarationsNotFound) {
		return ctx.WithIssue(issue.DeclarationsNotFoundId).
			WithSuggestion("Run 'modgate init' to generate a declaration file").
			WithSuggestion("Pass --modules to point at an existing file").
			Wrap(err).
			BuildError()
	}
	return ctx.WithIssue(issue.DeclarationsParseErrorId).
		WithSuggestion("Fix the fields named in the error").
		Wrap(err).
		BuildError()
}

func scanError(opts scan.Options, err error) error {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	return issue.NewErrorContext().
		WithOperation("scan Go packages").
		WithResource(dir).
		WithIssue(issue.ScanFailedId).
		Wrap(err).
		BuildError()
}
