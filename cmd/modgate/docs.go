// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/docs"
	"github.com/modgate/modgate/internal/issue"
	"github.com/modgate/modgate/pkg/modgraph"
)

type docsFlags struct {
	sourceFlags
	outputDir string
	style     string
	apiBase   string
}

// newDocsCommand creates the `modgate docs` command tree.
func newDocsCommand(app *App) *cobra.Command {
	flags := &docsFlags{}
	docsCmd := &cobra.Command{
		Use:   "docs",
		Short: "Write module diagrams and canvases",
		Long: `Write PlantUML component diagrams and markdown module canvases.

The output directory receives:
  components.puml        every module and the dependencies between them
  module-<name>.puml     one module with its direct neighbours
  module-<name>.md       the canvas of one module
  all-docs.md            every canvas in one document

Imports that violate a boundary are drawn as red dotted arrows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocs(cmd, app, flags)
		},
	}
	flags.register(docsCmd)
	docsCmd.PersistentFlags().StringVar(&flags.outputDir, "output-dir", "", "directory to write to (default from config, modgate-docs)")
	docsCmd.PersistentFlags().StringVar(&flags.style, "style", "", "diagram style: uml or c4 (default from config, uml)")
	docsCmd.PersistentFlags().StringVar(&flags.apiBase, "api-base", "", "base URL linked from each canvas")

	showCmd := &cobra.Command{
		Use:   "show <module>",
		Short: "Render the canvas of one module in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsShow(cmd, app, flags, modgraph.ModuleName(args[0]))
		},
	}
	flags.sourceFlags.register(showCmd)
	docsCmd.AddCommand(showCmd)

	return docsCmd
}

func runDocs(cmd *cobra.Command, app *App, flags *docsFlags) error {
	documenter, err := newDocumenter(cmd, app, flags)
	if err != nil {
		return app.fail(cmd, ExitFailure, err)
	}

	paths, err := documenter.WriteAll(cmd.Context())
	if err != nil {
		return app.fail(cmd, ExitFailure, issue.NewErrorContext().
			WithOperation("write module documentation").
			WithResource(documenter.OutputDir()).
			WithIssue(issue.DocsWriteFailedId).
			Wrap(err).
			BuildError())
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		fmt.Fprintf(out, "%s %s\n", successIcon, p)
	}
	fmt.Fprintf(out, "%s\n", SubtitleStyle.Render(fmt.Sprintf("%d files written to %s", len(paths), documenter.OutputDir())))
	return nil
}

func runDocsShow(cmd *cobra.Command, app *App, flags *docsFlags, name modgraph.ModuleName) error {
	documenter, err := newDocumenter(cmd, app, flags)
	if err != nil {
		return app.fail(cmd, ExitFailure, err)
	}

	canvas, err := documenter.Canvas(name)
	if err != nil {
		return app.fail(cmd, ExitFailure, issue.NewErrorContext().
			WithOperation("render module canvas").
			WithResource(string(name)).
			WithSuggestion("Run 'modgate modules' to list the declared modules").
			Wrap(err).
			BuildError())
	}

	rendered, err := glamour.Render(canvas, app.glamourStyle())
	if err != nil {
		// Fall back to the raw markdown.
		rendered = canvas
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// newDocumenter loads the graph and edges and applies the docs flags over
// the configuration.
func newDocumenter(cmd *cobra.Command, app *App, flags *docsFlags) (*docs.Documenter, error) {
	req := flags.request(cmd, app.cfg)
	_, g, err := analyze.LoadGraph(cmd.Context(), req)
	if err != nil {
		return nil, err
	}
	edges, err := analyze.LoadEdges(cmd.Context(), req, g)
	if err != nil {
		return nil, err
	}

	opts := docs.Options{
		OutputDir: firstNonEmpty(flags.outputDir, string(app.cfg.Docs.OutputDir)),
		Diagram: docs.DiagramOptions{
			Style: docs.DiagramStyle(firstNonEmpty(flags.style, string(app.cfg.Docs.Style))),
		},
		Canvas: docs.CanvasOptions{
			APIBase: firstNonEmpty(flags.apiBase, app.cfg.Docs.APIBase),
		},
	}
	return docs.New(g, edges, opts)
}
