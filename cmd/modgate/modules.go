// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/issue"
	"github.com/modgate/modgate/pkg/modgraph"
)

// newModulesCommand creates the `modgate modules` command tree.
func newModulesCommand(app *App) *cobra.Command {
	listFlags := &sourceFlags{}
	modulesCmd := &cobra.Command{
		Use:   "modules",
		Short: "List the declared modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, g, err := analyze.LoadGraph(cmd.Context(), listFlags.request(cmd, app.cfg))
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderModuleTable(g))
			return nil
		},
	}
	listFlags.register(modulesCmd)

	orderFlags := &sourceFlags{}
	orderCmd := &cobra.Command{
		Use:   "order",
		Short: "Print modules with dependencies before their dependents",
		Long: `Print the modules in dependency order: every module comes after the
modules it imports. Fails when the module dependencies contain a cycle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModulesOrder(cmd, app, orderFlags)
		},
	}
	orderFlags.register(orderCmd)
	modulesCmd.AddCommand(orderCmd)

	return modulesCmd
}

func runModulesOrder(cmd *cobra.Command, app *App, flags *sourceFlags) error {
	req := flags.request(cmd, app.cfg)
	_, g, err := analyze.LoadGraph(cmd.Context(), req)
	if err != nil {
		return app.fail(cmd, ExitFailure, err)
	}
	edges, err := analyze.LoadEdges(cmd.Context(), req, g)
	if err != nil {
		return app.fail(cmd, ExitFailure, err)
	}

	order, err := g.Order(edges)
	if err != nil {
		return app.fail(cmd, ExitProblems, issue.NewErrorContext().
			WithOperation("order modules").
			WithIssue(issue.DependencyCycleId).
			WithSuggestion("Run 'modgate verify' to see the cycle").
			Wrap(err).
			BuildError())
	}

	out := cmd.OutOrStdout()
	for i, name := range order {
		fmt.Fprintf(out, "%3d. %s\n", i+1, CmdStyle.Render(string(name)))
	}
	return nil
}

// renderModuleTable renders one row per declared module.
func renderModuleTable(g *modgraph.Graph) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		Headers("MODULE", "TITLE", "TYPE", "BASE PACKAGE", "ALLOWED DEPENDENCIES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})

	for _, m := range g.Modules() {
		t.Row(
			string(m.Name),
			m.Title(),
			visibilityBadge(m.Visibility.Effective()),
			g.BasePackage(m.Name),
			joinNames(m.AllowedDependencies),
		)
	}
	return t.String()
}

func visibilityBadge(v modgraph.Visibility) string {
	if v == modgraph.VisibilityOpen {
		return openBadgeStyle.Render(string(v))
	}
	return encapsulatedBadgeStyle.Render(string(v))
}

func joinNames(names []modgraph.ModuleName) string {
	if len(names) == 0 {
		return "-"
	}
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = string(n)
	}
	return strings.Join(parts, ", ")
}
