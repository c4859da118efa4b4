// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/report"
)

// newScanCommand creates the `modgate scan` command.
func newScanCommand(app *App) *cobra.Command {
	flags := &sourceFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print the module dependency edges found in the Go packages",
		Long: `Print one edge per import that crosses from one module into another.

The json and yaml formats use the same shape as an edges file, so the
output can be saved and passed to 'modgate verify --edges'. Edges files
are decoded as CUE, which accepts JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := report.Format(output)
			if ok, errs := format.IsValid(); !ok {
				return app.fail(cmd, ExitFailure, errs[0])
			}

			req := flags.request(cmd, app.cfg)
			// Scanning is the point of this command.
			req.EdgesFile = ""
			_, g, err := analyze.LoadGraph(cmd.Context(), req)
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			edges, err := analyze.LoadEdges(cmd.Context(), req, g)
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			if err := report.EncodeEdges(cmd.OutOrStdout(), edges, format); err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			return nil
		},
	}
	flags.registerScan(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", string(report.FormatText), "output format (text, json, yaml)")
	return cmd
}
