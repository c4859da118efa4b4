// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/issue"
	"github.com/modgate/modgate/internal/scan"
	"github.com/modgate/modgate/pkg/moddecl"
)

// newInitCommand creates the `modgate init` command.
func newInitCommand(app *App) *cobra.Command {
	var (
		dir   string
		force bool
	)
	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Propose a module declaration file from the package layout",
		Long: `Create a module declaration file with one encapsulated module per
direct subpackage of the Go module in --dir.

The generated file is a starting point: mark shared modules as open and
list the allowed dependencies of each module, then run 'modgate verify'.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := firstNonEmpty(string(app.cfg.ModulesFile), moddecl.DefaultFileName)
			if len(args) > 0 {
				filename = args[0]
			}

			if _, err := os.Stat(filename); err == nil && !force {
				return app.fail(cmd, ExitFailure, fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename))
			}

			opts := scan.Options{Dir: firstNonEmpty(dir, string(app.cfg.Scan.Dir))}
			discovered, err := scan.Discover(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, ExitFailure, issue.NewErrorContext().
					WithOperation("discover modules").
					WithResource(opts.Dir).
					WithIssue(issue.ScanFailedId).
					Wrap(err).
					BuildError())
			}

			content := moddecl.Generate(&moddecl.Declarations{
				Root:    discovered.Root,
				Modules: discovered.Modules,
			})
			if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
				return app.fail(cmd, ExitFailure, fmt.Errorf("failed to write file: %w", err))
			}

			out := cmd.OutOrStdout()
			absPath, _ := filepath.Abs(filename)
			fmt.Fprintf(out, "%s Created %s with %d module(s)\n", successIcon, absPath, len(discovered.Modules))
			fmt.Fprintln(out)
			fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
			fmt.Fprintln(out, "  1. Mark shared modules as type: \"open\"")
			fmt.Fprintln(out, "  2. List allowed_dependencies for encapsulated modules")
			fmt.Fprintln(out, "  3. Run 'modgate verify'")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "directory of the Go module (default from config, .)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}
