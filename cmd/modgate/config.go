// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/config"
)

// newConfigCommand creates the `modgate config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage modgate configuration",
		Long: `Manage modgate configuration.

Configuration is read from the first of:
  - the file given with --config
  - config.cue in the user config directory (e.g. ~/.config/modgate)
  - config.cue in the current directory

Every key can be overridden with a MODGATE_ environment variable, for
example MODGATE_DOCS_STYLE=c4.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: app.configFile})
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}

			out := cmd.OutOrStdout()
			source := SubtitleStyle.Render("(using defaults)")
			if res.Path != "" {
				source = res.Path
			}
			fmt.Fprintf(out, "// Config file: %s\n\n", source)
			fmt.Fprint(out, config.GenerateCUE(res.Config))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig()
			if err != nil {
				return app.fail(cmd, ExitFailure, fmt.Errorf("failed to create config: %w", err))
			}
			if !created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration already exists at %s\n", warningIcon, path)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created default configuration at %s\n", successIcon, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.DefaultConfigPath()
			if err != nil {
				return app.fail(cmd, ExitFailure, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	return cfgCmd
}
