// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/baseline"
	"github.com/modgate/modgate/internal/report"
)

type verifyFlags struct {
	sourceFlags
	baseline       string
	updateBaseline string
	noCycles       bool
	output         string
}

// newVerifyCommand creates the `modgate verify` command.
func newVerifyCommand(app *App) *cobra.Command {
	flags := &verifyFlags{}
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check imports against the declared module boundaries",
		Long: `Check every import between modules against the declarations.

An import into an encapsulated module is a violation unless the importing
module lists it in allowed_dependencies. Imports from or into packages that
belong to no declared module are reported as unknown module references.
Module dependency cycles are reported unless --no-cycles is given.

Problems listed in a baseline file are accepted. --update-baseline writes
every current violation and unknown reference to a baseline file.

The command exits with status 1 when any problem remains.

Examples:
  modgate verify
  modgate verify --tests --output json
  modgate verify --update-baseline modgate-baseline.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, app, flags)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.baseline, "baseline", "", "baseline file of accepted problems")
	cmd.Flags().StringVar(&flags.updateBaseline, "update-baseline", "", "write the current problems to this baseline file")
	cmd.Flags().BoolVar(&flags.noCycles, "no-cycles", false, "skip module dependency cycle detection")
	cmd.Flags().StringVarP(&flags.output, "output", "o", string(report.FormatText), "output format (text, json, yaml)")
	return cmd
}

func runVerify(cmd *cobra.Command, app *App, flags *verifyFlags) error {
	format := report.Format(flags.output)
	if ok, errs := format.IsValid(); !ok {
		return app.fail(cmd, ExitFailure, errs[0])
	}

	req := flags.request(cmd, app.cfg)
	if flags.baseline != "" {
		req.BaselineFile = flags.baseline
	}
	if flags.noCycles {
		req.DetectCycles = false
	}
	if flags.updateBaseline != "" {
		// The previous baseline must not hide problems from the new one.
		req.BaselineFile = ""
	}

	outcome, err := analyze.Run(cmd.Context(), req)
	if err != nil {
		return app.fail(cmd, ExitFailure, err)
	}

	if flags.updateBaseline != "" {
		if err := updateBaseline(app, outcome, flags.updateBaseline); err != nil {
			return app.fail(cmd, ExitFailure, err)
		}
	}

	if err := report.Encode(cmd.OutOrStdout(), outcome.Result, outcome.Stale, format); err != nil {
		return app.fail(cmd, ExitFailure, err)
	}

	if problems := outcome.Err(); problems != nil {
		if format == report.FormatText {
			fmt.Fprintf(app.stderr, "%s %s\n", errorIcon, outcome.Result.Summary())
		}
		if app.verbose {
			return app.fail(cmd, ExitProblems, problems)
		}
		cmd.SilenceErrors = true
		return &ExitError{Code: ExitProblems}
	}
	return nil
}

// updateBaseline writes the unfiltered problems of outcome to path and
// re-applies the new baseline so only cycles remain in the result.
func updateBaseline(app *App, outcome *analyze.Outcome, path string) error {
	b := baseline.FromResult(outcome.Raw)
	if err := b.Write(path); err != nil {
		return err
	}
	slog.Debug("baseline written", "path", path, "entries", b.Len())
	fmt.Fprintf(app.stderr, "%s Wrote %d baseline entries to %s\n", successIcon, b.Len(), CmdStyle.Render(path))

	outcome.Baseline = b
	outcome.Result, outcome.Stale = b.Apply(outcome.Raw)
	return nil
}
