// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/modgate/modgate/internal/app/analyze"
	"github.com/modgate/modgate/internal/config"
	"github.com/modgate/modgate/internal/scan"
)

// sourceFlags selects the declarations and the dependency edges. Unset
// flags fall back to the configuration.
type sourceFlags struct {
	modules string
	edges   string
	dir     string
	tests   bool
	tags    []string
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	f.registerScan(cmd)
	cmd.Flags().StringVar(&f.edges, "edges", "", "read dependency edges from a file instead of scanning packages")
}

// registerScan registers every source flag except --edges.
func (f *sourceFlags) registerScan(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.modules, "modules", "", "module declaration file (default from config, modgate.cue)")
	cmd.Flags().StringVar(&f.dir, "dir", "", "directory of the Go module to scan (default from config, .)")
	cmd.Flags().BoolVar(&f.tests, "tests", false, "include _test.go files when scanning")
	cmd.Flags().StringSliceVar(&f.tags, "tags", nil, "build tags used when scanning")
}

// request builds the analysis request from flags layered over cfg.
func (f *sourceFlags) request(cmd *cobra.Command, cfg *config.Config) analyze.Request {
	req := analyze.Request{
		ModulesFile:  firstNonEmpty(f.modules, string(cfg.ModulesFile)),
		EdgesFile:    firstNonEmpty(f.edges, string(cfg.EdgesFile)),
		DetectCycles: cfg.Verify.DetectCycles,
		BaselineFile: string(cfg.Verify.Baseline),
		Scan: scan.Options{
			Dir:       firstNonEmpty(f.dir, string(cfg.Scan.Dir)),
			Tests:     cfg.Scan.Tests,
			BuildTags: cfg.Scan.BuildTags,
		},
	}
	if cmd.Flags().Changed("tests") {
		req.Scan.Tests = f.tests
	}
	if cmd.Flags().Changed("tags") {
		req.Scan.BuildTags = f.tags
	}
	return req
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
