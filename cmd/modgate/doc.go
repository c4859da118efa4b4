// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for modgate.
//
// The root command is built by NewRootCommand around an App, which carries
// the configuration provider and output streams. Subcommands delegate the
// work to internal/app/analyze and the report, docs and baseline packages
// and only handle flags, styling and exit codes.
package cmd
