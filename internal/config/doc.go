// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is looked up, in order, at the path given with --config, at
// config.cue in the user configuration directory ($XDG_CONFIG_HOME/modgate on
// Linux, ~/Library/Application Support/modgate on macOS, %APPDATA%\modgate on
// Windows) and at config.cue in the current directory. Files are validated
// against an embedded CUE schema (config_schema.cue). Every key can be
// overridden through MODGATE_* environment variables, e.g.
// MODGATE_DOCS_OUTPUT_DIR.
package config
