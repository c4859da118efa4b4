// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modgate/modgate/internal/config"
	"github.com/modgate/modgate/internal/testutil"
)

const demoDir = "../../internal/scan/testdata/demo"

// Declarations for the demo module that accept every non-test import.
const demoModules = `
modules: [
	{name: "featureone", type: "open", allowed_dependencies: ["infrastructure"]},
	{name: "infrastructure", type: "open"},
	{name: "reporting"},
	{name: "legacy", type: "open"},
]
`

type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

// runCLI executes the root command with args against the default
// configuration and returns what was written to stdout and stderr.
//
// Tests in this package do not run in parallel: every command installs its
// logger as the slog default.
func runCLI(t *testing.T, provider ConfigProvider, args ...string) (string, string, error) {
	t.Helper()

	if provider == nil {
		provider = staticConfig{cfg: config.DefaultConfig()}
	}
	var stdout, stderr bytes.Buffer
	app := NewApp(Dependencies{Config: provider, Stdout: &stdout, Stderr: &stderr})
	root := NewRootCommand(app)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeModules(t *testing.T, content string) string {
	t.Helper()
	return testutil.WriteTempFile(t, "modgate.cue", content)
}

func exitCode(t *testing.T, err error) ExitCode {
	t.Helper()

	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected *ExitError, got %T: %v", err, err)
	}
	return exitErr.Code
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.
	origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
	t.Cleanup(func() {
		Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
	})

	Version, Commit, BuildDate = "v1.2.3", "abc1234", "2026-06-15T10:00:00Z"
	if got, want := getVersionString(), "v1.2.3 (commit: abc1234, built: 2026-06-15T10:00:00Z)"; got != want {
		t.Errorf("getVersionString() = %q, want %q", got, want)
	}

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("boom")
	err := &ExitError{Code: ExitFailure, Err: cause}
	if !errors.Is(err, cause) || err.Error() != "boom" {
		t.Errorf("ExitError should wrap its cause, got %v", err)
	}
	if got := (&ExitError{Code: ExitProblems}).Error(); got != "exit status 1" {
		t.Errorf("Error() = %q", got)
	}
}

func TestInitialize_BrokenConfigFallsBackToDefaults(t *testing.T) {
	var stderr bytes.Buffer
	app := NewApp(Dependencies{
		Config: staticConfig{err: errors.New("config.cue: ui.color_scheme: invalid value")},
		Stdout: &bytes.Buffer{},
		Stderr: &stderr,
	})
	app.initialize(context.Background())

	if !strings.Contains(stderr.String(), "Warning: ") || !strings.Contains(stderr.String(), "ui.color_scheme") {
		t.Errorf("expected a warning naming the config problem, got %q", stderr.String())
	}
	if app.cfg.ModulesFile != config.DefaultConfig().ModulesFile {
		t.Errorf("expected default config, got %+v", app.cfg)
	}
}

func TestInitialize_VerboseFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.UI.Verbose = true
	cfg.UI.ColorScheme = config.ColorSchemeLight

	app := NewApp(Dependencies{Config: staticConfig{cfg: cfg}, Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}})
	app.initialize(context.Background())

	if !app.verbose {
		t.Error("ui.verbose should enable verbose output")
	}
	if got := app.glamourStyle(); got != "light" {
		t.Errorf("glamourStyle() = %q, want light", got)
	}
}

func TestConfigPath(t *testing.T) {
	// Not parallel: the config dir override is package state.
	dir := t.TempDir()
	config.SetConfigDirOverride(dir)
	t.Cleanup(config.Reset)

	stdout, _, err := runCLI(t, nil, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if got, want := strings.TrimSpace(stdout), filepath.Join(dir, "config.cue"); got != want {
		t.Errorf("config path = %q, want %q", got, want)
	}

	stdout, _, err = runCLI(t, nil, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(stdout, "Created default configuration") {
		t.Errorf("unexpected output %q", stdout)
	}
	testutil.RequireFiles(t, filepath.Join(dir, "config.cue"))

	stdout, _, err = runCLI(t, nil, "config", "init")
	if err != nil || !strings.Contains(stdout, "already exists") {
		t.Errorf("second config init: err=%v output=%q", err, stdout)
	}
}
