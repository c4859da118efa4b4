// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DiagramStyleUML renders plain PlantUML component diagrams.
	// Defined locally to avoid coupling config to internal/docs.
	DiagramStyleUML DiagramStyle = "uml"
	// DiagramStyleC4 renders C4 component diagrams.
	DiagramStyleC4 DiagramStyle = "c4"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidDiagramStyle is returned when a DiagramStyle value is not recognized.
	ErrInvalidDiagramStyle = errors.New("invalid diagram style")
	// ErrInvalidFilePath is the sentinel error wrapped by InvalidFilePathError.
	ErrInvalidFilePath = errors.New("invalid file path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// DiagramStyle selects the PlantUML dialect of generated diagrams.
	DiagramStyle string

	// InvalidDiagramStyleError is returned when a DiagramStyle value is not recognized.
	InvalidDiagramStyleError struct {
		Value DiagramStyle
	}

	// FilePath is a configured filesystem path. The zero value is valid and
	// means "not set"; non-zero values must not be whitespace-only.
	FilePath string

	// InvalidFilePathError is returned when a FilePath value is whitespace-only.
	InvalidFilePathError struct {
		Value FilePath
	}

	// InvalidConfigError collects the field-level validation errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ModulesFile is the module declaration file.
		ModulesFile FilePath `json:"modules_file" mapstructure:"modules_file"`
		// EdgesFile, when set, replaces package scanning with a file of edges.
		EdgesFile FilePath `json:"edges_file,omitempty" mapstructure:"edges_file"`
		// Scan configures the Go package scanner.
		Scan ScanConfig `json:"scan" mapstructure:"scan"`
		// Verify configures boundary verification.
		Verify VerifyConfig `json:"verify" mapstructure:"verify"`
		// Docs configures documentation output.
		Docs DocsConfig `json:"docs" mapstructure:"docs"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ScanConfig configures the Go package scanner.
	ScanConfig struct {
		Dir       FilePath `json:"dir" mapstructure:"dir"`
		Tests     bool     `json:"tests" mapstructure:"tests"`
		BuildTags []string `json:"build_tags,omitempty" mapstructure:"build_tags"`
	}

	// VerifyConfig configures boundary verification.
	VerifyConfig struct {
		// DetectCycles reports module dependency cycles (default: true).
		DetectCycles bool `json:"detect_cycles" mapstructure:"detect_cycles"`
		// Baseline is a file of accepted problems.
		Baseline FilePath `json:"baseline,omitempty" mapstructure:"baseline"`
	}

	// DocsConfig configures documentation output.
	DocsConfig struct {
		OutputDir FilePath     `json:"output_dir" mapstructure:"output_dir"`
		Style     DiagramStyle `json:"style" mapstructure:"style"`
		APIBase   string       `json:"api_base,omitempty" mapstructure:"api_base"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ModulesFile: "modgate.cue",
		Scan: ScanConfig{
			Dir:       ".",
			BuildTags: []string{},
		},
		Verify: VerifyConfig{
			DetectCycles: true,
		},
		Docs: DocsConfig{
			OutputDir: "modgate-docs",
			Style:     DiagramStyleUML,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// IsValid returns whether the Config has valid fields, collecting every
// field error.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	collect := func(valid bool, fieldErrs []error) {
		if !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	collect(c.ModulesFile.IsValid())
	collect(c.EdgesFile.IsValid())
	collect(c.Scan.Dir.IsValid())
	collect(c.Verify.Baseline.IsValid())
	collect(c.Docs.OutputDir.IsValid())
	collect(c.Docs.Style.IsValid())
	collect(c.UI.ColorScheme.IsValid())
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the FilePath.
func (p FilePath) String() string { return string(p) }

// IsValid returns whether the FilePath is valid.
func (p FilePath) IsValid() (bool, []error) {
	if p != "" && strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidFilePathError.
func (e *InvalidFilePathError) Error() string {
	return fmt.Sprintf("invalid file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidFilePath for errors.Is() compatibility.
func (e *InvalidFilePathError) Unwrap() error { return ErrInvalidFilePath }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidDiagramStyleError.
func (e *InvalidDiagramStyleError) Error() string {
	return fmt.Sprintf("invalid diagram style %q (valid: uml, c4)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidDiagramStyleError) Unwrap() error {
	return ErrInvalidDiagramStyle
}

// String returns the string representation of the DiagramStyle.
func (s DiagramStyle) String() string { return string(s) }

// IsValid returns whether the DiagramStyle is one of the defined styles.
func (s DiagramStyle) IsValid() (bool, []error) {
	switch s {
	case DiagramStyleUML, DiagramStyleC4:
		return true, nil
	default:
		return false, []error{&InvalidDiagramStyleError{Value: s}}
	}
}
