// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

const (
	// VisibilityOpen allows any module to depend on the module.
	VisibilityOpen Visibility = "open"
	// VisibilityEncapsulated allows only modules that list the module in their
	// allowed dependencies to depend on it.
	VisibilityEncapsulated Visibility = "encapsulated"

	// MaxModuleNameLength is the maximum allowed length for a module name.
	MaxModuleNameLength = 256
)

var (
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")
	// ErrInvalidVisibility is the sentinel error wrapped by InvalidVisibilityError.
	ErrInvalidVisibility = errors.New("invalid visibility")

	// moduleNamePattern accepts lowercase identifiers with optional dot-separated
	// segments, e.g. "featureone", "billing.invoices", "user-profile".
	moduleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*(\.[a-z][a-z0-9_-]*)*$`)
)

type (
	// ModuleName uniquely identifies a module within a Graph.
	ModuleName string

	// InvalidModuleNameError is returned when a ModuleName does not match the
	// naming rules. It wraps ErrInvalidModuleName for errors.Is() compatibility.
	InvalidModuleNameError struct {
		Value  ModuleName
		Reason string
	}

	// Visibility controls which modules may depend on a module.
	Visibility string

	// InvalidVisibilityError is returned when a Visibility value is not recognized.
	// It wraps ErrInvalidVisibility for errors.Is() compatibility.
	InvalidVisibilityError struct {
		Value Visibility
	}

	// Module is a single module declaration.
	Module struct {
		// Name is the unique module identifier.
		Name ModuleName `json:"name" yaml:"name"`
		// DisplayName is a human readable name used in documentation (optional).
		DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`
		// Visibility is open or encapsulated. The zero value is treated as encapsulated.
		Visibility Visibility `json:"type,omitempty" yaml:"type,omitempty"`
		// AllowedDependencies names the encapsulated modules this module may depend on.
		AllowedDependencies []ModuleName `json:"allowed_dependencies,omitempty" yaml:"allowed_dependencies,omitempty"`
		// BasePackage is the Go import path owning the module's packages.
		// Empty means "<root>/<name>" with dots in the name mapped to slashes.
		BasePackage string `json:"base_package,omitempty" yaml:"base_package,omitempty"`
	}

	// Position locates the source of an observed edge.
	Position struct {
		Filename string `json:"filename" yaml:"filename"`
		Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
		Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
	}

	// Edge is an observed reference from code in one module to code in another.
	Edge struct {
		From ModuleName `json:"from" yaml:"from"`
		To   ModuleName `json:"to" yaml:"to"`
		// FromPackage and ToPackage are the packages that produced the edge (optional).
		FromPackage string `json:"from_package,omitempty" yaml:"from_package,omitempty"`
		ToPackage   string `json:"to_package,omitempty" yaml:"to_package,omitempty"`
		// Position is where the reference was found (optional).
		Position *Position `json:"position,omitempty" yaml:"position,omitempty"`
	}
)

// String returns the string representation of the ModuleName.
func (n ModuleName) String() string { return string(n) }

// IsValid returns whether the ModuleName follows the naming rules.
func (n ModuleName) IsValid() (bool, []error) {
	switch {
	case n == "":
		return false, []error{&InvalidModuleNameError{Value: n, Reason: "must not be empty"}}
	case len(n) > MaxModuleNameLength:
		return false, []error{&InvalidModuleNameError{
			Value:  n,
			Reason: fmt.Sprintf("exceeds %d characters", MaxModuleNameLength),
		}}
	case !moduleNamePattern.MatchString(string(n)):
		return false, []error{&InvalidModuleNameError{
			Value:  n,
			Reason: "must start with a lowercase letter and contain only lowercase letters, digits, '_' or '-', with optional dot-separated segments",
		}}
	}
	return true, nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: %s", e.Value, e.Reason)
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }

// String returns the string representation of the Visibility.
func (v Visibility) String() string { return string(v) }

// IsValid returns whether the Visibility is one of the defined values.
// The zero value is valid and means encapsulated.
func (v Visibility) IsValid() (bool, []error) {
	switch v {
	case "", VisibilityOpen, VisibilityEncapsulated:
		return true, nil
	default:
		return false, []error{&InvalidVisibilityError{Value: v}}
	}
}

// Effective resolves the zero value to VisibilityEncapsulated.
func (v Visibility) Effective() Visibility {
	if v == "" {
		return VisibilityEncapsulated
	}
	return v
}

// Error implements the error interface for InvalidVisibilityError.
func (e *InvalidVisibilityError) Error() string {
	return fmt.Sprintf("invalid visibility %q (valid: open, encapsulated)", e.Value)
}

// Unwrap returns ErrInvalidVisibility for errors.Is() compatibility.
func (e *InvalidVisibilityError) Unwrap() error { return ErrInvalidVisibility }

// Title returns the display name, falling back to the module name.
func (m Module) Title() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return string(m.Name)
}

// IsOpen reports whether any module may depend on m.
func (m Module) IsOpen() bool {
	return m.Visibility.Effective() == VisibilityOpen
}

// Allows reports whether m declares target as an allowed dependency.
func (m Module) Allows(target ModuleName) bool {
	return slices.Contains(m.AllowedDependencies, target)
}

// clone returns a deep copy so a Graph never shares slices with its caller.
func (m Module) clone() Module {
	m.AllowedDependencies = slices.Clone(m.AllowedDependencies)
	return m
}

// String renders the position as file:line:column, omitting zero parts.
func (p *Position) String() string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.Filename)
	if p.Line > 0 {
		fmt.Fprintf(&sb, ":%d", p.Line)
		if p.Column > 0 {
			fmt.Fprintf(&sb, ":%d", p.Column)
		}
	}
	return sb.String()
}

// String renders the edge as "from -> to".
func (e Edge) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}
