// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// FieldEdge marks an unknown module named by an observed edge.
	FieldEdge = "edge"
	// FieldAllowedDependencies marks an unknown module named by an allow-list entry.
	FieldAllowedDependencies = "allowed_dependencies"
)

var (
	// ErrBoundaryViolation is the sentinel error wrapped by Violation.
	ErrBoundaryViolation = errors.New("module boundary violation")
	// ErrUnknownModule is the sentinel error wrapped by UnknownModuleReference.
	ErrUnknownModule = errors.New("unknown module")
	// ErrDependencyCycle is the sentinel error wrapped by Cycle.
	ErrDependencyCycle = errors.New("module dependency cycle")
)

type (
	// Violation is an observed dependency that breaches an encapsulated
	// module's allow-list. There is one Violation per offending (From, To)
	// pair; Evidence holds every observed edge for the pair in input order.
	//
	//nolint:errname // Domain name; it also satisfies error for aggregation.
	Violation struct {
		From     ModuleName `json:"from" yaml:"from"`
		To       ModuleName `json:"to" yaml:"to"`
		Reason   string     `json:"reason" yaml:"reason"`
		Evidence []Edge     `json:"evidence,omitempty" yaml:"evidence,omitempty"`
	}

	// UnknownModuleReference reports a module name that is not in the graph.
	// It indicates a malformed graph or declaration, not a boundary breach.
	UnknownModuleReference struct {
		From ModuleName `json:"from" yaml:"from"`
		To   ModuleName `json:"to" yaml:"to"`
		// Missing is the endpoint that is not declared.
		Missing ModuleName `json:"missing" yaml:"missing"`
		// Field is FieldEdge or FieldAllowedDependencies.
		Field string `json:"field" yaml:"field"`
		// Edge is the offending observed edge, when Field is FieldEdge.
		Edge *Edge `json:"edge,omitempty" yaml:"edge,omitempty"`
	}

	// Cycle is a set of modules that depend on each other.
	//
	//nolint:errname // Domain name; it also satisfies error for aggregation.
	Cycle struct {
		// Modules are the cycle members in declaration order.
		Modules []ModuleName `json:"modules" yaml:"modules"`
		// Path walks one concrete cycle starting and ending at Modules[0].
		Path []ModuleName `json:"path" yaml:"path"`
	}

	// ValidationResult aggregates everything Verify found.
	ValidationResult struct {
		Violations        []Violation              `json:"violations" yaml:"violations"`
		UnknownReferences []UnknownModuleReference `json:"unknown_references" yaml:"unknown_references"`
		Cycles            []Cycle                  `json:"cycles" yaml:"cycles"`
	}
)

// Error implements the error interface for Violation.
func (v Violation) Error() string {
	return fmt.Sprintf("%s -> %s: %s", v.From, v.To, v.Reason)
}

// Unwrap returns ErrBoundaryViolation for errors.Is() compatibility.
func (v Violation) Unwrap() error { return ErrBoundaryViolation }

// Error implements the error interface for UnknownModuleReference.
func (r *UnknownModuleReference) Error() string {
	if r.Field == FieldAllowedDependencies {
		return fmt.Sprintf("module %q lists unknown module %q in allowed_dependencies", r.From, r.Missing)
	}
	return fmt.Sprintf("edge %s -> %s references unknown module %q", r.From, r.To, r.Missing)
}

// Unwrap returns ErrUnknownModule for errors.Is() compatibility.
func (r *UnknownModuleReference) Unwrap() error { return ErrUnknownModule }

// Error implements the error interface for Cycle.
func (c Cycle) Error() string {
	names := make([]string, len(c.Path))
	for i, n := range c.Path {
		names[i] = string(n)
	}
	return fmt.Sprintf("dependency cycle: %s", strings.Join(names, " -> "))
}

// Unwrap returns ErrDependencyCycle for errors.Is() compatibility.
func (c Cycle) Unwrap() error { return ErrDependencyCycle }

// OK reports whether nothing was found.
func (r *ValidationResult) OK() bool {
	return r.Count() == 0
}

// Count returns the total number of problems.
func (r *ValidationResult) Count() int {
	return len(r.Violations) + len(r.UnknownReferences) + len(r.Cycles)
}

// Errors returns every problem as an error value: unknown references first,
// since they indicate a malformed graph, then violations, then cycles.
func (r *ValidationResult) Errors() []error {
	errs := make([]error, 0, r.Count())
	for i := range r.UnknownReferences {
		errs = append(errs, &r.UnknownReferences[i])
	}
	for _, v := range r.Violations {
		errs = append(errs, v)
	}
	for _, c := range r.Cycles {
		errs = append(errs, c)
	}
	return errs
}

// Err returns nil when the result is OK, otherwise an error joining every
// problem. errors.Is works against ErrBoundaryViolation, ErrUnknownModule and
// ErrDependencyCycle.
func (r *ValidationResult) Err() error {
	if r.OK() {
		return nil
	}
	return errors.Join(r.Errors()...)
}

// Summary returns a one-line description of the result.
func (r *ValidationResult) Summary() string {
	if r.OK() {
		return "no module boundary problems found"
	}
	parts := make([]string, 0, 3)
	if n := len(r.Violations); n > 0 {
		parts = append(parts, fmt.Sprintf("%d violation(s)", n))
	}
	if n := len(r.UnknownReferences); n > 0 {
		parts = append(parts, fmt.Sprintf("%d unknown module reference(s)", n))
	}
	if n := len(r.Cycles); n > 0 {
		parts = append(parts, fmt.Sprintf("%d cycle(s)", n))
	}
	return strings.Join(parts, ", ")
}

// violationReason builds the Reason text of a boundary violation.
func violationReason(from, to ModuleName) string {
	return fmt.Sprintf("%s is encapsulated and %s is not an allowed dependent", to, from)
}
