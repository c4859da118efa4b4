// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "verify module boundaries"},
			expected: "failed to verify module boundaries",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "load module declarations",
				Resource:  "modgate.cue",
			},
			expected: "failed to load module declarations: modgate.cue",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load module declarations",
				Resource:  "modgate.cue",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load module declarations: modgate.cue: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := &ActionableError{Operation: "test", Cause: fmt.Errorf("context: %w", cause)}

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("no such file")
	err := &ActionableError{
		Operation:   "load module declarations",
		Resource:    "modgate.cue",
		Suggestions: []string{"Run 'modgate init'", "Pass --modules"},
		Cause:       fmt.Errorf("open modgate.cue: %w", inner),
	}

	short := err.Format(false)
	for _, want := range []string{"failed to load module declarations", "• Run 'modgate init'", "• Pass --modules"} {
		if !strings.Contains(short, want) {
			t.Errorf("Format(false) missing %q:\n%s", want, short)
		}
	}
	if strings.Contains(short, "Error chain:") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:\n  1. open modgate.cue: no such file\n  2. no such file") {
		t.Errorf("Format(true) should include the error chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("boom")
	ae := NewErrorContext().
		WithOperation("write documentation").
		WithResource("modgate-docs").
		WithSuggestion("Check permissions").
		WithSuggestions("Use --output-dir", "Retry").
		WithIssue(DocsWriteFailedId).
		Wrap(cause).
		Build()

	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if ae.Operation != "write documentation" || ae.Resource != "modgate-docs" {
		t.Errorf("unexpected context %+v", ae)
	}
	if len(ae.Suggestions) != 3 {
		t.Errorf("expected 3 suggestions, got %v", ae.Suggestions)
	}
	if !errors.Is(ae, cause) {
		t.Error("built error should wrap the cause")
	}
	if ae.Issue() == nil || ae.Issue().Id() != DocsWriteFailedId {
		t.Errorf("Issue() = %v", ae.Issue())
	}

	if NewErrorContext().Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() should be nil when unset")
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}

	cause := errors.New("bad")
	err := WrapWithContext(cause, "scan packages", "./...")
	if err.Error() != "failed to scan packages: ./...: bad" || !errors.Is(err, cause) {
		t.Errorf("unexpected error %v", err)
	}

	var ae *ActionableError
	if !errors.As(error(err), &ae) {
		t.Error("errors.As should find *ActionableError")
	}
}
