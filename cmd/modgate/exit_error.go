// SPDX-License-Identifier: MPL-2.0

package cmd

import "fmt"

const (
	// ExitProblems is returned when verification found boundary problems.
	ExitProblems ExitCode = 1
	// ExitFailure is returned when a command could not run to completion.
	ExitFailure ExitCode = 2
)

type (
	// ExitCode is a process exit status.
	ExitCode int

	// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
	ExitError struct {
		Code ExitCode
		Err  error
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
