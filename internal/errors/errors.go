// Package errors provides structured CLI error types for pauser.
//
// CLIError wraps errors with user-facing messages, hints, and exit codes
// to provide consistent, actionable error output.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Exit codes for CLI errors.
const (
	ExitSuccess = 0  // Successful execution
	ExitGeneral = 1  // General error
	ExitConfig  = 4  // Configuration error
	ExitUsage   = 64 // Command line usage error (BSD convention)

	// ExitFailure is returned when the child could not be launched or
	// waited on. The OS sees it as 255 on Unix and 0xFFFFFFFF on Windows.
	ExitFailure = -1
)

// CLIError represents a user-facing CLI error with actionable guidance.
type CLIError struct {
	// Message is the primary error message shown to the user.
	Message string

	// Hint provides actionable guidance on how to fix the error.
	Hint string

	// Cause is the underlying error, if any.
	Cause error

	// Code is the exit code for the CLI.
	Code int

	// Reported is set when the failure was already shown to the user, so
	// the top-level handler only maps the exit code.
	Reported bool
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// New creates a new CLIError with the given message and exit code.
func New(code int, message string) *CLIError {
	return &CLIError{
		Message: message,
		Code:    code,
	}
}

// Wrap wraps an existing error with a CLIError.
func Wrap(code int, message string, cause error) *CLIError {
	return &CLIError{
		Message: message,
		Cause:   cause,
		Code:    code,
	}
}

// WithHint adds a hint to the error.
func (e *CLIError) WithHint(hint string) *CLIError {
	e.Hint = hint
	return e
}

// MarkReported flags the error as already shown to the user.
func (e *CLIError) MarkReported() *CLIError {
	e.Reported = true
	return e
}

// As is a convenience function for errors.As with CLIError.
func As(err error, target **CLIError) bool {
	return errors.As(err, target)
}

// --- Common error constructors ---

// LaunchFailed returns an error for a child that could not be started.
func LaunchFailed(path string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Cannot execute %s", path),
		Hint:    "Check that the file exists and is executable",
		Cause:   cause,
		Code:    ExitFailure,
	}
}

// WaitFailed returns an error for a wait on the child that failed for a
// reason other than the child exiting.
func WaitFailed(path string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Lost track of %s", path),
		Hint:    "Run with --log-level=debug for more details",
		Cause:   cause,
		Code:    ExitFailure,
	}
}

// UsageMissingPath returns an error when no executable path was given.
func UsageMissingPath() *CLIError {
	return &CLIError{
		Message: "Missing executable path",
		Hint:    "Usage: pauser <file_path> [--time-limit N]",
		Code:    ExitUsage,
	}
}

// InvalidTimeLimit returns an error for a time limit below -1.
func InvalidTimeLimit(limit int) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid time limit: %d", limit),
		Hint:    "Use -1 for no limit or a non-negative number of seconds",
		Code:    ExitUsage,
	}
}

// InvalidPollInterval returns an error for a poll interval that is not positive.
func InvalidPollInterval(interval time.Duration) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Invalid poll interval: %s", interval),
		Hint:    "Use a positive duration such as 250ms or 1s",
		Code:    ExitUsage,
	}
}

// ConfigFailed returns an error for configuration load failures.
func ConfigFailed(operation string, cause error) *CLIError {
	return &CLIError{
		Message: fmt.Sprintf("Failed to %s", operation),
		Hint:    "Check your pauser config file for syntax errors",
		Cause:   cause,
		Code:    ExitConfig,
	}
}
