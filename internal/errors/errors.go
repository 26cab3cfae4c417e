// Package errors provides structured error handling for the bumpver CLI.
// Errors carry a category naming what the user has to fix (their command
// line, the configuration, the project files or the git repository) and the
// steps that fix it.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory says where the cause of an error lives.
type ErrorCategory int

const (
	// Argument errors come from the command line: unknown bump kinds,
	// malformed versions passed as flags, bad flag values.
	Argument ErrorCategory = iota
	// Configuration errors come from config files or BUMPVER_* variables.
	Configuration
	// Project errors come from the version file or the changelog.
	Project
	// Repository errors come from git state: missing repository or commits,
	// existing tags, remotes that cannot be pushed to.
	Repository
	// Runtime errors are everything else.
	Runtime
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case Argument:
		return "Argument Error"
	case Configuration:
		return "Configuration Error"
	case Project:
		return "Project Error"
	case Repository:
		return "Repository Error"
	case Runtime:
		return "Runtime Error"
	default:
		return "Error"
	}
}

// CLIError is a structured error with category and remediation guidance.
type CLIError struct {
	Category ErrorCategory
	// Message is a human-readable description of what went wrong.
	Message string
	// Remediation is a list of actionable steps to resolve the error.
	Remediation []string
	// Usage shows the correct command syntax (argument errors only).
	Usage string
	// Err is the underlying error, if any.
	Err error
}

func (e *CLIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying error so errors.Is and errors.As see through
// the CLIError.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// WithUsage sets the usage line shown with the error and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// New creates a CLIError that wraps nothing.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{
		Category:    category,
		Message:     message,
		Remediation: remediation,
	}
}

// NewArgumentError creates a new argument error with the given message and remediation steps.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...)
}

// NewArgumentErrorWithUsage creates an argument error that includes correct usage syntax.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	return New(Argument, message, remediation...).WithUsage(usage)
}

// Wrap wraps err in a CLIError that keeps err's message.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     err.Error(),
		Remediation: remediation,
		Err:         err,
	}
}

// WrapWithMessage wraps err in a CLIError whose message is "message: err".
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{
		Category:    category,
		Message:     fmt.Sprintf("%s: %v", message, err),
		Remediation: remediation,
		Err:         err,
	}
}

// IsArgumentError reports whether err is or wraps a CLIError in the Argument
// category.
func IsArgumentError(err error) bool {
	cliErr := AsCLIError(err)
	return cliErr != nil && cliErr.Category == Argument
}

// IsCLIError checks if an error is or wraps a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
