package cli

import (
	"errors"
	"fmt"

	clierrors "github.com/patchcycle/bumpver/internal/errors"
	"github.com/patchcycle/bumpver/internal/semver"
)

// Exit codes for the bumpver CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates the command failed
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments, including a
	// version that is not MAJOR.MINOR.PATCH
	ExitInvalidArguments = 3
)

// ExitError carries an exit code for failures whose message was already
// printed by the command.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an ExitError with the given code.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

func silentExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if code, ok := silentExitCode(err); ok {
		return code
	}
	if errors.Is(err, semver.ErrInvalidArgument) || errors.Is(err, semver.ErrInvalidVersionFormat) {
		return ExitInvalidArguments
	}
	if clierrors.IsArgumentError(err) {
		return ExitInvalidArguments
	}
	return ExitFailure
}
