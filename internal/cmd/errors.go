package cmd

import (
	"errors"
	"os"

	"github.com/atlasgen/cli/internal/engine"
	"github.com/atlasgen/cli/internal/expr"
)

// ErrCancelled indicates a batch run was cut short by the user.
var ErrCancelled = errors.New("generation cancelled")

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var evalErr *expr.EvalError
	var uriErr *engine.InvalidURIError
	switch {
	case errors.As(err, &evalErr), errors.As(err, &uriErr):
		return ExitTemplateError
	case errors.Is(err, os.ErrNotExist):
		return ExitNotFound
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	default:
		return ExitGeneralError
	}
}
