// Package cli implements the easegen command line: configuration loading,
// the cobra commands and their exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/syssam/ease/compiler/gen"
)

// Exit codes of easegen.
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitConfig  = 2
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ConfigError creates an ExitError with the ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// GeneralError creates an ExitError with the ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}

// generationError classifies a generator failure: invalid options are
// configuration errors, everything else is a generation failure.
func generationError(msg string, err error) *ExitError {
	if gen.IsConfigError(err) {
		return ConfigError(msg, err)
	}
	return GeneralError(msg, err)
}

// ExitCode returns the exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	// Errors not wrapped by a command come from cobra's flag and argument
	// validation.
	return ExitConfig
}

// PrintError writes err to w in the form shown to users.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
}
