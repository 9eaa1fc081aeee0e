package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/planner/internal/logger"
)

// InputError marks a failure caused by a bad argument or flag rather than
// by the environment. Commands exit with status 2 for these.
type InputError struct {
	msg string
	err error
}

func (e *InputError) Error() string {
	return e.msg
}

func (e *InputError) Unwrap() error {
	return e.err
}

// Invalidf returns an InputError with a formatted message.
func Invalidf(format string, args ...interface{}) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// Invalid marks err as an input error. errors.Is still sees err.
func Invalid(err error) error {
	if err == nil {
		return nil
	}
	return &InputError{msg: err.Error(), err: err}
}

// IsInput reports whether err or anything it wraps is an InputError.
func IsInput(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsInput(err):
		return 2
	default:
		return 1
	}
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs err and exits with the status from ExitCode.
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(ExitCode(err))
	}
}
