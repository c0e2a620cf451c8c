// Package outcome classifies the result of the application's action into
// the fixed set of outcomes the process can report, and owns the mapping
// from each outcome to its exit code and user-facing message.
package outcome

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/greetgo/internal/correlation"
)

// Process exit codes. ExitUsage is produced by the argument parser before
// the application proper ever runs.
const (
	ExitSuccess     = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130 // 128 + SIGINT
)

// Kind identifies one of the outcomes an invocation can end with.
type Kind int

const (
	// Success means the action completed and nothing needs reporting.
	Success Kind = iota
	// Diagnosed is a failure the application recognized; its message is
	// shown to the user verbatim.
	Diagnosed
	// Interrupted means the user cancelled the invocation.
	Interrupted
	// Unexpected is any other failure; the user gets a correlation ID
	// instead of the raw error.
	Unexpected
)

// String returns the lowercase name of the kind, for logs and tests.
func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Diagnosed:
		return "diagnosed"
	case Interrupted:
		return "interrupted"
	case Unexpected:
		return "unexpected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// AppError is a failure the application diagnosed itself. Msg is written
// for the user; Err preserves the underlying cause for the logs.
type AppError struct {
	Msg string
	Err error
}

// NewAppError wraps cause in a diagnosed error carrying a user-facing message.
func NewAppError(msg string, cause error) *AppError {
	return &AppError{Msg: msg, Err: cause}
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Msg }

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *AppError) Unwrap() error { return e.Err }

// Outcome is the classified result of one invocation.
type Outcome struct {
	Kind          Kind
	Message       string // user-facing message, set for Diagnosed
	CorrelationID string // set for Unexpected
	Err           error  // underlying error, nil on Success
}

// Classify maps the error returned by the application's action to an
// Outcome. A nil error is success, an AppError anywhere in the chain is a
// diagnosed failure, a context cancellation is a user interruption, and
// everything else is unexpected and gets a fresh correlation ID minted.
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Kind: Success}
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return Outcome{Kind: Diagnosed, Message: appErr.Msg, Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return Outcome{Kind: Interrupted, Err: err}
	}
	return Outcome{Kind: Unexpected, CorrelationID: correlation.NewID(), Err: err}
}

// ExitCode returns the process exit code for the outcome.
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case Success:
		return ExitSuccess
	case Interrupted:
		return ExitInterrupted
	default:
		return ExitFailure
	}
}

// UserMessage returns the text to print on the error stream for this
// outcome, or an empty string when nothing should be printed. Unexpected
// failures surface only the correlation ID and where to look next; the raw
// error stays in the logs.
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case Diagnosed:
		return fmt.Sprintf("Error: %s", o.Message)
	case Interrupted:
		return "\nApplication interrupted by user."
	case Unexpected:
		return fmt.Sprintf("An unexpected error occurred. Error ID: %s\nPlease check the log files for more details.", o.CorrelationID)
	default:
		return ""
	}
}
