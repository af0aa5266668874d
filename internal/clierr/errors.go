// Package clierr gives cmd/agatecli a typed, wrap-with-context error
// shape, the same pattern the teacher's internal/util/errors.go uses
// for its SemangoError, narrowed to the CLI's own concerns (no stack
// capture — a short-lived CLI process doesn't need it the way a long
// running server does).
package clierr

import (
	"fmt"
	"log/slog"
)

// CLIError wraps an underlying error with a human message and
// structured attrs for logging.
type CLIError struct {
	OriginalErr error
	Message     string
	Attrs       []slog.Attr
}

func (e *CLIError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.OriginalErr)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error { return e.OriginalErr }

// New creates a CLIError with no underlying cause.
func New(message string, attrs ...slog.Attr) *CLIError {
	return &CLIError{Message: message, Attrs: attrs}
}

// Wrap creates a CLIError around err. If err is already a CLIError its
// attrs are carried forward and the new message is prefixed.
func Wrap(err error, message string, attrs ...slog.Attr) *CLIError {
	if err == nil {
		return New(message, attrs...)
	}
	if ce, ok := err.(*CLIError); ok {
		return &CLIError{
			OriginalErr: ce.OriginalErr,
			Message:     fmt.Sprintf("%s: %s", message, ce.Message),
			Attrs:       append(append([]slog.Attr(nil), ce.Attrs...), attrs...),
		}
	}
	return &CLIError{OriginalErr: err, Message: message, Attrs: attrs}
}

// Log reports err at ERROR level via the given logger, surfacing its
// attrs as structured fields.
func Log(logger *slog.Logger, err error) {
	if ce, ok := err.(*CLIError); ok {
		args := make([]any, 0, len(ce.Attrs)*2)
		for _, a := range ce.Attrs {
			args = append(args, a)
		}
		logger.Error(ce.Error(), args...)
		return
	}
	logger.Error(err.Error())
}
