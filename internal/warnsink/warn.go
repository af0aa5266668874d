// Package warnsink implements the single "warn channel" that spec.md §7
// requires: aggregations, computations and construction all report
// non-fatal situations (duplicate names, excluded nulls, auto-naming)
// through one context-scoped sink instead of writing to a fixed stream.
//
// The context-threading shape is the same one the teacher's
// internal/util/log.go uses for *slog.Logger: a context key holds an
// override, Emit falls back to a package-level default.
package warnsink

import (
	"context"
	"fmt"
	"log/slog"
)

// Warning is a single non-fatal diagnostic raised by the core.
type Warning struct {
	// Code identifies the situation, e.g. "duplicate_column_name",
	// "null_calculation", "row_padded", "row_truncated", "force_column_missing".
	Code    string
	Message string
	Attrs   []slog.Attr
}

// Sink receives Warnings. The default Sink logs at WARN via log/slog.
type Sink func(Warning)

type contextKey struct{}

var defaultSink Sink = func(w Warning) {
	args := make([]any, 0, len(w.Attrs)*2+2)
	args = append(args, "code", w.Code)
	for _, a := range w.Attrs {
		args = append(args, a)
	}
	slog.Warn(w.Message, args...)
}

// WithSink installs sink as the warning receiver for ctx and its children.
// Passing nil installs a no-op sink, which is how a caller suppresses
// warnings entirely per spec.md §7.
func WithSink(ctx context.Context, sink Sink) context.Context {
	if sink == nil {
		sink = func(Warning) {}
	}
	return context.WithValue(ctx, contextKey{}, sink)
}

// Emit delivers w to ctx's installed Sink, or the default logging Sink
// if none was installed.
func Emit(ctx context.Context, w Warning) {
	if sink, ok := ctx.Value(contextKey{}).(Sink); ok {
		sink(w)
		return
	}
	defaultSink(w)
}

// Warnf is a convenience for the common case of a one-line message with
// no structured attrs.
func Warnf(ctx context.Context, code, format string, args ...any) {
	Emit(ctx, Warning{Code: code, Message: fmt.Sprintf(format, args...)})
}
