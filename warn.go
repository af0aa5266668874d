package agate

import (
	"context"
	"log/slog"

	"github.com/wireservice/agate-go/internal/warnsink"
)

// WithWarnSink installs sink as the receiver of every Warning this
// package raises for the lifetime of ctx, per spec.md §7's single warn
// channel. Passing nil suppresses warnings entirely.
func WithWarnSink(ctx context.Context, sink func(warnsink.Warning)) context.Context {
	return warnsink.WithSink(ctx, warnsink.Sink(sink))
}

func warnForceColumnMissing(ctx context.Context, column string) {
	warnsink.Emit(ctx, warnsink.Warning{
		Code:    "force_column_missing",
		Message: "TypeTester.Force names a column that does not exist: " + column,
		Attrs:   []slog.Attr{slog.String("column", column)},
	})
}

func warnDuplicateName(ctx context.Context, kind, original, assigned string) {
	warnsink.Emit(ctx, warnsink.Warning{
		Code:    "duplicate_" + kind + "_name",
		Message: "duplicate " + kind + " name " + original + " disambiguated to " + assigned,
		Attrs:   []slog.Attr{slog.String("original", original), slog.String("assigned", assigned)},
	})
}

func warnRowPadded(ctx context.Context, row, width, have int) {
	warnsink.Emit(ctx, warnsink.Warning{
		Code:    "row_padded",
		Message: "row shorter than schema, padded with nulls",
		Attrs:   []slog.Attr{slog.Int("row", row), slog.Int("width", width), slog.Int("have", have)},
	})
}

func warnRowTruncated(ctx context.Context, row, width, have int) {
	warnsink.Emit(ctx, warnsink.Warning{
		Code:    "row_truncated",
		Message: "row longer than schema, truncated",
		Attrs:   []slog.Attr{slog.Int("row", row), slog.Int("width", width), slog.Int("have", have)},
	})
}

func warnNullCalculation(ctx context.Context, aggregation, column string) {
	warnsink.Emit(ctx, warnsink.Warning{
		Code:    "null_calculation",
		Message: aggregation + " excluded null values from column " + column,
		Attrs:   []slog.Attr{slog.String("aggregation", aggregation), slog.String("column", column)},
	})
}
