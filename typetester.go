package agate

import "context"

// TypeTester infers a DataType per column from a sample of textual
// cells, grounded on the teacher's tabular.DetectSchema: for each
// column, count how each candidate type fares against the sample, then
// pick a winner. Unlike the teacher's majority-vote heuristic,
// spec.md §4.1 requires a strict "first candidate (in priority order)
// that casts every sampled non-null cell wins" rule, so that is what
// Infer implements.
type TypeTester struct {
	// Limit caps how many sampled rows per column are considered; 0
	// means consider all provided rows.
	Limit int
	// Types is the candidate priority order, most specific first. When
	// nil, DefaultTypePriority is used.
	Types []DataType
	// Force bypasses inference for the named columns.
	Force map[string]DataType
}

// DefaultTypePriority is spec.md §4.1's default candidate order.
func DefaultTypePriority() []DataType {
	return []DataType{
		NewBoolean(),
		NewNumber(),
		NewTimeDelta(),
		NewDate(),
		NewDateTime(),
		NewText(),
	}
}

// NewTypeTester builds a TypeTester with spec.md's default priority
// order and no forced columns.
func NewTypeTester() *TypeTester {
	return &TypeTester{Types: DefaultTypePriority()}
}

// Infer returns one DataType per column in columnNames, sampling up to
// Limit rows of samples[columnName]. Columns named in Force always use
// the forced type (and are not sampled). A warning is raised for any
// Force key that does not appear in columnNames.
func (tt *TypeTester) Infer(ctx context.Context, columnNames []string, samples map[string][]string) []DataType {
	types := tt.Types
	if types == nil {
		types = DefaultTypePriority()
	}

	known := make(map[string]bool, len(columnNames))
	for _, name := range columnNames {
		known[name] = true
	}
	for forced := range tt.Force {
		if !known[forced] {
			warnForceColumnMissing(ctx, forced)
		}
	}

	result := make([]DataType, len(columnNames))
	for i, name := range columnNames {
		if forced, ok := tt.Force[name]; ok {
			result[i] = forced
			continue
		}
		result[i] = tt.inferColumn(samples[name], types)
	}
	return result
}

func (tt *TypeTester) inferColumn(cells []string, types []DataType) DataType {
	limited := cells
	if tt.Limit > 0 && tt.Limit < len(cells) {
		limited = cells[:tt.Limit]
	}

	for _, candidate := range types {
		if castsAll(candidate, limited) {
			return candidate
		}
	}
	// Text (the last candidate by convention) is the universal
	// fallback; if callers omitted it, fall back to a fresh one so
	// Infer always returns a usable type.
	return NewText()
}

func castsAll(dt DataType, cells []string) bool {
	for _, cell := range cells {
		v, err := dt.Cast(cell)
		if err != nil {
			return false
		}
		_ = v
	}
	return true
}
