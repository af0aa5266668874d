package agate

import "strings"

// nullSentinel is the unique value every DataType.Cast returns for a
// null cell. Null is its only instance; cells are never a nil any and
// never a typed nil pointer, so `cell == agate.Null` is always the
// correct null check regardless of column type.
type nullSentinel struct{}

func (nullSentinel) String() string { return "" }

// Null is the sentinel native value for an absent cell, shared by every
// DataType.
var Null = nullSentinel{}

// IsNull reports whether v is the null sentinel.
func IsNull(v any) bool {
	_, ok := v.(nullSentinel)
	return ok
}

// DataType parses textual input into a typed native value, serializes
// native values back to text/JSON, and defines which strings mean
// "null" for that column. Implementations are immutable value types;
// Text, Number, Boolean, Date, DateTime and TimeDelta satisfy it.
type DataType interface {
	// Name identifies the type for error messages and introspection,
	// e.g. "Text", "Number".
	Name() string

	// Cast converts a raw cell (typically a string, but also a native
	// value of a compatible kind, or nil) into this type's native
	// representation, or Null. It returns *CastError on failure; that
	// error's Row is -1 and its Column empty, for the caller (Table
	// construction, Computation.Run) to fill in.
	Cast(value any) (any, error)

	// CastToText renders a native value (or Null) as a CSV-safe string.
	CastToText(value any) string

	// CastToJSON renders a native value (or Null) as a JSON-marshalable
	// value.
	CastToJSON(value any) any

	// Equal reports whether other is the same DataType configured the
	// same way (used by Table.Merge to validate that a column name
	// shared across input tables agrees on type).
	Equal(other DataType) bool
}

// DefaultNullValues is the case-insensitive set of strings every
// DataType treats as null unless configured otherwise.
var DefaultNullValues = []string{"", "na", "n/a", "none", "null", ".", "-"}

// nullValues is embedded by every concrete DataType to implement the
// configurable null-string recognition spec.md §3 requires.
type nullValues struct {
	set map[string]struct{}
}

func newNullValues(custom []string) nullValues {
	vals := custom
	if vals == nil {
		vals = DefaultNullValues
	}
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[strings.ToLower(v)] = struct{}{}
	}
	return nullValues{set: set}
}

func (n nullValues) isNull(s string) bool {
	_, ok := n.set[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

func (n nullValues) equalSet(o nullValues) bool {
	if len(n.set) != len(o.set) {
		return false
	}
	for k := range n.set {
		if _, ok := o.set[k]; !ok {
			return false
		}
	}
	return true
}
