package agate

import "fmt"

// CastError is raised when a non-null input cannot be parsed by a
// DataType's Cast. It carries enough context for a caller to locate the
// offending cell: the raw input and the type that rejected it, plus
// optional row/column context filled in by Table construction and
// Computation.Run.
type CastError struct {
	Input    any
	TypeName string
	Row      int    // -1 when not applicable (e.g. a bare DataType.Cast call)
	Column   string // "" when not applicable
	Err      error
}

func (e *CastError) Error() string {
	switch {
	case e.Row >= 0 && e.Column != "":
		return fmt.Sprintf("agate: cannot cast %v to %s (row %d, column %q): %v", e.Input, e.TypeName, e.Row, e.Column, e.Err)
	case e.Column != "":
		return fmt.Sprintf("agate: cannot cast %v to %s (column %q): %v", e.Input, e.TypeName, e.Column, e.Err)
	default:
		return fmt.Sprintf("agate: cannot cast %v to %s: %v", e.Input, e.TypeName, e.Err)
	}
}

func (e *CastError) Unwrap() error { return e.Err }

// DataTypeError is raised when an operation (a Computation or
// Aggregation) is applied to a column whose DataType is incompatible
// with what the operation requires.
type DataTypeError struct {
	Column   string
	Expected string
	Actual   string
}

func (e *DataTypeError) Error() string {
	return fmt.Sprintf("agate: column %q has type %s, expected %s", e.Column, e.Actual, e.Expected)
}

// JoinError is raised by Table.Join when RequireMatch is set and a left
// row has no matching right row.
type JoinError struct {
	Row int
}

func (e *JoinError) Error() string {
	return fmt.Sprintf("agate: join: left row %d has no matching right row", e.Row)
}

// UnsupportedAggregationError is raised when a TableSet proxy call is
// made against a Table method that does not return *Table (and so
// cannot be broadcast element-wise across a TableSet).
type UnsupportedAggregationError struct {
	Method string
}

func (e *UnsupportedAggregationError) Error() string {
	return fmt.Sprintf("agate: %s does not return a Table and cannot be proxied across a TableSet", e.Method)
}

// FieldSizeLimitError is raised by agateio readers when a record
// exceeds a configured field-size limit. It is declared here (rather
// than in agateio) because spec.md §6 names it as one of the core's
// public error contracts that collaborators must use.
type FieldSizeLimitError struct {
	Line int
	Err  error
}

func (e *FieldSizeLimitError) Error() string {
	return fmt.Sprintf("agate: field size limit exceeded at line %d: %v", e.Line, e.Err)
}

func (e *FieldSizeLimitError) Unwrap() error { return e.Err }

// IndexError is raised by operations that reference a column or row
// name that does not exist, e.g. Table.Select / Table.Exclude.
type IndexError struct {
	Key string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("agate: no such column or row: %q", e.Key)
}
