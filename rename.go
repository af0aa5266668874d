package agate

import "github.com/wireservice/agate-go/internal/slugutil"

// RenameOptions controls Table.Rename. ColumnNames and RowNames, when
// non-nil, must have the same length as the table's existing schema
// and fully replace it; SlugColumns/SlugRows instead derive new names
// from the existing ones via internal/slugutil, disambiguating
// collisions, per spec.md §4.2's rename operation.
type RenameOptions struct {
	ColumnNames []string
	RowNames    []string
	SlugColumns bool
	SlugRows    bool
}

// Rename returns a new Table with the same rows and cells but
// different column and/or row names.
func (t *Table) Rename(opts RenameOptions) (*Table, error) {
	names := t.columnNames
	switch {
	case opts.ColumnNames != nil:
		if len(opts.ColumnNames) != len(t.columnNames) {
			return nil, &DataTypeError{Expected: "one name per column", Actual: "mismatched length"}
		}
		names = append([]string(nil), opts.ColumnNames...)
	case opts.SlugColumns:
		names = slugifyAll(t.columnNames)
	}

	rowNames := t.rowNames
	switch {
	case opts.RowNames != nil:
		if len(opts.RowNames) != len(t.rows) {
			return nil, &DataTypeError{Expected: "one name per row", Actual: "mismatched length"}
		}
		rowNames = append([]string(nil), opts.RowNames...)
	case opts.SlugRows && t.rowNames != nil:
		rowNames = slugifyAll(t.rowNames)
	}

	nt := newDerived(names, t.columnTypes, t.rows, rowNames)
	return nt, nil
}

func slugifyAll(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = slugutil.Dedupe(slugutil.Slugify(n), seen)
	}
	return out
}
