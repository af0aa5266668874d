package agate

// Row is an ordered, immutable sequence of typed cell values, keyed by
// column name and integer position. Per spec.md's Design Notes, a Row
// holds no reference to the Table(s) it came from — rows are shared by
// value-identity across every derived Table that does not alter a
// cell, and there are no back-pointers to create a cycle.
type Row struct {
	*MappedSequence
}

func newRow(columnNames []string, values []any) *Row {
	return &Row{MappedSequence: NewMappedSequence(columnNames, values)}
}

// withCell returns a new Row identical to r except that the cell at
// position index is replaced by value. The other cells are copied into
// a new backing slice (the Row itself is a fresh object) but remain the
// same values by reference — spec.md §3.5's "affected rows are copied,
// unchanged cells may still be shared by reference".
func (r *Row) withCell(index int, value any) *Row {
	values := make([]any, r.Len())
	copy(values, r.Values())
	if index >= 0 && index < len(values) {
		values[index] = value
	}
	return newRow(r.Keys(), values)
}

// withAppended returns a new Row with value appended as a new trailing
// cell under columnName.
func (r *Row) withAppended(columnName string, value any) *Row {
	keys := make([]string, r.Len()+1)
	copy(keys, r.Keys())
	keys[r.Len()] = columnName

	values := make([]any, r.Len()+1)
	copy(values, r.Values())
	values[r.Len()] = value

	return newRow(keys, values)
}

// withColumns returns a new Row containing only the cells at the given
// positions, in that order, keyed by the corresponding names.
func (r *Row) withColumns(names []string, positions []int) *Row {
	values := make([]any, len(positions))
	for i, pos := range positions {
		values[i] = r.At(pos)
	}
	return newRow(names, values)
}
