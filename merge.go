package agate

// Merge combines the rows of t and others into one Table whose schema
// is the union of every input's columns, in first-seen order. A column
// shared by more than one input must agree on DataType.Name (Text stays
// Text, Number stays Number, and so on); rows from a table missing a
// given column get Null in that position. Row names are dropped, since
// there is no general way to reconcile them across merged inputs.
//
// When two inputs name the same DataType but configure it differently
// (a Number column with a different locale's group/decimal symbols, a
// Date column with a different format string), the earliest table in
// tables argument order wins: its DataType is used for the merged
// column, and every later table's cells for that column are re-cast
// under it, returning a *CastError if a cell does not fit the winning
// configuration.
func (t *Table) Merge(others ...*Table) (*Table, error) {
	tables := append([]*Table{t}, others...)

	var names []string
	var types []DataType
	index := make(map[string]int)
	for _, tbl := range tables {
		for i, name := range tbl.columnNames {
			pos, ok := index[name]
			if !ok {
				index[name] = len(names)
				names = append(names, name)
				types = append(types, tbl.columnTypes[i])
				continue
			}
			if types[pos].Equal(tbl.columnTypes[i]) {
				continue
			}
			if types[pos].Name() != tbl.columnTypes[i].Name() {
				return nil, &DataTypeError{Column: name, Expected: types[pos].Name(), Actual: tbl.columnTypes[i].Name()}
			}
			// Same kind, different locale/format: the earliest table's
			// type already won above; later cells get re-cast below.
		}
	}

	var rows []*Row
	for _, tbl := range tables {
		positions := make([]int, len(tbl.columnNames))
		for i, name := range tbl.columnNames {
			positions[i] = index[name]
		}
		for ri, r := range tbl.rows {
			values := make([]any, len(names))
			for i := range values {
				values[i] = Null
			}
			for i, pos := range positions {
				v := r.At(i)
				winning := types[pos]
				if !IsNull(v) && !winning.Equal(tbl.columnTypes[i]) {
					recast, err := winning.Cast(v)
					if err != nil {
						ce, _ := err.(*CastError)
						if ce == nil {
							ce = &CastError{Input: v, TypeName: winning.Name(), Err: err}
						}
						ce.Row = ri
						ce.Column = names[pos]
						return nil, ce
					}
					v = recast
				}
				values[pos] = v
			}
			rows = append(rows, newRow(names, values))
		}
	}

	return newDerived(names, types, rows, nil), nil
}
