package agate

// ComputeSpec pairs an output column name with the Computation that
// produces it.
type ComputeSpec struct {
	Name        string
	Computation Computation
}

// Compute runs every spec against t (each sees only the original
// table, never another spec's output) and returns a new Table with the
// computed columns appended in declaration order. When replace is true,
// a spec whose Name matches an existing column overwrites that column
// in place instead of appending; otherwise a name collision is an
// error.
func (t *Table) Compute(specs []ComputeSpec, replace bool) (*Table, error) {
	for _, s := range specs {
		if err := s.Computation.Validate(t); err != nil {
			return nil, err
		}
	}

	results := make([][]any, len(specs))
	for i, s := range specs {
		vals, err := s.Computation.Run(t)
		if err != nil {
			return nil, err
		}
		results[i] = vals
	}

	names := append([]string(nil), t.columnNames...)
	types := append([]DataType(nil), t.columnTypes...)
	posFor := make(map[string]int, len(names))
	for i, n := range names {
		posFor[n] = i
	}

	replacePos := make(map[int]int, len(specs))
	var appendIdx []int
	for i, s := range specs {
		if pos, exists := posFor[s.Name]; exists {
			if !replace {
				return nil, &DataTypeError{Column: s.Name, Expected: "unique output name", Actual: "already exists"}
			}
			types[pos] = s.Computation.OutputType(t)
			replacePos[i] = pos
			continue
		}
		appendIdx = append(appendIdx, i)
		names = append(names, s.Name)
		types = append(types, s.Computation.OutputType(t))
		posFor[s.Name] = len(names) - 1
	}

	rows := make([]*Row, len(t.rows))
	for ri, r := range t.rows {
		values := make([]any, len(names))
		copy(values, r.Values())
		for i := range specs {
			if pos, ok := replacePos[i]; ok {
				values[pos] = results[i][ri]
			}
		}
		base := len(t.columnNames)
		for k, si := range appendIdx {
			values[base+k] = results[si][ri]
		}
		rows[ri] = newRow(names, values)
	}

	return newDerived(names, types, rows, t.rowNames), nil
}
