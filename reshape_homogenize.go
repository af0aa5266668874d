package agate

// DefaultRowFunc builds a full row of values for a key tuple that is
// missing from the table being homogenized.
type DefaultRowFunc func(missingKey []any) []any

// Homogenize implements spec.md §4.5: ensures every key tuple in
// expectedKeys is present at least once among t's rows, inserting a
// new row (via defaultRow or defaultRowFn) for any that are missing.
// Existing rows, including duplicate keys, are left untouched.
func (t *Table) Homogenize(key []string, expectedKeys [][]any, defaultRow []any, defaultRowFn DefaultRowFunc) (*Table, error) {
	keyPositions := make([]int, len(key))
	for i, name := range key {
		pos, ok := t.columnIndex[name]
		if !ok {
			return nil, &IndexError{Key: name}
		}
		keyPositions[i] = pos
	}

	present := make(map[string]bool, len(t.rows))
	for _, r := range t.rows {
		values := make([]any, len(keyPositions))
		for i, pos := range keyPositions {
			values[i] = r.At(pos)
		}
		present[valueText(values)] = true
	}

	rows := append([]*Row(nil), t.rows...)
	for _, ek := range expectedKeys {
		if present[valueText(ek)] {
			continue
		}
		var full []any
		if defaultRowFn != nil {
			full = defaultRowFn(ek)
		} else {
			raw := buildHomogenizeRow(t.columnNames, keyPositions, ek, defaultRow)
			full = make([]any, len(raw))
			for pos, v := range raw {
				cast, err := t.columnTypes[pos].Cast(v)
				if err != nil {
					ce, _ := err.(*CastError)
					if ce == nil {
						ce = &CastError{Input: v, TypeName: t.columnTypes[pos].Name(), Err: err}
					}
					ce.Column = t.columnNames[pos]
					return nil, ce
				}
				full[pos] = cast
			}
		}
		values := make([]any, len(t.columnNames))
		for i, v := range full {
			if i < len(values) {
				values[i] = v
			}
		}
		for i := range values {
			if values[i] == nil {
				values[i] = Null
			}
		}
		rows = append(rows, newRow(t.columnNames, values))
	}

	return newDerived(t.columnNames, t.columnTypes, rows, nil), nil
}

// buildHomogenizeRow places the key tuple's values at their schema
// positions and fills the remaining positions from defaultRow, in
// column order, skipping the key positions.
func buildHomogenizeRow(columnNames []string, keyPositions []int, keyValues []any, defaultRow []any) []any {
	isKeyPos := make(map[int]bool, len(keyPositions))
	for _, p := range keyPositions {
		isKeyPos[p] = true
	}

	out := make([]any, len(columnNames))
	for i, p := range keyPositions {
		out[p] = keyValues[i]
	}

	di := 0
	for pos := range columnNames {
		if isKeyPos[pos] {
			continue
		}
		if di < len(defaultRow) {
			out[pos] = defaultRow[di]
			di++
		} else {
			out[pos] = Null
		}
	}
	return out
}
