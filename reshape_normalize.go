package agate

// Normalize implements spec.md §4.5's wide-to-long reshape: for each
// input row and each name in properties, emit one output row of
// (key columns..., property name, value). The value column is Text
// unless every named property column shares one DataType, in which
// case that DataType is used and each value is preserved natively.
func (t *Table) Normalize(key []string, properties []string, propertyColumn, valueColumn string) (*Table, error) {
	if propertyColumn == "" {
		propertyColumn = "property"
	}
	if valueColumn == "" {
		valueColumn = "value"
	}

	keyTypes := make([]DataType, len(key))
	for i, name := range key {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		keyTypes[i] = col.DataType()
	}

	propTypes := make([]DataType, len(properties))
	for i, name := range properties {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		propTypes[i] = col.DataType()
	}

	valueType := DataType(NewText())
	if len(propTypes) > 0 {
		uniform := propTypes[0]
		for _, pt := range propTypes[1:] {
			if !uniform.Equal(pt) {
				uniform = nil
				break
			}
		}
		if uniform != nil {
			valueType = uniform
		}
	}

	names := append(append([]string(nil), key...), propertyColumn, valueColumn)
	types := append(append([]DataType(nil), keyTypes...), NewText(), valueType)

	var rows [][]any
	_, textValue := valueType.(*Text)
	for _, r := range t.rows {
		keyVals := keyValues(r, key)
		for i, prop := range properties {
			v, _ := r.Get(prop)
			if textValue && !IsNull(v) {
				v = propTypes[i].CastToText(v)
			}
			row := append(append([]any(nil), keyVals...), prop, v)
			rows = append(rows, row)
		}
	}

	return newDerivedFromCastRows(names, types, rows)
}

// Denormalize inverts Normalize: for each distinct value of
// propertyColumn it produces a new output column, filling absent
// combinations with defaultValue (Null when nil). When the same
// (key, property) combination occurs more than once, the last row
// wins.
func (t *Table) Denormalize(key []string, propertyColumn, valueColumn string, defaultValue any) (*Table, error) {
	if propertyColumn == "" {
		propertyColumn = "property"
	}
	if valueColumn == "" {
		valueColumn = "value"
	}
	if defaultValue == nil {
		defaultValue = Null
	}

	keyTypes := make([]DataType, len(key))
	for i, name := range key {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		keyTypes[i] = col.DataType()
	}
	valCol, err := t.Column(valueColumn)
	if err != nil {
		return nil, err
	}

	var propOrder []string
	propSeen := make(map[string]bool)

	type cell struct {
		keySig string
		keyVal []any
		values map[string]any
	}
	var order []string
	groups := make(map[string]*cell)

	for _, r := range t.rows {
		keyVals := keyValues(r, key)
		sig := valueText(keyVals)
		g, ok := groups[sig]
		if !ok {
			g = &cell{keySig: sig, keyVal: keyVals, values: make(map[string]any)}
			groups[sig] = g
			order = append(order, sig)
		}
		propVal, _ := r.Get(propertyColumn)
		propName := ""
		if !IsNull(propVal) {
			propName = propVal.(string)
		}
		if !propSeen[propName] {
			propSeen[propName] = true
			propOrder = append(propOrder, propName)
		}
		v, _ := r.Get(valueColumn)
		g.values[propName] = v
	}

	names := append(append([]string(nil), key...), propOrder...)
	types := append(append([]DataType(nil), keyTypes...), repeatType(valCol.DataType(), len(propOrder))...)

	rows := make([][]any, len(order))
	for i, sig := range order {
		g := groups[sig]
		row := append([]any(nil), g.keyVal...)
		for _, p := range propOrder {
			if v, ok := g.values[p]; ok {
				row = append(row, v)
			} else {
				row = append(row, defaultValue)
			}
		}
		rows[i] = row
	}

	return newDerivedFromCastRows(names, types, rows)
}

func repeatType(dt DataType, n int) []DataType {
	out := make([]DataType, n)
	for i := range out {
		out[i] = dt
	}
	return out
}
