package agate

import (
	"context"
	"time"
)

// TableSet is an ordered collection of Tables keyed by a grouping
// value, produced by Table.GroupBy. Per spec.md §4.4, any Table
// operation that itself returns a Table can be "proxied" across a
// TableSet's members; this package exposes that proxy explicitly for
// the relational operations rather than via reflection, since Go's
// static typing makes a literal per-method-name dispatch (the
// original's dynamic proxy) both unidiomatic and unnecessary.
type TableSet struct {
	keys     []string
	tables   []*Table
	keyName  string
	keyType  DataType
}

// GroupKey derives a grouping value (rendered to a key via valueText)
// from a Row.
type GroupKey func(row *Row) any

// GroupBy partitions t's rows by key, preserving first-seen group
// order, and returns the resulting TableSet. keyName labels the
// grouping column that TableSet.Aggregate will produce; keyType
// defaults to Text when nil.
func (t *Table) GroupBy(key GroupKey, keyName string, keyType DataType) *TableSet {
	if keyType == nil {
		keyType = NewText()
	}

	order := make([]string, 0)
	groupRows := make(map[string][]*Row)
	groupRaw := make(map[string]any)
	groupRowNames := make(map[string][]string)

	for i, r := range t.rows {
		raw := key(r)
		sig := valueText(raw)
		if _, ok := groupRaw[sig]; !ok {
			order = append(order, sig)
			groupRaw[sig] = raw
		}
		groupRows[sig] = append(groupRows[sig], r)
		if t.rowNames != nil {
			groupRowNames[sig] = append(groupRowNames[sig], t.rowNames[i])
		}
	}

	ts := &TableSet{keyName: keyName, keyType: keyType}
	for _, sig := range order {
		ts.keys = append(ts.keys, valueText(groupRaw[sig]))
		ts.tables = append(ts.tables, newDerived(t.columnNames, t.columnTypes, groupRows[sig], groupRowNames[sig]))
	}
	return ts
}

// GroupByColumn is GroupBy keyed by an existing column's value, using
// that column's own name and DataType for the aggregated result.
func (t *Table) GroupByColumn(column string) (*TableSet, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return t.GroupBy(func(r *Row) any {
		v, _ := r.Get(column)
		return v
	}, column, col.DataType()), nil
}

// Keys returns the TableSet's group keys in first-seen order, rendered
// as text.
func (ts *TableSet) Keys() []string { return append([]string(nil), ts.keys...) }

// Tables returns the TableSet's member tables, parallel to Keys.
func (ts *TableSet) Tables() []*Table { return append([]*Table(nil), ts.tables...) }

// Len returns the number of groups.
func (ts *TableSet) Len() int { return len(ts.tables) }

// Get returns the member table for key, or nil if no such group
// exists.
func (ts *TableSet) Get(key string) *Table {
	for i, k := range ts.keys {
		if k == key {
			return ts.tables[i]
		}
	}
	return nil
}

// Aggregate returns a new Table with one row per group: the grouping
// key followed by the named aggregations' values, in declared order.
func (ts *TableSet) Aggregate(ctx context.Context, specs []NamedAggregation) (*Table, error) {
	names := append([]string{ts.keyName}, aggregationNames(specs)...)

	rows := make([][]any, len(ts.tables))
	for i, member := range ts.tables {
		key, err := ts.keyType.Cast(ts.keys[i])
		if err != nil {
			key = ts.keys[i]
		}
		values := []any{key}
		for _, spec := range specs {
			if err := spec.Agg.Validate(member); err != nil {
				return nil, err
			}
			v, err := spec.Agg.Run(ctx, member)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		rows[i] = values
	}

	types := []DataType{ts.keyType}
	for i := range specs {
		types = append(types, inferColumnType(rows, i+1))
	}

	return newDerivedFromCastRows(names, types, rows)
}

// inferColumnType scans rows for the first non-null value at col and
// returns the DataType matching its Go representation, defaulting to
// Number (the common case for aggregation outputs) when every row is
// null at that position.
func inferColumnType(rows [][]any, col int) DataType {
	for _, r := range rows {
		if col >= len(r) || IsNull(r[col]) {
			continue
		}
		return nativeDataType(r[col])
	}
	return NewNumber()
}

// newDerivedFromCastRows builds a Table from rows whose cells are
// already in their final native representation (aggregation outputs),
// skipping NewTable's text-casting path.
func newDerivedFromCastRows(names []string, types []DataType, rows [][]any) (*Table, error) {
	rowObjs := make([]*Row, len(rows))
	for i, cells := range rows {
		rowObjs[i] = newRow(names, cells)
	}
	return newDerived(names, types, rowObjs, nil), nil
}

func aggregationNames(specs []NamedAggregation) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Name
	}
	return out
}

func nativeDataType(v any) DataType {
	switch v.(type) {
	case bool:
		return NewBoolean()
	case time.Time:
		return NewDateTime()
	case Duration:
		return NewTimeDelta()
	case string:
		return NewText()
	default:
		return NewNumber()
	}
}

// HavingPredicate inspects an aggregated group row and reports whether
// that group should be kept.
type HavingPredicate func(row *Row) bool

// Having aggregates each member per specs, then keeps only the groups
// whose aggregated row satisfies pred. The returned TableSet retains
// its original (unaggregated) member tables and schema.
func (ts *TableSet) Having(ctx context.Context, specs []NamedAggregation, pred HavingPredicate) (*TableSet, error) {
	aggregated, err := ts.Aggregate(ctx, specs)
	if err != nil {
		return nil, err
	}

	kept := &TableSet{keyName: ts.keyName, keyType: ts.keyType}
	for i, row := range aggregated.rows {
		if pred(row) {
			kept.keys = append(kept.keys, ts.keys[i])
			kept.tables = append(kept.tables, ts.tables[i])
		}
	}
	return kept, nil
}

// Merge concatenates every member table, the inverse of GroupBy.
func (ts *TableSet) Merge() (*Table, error) {
	if len(ts.tables) == 0 {
		return nil, &DataTypeError{Expected: "at least one group", Actual: "empty TableSet"}
	}
	if len(ts.tables) == 1 {
		return ts.tables[0], nil
	}
	return ts.tables[0].Merge(ts.tables[1:]...)
}

// proxyTables applies fn to every member and rewraps the results with
// the same keys, or returns the first error encountered.
func (ts *TableSet) proxyTables(fn func(*Table) (*Table, error)) (*TableSet, error) {
	out := &TableSet{keyName: ts.keyName, keyType: ts.keyType, keys: append([]string(nil), ts.keys...)}
	for _, t := range ts.tables {
		nt, err := fn(t)
		if err != nil {
			return nil, err
		}
		out.tables = append(out.tables, nt)
	}
	return out, nil
}

// Select proxies Table.Select across every member.
func (ts *TableSet) Select(names []string) (*TableSet, error) {
	return ts.proxyTables(func(t *Table) (*Table, error) { return t.Select(names) })
}

// Exclude proxies Table.Exclude across every member.
func (ts *TableSet) Exclude(names []string) (*TableSet, error) {
	return ts.proxyTables(func(t *Table) (*Table, error) { return t.Exclude(names) })
}

// Where proxies Table.Where across every member.
func (ts *TableSet) Where(pred RowPredicate) *TableSet {
	out, _ := ts.proxyTables(func(t *Table) (*Table, error) { return t.Where(pred), nil })
	return out
}

// OrderBy proxies Table.OrderBy across every member.
func (ts *TableSet) OrderBy(key SortKey, reverse bool) *TableSet {
	out, _ := ts.proxyTables(func(t *Table) (*Table, error) { return t.OrderBy(key, reverse), nil })
	return out
}

// Distinct proxies Table.Distinct across every member.
func (ts *TableSet) Distinct(key DistinctKey) *TableSet {
	out, _ := ts.proxyTables(func(t *Table) (*Table, error) { return t.Distinct(key), nil })
	return out
}

// Compute proxies Table.Compute across every member.
func (ts *TableSet) Compute(specs []ComputeSpec, replace bool) (*TableSet, error) {
	return ts.proxyTables(func(t *Table) (*Table, error) { return t.Compute(specs, replace) })
}

// NestedTableSet is what TableSet.GroupBy returns: a TableSet-of-
// TableSets keyed first by ts's own keys, then by the new key.
type NestedTableSet struct {
	Keys []string
	Sets []*TableSet
}

// GroupBy subdivides each of ts's member tables, producing a nested
// grouping (spec.md §4.4's "TableSet.group_by(k) subdivides each
// member producing a TableSet-of-TableSets").
func (ts *TableSet) GroupBy(key GroupKey, keyName string, keyType DataType) *NestedTableSet {
	nested := &NestedTableSet{Keys: append([]string(nil), ts.keys...)}
	for _, t := range ts.tables {
		nested.Sets = append(nested.Sets, t.GroupBy(key, keyName, keyType))
	}
	return nested
}

// Aggregate flattens a NestedTableSet into a single Table whose leading
// columns are the successive group keys (outer key first), followed by
// the named aggregation outputs.
func (n *NestedTableSet) Aggregate(ctx context.Context, outerKeyName string, outerKeyType DataType, specs []NamedAggregation) (*Table, error) {
	if outerKeyType == nil {
		outerKeyType = NewText()
	}

	var names []string
	var types []DataType
	var rows [][]any

	for i, inner := range n.Sets {
		innerTable, err := inner.Aggregate(ctx, specs)
		if err != nil {
			return nil, err
		}
		if names == nil {
			names = append([]string{outerKeyName}, innerTable.columnNames...)
			types = append([]DataType{outerKeyType}, innerTable.columnTypes...)
		}
		outerKey, err := outerKeyType.Cast(n.Keys[i])
		if err != nil {
			outerKey = n.Keys[i]
		}
		for _, r := range innerTable.rows {
			rows = append(rows, append([]any{outerKey}, r.Values()...))
		}
	}

	return newDerivedFromCastRows(names, types, rows)
}
