package agate

import (
	"context"
	"strings"
)

// PivotOptions configures Table.Pivot. Aggregation defaults to Count()
// when nil. AggName labels the aggregation's output column (used as
// both the single value column when Columns is empty, and the name fed
// to Computation when set).
type PivotOptions struct {
	Columns     []string
	Aggregation Aggregation
	AggName     string
	Computation Computation
	CompName    string
}

// Pivot implements spec.md §4.5's pivot: group by rows (one or more
// column names), then either emit one aggregated value column (no
// Columns given) or one output column per distinct value of Columns,
// with missing combinations filled per the aggregation's null/zero
// identity.
func (t *Table) Pivot(ctx context.Context, rows []string, opts PivotOptions) (*Table, error) {
	agg := opts.Aggregation
	if agg == nil {
		agg = NewCount()
	}
	aggName := opts.AggName
	if aggName == "" {
		aggName = "Count"
	}

	rowTypes := make([]DataType, len(rows))
	for i, name := range rows {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		rowTypes[i] = col.DataType()
	}

	groupKey := func(r *Row) any { return keyValues(r, rows) }
	grouped := t.GroupBy(groupKey, "__pivot_key__", NewText())

	if len(opts.Columns) == 0 {
		names := append(append([]string(nil), rows...), aggName)
		types := append(append([]DataType(nil), rowTypes...), NewNumber())

		outRows := make([][]any, grouped.Len())
		for i, member := range grouped.Tables() {
			if err := agg.Validate(member); err != nil {
				return nil, err
			}
			v, err := agg.Run(ctx, member)
			if err != nil {
				return nil, err
			}
			key := keyValues(member.rows[0], rows)
			outRows[i] = append(append([]any(nil), key...), v)
		}
		if len(outRows) > 0 {
			types[len(rows)] = nativeDataType(outRows[0][len(rows)])
		}

		result, err := newDerivedFromCastRows(names, types, outRows)
		if err != nil {
			return nil, err
		}
		if opts.Computation != nil {
			compName := opts.CompName
			if compName == "" {
				compName = aggName + "_computed"
			}
			return result.Compute([]ComputeSpec{{Name: compName, Computation: opts.Computation}}, false)
		}
		return result, nil
	}

	colTypes := make([]DataType, len(opts.Columns))
	for i, name := range opts.Columns {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		colTypes[i] = col.DataType()
	}

	colValues := make(map[string]bool)
	var colOrder []string
	var colLabels []string
	colKeyFn := func(r *Row) any { return keyValues(r, opts.Columns) }
	for _, r := range t.rows {
		key := colKeyFn(r).([]any)
		sig := valueText(key)
		if !colValues[sig] {
			colValues[sig] = true
			colOrder = append(colOrder, sig)
			colLabels = append(colLabels, pivotColumnLabel(key, colTypes))
		}
	}

	names := append([]string(nil), rows...)
	types := append([]DataType(nil), rowTypes...)
	names = append(names, colLabels...)
	for range colOrder {
		types = append(types, NewNumber())
	}

	var outRows [][]any
	for _, member := range grouped.Tables() {
		key := keyValues(member.rows[0], rows)
		row := append([]any(nil), key...)
		subGrouped := member.GroupBy(colKeyFn, "__pivot_col__", NewText())
		for _, sig := range colOrder {
			sub := subGrouped.Get(sig)
			if sub == nil {
				row = append(row, zeroIdentity(agg))
				continue
			}
			if err := agg.Validate(sub); err != nil {
				return nil, err
			}
			v, err := agg.Run(ctx, sub)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		outRows = append(outRows, row)
	}

	return newDerivedFromCastRows(names, types, outRows)
}

// pivotColumnLabel renders a pivot column-key tuple as a human-readable
// output column name (e.g. "male"), joining multi-column keys with "_".
func pivotColumnLabel(key []any, types []DataType) string {
	parts := make([]string, len(key))
	for i, v := range key {
		parts[i] = types[i].CastToText(v)
	}
	return strings.Join(parts, "_")
}

// zeroIdentity returns the value a missing pivot cell should take for
// agg, per spec.md §4.5's "missing cells are null (or the aggregation's
// zero-identity)".
func zeroIdentity(agg Aggregation) any {
	switch agg.(type) {
	case *Count, *Sum:
		return decFromInt(0)
	default:
		return Null
	}
}
