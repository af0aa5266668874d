package agate

import (
	"math"

	"github.com/cockroachdb/apd/v3"
)

// BinsOptions configures Table.Bins. Start and End, when nil, are
// derived from the column's min/max per spec.md §4.2.2.
type BinsOptions struct {
	Count int
	Start *apd.Decimal
	End   *apd.Decimal
}

// Bins splits Column into Count half-open intervals [lo, hi) (the last
// is closed), returning a two-column Table of (interval_label, Count).
// Rows outside [start, end] are counted under an "[out of range]"
// bucket, and null values under a "[null]" bucket.
func (t *Table) Bins(column string, opts BinsOptions) (*Table, error) {
	col, err := requireNumberColumn(t, column)
	if err != nil {
		return nil, err
	}
	count := opts.Count
	if count <= 0 {
		count = 10
	}

	values := numberValues(col)
	start, end := opts.Start, opts.End
	if start == nil || end == nil {
		if len(values) == 0 {
			return nil, &DataTypeError{Column: column, Expected: "at least one non-null value to derive bin range", Actual: "all null"}
		}
		minV, maxV := values[0], values[0]
		for _, v := range values[1:] {
			if decCmp(v, minV) < 0 {
				minV = v
			}
			if decCmp(v, maxV) > 0 {
				maxV = v
			}
		}
		if start == nil {
			start = decFloor(minV)
		}
		if end == nil {
			end = decCeil(maxV)
		}
	}

	width, err := decQuo(decSub(end, start), decFromInt(count))
	if err != nil {
		return nil, err
	}

	boundaries := make([]*apd.Decimal, count+1)
	boundaries[0] = start
	for i := 1; i <= count; i++ {
		boundaries[i] = decAdd(start, decMul(width, decFromInt(i)))
	}

	counts := make([]int, count)
	outOfRange := 0
	nullCount := 0
	for _, v := range col.Values() {
		if IsNull(v) {
			nullCount++
			continue
		}
		d := v.(*apd.Decimal)
		if decCmp(d, start) < 0 || decCmp(d, end) > 0 {
			outOfRange++
			continue
		}
		idx := locateBin(boundaries, d)
		counts[idx]++
	}

	labels := make([]string, 0, count+2)
	rows := make([][]any, 0, count+2)
	for i := 0; i < count; i++ {
		label := binLabel(boundaries[i], boundaries[i+1], i == count-1)
		labels = append(labels, label)
		rows = append(rows, []any{label, decFromInt(counts[i])})
	}
	if outOfRange > 0 {
		rows = append(rows, []any{"[out of range]", decFromInt(outOfRange)})
	}
	if nullCount > 0 {
		rows = append(rows, []any{"[null]", decFromInt(nullCount)})
	}

	return newDerivedFromCastRows([]string{"interval", "Count"}, []DataType{NewText(), NewNumber()}, rows)
}

func locateBin(boundaries []*apd.Decimal, v *apd.Decimal) int {
	n := len(boundaries) - 1
	for i := 0; i < n-1; i++ {
		if decCmp(v, boundaries[i+1]) < 0 {
			return i
		}
	}
	return n - 1
}

func binLabel(lo, hi *apd.Decimal, closed bool) string {
	if closed {
		return "[" + lo.Text('f') + " - " + hi.Text('f') + "]"
	}
	return "[" + lo.Text('f') + " - " + hi.Text('f') + ")"
}

// decFloor and decCeil round d to the nearest integer at or below/above
// its value, per spec.md §4.2.2's default bin-range derivation.
func decFloor(d *apd.Decimal) *apd.Decimal {
	f, err := d.Float64()
	if err != nil {
		return d
	}
	rounded, _, err := apd.NewFromString(apdFormatFloat(math.Floor(f)))
	if err != nil {
		return d
	}
	return rounded
}

func decCeil(d *apd.Decimal) *apd.Decimal {
	f, err := d.Float64()
	if err != nil {
		return d
	}
	rounded, _, err := apd.NewFromString(apdFormatFloat(math.Ceil(f)))
	if err != nil {
		return d
	}
	return rounded
}
