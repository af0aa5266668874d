package agate

import (
	"context"
	"sort"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// percentileResult is an ordered sequence of quantile boundaries
// (length = number of bins + 1), shared by Percentiles, Quartiles,
// Quintiles and Deciles. locate finds which bin a value falls in,
// matching spec.md §4.4's "locate(v) returns the bin index".
type percentileResult struct {
	boundaries []*apd.Decimal
}

// At returns the i-th boundary value.
func (p *percentileResult) At(i int) *apd.Decimal { return p.boundaries[i] }

// Len returns the number of boundaries (bins + 1).
func (p *percentileResult) Len() int { return len(p.boundaries) }

func (p *percentileResult) locate(v *apd.Decimal) int {
	n := len(p.boundaries)
	for i := 1; i < n-1; i++ {
		if decCmp(v, p.boundaries[i]) < 0 {
			return i - 1
		}
	}
	return n - 2
}

// computeQuantiles computes linear-interpolation quantile boundaries
// at the given percentile breakpoints (0-100) over a sorted copy of
// values.
func computeQuantiles(values []*apd.Decimal, breakpoints []int) (*percentileResult, error) {
	sorted := append([]*apd.Decimal(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return decCmp(sorted[i], sorted[j]) < 0 })

	n := len(sorted)
	boundaries := make([]*apd.Decimal, len(breakpoints))
	for i, p := range breakpoints {
		rank := float64(p) / 100 * float64(n-1)
		boundaries[i] = interpolate(sorted, rank)
	}
	return &percentileResult{boundaries: boundaries}, nil
}

// interpolate evaluates sorted[rank] where rank may be fractional,
// linearly interpolating between its floor and ceiling indices. rank
// is computed from plain float64 index arithmetic (it only ever
// addresses a slice position); the interpolated value itself is
// produced with exact decimal arithmetic.
func interpolate(sorted []*apd.Decimal, rank float64) *apd.Decimal {
	if rank <= 0 {
		return sorted[0]
	}
	lowIdx := int(rank)
	if lowIdx >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac, _, err := apd.NewFromString(apdFormatFloat(rank - float64(lowIdx)))
	if err != nil {
		return sorted[lowIdx]
	}

	low, high := sorted[lowIdx], sorted[lowIdx+1]
	if decIsZero(frac) {
		return low
	}
	diff := decSub(high, low)
	return decAdd(low, decMul(diff, frac))
}

func evenBreakpoints(n int) []int {
	out := make([]int, n+1)
	for i := 0; i <= n; i++ {
		out[i] = (100 * i) / n
	}
	return out
}

// Percentiles divides Column into 100 equal-size quantiles (101
// boundaries: the 0th through 100th percentile).
type Percentiles struct{ Column string }

func (p *Percentiles) Validate(table *Table) error {
	_, err := requireNumberColumn(table, p.Column)
	return err
}

func (p *Percentiles) compute(col *Column) (*percentileResult, error) {
	values := numberValues(col)
	if len(values) == 0 {
		return nil, &DataTypeError{Column: p.Column, Expected: "at least one non-null value", Actual: "all null"}
	}
	return computeQuantiles(values, evenBreakpoints(100))
}

// Run returns the percentile boundary sequence as a MappedSequence
// keyed "p0".."p100".
func (p *Percentiles) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, p.Column)
	if err != nil {
		return nil, err
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Percentiles", p.Column)
	}
	result, err := p.compute(col)
	if err != nil {
		return nil, err
	}
	return sequenceFromBoundaries(result, "p"), nil
}

// Quartiles divides Column into 4 equal-size quantiles.
type Quartiles struct{ Column string }

func (q *Quartiles) Validate(table *Table) error {
	_, err := requireNumberColumn(table, q.Column)
	return err
}

func (q *Quartiles) compute(col *Column) (*percentileResult, error) {
	values := numberValues(col)
	if len(values) == 0 {
		return nil, &DataTypeError{Column: q.Column, Expected: "at least one non-null value", Actual: "all null"}
	}
	return computeQuantiles(values, evenBreakpoints(4))
}

func (q *Quartiles) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, q.Column)
	if err != nil {
		return nil, err
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Quartiles", q.Column)
	}
	result, err := q.compute(col)
	if err != nil {
		return nil, err
	}
	return sequenceFromBoundaries(result, "q"), nil
}

// Quintiles divides Column into 5 equal-size quantiles.
type Quintiles struct{ Column string }

func (q *Quintiles) Validate(table *Table) error {
	_, err := requireNumberColumn(table, q.Column)
	return err
}

func (q *Quintiles) compute(col *Column) (*percentileResult, error) {
	values := numberValues(col)
	if len(values) == 0 {
		return nil, &DataTypeError{Column: q.Column, Expected: "at least one non-null value", Actual: "all null"}
	}
	return computeQuantiles(values, evenBreakpoints(5))
}

func (q *Quintiles) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, q.Column)
	if err != nil {
		return nil, err
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Quintiles", q.Column)
	}
	result, err := q.compute(col)
	if err != nil {
		return nil, err
	}
	return sequenceFromBoundaries(result, "quintile"), nil
}

// Deciles divides Column into 10 equal-size quantiles.
type Deciles struct{ Column string }

func (d *Deciles) Validate(table *Table) error {
	_, err := requireNumberColumn(table, d.Column)
	return err
}

func (d *Deciles) compute(col *Column) (*percentileResult, error) {
	values := numberValues(col)
	if len(values) == 0 {
		return nil, &DataTypeError{Column: d.Column, Expected: "at least one non-null value", Actual: "all null"}
	}
	return computeQuantiles(values, evenBreakpoints(10))
}

func (d *Deciles) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, d.Column)
	if err != nil {
		return nil, err
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Deciles", d.Column)
	}
	result, err := d.compute(col)
	if err != nil {
		return nil, err
	}
	return sequenceFromBoundaries(result, "decile"), nil
}

func numberValues(col *Column) []*apd.Decimal {
	nonNull := col.NonNullValues()
	out := make([]*apd.Decimal, len(nonNull))
	for i, v := range nonNull {
		out[i] = v.(*apd.Decimal)
	}
	return out
}

func sequenceFromBoundaries(result *percentileResult, prefix string) *MappedSequence {
	keys := make([]string, result.Len())
	values := make([]any, result.Len())
	for i := 0; i < result.Len(); i++ {
		keys[i] = prefix + strconv.Itoa(i)
		values[i] = result.At(i)
	}
	return NewMappedSequence(keys, values)
}
