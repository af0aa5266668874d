package agate

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Aggregation reduces one column (or the whole table) of a Table to a
// single value, per spec.md §4.4's validate/run lifecycle.
type Aggregation interface {
	// Validate raises a *DataTypeError if this aggregation cannot run
	// against table.
	Validate(table *Table) error
	// Run computes the aggregated value. ctx carries the warn sink used
	// to report null-exclusion (NullCalculationWarning).
	Run(ctx context.Context, table *Table) (any, error)
}

// Aggregate runs a single Aggregation over t and returns its value.
func (t *Table) Aggregate(ctx context.Context, agg Aggregation) (any, error) {
	if err := agg.Validate(t); err != nil {
		return nil, err
	}
	return agg.Run(ctx, t)
}

// NamedAggregation pairs an output name with an Aggregation, the unit
// Table.AggregateMany operates on.
type NamedAggregation struct {
	Name string
	Agg  Aggregation
}

// AggregateMany runs every named Aggregation over t and returns the
// results as a MappedSequence keyed by name, in declaration order.
func (t *Table) AggregateMany(ctx context.Context, specs []NamedAggregation) (*MappedSequence, error) {
	names := make([]string, len(specs))
	values := make([]any, len(specs))
	for i, spec := range specs {
		if err := spec.Agg.Validate(t); err != nil {
			return nil, err
		}
		v, err := spec.Agg.Run(ctx, t)
		if err != nil {
			return nil, err
		}
		names[i] = spec.Name
		values[i] = v
	}
	return NewMappedSequence(names, values), nil
}

// Summary applies an arbitrary reduction Fn to Column's full value
// slice (nulls included); the caller defines both the semantics and
// the returned type.
type Summary struct {
	Column string
	Fn     func(values []any) (any, error)
}

func (s *Summary) Validate(table *Table) error {
	_, err := table.Column(s.Column)
	return err
}

func (s *Summary) Run(_ context.Context, table *Table) (any, error) {
	col, err := table.Column(s.Column)
	if err != nil {
		return nil, err
	}
	return s.Fn(col.Values())
}

// HasNulls reports whether Column contains any Null cell.
type HasNulls struct{ Column string }

func (h *HasNulls) Validate(table *Table) error {
	_, err := table.Column(h.Column)
	return err
}

func (h *HasNulls) Run(_ context.Context, table *Table) (any, error) {
	col, err := table.Column(h.Column)
	if err != nil {
		return nil, err
	}
	return col.HasNulls(), nil
}

// ValueTest reports whether v (which may be Null) satisfies a
// predicate used by Any/All.
type ValueTest func(v any) bool

// Any reports whether Test matches at least one cell in Column (nulls
// are passed to Test, not skipped).
type Any struct {
	Column string
	Test   ValueTest
}

func (a *Any) Validate(table *Table) error {
	_, err := table.Column(a.Column)
	return err
}

func (a *Any) Run(_ context.Context, table *Table) (any, error) {
	col, err := table.Column(a.Column)
	if err != nil {
		return nil, err
	}
	for _, v := range col.Values() {
		if a.Test(v) {
			return true, nil
		}
	}
	return false, nil
}

// All reports whether Test matches every cell in Column.
type All struct {
	Column string
	Test   ValueTest
}

func (a *All) Validate(table *Table) error {
	_, err := table.Column(a.Column)
	return err
}

func (a *All) Run(_ context.Context, table *Table) (any, error) {
	col, err := table.Column(a.Column)
	if err != nil {
		return nil, err
	}
	for _, v := range col.Values() {
		if !a.Test(v) {
			return false, nil
		}
	}
	return true, nil
}

// Count returns the row count when Column is empty, or the number of
// cells in Column equal to Value (compared via valueText, whose
// rendering includes the value's type, so only cells of Value's type
// can match) when it is set.
type Count struct {
	Column string
	Value  any
	hasVal bool
}

// NewCount counts rows.
func NewCount() *Count { return &Count{} }

// NewCountValue counts cells in column equal to value.
func NewCountValue(column string, value any) *Count {
	return &Count{Column: column, Value: value, hasVal: true}
}

func (c *Count) Validate(table *Table) error {
	if c.Column == "" {
		return nil
	}
	_, err := table.Column(c.Column)
	return err
}

func (c *Count) Run(_ context.Context, table *Table) (any, error) {
	if c.Column == "" {
		return decFromInt(table.Len()), nil
	}
	col, err := table.Column(c.Column)
	if err != nil {
		return nil, err
	}
	n := 0
	for _, v := range col.Values() {
		if !c.hasVal {
			continue
		}
		if valueText(v) == valueText(c.Value) {
			n++
		}
	}
	return decFromInt(n), nil
}

// Min returns the smallest non-null value of Column (Number, Date,
// DateTime or TimeDelta); Null if every value is null.
type Min struct{ Column string }

func (m *Min) Validate(table *Table) error { return requireOrderable(table, m.Column) }

func (m *Min) Run(ctx context.Context, table *Table) (any, error) {
	return extreme(ctx, table, m.Column, "Min", true)
}

// Max returns the largest non-null value of Column.
type Max struct{ Column string }

func (m *Max) Validate(table *Table) error { return requireOrderable(table, m.Column) }

func (m *Max) Run(ctx context.Context, table *Table) (any, error) {
	return extreme(ctx, table, m.Column, "Max", false)
}

func requireOrderable(table *Table, name string) error {
	col, err := table.Column(name)
	if err != nil {
		return err
	}
	switch col.DataType().(type) {
	case *Number, *Date, *DateTime, *TimeDelta:
		return nil
	default:
		return &DataTypeError{Column: name, Expected: "Number, Date, DateTime or TimeDelta", Actual: col.DataType().Name()}
	}
}

func extreme(ctx context.Context, table *Table, name, label string, wantMin bool) (any, error) {
	col, err := table.Column(name)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		if col.HasNulls() {
			warnNullCalculation(ctx, label, name)
		}
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, label, name)
	}
	best := values[0]
	for _, v := range values[1:] {
		if wantMin && lessValue(v, best) {
			best = v
		}
		if !wantMin && lessValue(best, v) {
			best = v
		}
	}
	return best, nil
}

// MaxLength returns the length (rune count) of the longest value in a
// Text column; 0 when every value is null.
type MaxLength struct{ Column string }

func (m *MaxLength) Validate(table *Table) error {
	col, err := table.Column(m.Column)
	if err != nil {
		return err
	}
	if _, ok := col.DataType().(*Text); !ok {
		return &DataTypeError{Column: m.Column, Expected: "Text", Actual: col.DataType().Name()}
	}
	return nil
}

func (m *MaxLength) Run(_ context.Context, table *Table) (any, error) {
	col, err := table.Column(m.Column)
	if err != nil {
		return nil, err
	}
	max := 0
	for _, v := range col.NonNullValues() {
		n := len([]rune(v.(string)))
		if n > max {
			max = n
		}
	}
	return decFromInt(max), nil
}

// MaxPrecision returns the greatest number of fractional digits among
// Column's non-null values; 0 when every value is null.
type MaxPrecision struct{ Column string }

func (m *MaxPrecision) Validate(table *Table) error {
	_, err := requireNumberColumn(table, m.Column)
	return err
}

func (m *MaxPrecision) Run(_ context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, m.Column)
	if err != nil {
		return nil, err
	}
	max := 0
	for _, v := range col.NonNullValues() {
		n := fractionalDigits(v.(*apd.Decimal))
		if n > max {
			max = n
		}
	}
	return decFromInt(max), nil
}

// Sum returns the sum of Column (Number or TimeDelta); 0 when every
// value is null.
type Sum struct{ Column string }

func (s *Sum) Validate(table *Table) error {
	col, err := table.Column(s.Column)
	if err != nil {
		return err
	}
	switch col.DataType().(type) {
	case *Number, *TimeDelta:
		return nil
	default:
		return &DataTypeError{Column: s.Column, Expected: "Number or TimeDelta", Actual: col.DataType().Name()}
	}
}

func (s *Sum) Run(ctx context.Context, table *Table) (any, error) {
	col, err := table.Column(s.Column)
	if err != nil {
		return nil, err
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Sum", s.Column)
	}
	if _, ok := col.DataType().(*TimeDelta); ok {
		var total Duration
		for _, v := range col.NonNullValues() {
			total.Duration += v.(Duration).Duration
		}
		return total, nil
	}
	return s.sum(col), nil
}

func (s *Sum) sum(col *Column) *apd.Decimal {
	total := decFromInt(0)
	for _, v := range col.NonNullValues() {
		total = decAdd(total, v.(*apd.Decimal))
	}
	return total
}

// Mean returns the arithmetic mean of Column (Number or TimeDelta);
// Null when every value is null.
type Mean struct{ Column string }

func (m *Mean) Validate(table *Table) error {
	col, err := table.Column(m.Column)
	if err != nil {
		return err
	}
	switch col.DataType().(type) {
	case *Number, *TimeDelta:
		return nil
	default:
		return &DataTypeError{Column: m.Column, Expected: "Number or TimeDelta", Actual: col.DataType().Name()}
	}
}

func (m *Mean) Run(ctx context.Context, table *Table) (any, error) {
	col, err := table.Column(m.Column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Mean", m.Column)
	}
	if _, ok := col.DataType().(*TimeDelta); ok {
		var total int64
		for _, v := range values {
			total += int64(v.(Duration).Duration)
		}
		return Duration{Duration: time.Duration(total / int64(len(values)))}, nil
	}
	total := decFromInt(0)
	for _, v := range values {
		total = decAdd(total, v.(*apd.Decimal))
	}
	mean, err := decQuo(total, decFromInt(len(values)))
	if err != nil {
		return nil, err
	}
	return mean, nil
}

// Median returns the middle value (average of the two middle values
// for an even count) of Column (Number or TimeDelta); Null when every
// value is null.
type Median struct{ Column string }

func (m *Median) Validate(table *Table) error { return (&Mean{Column: m.Column}).Validate(table) }

func (m *Median) Run(ctx context.Context, table *Table) (any, error) {
	col, err := table.Column(m.Column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Median", m.Column)
	}
	_, isDuration := col.DataType().(*TimeDelta)
	sort.Slice(values, func(i, j int) bool { return lessValue(values[i], values[j]) })
	n := len(values)
	if n%2 == 1 {
		return values[n/2], nil
	}
	if isDuration {
		a := values[n/2-1].(Duration).Duration
		b := values[n/2].(Duration).Duration
		return Duration{Duration: (a + b) / 2}, nil
	}
	a := values[n/2-1].(*apd.Decimal)
	b := values[n/2].(*apd.Decimal)
	return decQuo(decAdd(a, b), decFromInt(2))
}

// Mode returns the most frequently occurring non-null value of Column;
// ties are broken by the smallest value among the tied keys. Null when
// every value is null.
type Mode struct{ Column string }

func (m *Mode) Validate(table *Table) error {
	_, err := requireNumberColumn(table, m.Column)
	return err
}

func (m *Mode) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, m.Column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "Mode", m.Column)
	}
	counts := make(map[string]int, len(values))
	order := make(map[string]any, len(values))
	var firstSeen []string
	for _, v := range values {
		key := valueText(v)
		if _, ok := order[key]; !ok {
			order[key] = v
			firstSeen = append(firstSeen, key)
		}
		counts[key]++
	}
	best := firstSeen[0]
	for _, key := range firstSeen[1:] {
		switch {
		case counts[key] > counts[best]:
			best = key
		case counts[key] == counts[best] && decCmp(order[key].(*apd.Decimal), order[best].(*apd.Decimal)) < 0:
			best = key
		}
	}
	return order[best], nil
}

// Variance returns the sample variance of Column; Null when every
// value is null.
type Variance struct{ Column string }

func (v *Variance) Validate(table *Table) error {
	_, err := requireNumberColumn(table, v.Column)
	return err
}

func (v *Variance) Run(ctx context.Context, table *Table) (any, error) {
	return computeVariance(ctx, table, v.Column, "Variance", true)
}

// PopulationVariance returns the population variance of Column; Null
// when every value is null.
type PopulationVariance struct{ Column string }

func (v *PopulationVariance) Validate(table *Table) error {
	_, err := requireNumberColumn(table, v.Column)
	return err
}

func (v *PopulationVariance) Run(ctx context.Context, table *Table) (any, error) {
	return computeVariance(ctx, table, v.Column, "PopulationVariance", false)
}

func computeVariance(ctx context.Context, table *Table, name, label string, sample bool) (any, error) {
	col, err := requireNumberColumn(table, name)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, label, name)
	}
	n := len(values)
	divisor := n
	if sample {
		divisor = n - 1
	}
	if divisor <= 0 {
		return Null, nil
	}
	total := decFromInt(0)
	for _, v := range values {
		total = decAdd(total, v.(*apd.Decimal))
	}
	mean, err := decQuo(total, decFromInt(n))
	if err != nil {
		return nil, err
	}
	sumSq := decFromInt(0)
	for _, v := range values {
		diff := decSub(v.(*apd.Decimal), mean)
		sumSq = decAdd(sumSq, decMul(diff, diff))
	}
	return decQuo(sumSq, decFromInt(divisor))
}

// StDev returns the sample standard deviation of Column.
type StDev struct{ Column string }

func (s *StDev) Validate(table *Table) error {
	_, err := requireNumberColumn(table, s.Column)
	return err
}

func (s *StDev) Run(ctx context.Context, table *Table) (any, error) {
	return stdevFrom(ctx, table, s.Column, (&Variance{Column: s.Column}))
}

// PopulationStDev returns the population standard deviation of Column.
type PopulationStDev struct{ Column string }

func (s *PopulationStDev) Validate(table *Table) error {
	_, err := requireNumberColumn(table, s.Column)
	return err
}

func (s *PopulationStDev) Run(ctx context.Context, table *Table) (any, error) {
	return stdevFrom(ctx, table, s.Column, (&PopulationVariance{Column: s.Column}))
}

func stdevFrom(ctx context.Context, table *Table, name string, variance Aggregation) (any, error) {
	v, err := variance.Run(ctx, table)
	if err != nil {
		return nil, err
	}
	if IsNull(v) {
		return Null, nil
	}
	return decSqrt(v.(*apd.Decimal))
}

// MAD returns the median absolute deviation of Column from its median.
type MAD struct{ Column string }

func (m *MAD) Validate(table *Table) error {
	_, err := requireNumberColumn(table, m.Column)
	return err
}

func (m *MAD) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, m.Column)
	if err != nil {
		return nil, err
	}
	values := col.NonNullValues()
	if len(values) == 0 {
		return Null, nil
	}
	if col.HasNulls() {
		warnNullCalculation(ctx, "MAD", m.Column)
	}
	median, err := (&Median{Column: m.Column}).Run(ctx, table)
	if err != nil {
		return nil, err
	}
	med := median.(*apd.Decimal)
	deviations := make([]*apd.Decimal, len(values))
	for i, v := range values {
		deviations[i] = decAbs(decSub(v.(*apd.Decimal), med))
	}
	sort.Slice(deviations, func(i, j int) bool { return decCmp(deviations[i], deviations[j]) < 0 })
	n := len(deviations)
	if n%2 == 1 {
		return deviations[n/2], nil
	}
	return decQuo(decAdd(deviations[n/2-1], deviations[n/2]), decFromInt(2))
}

// IQR returns the interquartile range (Q3 - Q1) of Column.
type IQR struct{ Column string }

func (i *IQR) Validate(table *Table) error {
	_, err := requireNumberColumn(table, i.Column)
	return err
}

func (i *IQR) Run(ctx context.Context, table *Table) (any, error) {
	col, err := requireNumberColumn(table, i.Column)
	if err != nil {
		return nil, err
	}
	if len(col.NonNullValues()) == 0 {
		return Null, nil
	}
	quartiles, err := (&Quartiles{Column: i.Column}).compute(col)
	if err != nil {
		return nil, err
	}
	return decSub(quartiles.boundaries[3], quartiles.boundaries[1]), nil
}
