package agate

import (
	"sort"
	"time"

	"github.com/cockroachdb/apd/v3"

	"github.com/wireservice/agate-go/internal/slugutil"
)

// Computation derives one new column's worth of values from a Table,
// per spec.md §4.3's two-phase lifecycle: Validate runs once against
// the whole table before any value is produced, then Run produces
// exactly len(table.Rows()) values of OutputType.
type Computation interface {
	// Validate returns an error if this computation cannot run against
	// table: a *DataTypeError when a referenced column has the wrong
	// type, or the *IndexError from Table.Column when it is missing.
	Validate(table *Table) error
	// OutputType is the DataType of the column Run produces.
	OutputType(table *Table) DataType
	// Run returns one value per row of table, in row order.
	Run(table *Table) ([]any, error)
}

// RowFunc computes a single cell from a Row.
type RowFunc func(row *Row) (any, error)

// Formula applies Fn to every row, casting the result to Type unless
// NoCast is set.
type Formula struct {
	Type   DataType
	Fn     RowFunc
	NoCast bool
}

func (f *Formula) Validate(*Table) error { return nil }

func (f *Formula) OutputType(*Table) DataType { return f.Type }

func (f *Formula) Run(table *Table) ([]any, error) {
	out := make([]any, len(table.rows))
	for i, r := range table.rows {
		v, err := f.Fn(r)
		if err != nil {
			return nil, err
		}
		if f.NoCast || f.Type == nil {
			out[i] = v
			continue
		}
		cast, err := f.Type.Cast(v)
		if err != nil {
			ce, _ := err.(*CastError)
			if ce == nil {
				ce = &CastError{Input: v, TypeName: f.Type.Name(), Err: err}
			}
			ce.Row = i
			return nil, ce
		}
		out[i] = cast
	}
	return out, nil
}

// Change computes B - A element-wise between two existing columns of
// the same arithmetic-capable DataType (Number, Date, DateTime or
// TimeDelta). Null in either operand yields Null.
type Change struct {
	A, B string
}

func (c *Change) Validate(table *Table) error {
	_, err := requireArithmeticColumns(table, c.A, c.B)
	return err
}

func (c *Change) OutputType(table *Table) DataType {
	dt, _ := requireArithmeticColumns(table, c.A, c.B)
	return changeOutputType(dt)
}

func (c *Change) Run(table *Table) ([]any, error) {
	dt, err := requireArithmeticColumns(table, c.A, c.B)
	if err != nil {
		return nil, err
	}
	colA, _ := table.Column(c.A)
	colB, _ := table.Column(c.B)
	va, vb := colA.Values(), colB.Values()
	out := make([]any, len(va))
	for i := range va {
		out[i] = subtractValues(dt, va[i], vb[i])
	}
	return out, nil
}

func changeOutputType(dt DataType) DataType {
	switch dt.(type) {
	case *Date, *DateTime:
		return NewTimeDelta()
	default:
		return dt
	}
}

func requireArithmeticColumns(table *Table, a, b string) (DataType, error) {
	ca, err := table.Column(a)
	if err != nil {
		return nil, err
	}
	cb, err := table.Column(b)
	if err != nil {
		return nil, err
	}
	if !ca.DataType().Equal(cb.DataType()) {
		return nil, &DataTypeError{Column: b, Expected: ca.DataType().Name(), Actual: cb.DataType().Name()}
	}
	switch ca.DataType().(type) {
	case *Number, *Date, *DateTime, *TimeDelta:
		return ca.DataType(), nil
	default:
		return nil, &DataTypeError{Column: a, Expected: "Number, Date, DateTime or TimeDelta", Actual: ca.DataType().Name()}
	}
}

func subtractValues(dt DataType, a, b any) any {
	if IsNull(a) || IsNull(b) {
		return Null
	}
	switch dt.(type) {
	case *Number:
		return decSub(b.(*apd.Decimal), a.(*apd.Decimal))
	case *Date, *DateTime:
		return Duration{Duration: b.(time.Time).Sub(a.(time.Time))}
	case *TimeDelta:
		return Duration{Duration: b.(Duration).Duration - a.(Duration).Duration}
	default:
		return Null
	}
}

// Percent computes element/denominator*100. When Denominator is nil,
// the column's Sum is used.
type Percent struct {
	Column      string
	Denominator *apd.Decimal
}

func (p *Percent) Validate(table *Table) error {
	_, err := requireNumberColumn(table, p.Column)
	return err
}

func (p *Percent) OutputType(*Table) DataType { return NewNumber() }

func (p *Percent) Run(table *Table) ([]any, error) {
	col, err := requireNumberColumn(table, p.Column)
	if err != nil {
		return nil, err
	}
	denom := p.Denominator
	if denom == nil {
		denom = (&Sum{Column: p.Column}).sum(col)
	}
	hundred := decFromInt(100)
	out := make([]any, col.Len())
	for i, v := range col.Values() {
		if IsNull(v) || decIsZero(denom) {
			out[i] = Null
			continue
		}
		ratio, err := decQuo(v.(*apd.Decimal), denom)
		if err != nil {
			out[i] = Null
			continue
		}
		out[i] = decMul(ratio, hundred)
	}
	return out, nil
}

// PercentChange computes (B-A)/A*100; null or zero A yields null.
type PercentChange struct {
	A, B string
}

func (p *PercentChange) Validate(table *Table) error {
	_, err := requireNumberColumn(table, p.A)
	if err != nil {
		return err
	}
	_, err = requireNumberColumn(table, p.B)
	return err
}

func (p *PercentChange) OutputType(*Table) DataType { return NewNumber() }

func (p *PercentChange) Run(table *Table) ([]any, error) {
	ca, err := requireNumberColumn(table, p.A)
	if err != nil {
		return nil, err
	}
	cb, err := requireNumberColumn(table, p.B)
	if err != nil {
		return nil, err
	}
	va, vb := ca.Values(), cb.Values()
	hundred := decFromInt(100)
	out := make([]any, len(va))
	for i := range va {
		if IsNull(va[i]) || IsNull(vb[i]) || decIsZero(va[i].(*apd.Decimal)) {
			out[i] = Null
			continue
		}
		diff := decSub(vb[i].(*apd.Decimal), va[i].(*apd.Decimal))
		ratio, err := decQuo(diff, va[i].(*apd.Decimal))
		if err != nil {
			out[i] = Null
			continue
		}
		out[i] = decMul(ratio, hundred)
	}
	return out, nil
}

// Rank computes a 1-based competition ranking over Column (ties share a
// rank; the following rank skips accordingly).
type Rank struct {
	Column  string
	Reverse bool
}

func (r *Rank) Validate(table *Table) error {
	_, err := table.Column(r.Column)
	return err
}

func (r *Rank) OutputType(*Table) DataType { return NewNumber() }

func (r *Rank) Run(table *Table) ([]any, error) {
	col, err := table.Column(r.Column)
	if err != nil {
		return nil, err
	}
	values := col.Values()
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := values[order[i]], values[order[j]]
		if IsNull(a) != IsNull(b) {
			return !IsNull(a)
		}
		if IsNull(a) {
			return false
		}
		if r.Reverse {
			return lessValue(b, a)
		}
		return lessValue(a, b)
	})

	ranks := make([]any, len(values))
	rank := 0
	for i, idx := range order {
		v := values[idx]
		if IsNull(v) {
			ranks[idx] = Null
			continue
		}
		if i == 0 || !equalValue(values[order[i-1]], v) {
			rank = i + 1
		}
		ranks[idx] = decFromInt(rank)
	}
	return ranks, nil
}

// PercentileRank computes the percentile (0-99) of each value within
// Column's distribution, using the same linear-interpolation ranking
// the Percentiles aggregation uses.
type PercentileRank struct {
	Column string
}

func (p *PercentileRank) Validate(table *Table) error {
	_, err := requireNumberColumn(table, p.Column)
	return err
}

func (p *PercentileRank) OutputType(*Table) DataType { return NewNumber() }

func (p *PercentileRank) Run(table *Table) ([]any, error) {
	col, err := requireNumberColumn(table, p.Column)
	if err != nil {
		return nil, err
	}
	percentiles, err := (&Percentiles{Column: p.Column}).compute(col)
	if err != nil {
		return nil, err
	}
	out := make([]any, col.Len())
	for i, v := range col.Values() {
		if IsNull(v) {
			out[i] = Null
			continue
		}
		out[i] = decFromInt(percentiles.locate(v.(*apd.Decimal)))
	}
	return out, nil
}

// Slug slugifies Columns (space-joining multiple text columns before
// slugifying). With EnsureUnique, duplicate slugs get a numeric suffix.
type Slug struct {
	Columns      []string
	EnsureUnique bool
}

func (s *Slug) Validate(table *Table) error {
	for _, c := range s.Columns {
		if _, err := table.Column(c); err != nil {
			return err
		}
	}
	return nil
}

func (s *Slug) OutputType(*Table) DataType { return NewText() }

func (s *Slug) Run(table *Table) ([]any, error) {
	cols := make([]*Column, len(s.Columns))
	for i, name := range s.Columns {
		c, err := table.Column(name)
		if err != nil {
			return nil, err
		}
		cols[i] = c
	}

	raw := make([]string, len(table.rows))
	for i := range table.rows {
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			v := c.At(i)
			if !IsNull(v) {
				parts = append(parts, c.DataType().CastToText(v))
			}
		}
		raw[i] = joinSpace(parts)
	}

	seen := make(map[string]bool, len(raw))
	out := make([]any, len(raw))
	for i, r := range raw {
		slug := slugutil.Slugify(r)
		if s.EnsureUnique {
			slug = slugutil.Dedupe(slug, seen)
		}
		out[i] = slug
	}
	return out, nil
}

func joinSpace(parts []string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " "
		}
		out += p
	}
	return out
}

func requireNumberColumn(table *Table, name string) (*Column, error) {
	col, err := table.Column(name)
	if err != nil {
		return nil, err
	}
	if _, ok := col.DataType().(*Number); !ok {
		return nil, &DataTypeError{Column: name, Expected: "Number", Actual: col.DataType().Name()}
	}
	return col, nil
}

func equalValue(a, b any) bool { return valueText(a) == valueText(b) }
