package agate

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"github.com/wireservice/agate-go/internal/slugutil"
)

// Table is the central immutable value of this package: a non-empty
// ordered sequence of uniquely named, typed columns over an ordered
// sequence of rows. Every method that transforms a Table returns a new
// Table (or TableSet); none mutate the receiver. See spec.md §3 for the
// five invariants this type enforces at construction and preserves
// across every transformation.
type Table struct {
	id uuid.UUID

	columnNames []string
	columnTypes []DataType
	columnIndex map[string]int

	rows []*Row

	rowNames     []string
	rowNameIndex map[string]int

	mu         sync.RWMutex
	valueCache map[int][]any
	nullCache  map[int]*bitset.BitSet
}

// RowNamer derives a row-name key from a constructed Row.
type RowNamer func(row *Row) string

// TableOption configures optional Table construction behavior.
type TableOption func(*tableOptions)

type tableOptions struct {
	rowNames     []string
	rowNameFn    RowNamer
}

// WithRowNames supplies an explicit, unique, non-integer row-name per
// input row.
func WithRowNames(names []string) TableOption {
	return func(o *tableOptions) { o.rowNames = names }
}

// WithRowNameFunc derives each row's name from its constructed Row.
func WithRowNameFunc(fn RowNamer) TableOption {
	return func(o *tableOptions) { o.rowNameFn = fn }
}

// NewTable constructs a Table from raw rows. Each cell in rawRows may
// be a string (parsed via the corresponding column's DataType.Cast), a
// native value of a compatible kind, or nil/Null. columnNames and
// columnTypes must have equal, non-zero length. Rows shorter than the
// schema are right-padded with Null (with a warning); longer rows are
// truncated (with a warning). A CastError aborts construction and
// names the offending (row, column).
func NewTable(ctx context.Context, rawRows [][]any, columnNames []string, columnTypes []DataType) (*Table, error) {
	return newTableWithOptions(ctx, rawRows, columnNames, columnTypes)
}

// NewTableWithRowNames is NewTable plus row-name assignment.
func NewTableWithRowNames(ctx context.Context, rawRows [][]any, columnNames []string, columnTypes []DataType, opts ...TableOption) (*Table, error) {
	return newTableWithOptions(ctx, rawRows, columnNames, columnTypes, opts...)
}

func newTableWithOptions(ctx context.Context, rawRows [][]any, columnNames []string, columnTypes []DataType, opts ...TableOption) (*Table, error) {
	if len(columnTypes) != len(columnNames) {
		return nil, &DataTypeError{Column: "", Expected: "matching columnNames/columnTypes length", Actual: "mismatched length"}
	}

	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	// rawRows is caller-owned; a caller that mutates its own slices
	// after construction must not be able to retroactively change an
	// already-built Table, so the raw cell grid is defensively cloned
	// before any casting touches it.
	var clonedRows [][]any
	if err := deepcopy.Copy(&clonedRows, &rawRows); err != nil {
		clonedRows = rawRows
	}

	names, index := disambiguateColumnNames(ctx, columnNames)
	width := len(names)

	rows := make([]*Row, len(clonedRows))
	for ri, raw := range clonedRows {
		cells := raw
		if len(cells) < width {
			warnRowPadded(ctx, ri, width, len(cells))
			padded := make([]any, width)
			copy(padded, cells)
			for i := len(cells); i < width; i++ {
				padded[i] = Null
			}
			cells = padded
		} else if len(cells) > width {
			warnRowTruncated(ctx, ri, width, len(cells))
			cells = cells[:width]
		}

		values := make([]any, width)
		for ci, cell := range cells {
			cast, err := columnTypes[ci].Cast(cell)
			if err != nil {
				ce, _ := err.(*CastError)
				if ce == nil {
					ce = &CastError{Input: cell, TypeName: columnTypes[ci].Name(), Err: err}
				}
				ce.Row = ri
				ce.Column = names[ci]
				return nil, ce
			}
			values[ci] = cast
		}
		rows[ri] = newRow(names, values)
	}

	t := &Table{
		id:          uuid.New(),
		columnNames: names,
		columnTypes: append([]DataType(nil), columnTypes...),
		columnIndex: index,
		rows:        rows,
		valueCache:  make(map[int][]any),
		nullCache:   make(map[int]*bitset.BitSet),
	}

	if o.rowNameFn != nil {
		names := make([]string, len(rows))
		for i, r := range rows {
			names[i] = o.rowNameFn(r)
		}
		if err := t.setRowNames(names); err != nil {
			return nil, err
		}
	} else if o.rowNames != nil {
		if err := t.setRowNames(o.rowNames); err != nil {
			return nil, err
		}
	}

	return t, nil
}

func disambiguateColumnNames(ctx context.Context, columnNames []string) ([]string, map[string]int) {
	seen := make(map[string]bool, len(columnNames))
	names := make([]string, len(columnNames))
	index := make(map[string]int, len(columnNames))
	for i, name := range columnNames {
		candidate := name
		if candidate == "" {
			candidate = slugutil.ColumnLabel(i)
		}
		final := slugutil.Dedupe(candidate, seen)
		if final != candidate {
			warnDuplicateName(ctx, "column", candidate, final)
		}
		names[i] = final
		index[final] = i
	}
	return names, index
}

func (t *Table) setRowNames(names []string) error {
	if len(names) != len(t.rows) {
		return &DataTypeError{Column: "", Expected: "one row name per row", Actual: "mismatched length"}
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		if isIntegerLike(n) {
			return &IndexError{Key: n}
		}
		if _, exists := index[n]; exists {
			return &IndexError{Key: n}
		}
		index[n] = i
	}
	t.rowNames = names
	t.rowNameIndex = index
	return nil
}

func isIntegerLike(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// newDerived builds a Table that shares rows with an ancestor (no
// re-casting, no re-validation beyond name disambiguation), the
// structural-sharing path every non-cell-altering transformation uses.
func newDerived(names []string, types []DataType, rows []*Row, rowNames []string) *Table {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}
	t := &Table{
		id:          uuid.New(),
		columnNames: names,
		columnTypes: types,
		columnIndex: index,
		rows:        rows,
		valueCache:  make(map[int][]any),
		nullCache:   make(map[int]*bitset.BitSet),
	}
	if rowNames != nil {
		idx := make(map[string]int, len(rowNames))
		for i, n := range rowNames {
			idx[n] = i
		}
		t.rowNames = rowNames
		t.rowNameIndex = idx
	}
	return t
}

// ID returns an opaque identifier unique to this Table instance, used
// only to correlate log/warning output across a transformation chain.
func (t *Table) ID() string { return t.id.String() }

// ColumnNames returns the ordered, unique column names.
func (t *Table) ColumnNames() []string { return append([]string(nil), t.columnNames...) }

// ColumnTypes returns the DataType of each column, in schema order.
func (t *Table) ColumnTypes() []DataType { return append([]DataType(nil), t.columnTypes...) }

// RowNames returns the table's row names, or nil if the table has none.
func (t *Table) RowNames() []string {
	if t.rowNames == nil {
		return nil
	}
	return append([]string(nil), t.rowNames...)
}

// Rows returns the table's rows in order. The returned slice and its
// Row elements must not be mutated by callers.
func (t *Table) Rows() []*Row { return t.rows }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Column returns a view over the named column, or an IndexError if no
// such column exists.
func (t *Table) Column(name string) (*Column, error) {
	pos, ok := t.columnIndex[name]
	if !ok {
		return nil, &IndexError{Key: name}
	}
	return t.columnAt(pos), nil
}

// MustColumn is Column but panics on error; convenient for tests and
// for code that already validated the column exists.
func (t *Table) MustColumn(name string) *Column {
	c, err := t.Column(name)
	if err != nil {
		panic(err)
	}
	return c
}

func (t *Table) columnAt(pos int) *Column {
	return &Column{table: t, position: pos, name: t.columnNames[pos], dataType: t.columnTypes[pos]}
}

// Columns returns every column view, in schema order.
func (t *Table) Columns() []*Column {
	cols := make([]*Column, len(t.columnNames))
	for i := range t.columnNames {
		cols[i] = t.columnAt(i)
	}
	return cols
}

func (t *Table) columnValues(pos int) []any {
	t.mu.RLock()
	if v, ok := t.valueCache[pos]; ok {
		t.mu.RUnlock()
		return v
	}
	t.mu.RUnlock()

	values := make([]any, len(t.rows))
	for i, r := range t.rows {
		values[i] = r.At(pos)
	}

	t.mu.Lock()
	t.valueCache[pos] = values
	t.mu.Unlock()
	return values
}

func (t *Table) columnNullBits(pos int) *bitset.BitSet {
	t.mu.RLock()
	if b, ok := t.nullCache[pos]; ok {
		t.mu.RUnlock()
		return b
	}
	t.mu.RUnlock()

	bits := bitset.New(uint(len(t.rows)))
	for i, r := range t.rows {
		if IsNull(r.At(pos)) {
			bits.Set(uint(i))
		}
	}

	t.mu.Lock()
	t.nullCache[pos] = bits
	t.mu.Unlock()
	return bits
}

// RowPredicate reports whether a Row should be kept/matched.
type RowPredicate func(row *Row) bool

// Select returns a new Table containing only the named columns, in the
// given order. Row sharing: since no cell is altered, only narrowed,
// each row's cells are copied into narrower new Rows (positions
// change), so structural sharing applies to the cell values, not the
// Row objects themselves.
func (t *Table) Select(names []string) (*Table, error) {
	positions := make([]int, len(names))
	types := make([]DataType, len(names))
	for i, n := range names {
		pos, ok := t.columnIndex[n]
		if !ok {
			return nil, &IndexError{Key: n}
		}
		positions[i] = pos
		types[i] = t.columnTypes[pos]
	}
	rows := make([]*Row, len(t.rows))
	for i, r := range t.rows {
		rows[i] = r.withColumns(names, positions)
	}
	return newDerived(append([]string(nil), names...), types, rows, t.rowNames), nil
}

// Exclude returns the complement of Select: every column not named.
func (t *Table) Exclude(names []string) (*Table, error) {
	excluded := make(map[string]bool, len(names))
	for _, n := range names {
		if _, ok := t.columnIndex[n]; !ok {
			return nil, &IndexError{Key: n}
		}
		excluded[n] = true
	}
	kept := make([]string, 0, len(t.columnNames))
	for _, n := range t.columnNames {
		if !excluded[n] {
			kept = append(kept, n)
		}
	}
	return t.Select(kept)
}

// Where returns a new Table keeping only rows for which pred returns
// true. Kept Rows are the same objects as in t (full structural
// sharing: no cell is altered).
func (t *Table) Where(pred RowPredicate) *Table {
	rows := make([]*Row, 0, len(t.rows))
	var rowNames []string
	for i, r := range t.rows {
		if pred(r) {
			rows = append(rows, r)
			if t.rowNames != nil {
				rowNames = append(rowNames, t.rowNames[i])
			}
		}
	}
	return newDerived(t.columnNames, t.columnTypes, rows, rowNames)
}

// Find returns the first row matching pred, or nil if none matches.
func (t *Table) Find(pred RowPredicate) *Row {
	for _, r := range t.rows {
		if pred(r) {
			return r
		}
	}
	return nil
}

// Limit returns a new Table over rows [start, start+n*step) using
// Python-style slice semantics: step may be any positive integer (the
// spec does not call for negative steps, matching standard slice
// ordering expectations for a left-to-right table).
func (t *Table) Limit(n, start, step int) *Table {
	if step <= 0 {
		step = 1
	}
	var rows []*Row
	var rowNames []string
	count := 0
	for i := start; i >= 0 && i < len(t.rows) && count < n; i += step {
		rows = append(rows, t.rows[i])
		if t.rowNames != nil {
			rowNames = append(rowNames, t.rowNames[i])
		}
		count++
	}
	return newDerived(t.columnNames, t.columnTypes, rows, rowNames)
}

// SortKey computes an ordering key for a row; OrderBy accepts either a
// single column name, multiple column names (compared lexicographically
// left to right), or an arbitrary SortKey function.
type SortKey func(row *Row) any

// OrderByColumn builds a SortKey over a single named column.
func OrderByColumn(name string) SortKey {
	return func(row *Row) any {
		v, _ := row.Get(name)
		return v
	}
}

// OrderByColumns builds a SortKey comparing the named columns in order.
func OrderByColumns(names []string) SortKey {
	return func(row *Row) any {
		values := make([]any, len(names))
		for i, n := range names {
			v, _ := row.Get(n)
			values[i] = v
		}
		return values
	}
}

// OrderBy returns a new Table with rows stably sorted by key. Nulls
// always sort last, both ascending and descending, per spec.md §8's
// "Null sort position" invariant; ties preserve input order.
func (t *Table) OrderBy(key SortKey, reverse bool) *Table {
	type indexed struct {
		row  *Row
		name string
		k    any
		pos  int
	}
	items := make([]indexed, len(t.rows))
	for i, r := range t.rows {
		name := ""
		if t.rowNames != nil {
			name = t.rowNames[i]
		}
		items[i] = indexed{row: r, name: name, k: key(r), pos: i}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].k, items[j].k
		aNull, bNull := isSortNull(a), isSortNull(b)
		if aNull != bNull {
			// nulls last regardless of reverse
			return !aNull
		}
		if aNull && bNull {
			return false
		}
		less := lessValue(a, b)
		if reverse {
			return lessValue(b, a) && !less
		}
		return less
	})

	rows := make([]*Row, len(items))
	var rowNames []string
	if t.rowNames != nil {
		rowNames = make([]string, len(items))
	}
	for i, it := range items {
		rows[i] = it.row
		if rowNames != nil {
			rowNames[i] = it.name
		}
	}
	return newDerived(t.columnNames, t.columnTypes, rows, rowNames)
}

func isSortNull(v any) bool {
	if IsNull(v) {
		return true
	}
	if values, ok := v.([]any); ok {
		for _, vv := range values {
			if IsNull(vv) {
				return true
			}
		}
	}
	return false
}

// DistinctKey derives the dedup identity for a row; when nil,
// Table.Distinct uses each row's full cell tuple.
type DistinctKey func(row *Row) any

// Distinct returns a new Table keeping only the first row for each
// distinct key value, preserving input order.
func (t *Table) Distinct(key DistinctKey) *Table {
	seen := make(map[string]bool, len(t.rows))
	var rows []*Row
	var rowNames []string
	for i, r := range t.rows {
		var k any
		if key != nil {
			k = key(r)
		} else {
			k = r.Values()
		}
		sig := distinctSignature(k)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		rows = append(rows, r)
		if t.rowNames != nil {
			rowNames = append(rowNames, t.rowNames[i])
		}
	}
	return newDerived(t.columnNames, t.columnTypes, rows, rowNames)
}

func distinctSignature(k any) string {
	return valueText(k)
}
