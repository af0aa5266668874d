package agate

import (
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// JoinKey extracts a join key from a row; it is how join.go lets
// callers key on a row-function instead of plain column names.
type JoinKey func(row *Row) []any

// JoinOptions configures Table.Join. LeftKey/RightKey name one or more
// columns (matched positionally); when both are nil, the join is
// sequential (row N left with row N right). RightKey defaults to
// LeftKey when nil and LeftKeyFunc/RightKeyFunc are both unset.
type JoinOptions struct {
	LeftKey      []string
	RightKey     []string
	LeftKeyFunc  JoinKey
	RightKeyFunc JoinKey

	Inner        bool
	FullOuter    bool
	RequireMatch bool

	// Columns restricts which right-side columns (other than the key
	// columns, which are always omitted) appear in the output. Nil
	// means "all".
	Columns []string
}

// Join implements spec.md §4.2.1: an equi-join of t (left) against
// right, keyed by column name(s) or a row-function, with left-outer,
// inner, full-outer and sequential variants. Grounded on the O(L+R)
// indexing requirement: the right side is indexed once into a
// map[string][]int keyed by the text-coerced join key, and a
// roaring.Bitmap tracks which right positions were matched (needed by
// the full-outer unmatched-right pass).
func (t *Table) Join(right *Table, opts JoinOptions) (*Table, error) {
	if opts.LeftKey == nil && opts.RightKey == nil && opts.LeftKeyFunc == nil && opts.RightKeyFunc == nil {
		return t.joinSequential(right, opts)
	}

	rightKeyCols := opts.RightKey
	if rightKeyCols == nil {
		rightKeyCols = opts.LeftKey
	}

	leftKeyFn := opts.LeftKeyFunc
	if leftKeyFn == nil {
		cols := opts.LeftKey
		leftKeyFn = func(r *Row) []any { return keyValues(r, cols) }
	}
	rightKeyFn := opts.RightKeyFunc
	if rightKeyFn == nil {
		cols := rightKeyCols
		rightKeyFn = func(r *Row) []any { return keyValues(r, cols) }
	}

	rightKeyPositions := make(map[int]bool)
	for _, name := range rightKeyCols {
		if pos, ok := right.columnIndex[name]; ok {
			rightKeyPositions[pos] = true
		}
	}

	outCols, outTypes, rightPositions := t.joinOutputSchema(right, rightKeyPositions, opts.Columns)

	index := make(map[string][]int, len(right.rows))
	for i, r := range right.rows {
		k := joinKeySignature(rightKeyFn(r))
		index[k] = append(index[k], i)
	}

	matchedRight := roaring.New()
	var rows []*Row

	for li, lr := range t.rows {
		k := joinKeySignature(leftKeyFn(lr))
		matches := index[k]
		if len(matches) == 0 {
			if opts.RequireMatch {
				return nil, &JoinError{Row: li}
			}
			if !opts.Inner {
				rows = append(rows, joinRow(outCols, lr, nil, rightPositions))
			}
			continue
		}
		for _, ri := range matches {
			matchedRight.Add(uint32(ri))
			rows = append(rows, joinRow(outCols, lr, right.rows[ri], rightPositions))
		}
	}

	if opts.FullOuter {
		for ri, rr := range right.rows {
			if matchedRight.Contains(uint32(ri)) {
				continue
			}
			rows = append(rows, joinRow(outCols, nil, rr, rightPositions))
		}
	}

	return newDerived(outCols, outTypes, rows, nil), nil
}

func (t *Table) joinSequential(right *Table, opts JoinOptions) (*Table, error) {
	outCols, outTypes, rightPositions := t.joinOutputSchema(right, nil, opts.Columns)

	n := len(t.rows)
	if !opts.Inner && len(right.rows) > n {
		n = len(right.rows)
	} else if opts.Inner && len(right.rows) < n {
		n = len(right.rows)
	}

	var rows []*Row
	for i := 0; i < n; i++ {
		var lr, rr *Row
		if i < len(t.rows) {
			lr = t.rows[i]
		}
		if i < len(right.rows) {
			rr = right.rows[i]
		}
		if opts.RequireMatch && rr == nil {
			return nil, &JoinError{Row: i}
		}
		if opts.Inner && (lr == nil || rr == nil) {
			continue
		}
		rows = append(rows, joinRow(outCols, lr, rr, rightPositions))
	}
	return newDerived(outCols, outTypes, rows, nil), nil
}

// joinOutputSchema builds the combined schema: every left column, then
// every eligible right column (excluding right key columns, filtered
// by an explicit Columns allow-list when given), with collisions in
// non-key names disambiguated by a numeric suffix.
func (t *Table) joinOutputSchema(right *Table, rightKeyPositions map[int]bool, allow []string) ([]string, []DataType, []int) {
	var allowSet map[string]bool
	if allow != nil {
		allowSet = make(map[string]bool, len(allow))
		for _, a := range allow {
			allowSet[a] = true
		}
	}

	names := append([]string(nil), t.columnNames...)
	types := append([]DataType(nil), t.columnTypes...)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}

	var rightPositions []int
	for i, name := range right.columnNames {
		if rightKeyPositions[i] {
			continue
		}
		if allowSet != nil && !allowSet[name] {
			continue
		}
		final := name
		if seen[final] {
			n := 2
			for seen[final] {
				final = name + "_" + strconv.Itoa(n)
				n++
			}
		}
		seen[final] = true
		names = append(names, final)
		types = append(types, right.columnTypes[i])
		rightPositions = append(rightPositions, i)
	}
	return names, types, rightPositions
}

func joinRow(names []string, left, right *Row, rightPositions []int) *Row {
	values := make([]any, len(names))
	i := 0
	if left != nil {
		for _, v := range left.Values() {
			values[i] = v
			i++
		}
	} else {
		for range names[:len(names)-len(rightPositions)] {
			values[i] = Null
			i++
		}
	}
	for _, pos := range rightPositions {
		if right != nil {
			values[i] = right.At(pos)
		} else {
			values[i] = Null
		}
		i++
	}
	return newRow(names, values)
}

func keyValues(r *Row, cols []string) []any {
	values := make([]any, len(cols))
	for i, c := range cols {
		v, _ := r.Get(c)
		values[i] = v
	}
	return values
}

// joinKeySignature coerces a multi-column key to Text, per spec.md
// §4.2.1's "matched by value equality after type-coercion to Text when
// types differ".
func joinKeySignature(values []any) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		if IsNull(v) {
			b.WriteString("\x00null\x00")
			continue
		}
		b.WriteString(joinCellText(v))
	}
	return b.String()
}

func joinCellText(v any) string {
	switch vv := v.(type) {
	case string:
		return vv
	default:
		// Drop valueText's one-letter type tag so that keys of
		// different types compare by their text alone.
		s := valueText(vv)
		if len(s) >= 2 && s[1] == ':' {
			return s[2:]
		}
		return s
	}
}
