// Package agateio holds the Reader/Writer collaborators spec.md §6
// names but leaves external: adapters that turn a file format into the
// (headers, rows) shape agate.NewTable expects, and the reverse.
package agateio

import (
	"context"

	"github.com/wireservice/agate-go"
)

// Reader produces the raw materials for an agate.Table: a header row
// (possibly nil, when the source has no names) and every data row as
// string cells, left uncast so the caller chooses a TypeTester or an
// explicit column type list.
type Reader interface {
	Read(ctx context.Context) (headers []string, rows [][]string, err error)
}

// Writer serializes a Table to some external sink.
type Writer interface {
	Write(ctx context.Context, t *agate.Table) error
}

// LoadOptions configures how ToTable turns a Reader's raw cells into a
// Table.
type LoadOptions struct {
	// ColumnTypes, when non-nil, is used verbatim instead of running a
	// TypeTester over the sampled rows.
	ColumnTypes []agate.DataType
	// Tester is used to infer column types when ColumnTypes is nil. A
	// zero-value TypeTester (agate.NewTypeTester()) is used if this is
	// also nil.
	Tester *agate.TypeTester
	// SampleSize caps how many rows are sampled for inference; 0 means
	// every row is sampled.
	SampleSize int
}

// ToTable reads every row from r and builds an agate.Table, inferring
// column types via a TypeTester unless opts.ColumnTypes is given. This
// is the common tail shared by every concrete Reader,
// mirroring how the teacher's tabular loaders all funnel into the
// single BuildRepresentations helper after format-specific parsing.
func ToTable(ctx context.Context, r Reader, opts LoadOptions) (*agate.Table, error) {
	headers, rows, err := r.Read(ctx)
	if err != nil {
		return nil, err
	}

	columnNames := headers
	if columnNames == nil {
		width := 0
		for _, row := range rows {
			if len(row) > width {
				width = len(row)
			}
		}
		columnNames = make([]string, width)
		for i := range columnNames {
			columnNames[i] = columnLetters(i)
		}
	}

	columnTypes := opts.ColumnTypes
	if columnTypes == nil {
		tester := opts.Tester
		if tester == nil {
			tester = agate.NewTypeTester()
		}
		if opts.SampleSize > 0 {
			tester.Limit = opts.SampleSize
		}
		samples := make(map[string][]string, len(columnNames))
		for _, row := range rows {
			for i, name := range columnNames {
				if i < len(row) {
					samples[name] = append(samples[name], row[i])
				}
			}
		}
		columnTypes = tester.Infer(ctx, columnNames, samples)
	}

	rawRows := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		rawRows[i] = cells
	}

	return agate.NewTable(ctx, rawRows, columnNames, columnTypes)
}

// columnLetters generates spreadsheet-style fallback column names (A,
// B, ..., Z, AA, AB, ...) for headerless sources, the same scheme
// excelize uses for its own column addressing.
func columnLetters(i int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	if i < 26 {
		return string(alphabet[i])
	}
	return columnLetters(i/26-1) + string(alphabet[i%26])
}
