package agateio

import (
	"context"

	"github.com/xuri/excelize/v2"

	"github.com/wireservice/agate-go"
)

// ExcelReader implements Reader over a single sheet of an .xlsx
// workbook, grounded on the teacher's tabular.ExcelLoader sheet/row
// walk. Unlike the teacher (which flattens every sheet into one
// representation stream), ExcelReader targets one sheet per Table,
// matching agate's one-schema-per-Table model; callers wanting every
// sheet construct one ExcelReader per name from Sheets.
type ExcelReader struct {
	Path  string
	Sheet string // empty means the workbook's first sheet
}

func NewExcelReader(path string) *ExcelReader {
	return &ExcelReader{Path: path}
}

// Sheets lists the sheet names in path without reading any rows, so
// callers can build one Reader per sheet.
func Sheets(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (r *ExcelReader) Read(ctx context.Context) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		sheet = f.GetSheetList()[0]
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, nil
	}

	headers := all[0]
	rows := make([][]string, 0, len(all)-1)
	for _, record := range all[1:] {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(headers))
		copy(row, record)
		rows = append(rows, row)
	}
	return headers, rows, nil
}

// ExcelWriter writes a Table to a single sheet of a new .xlsx
// workbook.
type ExcelWriter struct {
	Path  string
	Sheet string // defaults to "Sheet1"
}

func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{Path: path, Sheet: "Sheet1"}
}

func (w *ExcelWriter) Write(ctx context.Context, t *agate.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := w.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if _, err := f.NewSheet(sheet); err != nil {
			return err
		}
		f.DeleteSheet("Sheet1")
	}

	names := t.ColumnNames()
	types := t.ColumnTypes()
	for col, name := range names {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for rowIdx, row := range t.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col := range names {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			v := row.At(col)
			if agate.IsNull(v) {
				continue
			}
			if err := f.SetCellValue(sheet, cell, types[col].CastToText(v)); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(w.Path)
}
