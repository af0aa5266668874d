package agateio

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/wireservice/agate-go"
)

// SQLiteReader implements Reader over a single named table of a
// SQLite database, grounded on the teacher's tabular.SQLiteLoader
// `SELECT * FROM <table>` + generic Scan loop. One Reader per table,
// matching ExcelReader's one-sheet-per-Reader convention.
type SQLiteReader struct {
	Path  string
	Table string
}

func NewSQLiteReader(path, table string) *SQLiteReader {
	return &SQLiteReader{Path: path, Table: table}
}

// Tables lists the user tables in a SQLite file without reading any
// rows.
func Tables(ctx context.Context, path string) ([]string, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *SQLiteReader) Read(ctx context.Context) ([]string, [][]string, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", r.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, nil, err
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT * FROM %s", r.Table)
	rs, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	defer rs.Close()

	columnNames, err := rs.Columns()
	if err != nil {
		return nil, nil, err
	}

	var rows [][]string
	for rs.Next() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		vals := make([]any, len(columnNames))
		ptrs := make([]any, len(columnNames))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rs.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(columnNames))
		for i, v := range vals {
			if v == nil {
				row[i] = ""
				continue
			}
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
				continue
			}
			row[i] = fmt.Sprintf("%v", v)
		}
		rows = append(rows, row)
	}
	return columnNames, rows, rs.Err()
}

// SQLiteWriter writes a Table into a new table of a SQLite database,
// creating it if necessary, every column typed TEXT since CastToText
// already normalizes every DataType into a re-parseable string.
type SQLiteWriter struct {
	Path  string
	Table string
}

func NewSQLiteWriter(path, table string) *SQLiteWriter {
	return &SQLiteWriter{Path: path, Table: table}
}

func (w *SQLiteWriter) Write(ctx context.Context, t *agate.Table) error {
	db, err := sql.Open("sqlite", w.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	names := t.ColumnNames()
	types := t.ColumnTypes()

	createCols := ""
	placeholders := ""
	for i, name := range names {
		if i > 0 {
			createCols += ", "
			placeholders += ", "
		}
		createCols += fmt.Sprintf("%q TEXT", name)
		placeholders += "?"
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", w.Table, createCols)); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %q VALUES (%s)", w.Table, placeholders))
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, row := range t.Rows() {
		if err := ctx.Err(); err != nil {
			tx.Rollback()
			return err
		}
		args := make([]any, len(names))
		for i := range names {
			v := row.At(i)
			if agate.IsNull(v) {
				args[i] = nil
				continue
			}
			args[i] = types[i].CastToText(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}
