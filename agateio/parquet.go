package agateio

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/wireservice/agate-go"
)

// ParquetReader implements Reader over a .parquet file using the
// generic map[string]interface{} row shape, grounded on the teacher's
// tabular.ParquetLoader batch-read loop. Unlike the teacher (which
// caps rows for embedding-sampling purposes), ParquetReader reads the
// full file; callers wanting a sample should wrap it with a LIMIT
// clause upstream of NewTable via LoadOptions.SampleSize for type
// inference only.
type ParquetReader struct {
	Path      string
	BatchSize int // defaults to 1000, mirrors the teacher's loader
}

func NewParquetReader(path string) *ParquetReader {
	return &ParquetReader{Path: path, BatchSize: 1000}
}

func (r *ParquetReader) Read(ctx context.Context) ([]string, [][]string, error) {
	fr, err := local.NewLocalFileReader(r.Path)
	if err != nil {
		return nil, nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, map[string]interface{}{}, 4)
	if err != nil {
		return nil, nil, err
	}
	defer pr.ReadStop()

	batchSize := r.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	total := int(pr.GetNumRows())
	var objects []map[string]any
	for read := 0; read < total; {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		n := batchSize
		if total-read < n {
			n = total - read
		}
		data := make([]interface{}, n)
		if err := pr.Read(&data); err != nil {
			return nil, nil, err
		}
		for _, rowData := range data {
			if rowData == nil {
				continue
			}
			if m, ok := rowData.(map[string]any); ok {
				objects = append(objects, m)
			}
		}
		read += n
	}

	columnNames, seen := []string{}, map[string]bool{}
	for _, obj := range objects {
		for k := range obj {
			if !seen[k] {
				seen[k] = true
				columnNames = append(columnNames, k)
			}
		}
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		row := make([]string, len(columnNames))
		for j, name := range columnNames {
			row[j] = stringifyJSONValue(obj[name])
		}
		rows[i] = row
	}
	return columnNames, rows, nil
}

// ParquetWriter writes a Table as a parquet file where every column is
// stored as an optional UTF8 string, leaning on the target column's
// CastToText rather than attempting to infer a native parquet schema
// per DataType — simple, and lossless since agate.DataType.Cast can
// always re-parse the rendered text on the way back in.
type ParquetWriter struct {
	Path string
}

func NewParquetWriter(path string) *ParquetWriter {
	return &ParquetWriter{Path: path}
}

func (w *ParquetWriter) Write(ctx context.Context, t *agate.Table) error {
	fw, err := local.NewLocalFileWriter(w.Path)
	if err != nil {
		return err
	}
	defer fw.Close()

	schema := parquetSchemaFor(t.ColumnNames())
	pw, err := writer.NewParquetWriter(fw, schema, 4)
	if err != nil {
		return err
	}

	names := t.ColumnNames()
	types := t.ColumnTypes()
	for _, row := range t.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		record := map[string]any{}
		for i, name := range names {
			v := row.At(i)
			if agate.IsNull(v) {
				continue
			}
			record[name] = types[i].CastToText(v)
		}
		buf, err := json.Marshal(record)
		if err != nil {
			return err
		}
		if err := pw.Write(string(buf)); err != nil {
			return err
		}
	}

	return pw.WriteStop()
}

func parquetSchemaFor(columnNames []string) string {
	schema := `{"Tag":"name=root, repetitiontype=REQUIRED","Fields":[`
	for i, name := range columnNames {
		if i > 0 {
			schema += ","
		}
		schema += fmt.Sprintf(`{"Tag":"name=%s, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"}`, name)
	}
	schema += `]}`
	return schema
}
