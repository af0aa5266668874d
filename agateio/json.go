package agateio

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wireservice/agate-go"
)

// JSONReader implements Reader over a JSON array of objects, a single
// JSON object, or newline-delimited JSON (.jsonl), grounded on the
// teacher's tabular.JSONLoader token-peeking dispatch. Columns are
// collected object by object: each object's not-yet-seen keys are
// appended in sorted order, since JSON objects carry no inherent
// column schema.
type JSONReader struct {
	Path string
	// Lines forces newline-delimited parsing regardless of file
	// extension; by default JSONReader sniffs the first non-whitespace
	// byte.
	Lines bool
}

func NewJSONReader(path string) *JSONReader {
	return &JSONReader{Path: path}
}

func (r *JSONReader) Read(ctx context.Context) ([]string, [][]string, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	var objects []map[string]any
	if r.Lines {
		objects, err = readJSONLines(f)
	} else {
		objects, err = readJSONAuto(f)
	}
	if err != nil {
		return nil, nil, err
	}

	columnNames, seen := []string{}, map[string]bool{}
	for _, obj := range objects {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columnNames = append(columnNames, k)
			}
		}
	}

	rows := make([][]string, len(objects))
	for i, obj := range objects {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(columnNames))
		for j, name := range columnNames {
			row[j] = stringifyJSONValue(obj[name])
		}
		rows[i] = row
	}
	return columnNames, rows, nil
}

func readJSONLines(f io.Reader) ([]map[string]any, error) {
	var objects []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal(line, &obj); err != nil {
			return nil, fmt.Errorf("agateio: invalid jsonl line: %w", err)
		}
		objects = append(objects, obj)
	}
	return objects, scanner.Err()
}

func readJSONAuto(f *os.File) ([]map[string]any, error) {
	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); ok && delim == '[' {
		var objects []map[string]any
		for dec.More() {
			var obj map[string]any
			if err := dec.Decode(&obj); err != nil {
				return nil, err
			}
			objects = append(objects, obj)
		}
		return objects, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var obj map[string]any
	if err := json.NewDecoder(f).Decode(&obj); err != nil {
		return nil, err
	}
	return []map[string]any{obj}, nil
}

func stringifyJSONValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// JSONWriter serializes a Table as a JSON array of row objects.
type JSONWriter struct {
	Path string
}

func NewJSONWriter(path string) *JSONWriter {
	return &JSONWriter{Path: path}
}

func (w *JSONWriter) Write(ctx context.Context, t *agate.Table) error {
	f, err := os.Create(w.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := t.ColumnNames()
	types := t.ColumnTypes()

	out := make([]map[string]any, 0, t.Len())
	for _, row := range t.Rows() {
		if err := ctx.Err(); err != nil {
			return err
		}
		obj := make(map[string]any, len(names))
		for i, name := range names {
			v := row.At(i)
			if agate.IsNull(v) {
				obj[name] = nil
				continue
			}
			obj[name] = types[i].CastToText(v)
		}
		out = append(out, obj)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
