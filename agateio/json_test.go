package agateio

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestJSONReaderArray(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sample.json")
	content := `[{"name":"Alice","age":30},{"name":"Bob","age":31}]`
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ToTable(context.Background(), NewJSONReader(file), LoadOptions{})
	if err != nil {
		t.Fatalf("ToTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
}

func TestJSONReaderLines(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sample.jsonl")
	content := "{\"name\":\"Alice\"}\n{\"name\":\"Bob\"}\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewJSONReader(file)
	r.Lines = true
	tbl, err := ToTable(context.Background(), r, LoadOptions{})
	if err != nil {
		t.Fatalf("ToTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
}

func TestJSONWriterProducesArray(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sample.json")
	if err := os.WriteFile(file, []byte(`[{"a":"1"},{"a":"2"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	tbl, err := ToTable(context.Background(), NewJSONReader(file), LoadOptions{})
	if err != nil {
		t.Fatalf("ToTable: %v", err)
	}

	out := filepath.Join(dir, "out.json")
	if err := NewJSONWriter(out).Write(context.Background(), tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}
