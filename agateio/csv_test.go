package agateio

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/wireservice/agate-go"
)

func TestCSVReaderToTable(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "sample.csv")
	content := "name,age\nAlice,30\nBob,31\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	tbl, err := ToTable(context.Background(), NewCSVReader(file), LoadOptions{})
	if err != nil {
		t.Fatalf("ToTable: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if tbl.ColumnNames()[0] != "name" || tbl.ColumnNames()[1] != "age" {
		t.Fatalf("unexpected column names: %v", tbl.ColumnNames())
	}
	if tbl.ColumnTypes()[1].Name() != "Number" {
		t.Fatalf("expected age column inferred as Number, got %s", tbl.ColumnTypes()[1].Name())
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	rows := [][]any{{"a", "1"}, {"b", "2"}}
	tbl, err := agate.NewTable(context.Background(), rows, []string{"letter", "number"}, []agate.DataType{agate.NewText(), agate.NewNumber()})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	dir := t.TempDir()
	file := filepath.Join(dir, "out.csv")
	if err := NewCSVWriter(file).Write(context.Background(), tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}

	roundTripped, err := ToTable(context.Background(), NewCSVReader(file), LoadOptions{})
	if err != nil {
		t.Fatalf("ToTable on written file: %v", err)
	}
	if roundTripped.Len() != tbl.Len() {
		t.Fatalf("expected %d rows after round trip, got %d", tbl.Len(), roundTripped.Len())
	}
}

func TestCSVReaderFieldSizeLimit(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "big.csv")
	content := "name\n" + string(make([]byte, 100)) + "\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewCSVReader(file)
	r.MaxFieldSize = 10
	_, _, err := r.Read(context.Background())
	if err == nil {
		t.Fatal("expected FieldSizeLimitError")
	}
	if _, ok := err.(*agate.FieldSizeLimitError); !ok {
		t.Fatalf("expected *agate.FieldSizeLimitError, got %T", err)
	}
}
