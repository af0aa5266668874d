package main

import (
	"testing"

	"github.com/wireservice/agate-go/agateio"
	"github.com/wireservice/agate-go/internal/cliconfig"
)

func TestOpenReaderDispatchesByExtension(t *testing.T) {
	cases := map[string]any{
		"sample.csv":     &agateio.CSVReader{},
		"sample.json":    &agateio.JSONReader{},
		"sample.xlsx":    &agateio.ExcelReader{},
		"sample.parquet": &agateio.ParquetReader{},
	}
	for path, want := range cases {
		got, err := openReader(path, "")
		if err != nil {
			t.Fatalf("openReader(%q): %v", path, err)
		}
		if typeNameOf(got) != typeNameOf(want) {
			t.Fatalf("openReader(%q) = %T, want %T", path, got, want)
		}
	}
}

func TestOpenReaderRejectsUnknownExtension(t *testing.T) {
	if _, err := openReader("sample.exe", ""); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
}

func TestBuildTesterAppliesForcedTypes(t *testing.T) {
	cfg := &cliconfig.Config{ForceTypes: map[string]string{"id": "Text"}}
	tester, err := buildTester(cfg)
	if err != nil {
		t.Fatalf("buildTester: %v", err)
	}
	if tester.Force["id"].Name() != "Text" {
		t.Fatalf("expected forced Text type for id column")
	}
}

func typeNameOf(v any) string {
	switch v.(type) {
	case *agateio.CSVReader:
		return "csv"
	case *agateio.JSONReader:
		return "json"
	case *agateio.ExcelReader:
		return "excel"
	case *agateio.ParquetReader:
		return "parquet"
	default:
		return "other"
	}
}
