package agate

import (
	"context"
	"testing"
)

func TestMergeUnionsColumnsAndFillsNull(t *testing.T) {
	a := mustTable(t, [][]any{{"x", "1"}}, []string{"letter", "number"}, []DataType{NewText(), NewNumber()})
	b := mustTable(t, [][]any{{"y", "other"}}, []string{"letter", "extra"}, []DataType{NewText(), NewText()})

	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if merged.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", merged.Len())
	}
	if merged.columnNames[0] != "letter" || merged.columnNames[1] != "number" || merged.columnNames[2] != "extra" {
		t.Fatalf("unexpected column order: %v", merged.columnNames)
	}
	if v := merged.rows[0].At(2); !IsNull(v) {
		t.Fatalf("expected null for column missing from first table's row, got %v", v)
	}
	if v := merged.rows[1].At(1); !IsNull(v) {
		t.Fatalf("expected null for column missing from second table's row, got %v", v)
	}
}

func TestMergeRejectsIncompatibleKinds(t *testing.T) {
	a := mustTable(t, [][]any{{"1"}}, []string{"value"}, []DataType{NewNumber()})
	b := mustTable(t, [][]any{{"x"}}, []string{"value"}, []DataType{NewText()})

	_, err := a.Merge(b)
	if err == nil {
		t.Fatal("expected DataTypeError for a Text/Number clash on the same column name")
	}
	dte, ok := err.(*DataTypeError)
	if !ok {
		t.Fatalf("expected *DataTypeError, got %T", err)
	}
	if dte.Column != "value" {
		t.Fatalf("unexpected column in DataTypeError: %+v", dte)
	}
}

func TestMergeEarliestLocaleWinsAndRecasts(t *testing.T) {
	// Same column name, same kind (Number), different locale configuration:
	// a's plain "." decimal point wins, b's European "," decimal/"." group
	// locale must be re-cast under it rather than rejected outright.
	euro := NewNumber(NumberGroupSymbol("."), NumberDecimalSymbol(","))
	a := mustTable(t, [][]any{{"1.5"}}, []string{"amount"}, []DataType{NewNumber()})
	b := mustTable(t, [][]any{{"2,5"}}, []string{"amount"}, []DataType{euro})

	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if !merged.columnTypes[0].Equal(NewNumber()) {
		t.Fatalf("expected merged column to use the earliest table's locale, got %v", merged.columnTypes[0])
	}
	if got := merged.columnTypes[0].CastToText(merged.rows[1].At(0)); got != "2.5" {
		t.Fatalf("expected b's cell re-cast to 2.5 under a's locale, got %q", got)
	}
}

func TestMergeDropsRowNames(t *testing.T) {
	a, err := NewTableWithRowNames(context.Background(), [][]any{{"x"}}, []string{"letter"}, []DataType{NewText()}, WithRowNames([]string{"row-x"}))
	if err != nil {
		t.Fatalf("NewTableWithRowNames: %v", err)
	}
	b := mustTable(t, [][]any{{"y"}}, []string{"letter"}, []DataType{NewText()})

	merged, err := a.Merge(b)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}
	if len(merged.rowNames) != 0 {
		t.Fatalf("expected row names dropped by Merge, got %v", merged.rowNames)
	}
}
