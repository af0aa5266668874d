package agate

import (
	"context"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func mustTable(t *testing.T, rows [][]any, columnNames []string, columnTypes []DataType) *Table {
	t.Helper()
	tbl, err := NewTable(context.Background(), rows, columnNames, columnTypes)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestConstructAndSelect(t *testing.T) {
	rows := [][]any{
		{"a", "1"},
		{"b", "2"},
		{"c", ""},
	}
	tbl := mustTable(t, rows, []string{"letter", "number"}, []DataType{NewText(), NewNumber()})

	selected, err := tbl.Select([]string{"letter"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if selected.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", selected.Len())
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := selected.rows[i].At(0); got != want {
			t.Fatalf("row %d: want %q got %v", i, want, got)
		}
	}

	numberCol := tbl.MustColumn("number")
	if v := numberCol.At(2); !IsNull(v) {
		t.Fatalf("expected null, got %v", v)
	}
}

func TestRowPaddingAndTruncation(t *testing.T) {
	rows := [][]any{
		{"a"},
		{"b", "2", "extra"},
	}
	tbl := mustTable(t, rows, []string{"letter", "number"}, []DataType{NewText(), NewNumber()})
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", tbl.Len())
	}
	if v := tbl.rows[0].At(1); !IsNull(v) {
		t.Fatalf("expected padded cell to be null, got %v", v)
	}
	if got := tbl.rows[1].Len(); got != 2 {
		t.Fatalf("expected truncated row width 2, got %d", got)
	}
}

func TestCastErrorCarriesContext(t *testing.T) {
	rows := [][]any{{"not-a-number"}}
	_, err := NewTable(context.Background(), rows, []string{"n"}, []DataType{NewNumber()})
	if err == nil {
		t.Fatal("expected CastError")
	}
	ce, ok := err.(*CastError)
	if !ok {
		t.Fatalf("expected *CastError, got %T", err)
	}
	if ce.Row != 0 || ce.Column != "n" {
		t.Fatalf("unexpected CastError context: %+v", ce)
	}
}

func TestWhereAndAggregateCount(t *testing.T) {
	ages := []any{"11", "12", "12", "13", "13", "13", "13", "14", "14", "14",
		"", "", "", "", "", "", "", "", ""}
	rows := make([][]any, len(ages))
	for i, a := range ages {
		rows[i] = []any{a}
	}
	tbl := mustTable(t, rows, []string{"age"}, []DataType{NewNumber()})

	filtered := tbl.Where(func(r *Row) bool {
		v, _ := r.Get("age")
		return !IsNull(v)
	})

	countNil, err := filtered.Aggregate(context.Background(), NewCountValue("age", Null))
	if err != nil {
		t.Fatalf("Aggregate Count: %v", err)
	}
	if d := countNil.(*apd.Decimal); decCmp(d, decFromInt(0)) != 0 {
		t.Fatalf("expected 0 nulls after filtering, got %v", d)
	}

	median, err := filtered.Aggregate(context.Background(), &Median{Column: "age"})
	if err != nil {
		t.Fatalf("Aggregate Median: %v", err)
	}
	if d := median.(*apd.Decimal); decCmp(d, decFromInt(13)) != 0 {
		t.Fatalf("expected median 13, got %v", d)
	}
}

func TestOrderByNullsLastAndStable(t *testing.T) {
	rows := [][]any{
		{"b", "2"},
		{"a", ""},
		{"c", "1"},
		{"d", ""},
	}
	tbl := mustTable(t, rows, []string{"letter", "number"}, []DataType{NewText(), NewNumber()})

	ascending := tbl.OrderBy(OrderByColumn("number"), false)
	letters := make([]string, ascending.Len())
	for i, r := range ascending.rows {
		letters[i] = r.At(0).(string)
	}
	if letters[0] != "c" || letters[1] != "b" {
		t.Fatalf("expected numeric values first in order, got %v", letters)
	}
	if letters[2] != "a" || letters[3] != "d" {
		t.Fatalf("expected nulls last preserving input order, got %v", letters)
	}

	descending := tbl.OrderBy(OrderByColumn("number"), true)
	lettersDesc := make([]string, descending.Len())
	for i, r := range descending.rows {
		lettersDesc[i] = r.At(0).(string)
	}
	if lettersDesc[len(lettersDesc)-1] != "d" || lettersDesc[len(lettersDesc)-2] != "a" {
		t.Fatalf("expected nulls last in descending order too, got %v", lettersDesc)
	}
}

func TestComputeGroupByAggregate(t *testing.T) {
	rows := [][]any{
		{"DC", "1990", "2017"},
		{"DC", "1980", "2007"},
		{"NE", "1985", "2005"},
	}
	tbl := mustTable(t, rows, []string{"state", "convicted", "exonerated"}, []DataType{NewText(), NewNumber(), NewNumber()})

	computed, err := tbl.Compute([]ComputeSpec{{Name: "yrs", Computation: &Change{A: "convicted", B: "exonerated"}}}, false)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	grouped, err := computed.GroupByColumn("state")
	if err != nil {
		t.Fatalf("GroupByColumn: %v", err)
	}

	result, err := grouped.Aggregate(context.Background(), []NamedAggregation{
		{Name: "count", Agg: NewCount()},
		{Name: "median", Agg: &Median{Column: "yrs"}},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	found := map[string][2]int64{}
	for _, r := range result.rows {
		state := r.At(0).(string)
		count, _ := r.At(1).(*apd.Decimal).Int64()
		median, _ := r.At(2).(*apd.Decimal).Int64()
		found[state] = [2]int64{count, median}
	}
	if found["DC"] != [2]int64{2, 27} {
		t.Fatalf("expected DC (2, 27), got %v", found["DC"])
	}
	if found["NE"] != [2]int64{1, 20} {
		t.Fatalf("expected NE (1, 20), got %v", found["NE"])
	}
}

func TestImmutabilityAcrossTransform(t *testing.T) {
	rows := [][]any{{"a", "1"}, {"b", "2"}}
	tbl := mustTable(t, rows, []string{"letter", "number"}, []DataType{NewText(), NewNumber()})

	before := tbl.Len()
	_, err := tbl.Select([]string{"letter"})
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if tbl.Len() != before {
		t.Fatalf("original table mutated by Select")
	}
	if tbl.columnNames[0] != "letter" || tbl.columnNames[1] != "number" {
		t.Fatalf("original schema mutated")
	}
}
