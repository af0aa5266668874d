package agate

import (
	"context"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestNormalizeDenormalizeRoundTrip(t *testing.T) {
	rows := [][]any{
		{"alice", "30", "engineer"},
		{"bob", "40", "manager"},
	}
	tbl := mustTable(t, rows, []string{"name", "age", "title"}, []DataType{NewText(), NewNumber(), NewText()})

	long, err := tbl.Normalize([]string{"name"}, []string{"age", "title"}, "property", "value")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if long.Len() != 4 {
		t.Fatalf("expected 4 long rows, got %d", long.Len())
	}

	wide, err := long.Denormalize([]string{"name"}, "property", "value", nil)
	if err != nil {
		t.Fatalf("Denormalize: %v", err)
	}
	if wide.Len() != 2 {
		t.Fatalf("expected 2 rows back, got %d", wide.Len())
	}

	ageCol, err := wide.Column("age")
	if err != nil {
		t.Fatalf("missing age column after round trip: %v", err)
	}
	if ageCol.At(0) != "30" && ageCol.At(1) != "30" {
		t.Fatalf("expected age 30 to survive round trip, got %v", ageCol.Values())
	}
}

func TestPivotIdentityWithGroupByCount(t *testing.T) {
	rows := [][]any{
		{"x"}, {"x"}, {"y"},
	}
	tbl := mustTable(t, rows, []string{"letter"}, []DataType{NewText()})
	ctx := context.Background()

	pivoted, err := tbl.Pivot(ctx, []string{"letter"}, PivotOptions{})
	if err != nil {
		t.Fatalf("Pivot: %v", err)
	}

	grouped, err := tbl.GroupByColumn("letter")
	if err != nil {
		t.Fatalf("GroupByColumn: %v", err)
	}
	grouped_agg, err := grouped.Aggregate(ctx, []NamedAggregation{{Name: "Count", Agg: NewCount()}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if pivoted.Len() != grouped_agg.Len() {
		t.Fatalf("pivot/group_by row count mismatch: %d vs %d", pivoted.Len(), grouped_agg.Len())
	}
}

func TestPivotRaceGenderSumAge(t *testing.T) {
	rows := [][]any{
		{"white", "male", "10"},
		{"white", "male", "20"},
		{"white", "female", "5"},
		{"black", "male", "7"},
	}
	tbl := mustTable(t, rows, []string{"race", "gender", "age"}, []DataType{NewText(), NewText(), NewNumber()})
	ctx := context.Background()

	pivoted, err := tbl.Pivot(ctx, []string{"race"}, PivotOptions{
		Columns:     []string{"gender"},
		Aggregation: &Sum{Column: "age"},
	})
	if err != nil {
		t.Fatalf("Pivot: %v", err)
	}

	if pivoted.columnNames[0] != "race" || pivoted.columnNames[1] != "male" || pivoted.columnNames[2] != "female" {
		t.Fatalf("expected columns [race male female], got %v", pivoted.columnNames)
	}

	found := map[string][2]int64{}
	for _, r := range pivoted.rows {
		race := r.At(0).(string)
		male, _ := r.At(1).(*apd.Decimal).Int64()
		female, _ := r.At(2).(*apd.Decimal).Int64()
		found[race] = [2]int64{male, female}
	}
	if found["white"] != [2]int64{30, 5} {
		t.Fatalf("expected white (male=30, female=5), got %v", found["white"])
	}
	if found["black"] != [2]int64{7, 0} {
		t.Fatalf("expected black (male=7, female=0), got %v", found["black"])
	}
}

func TestHomogenizeInsertsMissingKeys(t *testing.T) {
	rows := [][]any{
		{"2020", "10"},
		{"2022", "30"},
	}
	tbl := mustTable(t, rows, []string{"year", "value"}, []DataType{NewNumber(), NewNumber()})

	expected := [][]any{{MustDecimal("2020")}, {MustDecimal("2021")}, {MustDecimal("2022")}}
	result, err := tbl.Homogenize([]string{"year"}, expected, []any{"0"}, nil)
	if err != nil {
		t.Fatalf("Homogenize: %v", err)
	}
	if result.Len() != 3 {
		t.Fatalf("expected 3 rows after homogenize, got %d", result.Len())
	}
}
