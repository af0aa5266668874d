package agate

import (
	"context"
	"testing"

	"github.com/cockroachdb/apd/v3"
)

func TestAggregationNullabilityRules(t *testing.T) {
	tbl := mustTable(t, [][]any{{""}, {""}, {""}}, []string{"n"}, []DataType{NewNumber()})
	ctx := context.Background()

	for name, agg := range map[string]Aggregation{
		"Mean":               &Mean{Column: "n"},
		"Median":             &Median{Column: "n"},
		"Mode":               &Mode{Column: "n"},
		"Variance":           &Variance{Column: "n"},
		"PopulationVariance": &PopulationVariance{Column: "n"},
		"StDev":              &StDev{Column: "n"},
		"MAD":                &MAD{Column: "n"},
	} {
		v, err := tbl.Aggregate(ctx, agg)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !IsNull(v) {
			t.Fatalf("%s over all-null column should be null, got %v", name, v)
		}
	}

	sumV, err := tbl.Aggregate(ctx, &Sum{Column: "n"})
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if d := sumV.(*apd.Decimal); decCmp(d, decFromInt(0)) != 0 {
		t.Fatalf("Sum over all-null column should be 0, got %v", d)
	}

	countNulls, err := tbl.Aggregate(ctx, NewCountValue("n", Null))
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if d := countNulls.(*apd.Decimal); decCmp(d, decFromInt(3)) != 0 {
		t.Fatalf("expected 3 nulls counted, got %v", d)
	}
}

func TestMeanMedianSumOverRealData(t *testing.T) {
	rows := [][]any{{"1"}, {"2"}, {"3"}, {"4"}}
	tbl := mustTable(t, rows, []string{"n"}, []DataType{NewNumber()})
	ctx := context.Background()

	mean, err := tbl.Aggregate(ctx, &Mean{Column: "n"})
	if err != nil {
		t.Fatalf("Mean: %v", err)
	}
	if d := mean.(*apd.Decimal); decCmp(d, MustDecimal("2.5")) != 0 {
		t.Fatalf("expected mean 2.5, got %v", d)
	}

	median, err := tbl.Aggregate(ctx, &Median{Column: "n"})
	if err != nil {
		t.Fatalf("Median: %v", err)
	}
	if d := median.(*apd.Decimal); decCmp(d, MustDecimal("2.5")) != 0 {
		t.Fatalf("expected median 2.5, got %v", d)
	}

	sum, err := tbl.Aggregate(ctx, &Sum{Column: "n"})
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if d := sum.(*apd.Decimal); decCmp(d, decFromInt(10)) != 0 {
		t.Fatalf("expected sum 10, got %v", d)
	}
}

func TestBinsTotalMatchesRowCount(t *testing.T) {
	rows := make([][]any, 0, 21)
	for i := 0; i <= 20; i++ {
		rows = append(rows, []any{MustDecimal(itoaForTest(i)).Text('f')})
	}
	rows = append(rows, []any{""})
	tbl := mustTable(t, rows, []string{"n"}, []DataType{NewNumber()})

	result, err := tbl.Bins("n", BinsOptions{Count: 5})
	if err != nil {
		t.Fatalf("Bins: %v", err)
	}

	total := 0
	for _, r := range result.rows {
		d := r.At(1).(*apd.Decimal)
		n, _ := d.Int64()
		total += int(n)
	}
	if total != tbl.Len() {
		t.Fatalf("expected bin total %d to equal row count %d", total, tbl.Len())
	}
}

func TestBinsLiteralScenario(t *testing.T) {
	rows := [][]any{{"5"}, {"15"}, {"25"}, {"25"}, {"95"}}
	tbl := mustTable(t, rows, []string{"age"}, []DataType{NewNumber()})

	result, err := tbl.Bins("age", BinsOptions{Count: 10, Start: decFromInt(0), End: decFromInt(100)})
	if err != nil {
		t.Fatalf("Bins: %v", err)
	}

	want := []int64{1, 1, 2, 0, 0, 0, 0, 0, 0, 1}
	if result.Len() != len(want) {
		t.Fatalf("expected %d bins, got %d", len(want), result.Len())
	}
	for i, w := range want {
		got, _ := result.rows[i].At(1).(*apd.Decimal).Int64()
		if got != w {
			t.Fatalf("bin %d (%v): expected count %d, got %d", i, result.rows[i].At(0), w, got)
		}
	}
}

func TestModeTieBreaksOnSmallestValue(t *testing.T) {
	rows := [][]any{{"5"}, {"3"}, {"3"}, {"5"}}
	tbl := mustTable(t, rows, []string{"n"}, []DataType{NewNumber()})

	mode, err := tbl.Aggregate(context.Background(), &Mode{Column: "n"})
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if d := mode.(*apd.Decimal); decCmp(d, decFromInt(3)) != 0 {
		t.Fatalf("expected smallest-value tie-break to pick 3, got %v", d)
	}
}

func itoaForTest(i int) string {
	d := decFromInt(i)
	return d.Text('f')
}
