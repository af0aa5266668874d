package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wireservice/agate-go"
	"github.com/wireservice/agate-go/agateio"
)

var aggCmd = &cobra.Command{
	Use:   "agg <file>",
	Short: "Group a file by a column and run aggregations over each group.",
	Long: "Runs a group_by + aggregate pipeline, e.g.:\n" +
		"  agatecli agg sample.csv --group-by state --agg count=Count --agg total=Sum:amount",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groupBy, _ := cmd.Flags().GetString("group-by")
		specStrings, _ := cmd.Flags().GetStringArray("agg")
		table, _ := cmd.Flags().GetString("table")
		if groupBy == "" {
			return fmt.Errorf("agatecli: agg requires --group-by")
		}
		if len(specStrings) == 0 {
			return fmt.Errorf("agatecli: agg requires at least one --agg")
		}

		reader, err := openReader(args[0], table)
		if err != nil {
			return err
		}
		tester, err := buildTester(AppConfig)
		if err != nil {
			return err
		}

		ctx := context.Background()
		tbl, err := agateio.ToTable(ctx, reader, agateio.LoadOptions{Tester: tester})
		if err != nil {
			return err
		}

		specs := make([]agate.NamedAggregation, 0, len(specStrings))
		for _, s := range specStrings {
			spec, err := parseAggSpec(s)
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}

		grouped, err := tbl.GroupByColumn(groupBy)
		if err != nil {
			return err
		}
		result, err := grouped.Aggregate(ctx, specs)
		if err != nil {
			return err
		}

		printTable(result)
		return nil
	},
}

// parseAggSpec parses "name=Kind" or "name=Kind:column" into a
// NamedAggregation, e.g. "count=Count" or "total=Sum:amount".
func parseAggSpec(s string) (agate.NamedAggregation, error) {
	nameKind := strings.SplitN(s, "=", 2)
	if len(nameKind) != 2 {
		return agate.NamedAggregation{}, fmt.Errorf("agatecli: invalid --agg %q, want name=Kind[:column]", s)
	}
	name := nameKind[0]
	kindCol := strings.SplitN(nameKind[1], ":", 2)
	kind := kindCol[0]
	column := ""
	if len(kindCol) == 2 {
		column = kindCol[1]
	}

	agg, err := newAggregationByKind(kind, column)
	if err != nil {
		return agate.NamedAggregation{}, err
	}
	return agate.NamedAggregation{Name: name, Agg: agg}, nil
}

func newAggregationByKind(kind, column string) (agate.Aggregation, error) {
	switch strings.ToLower(kind) {
	case "count":
		return agate.NewCount(), nil
	case "sum":
		return &agate.Sum{Column: column}, nil
	case "mean":
		return &agate.Mean{Column: column}, nil
	case "median":
		return &agate.Median{Column: column}, nil
	case "min":
		return &agate.Min{Column: column}, nil
	case "max":
		return &agate.Max{Column: column}, nil
	case "stdev":
		return &agate.StDev{Column: column}, nil
	case "mode":
		return &agate.Mode{Column: column}, nil
	default:
		return nil, fmt.Errorf("agatecli: unknown aggregation kind %q", kind)
	}
}

func printTable(t *agate.Table) {
	names := t.ColumnNames()
	types := t.ColumnTypes()
	fmt.Println(strings.Join(names, "\t"))
	for _, row := range t.Rows() {
		cells := make([]string, len(names))
		for i := range names {
			v := row.At(i)
			if agate.IsNull(v) {
				cells[i] = ""
				continue
			}
			cells[i] = types[i].CastToText(v)
		}
		fmt.Println(strings.Join(cells, "\t"))
	}
}

func init() {
	aggCmd.Flags().String("group-by", "", "column to group by")
	aggCmd.Flags().StringArray("agg", nil, "aggregation spec name=Kind[:column], repeatable")
	aggCmd.Flags().String("table", "", "table name, for SQLite sources with more than one table")
}
