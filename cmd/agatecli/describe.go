package main

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wireservice/agate-go/agateio"
)

var describeCmd = &cobra.Command{
	Use:   "describe <file-or-glob>",
	Short: "Infer and print one or more files' column schemas.",
	Long: "Infer and print column schemas. The argument may be a doublestar glob\n" +
		"(e.g. \"data/**/*.csv\") to describe every matching file in turn.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")

		paths, err := doublestar.FilepathGlob(args[0])
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			paths = []string{args[0]}
		}

		tester, err := buildTester(AppConfig)
		if err != nil {
			return err
		}

		for _, path := range paths {
			reader, err := openReader(path, table)
			if err != nil {
				return err
			}

			tbl, err := agateio.ToTable(context.Background(), reader, agateio.LoadOptions{Tester: tester})
			if err != nil {
				return err
			}

			names := tbl.ColumnNames()
			types := tbl.ColumnTypes()
			if len(paths) > 1 {
				fmt.Println(path + ":")
			}
			fmt.Printf("%s rows, %s columns\n", humanize.Comma(int64(tbl.Len())), humanize.Comma(int64(len(names))))
			for i, name := range names {
				fmt.Printf("  %-24s %s\n", name, types[i].Name())
			}
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().String("table", "", "table name, for SQLite sources with more than one table")
}
