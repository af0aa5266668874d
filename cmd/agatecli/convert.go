package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/wireservice/agate-go/agateio"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in-file> <out-file>",
	Short: "Read one tabular format and write another, by file extension.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, _ := cmd.Flags().GetString("table")
		reader, err := openReader(args[0], table)
		if err != nil {
			return err
		}
		writer, err := openWriter(args[1])
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
		if err := writer.Write(ctx, tbl); err != nil {
			return err
		}

		sizeNote := ""
		if info, statErr := os.Stat(args[1]); statErr == nil {
			sizeNote = fmt.Sprintf(" (%s)", humanize.Bytes(uint64(info.Size())))
		}
		fmt.Printf("wrote %s rows to %s%s\n", humanize.Comma(int64(tbl.Len())), args[1], sizeNote)
		return nil
	},
}

func init() {
	convertCmd.Flags().String("table", "", "table name, for SQLite sources with more than one table")
}
