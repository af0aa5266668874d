package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wireservice/agate-go"
	"github.com/wireservice/agate-go/agateio"
	"github.com/wireservice/agate-go/internal/cliconfig"
)

// openReader picks a Reader by file extension, the same dispatch the
// teacher's ingest.Loader registry performs by extension, narrowed to
// a plain switch since agatecli only ever needs one Reader at a time.
func openReader(path, table string) (agateio.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		r := agateio.NewCSVReader(path)
		if filepath.Ext(path) == ".tsv" {
			r.Delimiter = '\t'
		}
		return r, nil
	case ".json":
		return agateio.NewJSONReader(path), nil
	case ".jsonl":
		r := agateio.NewJSONReader(path)
		r.Lines = true
		return r, nil
	case ".xlsx", ".xlsm":
		return agateio.NewExcelReader(path), nil
	case ".parquet":
		return agateio.NewParquetReader(path), nil
	case ".sqlite", ".db", ".sqlite3":
		if table == "" {
			tables, err := agateio.Tables(context.Background(), path)
			if err != nil {
				return nil, err
			}
			if len(tables) == 0 {
				return nil, fmt.Errorf("agatecli: %s has no tables", path)
			}
			table = tables[0]
		}
		return agateio.NewSQLiteReader(path, table), nil
	default:
		return nil, fmt.Errorf("agatecli: unsupported file extension %q", filepath.Ext(path))
	}
}

func openWriter(path string) (agateio.Writer, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return agateio.NewCSVWriter(path), nil
	case ".json":
		return agateio.NewJSONWriter(path), nil
	case ".xlsx", ".xlsm":
		return agateio.NewExcelWriter(path), nil
	case ".parquet":
		return agateio.NewParquetWriter(path), nil
	case ".sqlite", ".db", ".sqlite3":
		return agateio.NewSQLiteWriter(path, "data"), nil
	default:
		return nil, fmt.Errorf("agatecli: unsupported file extension %q", filepath.Ext(path))
	}
}

// buildTester turns the config's force_types/type_order into a
// *agate.TypeTester, the CLI-facing counterpart to agatecli.yml's
// 'force_types' and 'type_order' keys.
func buildTester(cfg *cliconfig.Config) (*agate.TypeTester, error) {
	tester := agate.NewTypeTester()

	if len(cfg.TypeOrder) > 0 {
		order := make([]agate.DataType, 0, len(cfg.TypeOrder))
		for _, name := range cfg.TypeOrder {
			dt, err := dataTypeByName(name)
			if err != nil {
				return nil, err
			}
			order = append(order, dt)
		}
		tester.Types = order
	}

	if len(cfg.ForceTypes) > 0 {
		forced := make(map[string]agate.DataType, len(cfg.ForceTypes))
		for column, name := range cfg.ForceTypes {
			dt, err := dataTypeByName(name)
			if err != nil {
				return nil, err
			}
			forced[column] = dt
		}
		tester.Force = forced
	}

	return tester, nil
}

func dataTypeByName(name string) (agate.DataType, error) {
	switch strings.ToLower(name) {
	case "text":
		return agate.NewText(), nil
	case "number":
		return agate.NewNumber(), nil
	case "boolean":
		return agate.NewBoolean(), nil
	case "date":
		return agate.NewDate(), nil
	case "datetime":
		return agate.NewDateTime(), nil
	case "timedelta":
		return agate.NewTimeDelta(), nil
	default:
		return nil, fmt.Errorf("agatecli: unknown type %q", name)
	}
}
