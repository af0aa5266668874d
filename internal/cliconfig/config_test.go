package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "missing.yml"), filepath.Join(dir, "missing.cue"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Locale.GroupSymbol != "," {
		t.Fatalf("expected default group symbol, got %q", cfg.Locale.GroupSymbol)
	}
}

func TestLoadValidatesAgainstSchema(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "agatecli.yml")
	cuePath := filepath.Join(dir, "config.cue")

	schema := `
#Locale: {
	group_symbol:     string
	decimal_symbol:   string
	currency_symbols: [...string]
}
#Config: {
	locale:      #Locale
	null_values: [...string]
	force_types: [string]: string
	type_order:  [...string]
}
`
	if err := os.WriteFile(cuePath, []byte(schema), 0644); err != nil {
		t.Fatal(err)
	}
	yamlContent := "locale:\n  group_symbol: \",\"\n  decimal_symbol: \".\"\n  currency_symbols: [\"$\"]\nnull_values: [\"\"]\nforce_types: {}\ntype_order: []\n"
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath, cuePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Locale.DecimalSymbol != "." {
		t.Fatalf("unexpected decimal symbol: %q", cfg.Locale.DecimalSymbol)
	}
}

func TestWriteDefaultThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "agatecli.yml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path, filepath.Join(dir, "missing.cue"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.NullValues) == 0 {
		t.Fatal("expected default null values to round trip")
	}
}
