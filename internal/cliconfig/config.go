// Package cliconfig loads cmd/agatecli's YAML configuration and
// validates it against a CUE schema, grounded on the teacher's
// internal/config/config.go unmarshal-then-CUE-unify-then-validate
// pipeline.
package cliconfig

import (
	stdlibErrors "errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueErrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the locale/type-inference defaults of an agatecli
// config file. agatecli's type inference reads only ForceTypes and
// TypeOrder; Locale and NullValues are loaded but not applied.
type Config struct {
	Locale     LocaleConfig      `yaml:"locale"`
	NullValues []string          `yaml:"null_values"`
	ForceTypes map[string]string `yaml:"force_types"`
	TypeOrder  []string          `yaml:"type_order"`
}

// LocaleConfig matches the 'locale' section of an agatecli config
// file. Nothing passes its fields on to internal/decimalfmt.Options.
type LocaleConfig struct {
	GroupSymbol     string   `yaml:"group_symbol" cue:"group_symbol"`
	DecimalSymbol   string   `yaml:"decimal_symbol" cue:"decimal_symbol"`
	CurrencySymbols []string `yaml:"currency_symbols" cue:"currency_symbols"`
}

// ErrUnknownField reports a config key the CUE schema doesn't allow.
type ErrUnknownField struct {
	Err error
}

func (e *ErrUnknownField) Error() string { return fmt.Sprintf("unknown field in configuration: %v", e.Err) }
func (e *ErrUnknownField) Unwrap() error { return e.Err }

// DefaultConfigPath and DefaultCueSchemaPath match the teacher's
// convention of a project-root YAML file plus a docs/ CUE schema.
const (
	DefaultConfigPath    = "agatecli.yml"
	DefaultCueSchemaPath = "docs/config.cue"
)

// Default returns the built-in locale/type defaults, used when no
// config file is present.
func Default() *Config {
	return &Config{
		Locale: LocaleConfig{
			GroupSymbol:     ",",
			DecimalSymbol:   ".",
			CurrencySymbols: []string{"$", "£", "€", "¥"},
		},
		NullValues: []string{"", "n/a", "N/A", "NULL", "null"},
	}
}

// Load reads configPath, unmarshals it as YAML, and validates the
// result against the CUE schema at cueSchemaPath. Missing configPath
// is not an error: Load returns Default() so agatecli runs with no
// config file present, the same "works out of the box" default the
// teacher's commands assume once AppConfig is set.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if cueSchemaPath == "" {
		cueSchemaPath = DefaultCueSchemaPath
	}

	yamlData, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(yamlData, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML data from %s: %w", configPath, err)
	}

	schemaBytes, err := os.ReadFile(cueSchemaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read CUE schema file %s: %w", cueSchemaPath, err)
	}

	ctx := cuecontext.New()
	schemaVal := ctx.CompileBytes(schemaBytes, cue.Filename(cueSchemaPath))
	if err := schemaVal.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile CUE schema from %s: %w", cueSchemaPath, err)
	}

	cueVal := ctx.Encode(cfg)
	if err := cueVal.Err(); err != nil {
		return nil, fmt.Errorf("failed to encode config struct to CUE value: %w", err)
	}

	configDef := schemaVal.LookupPath(cue.ParsePath("#Config"))
	if !configDef.Exists() {
		return nil, fmt.Errorf("#Config definition not found in CUE schema %s", cueSchemaPath)
	}

	instanceVal := configDef.Unify(cueVal)
	if err := instanceVal.Err(); err != nil {
		return nil, unknownFieldOr(err, configPath, cueSchemaPath)
	}
	if err := instanceVal.Validate(cue.Concrete(true)); err != nil {
		return nil, unknownFieldOr(err, configPath, cueSchemaPath)
	}

	return cfg, nil
}

func unknownFieldOr(err error, configPath, cueSchemaPath string) error {
	var cueErrList cueErrors.Error
	if stdlibErrors.As(err, &cueErrList) {
		for _, single := range cueErrors.Errors(cueErrList) {
			detail := cueErrors.Details(single, nil)
			if strings.Contains(detail, "field not allowed") || strings.Contains(detail, "is not a field in") {
				return &ErrUnknownField{Err: err}
			}
		}
	}
	return fmt.Errorf("CUE validation failed for %s (schema %s): %w", configPath, cueSchemaPath, err)
}

// WriteDefault writes the built-in defaults to configPath as YAML, the
// same role as the teacher's WriteDefaultConfig / `init` subcommand.
func WriteDefault(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}
	return os.WriteFile(configPath, data, 0644)
}
