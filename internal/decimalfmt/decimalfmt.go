// Package decimalfmt normalizes locale-formatted numeric text (currency
// symbols, thousands grouping, percent signs, alternate decimal points)
// into the plain decimal string github.com/cockroachdb/apd/v3 expects.
//
// Keeping this logic out of the Number DataType mirrors how the teacher
// repo keeps config-string expansion (internal/config/config.go's
// expandWithDefault) separate from the Config struct it feeds.
package decimalfmt

import (
	"fmt"
	"strings"
)

// Options configures locale-specific symbols recognized during Normalize.
type Options struct {
	// GroupSymbol separates thousands, e.g. "," in "1,234.56".
	GroupSymbol string
	// DecimalSymbol separates the integer and fractional parts.
	DecimalSymbol string
	// CurrencySymbols are stripped wherever they appear in the string.
	CurrencySymbols []string
}

// DefaultOptions matches spec.md's Number defaults: comma grouping, dot
// decimal point, and the common currency marks.
func DefaultOptions() Options {
	return Options{
		GroupSymbol:     ",",
		DecimalSymbol:   ".",
		CurrencySymbols: []string{"$", "£", "€", "¥"},
	}
}

// Normalize strips currency/grouping/percent decoration from s and
// rewrites the locale decimal symbol to ".", returning a string safe to
// pass to apd.NewFromString. It rejects strings that mix the configured
// group and decimal symbols inconsistently (e.g. two decimal points
// after the group symbol is stripped).
func Normalize(s string, opts Options) (string, error) {
	out := strings.TrimSpace(s)
	if out == "" {
		return "", fmt.Errorf("decimalfmt: empty input")
	}

	for _, sym := range opts.CurrencySymbols {
		if sym == "" {
			continue
		}
		out = strings.ReplaceAll(out, sym, "")
	}
	// Percent is stripped, not divided: "42%" casts to 42, per spec.md §4.1.
	out = strings.ReplaceAll(out, "%", "")
	out = strings.TrimSpace(out)

	negative := false
	if strings.HasPrefix(out, "(") && strings.HasSuffix(out, ")") {
		// Accounting-style negative numbers.
		negative = true
		out = strings.TrimSuffix(strings.TrimPrefix(out, "("), ")")
	}
	if strings.HasPrefix(out, "+") {
		out = strings.TrimPrefix(out, "+")
	} else if strings.HasPrefix(out, "-") {
		negative = true
		out = strings.TrimPrefix(out, "-")
	}

	group := opts.GroupSymbol
	decimal := opts.DecimalSymbol
	if decimal == "" {
		decimal = "."
	}

	if group != "" && group != decimal {
		out = strings.ReplaceAll(out, group, "")
	}
	if decimal != "." {
		if strings.Contains(out, ".") {
			return "", fmt.Errorf("decimalfmt: ambiguous decimal separator in %q", s)
		}
		out = strings.Replace(out, decimal, ".", 1)
	}

	if strings.Count(out, ".") > 1 {
		return "", fmt.Errorf("decimalfmt: mixed decimal separators in %q", s)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("decimalfmt: empty numeric value after normalization of %q", s)
	}

	if negative && !strings.HasPrefix(out, "-") {
		out = "-" + out
	}
	return out, nil
}
