package agate

import (
	"fmt"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// commonDateLayouts and commonDateTimeLayouts are the catalogs spec.md
// §3 calls for: "attempt a catalog of common patterns" when no explicit
// format string is configured. Date-only layouts are tried before
// datetime layouts so a bare "2024-01-02" is never mistaken for
// midnight-with-unknown-precision.
var commonDateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02-01-2006",
}

var commonDateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 3:04:05 PM",
	time.RFC1123Z,
	time.RFC1123,
}

// layoutFor converts an explicit strftime-style format (e.g. "%Y-%m-%d")
// to a Go reference-time layout via github.com/ncruces/go-strftime,
// matching how the surrounding ecosystem expresses date formats rather
// than asking callers to learn Go's "Mon Jan 2" reference layout.
func layoutFor(format string) (string, error) {
	layout, err := strftime.Layout(format)
	if err != nil {
		return "", fmt.Errorf("agate: invalid date format %q: %w", format, err)
	}
	return layout, nil
}

// parseWithCatalog tries an explicit layout first if non-empty, else
// every layout in catalog in order, returning the first successful
// parse. loc is applied only when the parsed value carries no explicit
// zone offset, per spec.md §3's "attached... no conversion" rule.
func parseWithCatalog(s string, explicitLayout string, catalog []string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := catalog
	if explicitLayout != "" {
		layouts = []string{explicitLayout}
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			lastErr = err
			continue
		}
		if loc != nil && t.Location() == time.UTC && !layoutHasZone(layout) {
			t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
		}
		return t, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no layout matched %q", s)
	}
	return time.Time{}, lastErr
}

func layoutHasZone(layout string) bool {
	return strings.Contains(layout, "Z07:00") || strings.Contains(layout, "-0700") || strings.Contains(layout, "MST")
}
