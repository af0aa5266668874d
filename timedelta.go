package agate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is TimeDelta's native value: a signed duration with
// calendar-aware units (days/weeks/months/years are approximated as
// fixed multiples of 24h, documented here rather than silently).
type Duration struct {
	time.Duration
}

// TimeDelta is the arithmetic type for differences of Dates/DateTimes
// and for explicit duration columns ("1h 30m", "2 days").
type TimeDelta struct {
	nullValues
}

// TimeDeltaOption configures a TimeDelta DataType at construction.
type TimeDeltaOption func(*TimeDelta)

// TimeDeltaNullValues overrides the case-insensitive null-string set.
func TimeDeltaNullValues(values []string) TimeDeltaOption {
	return func(t *TimeDelta) { t.nullValues = newNullValues(values) }
}

// NewTimeDelta builds a TimeDelta DataType.
func NewTimeDelta(opts ...TimeDeltaOption) *TimeDelta {
	t := &TimeDelta{nullValues: newNullValues(nil)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *TimeDelta) Name() string { return "TimeDelta" }

var durationTokenRE = regexp.MustCompile(`(?i)([-+]?\d+(?:\.\d+)?)\s*(years?|yrs?|months?|mos?|weeks?|wks?|days?|hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)`)

// unitDurations gives the fixed-width approximation used for calendar
// units; TimeDelta is an arithmetic convenience, not a calendar.
var unitDurations = map[string]time.Duration{
	"year": 365 * 24 * time.Hour, "yr": 365 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour, "mo": 30 * 24 * time.Hour,
	"week": 7 * 24 * time.Hour, "wk": 7 * 24 * time.Hour,
	"day": 24 * time.Hour,
	"hour": time.Hour, "hr": time.Hour, "h": time.Hour,
	"minute": time.Minute, "min": time.Minute, "m": time.Minute,
	"second": time.Second, "sec": time.Second, "s": time.Second,
}

func normalizeUnit(u string) string {
	u = strings.ToLower(u)
	u = strings.TrimSuffix(u, "s")
	return u
}

func parseDurationString(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = strings.TrimPrefix(s, "-")
	}
	// Fast path: native Go duration syntax ("1h30m0s").
	if d, err := time.ParseDuration(s); err == nil {
		if negative {
			d = -d
		}
		return d, nil
	}

	matches := durationTokenRE.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, fmt.Errorf("unrecognized duration %q", s)
	}
	var total time.Duration
	consumed := 0
	for _, m := range matches {
		consumed += len(m[0])
		qty, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, err
		}
		unitDur, ok := unitDurations[normalizeUnit(m[2])]
		if !ok {
			return 0, fmt.Errorf("unrecognized duration unit %q", m[2])
		}
		total += time.Duration(qty * float64(unitDur))
	}
	if negative {
		total = -total
	}
	return total, nil
}

func (t *TimeDelta) Cast(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case nullSentinel:
		return Null, nil
	case Duration:
		return v, nil
	case time.Duration:
		return Duration{v}, nil
	case string:
		if t.isNull(v) {
			return Null, nil
		}
		d, err := parseDurationString(v)
		if err != nil {
			return nil, &CastError{Input: value, TypeName: t.Name(), Row: -1, Err: err}
		}
		return Duration{d}, nil
	default:
		return nil, &CastError{Input: value, TypeName: t.Name(), Row: -1, Err: errUnsupportedInput}
	}
}

func (t *TimeDelta) CastToText(value any) string {
	if IsNull(value) {
		return ""
	}
	d, ok := value.(Duration)
	if !ok {
		return ""
	}
	return d.String()
}

func (t *TimeDelta) CastToJSON(value any) any { return t.CastToText(value) }

func (t *TimeDelta) Equal(other DataType) bool {
	o, ok := other.(*TimeDelta)
	return ok && t.nullValues.equalSet(o.nullValues)
}
