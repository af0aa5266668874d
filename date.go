package agate

import "time"

// Date is a calendar-date DataType; its native value is time.Time with
// the time-of-day truncated to midnight in the configured (or UTC)
// location.
type Date struct {
	nullValues
	format   string
	location *time.Location
}

// DateOption configures a Date DataType at construction.
type DateOption func(*Date)

// DateNullValues overrides the case-insensitive null-string set.
func DateNullValues(values []string) DateOption {
	return func(d *Date) { d.nullValues = newNullValues(values) }
}

// DateFormat sets an explicit strftime-style format string (e.g.
// "%d/%m/%Y"). When unset, Cast tries commonDateLayouts in order.
func DateFormat(format string) DateOption {
	return func(d *Date) { d.format = format }
}

// DateTimezone attaches loc to naive parses without converting the
// already-parsed wall-clock fields, per spec.md §3.
func DateTimezone(loc *time.Location) DateOption {
	return func(d *Date) { d.location = loc }
}

// NewDate builds a Date DataType.
func NewDate(opts ...DateOption) *Date {
	d := &Date{nullValues: newNullValues(nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Date) Name() string { return "Date" }

func (d *Date) Cast(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case nullSentinel:
		return Null, nil
	case time.Time:
		return truncateToDate(v), nil
	case string:
		if d.isNull(v) {
			return Null, nil
		}
		layout := d.format
		if layout != "" {
			var err error
			layout, err = layoutFor(d.format)
			if err != nil {
				return nil, &CastError{Input: value, TypeName: d.Name(), Row: -1, Err: err}
			}
		}
		t, err := parseWithCatalog(v, layout, commonDateLayouts, d.location)
		if err != nil {
			return nil, &CastError{Input: value, TypeName: d.Name(), Row: -1, Err: err}
		}
		return truncateToDate(t), nil
	default:
		return nil, &CastError{Input: value, TypeName: d.Name(), Row: -1, Err: errUnsupportedInput}
	}
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (d *Date) CastToText(value any) string {
	if IsNull(value) {
		return ""
	}
	t, ok := value.(time.Time)
	if !ok {
		return ""
	}
	return t.Format("2006-01-02")
}

func (d *Date) CastToJSON(value any) any { return d.CastToText(value) }

func (d *Date) Equal(other DataType) bool {
	o, ok := other.(*Date)
	return ok && d.nullValues.equalSet(o.nullValues) && d.format == o.format
}
