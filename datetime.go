package agate

import "time"

// DateTime is a date-plus-time DataType, optionally carrying a
// timezone offset. Its native value is time.Time.
type DateTime struct {
	nullValues
	format   string
	location *time.Location
}

// DateTimeOption configures a DateTime DataType at construction.
type DateTimeOption func(*DateTime)

// DateTimeNullValues overrides the case-insensitive null-string set.
func DateTimeNullValues(values []string) DateTimeOption {
	return func(d *DateTime) { d.nullValues = newNullValues(values) }
}

// DateTimeFormat sets an explicit strftime-style format string. When
// unset, Cast tries commonDateTimeLayouts in order.
func DateTimeFormat(format string) DateTimeOption {
	return func(d *DateTime) { d.format = format }
}

// DateTimeTimezone attaches loc to naive parses without converting the
// already-parsed wall-clock fields, per spec.md §3.
func DateTimeTimezone(loc *time.Location) DateTimeOption {
	return func(d *DateTime) { d.location = loc }
}

// NewDateTime builds a DateTime DataType.
func NewDateTime(opts ...DateTimeOption) *DateTime {
	d := &DateTime{nullValues: newNullValues(nil)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DateTime) Name() string { return "DateTime" }

func (d *DateTime) Cast(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case nullSentinel:
		return Null, nil
	case time.Time:
		return v, nil
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
		t, err := parseWithCatalog(v, layout, commonDateTimeLayouts, d.location)
		if err != nil {
			return nil, &CastError{Input: value, TypeName: d.Name(), Row: -1, Err: err}
		}
		return t, nil
	default:
		return nil, &CastError{Input: value, TypeName: d.Name(), Row: -1, Err: errUnsupportedInput}
	}
}

func (d *DateTime) CastToText(value any) string {
	if IsNull(value) {
		return ""
	}
	t, ok := value.(time.Time)
	if !ok {
		return ""
	}
	return t.Format(time.RFC3339)
}

func (d *DateTime) CastToJSON(value any) any { return d.CastToText(value) }

func (d *DateTime) Equal(other DataType) bool {
	o, ok := other.(*DateTime)
	return ok && d.nullValues.equalSet(o.nullValues) && d.format == o.format
}
