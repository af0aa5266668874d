package agate

import "strings"

// Text is the universal-fallback DataType: its native value is string.
type Text struct {
	nullValues
}

// TextOption configures a Text DataType at construction.
type TextOption func(*Text)

// TextNullValues overrides the case-insensitive null-string set.
func TextNullValues(values []string) TextOption {
	return func(t *Text) { t.nullValues = newNullValues(values) }
}

// NewText builds a Text DataType with spec.md's default null values
// unless overridden.
func NewText(opts ...TextOption) *Text {
	t := &Text{nullValues: newNullValues(nil)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Text) Name() string { return "Text" }

func (t *Text) Cast(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case nullSentinel:
		return Null, nil
	case string:
		if t.isNull(v) {
			return Null, nil
		}
		return strings.TrimSpace(v), nil
	default:
		return nil, &CastError{Input: value, TypeName: t.Name(), Row: -1, Err: errUnsupportedInput}
	}
}

func (t *Text) CastToText(value any) string {
	if IsNull(value) {
		return ""
	}
	s, _ := value.(string)
	return s
}

func (t *Text) CastToJSON(value any) any {
	if IsNull(value) {
		return nil
	}
	return value
}

func (t *Text) Equal(other DataType) bool {
	o, ok := other.(*Text)
	return ok && t.nullValues.equalSet(o.nullValues)
}

var errUnsupportedInput = textUnsupportedInputError{}

type textUnsupportedInputError struct{}

func (textUnsupportedInputError) Error() string { return "unsupported input kind" }
