package agate

import "strings"

// Boolean is a tri-state DataType: its native value is the Go bool
// true/false, or Null for an absent cell.
type Boolean struct {
	nullValues
	trueValues  map[string]struct{}
	falseValues map[string]struct{}
	trueList    []string
	falseList   []string
}

// BooleanOption configures a Boolean DataType at construction.
type BooleanOption func(*Boolean)

// BooleanNullValues overrides the case-insensitive null-string set.
func BooleanNullValues(values []string) BooleanOption {
	return func(b *Boolean) { b.nullValues = newNullValues(values) }
}

// BooleanTrueValues overrides the case-insensitive strings recognized
// as true.
func BooleanTrueValues(values []string) BooleanOption {
	return func(b *Boolean) { b.trueList = values }
}

// BooleanFalseValues overrides the case-insensitive strings recognized
// as false.
func BooleanFalseValues(values []string) BooleanOption {
	return func(b *Boolean) { b.falseList = values }
}

var defaultTrueValues = []string{"yes", "y", "true", "t", "1"}
var defaultFalseValues = []string{"no", "n", "false", "f", "0"}

// NewBoolean builds a Boolean DataType with spec.md's default
// true/false/null string sets unless overridden.
func NewBoolean(opts ...BooleanOption) *Boolean {
	b := &Boolean{nullValues: newNullValues(nil), trueList: defaultTrueValues, falseList: defaultFalseValues}
	for _, opt := range opts {
		opt(b)
	}
	b.trueValues = toSet(b.trueList)
	b.falseValues = toSet(b.falseList)
	return b
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[strings.ToLower(v)] = struct{}{}
	}
	return set
}

func (b *Boolean) Name() string { return "Boolean" }

func (b *Boolean) Cast(value any) (any, error) {
	switch v := value.(type) {
	case nil:
		return Null, nil
	case nullSentinel:
		return Null, nil
	case bool:
		return v, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if b.isNull(s) {
			return Null, nil
		}
		if _, ok := b.trueValues[s]; ok {
			return true, nil
		}
		if _, ok := b.falseValues[s]; ok {
			return false, nil
		}
		return nil, &CastError{Input: value, TypeName: b.Name(), Row: -1, Err: errNotBooleanString}
	default:
		return nil, &CastError{Input: value, TypeName: b.Name(), Row: -1, Err: errUnsupportedInput}
	}
}

func (b *Boolean) CastToText(value any) string {
	if IsNull(value) {
		return ""
	}
	if v, ok := value.(bool); ok {
		if v {
			return "True"
		}
		return "False"
	}
	return ""
}

func (b *Boolean) CastToJSON(value any) any {
	if IsNull(value) {
		return nil
	}
	return value
}

func (b *Boolean) Equal(other DataType) bool {
	o, ok := other.(*Boolean)
	if !ok || !b.nullValues.equalSet(o.nullValues) {
		return false
	}
	return sameSet(b.trueValues, o.trueValues) && sameSet(b.falseValues, o.falseValues)
}

func sameSet(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

type booleanStringError struct{}

func (booleanStringError) Error() string { return "not a recognized boolean string" }

var errNotBooleanString = booleanStringError{}
