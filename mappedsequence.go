package agate

// Sequence is an ordered container addressable both by integer
// position and by a unique string key, iterating in insertion order.
// Row, Column and MappedSequence all implement it.
type Sequence interface {
	Len() int
	At(i int) any
	Get(key string) (any, bool)
	Keys() []string
	Values() []any
}

// MappedSequence is the concrete Sequence used for Rows and for any
// ad-hoc keyed/ordered view (e.g. a Table.AggregateMany result).
type MappedSequence struct {
	keys   []string
	index  map[string]int
	values []any
}

// NewMappedSequence builds a MappedSequence from parallel keys/values
// slices. len(keys) must equal len(values); keys need not be unique,
// but only the first occurrence of a duplicate key is reachable via Get.
func NewMappedSequence(keys []string, values []any) *MappedSequence {
	idx := make(map[string]int, len(keys))
	for i, k := range keys {
		if _, exists := idx[k]; !exists {
			idx[k] = i
		}
	}
	return &MappedSequence{keys: keys, index: idx, values: values}
}

func (m *MappedSequence) Len() int { return len(m.values) }

func (m *MappedSequence) At(i int) any {
	if i < 0 || i >= len(m.values) {
		return Null
	}
	return m.values[i]
}

func (m *MappedSequence) Get(key string) (any, bool) {
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.values[i], true
}

func (m *MappedSequence) Keys() []string { return m.keys }

func (m *MappedSequence) Values() []any { return m.values }
