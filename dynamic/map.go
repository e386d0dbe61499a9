package dynamic

import "strings"

// MapValue is a string-keyed map of Values that remembers insertion order.
// Putting an existing key replaces its value but keeps its original position.
//
// The zero value is an empty map ready for use.
type MapValue struct {
	keys []string
	vals map[string]Value
}

// NewMap creates a new empty MapValue.
func NewMap() *MapValue {
	return &MapValue{vals: make(map[string]Value)}
}

// Put sets the value of key k to v.
func (m *MapValue) Put(k string, v Value) {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, exists := m.vals[k]; !exists {
		m.keys = append(m.keys, k)
	}
	m.vals[k] = v
}

// Get returns the value of key k. The second return value is false if k is not
// in the map.
func (m *MapValue) Get(k string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[k]
	return v, ok
}

// Has returns whether k is in the map.
func (m *MapValue) Has(k string) bool {
	_, ok := m.Get(k)
	return ok
}

// Len returns the number of keys in the map. A nil map has length 0.
func (m *MapValue) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys of the map in insertion order.
func (m *MapValue) Keys() []string {
	if m == nil {
		return nil
	}
	cp := make([]string, len(m.keys))
	copy(cp, m.keys)
	return cp
}

// Equal returns whether m and o contain the same keys mapped to equal values.
// Insertion order is not compared.
func (m *MapValue) Equal(o *MapValue) bool {
	if m.Len() != o.Len() {
		return false
	}
	for _, k := range m.Keys() {
		ov, ok := o.Get(k)
		if !ok {
			return false
		}
		if !m.vals[k].Equal(ov) {
			return false
		}
	}
	return true
}

func (m *MapValue) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	for i, k := range m.Keys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(reprValue(m.vals[k]))
	}
	sb.WriteRune('}')
	return sb.String()
}
