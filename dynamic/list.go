package dynamic

import (
	"strconv"
	"strings"

	"github.com/dekarrin/tunacon/internal/util"
)

// ListValue is an ordered sequence of Values. Elements are only ever appended.
//
// The zero value is an empty list ready for use.
type ListValue struct {
	items []Value
}

// NewList creates a new ListValue holding the given items in order.
func NewList(items ...Value) *ListValue {
	l := &ListValue{}
	if len(items) > 0 {
		l.items = make([]Value, len(items))
		copy(l.items, items)
	}
	return l
}

// Put appends v to the end of the list.
func (l *ListValue) Put(v Value) {
	l.items = append(l.items, v)
}

// Len returns the number of items in the list. A nil list has length 0.
func (l *ListValue) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// Get returns the item at index i. The second return value is false if i is
// out of range.
func (l *ListValue) Get(i int) (Value, bool) {
	if l == nil || i < 0 || i >= len(l.items) {
		return Value{}, false
	}
	return l.items[i], true
}

// Items returns a copy of the items in the list.
func (l *ListValue) Items() []Value {
	if l == nil {
		return nil
	}
	cp := make([]Value, len(l.items))
	copy(cp, l.items)
	return cp
}

// Equal returns whether l and o contain equal items in the same order.
func (l *ListValue) Equal(o *ListValue) bool {
	return util.EqualSlices(l.Items(), o.Items())
}

func (l *ListValue) String() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i := 0; i < l.Len(); i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(reprValue(l.items[i]))
	}
	sb.WriteRune(']')
	return sb.String()
}

// reprValue is like String but quotes strings so that nested containers read
// unambiguously.
func reprValue(v Value) string {
	if s, ok := v.AsString(); ok {
		return strconv.Quote(s)
	}
	return v.String()
}
