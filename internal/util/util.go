// Package util has small generic helpers shared by the other packages.
package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a nice list of items joined with the given conjunction,
// such as "a, b, or c" for a conjunction of "or".
func MakeTextList(items []string, conjunction string) string {
	if len(items) < 1 {
		return ""
	}

	if len(items) == 1 {
		return items[0]
	} else if len(items) == 2 {
		return items[0] + " " + conjunction + " " + items[1]
	}

	// if its more than two, use an oxford comma
	withConj := make([]string, len(items))
	copy(withConj, items)
	withConj[len(withConj)-1] = conjunction + " " + withConj[len(withConj)-1]
	return strings.Join(withConj, ", ")
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// CustomComparable is an interface for items that may be checked against
// arbitrary other objects. In practice most will attempt to typecast to their
// own type and immediately return false if the argument is not the same, but in
// theory this allows for comparison to multiple types of things.
type CustomComparable interface {
	Equal(other any) bool
}

// EqualSlices checks that the two slices contain the same items in the same
// order. Equality of items is checked by items in the slices are equal by
// calling the custom Equal function on each element. In particular, Equal is
// called on elements of sl1 with elements of sl2 passed in as the argument.
func EqualSlices[T CustomComparable](sl1 []T, sl2 []T) bool {
	if len(sl1) != len(sl2) {
		return false
	}

	for i := range sl1 {
		if !sl1[i].Equal(sl2[i]) {
			return false
		}
	}

	return true
}
