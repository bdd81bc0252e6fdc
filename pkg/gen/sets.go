package gen

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// SortedKeys returns the keys of a map in ascending order
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Difference returns the keys of a that are not present in b, sorted ascending.
func Difference[K cmp.Ordered, A, B any](a map[K]A, b map[K]B) []K {
	diff := []K{}
	for k := range a {
		if _, ok := b[k]; !ok {
			diff = append(diff, k)
		}
	}
	slices.Sort(diff)
	return diff
}

// Set is a set of comparable items
type Set[T comparable] map[T]struct{}

func NewSet[T comparable](items ...T) Set[T] {
	s := make(Set[T], len(items))
	for _, v := range items {
		s[v] = struct{}{}
	}
	return s
}

func (s Set[T]) Contains(v T) bool {
	_, ok := s[v]
	return ok
}

// ParseIntSet parses a list of decimal integers, such as class IDs from the command line.
func ParseIntSet(raw []string) (Set[int], error) {
	s := Set[int]{}
	for _, r := range raw {
		v, err := strconv.Atoi(r)
		if err != nil {
			return nil, fmt.Errorf("Invalid integer '%v'", r)
		}
		s[v] = struct{}{}
	}
	return s, nil
}
