// Package ordered provides a set that keeps its values sorted by an
// injected comparison.
package ordered

import (
	"iter"
	"slices"
)

// Set holds distinct values and returns them sorted by cmp. Sorting is
// done lazily on read, not on insert, and is stable, so values comparing
// equal keep insertion order. A zero Set has no comparison and returns
// values in insertion order.
type Set[T comparable] struct {
	cmp    func(a, b T) int
	vals   []T
	sorted bool
}

// New returns an empty set ordered by cmp.
func New[T comparable](cmp func(a, b T) int) *Set[T] {
	return &Set[T]{cmp: cmp}
}

// Insert adds v. It returns false, leaving the set unchanged, if v is
// already present.
func (s *Set[T]) Insert(v T) bool {
	if s.Contains(v) {
		return false
	}
	s.vals = append(s.vals, v)
	s.sorted = false
	return true
}

// Remove deletes v, reporting whether it was present.
func (s *Set[T]) Remove(v T) bool {
	i := slices.Index(s.vals, v)
	if i < 0 {
		return false
	}
	s.vals = slices.Delete(s.vals, i, i+1)
	return true
}

func (s *Set[T]) Contains(v T) bool {
	return slices.Contains(s.vals, v)
}

func (s *Set[T]) Len() int {
	return len(s.vals)
}

func (s *Set[T]) sort() {
	if s.sorted || s.cmp == nil {
		return
	}
	slices.SortStableFunc(s.vals, s.cmp)
	s.sorted = true
}

// Values returns a sorted copy of the set's values.
func (s *Set[T]) Values() []T {
	s.sort()
	return slices.Clone(s.vals)
}

// All iterates the values in order over a snapshot taken at the start.
func (s *Set[T]) All() iter.Seq[T] {
	vals := s.Values()
	return func(yield func(T) bool) {
		for _, v := range vals {
			if !yield(v) {
				return
			}
		}
	}
}
