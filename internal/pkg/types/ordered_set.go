package types

// OrderedSet is a generic set that remembers first-insertion order. Adding an
// element that is already present is a no-op, so iterating the set yields each
// distinct element exactly once, in the order it was first seen.
//
// This type is mutable and not safe for concurrent use.
type OrderedSet[T comparable] struct {
	seen  map[T]struct{}
	items []T
}

// NewOrderedSet creates a new OrderedSet and optionally inserts the provided
// elements.
func NewOrderedSet[T comparable](data ...T) *OrderedSet[T] {
	set := &OrderedSet[T]{
		seen: make(map[T]struct{}, len(data)),
	}
	set.Add(data...)
	return set
}

// Add inserts one or more elements into the set, keeping first-seen order.
func (s *OrderedSet[T]) Add(values ...T) {
	for _, val := range values {
		if _, ok := s.seen[val]; ok {
			continue
		}
		s.seen[val] = struct{}{}
		s.items = append(s.items, val)
	}
}

// Contains reports whether the set holds the given element.
func (s *OrderedSet[T]) Contains(val T) bool {
	_, ok := s.seen[val]
	return ok
}

// Len returns the number of distinct elements in the set.
func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// ToSlice returns a copy of the elements in first-insertion order.
func (s *OrderedSet[T]) ToSlice() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
