package services

// orderedSet keeps the first value added for each key and remembers
// insertion order.
type orderedSet[K comparable, V any] struct {
	index  map[K]int
	values []V
}

func newOrderedSet[K comparable, V any](capacity int) *orderedSet[K, V] {
	return &orderedSet[K, V]{
		index:  make(map[K]int, capacity),
		values: make([]V, 0, capacity),
	}
}

// Add stores v under key unless key is already present.
// It reports whether v was stored.
func (s *orderedSet[K, V]) Add(key K, v V) bool {
	if _, ok := s.index[key]; ok {
		return false
	}
	s.index[key] = len(s.values)
	s.values = append(s.values, v)
	return true
}

// Contains reports whether key has been added.
func (s *orderedSet[K, V]) Contains(key K) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of distinct keys.
func (s *orderedSet[K, V]) Len() int {
	return len(s.values)
}

// Values returns the stored values in insertion order.
func (s *orderedSet[K, V]) Values() []V {
	return s.values
}
