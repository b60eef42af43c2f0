package physics

// sparseSet stores values keyed by a dense slot index. Lookups and inserts are
// O(1).
type sparseSet[T any] struct {
	denseKeys   []slotIndex
	denseValues []T
	sparse      []int
}

// has reports whether key is present.
func (s *sparseSet[T]) has(key slotIndex) bool {
	if s == nil || int(key) >= len(s.sparse) {
		return false
	}
	idx := s.sparse[key]
	return idx >= 0 && idx < len(s.denseKeys) && s.denseKeys[idx] == key
}

// get returns the value for key.
func (s *sparseSet[T]) get(key slotIndex) (T, bool) {
	var zero T
	if !s.has(key) {
		return zero, false
	}
	return s.denseValues[s.sparse[key]], true
}

// set inserts or replaces the value for key.
func (s *sparseSet[T]) set(key slotIndex, v T) {
	if s == nil {
		return
	}
	for int(key) >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.has(key) {
		s.denseValues[s.sparse[key]] = v
		return
	}
	s.denseKeys = append(s.denseKeys, key)
	s.denseValues = append(s.denseValues, v)
	s.sparse[key] = len(s.denseKeys) - 1
}

// len returns the number of stored values.
func (s *sparseSet[T]) len() int {
	if s == nil {
		return 0
	}
	return len(s.denseKeys)
}

// reset drops every value.
func (s *sparseSet[T]) reset() {
	if s == nil {
		return
	}
	s.denseKeys = nil
	s.denseValues = nil
	s.sparse = nil
}
