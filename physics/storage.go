package physics

// bodyStore owns body records and tracks slot generations. Slots are never
// reused; a cleared store keeps bumped generations so old ids stay dead.
type bodyStore struct {
	slots []*body
	gen   []generation
}

func (s *bodyStore) insert(b *body) BodyID {
	idx := slotIndex(len(s.slots))
	s.slots = append(s.slots, b)
	s.gen = append(s.gen, 0)
	return makeBodyID(idx, 0)
}

func (s *bodyStore) get(id BodyID) (*body, bool) {
	if !s.isAlive(id) {
		return nil, false
	}
	b := s.slots[id.index()]
	return b, b != nil
}

func (s *bodyStore) isAlive(id BodyID) bool {
	if s == nil || !id.Valid() || int(id.index()) >= len(s.gen) {
		return false
	}
	return s.gen[id.index()] == id.generation()
}

// clear drops every body and invalidates every id handed out so far.
func (s *bodyStore) clear() {
	for i := range s.slots {
		s.slots[i] = nil
		s.gen[i]++
	}
}

func (s *bodyStore) len() int {
	n := 0
	for _, b := range s.slots {
		if b != nil {
			n++
		}
	}
	return n
}

// ids returns live ids in insertion order.
func (s *bodyStore) ids() []BodyID {
	out := make([]BodyID, 0, len(s.slots))
	for i, b := range s.slots {
		if b == nil {
			continue
		}
		out = append(out, makeBodyID(slotIndex(i), s.gen[i]))
	}
	return out
}
