package physics

import "strconv"

// BodyID identifies a body slot in a World. The low 32 bits hold the slot
// index plus one, the high 32 bits the slot generation.
type BodyID uint64

type slotIndex uint32
type generation uint32

const slotIndexBits = 32

func makeBodyID(idx slotIndex, gen generation) BodyID {
	return BodyID(uint64(gen)<<slotIndexBits | uint64(idx+1))
}

func (id BodyID) index() slotIndex {
	return slotIndex(uint32(id) - 1)
}

func (id BodyID) generation() generation {
	return generation(uint32(uint64(id) >> slotIndexBits))
}

func (id BodyID) String() string {
	if !id.Valid() {
		return "invalid"
	}
	return strconv.FormatUint(uint64(id.index()), 10) + "v" + strconv.FormatUint(uint64(id.generation()), 10)
}

func (id BodyID) Valid() bool {
	return uint32(id) != 0
}
