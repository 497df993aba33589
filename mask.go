package depot

import (
	"math/bits"

	"github.com/TheBitDrifter/mask"
)

// MaxComponents is the number of component types a schema can declare.
// Every component occupies one bit of a Mask.
const MaxComponents = 64

// Mask is a set of component bits. It identifies archetypes and expresses
// queries: an archetype matches a query when its mask contains every bit of
// the query mask.
type Mask uint64

// MaskOf returns the mask with the bit of every given component set.
func MaskOf(components ...Component) Mask {
	var m Mask
	for _, c := range components {
		m |= c.Mask()
	}
	return m
}

// ContainsAll reports whether m is a superset of other.
func (m Mask) ContainsAll(other Mask) bool {
	return m&other == other
}

// ContainsAny reports whether m and other share at least one bit.
func (m Mask) ContainsAny(other Mask) bool {
	return m&other != 0
}

// Has reports whether the given bit is set.
func (m Mask) Has(bit uint32) bool {
	return bit < MaxComponents && m&(1<<bit) != 0
}

// Count returns the number of set bits.
func (m Mask) Count() int {
	return bits.OnesCount64(uint64(m))
}

// single returns the bit index when exactly one bit is set.
func (m Mask) single() (uint32, bool) {
	if m == 0 || m&(m-1) != 0 {
		return 0, false
	}
	return uint32(bits.TrailingZeros64(uint64(m))), true
}

// Key converts m into the bitset the archetype registry is keyed by.
func (m Mask) Key() mask.Mask {
	var key mask.Mask
	for rest := uint64(m); rest != 0; rest &= rest - 1 {
		key.Mark(uint32(bits.TrailingZeros64(rest)))
	}
	return key
}
