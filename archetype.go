package depot

import "github.com/TheBitDrifter/mask"

// archetypeID starts at 1. The zero value means "no archetype", which is what
// an uncached transition edge holds.
type archetypeID uint32

var _ Archetype = &archetype{}

// archetype stores every entity whose component set is exactly bits. columns
// has one slot per declared component and is nil where the bit is unset.
type archetype struct {
	id          archetypeID
	bits        Mask
	key         mask.Mask
	columns     []abstractColumn
	entities    []Entity
	addEdges    []archetypeID
	removeEdges []archetypeID
}

func newArchetype(sch *schema, id archetypeID, bits Mask) *archetype {
	width := sch.Len()
	arch := &archetype{
		id:          id,
		bits:        bits,
		key:         bits.Key(),
		columns:     make([]abstractColumn, width),
		addEdges:    make([]archetypeID, width),
		removeEdges: make([]archetypeID, width),
	}
	for bit, c := range sch.components {
		if bits.Has(uint32(bit)) {
			arch.columns[bit] = c.newColumn()
		}
	}
	return arch
}

func (a *archetype) ID() uint32 {
	return uint32(a.id)
}

func (a *archetype) Mask() Mask {
	return a.bits
}

func (a *archetype) Key() mask.Mask {
	return a.key
}

func (a *archetype) Len() int {
	return len(a.entities)
}

// Entities returns the archetype's entity ids in row order. The slice is
// owned by the archetype and changes on the next structural mutation.
func (a *archetype) Entities() []Entity {
	return a.entities
}

func (a *archetype) reserve(n int) {
	for _, col := range a.columns {
		if col != nil {
			col.reserve(n)
		}
	}
	if cap(a.entities)-len(a.entities) < n {
		grown := make([]Entity, len(a.entities), max(len(a.entities)+n, 2*cap(a.entities)))
		copy(grown, a.entities)
		a.entities = grown
	}
}

// append adds a row of zero values and returns its slot.
func (a *archetype) append(e Entity) int {
	for _, col := range a.columns {
		if col != nil {
			col.extend()
		}
	}
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// appendFrom adds a row for e whose shared components are moved out of src at
// row. Components new to a are zero; components a lacks are left behind in
// src to be dropped by its swapRemove.
func (a *archetype) appendFrom(e Entity, src *archetype, row int) int {
	for bit, col := range a.columns {
		if col == nil {
			continue
		}
		if from := src.columns[bit]; from != nil {
			col.take(from, row)
		} else {
			col.extend()
		}
	}
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// swapRemove deletes row by moving the last row into it. It returns the
// entity now occupying row, or false when row was the last one.
func (a *archetype) swapRemove(row int) (Entity, bool) {
	last := len(a.entities) - 1
	if row < 0 || row > last {
		panic("depot: swap-remove outside archetype bounds")
	}
	for _, col := range a.columns {
		if col != nil {
			col.remove(row)
		}
	}
	a.entities[row] = a.entities[last]
	a.entities = a.entities[:last]
	if row == last {
		return Entity{}, false
	}
	return a.entities[row], true
}
