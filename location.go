package depot

const defaultLocationCapacity = 64

// location records where an entity's row lives.
type location struct {
	generation uint32
	archetype  archetypeID
	slot       int
	allocated  bool
}

// locationTable is indexed directly by entity id. Entries past the highest
// issued id are unallocated.
type locationTable struct {
	entries []location
}

func newLocationTable(capacity int) locationTable {
	if capacity < 1 {
		capacity = defaultLocationCapacity
	}
	return locationTable{entries: make([]location, 0, capacity)}
}

// ensure grows the table so id is addressable. Growth doubles the length.
func (t *locationTable) ensure(id uint32) {
	need := int(id) + 1
	if need <= len(t.entries) {
		return
	}
	size := max(len(t.entries), defaultLocationCapacity)
	for size < need {
		size *= 2
	}
	if size <= cap(t.entries) {
		t.entries = t.entries[:size]
		return
	}
	grown := make([]location, size)
	copy(grown, t.entries)
	t.entries = grown
}

// locate returns the archetype and slot of a live entity.
func (t *locationTable) locate(e Entity) (archetypeID, int, bool) {
	if int(e.ID) >= len(t.entries) {
		return 0, 0, false
	}
	loc := t.entries[e.ID]
	if !loc.allocated || loc.generation != e.Generation {
		return 0, 0, false
	}
	return loc.archetype, loc.slot, true
}

func (t *locationTable) record(e Entity, arch archetypeID, slot int) {
	t.ensure(e.ID)
	t.entries[e.ID] = location{
		generation: e.Generation,
		archetype:  arch,
		slot:       slot,
		allocated:  true,
	}
}

// setSlot moves a live entity to another slot in the same archetype.
func (t *locationTable) setSlot(e Entity, slot int) {
	t.entries[e.ID].slot = slot
}

// release marks the entity unallocated and bumps its generation. The returned
// generation is the one the id's next holder receives.
func (t *locationTable) release(e Entity) (generation uint32, ok bool) {
	if _, _, live := t.locate(e); !live {
		return 0, false
	}
	loc := &t.entries[e.ID]
	loc.allocated = false
	loc.generation = nextGeneration(loc.generation)
	return loc.generation, true
}
