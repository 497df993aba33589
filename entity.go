package depot

import (
	"fmt"
	"math"
)

// Entity is a handle to a row of component data. It stays valid until the
// entity is despawned; after that the ID may be reused with a higher
// Generation, so an old handle never resolves to the new entity.
type Entity struct {
	ID         uint32
	Generation uint32
}

func (e Entity) String() string {
	return fmt.Sprintf("Id: %d - Generation: %d", e.ID, e.Generation)
}

// freeID is a recycled id together with the generation its next holder gets.
type freeID struct {
	id         uint32
	generation uint32
}

// allocator issues entity ids. Despawned ids are reused LIFO.
type allocator struct {
	nextID uint32
	free   []freeID
}

func (a *allocator) allocate(locations *locationTable) Entity {
	var e Entity
	if n := len(a.free); n > 0 {
		recycled := a.free[n-1]
		a.free = a.free[:n-1]
		e = Entity{ID: recycled.id, Generation: recycled.generation}
	} else {
		if a.nextID == math.MaxUint32 {
			panic("depot: entity ids exhausted")
		}
		e = Entity{ID: a.nextID}
		a.nextID++
	}
	locations.ensure(e.ID)
	return e
}

// release hands a despawned id back. generation must already be bumped.
func (a *allocator) release(id, generation uint32) {
	a.free = append(a.free, freeID{id: id, generation: generation})
}

// nextGeneration skips 0 on wrap so a recycled id never looks freshly issued.
func nextGeneration(g uint32) uint32 {
	if g == math.MaxUint32 {
		return 1
	}
	return g + 1
}
