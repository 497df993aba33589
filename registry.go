package depot

import (
	"math/bits"

	"github.com/TheBitDrifter/mask"
)

// archetypes owns every archetype ever created, in creation order. Archetypes
// are never removed, so an id stays valid for the storage's lifetime.
type archetypes struct {
	nextID           archetypeID
	asSlice          []*archetype
	idsGroupedByMask map[mask.Mask]archetypeID
}

func newArchetypes() *archetypes {
	return &archetypes{
		nextID:           1,
		idsGroupedByMask: make(map[mask.Mask]archetypeID),
	}
}

func (r *archetypes) get(id archetypeID) *archetype {
	return r.asSlice[id-1]
}

func (r *archetypes) lookup(m Mask) (*archetype, bool) {
	id, found := r.idsGroupedByMask[m.Key()]
	if !found {
		return nil, false
	}
	return r.get(id), true
}

// getOrCreate returns the archetype for m, creating it on first use. The
// bool reports whether it was created.
func (r *archetypes) getOrCreate(sch *schema, m Mask) (*archetype, bool) {
	if arch, found := r.lookup(m); found {
		return arch, false
	}
	created := newArchetype(sch, r.nextID, m)
	r.link(created)
	r.asSlice = append(r.asSlice, created)
	r.idsGroupedByMask[created.key] = created.id
	r.nextID++
	return created, true
}

// link records the single-bit transitions between created and every existing
// archetype, in both directions. This is the only step whose cost grows with
// the number of archetypes, and it runs once per archetype.
func (r *archetypes) link(created *archetype) {
	for _, existing := range r.asSlice {
		diff := uint64(existing.bits ^ created.bits)
		if diff == 0 || diff&(diff-1) != 0 {
			continue
		}
		bit := bits.TrailingZeros64(diff)
		if created.bits.Has(uint32(bit)) {
			existing.addEdges[bit] = created.id
			created.removeEdges[bit] = existing.id
		} else {
			existing.removeEdges[bit] = created.id
			created.addEdges[bit] = existing.id
		}
	}
}

// target resolves the archetype reached from src by applying next. A single
// changed bit is served from the transition edges.
func (r *archetypes) target(sch *schema, src *archetype, next Mask, bit uint32, single bool, adding bool) (*archetype, bool) {
	if single {
		edges := src.removeEdges
		if adding {
			edges = src.addEdges
		}
		if id := edges[bit]; id != 0 {
			return r.get(id), false
		}
	}
	return r.getOrCreate(sch, next)
}
