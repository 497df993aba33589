package depot

import (
	"cmp"
	"iter"
	"slices"
	"sync"

	"github.com/TheBitDrifter/mask"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rs/zerolog"
)

var _ Storage = &storage{}

type storage struct {
	// mu guards locks, holds and opQueue, which Enqueue calls may touch from
	// several goroutines during ForEachArchetype.
	mu         sync.Mutex
	locks      mask.Mask
	holds      map[uint32]int
	schema     *schema
	declared   Mask
	archetypes *archetypes
	opQueue    opQueue
	locations  locationTable
	allocator  allocator
	resources  *Resources
	events     ArchetypeEvents
	logger     zerolog.Logger
}

func newStorage(sch *schema) Storage {
	sch.seal()
	var declared Mask
	for _, c := range sch.components {
		declared |= c.Mask()
	}
	return &storage{
		schema:     sch,
		declared:   declared,
		archetypes: newArchetypes(),
		holds:      make(map[uint32]int),
		opQueue:    newOpQueue(),
		locations:  newLocationTable(Config.initialEntityCapacity),
		resources:  newResources(),
		events:     Config.archetypeEvents,
		logger:     Config.logger,
	}
}

func (sto *storage) Schema() Schema {
	return sto.schema
}

func (sto *storage) Resources() *Resources {
	return sto.resources
}

// Spawn creates count entities holding the zero value of every component in
// m. Bits outside the schema are ignored.
func (sto *storage) Spawn(m Mask, count int) []Entity {
	if count < 1 {
		return nil
	}
	arch := sto.archetypeFor(m & sto.declared)
	arch.reserve(count)

	entities := make([]Entity, count)
	for i := range entities {
		e := sto.allocator.allocate(&sto.locations)
		slot := arch.append(e)
		sto.locations.record(e, arch.id, slot)
		entities[i] = e
	}
	return entities
}

func (sto *storage) NewEntities(count int, components ...Component) []Entity {
	return sto.Spawn(MaskOf(components...), count)
}

// Despawn destroys every live entity in entities and returns those it
// destroyed. Stale handles and repeats are skipped.
func (sto *storage) Despawn(entities ...Entity) []Entity {
	despawned := make([]Entity, 0, len(entities))
	removals := make(map[archetypeID][]int)

	for _, e := range entities {
		archID, slot, ok := sto.locations.locate(e)
		if !ok {
			continue
		}
		generation, _ := sto.locations.release(e)
		sto.allocator.release(e.ID, generation)
		removals[archID] = append(removals[archID], slot)
		despawned = append(despawned, e)
	}

	// Highest slot first: a swap only ever pulls from above the slot being
	// removed, and everything pending above it is already gone.
	for archID, slots := range removals {
		arch := sto.archetypes.get(archID)
		slices.SortFunc(slots, func(a, b int) int { return cmp.Compare(b, a) })
		for _, slot := range slots {
			if moved, swapped := arch.swapRemove(slot); swapped {
				sto.locations.setSlot(moved, slot)
			}
		}
	}
	return despawned
}

// AddComponents moves e into the archetype that also holds m. Components e
// already has keep their values; new ones start at their zero value.
func (sto *storage) AddComponents(e Entity, m Mask) bool {
	src, row, ok := sto.resolve(e)
	if !ok {
		return false
	}
	delta := m & sto.declared &^ src.bits
	if delta == 0 {
		return true
	}
	bit, single := delta.single()
	dest := sto.transition(src, src.bits|delta, bit, single, true)
	sto.moveEntity(e, src, row, dest)
	return true
}

// RemoveComponents moves e into the archetype without m. Removed component
// values are discarded.
func (sto *storage) RemoveComponents(e Entity, m Mask) bool {
	src, row, ok := sto.resolve(e)
	if !ok {
		return false
	}
	delta := m & src.bits
	if delta == 0 {
		return true
	}
	bit, single := delta.single()
	dest := sto.transition(src, src.bits&^delta, bit, single, false)
	sto.moveEntity(e, src, row, dest)
	return true
}

// moveEntity relocates the row of e from src to dest, moving every shared
// component exactly once, then compacts src.
func (sto *storage) moveEntity(e Entity, src *archetype, row int, dest *archetype) {
	slot := dest.appendFrom(e, src, row)
	sto.locations.record(e, dest.id, slot)
	if moved, swapped := src.swapRemove(row); swapped {
		sto.locations.setSlot(moved, row)
	}
}

func (sto *storage) resolve(e Entity) (*archetype, int, bool) {
	archID, slot, ok := sto.locations.locate(e)
	if !ok {
		return nil, 0, false
	}
	return sto.archetypes.get(archID), slot, true
}

func (sto *storage) archetypeFor(m Mask) *archetype {
	arch, created := sto.archetypes.getOrCreate(sto.schema, m)
	if created {
		sto.archetypeCreated(arch)
	}
	return arch
}

func (sto *storage) transition(src *archetype, next Mask, bit uint32, single, adding bool) *archetype {
	arch, created := sto.archetypes.target(sto.schema, src, next, bit, single, adding)
	if created {
		sto.archetypeCreated(arch)
	}
	return arch
}

func (sto *storage) archetypeCreated(arch *archetype) {
	sto.logger.Debug().
		Uint32("archetype", arch.ID()).
		Uint64("mask", uint64(arch.bits)).
		Int("archetypes", len(sto.archetypes.asSlice)).
		Msg("archetype created")
	if sto.events.OnArchetypeCreated != nil {
		sto.events.OnArchetypeCreated(arch)
	}
}

func (sto *storage) Alive(e Entity) bool {
	_, _, ok := sto.locations.locate(e)
	return ok
}

func (sto *storage) ComponentMask(e Entity) (Mask, bool) {
	arch, _, ok := sto.resolve(e)
	if !ok {
		return 0, false
	}
	return arch.bits, true
}

func (sto *storage) EntityHasComponents(e Entity, m Mask) bool {
	current, ok := sto.ComponentMask(e)
	return ok && current.ContainsAll(m)
}

func (sto *storage) ArchetypeOf(e Entity) (Archetype, bool) {
	arch, _, ok := sto.resolve(e)
	if !ok {
		return nil, false
	}
	return arch, true
}

// Entities yields every entity whose archetype holds at least m, archetype by
// archetype in creation order.
func (sto *storage) Entities(m Mask) iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for _, arch := range sto.archetypes.asSlice {
			if !arch.bits.ContainsAll(m) {
				continue
			}
			for _, e := range arch.entities {
				if !yield(e) {
					return
				}
			}
		}
	}
}

func (sto *storage) QueryEntities(m Mask) []Entity {
	return iter_util.Collect(sto.Entities(m))
}

func (sto *storage) QueryFirstEntity(m Mask) (Entity, bool) {
	for e := range sto.Entities(m) {
		return e, true
	}
	return Entity{}, false
}

func (sto *storage) AllEntities() []Entity {
	return sto.QueryEntities(0)
}

func (sto *storage) Archetypes() iter.Seq[Archetype] {
	return func(yield func(Archetype) bool) {
		for _, arch := range sto.archetypes.asSlice {
			if !yield(arch) {
				return
			}
		}
	}
}

func (sto *storage) ArchetypeCount() int {
	return len(sto.archetypes.asSlice)
}

func (sto *storage) TotalEntities() int {
	total := 0
	for _, arch := range sto.archetypes.asSlice {
		total += len(arch.entities)
	}
	return total
}

// AddLock marks the storage as held by bit. Lock bits range over [0, 64).
func (sto *storage) AddLock(bit uint32) {
	sto.mu.Lock()
	sto.locks.Mark(bit)
	sto.mu.Unlock()
}

// RemoveLock releases bit. Releasing the last lock applies queued operations.
func (sto *storage) RemoveLock(bit uint32) {
	sto.mu.Lock()
	sto.locks.Unmark(bit)
	unlocked := sto.unlocked()
	sto.mu.Unlock()
	if unlocked {
		sto.processOperationQueue()
	}
}

func (sto *storage) Locked() bool {
	sto.mu.Lock()
	defer sto.mu.Unlock()
	return !sto.unlocked()
}

// unlocked must be called with mu held.
func (sto *storage) unlocked() bool {
	return sto.locks == mask.Mask{}
}

// hold is a counted AddLock: bit is set while at least one holder remains.
// Cursors and parallel runs share their bits through it, so an inner
// iteration finishing does not unlock the storage under an outer one.
func (sto *storage) hold(bit uint32) {
	sto.mu.Lock()
	defer sto.mu.Unlock()
	if sto.holds[bit] == 0 {
		sto.locks.Mark(bit)
	}
	sto.holds[bit]++
}

// release drops one holder of bit and unlocks it with the last one.
func (sto *storage) release(bit uint32) {
	sto.mu.Lock()
	if sto.holds[bit] == 0 {
		sto.mu.Unlock()
		return
	}
	sto.holds[bit]--
	if sto.holds[bit] > 0 {
		sto.mu.Unlock()
		return
	}
	delete(sto.holds, bit)
	sto.locks.Unmark(bit)
	unlocked := sto.unlocked()
	sto.mu.Unlock()
	if unlocked {
		sto.processOperationQueue()
	}
}
