package depot

import (
	"iter"

	"github.com/TheBitDrifter/mask"
)

// Storage holds entities grouped into archetypes by their exact component set.
//
// The structural primitives (Spawn, Despawn, AddComponents, RemoveComponents)
// are total: a stale or unknown Entity makes them fail closed without touching
// any state. They are not safe for concurrent use and must not run while the
// storage is being iterated; the Enqueue variants defer them while a lock is
// held.
type Storage interface {
	Schema() Schema
	Resources() *Resources

	Spawn(m Mask, count int) []Entity
	NewEntities(count int, components ...Component) []Entity
	Despawn(entities ...Entity) []Entity
	AddComponents(e Entity, m Mask) bool
	RemoveComponents(e Entity, m Mask) bool

	Alive(e Entity) bool
	ComponentMask(e Entity) (Mask, bool)
	EntityHasComponents(e Entity, m Mask) bool
	ArchetypeOf(e Entity) (Archetype, bool)

	QueryEntities(m Mask) []Entity
	QueryFirstEntity(m Mask) (Entity, bool)
	AllEntities() []Entity
	Entities(m Mask) iter.Seq[Entity]
	Archetypes() iter.Seq[Archetype]
	ArchetypeCount() int
	TotalEntities() int

	EnqueueSpawn(m Mask, count int)
	EnqueueDespawn(entities ...Entity)
	EnqueueAddComponents(e Entity, m Mask)
	EnqueueRemoveComponents(e Entity, m Mask)
	AddLock(bit uint32)
	RemoveLock(bit uint32)
	Locked() bool
}

// Archetype is a read view of one archetype table.
type Archetype interface {
	ID() uint32
	Mask() Mask
	Key() mask.Mask
	Len() int
	Entities() []Entity
}

// Query matches archetypes holding at least a set of components.
type Query interface {
	And(components ...Component) Query
	Mask() Mask
	Evaluate(archetype Archetype) bool
}

// ArchetypeEvents are callbacks a storage fires on archetype lifecycle changes.
type ArchetypeEvents struct {
	OnArchetypeCreated func(Archetype)
}

type iCursor interface {
	Entities() iter.Seq[Entity]
	Next() bool
}

type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	Register(string, T) (int, error)
}

// Cursor walks the entities of every archetype matching a query, one at a
// time. The storage stays locked from the first Next until the cursor is
// exhausted or Reset, so component pointers taken from it stay valid for the
// whole pass. Cursors may be nested.
type Cursor struct {
	// The query to filter entities
	query Query

	// The storage to iterate over
	storage *storage

	// Current iteration state
	currentArchetype *archetype
	storageIndex     int
	entityIndex      int
	remaining        int

	// Initialization state
	initialized     bool
	matchedStorages []*archetype
}

type SimpleCache[T any] struct {
	items       []T
	itemIndices map[string]int
	maxCapacity int
}
