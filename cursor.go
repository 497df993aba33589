package depot

import "iter"

var _ iCursor = &Cursor{}

// cursorLockBit is the lock cursors hold on their storage while iterating.
// It stays set until the last active cursor finishes.
const cursorLockBit = 63

func newCursor(query Query, sto Storage) *Cursor {
	return &Cursor{
		query:   query,
		storage: sto.(*storage),
	}
}

// Next advances to the next matching entity. It returns false, and releases
// the storage lock, once every matching archetype has been visited.
func (c *Cursor) Next() bool {
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	if !c.initialized {
		c.initialize()
	}
	for c.storageIndex < len(c.matchedStorages) {
		c.currentArchetype = c.matchedStorages[c.storageIndex]
		c.remaining = c.currentArchetype.Len()

		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.storageIndex++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// Entities yields every matching entity. Component accessors may read the
// cursor's position from inside the loop.
func (c *Cursor) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for c.Next() {
			if !yield(c.CurrentEntity()) {
				c.Reset()
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	if c.initialized {
		return
	}
	c.matchedStorages = make([]*archetype, 0)

	for _, arch := range c.storage.archetypes.asSlice {
		if c.query.Evaluate(arch) {
			c.matchedStorages = append(c.matchedStorages, arch)
		}
	}
	if len(c.matchedStorages) > 0 {
		c.storageIndex = 0
		c.currentArchetype = c.matchedStorages[0]
		c.remaining = c.currentArchetype.Len()
	}
	c.initialized = true
	c.storage.hold(cursorLockBit)
}

// Reset rewinds the cursor and releases its hold on the storage. Operations
// queued during the iteration are applied once no cursor or other lock
// remains.
func (c *Cursor) Reset() {
	wasInitialized := c.initialized
	c.storageIndex = 0
	c.entityIndex = 0
	c.remaining = 0
	c.currentArchetype = nil
	c.matchedStorages = nil
	c.initialized = false
	if wasInitialized {
		c.storage.release(cursorLockBit)
	}
}

// CurrentEntity returns the entity the cursor is positioned on.
func (c *Cursor) CurrentEntity() Entity {
	return c.currentArchetype.entities[c.entityIndex-1]
}

// CurrentArchetype returns the archetype the cursor is positioned in.
func (c *Cursor) CurrentArchetype() Archetype {
	return c.currentArchetype
}

func (c *Cursor) RemainingInArchetype() int {
	return c.remaining - c.entityIndex
}

func (c *Cursor) TotalMatched() int {
	if !c.initialized {
		c.initialize()
		defer c.Reset()
	}
	total := 0
	for _, arch := range c.matchedStorages {
		total += arch.Len()
	}
	return total
}
