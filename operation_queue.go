package depot

type operation struct {
	typ      operationType
	amount   int
	mask     Mask
	entities []Entity
}

type operationType int

const (
	opNoop operationType = iota - 1
	opSpawn
	opDespawn
	opAddComponents
	opRemoveComponents
)

// opQueue buffers structural mutation while the storage is locked. Spawns are
// applied first, then component changes, then despawns.
type opQueue struct {
	spawnOps       []operation
	componentOps   []operation
	despawnOps     []operation
	pendingDespawn map[Entity]struct{}
	pendingMods    map[Entity]int
}

func newOpQueue() opQueue {
	return opQueue{
		pendingDespawn: make(map[Entity]struct{}),
		pendingMods:    make(map[Entity]int),
	}
}

func (q *opQueue) empty() bool {
	return len(q.spawnOps) == 0 &&
		len(q.componentOps) == 0 &&
		len(q.despawnOps) == 0
}

func (q *opQueue) enqueueSpawn(m Mask, amount int) {
	q.spawnOps = append(q.spawnOps, operation{typ: opSpawn, amount: amount, mask: m})
}

func (q *opQueue) enqueueDespawn(entities []Entity) {
	var fresh []Entity
	for _, e := range entities {
		if _, exists := q.pendingDespawn[e]; exists {
			continue
		}
		fresh = append(fresh, e)
		q.pendingDespawn[e] = struct{}{}

		// The entity is going away; its pending component change is moot.
		if idx, hasMods := q.pendingMods[e]; hasMods {
			q.componentOps[idx].typ = opNoop
			delete(q.pendingMods, e)
		}
	}
	if len(fresh) > 0 {
		q.despawnOps = append(q.despawnOps, operation{typ: opDespawn, entities: fresh})
	}
}

// enqueueComponentOp records a component change. A later change for the same
// entity replaces the earlier one.
func (q *opQueue) enqueueComponentOp(typ operationType, e Entity, m Mask) {
	if _, despawning := q.pendingDespawn[e]; despawning {
		return
	}
	if idx, exists := q.pendingMods[e]; exists {
		q.componentOps[idx].typ = typ
		q.componentOps[idx].mask = m
		return
	}
	q.pendingMods[e] = len(q.componentOps)
	q.componentOps = append(q.componentOps, operation{
		typ:      typ,
		mask:     m,
		entities: []Entity{e},
	})
}

// processOperationQueue applies everything queued so far. The queue is
// detached under mu first, so the operations themselves run without it.
func (sto *storage) processOperationQueue() {
	sto.mu.Lock()
	if sto.opQueue.empty() || !sto.unlocked() {
		sto.mu.Unlock()
		return
	}
	q := sto.opQueue
	sto.opQueue = newOpQueue()
	sto.mu.Unlock()

	spawned := 0
	for _, op := range q.spawnOps {
		spawned += len(sto.Spawn(op.mask, op.amount))
	}

	changed := 0
	for _, op := range q.componentOps {
		var ok bool
		switch op.typ {
		case opAddComponents:
			ok = sto.AddComponents(op.entities[0], op.mask)
		case opRemoveComponents:
			ok = sto.RemoveComponents(op.entities[0], op.mask)
		}
		if ok {
			changed++
		}
	}

	despawned := 0
	for _, op := range q.despawnOps {
		despawned += len(sto.Despawn(op.entities...))
	}

	sto.logger.Debug().
		Int("spawned", spawned).
		Int("changed", changed).
		Int("despawned", despawned).
		Msg("applied queued operations")
}

// enqueue runs apply on the queue when the storage is locked and reports
// whether it did. An unlocked storage leaves the caller to act directly.
func (sto *storage) enqueue(apply func(q *opQueue)) bool {
	sto.mu.Lock()
	defer sto.mu.Unlock()
	if sto.unlocked() {
		return false
	}
	apply(&sto.opQueue)
	return true
}

// EnqueueSpawn spawns immediately when unlocked and defers otherwise. The
// Enqueue methods are safe to call from ForEachArchetype callbacks.
func (sto *storage) EnqueueSpawn(m Mask, count int) {
	if !sto.enqueue(func(q *opQueue) { q.enqueueSpawn(m, count) }) {
		sto.Spawn(m, count)
	}
}

func (sto *storage) EnqueueDespawn(entities ...Entity) {
	if !sto.enqueue(func(q *opQueue) { q.enqueueDespawn(entities) }) {
		sto.Despawn(entities...)
	}
}

func (sto *storage) EnqueueAddComponents(e Entity, m Mask) {
	if !sto.enqueue(func(q *opQueue) { q.enqueueComponentOp(opAddComponents, e, m) }) {
		sto.AddComponents(e, m)
	}
}

func (sto *storage) EnqueueRemoveComponents(e Entity, m Mask) {
	if !sto.enqueue(func(q *opQueue) { q.enqueueComponentOp(opRemoveComponents, e, m) }) {
		sto.RemoveComponents(e, m)
	}
}
