package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestQueryFiltering tests which entities a cursor visits for a query
func TestQueryFiltering(t *testing.T) {
	type entitySetup struct {
		components []string
		count      int
	}

	tests := []struct {
		name            string
		entitySetups    []entitySetup
		queryComponents []string
		expectedMatches int
	}{
		{
			name: "And query matches exact",
			entitySetups: []entitySetup{
				{[]string{"position", "velocity"}, 5},
				{[]string{"position"}, 10},
				{[]string{"velocity"}, 15},
			},
			queryComponents: []string{"position", "velocity"},
			expectedMatches: 5,
		},
		{
			name: "Single component matches supersets",
			entitySetups: []entitySetup{
				{[]string{"position", "velocity"}, 5},
				{[]string{"position"}, 10},
				{[]string{"velocity"}, 15},
			},
			queryComponents: []string{"velocity"},
			expectedMatches: 20,
		},
		{
			name: "Empty query matches everything",
			entitySetups: []entitySetup{
				{[]string{"position"}, 3},
				{nil, 4},
			},
			queryComponents: nil,
			expectedMatches: 7,
		},
		{
			name: "No match",
			entitySetups: []entitySetup{
				{[]string{"position"}, 3},
			},
			queryComponents: []string{"health"},
			expectedMatches: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			byName := map[string]Component{
				"position": f.position,
				"velocity": f.velocity,
				"health":   f.health,
				"tag":      f.tag,
			}
			pick := func(names []string) []Component {
				out := make([]Component, 0, len(names))
				for _, n := range names {
					out = append(out, byName[n])
				}
				return out
			}

			for _, setup := range tt.entitySetups {
				f.sto.NewEntities(setup.count, pick(setup.components)...)
			}

			query := Factory.NewQuery().And(pick(tt.queryComponents)...)
			cursor := Factory.NewCursor(query, f.sto)

			matches := 0
			for cursor.Next() {
				matches++
			}
			if matches != tt.expectedMatches {
				t.Errorf("cursor visited %d entities, want %d", matches, tt.expectedMatches)
			}
			if got := len(f.sto.QueryEntities(query.Mask())); got != tt.expectedMatches {
				t.Errorf("QueryEntities() returned %d entities, want %d", got, tt.expectedMatches)
			}
		})
	}
}

func TestCursorComponentAccess(t *testing.T) {
	f := newFixture(t)
	entities := f.sto.NewEntities(10, f.position, f.velocity)
	f.sto.NewEntities(5, f.position)
	for i, e := range entities {
		f.velocity.SetOnEntity(f.sto, e, Velocity{X: float32(i), Y: 1})
	}

	cursor := Factory.NewCursor(Factory.NewQuery(f.position, f.velocity), f.sto)
	for cursor.Next() {
		pos := f.position.GetFromCursor(cursor)
		vel := f.velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

	for i, e := range entities {
		pos, ok := f.position.GetFromEntity(f.sto, e)
		require.True(t, ok)
		assert.Equal(t, Position{X: float32(i), Y: 1}, *pos)
	}
}

func TestCursorCheckAndSafeAccess(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(2, f.position)
	f.sto.NewEntities(3, f.position, f.health)

	cursor := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	withHealth := 0
	for cursor.Next() {
		ok, h := f.health.GetFromCursorSafe(cursor)
		if ok != f.health.CheckCursor(cursor) {
			t.Fatalf("GetFromCursorSafe and CheckCursor disagree")
		}
		if ok {
			require.NotNil(t, h)
			withHealth++
		}
	}
	assert.Equal(t, 3, withHealth)
}

func TestCursorLocksStorage(t *testing.T) {
	f := newFixture(t)
	entities := f.sto.NewEntities(3, f.position)

	cursor := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	require.True(t, cursor.Next())
	assert.True(t, f.sto.Locked())

	for cursor.Next() {
	}
	assert.False(t, f.sto.Locked())

	// An abandoned iteration releases its lock on Reset.
	require.True(t, cursor.Next())
	cursor.Reset()
	assert.False(t, f.sto.Locked())
	assert.Len(t, entities, cursor.TotalMatched())
}

func TestCursorDefersStructuralChanges(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(4, f.position)

	cursor := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	visited := 0
	for e := range cursor.Entities() {
		visited++
		f.sto.EnqueueAddComponents(e, f.velocity.Mask())
		f.sto.EnqueueSpawn(f.position.Mask(), 1)
	}

	assert.Equal(t, 4, visited)
	assert.Equal(t, 8, f.sto.TotalEntities())
	assert.Len(t, f.sto.QueryEntities(MaskOf(f.position, f.velocity)), 4)
}

func TestCursorEntitiesBreak(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(5, f.position)

	cursor := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	for range cursor.Entities() {
		break
	}
	assert.False(t, f.sto.Locked())
}

func TestCursorRemainingInArchetype(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(3, f.position)

	cursor := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	var remaining []int
	for cursor.Next() {
		remaining = append(remaining, cursor.RemainingInArchetype())
	}
	assert.Equal(t, []int{2, 1, 0}, remaining)
}

func TestQueryEvaluate(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(1, f.position, f.velocity)
	f.sto.NewEntities(1, f.velocity)

	query := Factory.NewQuery(f.position)
	matched := 0
	for arch := range f.sto.Archetypes() {
		if query.Evaluate(arch) {
			matched++
			assert.True(t, arch.Mask().ContainsAll(query.Mask()))
		}
	}
	assert.Equal(t, 1, matched)
}

func TestNestedCursorsKeepStorageLocked(t *testing.T) {
	f := newFixture(t)
	entities := f.sto.NewEntities(3, f.position)

	outer := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	var visited []Entity
	for outer.Next() {
		visited = append(visited, outer.CurrentEntity())
		if len(visited) > 1 {
			continue
		}
		f.sto.EnqueueDespawn(entities[2])

		inner := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
		for inner.Next() {
		}
		require.True(t, f.sto.Locked(), "inner cursor unlocked the storage")
		require.True(t, f.sto.Alive(entities[2]), "despawn applied during outer pass")

		assert.Equal(t, 3, Factory.NewCursor(Factory.NewQuery(f.position), f.sto).TotalMatched())
		require.True(t, f.sto.Locked())
	}

	assert.Equal(t, entities, visited)
	assert.False(t, f.sto.Locked())
	assert.False(t, f.sto.Alive(entities[2]))
	assert.Equal(t, 2, f.sto.TotalEntities())
}

func TestCursorResetIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.sto.NewEntities(2, f.position)

	outer := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	require.True(t, outer.Next())

	inner := Factory.NewCursor(Factory.NewQuery(f.position), f.sto)
	require.True(t, inner.Next())
	inner.Reset()
	inner.Reset()

	assert.True(t, f.sto.Locked())
	outer.Reset()
	assert.False(t, f.sto.Locked())
}
