/*
Package depot provides archetype-based storage for an Entity-Component-System.

Entities with exactly the same set of components share an archetype: a table
with one dense column per component and one row per entity. Adding or removing
a component moves the entity's row into another archetype. Single-component
moves are served from a cached transition graph, so they cost a lookup rather
than a search.

Core Concepts:

  - Entity: a generational handle. A handle goes stale once its entity is
    despawned, and stale handles are rejected everywhere.
  - Component: a named bit in a Schema bound to one Go type.
  - Mask: a set of component bits. Each archetype has exactly one.
  - Archetype: the table holding every entity with one particular Mask.
  - Query: a set of components an archetype must contain to match.

Basic Usage:

	schema := depot.Factory.NewSchema()
	position, _ := depot.FactoryNewComponent[Position](schema, "position")
	velocity, _ := depot.FactoryNewComponent[Velocity](schema, "velocity")

	sto := depot.Factory.NewStorage(schema)
	sto.NewEntities(100, position, velocity)

	query := depot.Factory.NewQuery(position, velocity)
	cursor := depot.Factory.NewCursor(query, sto)

	for cursor.Next() {
		pos := position.GetFromCursor(cursor)
		vel := velocity.GetFromCursor(cursor)
		pos.X += vel.X
		pos.Y += vel.Y
	}

The storage is locked while a cursor iterates. Structural changes made through
the Enqueue methods during that time are applied when iteration finishes.
*/
package depot
