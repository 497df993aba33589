package depot

// GetComponent returns a copy of the component named by m. m must have exactly
// one bit set, the entity's archetype must contain it, and T must be the type
// declared for that bit; otherwise the zero value and false are returned.
func GetComponent[T any](sto Storage, e Entity, m Mask) (T, bool) {
	ptr, ok := GetComponentMut[T](sto, e, m)
	if !ok {
		var zero T
		return zero, false
	}
	return *ptr, true
}

// GetComponentMut is GetComponent returning a pointer into the column. The
// pointer is valid until the next structural mutation of the storage.
func GetComponentMut[T any](sto Storage, e Entity, m Mask) (*T, bool) {
	bit, ok := m.single()
	if !ok {
		return nil, false
	}
	s, ok := sto.(*storage)
	if !ok {
		return nil, false
	}
	arch, row, ok := s.resolve(e)
	if !ok || !arch.bits.Has(bit) {
		return nil, false
	}
	col, ok := arch.columns[bit].(*column[T])
	if !ok {
		return nil, false
	}
	return col.at(row), true
}

// GetFromEntity returns the entity's value of this component.
func (c AccessibleComponent[T]) GetFromEntity(sto Storage, e Entity) (*T, bool) {
	return GetComponentMut[T](sto, e, c.Mask())
}

// SetOnEntity overwrites the entity's value of this component. It reports
// false when the entity is stale or lacks the component.
func (c AccessibleComponent[T]) SetOnEntity(sto Storage, e Entity, value T) bool {
	ptr, ok := c.GetFromEntity(sto, e)
	if ok {
		*ptr = value
	}
	return ok
}

// GetFromCursor retrieves the component for the entity at the cursor position.
// The cursor's archetype must contain the component; see CheckCursor.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	col := cursor.currentArchetype.columns[c.bit].(*column[T])
	return col.at(cursor.entityIndex - 1)
}

// GetFromCursorSafe is GetFromCursor with the presence check folded in.
func (c AccessibleComponent[T]) GetFromCursorSafe(cursor *Cursor) (bool, *T) {
	if !c.CheckCursor(cursor) {
		return false, nil
	}
	return true, c.GetFromCursor(cursor)
}

// CheckCursor determines if the component exists in the archetype at the cursor position
func (c AccessibleComponent[T]) CheckCursor(cursor *Cursor) bool {
	return cursor.currentArchetype != nil && cursor.currentArchetype.bits.Has(c.bit)
}

// Slice returns the archetype's column for this component, one value per row
// in the same order as Archetype.Entities. It is nil when the archetype does
// not hold the component.
func (c AccessibleComponent[T]) Slice(a Archetype) []T {
	arch, ok := a.(*archetype)
	if !ok || int(c.bit) >= len(arch.columns) {
		return nil
	}
	col, ok := arch.columns[c.bit].(*column[T])
	if !ok {
		return nil
	}
	return col.components
}
