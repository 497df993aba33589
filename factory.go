package depot

type factory struct{}

var Factory factory

// NewSchema returns an empty, unsealed schema.
func (f factory) NewSchema() Schema {
	return newSchema()
}

// NewStorage builds a storage over s and seals it. The schema must come
// from NewSchema.
func (f factory) NewStorage(s Schema) Storage {
	sch, ok := s.(*schema)
	if !ok || sch == nil {
		panic("depot: schema was not created by Factory.NewSchema")
	}
	return newStorage(sch)
}

func (f factory) NewQuery(components ...Component) Query {
	return newQuery(components...)
}

func (f factory) NewCursor(query Query, storage Storage) *Cursor {
	return newCursor(query, storage)
}

func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
