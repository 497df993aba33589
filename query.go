package depot

import "github.com/TheBitDrifter/mask"

var _ Query = &query{}

// query is a conjunction of components. The library bitset is kept alongside
// the word mask so archetype keys can be tested directly.
type query struct {
	bits Mask
	key  mask.Mask
}

func newQuery(components ...Component) Query {
	q := &query{}
	return q.And(components...)
}

// And adds components to the query and returns it.
func (q *query) And(components ...Component) Query {
	for _, c := range components {
		q.bits |= c.Mask()
		q.key.Mark(c.Bit())
	}
	return q
}

func (q *query) Mask() Mask {
	return q.bits
}

// Evaluate reports whether the archetype holds every component of the query.
func (q *query) Evaluate(archetype Archetype) bool {
	archeMask := archetype.Key()
	return archeMask.ContainsAll(q.key)
}
