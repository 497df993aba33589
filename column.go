package depot

// abstractColumn is the type-erased view of a column the archetype uses for
// structural operations. Typed access goes through column[T] directly.
type abstractColumn interface {
	len() int
	extend()
	reserve(n int)
	take(src abstractColumn, row int)
	remove(row int)
}

var _ abstractColumn = &column[struct{}]{}

// column stores one component type for every row of an archetype. Its length
// always equals the length of the archetype's entity slice.
type column[T any] struct {
	components []T
}

func newColumn[T any]() *column[T] {
	return &column[T]{}
}

func (c *column[T]) len() int {
	return len(c.components)
}

// extend appends a zero value.
func (c *column[T]) extend() {
	var zero T
	c.components = append(c.components, zero)
}

// reserve makes room for n more rows without changing the length.
func (c *column[T]) reserve(n int) {
	if cap(c.components)-len(c.components) >= n {
		return
	}
	grown := make([]T, len(c.components), max(len(c.components)+n, 2*cap(c.components)))
	copy(grown, c.components)
	c.components = grown
}

// take appends the value at row of src and zeroes it there. src must hold the
// same component type.
func (c *column[T]) take(src abstractColumn, row int) {
	from := src.(*column[T])
	var zero T
	c.components = append(c.components, from.components[row])
	from.components[row] = zero
}

// remove swaps the last value into row and truncates.
func (c *column[T]) remove(row int) {
	last := len(c.components) - 1
	var zero T
	c.components[row] = c.components[last]
	c.components[last] = zero
	c.components = c.components[:last]
}

func (c *column[T]) at(row int) *T {
	return &c.components[row]
}
