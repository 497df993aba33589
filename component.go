package depot

import (
	"reflect"

	"github.com/rotisserie/eris"
)

// Component is a declared component type: a named bit in a schema bound to one
// Go type. Implementations come from FactoryNewComponent.
type Component interface {
	Name() string
	Bit() uint32
	Mask() Mask
	Type() reflect.Type
	newColumn() abstractColumn
}

// Schema is the fixed universe of component types a storage can hold. It is
// sealed once a storage is built from it.
type Schema interface {
	Len() int
	Component(bit uint32) (Component, bool)
	Components() []Component
	Sealed() bool
}

var _ Schema = &schema{}

type schema struct {
	components []Component
	names      map[string]uint32
	sealed     bool
}

func newSchema() *schema {
	return &schema{names: make(map[string]uint32)}
}

func (s *schema) Len() int {
	return len(s.components)
}

func (s *schema) Component(bit uint32) (Component, bool) {
	if int(bit) >= len(s.components) {
		return nil, false
	}
	return s.components[bit], true
}

func (s *schema) Components() []Component {
	out := make([]Component, len(s.components))
	copy(out, s.components)
	return out
}

func (s *schema) Sealed() bool {
	return s.sealed
}

func (s *schema) seal() {
	s.sealed = true
}

func (s *schema) nextBit(name string) (uint32, error) {
	if s.sealed {
		return 0, eris.Wrapf(ErrSchemaSealed, "cannot declare component %q", name)
	}
	if _, exists := s.names[name]; exists {
		return 0, ComponentExistsError{Name: name}
	}
	if len(s.components) >= MaxComponents {
		return 0, eris.Wrapf(ErrTooManyComponents, "cannot declare component %q", name)
	}
	return uint32(len(s.components)), nil
}

func (s *schema) add(c Component) {
	s.names[c.Name()] = c.Bit()
	s.components = append(s.components, c)
}

// FactoryNewComponent declares a component of type T under name and assigns it
// the schema's next free bit.
func FactoryNewComponent[T any](s Schema, name string) (AccessibleComponent[T], error) {
	sch, ok := s.(*schema)
	if !ok || sch == nil {
		return AccessibleComponent[T]{}, eris.New("schema was not created by Factory.NewSchema")
	}
	bit, err := sch.nextBit(name)
	if err != nil {
		return AccessibleComponent[T]{}, err
	}
	c := AccessibleComponent[T]{
		name: name,
		bit:  bit,
		typ:  reflect.TypeFor[T](),
	}
	sch.add(c)
	return c, nil
}

var _ Component = AccessibleComponent[struct{}]{}

// AccessibleComponent is a Component that also knows its Go type, so it can
// hand out typed pointers into archetype columns.
type AccessibleComponent[T any] struct {
	name string
	bit  uint32
	typ  reflect.Type
}

func (c AccessibleComponent[T]) Name() string {
	return c.name
}

func (c AccessibleComponent[T]) Bit() uint32 {
	return c.bit
}

func (c AccessibleComponent[T]) Mask() Mask {
	return Mask(1) << c.bit
}

func (c AccessibleComponent[T]) Type() reflect.Type {
	return c.typ
}

func (c AccessibleComponent[T]) newColumn() abstractColumn {
	return newColumn[T]()
}
