package depot

import (
	"reflect"

	"github.com/rotisserie/eris"
)

const maxResources = 256

// Resources holds singleton values alongside a storage, at most one per Go
// type. Values are kept behind pointers, so a pointer returned by GetResource
// stays valid until the resource is removed.
type Resources struct {
	cache   *SimpleCache[any]
	present []bool
}

func newResources() *Resources {
	return &Resources{
		cache: FactoryNewCache[any](maxResources).(*SimpleCache[any]),
	}
}

func resourceKey[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "/" + t.String()
}

// AddResource registers value as the resource of type T.
func AddResource[T any](r *Resources, value T) error {
	key := resourceKey[T]()
	if idx, ok := r.cache.GetIndex(key); ok && r.present[idx] {
		return ResourceExistsError{Type: reflect.TypeFor[T]().String()}
	}
	ptr := new(T)
	*ptr = value
	idx, err := r.cache.Register(key, ptr)
	if err != nil {
		return eris.Wrapf(err, "adding resource %s", reflect.TypeFor[T]())
	}
	if idx == len(r.present) {
		r.present = append(r.present, true)
	} else {
		r.present[idx] = true
	}
	return nil
}

// GetResource returns the resource of type T.
func GetResource[T any](r *Resources) (*T, bool) {
	idx, ok := r.cache.GetIndex(resourceKey[T]())
	if !ok || !r.present[idx] {
		return nil, false
	}
	return (*r.cache.GetItem(idx)).(*T), true
}

func HasResource[T any](r *Resources) bool {
	_, ok := GetResource[T](r)
	return ok
}

// RemoveResource drops the resource of type T and reports whether there was
// one.
func RemoveResource[T any](r *Resources) bool {
	idx, ok := r.cache.GetIndex(resourceKey[T]())
	if !ok || !r.present[idx] {
		return false
	}
	*r.cache.GetItem(idx) = nil
	r.present[idx] = false
	return true
}

// Len returns the number of resources held.
func (r *Resources) Len() int {
	n := 0
	for _, p := range r.present {
		if p {
			n++
		}
	}
	return n
}

// Clear drops every resource.
func (r *Resources) Clear() {
	r.cache.Clear()
	r.present = r.present[:0]
}
