package depot

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	ErrSchemaSealed      = eris.New("schema is sealed")
	ErrTooManyComponents = eris.New("schema already declares the maximum number of components")
	ErrCacheFull         = eris.New("cache at maximum capacity")
)

type ComponentExistsError struct {
	Name string
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already declared: %s", e.Name)
}

type ResourceExistsError struct {
	Type string
}

func (e ResourceExistsError) Error() string {
	return fmt.Sprintf("resource already registered: %s", e.Type)
}
