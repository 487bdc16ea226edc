package decl

import "fmt"

// Env[T] holds the bindings for identifiers in one flat scope. Rebinding
// a name replaces its value but keeps its original position in Keys.
type Env[T any] struct {
	store map[string]T
	order []string
}

func NewEnv[T any]() *Env[T] {
	return &Env[T]{store: make(map[string]T)}
}

func (e *Env[T]) Get(name string) (out T, found bool) {
	out, found = e.store[name]
	return
}

func (e *Env[T]) Set(name string, value T) {
	if _, ok := e.store[name]; !ok {
		e.order = append(e.order, name)
	}
	e.store[name] = value
}

func (e *Env[T]) Len() int { return len(e.order) }

// Keys lists bound names in the order they were first bound.
func (e *Env[T]) Keys() []string {
	return append([]string(nil), e.order...)
}

// All returns a copy of the bindings.
func (e *Env[T]) All() map[string]T {
	result := make(map[string]T, len(e.store))
	for k, v := range e.store {
		result[k] = v
	}
	return result
}

func (e *Env[T]) String() string {
	return fmt.Sprintf("Env%v", e.order)
}
