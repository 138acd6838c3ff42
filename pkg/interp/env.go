package interp

import (
	"fmt"

	"github.com/cleanworld/cleanc/pkg/core/value"
)

// Environment stores variable bindings. Its scope chain mirrors the
// symbol table built during semantic analysis: the interpreter never
// re-resolves names, it only walks the chain the analyzer validated.
type Environment struct {
	parent *Environment
	vars   map[string]value.Value
}

// NewEnvironment creates a scope; pass nil for the global one.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent: parent,
		vars:   make(map[string]value.Value),
	}
}

// Define binds a new name in this scope.
func (e *Environment) Define(name string, v value.Value) {
	e.vars[name] = v
}

// Get reads a binding, checking enclosing scopes.
func (e *Environment) Get(name string) (value.Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, nil
		}
	}
	return value.Void, fmt.Errorf("undefined variable: %s", name)
}

// Set updates a binding in the scope where it was defined.
func (e *Environment) Set(name string, v value.Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}
