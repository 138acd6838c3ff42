package semantic

import (
	"fmt"

	"github.com/cleanworld/cleanc/pkg/compiler/ast"
)

// Category distinguishes constants from variables in the symbol table.
type Category uint8

const (
	CategoryVar Category = iota
	CategoryConst
)

func (c Category) String() string {
	if c == CategoryConst {
		return "const"
	}
	return "var"
}

// Symbol is one declared name. Entries are immutable once inserted.
type Symbol struct {
	Name       string
	Category   Category
	Type       ast.Type
	DeclaredAt ast.Position
	Level      int
}

// Scope is one lexical region; lookups fall back to the parent chain.
type Scope struct {
	parent *Scope
	level  int
	names  map[string]*Symbol
}

// NewScope creates a child scope (or the global scope for a nil parent).
func NewScope(parent *Scope) *Scope {
	level := 0
	if parent != nil {
		level = parent.level + 1
	}
	return &Scope{
		parent: parent,
		level:  level,
		names:  make(map[string]*Symbol),
	}
}

// Parent returns the enclosing scope, nil at global level.
func (s *Scope) Parent() *Scope { return s.parent }

// Declare inserts a name; re-declaration in the same scope is an error.
func (s *Scope) Declare(name string, category Category, typ ast.Type, at ast.Position) (*Symbol, error) {
	if _, exists := s.names[name]; exists {
		return nil, fmt.Errorf("duplicate declaration: %s", name)
	}
	sym := &Symbol{
		Name:       name,
		Category:   category,
		Type:       typ,
		DeclaredAt: at,
		Level:      s.level,
	}
	s.names[name] = sym
	return sym, nil
}

// Resolve finds a name in this scope or any enclosing one.
func (s *Scope) Resolve(name string) *Symbol {
	for scope := s; scope != nil; scope = scope.parent {
		if sym, ok := scope.names[name]; ok {
			return sym
		}
	}
	return nil
}
