package binder

import (
	"errors"

	"eagle/interpreter-go/pkg/symbols"
)

var errAlreadyDeclared = errors.New("binder: symbol already declared")

// Scope is one level of the name→symbol chain.
type Scope interface {
	Parent() Scope
	// Define declares sym at this level. It fails when the name is taken here.
	Define(sym symbols.Symbol) error
	// Lookup resolves name here or in an enclosing scope.
	Lookup(name string) (symbols.Symbol, bool)
	// Declared lists the symbols of this level in declaration order.
	Declared() []symbols.Symbol
}

// BlockScope serves blocks, function bodies and the global scope.
type BlockScope struct {
	parent  Scope
	symbols map[string]symbols.Symbol
	order   []symbols.Symbol
}

func NewBlockScope(parent Scope) *BlockScope {
	return &BlockScope{parent: parent, symbols: make(map[string]symbols.Symbol)}
}

func (s *BlockScope) Parent() Scope { return s.parent }

func (s *BlockScope) Define(sym symbols.Symbol) error {
	if _, exists := s.symbols[sym.Name()]; exists {
		return errAlreadyDeclared
	}
	s.symbols[sym.Name()] = sym
	s.order = append(s.order, sym)
	return nil
}

func (s *BlockScope) Lookup(name string) (symbols.Symbol, bool) {
	if sym, ok := s.symbols[name]; ok {
		return sym, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil, false
}

func (s *BlockScope) Declared() []symbols.Symbol {
	return append([]symbols.Symbol(nil), s.order...)
}

// TypeScope declares into a struct's member list. Constructors share the
// type's name and are told apart by arity.
type TypeScope struct {
	parent Scope
	typ    *symbols.TypeSymbol
	names  map[string]symbols.Symbol
}

func NewTypeScope(parent Scope, typ *symbols.TypeSymbol) *TypeScope {
	scope := &TypeScope{parent: parent, typ: typ, names: make(map[string]symbols.Symbol)}
	for _, member := range typ.Members() {
		if member.Kind() != symbols.KindConstructor {
			scope.names[member.Name()] = member
		}
	}
	return scope
}

func (s *TypeScope) Parent() Scope              { return s.parent }
func (s *TypeScope) Type() *symbols.TypeSymbol { return s.typ }

func (s *TypeScope) Define(sym symbols.Symbol) error {
	if ctor, ok := sym.(*symbols.ConstructorSymbol); ok {
		if _, taken := s.typ.Constructor(len(ctor.Parameters())); taken {
			return errAlreadyDeclared
		}
		return s.typ.AddMember(ctor)
	}
	if _, exists := s.names[sym.Name()]; exists {
		return errAlreadyDeclared
	}
	if err := s.typ.AddMember(sym); err != nil {
		return err
	}
	s.names[sym.Name()] = sym
	return nil
}

func (s *TypeScope) Lookup(name string) (symbols.Symbol, bool) {
	if sym, ok := s.names[name]; ok {
		return sym, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil, false
}

func (s *TypeScope) Declared() []symbols.Symbol {
	return s.typ.Members()
}
