package binder

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// GlobalScope is the result of binding one submission.
type GlobalScope struct {
	Previous    *GlobalScope
	Diagnostics []diagnostics.Diagnostic
	Symbols     []symbols.Symbol
	Unit        *Unit
}

type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger routes phase tracing to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// internalError carries an invariant violation out of the recursive descent.
type internalError struct {
	err error
}

// Binder resolves names, types and operators of unbound trees.
type Binder struct {
	diags    diagnostics.Bag
	scope    Scope
	function symbols.Invokable
	thisType *symbols.TypeSymbol
	loops    []LoopLabels

	typeScopes map[*symbols.TypeSymbol]*TypeScope
	consts     map[symbols.ID]runtime.Value
}

func newBinder(parent Scope) *Binder {
	return &Binder{
		scope:      NewBlockScope(parent),
		typeScopes: make(map[*symbols.TypeSymbol]*TypeScope),
		consts:     make(map[symbols.ID]runtime.Value),
	}
}

// BindGlobalScope binds units on top of previous. Diagnostics are returned in
// the scope; the error reports internal invariant violations only.
func BindGlobalScope(previous *GlobalScope, units []*ast.CompilationUnit, opts ...Option) (result *GlobalScope, err error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	defer func() {
		if r := recover(); r != nil {
			ie, ok := r.(internalError)
			if !ok {
				panic(r)
			}
			result, err = nil, fmt.Errorf("binder: %w", ie.err)
		}
	}()

	b := newBinder(parentScope(previous))
	for _, prev := range chain(previous) {
		for _, sym := range prev.Symbols {
			if c, ok := sym.(*symbols.ConstSymbol); ok {
				if v, found := constValue(prev.Unit, c); found {
					b.consts[c.ID()] = v
				}
			}
		}
	}

	var members []ast.Member
	for _, unit := range units {
		if unit != nil {
			members = append(members, unit.Members...)
		}
	}

	pending := b.bindTypes(members)
	cfg.logger.Debug("binder: types declared", "structs", len(pending.structs))
	b.bindMemberSignatures(members, pending)
	decls, body := b.bindBodies(members, pending)

	scope := &GlobalScope{
		Previous:    previous,
		Diagnostics: b.diags.Items(),
		Symbols:     b.scope.Declared(),
		Unit:        &Unit{Declarations: decls, Body: body},
	}
	cfg.logger.Debug("binder: bound global scope",
		"units", len(units),
		"declarations", len(decls),
		"diagnostics", len(scope.Diagnostics))
	return scope, nil
}

// chain lists previous scopes oldest first.
func chain(previous *GlobalScope) []*GlobalScope {
	var scopes []*GlobalScope
	for s := previous; s != nil; s = s.Previous {
		scopes = append([]*GlobalScope{s}, scopes...)
	}
	return scopes
}

func parentScope(previous *GlobalScope) Scope {
	var parent Scope
	for _, prev := range chain(previous) {
		scope := NewBlockScope(parent)
		for _, sym := range prev.Symbols {
			_ = scope.Define(sym)
		}
		parent = scope
	}
	return parent
}

func constValue(unit *Unit, sym *symbols.ConstSymbol) (runtime.Value, bool) {
	if unit == nil {
		return nil, false
	}
	for _, decl := range unit.Declarations {
		if c, ok := decl.(*ConstDeclaration); ok && c.Symbol == sym {
			return c.Value, true
		}
	}
	return nil, false
}

// fail aborts binding with an internal error.
func (b *Binder) fail(err error) {
	panic(internalError{err: err})
}

// declare defines sym in scope, reporting a duplicate as a diagnostic.
func (b *Binder) declare(scope Scope, sym symbols.Symbol, span ast.Span) bool {
	err := scope.Define(sym)
	switch {
	case err == nil:
		return true
	case errors.Is(err, errAlreadyDeclared):
		b.diags.ReportAlreadyDeclared(span, sym.Name())
		return false
	default:
		b.fail(err)
		return false
	}
}

// lookupType resolves a type clause. A nil reference resolves to nil.
func (b *Binder) lookupType(ref *ast.TypeReference) *symbols.TypeSymbol {
	if ref == nil {
		return nil
	}
	if sym, ok := b.scope.Lookup(ref.Name); ok {
		switch s := sym.(type) {
		case *symbols.TypeSymbol:
			return s
		case *symbols.AliasSymbol:
			return s.Target()
		}
	}
	if t, ok := symbols.LookupBuiltin(ref.Name); ok {
		return t
	}
	b.diags.ReportUndefinedType(ref.NodeSpan(), ref.Name)
	return symbols.Error
}

func (b *Binder) withScope(scope Scope, fn func()) {
	saved := b.scope
	b.scope = scope
	defer func() { b.scope = saved }()
	fn()
}
