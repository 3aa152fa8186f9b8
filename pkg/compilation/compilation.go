package compilation

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/interpreter"
	"eagle/interpreter-go/pkg/lowerer"
	"eagle/interpreter-go/pkg/runtime"
)

// ErrHasDiagnostics is returned by Evaluate when binding reported problems.
var ErrHasDiagnostics = errors.New("compilation: unit has diagnostics")

// Compilation binds a set of units, optionally on top of a previous
// submission.
type Compilation struct {
	previous *Compilation
	units    []*ast.CompilationUnit
	logger   *slog.Logger

	globalScope atomic.Pointer[binder.GlobalScope]
}

type Option func(*Compilation)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Compilation) { c.logger = logger }
}

func New(units []*ast.CompilationUnit, opts ...Option) *Compilation {
	c := &Compilation{units: units, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContinueWith chains a new submission onto this one. Symbols declared here
// stay visible to units.
func (c *Compilation) ContinueWith(units ...*ast.CompilationUnit) *Compilation {
	return &Compilation{previous: c, units: units, logger: c.logger}
}

func (c *Compilation) Previous() *Compilation { return c.previous }

func (c *Compilation) Units() []*ast.CompilationUnit { return c.units }

// GlobalScope binds the units once. Concurrent callers all observe the
// scope that won the race.
func (c *Compilation) GlobalScope() (*binder.GlobalScope, error) {
	if scope := c.globalScope.Load(); scope != nil {
		c.logger.Debug("global scope", "memo", "hit")
		return scope, nil
	}
	var previous *binder.GlobalScope
	if c.previous != nil {
		prev, err := c.previous.GlobalScope()
		if err != nil {
			return nil, err
		}
		previous = prev
	}
	scope, err := binder.BindGlobalScope(previous, c.units, binder.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("compilation: %w", err)
	}
	c.logger.Debug("global scope", "memo", "miss", "units", len(c.units), "diagnostics", len(scope.Diagnostics))
	c.globalScope.CompareAndSwap(nil, scope)
	return c.globalScope.Load(), nil
}

// Diagnostics are the binding diagnostics of this submission only.
func (c *Compilation) Diagnostics() ([]diagnostics.Diagnostic, error) {
	scope, err := c.GlobalScope()
	if err != nil {
		return nil, err
	}
	return scope.Diagnostics, nil
}

// Lower returns the lowered unit of this submission.
func (c *Compilation) Lower() (*binder.Unit, error) {
	scope, err := c.GlobalScope()
	if err != nil {
		return nil, err
	}
	return lowerer.LowerUnit(scope.Unit), nil
}

// EvaluationResult carries either diagnostics or the value of the last
// statement.
type EvaluationResult struct {
	Diagnostics []diagnostics.Diagnostic
	Value       runtime.Value
}

// Evaluate binds, lowers and runs the submission against globals. With
// diagnostics present nothing runs and the error is ErrHasDiagnostics. A nil
// interp gets a fresh interpreter sharing the compilation's logger.
func (c *Compilation) Evaluate(interp *interpreter.Interpreter, globals *runtime.Store) (EvaluationResult, error) {
	scope, err := c.GlobalScope()
	if err != nil {
		return EvaluationResult{}, err
	}
	if len(scope.Diagnostics) > 0 {
		return EvaluationResult{Diagnostics: scope.Diagnostics}, ErrHasDiagnostics
	}
	if interp == nil {
		interp = interpreter.New(interpreter.WithLogger(c.logger))
	}
	value, err := interp.Evaluate(lowerer.LowerUnit(scope.Unit), globals)
	if err != nil {
		return EvaluationResult{}, err
	}
	return EvaluationResult{Value: value}, nil
}
