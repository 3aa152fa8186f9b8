package compilation

import (
	"errors"
	"sync"
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/runtime"
)

func TestEvaluateScript(t *testing.T) {
	c := New([]*ast.CompilationUnit{ast.Script(ast.Expr(ast.Bin("+", ast.Int(49), ast.Int(51))))})
	result, err := c.Evaluate(nil, runtime.NewStore())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if v, ok := result.Value.(runtime.IntegerValue); !ok || v.Val != 100 {
		t.Fatalf("expected 100, got %#v", result.Value)
	}
}

func TestEvaluateStopsOnDiagnostics(t *testing.T) {
	globals := runtime.NewStore()
	c := New([]*ast.CompilationUnit{ast.Script(
		ast.Var("y", ast.Int(1)),
		ast.Expr(ast.Bin("+", ast.ID("x"), ast.Int(1))),
	)})
	result, err := c.Evaluate(nil, globals)
	if !errors.Is(err, ErrHasDiagnostics) {
		t.Fatalf("expected ErrHasDiagnostics, got %v", err)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != diagnostics.UndefinedSymbol {
		t.Fatalf("unexpected diagnostics %v", result.Diagnostics)
	}
	if globals.Len() != 0 {
		t.Fatalf("nothing may run when diagnostics exist")
	}
}

func TestBaseTypeCycleIsNotEvaluated(t *testing.T) {
	globals := runtime.NewStore()
	c := New([]*ast.CompilationUnit{ast.Unit(
		ast.ObjectWithBase("A", []string{"B"}),
		ast.ObjectWithBase("B", []string{"A"}),
		ast.Global(ast.Var("a", ast.Call("A"))),
	)})
	result, err := c.Evaluate(nil, globals)
	if !errors.Is(err, ErrHasDiagnostics) {
		t.Fatalf("expected ErrHasDiagnostics, got %v", err)
	}
	if len(result.Diagnostics) != 1 || result.Diagnostics[0].Kind != diagnostics.CyclicDependency {
		t.Fatalf("unexpected diagnostics %v", result.Diagnostics)
	}
	if globals.Len() != 0 {
		t.Fatalf("nothing may run when diagnostics exist")
	}
}

func TestGlobalScopeIsMemoized(t *testing.T) {
	c := New([]*ast.CompilationUnit{ast.Script(ast.Var("x", ast.Int(1)))})
	const callers = 16
	scopes := make([]*binder.GlobalScope, callers)
	var wg sync.WaitGroup
	for idx := 0; idx < callers; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			scope, err := c.GlobalScope()
			if err != nil {
				t.Errorf("bind failed: %v", err)
				return
			}
			scopes[idx] = scope
		}(idx)
	}
	wg.Wait()
	for idx, scope := range scopes {
		if scope == nil || scope != scopes[0] {
			t.Fatalf("caller %d observed a different scope", idx)
		}
	}
}

func TestContinueWithSeesPreviousSubmission(t *testing.T) {
	globals := runtime.NewStore()
	first := New([]*ast.CompilationUnit{ast.Script(ast.Var("x", ast.Int(41)))})
	if _, err := first.Evaluate(nil, globals); err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
	second := first.ContinueWith(ast.Script(
		ast.Expr(ast.AssignName("x", ast.Bin("+", ast.ID("x"), ast.Int(1)))),
	))
	result, err := second.Evaluate(nil, globals)
	if err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if v, ok := result.Value.(runtime.IntegerValue); !ok || v.Val != 42 {
		t.Fatalf("expected 42, got %#v", result.Value)
	}
	if second.Previous() != first {
		t.Fatalf("expected chained compilation")
	}
}

func TestContinueWithReportsOnlyNewDiagnostics(t *testing.T) {
	first := New([]*ast.CompilationUnit{ast.Script(ast.Expr(ast.ID("missing")))})
	second := first.ContinueWith(ast.Script(ast.Expr(ast.Int(1))))
	diags, err := second.Diagnostics()
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}
