package interpreter

import (
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/lowerer"
	"eagle/interpreter-go/pkg/runtime"
)

// lowerMembers binds and lowers one unit, failing on diagnostics.
func lowerMembers(t *testing.T, members ...ast.Member) *binder.Unit {
	t.Helper()
	scope, err := binder.BindGlobalScope(nil, []*ast.CompilationUnit{ast.Unit(members...)})
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if len(scope.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", scope.Diagnostics)
	}
	return lowerer.LowerUnit(scope.Unit)
}

func evaluateMembers(t *testing.T, interp *Interpreter, members ...ast.Member) (runtime.Value, error) {
	t.Helper()
	return interp.Evaluate(lowerMembers(t, members...), runtime.NewStore())
}

func mustEvaluate(t *testing.T, members ...ast.Member) runtime.Value {
	t.Helper()
	val, err := evaluateMembers(t, New(), members...)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	return val
}

func statements(stmts ...ast.Statement) []ast.Member {
	members := make([]ast.Member, 0, len(stmts))
	for _, stmt := range stmts {
		members = append(members, ast.Global(stmt))
	}
	return members
}

func expectInt(t *testing.T, val runtime.Value, want int64) {
	t.Helper()
	iv, ok := val.(runtime.IntegerValue)
	if !ok || iv.Val != want {
		t.Fatalf("expected integer %d, got %#v", want, val)
	}
}
