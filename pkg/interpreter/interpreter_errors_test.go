package interpreter

import (
	"errors"
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func TestDivideByZeroFaults(t *testing.T) {
	interp := New()
	_, err := evaluateMembers(t, interp,
		ast.Fn("div", ast.Params(ast.Param("a", "int")), ast.Ty("int"), ast.Expr(ast.Bin("/", ast.Int(1), ast.ID("a")))),
		ast.Global(ast.Expr(ast.Call("div", ast.Int(0)))),
	)
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected fault, got %v", err)
	}
	if !errors.Is(err, runtime.ErrDivideByZero) {
		t.Fatalf("expected divide by zero cause, got %v", err)
	}
	if interp.FrameDepth() != 0 {
		t.Fatalf("frame depth %d after faulting call", interp.FrameDepth())
	}
}

func TestBadStringConversionFaults(t *testing.T) {
	_, err := evaluateMembers(t, New(), statements(ast.Expr(ast.Cast("int", ast.Str("abc"))))...)
	var conv *runtime.ConversionError
	if !errors.As(err, &conv) {
		t.Fatalf("expected conversion error, got %v", err)
	}
}

func TestUnknownExternFaults(t *testing.T) {
	_, err := evaluateMembers(t, New(), ast.Extern("Launch", nil, nil))
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected fault, got %v", err)
	}
}

func TestUnknownLabelFaults(t *testing.T) {
	unit := &binder.Unit{Body: binder.NewBlock(&binder.GotoStatement{Label: symbols.GenerateLabel()})}
	_, err := New().Evaluate(unit, runtime.NewStore())
	var fault *Fault
	if !errors.As(err, &fault) {
		t.Fatalf("expected fault, got %v", err)
	}
}

func TestStructuredStatementFaults(t *testing.T) {
	unit := &binder.Unit{Body: binder.NewBlock(&binder.ReturnStatement{})}
	if _, err := New().Evaluate(unit, runtime.NewStore()); err == nil {
		t.Fatalf("expected fault for an unlowered statement")
	}
}
