package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func TestEvaluateLiterals(t *testing.T) {
	expectInt(t, mustEvaluate(t, statements(ast.Expr(ast.Int(100)))...), 100)
	expectInt(t, mustEvaluate(t, statements(ast.Expr(ast.Un("-", ast.Int(100))))...), -100)
	expectInt(t, mustEvaluate(t, statements(ast.Expr(ast.Bin("+", ast.Int(49), ast.Int(51))))...), 100)
}

func TestEvaluateStringConcat(t *testing.T) {
	val := mustEvaluate(t, statements(ast.Expr(ast.Bin("+", ast.Str("n="), ast.Int(4))))...)
	if s, ok := val.(runtime.StringValue); !ok || s.Val != "n=4" {
		t.Fatalf("expected 'n=4', got %#v", val)
	}
}

func TestEvaluateIntegerWrap(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.VarTyped("x", "Int8", ast.Cast("Int8", ast.Int(127))),
		ast.Expr(ast.Bin("+", ast.ID("x"), ast.Cast("Int8", ast.Int(1)))),
	)...)
	iv := val.(runtime.IntegerValue)
	if iv.Val != -128 || iv.Rep != symbols.RepI8 {
		t.Fatalf("expected Int8 -128, got %#v", val)
	}
}

func TestEvaluateMethodCall(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A", ast.Method("GetValue", nil, nil, ast.Expr(ast.Int(100)))),
		ast.Global(ast.Expr(ast.CallMember(ast.Call("A"), "GetValue"))),
	)
	expectInt(t, val, 100)
}

func TestEvaluateThroughDeepBaseChain(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A", ast.Field("x", "int", ast.Int(7))),
		ast.ObjectWithBase("B", []string{"A"}),
		ast.ObjectWithBase("C", []string{"B"}, ast.Method("GetValue", nil, nil, ast.Expr(ast.Int(100)))),
		ast.Global(ast.VarTyped("a", "A", ast.Call("C"))),
		ast.Global(ast.Expr(ast.CallMember(ast.Call("C"), "GetValue"))),
	)
	expectInt(t, val, 100)
}

func TestEvaluateFieldInitializer(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A", ast.Field("b", "int", ast.Int(100))),
		ast.Global(ast.Expr(ast.Access(ast.Call("A"), "b"))),
	)
	expectInt(t, val, 100)
}

func TestFieldInitializerRunsOncePerConstruction(t *testing.T) {
	val := mustEvaluate(t,
		ast.Global(ast.Var("count", ast.Int(0))),
		ast.Fn("next", nil, ast.Ty("int"),
			ast.Expr(ast.AssignName("count", ast.Bin("+", ast.ID("count"), ast.Int(1)))),
			ast.Expr(ast.ID("count"))),
		ast.Object("A", ast.Field("b", "int", ast.Call("next"))),
		ast.Global(ast.Expr(ast.Call("A"))),
		ast.Global(ast.Expr(ast.New("A"))),
		ast.Global(ast.Expr(ast.ID("count"))),
	)
	expectInt(t, val, 2)
}

func TestEvaluateConstructorBody(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A",
			ast.Field("b", "int", nil),
			ast.Ctor(nil, ast.Expr(ast.AssignName("b", ast.Int(100)))),
		),
		ast.Global(ast.Expr(ast.Access(ast.Call("A"), "b"))),
	)
	expectInt(t, val, 100)
}

func TestEvaluateDelegatingConstructor(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A",
			ast.Field("b", "int", ast.Int(1)),
			ast.Field("c", "int", nil),
			ast.Ctor(nil, ast.Expr(ast.AssignName("c", ast.Int(10)))),
			ast.DelegatingCtor(ast.Params(ast.Param("v", "int")), nil,
				ast.Expr(ast.AssignName("b", ast.Bin("+", ast.ID("b"), ast.ID("v"))))),
		),
		ast.Global(ast.Let("a", ast.New("A", ast.Int(5)))),
		ast.Global(ast.Expr(ast.Bin("+", ast.Access(ast.ID("a"), "b"), ast.Access(ast.ID("a"), "c")))),
	)
	expectInt(t, val, 16)
}

func TestEvaluateProperty(t *testing.T) {
	val := mustEvaluate(t,
		ast.Object("A",
			ast.Field("b", "int", ast.Int(20)),
			ast.Prop("Twice", "int", ast.Expr(ast.Bin("*", ast.ID("b"), ast.Int(2)))),
		),
		ast.Global(ast.Expr(ast.Access(ast.Call("A"), "Twice"))),
	)
	expectInt(t, val, 40)
}

func TestIfWithoutElseSkipsBody(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("count", ast.Int(0)),
		ast.If(ast.Bool(false), ast.Block(
			ast.Expr(ast.AssignName("count", ast.Bin("+", ast.ID("count"), ast.Int(1)))),
			ast.Expr(ast.AssignName("count", ast.Bin("+", ast.ID("count"), ast.Int(1)))),
		)),
		ast.Expr(ast.ID("count")),
	)...)
	expectInt(t, val, 0)
}

func TestIfElse(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("x", ast.Int(0)),
		ast.IfElse(ast.Bin(">", ast.Int(1), ast.Int(2)),
			ast.Expr(ast.AssignName("x", ast.Int(1))),
			ast.Expr(ast.AssignName("x", ast.Int(2)))),
		ast.Expr(ast.ID("x")),
	)...)
	expectInt(t, val, 2)
}

func TestWhileWithBreakAndContinue(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("i", ast.Int(0)),
		ast.Var("sum", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("i"), ast.Int(10)),
			ast.Expr(ast.AssignName("i", ast.Bin("+", ast.ID("i"), ast.Int(1)))),
			ast.If(ast.Bin("==", ast.ID("i"), ast.Int(3)), ast.Continue()),
			ast.If(ast.Bin("==", ast.ID("i"), ast.Int(6)), ast.Break()),
			ast.Expr(ast.AssignName("sum", ast.Bin("+", ast.ID("sum"), ast.ID("i"))))),
		ast.Expr(ast.ID("sum")),
	)...)
	expectInt(t, val, 12)
}

func TestWhileWithFalseConditionRunsZeroTimes(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("count", ast.Int(0)),
		ast.While(ast.Bool(false), ast.Expr(ast.AssignName("count", ast.Int(1)))),
		ast.Expr(ast.ID("count")),
	)...)
	expectInt(t, val, 0)
}

func TestForWithContinue(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("sum", ast.Int(0)),
		ast.For("i", ast.Int(1), ast.Int(5),
			ast.If(ast.Bin("==", ast.ID("i"), ast.Int(2)), ast.Continue()),
			ast.Expr(ast.AssignName("sum", ast.Bin("+", ast.ID("sum"), ast.ID("i"))))),
		ast.Expr(ast.ID("sum")),
	)...)
	expectInt(t, val, 13)
}

func TestForEvaluatesUpperBoundOnce(t *testing.T) {
	val := mustEvaluate(t,
		ast.Global(ast.Var("calls", ast.Int(0))),
		ast.Fn("limit", nil, ast.Ty("int"),
			ast.Expr(ast.AssignName("calls", ast.Bin("+", ast.ID("calls"), ast.Int(1)))),
			ast.Expr(ast.Int(3))),
		ast.Global(ast.For("i", ast.Int(1), ast.Call("limit"))),
		ast.Global(ast.Expr(ast.ID("calls"))),
	)
	expectInt(t, val, 1)
}

func TestLoopWithBreak(t *testing.T) {
	val := mustEvaluate(t, statements(
		ast.Var("n", ast.Int(0)),
		ast.Loop(
			ast.Expr(ast.AssignName("n", ast.Bin("+", ast.ID("n"), ast.Int(1)))),
			ast.If(ast.Bin("==", ast.ID("n"), ast.Int(4)), ast.Break())),
		ast.Expr(ast.ID("n")),
	)...)
	expectInt(t, val, 4)
}

func TestFunctionsAndReturn(t *testing.T) {
	val := mustEvaluate(t,
		ast.Fn("fib", ast.Params(ast.Param("n", "int")), ast.Ty("int"),
			ast.If(ast.Bin("<", ast.ID("n"), ast.Int(2)), ast.Ret(ast.ID("n"))),
			ast.Ret(ast.Bin("+",
				ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(1))),
				ast.Call("fib", ast.Bin("-", ast.ID("n"), ast.Int(2)))))),
		ast.Global(ast.Expr(ast.Call("fib", ast.Int(10)))),
	)
	expectInt(t, val, 55)
}

func TestDeclarationOnlyUnitYieldsLastDeclaration(t *testing.T) {
	val := mustEvaluate(t, ast.Const("Answer", nil, ast.Int(42)))
	expectInt(t, val, 42)

	val = mustEvaluate(t, ast.Fn("f", nil, nil))
	if _, ok := val.(*FunctionValue); !ok {
		t.Fatalf("expected function value, got %#v", val)
	}
}

func TestExternBuiltins(t *testing.T) {
	var out bytes.Buffer
	interp := New(WithOutput(&out), WithInput(strings.NewReader("eagle\n")))
	val, err := evaluateMembers(t, interp,
		ast.Extern("PrintLine", ast.Params(ast.Param("value", "Any")), nil),
		ast.Extern("Input", nil, ast.Ty("String")),
		ast.Extern("StringLength", ast.Params(ast.Param("value", "String")), ast.Ty("int")),
		ast.Global(ast.Let("name", ast.Call("Input"))),
		ast.Global(ast.Expr(ast.Call("PrintLine", ast.Bin("+", ast.Str("hello "), ast.ID("name"))))),
		ast.Global(ast.Expr(ast.Call("StringLength", ast.ID("name")))),
	)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	expectInt(t, val, 5)
	if out.String() != "hello eagle\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestGlobalsSurviveAcrossEvaluations(t *testing.T) {
	globals := runtime.NewStore()
	interp := New()
	unit := lowerMembers(t, statements(ast.Var("x", ast.Int(41)))...)
	if _, err := interp.Evaluate(unit, globals); err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}
	if globals.Len() != 1 {
		t.Fatalf("expected one global, got %d", globals.Len())
	}
}
