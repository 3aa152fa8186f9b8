package binder

import (
	"bytes"
	"strings"
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func bind(t *testing.T, members ...ast.Member) *GlobalScope {
	t.Helper()
	scope, err := BindGlobalScope(nil, []*ast.CompilationUnit{ast.Unit(members...)})
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	return scope
}

func script(stmts ...ast.Statement) []ast.Member {
	members := make([]ast.Member, 0, len(stmts))
	for _, stmt := range stmts {
		members = append(members, ast.Global(stmt))
	}
	return members
}

func expectKinds(t *testing.T, scope *GlobalScope, kinds ...diagnostics.Kind) {
	t.Helper()
	if len(scope.Diagnostics) != len(kinds) {
		t.Fatalf("expected %d diagnostics, got %v", len(kinds), scope.Diagnostics)
	}
	for i, kind := range kinds {
		if scope.Diagnostics[i].Kind != kind {
			t.Fatalf("diagnostic %d: expected %s, got %s (%s)", i, kind, scope.Diagnostics[i].Kind, scope.Diagnostics[i].Message)
		}
	}
}

func lastExpression(t *testing.T, scope *GlobalScope) Expression {
	t.Helper()
	stmts := scope.Unit.Body.Statements
	if len(stmts) == 0 {
		t.Fatalf("no global statements")
	}
	stmt, ok := stmts[len(stmts)-1].(*ExpressionStatement)
	if !ok {
		t.Fatalf("expected expression statement, got %T", stmts[len(stmts)-1])
	}
	return stmt.Expression
}

func TestBindAddition(t *testing.T) {
	scope := bind(t, script(ast.Expr(ast.Bin("+", ast.Int(49), ast.Int(51))))...)
	expectKinds(t, scope)
	bin, ok := lastExpression(t, scope).(*BinaryExpression)
	if !ok || bin.Type() != symbols.Int || bin.Op.Op != runtime.OpAdd {
		t.Fatalf("unexpected bound expression %#v", lastExpression(t, scope))
	}
}

func TestBindMixedIntegerWidthsInsertsConversion(t *testing.T) {
	scope := bind(t, script(ast.Expr(ast.Bin("+", ast.Cast("Int8", ast.Int(1)), ast.Cast("Int64", ast.Int(2)))))...)
	expectKinds(t, scope)
	bin := lastExpression(t, scope).(*BinaryExpression)
	conv, ok := bin.Left.(*ConversionExpression)
	if !ok || conv.Type() != symbols.Int64 {
		t.Fatalf("expected implicit conversion of the left operand, got %#v", bin.Left)
	}
	if bin.Type() != symbols.Int64 {
		t.Fatalf("expected Int64 result, got %s", bin.Type())
	}
}

func TestUndefinedNameReportedOnce(t *testing.T) {
	scope := bind(t, script(
		ast.Expr(ast.Bin("*", ast.Bin("+", ast.ID("x"), ast.Int(1)), ast.Int(2))),
	)...)
	expectKinds(t, scope, diagnostics.UndefinedSymbol)
	if scope.Diagnostics[0].Message != "Symbol 'x' doesn't exist." {
		t.Fatalf("unexpected message %q", scope.Diagnostics[0].Message)
	}
	if _, ok := lastExpression(t, scope).(*ErrorExpression); !ok {
		t.Fatalf("expected error expression")
	}
}

func TestUndefinedOperator(t *testing.T) {
	scope := bind(t, script(ast.Expr(ast.Bin("+", ast.Bool(true), ast.Int(1))))...)
	expectKinds(t, scope, diagnostics.UndefinedOperator)
	want := "Binary operator '+' is not defined for types 'Boolean' and 'Int'."
	if scope.Diagnostics[0].Message != want {
		t.Fatalf("unexpected message %q", scope.Diagnostics[0].Message)
	}

	scope = bind(t, script(ast.Expr(ast.Un("-", ast.Cast("UInt8", ast.Int(1)))))...)
	expectKinds(t, scope, diagnostics.UndefinedOperator)
}

func TestReadOnlyAssignment(t *testing.T) {
	scope := bind(t, script(
		ast.Let("x", ast.Int(1)),
		ast.Expr(ast.AssignName("x", ast.Int(2))),
	)...)
	expectKinds(t, scope, diagnostics.ReadOnlyAssignment)
}

func TestExplicitConversionNeedsCast(t *testing.T) {
	scope := bind(t, script(ast.VarTyped("x", "Int8", ast.Int(1)))...)
	expectKinds(t, scope, diagnostics.CannotConvert)
	if !strings.Contains(scope.Diagnostics[0].Message, "explicit conversion exists") {
		t.Fatalf("unexpected message %q", scope.Diagnostics[0].Message)
	}

	scope = bind(t, script(ast.VarTyped("x", "Int8", ast.Cast("Int8", ast.Int(1))))...)
	expectKinds(t, scope)

	scope = bind(t, script(ast.VarTyped("x", "Boolean", ast.Int(1)))...)
	expectKinds(t, scope, diagnostics.CannotConvert)
}

func TestImplicitConversionOnDeclaration(t *testing.T) {
	scope := bind(t, script(ast.VarTyped("x", "Float64", ast.Int(1)))...)
	expectKinds(t, scope)
	decl := scope.Unit.Body.Statements[0].(*VariableDeclaration)
	if _, ok := decl.Initializer.(*ConversionExpression); !ok {
		t.Fatalf("expected conversion, got %#v", decl.Initializer)
	}
	if !decl.Symbol.Global() {
		t.Fatalf("top-level variables live in the global store")
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	scope := bind(t, script(ast.Break(), ast.While(ast.Bool(true), ast.Break(), ast.Continue()))...)
	expectKinds(t, scope, diagnostics.InvalidBreakOrContinue)

	loop := scope.Unit.Body.Statements[1].(*WhileStatement)
	body := loop.Body.(*BlockStatement)
	brk := body.Statements[0].(*GotoStatement)
	cont := body.Statements[1].(*GotoStatement)
	if brk.Label != loop.Break || cont.Label != loop.Continue {
		t.Fatalf("break/continue must target the loop labels")
	}
}

func TestThisOutsideStruct(t *testing.T) {
	scope := bind(t, script(ast.Expr(ast.This()))...)
	expectKinds(t, scope, diagnostics.InvalidThis)
}

func TestReturnOutsideFunction(t *testing.T) {
	scope := bind(t, script(ast.Ret(ast.Int(1)))...)
	expectKinds(t, scope, diagnostics.InvalidReturn)
}

func TestAlreadyDeclared(t *testing.T) {
	scope := bind(t, script(ast.Var("x", ast.Int(1)), ast.Var("x", ast.Int(2)))...)
	expectKinds(t, scope, diagnostics.AlreadyDeclared)
}

func TestStructBinding(t *testing.T) {
	scope := bind(t,
		ast.Object("A",
			ast.Field("b", "int", ast.Int(100)),
			ast.Field("c", "", ast.Str("x")),
			ast.Prop("P", "int", ast.Expr(ast.ID("b"))),
			ast.Method("GetValue", nil, nil, ast.Expr(ast.Call("Twice", ast.ID("b")))),
			ast.Method("Twice", ast.Params(ast.Param("v", "int")), ast.Ty("int"), ast.Expr(ast.Bin("*", ast.ID("v"), ast.Int(2)))),
		),
		ast.Global(ast.Expr(ast.Access(ast.Call("A"), "P"))),
	)
	expectKinds(t, scope)

	decl := scope.Unit.Declarations[0].(*StructDeclaration)
	if !decl.Type.Locked() {
		t.Fatalf("struct types are locked after binding")
	}
	if decl.DefaultConstructor == nil {
		t.Fatalf("expected a reserved default constructor")
	}
	fields := decl.Type.Fields()
	if len(fields) != 2 || fields[1].Type() != symbols.String || fields[1].Index() != 1 {
		t.Fatalf("unexpected fields %v", fields)
	}

	method := decl.Members[3].(*MethodDeclaration)
	call, ok := method.Body.Statements[0].(*ExpressionStatement).Expression.(*MethodCallExpression)
	if !ok {
		t.Fatalf("expected unqualified method call on this")
	}
	if _, ok := call.Target.(*ThisExpression); !ok {
		t.Fatalf("expected implicit this receiver, got %#v", call.Target)
	}
	if _, ok := call.Arguments[0].(*FieldExpression); !ok {
		t.Fatalf("expected unqualified field to bind on this, got %#v", call.Arguments[0])
	}

	prop, ok := lastExpression(t, scope).(*PropertyExpression)
	if !ok {
		t.Fatalf("expected property expression, got %#v", lastExpression(t, scope))
	}
	if _, ok := prop.Target.(*ConstructorCallExpression); !ok {
		t.Fatalf("calling a type name binds a constructor call, got %#v", prop.Target)
	}
}

func TestMissingMemberAndArity(t *testing.T) {
	scope := bind(t,
		ast.Object("A", ast.Ctor(ast.Params(ast.Param("v", "int")))),
		ast.Global(ast.Expr(ast.Access(ast.Call("A", ast.Int(1)), "missing"))),
		ast.Global(ast.Expr(ast.Call("A"))),
	)
	expectKinds(t, scope, diagnostics.UndefinedSymbol, diagnostics.WrongArgumentCount)
	if scope.Diagnostics[0].Message != "Type 'A' doesn't have a member called 'missing'." {
		t.Fatalf("unexpected message %q", scope.Diagnostics[0].Message)
	}
}

func TestConstructorResolutionByArity(t *testing.T) {
	scope := bind(t,
		ast.Object("A",
			ast.Field("b", "int", nil),
			ast.Ctor(nil, ast.Expr(ast.AssignName("b", ast.Int(1)))),
			ast.DelegatingCtor(ast.Params(ast.Param("v", "int")), nil),
		),
		ast.Global(ast.Expr(ast.New("A", ast.Int(3)))),
	)
	expectKinds(t, scope)
	decl := scope.Unit.Declarations[0].(*StructDeclaration)
	delegating := decl.Members[2].(*ConstructorDeclaration)
	if delegating.Initializer == nil || len(delegating.Initializer.Constructor.Parameters()) != 0 {
		t.Fatalf("expected delegation to the parameterless constructor")
	}
	created := lastExpression(t, scope).(*NewExpression)
	if len(created.Constructor.Parameters()) != 1 {
		t.Fatalf("expected the one-argument constructor")
	}
}

func TestFunctionCalls(t *testing.T) {
	scope := bind(t,
		ast.Fn("add", ast.Params(ast.Param("a", "int"), ast.Param("b", "int")), ast.Ty("int"),
			ast.Expr(ast.Bin("+", ast.ID("a"), ast.ID("b")))),
		ast.Global(ast.Expr(ast.Call("add", ast.Int(1)))),
		ast.Global(ast.Expr(ast.Call("add", ast.Int(1), ast.Cast("Int8", ast.Int(2))))),
		ast.Global(ast.Let("v", ast.Int(1))),
		ast.Global(ast.Expr(ast.Call("v"))),
	)
	expectKinds(t, scope, diagnostics.WrongArgumentCount, diagnostics.NotCallable)
	call := scope.Unit.Body.Statements[1].(*ExpressionStatement).Expression.(*FunctionCallExpression)
	if _, ok := call.Arguments[1].(*ConversionExpression); !ok {
		t.Fatalf("expected argument conversion to the parameter type")
	}
}

func TestConstFolding(t *testing.T) {
	scope := bind(t,
		ast.Const("Answer", nil, ast.Bin("*", ast.Int(2), ast.Int(21))),
		ast.Const("Next", ast.Ty("Int64"), ast.Bin("+", ast.ID("Answer"), ast.Int(1))),
		ast.Fn("f", nil, ast.Ty("int"), ast.Expr(ast.Int(1))),
		ast.Const("Bad", nil, ast.Call("f")),
	)
	expectKinds(t, scope, diagnostics.NotConstant)
	answer := scope.Unit.Declarations[0].(*ConstDeclaration)
	if v := answer.Value.(runtime.IntegerValue); v.Val != 42 {
		t.Fatalf("expected 42, got %d", v.Val)
	}
	next := scope.Unit.Declarations[1].(*ConstDeclaration)
	if v := next.Value.(runtime.IntegerValue); v.Val != 43 || v.Rep != symbols.RepI64 {
		t.Fatalf("expected Int64 43, got %#v", next.Value)
	}
}

func TestAliasResolvesTarget(t *testing.T) {
	scope := bind(t,
		ast.Alias("Number", "Int32"),
		ast.Global(ast.VarTyped("x", "Number", ast.Cast("Number", ast.Int(3)))),
	)
	expectKinds(t, scope)
	decl := scope.Unit.Body.Statements[0].(*VariableDeclaration)
	if decl.Symbol.Type() != symbols.Int32 {
		t.Fatalf("expected alias to resolve to Int32, got %s", decl.Symbol.Type())
	}
}

func TestBaseTypesAreAssignable(t *testing.T) {
	scope := bind(t,
		ast.Object("Base"),
		ast.ObjectWithBase("Derived", []string{"Base"}),
		ast.Global(ast.VarTyped("b", "Base", ast.Call("Derived"))),
	)
	expectKinds(t, scope)
}

func TestDeepBaseChainIsAssignable(t *testing.T) {
	scope := bind(t,
		ast.Object("A"),
		ast.ObjectWithBase("B", []string{"A"}),
		ast.ObjectWithBase("C", []string{"B"}),
		ast.Global(ast.VarTyped("a", "A", ast.Call("C"))),
	)
	expectKinds(t, scope)
}

func TestBaseTypeCycleIsReported(t *testing.T) {
	scope := bind(t,
		ast.ObjectWithBase("A", []string{"B"}),
		ast.ObjectWithBase("B", []string{"A"}),
		ast.Global(ast.Expr(ast.Call("A"))),
	)
	expectKinds(t, scope, diagnostics.CyclicDependency)

	self := bind(t, ast.ObjectWithBase("A", []string{"A"}))
	expectKinds(t, self, diagnostics.CyclicDependency)

	triangle := bind(t,
		ast.ObjectWithBase("A", []string{"C"}),
		ast.ObjectWithBase("B", []string{"A"}),
		ast.ObjectWithBase("C", []string{"B"}),
	)
	expectKinds(t, triangle, diagnostics.CyclicDependency)
}

func TestPreviousScopeIsVisible(t *testing.T) {
	first := bind(t, script(ast.Var("x", ast.Int(1)))...)
	second, err := BindGlobalScope(first, []*ast.CompilationUnit{ast.Script(ast.Expr(ast.Bin("+", ast.ID("x"), ast.Int(1))))})
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	expectKinds(t, second)
	if second.Previous != first {
		t.Fatalf("expected chained scope")
	}
}

func TestPrintBoundTree(t *testing.T) {
	scope := bind(t, script(
		ast.Var("x", ast.Int(1)),
		ast.If(ast.Bin("<", ast.ID("x"), ast.Int(2)), ast.Block(ast.Expr(ast.AssignName("x", ast.Int(5))))),
	)...)
	var buf bytes.Buffer
	if err := PrintUnit(&buf, scope.Unit); err != nil {
		t.Fatalf("print failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"var x: Int = 1", "if (x < 2)", "x = 5"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
