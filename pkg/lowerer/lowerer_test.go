package lowerer

import (
	"testing"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/symbols"
)

func bindUnit(t *testing.T, members ...ast.Member) *binder.Unit {
	t.Helper()
	scope, err := binder.BindGlobalScope(nil, []*ast.CompilationUnit{ast.Unit(members...)})
	if err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	if len(scope.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", scope.Diagnostics)
	}
	return scope.Unit
}

func bindScript(t *testing.T, stmts ...ast.Statement) *binder.Unit {
	t.Helper()
	members := make([]ast.Member, 0, len(stmts))
	for _, stmt := range stmts {
		members = append(members, ast.Global(stmt))
	}
	return bindUnit(t, members...)
}

func kinds(block *binder.BlockStatement) []binder.NodeKind {
	out := make([]binder.NodeKind, 0, len(block.Statements))
	for _, stmt := range block.Statements {
		out = append(out, stmt.Kind())
	}
	return out
}

func expectShape(t *testing.T, block *binder.BlockStatement, want ...binder.NodeKind) {
	t.Helper()
	got := kinds(block)
	if len(got) != len(want) {
		t.Fatalf("expected shape %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected shape %v, got %v", want, got)
		}
	}
	if !IsFlat(block) {
		t.Fatalf("lowered block is not flat")
	}
}

func labelAt(t *testing.T, block *binder.BlockStatement, i int) *symbols.LabelSymbol {
	t.Helper()
	switch s := block.Statements[i].(type) {
	case *binder.LabelStatement:
		return s.Label
	case *binder.GotoStatement:
		return s.Label
	case *binder.ConditionalGotoStatement:
		return s.Label
	default:
		t.Fatalf("statement %d is %s, not a jump or label", i, s.Kind())
		return nil
	}
}

const (
	decl  = binder.KindVariableDeclaration
	expr  = binder.KindExpressionStatement
	label = binder.KindLabelStatement
	jump  = binder.KindGotoStatement
	cjump = binder.KindConditionalGotoStatement
)

func TestLowerIf(t *testing.T) {
	unit := bindScript(t,
		ast.Var("x", ast.Int(1)),
		ast.If(ast.Bin("<", ast.ID("x"), ast.Int(2)), ast.Block(ast.Expr(ast.AssignName("x", ast.Int(5))))),
	)
	block := Lower(unit.Body)
	expectShape(t, block, decl, cjump, expr, label)
	if block.Statements[1].(*binder.ConditionalGotoStatement).JumpIfTrue {
		t.Fatalf("if jumps past the body when the condition is false")
	}
	if labelAt(t, block, 1) != labelAt(t, block, 3) {
		t.Fatalf("if must jump to its end label")
	}
}

func TestLowerIfElse(t *testing.T) {
	unit := bindScript(t,
		ast.Var("x", ast.Int(1)),
		ast.IfElse(ast.Bool(false), ast.Expr(ast.AssignName("x", ast.Int(2))), ast.Expr(ast.AssignName("x", ast.Int(3)))),
	)
	block := Lower(unit.Body)
	expectShape(t, block, decl, cjump, expr, jump, label, expr, label)
	if labelAt(t, block, 1) != labelAt(t, block, 4) {
		t.Fatalf("false branch must target the else label")
	}
	if labelAt(t, block, 3) != labelAt(t, block, 6) {
		t.Fatalf("then branch must jump to the end label")
	}
}

func TestLowerWhile(t *testing.T) {
	unit := bindScript(t,
		ast.Var("x", ast.Int(0)),
		ast.While(ast.Bin("<", ast.ID("x"), ast.Int(3)), ast.Expr(ast.AssignName("x", ast.Bin("+", ast.ID("x"), ast.Int(1))))),
	)
	loop := unit.Body.Statements[1].(*binder.WhileStatement)
	block := Lower(unit.Body)
	expectShape(t, block, decl, jump, label, expr, label, cjump, label)
	if labelAt(t, block, 1) != loop.Continue || labelAt(t, block, 4) != loop.Continue {
		t.Fatalf("while must test its condition at the continue label first")
	}
	if labelAt(t, block, 5) != labelAt(t, block, 2) || !block.Statements[5].(*binder.ConditionalGotoStatement).JumpIfTrue {
		t.Fatalf("while must jump back to the body while the condition holds")
	}
	if labelAt(t, block, 6) != loop.Break {
		t.Fatalf("while must end at its break label")
	}
}

func TestLowerFor(t *testing.T) {
	unit := bindScript(t,
		ast.Var("sum", ast.Int(0)),
		ast.For("i", ast.Int(1), ast.Int(3),
			ast.If(ast.Bin("==", ast.ID("i"), ast.Int(2)), ast.Continue()),
			ast.Expr(ast.AssignName("sum", ast.Bin("+", ast.ID("sum"), ast.ID("i"))))),
	)
	loop := unit.Body.Statements[1].(*binder.ForStatement)
	block := Lower(unit.Body)
	expectShape(t, block,
		decl,                    // sum
		decl, decl,              // i, upperBound
		jump, label,             // goto continue, body:
		cjump, jump, label,      // if i == 2 continue
		expr,                    // sum = sum + i
		label, expr,             // continue: i = i + 1
		label, cjump, label,     // while condition, break:
	)
	upper := block.Statements[2].(*binder.VariableDeclaration)
	if !upper.Symbol.ReadOnly() || upper.Symbol.Name() != "upperBound" {
		t.Fatalf("expected read-only upper bound, got %s", upper.Symbol.Name())
	}
	if labelAt(t, block, 6) != loop.Continue || labelAt(t, block, 9) != loop.Continue {
		t.Fatalf("continue must jump to the increment")
	}
	if labelAt(t, block, 3) == loop.Continue {
		t.Fatalf("the rewritten while needs a fresh continue label")
	}
	if labelAt(t, block, 13) != loop.Break {
		t.Fatalf("for must end at its break label")
	}
}

func TestLowerLoop(t *testing.T) {
	unit := bindScript(t, ast.Loop(ast.Break()))
	loop := unit.Body.Statements[0].(*binder.LoopStatement)
	block := Lower(unit.Body)
	expectShape(t, block, label, jump, jump, label)
	if labelAt(t, block, 0) != loop.Continue || labelAt(t, block, 2) != loop.Continue {
		t.Fatalf("loop must jump back to its start")
	}
	if labelAt(t, block, 1) != loop.Break || labelAt(t, block, 3) != loop.Break {
		t.Fatalf("break must target the label after the loop")
	}
}

func TestLowerReturn(t *testing.T) {
	unit := bindUnit(t,
		ast.Fn("pick", ast.Params(ast.Param("c", "bool")), ast.Ty("int"),
			ast.If(ast.ID("c"), ast.Ret(ast.Int(1))),
			ast.Expr(ast.Int(2))),
	)
	fn := LowerUnit(unit).Declarations[0].(*binder.FunctionDeclaration)
	expectShape(t, fn.Body, cjump, expr, jump, label, expr, label)
	if labelAt(t, fn.Body, 2) != labelAt(t, fn.Body, 5) {
		t.Fatalf("return must jump to the end of the body")
	}
}

func TestFlatInputIsUnchanged(t *testing.T) {
	unit := bindScript(t,
		ast.Var("x", ast.Int(1)),
		ast.If(ast.Bool(true), ast.Expr(ast.ID("x"))),
	)
	first := Lower(unit.Body)
	second := Lower(first)
	if len(first.Statements) != len(second.Statements) {
		t.Fatalf("expected %d statements, got %d", len(first.Statements), len(second.Statements))
	}
	for i := range first.Statements {
		if first.Statements[i] != second.Statements[i] {
			t.Fatalf("statement %d changed on re-lowering", i)
		}
	}
}

func TestLabelsAreUniqueAcrossPasses(t *testing.T) {
	unit := bindScript(t, ast.If(ast.Bool(true), ast.Expr(ast.Int(1))))
	a := Lower(unit.Body)
	b := Lower(unit.Body)
	if labelAt(t, a, 2) == labelAt(t, b, 2) || labelAt(t, a, 2).Name() == labelAt(t, b, 2).Name() {
		t.Fatalf("lowering passes must not share labels")
	}
}

func TestIsFlatRejectsStructuredStatements(t *testing.T) {
	unit := bindScript(t, ast.Loop(ast.Break()))
	if IsFlat(unit.Body) {
		t.Fatalf("an unlowered loop is not flat")
	}
}

func TestLowerStruct(t *testing.T) {
	unit := bindUnit(t,
		ast.Object("A",
			ast.Field("b", "int", ast.Int(100)),
			ast.Field("c", "int", nil),
			ast.Prop("P", "int", ast.Expr(ast.ID("b"))),
		),
		ast.Object("B",
			ast.Field("v", "int", ast.Int(7)),
			ast.Ctor(nil),
			ast.DelegatingCtor(ast.Params(ast.Param("x", "int")), nil, ast.Expr(ast.AssignName("v", ast.ID("x")))),
		),
		ast.Global(ast.Expr(ast.Access(ast.Call("A"), "P"))),
	)
	lowered := LowerUnit(unit)

	a := lowered.Declarations[0].(*binder.StructDeclaration)
	if a.DefaultConstructor != nil {
		t.Fatalf("default constructor must be materialized")
	}
	var ctor *binder.ConstructorDeclaration
	var getter *binder.MethodDeclaration
	for _, member := range a.Members {
		switch m := member.(type) {
		case *binder.FieldDeclaration:
			if m.Initializer != nil {
				t.Fatalf("field initializers must be stripped")
			}
		case *binder.PropertyDeclaration:
			t.Fatalf("properties must become methods")
		case *binder.MethodDeclaration:
			getter = m
		case *binder.ConstructorDeclaration:
			ctor = m
		}
	}
	if getter == nil || getter.Symbol.Name() != "<>Get_P" {
		t.Fatalf("expected getter method, got %#v", getter)
	}
	if ctor == nil {
		t.Fatalf("expected synthesized constructor")
	}
	expectShape(t, ctor.Body, expr)
	assign := ctor.Body.Statements[0].(*binder.ExpressionStatement).Expression.(*binder.AssignmentExpression)
	if field := assign.Target.(*binder.FieldExpression); field.Field.Name() != "b" {
		t.Fatalf("expected b initializer, got %s", field.Field.Name())
	}

	b := lowered.Declarations[1].(*binder.StructDeclaration)
	plain := b.Members[1].(*binder.ConstructorDeclaration)
	expectShape(t, plain.Body, expr)
	delegating := b.Members[2].(*binder.ConstructorDeclaration)
	if delegating.Initializer != nil {
		t.Fatalf("delegation must move into the body")
	}
	expectShape(t, delegating.Body, expr, expr)
	if _, ok := delegating.Body.Statements[0].(*binder.ExpressionStatement).Expression.(*binder.DelegatingConstructorCallExpression); !ok {
		t.Fatalf("delegating constructor must start with the delegation call")
	}

	call, ok := lowered.Body.Statements[0].(*binder.ExpressionStatement).Expression.(*binder.MethodCallExpression)
	if !ok || call.Method.Name() != "<>Get_P" {
		t.Fatalf("property read must become a getter call")
	}
}
