package ast

import "strconv"

// Unit and declaration helpers.

func Unit(members ...Member) *CompilationUnit {
	return NewCompilationUnit(members)
}

// Script wraps statements as global statements of a single unit.
func Script(stmts ...Statement) *CompilationUnit {
	members := make([]Member, 0, len(stmts))
	for _, stmt := range stmts {
		members = append(members, Global(stmt))
	}
	return NewCompilationUnit(members)
}

func Global(stmt Statement) *GlobalStatement {
	return NewGlobalStatement(stmt)
}

func Ty(name string) *TypeReference {
	return NewTypeReference(name)
}

func Param(name string, typ string) *Parameter {
	return NewParameter(name, Ty(typ))
}

func Params(params ...*Parameter) []*Parameter {
	return params
}

func Fn(name string, params []*Parameter, returnType *TypeReference, body ...Statement) *FunctionDeclaration {
	return NewFunctionDeclaration(name, params, returnType, Block(body...))
}

func Extern(name string, params []*Parameter, returnType *TypeReference) *ExternDeclaration {
	return NewExternDeclaration(name, params, returnType)
}

func Const(name string, typ *TypeReference, initializer Expression) *ConstDeclaration {
	return NewConstDeclaration(name, typ, initializer)
}

func Alias(name string, target string) *AliasDeclaration {
	return NewAliasDeclaration(name, Ty(target))
}

func Object(name string, members ...MemberDeclaration) *ObjectDeclaration {
	return NewObjectDeclaration(name, nil, members)
}

func ObjectWithBase(name string, bases []string, members ...MemberDeclaration) *ObjectDeclaration {
	refs := make([]*TypeReference, 0, len(bases))
	for _, base := range bases {
		refs = append(refs, Ty(base))
	}
	return NewObjectDeclaration(name, refs, members)
}

func Field(name string, typ string, initializer Expression) *FieldDeclaration {
	var ref *TypeReference
	if typ != "" {
		ref = Ty(typ)
	}
	return NewFieldDeclaration(name, ref, initializer)
}

func Prop(name string, typ string, getter ...Statement) *PropertyDeclaration {
	return NewPropertyDeclaration(name, Ty(typ), Block(getter...), nil)
}

func PropWithSetter(name string, typ string, getter, setter *BlockStatement) *PropertyDeclaration {
	return NewPropertyDeclaration(name, Ty(typ), getter, setter)
}

func Method(name string, params []*Parameter, returnType *TypeReference, body ...Statement) *MethodDeclaration {
	return NewMethodDeclaration(name, params, returnType, Block(body...))
}

func Ctor(params []*Parameter, body ...Statement) *ConstructorDeclaration {
	return NewConstructorDeclaration(params, nil, Block(body...))
}

// DelegatingCtor declares a constructor with a `: this(args)` clause.
func DelegatingCtor(params []*Parameter, args []Expression, body ...Statement) *ConstructorDeclaration {
	return NewConstructorDeclaration(params, NewConstructorInitializer(args), Block(body...))
}

// Statement helpers.

func Block(stmts ...Statement) *BlockStatement {
	if stmts == nil {
		stmts = []Statement{}
	}
	return NewBlockStatement(stmts)
}

func Let(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(true, name, nil, initializer)
}

func Var(name string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(false, name, nil, initializer)
}

func VarTyped(name string, typ string, initializer Expression) *VariableDeclaration {
	return NewVariableDeclaration(false, name, Ty(typ), initializer)
}

func If(condition Expression, then Statement) *IfStatement {
	return NewIfStatement(condition, then, nil)
}

func IfElse(condition Expression, then, els Statement) *IfStatement {
	return NewIfStatement(condition, then, els)
}

func While(condition Expression, body ...Statement) *WhileStatement {
	return NewWhileStatement(condition, Block(body...))
}

func For(variable string, lower, upper Expression, body ...Statement) *ForStatement {
	return NewForStatement(variable, lower, upper, Block(body...))
}

func Loop(body ...Statement) *LoopStatement {
	return NewLoopStatement(Block(body...))
}

func Break() *BreakStatement {
	return NewBreakStatement()
}

func Continue() *ContinueStatement {
	return NewContinueStatement()
}

func Ret(value Expression) *ReturnStatement {
	return NewReturnStatement(value)
}

func Expr(expr Expression) *ExpressionStatement {
	return NewExpressionStatement(expr)
}

// Expression helpers.

func Num(text string) *NumberLiteral {
	return NewNumberLiteral(text)
}

func Int(value int64) *NumberLiteral {
	return NewNumberLiteral(strconv.FormatInt(value, 10))
}

func Bool(value bool) *BooleanLiteral {
	return NewBooleanLiteral(value)
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value)
}

func ID(name string) *NameExpression {
	return NewNameExpression(name)
}

func Un(operator string, operand Expression) *UnaryExpression {
	return NewUnaryExpression(operator, operand)
}

func Bin(operator string, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(operator, left, right)
}

func Assign(target, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(target, value)
}

func AssignName(name string, value Expression) *AssignmentExpression {
	return NewAssignmentExpression(ID(name), value)
}

func CallExpr(target Expression, args ...Expression) *InvokeExpression {
	if args == nil {
		args = []Expression{}
	}
	return NewInvokeExpression(target, args)
}

func Call(name string, args ...Expression) *InvokeExpression {
	return CallExpr(ID(name), args...)
}

func Access(target Expression, member string) *MemberAccessExpression {
	return NewMemberAccessExpression(target, member)
}

// CallMember builds target.member(args...).
func CallMember(target Expression, member string, args ...Expression) *InvokeExpression {
	return CallExpr(Access(target, member), args...)
}

func Cast(typ string, expr Expression) *CastExpression {
	return NewCastExpression(Ty(typ), expr)
}

func This() *ThisExpression {
	return NewThisExpression()
}

func New(typ string, args ...Expression) *NewExpression {
	if args == nil {
		args = []Expression{}
	}
	return NewNewExpression(Ty(typ), args)
}
