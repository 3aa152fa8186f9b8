package binder

import (
	"fmt"

	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// NodeKind identifies a bound node.
type NodeKind int

const (
	KindFunctionDeclaration NodeKind = iota
	KindExternDeclaration
	KindConstDeclaration
	KindAliasDeclaration
	KindStructDeclaration

	KindFieldDeclaration
	KindPropertyDeclaration
	KindMethodDeclaration
	KindConstructorDeclaration

	KindBlockStatement
	KindVariableDeclaration
	KindExpressionStatement
	KindLabelStatement
	KindGotoStatement
	KindConditionalGotoStatement
	KindIfStatement
	KindWhileStatement
	KindForStatement
	KindLoopStatement
	KindReturnStatement

	KindLiteralExpression
	KindUnaryExpression
	KindBinaryExpression
	KindAssignmentExpression
	KindVariableExpression
	KindParameterExpression
	KindFieldExpression
	KindPropertyExpression
	KindConstExpression
	KindThisExpression
	KindConversionExpression
	KindFunctionCallExpression
	KindMethodCallExpression
	KindConstructorCallExpression
	KindDelegatingConstructorCallExpression
	KindNewExpression
	KindTypeExpression
	KindErrorExpression
)

var kindNames = [...]string{
	"FunctionDeclaration", "ExternDeclaration", "ConstDeclaration", "AliasDeclaration", "StructDeclaration",
	"FieldDeclaration", "PropertyDeclaration", "MethodDeclaration", "ConstructorDeclaration",
	"BlockStatement", "VariableDeclaration", "ExpressionStatement", "LabelStatement", "GotoStatement",
	"ConditionalGotoStatement", "IfStatement", "WhileStatement", "ForStatement", "LoopStatement", "ReturnStatement",
	"LiteralExpression", "UnaryExpression", "BinaryExpression", "AssignmentExpression", "VariableExpression",
	"ParameterExpression", "FieldExpression", "PropertyExpression", "ConstExpression", "ThisExpression",
	"ConversionExpression", "FunctionCallExpression", "MethodCallExpression", "ConstructorCallExpression",
	"DelegatingConstructorCallExpression", "NewExpression", "TypeExpression", "ErrorExpression",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

type Node interface {
	Kind() NodeKind
}

// Marker interfaces.

type Declaration interface {
	Node
	declarationNode()
}

type declarationMarker struct{}

func (declarationMarker) declarationNode() {}

type MemberDeclaration interface {
	Node
	memberDeclarationNode()
}

type memberDeclarationMarker struct{}

func (memberDeclarationMarker) memberDeclarationNode() {}

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

type Expression interface {
	Node
	Type() *symbols.TypeSymbol
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Unit is the bound form of every compilation unit of one submission.
type Unit struct {
	Declarations []Declaration
	Body         *BlockStatement
}

//-----------------------------------------------------------------------------
// Declarations
//-----------------------------------------------------------------------------

type FunctionDeclaration struct {
	declarationMarker
	Symbol *symbols.FunctionSymbol
	Body   *BlockStatement
}

func (*FunctionDeclaration) Kind() NodeKind { return KindFunctionDeclaration }

type ExternDeclaration struct {
	declarationMarker
	Symbol *symbols.FunctionSymbol
}

func (*ExternDeclaration) Kind() NodeKind { return KindExternDeclaration }

// ConstDeclaration carries the value folded at bind time.
type ConstDeclaration struct {
	declarationMarker
	Symbol *symbols.ConstSymbol
	Value  runtime.Value
}

func (*ConstDeclaration) Kind() NodeKind { return KindConstDeclaration }

type AliasDeclaration struct {
	declarationMarker
	Symbol *symbols.AliasSymbol
}

func (*AliasDeclaration) Kind() NodeKind { return KindAliasDeclaration }

// StructDeclaration lists the bound members of a struct. DefaultConstructor is
// set when no constructor was declared; lowering gives it an empty body.
type StructDeclaration struct {
	declarationMarker
	Type               *symbols.TypeSymbol
	Members            []MemberDeclaration
	DefaultConstructor *symbols.ConstructorSymbol
}

func (*StructDeclaration) Kind() NodeKind { return KindStructDeclaration }

type FieldDeclaration struct {
	memberDeclarationMarker
	Symbol      *symbols.FieldSymbol
	Initializer Expression
}

func (*FieldDeclaration) Kind() NodeKind { return KindFieldDeclaration }

type PropertyDeclaration struct {
	memberDeclarationMarker
	Symbol *symbols.PropertySymbol
	Getter *BlockStatement
	Setter *BlockStatement
}

func (*PropertyDeclaration) Kind() NodeKind { return KindPropertyDeclaration }

type MethodDeclaration struct {
	memberDeclarationMarker
	Symbol *symbols.MethodSymbol
	Body   *BlockStatement
}

func (*MethodDeclaration) Kind() NodeKind { return KindMethodDeclaration }

// ConstructorDeclaration holds a constructor body. Initializer is the
// `: this(args)` delegation, if any.
type ConstructorDeclaration struct {
	memberDeclarationMarker
	Symbol      *symbols.ConstructorSymbol
	Initializer *DelegatingConstructorCallExpression
	Body        *BlockStatement
}

func (*ConstructorDeclaration) Kind() NodeKind { return KindConstructorDeclaration }

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

type BlockStatement struct {
	statementMarker
	Statements []Statement
}

func (*BlockStatement) Kind() NodeKind { return KindBlockStatement }

func NewBlock(stmts ...Statement) *BlockStatement {
	if stmts == nil {
		stmts = []Statement{}
	}
	return &BlockStatement{Statements: stmts}
}

type VariableDeclaration struct {
	statementMarker
	Symbol      *symbols.VariableSymbol
	Initializer Expression
}

func (*VariableDeclaration) Kind() NodeKind { return KindVariableDeclaration }

type ExpressionStatement struct {
	statementMarker
	Expression Expression
}

func (*ExpressionStatement) Kind() NodeKind { return KindExpressionStatement }

type LabelStatement struct {
	statementMarker
	Label *symbols.LabelSymbol
}

func (*LabelStatement) Kind() NodeKind { return KindLabelStatement }

type GotoStatement struct {
	statementMarker
	Label *symbols.LabelSymbol
}

func (*GotoStatement) Kind() NodeKind { return KindGotoStatement }

// ConditionalGotoStatement jumps when Condition evaluates to JumpIfTrue.
type ConditionalGotoStatement struct {
	statementMarker
	Label      *symbols.LabelSymbol
	Condition  Expression
	JumpIfTrue bool
}

func (*ConditionalGotoStatement) Kind() NodeKind { return KindConditionalGotoStatement }

type IfStatement struct {
	statementMarker
	Condition Expression
	Then      Statement
	Else      Statement
}

func (*IfStatement) Kind() NodeKind { return KindIfStatement }

// LoopLabels are the jump targets of break and continue inside a loop body.
type LoopLabels struct {
	Break    *symbols.LabelSymbol
	Continue *symbols.LabelSymbol
}

type WhileStatement struct {
	statementMarker
	LoopLabels
	Condition Expression
	Body      Statement
}

func (*WhileStatement) Kind() NodeKind { return KindWhileStatement }

type ForStatement struct {
	statementMarker
	LoopLabels
	Variable *symbols.VariableSymbol
	Lower    Expression
	Upper    Expression
	Body     Statement
}

func (*ForStatement) Kind() NodeKind { return KindForStatement }

type LoopStatement struct {
	statementMarker
	LoopLabels
	Body Statement
}

func (*LoopStatement) Kind() NodeKind { return KindLoopStatement }

type ReturnStatement struct {
	statementMarker
	Value Expression
}

func (*ReturnStatement) Kind() NodeKind { return KindReturnStatement }

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

type LiteralExpression struct {
	expressionMarker
	Value runtime.Value
	typ   *symbols.TypeSymbol
}

func NewLiteral(value runtime.Value, typ *symbols.TypeSymbol) *LiteralExpression {
	return &LiteralExpression{Value: value, typ: typ}
}

func (*LiteralExpression) Kind() NodeKind              { return KindLiteralExpression }
func (e *LiteralExpression) Type() *symbols.TypeSymbol { return e.typ }

type UnaryExpression struct {
	expressionMarker
	Op      *UnaryOperator
	Operand Expression
}

func (*UnaryExpression) Kind() NodeKind              { return KindUnaryExpression }
func (e *UnaryExpression) Type() *symbols.TypeSymbol { return e.Op.Result }

type BinaryExpression struct {
	expressionMarker
	Left  Expression
	Op    *BinaryOperator
	Right Expression
}

func (*BinaryExpression) Kind() NodeKind              { return KindBinaryExpression }
func (e *BinaryExpression) Type() *symbols.TypeSymbol { return e.Op.Result }

type AssignmentExpression struct {
	expressionMarker
	Target Expression
	Value  Expression
}

func (*AssignmentExpression) Kind() NodeKind              { return KindAssignmentExpression }
func (e *AssignmentExpression) Type() *symbols.TypeSymbol { return e.Target.Type() }

type VariableExpression struct {
	expressionMarker
	Symbol *symbols.VariableSymbol
}

func (*VariableExpression) Kind() NodeKind              { return KindVariableExpression }
func (e *VariableExpression) Type() *symbols.TypeSymbol { return e.Symbol.Type() }

type ParameterExpression struct {
	expressionMarker
	Symbol *symbols.ParameterSymbol
}

func (*ParameterExpression) Kind() NodeKind              { return KindParameterExpression }
func (e *ParameterExpression) Type() *symbols.TypeSymbol { return e.Symbol.Type() }

type FieldExpression struct {
	expressionMarker
	Target Expression
	Field  *symbols.FieldSymbol
}

func (*FieldExpression) Kind() NodeKind              { return KindFieldExpression }
func (e *FieldExpression) Type() *symbols.TypeSymbol { return e.Field.Type() }

type PropertyExpression struct {
	expressionMarker
	Target   Expression
	Property *symbols.PropertySymbol
}

func (*PropertyExpression) Kind() NodeKind              { return KindPropertyExpression }
func (e *PropertyExpression) Type() *symbols.TypeSymbol { return e.Property.Type() }

type ConstExpression struct {
	expressionMarker
	Symbol *symbols.ConstSymbol
	Value  runtime.Value
}

func (*ConstExpression) Kind() NodeKind              { return KindConstExpression }
func (e *ConstExpression) Type() *symbols.TypeSymbol { return e.Symbol.Type() }

type ThisExpression struct {
	expressionMarker
	typ *symbols.TypeSymbol
}

func NewThis(typ *symbols.TypeSymbol) *ThisExpression { return &ThisExpression{typ: typ} }

func (*ThisExpression) Kind() NodeKind              { return KindThisExpression }
func (e *ThisExpression) Type() *symbols.TypeSymbol { return e.typ }

type ConversionExpression struct {
	expressionMarker
	Expression Expression
	typ        *symbols.TypeSymbol
}

func NewConversion(typ *symbols.TypeSymbol, expr Expression) *ConversionExpression {
	return &ConversionExpression{Expression: expr, typ: typ}
}

func (*ConversionExpression) Kind() NodeKind              { return KindConversionExpression }
func (e *ConversionExpression) Type() *symbols.TypeSymbol { return e.typ }

type FunctionCallExpression struct {
	expressionMarker
	Function  *symbols.FunctionSymbol
	Arguments []Expression
}

func (*FunctionCallExpression) Kind() NodeKind { return KindFunctionCallExpression }
func (e *FunctionCallExpression) Type() *symbols.TypeSymbol {
	return returnTypeOf(e.Function.ReturnType())
}

type MethodCallExpression struct {
	expressionMarker
	Target    Expression
	Method    *symbols.MethodSymbol
	Arguments []Expression
}

func (*MethodCallExpression) Kind() NodeKind { return KindMethodCallExpression }
func (e *MethodCallExpression) Type() *symbols.TypeSymbol {
	return returnTypeOf(e.Method.ReturnType())
}

type ConstructorCallExpression struct {
	expressionMarker
	Constructor *symbols.ConstructorSymbol
	Arguments   []Expression
}

func (*ConstructorCallExpression) Kind() NodeKind { return KindConstructorCallExpression }
func (e *ConstructorCallExpression) Type() *symbols.TypeSymbol {
	return e.Constructor.DeclaringType()
}

// DelegatingConstructorCallExpression runs another constructor of the same
// type on the current receiver.
type DelegatingConstructorCallExpression struct {
	expressionMarker
	Constructor *symbols.ConstructorSymbol
	Arguments   []Expression
}

func (*DelegatingConstructorCallExpression) Kind() NodeKind {
	return KindDelegatingConstructorCallExpression
}
func (*DelegatingConstructorCallExpression) Type() *symbols.TypeSymbol { return symbols.Void }

type NewExpression struct {
	expressionMarker
	Constructor *symbols.ConstructorSymbol
	Arguments   []Expression
}

func (*NewExpression) Kind() NodeKind              { return KindNewExpression }
func (e *NewExpression) Type() *symbols.TypeSymbol { return e.Constructor.DeclaringType() }

// TypeExpression is a type name in expression position.
type TypeExpression struct {
	expressionMarker
	typ *symbols.TypeSymbol
}

func (*TypeExpression) Kind() NodeKind              { return KindTypeExpression }
func (e *TypeExpression) Type() *symbols.TypeSymbol { return e.typ }

// ErrorExpression replaces an expression that failed to bind.
type ErrorExpression struct {
	expressionMarker
}

func (*ErrorExpression) Kind() NodeKind            { return KindErrorExpression }
func (*ErrorExpression) Type() *symbols.TypeSymbol { return symbols.Error }

func returnTypeOf(t *symbols.TypeSymbol) *symbols.TypeSymbol {
	if t == nil {
		return symbols.Void
	}
	return t
}
