package ast

type NodeType string

const (
	NodeCompilationUnit        NodeType = "CompilationUnit"
	NodeGlobalStatement        NodeType = "GlobalStatement"
	NodeFunctionDeclaration    NodeType = "FunctionDeclaration"
	NodeExternDeclaration      NodeType = "ExternDeclaration"
	NodeConstDeclaration       NodeType = "ConstDeclaration"
	NodeAliasDeclaration       NodeType = "AliasDeclaration"
	NodeObjectDeclaration      NodeType = "ObjectDeclaration"
	NodeFieldDeclaration       NodeType = "FieldDeclaration"
	NodePropertyDeclaration    NodeType = "PropertyDeclaration"
	NodeMethodDeclaration      NodeType = "MethodDeclaration"
	NodeConstructorDeclaration NodeType = "ConstructorDeclaration"
	NodeConstructorInitializer NodeType = "ConstructorInitializer"
	NodeParameter              NodeType = "Parameter"
	NodeTypeReference          NodeType = "TypeReference"
	NodeBlockStatement         NodeType = "BlockStatement"
	NodeVariableDeclaration    NodeType = "VariableDeclaration"
	NodeIfStatement            NodeType = "IfStatement"
	NodeWhileStatement         NodeType = "WhileStatement"
	NodeForStatement           NodeType = "ForStatement"
	NodeLoopStatement          NodeType = "LoopStatement"
	NodeBreakStatement         NodeType = "BreakStatement"
	NodeContinueStatement      NodeType = "ContinueStatement"
	NodeReturnStatement        NodeType = "ReturnStatement"
	NodeExpressionStatement    NodeType = "ExpressionStatement"
	NodeNumberLiteral          NodeType = "NumberLiteral"
	NodeBooleanLiteral         NodeType = "BooleanLiteral"
	NodeStringLiteral          NodeType = "StringLiteral"
	NodeNameExpression         NodeType = "NameExpression"
	NodeUnaryExpression        NodeType = "UnaryExpression"
	NodeBinaryExpression       NodeType = "BinaryExpression"
	NodeAssignmentExpression   NodeType = "AssignmentExpression"
	NodeInvokeExpression       NodeType = "InvokeExpression"
	NodeMemberAccessExpression NodeType = "MemberAccessExpression"
	NodeCastExpression         NodeType = "CastExpression"
	NodeThisExpression         NodeType = "ThisExpression"
	NodeNewExpression          NodeType = "NewExpression"
)

// Span locates a node in its source text.
type Span struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

func (s Span) End() int { return s.Start + s.Length }

type Node interface {
	NodeType() NodeType
	NodeSpan() Span
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	Span Span     `json:"span"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) NodeSpan() Span     { return n.Span }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span Span) { n.Span = span }

type spanSetter interface {
	setSpan(Span)
}

// At records the source span of a node and returns it.
func At[N Node](node N, start, length int) N {
	if s, ok := any(node).(spanSetter); ok {
		s.setSpan(Span{Start: start, Length: length})
	}
	return node
}

// Marker interfaces.

type Member interface {
	Node
	memberNode()
}

type memberMarker struct{}

func (memberMarker) memberNode() {}

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
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// CompilationUnit is the root of one source file.
type CompilationUnit struct {
	nodeImpl

	Path    string   `json:"path,omitempty"`
	Members []Member `json:"members"`
}

func NewCompilationUnit(members []Member) *CompilationUnit {
	return &CompilationUnit{nodeImpl: newNodeImpl(NodeCompilationUnit), Members: members}
}

type GlobalStatement struct {
	nodeImpl
	memberMarker

	Statement Statement `json:"statement"`
}

func NewGlobalStatement(stmt Statement) *GlobalStatement {
	return &GlobalStatement{nodeImpl: newNodeImpl(NodeGlobalStatement), Statement: stmt}
}

// Declarations

type TypeReference struct {
	nodeImpl

	Name string `json:"name"`
}

func NewTypeReference(name string) *TypeReference {
	return &TypeReference{nodeImpl: newNodeImpl(NodeTypeReference), Name: name}
}

type Parameter struct {
	nodeImpl

	Name string         `json:"name"`
	Type *TypeReference `json:"paramType"`
}

func NewParameter(name string, typ *TypeReference) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, Type: typ}
}

type FunctionDeclaration struct {
	nodeImpl
	memberMarker

	Name       string          `json:"name"`
	Parameters []*Parameter    `json:"parameters"`
	ReturnType *TypeReference  `json:"returnType,omitempty"`
	Body       *BlockStatement `json:"body"`
}

func NewFunctionDeclaration(name string, params []*Parameter, returnType *TypeReference, body *BlockStatement) *FunctionDeclaration {
	return &FunctionDeclaration{
		nodeImpl:   newNodeImpl(NodeFunctionDeclaration),
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}
}

type ExternDeclaration struct {
	nodeImpl
	memberMarker

	Name       string         `json:"name"`
	Parameters []*Parameter   `json:"parameters"`
	ReturnType *TypeReference `json:"returnType,omitempty"`
}

func NewExternDeclaration(name string, params []*Parameter, returnType *TypeReference) *ExternDeclaration {
	return &ExternDeclaration{nodeImpl: newNodeImpl(NodeExternDeclaration), Name: name, Parameters: params, ReturnType: returnType}
}

type ConstDeclaration struct {
	nodeImpl
	memberMarker

	Name        string         `json:"name"`
	Type        *TypeReference `json:"constType,omitempty"`
	Initializer Expression     `json:"initializer"`
}

func NewConstDeclaration(name string, typ *TypeReference, initializer Expression) *ConstDeclaration {
	return &ConstDeclaration{nodeImpl: newNodeImpl(NodeConstDeclaration), Name: name, Type: typ, Initializer: initializer}
}

type AliasDeclaration struct {
	nodeImpl
	memberMarker

	Name   string         `json:"name"`
	Target *TypeReference `json:"target"`
}

func NewAliasDeclaration(name string, target *TypeReference) *AliasDeclaration {
	return &AliasDeclaration{nodeImpl: newNodeImpl(NodeAliasDeclaration), Name: name, Target: target}
}

// ObjectDeclaration declares a struct/object type and its members.
type ObjectDeclaration struct {
	nodeImpl
	memberMarker

	Name      string              `json:"name"`
	BaseTypes []*TypeReference    `json:"baseTypes,omitempty"`
	Members   []MemberDeclaration `json:"members"`
}

func NewObjectDeclaration(name string, baseTypes []*TypeReference, members []MemberDeclaration) *ObjectDeclaration {
	return &ObjectDeclaration{nodeImpl: newNodeImpl(NodeObjectDeclaration), Name: name, BaseTypes: baseTypes, Members: members}
}

type FieldDeclaration struct {
	nodeImpl
	memberDeclarationMarker

	Name        string         `json:"name"`
	Type        *TypeReference `json:"fieldType,omitempty"`
	Initializer Expression     `json:"initializer,omitempty"`
}

func NewFieldDeclaration(name string, typ *TypeReference, initializer Expression) *FieldDeclaration {
	return &FieldDeclaration{nodeImpl: newNodeImpl(NodeFieldDeclaration), Name: name, Type: typ, Initializer: initializer}
}

// PropertyDeclaration has a getter and an optional setter. A setter body sees
// the assigned value as the parameter `value`.
type PropertyDeclaration struct {
	nodeImpl
	memberDeclarationMarker

	Name   string          `json:"name"`
	Type   *TypeReference  `json:"propertyType"`
	Getter *BlockStatement `json:"getter,omitempty"`
	Setter *BlockStatement `json:"setter,omitempty"`
}

func NewPropertyDeclaration(name string, typ *TypeReference, getter, setter *BlockStatement) *PropertyDeclaration {
	return &PropertyDeclaration{nodeImpl: newNodeImpl(NodePropertyDeclaration), Name: name, Type: typ, Getter: getter, Setter: setter}
}

type MethodDeclaration struct {
	nodeImpl
	memberDeclarationMarker

	Name       string          `json:"name"`
	Parameters []*Parameter    `json:"parameters"`
	ReturnType *TypeReference  `json:"returnType,omitempty"`
	Body       *BlockStatement `json:"body"`
}

func NewMethodDeclaration(name string, params []*Parameter, returnType *TypeReference, body *BlockStatement) *MethodDeclaration {
	return &MethodDeclaration{
		nodeImpl:   newNodeImpl(NodeMethodDeclaration),
		Name:       name,
		Parameters: params,
		ReturnType: returnType,
		Body:       body,
	}
}

// ConstructorInitializer is the `: this(args)` clause of a delegating constructor.
type ConstructorInitializer struct {
	nodeImpl

	Arguments []Expression `json:"arguments"`
}

func NewConstructorInitializer(args []Expression) *ConstructorInitializer {
	return &ConstructorInitializer{nodeImpl: newNodeImpl(NodeConstructorInitializer), Arguments: args}
}

type ConstructorDeclaration struct {
	nodeImpl
	memberDeclarationMarker

	Parameters  []*Parameter            `json:"parameters"`
	Initializer *ConstructorInitializer `json:"initializer,omitempty"`
	Body        *BlockStatement         `json:"body"`
}

func NewConstructorDeclaration(params []*Parameter, initializer *ConstructorInitializer, body *BlockStatement) *ConstructorDeclaration {
	return &ConstructorDeclaration{
		nodeImpl:    newNodeImpl(NodeConstructorDeclaration),
		Parameters:  params,
		Initializer: initializer,
		Body:        body,
	}
}

// Statements

type BlockStatement struct {
	nodeImpl
	statementMarker

	Statements []Statement `json:"statements"`
}

func NewBlockStatement(stmts []Statement) *BlockStatement {
	return &BlockStatement{nodeImpl: newNodeImpl(NodeBlockStatement), Statements: stmts}
}

type VariableDeclaration struct {
	nodeImpl
	statementMarker

	ReadOnly    bool           `json:"readOnly"`
	Name        string         `json:"name"`
	Type        *TypeReference `json:"varType,omitempty"`
	Initializer Expression     `json:"initializer"`
}

func NewVariableDeclaration(readOnly bool, name string, typ *TypeReference, initializer Expression) *VariableDeclaration {
	return &VariableDeclaration{
		nodeImpl:    newNodeImpl(NodeVariableDeclaration),
		ReadOnly:    readOnly,
		Name:        name,
		Type:        typ,
		Initializer: initializer,
	}
}

type IfStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Then      Statement  `json:"then"`
	Else      Statement  `json:"else,omitempty"`
}

func NewIfStatement(condition Expression, then, els Statement) *IfStatement {
	return &IfStatement{nodeImpl: newNodeImpl(NodeIfStatement), Condition: condition, Then: then, Else: els}
}

type WhileStatement struct {
	nodeImpl
	statementMarker

	Condition Expression `json:"condition"`
	Body      Statement  `json:"body"`
}

func NewWhileStatement(condition Expression, body Statement) *WhileStatement {
	return &WhileStatement{nodeImpl: newNodeImpl(NodeWhileStatement), Condition: condition, Body: body}
}

// ForStatement iterates Variable over the inclusive range [Lower, Upper].
type ForStatement struct {
	nodeImpl
	statementMarker

	Variable string     `json:"variable"`
	Lower    Expression `json:"lower"`
	Upper    Expression `json:"upper"`
	Body     Statement  `json:"body"`
}

func NewForStatement(variable string, lower, upper Expression, body Statement) *ForStatement {
	return &ForStatement{nodeImpl: newNodeImpl(NodeForStatement), Variable: variable, Lower: lower, Upper: upper, Body: body}
}

type LoopStatement struct {
	nodeImpl
	statementMarker

	Body Statement `json:"body"`
}

func NewLoopStatement(body Statement) *LoopStatement {
	return &LoopStatement{nodeImpl: newNodeImpl(NodeLoopStatement), Body: body}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Value Expression `json:"value,omitempty"`
}

func NewReturnStatement(value Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Value: value}
}

type ExpressionStatement struct {
	nodeImpl
	statementMarker

	Expression Expression `json:"expression"`
}

func NewExpressionStatement(expr Expression) *ExpressionStatement {
	return &ExpressionStatement{nodeImpl: newNodeImpl(NodeExpressionStatement), Expression: expr}
}

// Expressions

// NumberLiteral keeps the literal text; the binder validates and sizes it.
type NumberLiteral struct {
	nodeImpl
	expressionMarker

	Text string `json:"text"`
}

func NewNumberLiteral(text string) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Text: text}
}

type BooleanLiteral struct {
	nodeImpl
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type NameExpression struct {
	nodeImpl
	expressionMarker

	Name string `json:"name"`
}

func NewNameExpression(name string) *NameExpression {
	return &NameExpression{nodeImpl: newNodeImpl(NodeNameExpression), Name: name}
}

type UnaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator string, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	expressionMarker

	Operator string     `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator string, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

type AssignmentExpression struct {
	nodeImpl
	expressionMarker

	Target Expression `json:"target"`
	Value  Expression `json:"value"`
}

func NewAssignmentExpression(target, value Expression) *AssignmentExpression {
	return &AssignmentExpression{nodeImpl: newNodeImpl(NodeAssignmentExpression), Target: target, Value: value}
}

type InvokeExpression struct {
	nodeImpl
	expressionMarker

	Target    Expression   `json:"target"`
	Arguments []Expression `json:"arguments"`
}

func NewInvokeExpression(target Expression, args []Expression) *InvokeExpression {
	return &InvokeExpression{nodeImpl: newNodeImpl(NodeInvokeExpression), Target: target, Arguments: args}
}

type MemberAccessExpression struct {
	nodeImpl
	expressionMarker

	Target Expression `json:"target"`
	Member string     `json:"member"`
}

func NewMemberAccessExpression(target Expression, member string) *MemberAccessExpression {
	return &MemberAccessExpression{nodeImpl: newNodeImpl(NodeMemberAccessExpression), Target: target, Member: member}
}

type CastExpression struct {
	nodeImpl
	expressionMarker

	Type       *TypeReference `json:"castType"`
	Expression Expression     `json:"expression"`
}

func NewCastExpression(typ *TypeReference, expr Expression) *CastExpression {
	return &CastExpression{nodeImpl: newNodeImpl(NodeCastExpression), Type: typ, Expression: expr}
}

type ThisExpression struct {
	nodeImpl
	expressionMarker
}

func NewThisExpression() *ThisExpression {
	return &ThisExpression{nodeImpl: newNodeImpl(NodeThisExpression)}
}

type NewExpression struct {
	nodeImpl
	expressionMarker

	Type      *TypeReference `json:"newType"`
	Arguments []Expression   `json:"arguments"`
}

func NewNewExpression(typ *TypeReference, args []Expression) *NewExpression {
	return &NewExpression{nodeImpl: newNodeImpl(NodeNewExpression), Type: typ, Arguments: args}
}
