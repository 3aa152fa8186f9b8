package binder

import (
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// UnaryOperator is an entry of the unary operator table.
type UnaryOperator struct {
	Syntax  string
	Op      runtime.Operator
	Operand *symbols.TypeSymbol
	Result  *symbols.TypeSymbol
}

// BinaryOperator is an entry of the binary operator table.
type BinaryOperator struct {
	Syntax string
	Op     runtime.Operator
	Left   *symbols.TypeSymbol
	Right  *symbols.TypeSymbol
	Result *symbols.TypeSymbol
}

type unaryKey struct {
	syntax  string
	operand *symbols.TypeSymbol
}

type binaryKey struct {
	syntax      string
	left, right *symbols.TypeSymbol
}

var (
	unaryTable  = map[unaryKey]*UnaryOperator{}
	binaryTable = map[binaryKey]*BinaryOperator{}
)

func addUnary(syntax string, op runtime.Operator, typ *symbols.TypeSymbol) {
	unaryTable[unaryKey{syntax, typ}] = &UnaryOperator{Syntax: syntax, Op: op, Operand: typ, Result: typ}
}

func addBinary(syntax string, op runtime.Operator, left, right, result *symbols.TypeSymbol) {
	binaryTable[binaryKey{syntax, left, right}] = &BinaryOperator{Syntax: syntax, Op: op, Left: left, Right: right, Result: result}
}

var comparisons = []struct {
	syntax string
	op     runtime.Operator
}{
	{"==", runtime.OpEqual}, {"!=", runtime.OpNotEqual},
	{"<", runtime.OpLess}, {"<=", runtime.OpLessOrEqual},
	{">", runtime.OpGreater}, {">=", runtime.OpGreaterOrEqual},
}

func init() {
	arithmetic := []struct {
		syntax string
		op     runtime.Operator
	}{
		{"+", runtime.OpAdd}, {"-", runtime.OpSub}, {"*", runtime.OpMul}, {"/", runtime.OpDiv},
	}
	bitwise := []struct {
		syntax string
		op     runtime.Operator
	}{
		{"%", runtime.OpMod}, {"&", runtime.OpBitAnd}, {"|", runtime.OpBitOr}, {"^", runtime.OpBitXor},
	}

	for _, typ := range symbols.IntegerTypes() {
		for _, entry := range append(arithmetic, bitwise...) {
			addBinary(entry.syntax, entry.op, typ, typ, typ)
		}
		for _, entry := range comparisons {
			addBinary(entry.syntax, entry.op, typ, typ, symbols.Boolean)
		}
		addUnary("+", runtime.OpIdentity, typ)
		addUnary("~", runtime.OpComplement, typ)
		if typ.Signed() {
			addUnary("-", runtime.OpNegate, typ)
		}
	}
	for _, typ := range []*symbols.TypeSymbol{symbols.Float32, symbols.Float64} {
		for _, entry := range arithmetic {
			addBinary(entry.syntax, entry.op, typ, typ, typ)
		}
		for _, entry := range comparisons {
			addBinary(entry.syntax, entry.op, typ, typ, symbols.Boolean)
		}
		addUnary("+", runtime.OpIdentity, typ)
		addUnary("-", runtime.OpNegate, typ)
	}

	b := symbols.Boolean
	addBinary("&&", runtime.OpLogicalAnd, b, b, b)
	addBinary("||", runtime.OpLogicalOr, b, b, b)
	addBinary("&", runtime.OpBitAnd, b, b, b)
	addBinary("|", runtime.OpBitOr, b, b, b)
	addBinary("^", runtime.OpBitXor, b, b, b)
	addBinary("==", runtime.OpEqual, b, b, b)
	addBinary("!=", runtime.OpNotEqual, b, b, b)
	addUnary("!", runtime.OpNot, b)

	s := symbols.String
	addBinary("+", runtime.OpConcat, s, s, s)
	addBinary("==", runtime.OpEqual, s, s, b)
	addBinary("!=", runtime.OpNotEqual, s, s, b)
	others := append([]*symbols.TypeSymbol{symbols.Boolean, symbols.Float32, symbols.Float64}, symbols.IntegerTypes()...)
	for _, typ := range others {
		addBinary("+", runtime.OpConcat, s, typ, s)
		addBinary("+", runtime.OpConcat, typ, s, s)
	}
}

// LookupUnaryOperator finds the table entry for syntax applied to operand.
func LookupUnaryOperator(syntax string, operand *symbols.TypeSymbol) (*UnaryOperator, bool) {
	op, ok := unaryTable[unaryKey{syntax, operand}]
	return op, ok
}

// LookupBinaryOperator finds the table entry for exact operand types.
func LookupBinaryOperator(syntax string, left, right *symbols.TypeSymbol) (*BinaryOperator, bool) {
	op, ok := binaryTable[binaryKey{syntax, left, right}]
	return op, ok
}

// Representation selects the runtime operator implementation.
func (o *BinaryOperator) Representation() symbols.Representation {
	if o.Op == runtime.OpConcat {
		return symbols.RepString
	}
	return o.Left.Representation()
}
