package runtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"eagle/interpreter-go/pkg/symbols"
)

// Operator names the semantic operation behind a bound operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpLogicalAnd
	OpLogicalOr
	OpEqual
	OpNotEqual
	OpLess
	OpLessOrEqual
	OpGreater
	OpGreaterOrEqual
	OpConcat

	OpIdentity
	OpNegate
	OpComplement
	OpNot
)

func (op Operator) String() string {
	switch op {
	case OpAdd, OpConcat, OpIdentity:
		return "+"
	case OpSub, OpNegate:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpBitAnd:
		return "&"
	case OpBitOr:
		return "|"
	case OpBitXor:
		return "^"
	case OpLogicalAnd:
		return "&&"
	case OpLogicalOr:
		return "||"
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLess:
		return "<"
	case OpLessOrEqual:
		return "<="
	case OpGreater:
		return ">"
	case OpGreaterOrEqual:
		return ">="
	case OpComplement:
		return "~"
	case OpNot:
		return "!"
	default:
		return fmt.Sprintf("op(%d)", int(op))
	}
}

var ErrDivideByZero = errors.New("runtime: integer division by zero")

type binaryFunc func(l, r Value, rep symbols.Representation) (Value, error)
type unaryFunc func(v Value, rep symbols.Representation) (Value, error)

type opKey struct {
	op  Operator
	rep symbols.Representation
}

var (
	binaryOps = map[opKey]binaryFunc{}
	unaryOps  = map[opKey]unaryFunc{}
)

func init() {
	for _, typ := range symbols.IntegerTypes() {
		rep := typ.Representation()
		for op, fn := range integerBinary {
			binaryOps[opKey{op, rep}] = fn
		}
		unaryOps[opKey{OpIdentity, rep}] = func(v Value, _ symbols.Representation) (Value, error) { return v, nil }
		unaryOps[opKey{OpComplement, rep}] = func(v Value, rep symbols.Representation) (Value, error) {
			return MakeInteger(^v.(IntegerValue).Val, rep), nil
		}
		if rep.Signed() {
			unaryOps[opKey{OpNegate, rep}] = func(v Value, rep symbols.Representation) (Value, error) {
				return MakeInteger(-v.(IntegerValue).Val, rep), nil
			}
		}
	}
	for _, rep := range []symbols.Representation{symbols.RepF32, symbols.RepF64} {
		for op, fn := range floatBinary {
			binaryOps[opKey{op, rep}] = fn
		}
		unaryOps[opKey{OpIdentity, rep}] = func(v Value, _ symbols.Representation) (Value, error) { return v, nil }
		unaryOps[opKey{OpNegate, rep}] = func(v Value, rep symbols.Representation) (Value, error) {
			return MakeFloat(-v.(FloatValue).Val, rep), nil
		}
	}
	for op, fn := range boolBinary {
		binaryOps[opKey{op, symbols.RepBool}] = fn
	}
	unaryOps[opKey{OpNot, symbols.RepBool}] = func(v Value, _ symbols.Representation) (Value, error) {
		return BoolValue{Val: !v.(BoolValue).Val}, nil
	}
	binaryOps[opKey{OpConcat, symbols.RepString}] = func(l, r Value, _ symbols.Representation) (Value, error) {
		return StringValue{Val: Stringify(l) + Stringify(r)}, nil
	}
	binaryOps[opKey{OpEqual, symbols.RepString}] = func(l, r Value, _ symbols.Representation) (Value, error) {
		return BoolValue{Val: l.(StringValue).Val == r.(StringValue).Val}, nil
	}
	binaryOps[opKey{OpNotEqual, symbols.RepString}] = func(l, r Value, _ symbols.Representation) (Value, error) {
		return BoolValue{Val: l.(StringValue).Val != r.(StringValue).Val}, nil
	}
}

// Binary applies op to operands of representation rep. OpConcat is keyed by
// RepString regardless of operand types.
func Binary(op Operator, rep symbols.Representation, l, r Value) (Value, error) {
	fn, ok := binaryOps[opKey{op, rep}]
	if !ok {
		return nil, fmt.Errorf("runtime: no binary operator %s for representation %d", op, rep)
	}
	return fn(l, r, rep)
}

func Unary(op Operator, rep symbols.Representation, v Value) (Value, error) {
	fn, ok := unaryOps[opKey{op, rep}]
	if !ok {
		return nil, fmt.Errorf("runtime: no unary operator %s for representation %d", op, rep)
	}
	return fn(v, rep)
}

func intOperands(l, r Value) (IntegerValue, IntegerValue) {
	return l.(IntegerValue), r.(IntegerValue)
}

func intArith(apply func(a, b int64) int64, applyUnsigned func(a, b uint64) uint64) binaryFunc {
	return func(l, r Value, rep symbols.Representation) (Value, error) {
		a, b := intOperands(l, r)
		if rep.Signed() {
			return MakeInteger(apply(a.Val, b.Val), rep), nil
		}
		return MakeInteger(int64(applyUnsigned(a.Uint(), b.Uint())), rep), nil
	}
}

func intDivision(apply func(a, b int64) int64, applyUnsigned func(a, b uint64) uint64) binaryFunc {
	arith := intArith(apply, applyUnsigned)
	return func(l, r Value, rep symbols.Representation) (Value, error) {
		if r.(IntegerValue).Val == 0 {
			return nil, ErrDivideByZero
		}
		return arith(l, r, rep)
	}
}

func intCompare(cmp func(c int) bool) binaryFunc {
	return func(l, r Value, rep symbols.Representation) (Value, error) {
		a, b := intOperands(l, r)
		var c int
		if rep.Signed() {
			c = compareOrdered(a.Val, b.Val)
		} else {
			c = compareOrdered(a.Uint(), b.Uint())
		}
		return BoolValue{Val: cmp(c)}, nil
	}
}

func compareOrdered[T int64 | uint64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

var integerBinary = map[Operator]binaryFunc{
	OpAdd: intArith(func(a, b int64) int64 { return a + b }, func(a, b uint64) uint64 { return a + b }),
	OpSub: intArith(func(a, b int64) int64 { return a - b }, func(a, b uint64) uint64 { return a - b }),
	OpMul: intArith(func(a, b int64) int64 { return a * b }, func(a, b uint64) uint64 { return a * b }),
	OpDiv: intDivision(func(a, b int64) int64 { return a / b }, func(a, b uint64) uint64 { return a / b }),
	OpMod: intDivision(func(a, b int64) int64 { return a % b }, func(a, b uint64) uint64 { return a % b }),

	OpBitAnd: intArith(func(a, b int64) int64 { return a & b }, func(a, b uint64) uint64 { return a & b }),
	OpBitOr:  intArith(func(a, b int64) int64 { return a | b }, func(a, b uint64) uint64 { return a | b }),
	OpBitXor: intArith(func(a, b int64) int64 { return a ^ b }, func(a, b uint64) uint64 { return a ^ b }),

	OpEqual:          intCompare(func(c int) bool { return c == 0 }),
	OpNotEqual:       intCompare(func(c int) bool { return c != 0 }),
	OpLess:           intCompare(func(c int) bool { return c < 0 }),
	OpLessOrEqual:    intCompare(func(c int) bool { return c <= 0 }),
	OpGreater:        intCompare(func(c int) bool { return c > 0 }),
	OpGreaterOrEqual: intCompare(func(c int) bool { return c >= 0 }),
}

func floatArith(apply func(a, b float64) float64) binaryFunc {
	return func(l, r Value, rep symbols.Representation) (Value, error) {
		return MakeFloat(apply(l.(FloatValue).Val, r.(FloatValue).Val), rep), nil
	}
}

func floatCompare(cmp func(a, b float64) bool) binaryFunc {
	return func(l, r Value, _ symbols.Representation) (Value, error) {
		return BoolValue{Val: cmp(l.(FloatValue).Val, r.(FloatValue).Val)}, nil
	}
}

var floatBinary = map[Operator]binaryFunc{
	OpAdd: floatArith(func(a, b float64) float64 { return a + b }),
	OpSub: floatArith(func(a, b float64) float64 { return a - b }),
	OpMul: floatArith(func(a, b float64) float64 { return a * b }),
	OpDiv: floatArith(func(a, b float64) float64 { return a / b }),

	OpEqual:          floatCompare(func(a, b float64) bool { return a == b }),
	OpNotEqual:       floatCompare(func(a, b float64) bool { return a != b }),
	OpLess:           floatCompare(func(a, b float64) bool { return a < b }),
	OpLessOrEqual:    floatCompare(func(a, b float64) bool { return a <= b }),
	OpGreater:        floatCompare(func(a, b float64) bool { return a > b }),
	OpGreaterOrEqual: floatCompare(func(a, b float64) bool { return a >= b }),
}

func boolOp(apply func(a, b bool) bool) binaryFunc {
	return func(l, r Value, _ symbols.Representation) (Value, error) {
		return BoolValue{Val: apply(l.(BoolValue).Val, r.(BoolValue).Val)}, nil
	}
}

var boolBinary = map[Operator]binaryFunc{
	OpLogicalAnd: boolOp(func(a, b bool) bool { return a && b }),
	OpLogicalOr:  boolOp(func(a, b bool) bool { return a || b }),
	OpBitAnd:     boolOp(func(a, b bool) bool { return a && b }),
	OpBitOr:      boolOp(func(a, b bool) bool { return a || b }),
	OpBitXor:     boolOp(func(a, b bool) bool { return a != b }),
	OpEqual:      boolOp(func(a, b bool) bool { return a == b }),
	OpNotEqual:   boolOp(func(a, b bool) bool { return a != b }),
}

// ConversionError reports a value that cannot take the target type.
type ConversionError struct {
	Value string
	To    string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("runtime: cannot convert '%s' to %s", e.Value, e.To)
}

// Convert changes the representation of v to that of to.
func Convert(v Value, to *symbols.TypeSymbol) (Value, error) {
	rep := to.Representation()
	switch {
	case rep == symbols.RepAny:
		return v, nil
	case rep == symbols.RepString:
		return StringValue{Val: Stringify(v)}, nil
	case rep.IsInteger():
		switch val := v.(type) {
		case IntegerValue:
			return MakeInteger(val.Val, rep), nil
		case FloatValue:
			if rep.Signed() {
				return MakeInteger(int64(val.Val), rep), nil
			}
			return MakeInteger(int64(uint64(val.Val)), rep), nil
		case StringValue:
			return parseInteger(val.Val, to)
		}
	case rep.IsFloat():
		switch val := v.(type) {
		case IntegerValue:
			if val.Rep.Signed() {
				return MakeFloat(float64(val.Val), rep), nil
			}
			return MakeFloat(float64(val.Uint()), rep), nil
		case FloatValue:
			return MakeFloat(val.Val, rep), nil
		case StringValue:
			f, err := strconv.ParseFloat(strings.TrimSpace(val.Val), rep.Bits())
			if err != nil {
				return nil, &ConversionError{Value: val.Val, To: to.Name()}
			}
			return MakeFloat(f, rep), nil
		}
	case rep == symbols.RepBool:
		switch val := v.(type) {
		case BoolValue:
			return val, nil
		case StringValue:
			b, err := strconv.ParseBool(strings.TrimSpace(val.Val))
			if err != nil {
				return nil, &ConversionError{Value: val.Val, To: to.Name()}
			}
			return BoolValue{Val: b}, nil
		}
	case rep == symbols.RepAggregate:
		if obj, ok := v.(*ObjectValue); ok && (obj.Type == to || obj.Type.DerivesFrom(to)) {
			return obj, nil
		}
		if _, ok := v.(NilValue); ok {
			return v, nil
		}
	}
	return nil, &ConversionError{Value: Stringify(v), To: to.Name()}
}

func parseInteger(text string, to *symbols.TypeSymbol) (Value, error) {
	rep := to.Representation()
	text = strings.TrimSpace(text)
	if rep.Signed() {
		n, err := strconv.ParseInt(text, 10, rep.Bits())
		if err != nil {
			return nil, &ConversionError{Value: text, To: to.Name()}
		}
		return MakeInteger(n, rep), nil
	}
	n, err := strconv.ParseUint(text, 10, rep.Bits())
	if err != nil {
		return nil, &ConversionError{Value: text, To: to.Name()}
	}
	return MakeInteger(int64(n), rep), nil
}
