package binder

import "eagle/interpreter-go/pkg/runtime"

// fold evaluates a constant expression with the runtime operator semantics.
func (b *Binder) fold(expr Expression) (runtime.Value, bool) {
	switch e := expr.(type) {
	case *LiteralExpression:
		return e.Value, true
	case *ConstExpression:
		v, ok := b.consts[e.Symbol.ID()]
		return v, ok
	case *UnaryExpression:
		operand, ok := b.fold(e.Operand)
		if !ok {
			return nil, false
		}
		v, err := runtime.Unary(e.Op.Op, e.Op.Operand.Representation(), operand)
		return v, err == nil
	case *BinaryExpression:
		left, ok := b.fold(e.Left)
		if !ok {
			return nil, false
		}
		right, ok := b.fold(e.Right)
		if !ok {
			return nil, false
		}
		v, err := runtime.Binary(e.Op.Op, e.Op.Representation(), left, right)
		return v, err == nil
	case *ConversionExpression:
		operand, ok := b.fold(e.Expression)
		if !ok {
			return nil, false
		}
		v, err := runtime.Convert(operand, e.Type())
		return v, err == nil
	default:
		return nil, false
	}
}
