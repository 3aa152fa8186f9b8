package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func (f *function) emitExpression(expr binder.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *binder.LiteralExpression:
		return constantOf(e.Value, e.Type())
	case *binder.ConstExpression:
		return constantOf(e.Value, e.Type())
	case *binder.VariableExpression:
		slot, err := f.slot(e.Symbol)
		if err != nil {
			return nil, err
		}
		typ, err := llvmType(e.Type())
		if err != nil {
			return nil, err
		}
		return f.block.NewLoad(typ, slot), nil
	case *binder.ParameterExpression:
		slot, ok := f.locals[e.Symbol.ID()]
		if !ok {
			return nil, fmt.Errorf("parameter %s has no slot", e.Symbol.Name())
		}
		typ, err := llvmType(e.Type())
		if err != nil {
			return nil, err
		}
		return f.block.NewLoad(typ, slot), nil
	case *binder.UnaryExpression:
		return f.emitUnary(e)
	case *binder.BinaryExpression:
		return f.emitBinary(e)
	case *binder.AssignmentExpression:
		return f.emitAssignment(e)
	case *binder.ConversionExpression:
		return f.emitConversion(e)
	case *binder.FunctionCallExpression:
		callee, ok := f.funcs[e.Function.ID()]
		if !ok {
			return nil, fmt.Errorf("function %s is not declared", e.Function.Name())
		}
		args := make([]value.Value, 0, len(e.Arguments))
		for _, arg := range e.Arguments {
			val, err := f.emitExpression(arg)
			if err != nil {
				return nil, err
			}
			args = append(args, val)
		}
		call := f.block.NewCall(callee, args...)
		if callee.Sig.RetType == types.Void {
			return nil, nil
		}
		return call, nil
	default:
		return nil, unsupported(expr.Kind())
	}
}

func constantOf(v runtime.Value, typ *symbols.TypeSymbol) (value.Value, error) {
	switch val := v.(type) {
	case runtime.BoolValue:
		return constant.NewBool(val.Val), nil
	case runtime.IntegerValue:
		t, err := llvmType(typ)
		if err != nil {
			return nil, err
		}
		intType, ok := t.(*types.IntType)
		if !ok {
			return nil, unsupported(typ)
		}
		return constant.NewInt(intType, val.Val), nil
	default:
		return nil, unsupported(typ)
	}
}

func (f *function) emitUnary(e *binder.UnaryExpression) (value.Value, error) {
	operand, err := f.emitExpression(e.Operand)
	if err != nil {
		return nil, err
	}
	t, err := llvmType(e.Type())
	if err != nil {
		return nil, err
	}
	intType, ok := t.(*types.IntType)
	if !ok {
		return nil, unsupported(e.Type())
	}
	switch e.Op.Op {
	case runtime.OpIdentity:
		return operand, nil
	case runtime.OpNegate:
		return f.block.NewSub(constant.NewInt(intType, 0), operand), nil
	case runtime.OpComplement:
		return f.block.NewXor(operand, constant.NewInt(intType, -1)), nil
	case runtime.OpNot:
		return f.block.NewXor(operand, constant.NewBool(true)), nil
	default:
		return nil, unsupported(e.Op.Op)
	}
}

var signedPredicates = map[runtime.Operator]enum.IPred{
	runtime.OpEqual: enum.IPredEQ, runtime.OpNotEqual: enum.IPredNE,
	runtime.OpLess: enum.IPredSLT, runtime.OpLessOrEqual: enum.IPredSLE,
	runtime.OpGreater: enum.IPredSGT, runtime.OpGreaterOrEqual: enum.IPredSGE,
}

var unsignedPredicates = map[runtime.Operator]enum.IPred{
	runtime.OpEqual: enum.IPredEQ, runtime.OpNotEqual: enum.IPredNE,
	runtime.OpLess: enum.IPredULT, runtime.OpLessOrEqual: enum.IPredULE,
	runtime.OpGreater: enum.IPredUGT, runtime.OpGreaterOrEqual: enum.IPredUGE,
}

// emitBinary evaluates both operands; && and || do not short-circuit here.
func (f *function) emitBinary(e *binder.BinaryExpression) (value.Value, error) {
	rep := e.Op.Representation()
	if rep != symbols.RepBool && !rep.IsInteger() {
		return nil, unsupported(e.Op.Left)
	}
	left, err := f.emitExpression(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := f.emitExpression(e.Right)
	if err != nil {
		return nil, err
	}
	signed := rep.Signed()
	b := f.block
	switch e.Op.Op {
	case runtime.OpAdd:
		return b.NewAdd(left, right), nil
	case runtime.OpSub:
		return b.NewSub(left, right), nil
	case runtime.OpMul:
		return b.NewMul(left, right), nil
	case runtime.OpDiv:
		if signed {
			return b.NewSDiv(left, right), nil
		}
		return b.NewUDiv(left, right), nil
	case runtime.OpMod:
		if signed {
			return b.NewSRem(left, right), nil
		}
		return b.NewURem(left, right), nil
	case runtime.OpBitAnd, runtime.OpLogicalAnd:
		return b.NewAnd(left, right), nil
	case runtime.OpBitOr, runtime.OpLogicalOr:
		return b.NewOr(left, right), nil
	case runtime.OpBitXor:
		return b.NewXor(left, right), nil
	}
	preds := unsignedPredicates
	if signed {
		preds = signedPredicates
	}
	if pred, ok := preds[e.Op.Op]; ok {
		return b.NewICmp(pred, left, right), nil
	}
	return nil, unsupported(e.Op.Op)
}

func (f *function) emitAssignment(e *binder.AssignmentExpression) (value.Value, error) {
	val, err := f.emitExpression(e.Value)
	if err != nil {
		return nil, err
	}
	var slot value.Value
	switch target := e.Target.(type) {
	case *binder.VariableExpression:
		slot, err = f.slot(target.Symbol)
		if err != nil {
			return nil, err
		}
	case *binder.ParameterExpression:
		s, ok := f.locals[target.Symbol.ID()]
		if !ok {
			return nil, fmt.Errorf("parameter %s has no slot", target.Symbol.Name())
		}
		slot = s
	default:
		return nil, unsupported(e.Target.Kind())
	}
	f.block.NewStore(val, slot)
	return val, nil
}

// emitConversion handles integer to integer conversions.
func (f *function) emitConversion(e *binder.ConversionExpression) (value.Value, error) {
	from, to := e.Expression.Type(), e.Type()
	if !from.IsInteger() || !to.IsInteger() {
		return nil, fmt.Errorf("%w: conversion from %s to %s", ErrUnsupported, from.Name(), to.Name())
	}
	val, err := f.emitExpression(e.Expression)
	if err != nil {
		return nil, err
	}
	t, err := llvmType(to)
	if err != nil {
		return nil, err
	}
	switch {
	case to.Bits() == from.Bits():
		return val, nil
	case to.Bits() < from.Bits():
		return f.block.NewTrunc(val, t), nil
	case from.Signed():
		return f.block.NewSExt(val, t), nil
	default:
		return f.block.NewZExt(val, t), nil
	}
}
