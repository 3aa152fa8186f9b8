package lowerer

import (
	"fmt"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// rewriteExpression turns property reads into getter calls. Unchanged
// subtrees are returned as is.
func (l *lowerer) rewriteExpression(expr binder.Expression) binder.Expression {
	switch e := expr.(type) {
	case nil:
		return nil
	case *binder.LiteralExpression, *binder.VariableExpression, *binder.ParameterExpression,
		*binder.ConstExpression, *binder.ThisExpression, *binder.TypeExpression, *binder.ErrorExpression:
		return e
	case *binder.PropertyExpression:
		return &binder.MethodCallExpression{
			Target:    l.rewriteExpression(e.Target),
			Method:    e.Property.Getter,
			Arguments: []binder.Expression{},
		}
	case *binder.UnaryExpression:
		operand := l.rewriteExpression(e.Operand)
		if operand == e.Operand {
			return e
		}
		return &binder.UnaryExpression{Op: e.Op, Operand: operand}
	case *binder.BinaryExpression:
		left, right := l.rewriteExpression(e.Left), l.rewriteExpression(e.Right)
		if left == e.Left && right == e.Right {
			return e
		}
		return &binder.BinaryExpression{Left: left, Op: e.Op, Right: right}
	case *binder.AssignmentExpression:
		// TODO: rewrite property assignment into a setter call once the
		// evaluator stops storing property values under the property handle.
		target := e.Target
		if prop, ok := target.(*binder.PropertyExpression); ok {
			if receiver := l.rewriteExpression(prop.Target); receiver != prop.Target {
				target = &binder.PropertyExpression{Target: receiver, Property: prop.Property}
			}
		} else {
			target = l.rewriteExpression(target)
		}
		value := l.rewriteExpression(e.Value)
		if target == e.Target && value == e.Value {
			return e
		}
		return &binder.AssignmentExpression{Target: target, Value: value}
	case *binder.FieldExpression:
		target := l.rewriteExpression(e.Target)
		if target == e.Target {
			return e
		}
		return &binder.FieldExpression{Target: target, Field: e.Field}
	case *binder.ConversionExpression:
		inner := l.rewriteExpression(e.Expression)
		if inner == e.Expression {
			return e
		}
		return binder.NewConversion(e.Type(), inner)
	case *binder.FunctionCallExpression:
		args, changed := l.rewriteArguments(e.Arguments)
		if !changed {
			return e
		}
		return &binder.FunctionCallExpression{Function: e.Function, Arguments: args}
	case *binder.MethodCallExpression:
		target := l.rewriteExpression(e.Target)
		args, changed := l.rewriteArguments(e.Arguments)
		if !changed && target == e.Target {
			return e
		}
		return &binder.MethodCallExpression{Target: target, Method: e.Method, Arguments: args}
	case *binder.ConstructorCallExpression:
		args, changed := l.rewriteArguments(e.Arguments)
		if !changed {
			return e
		}
		return &binder.ConstructorCallExpression{Constructor: e.Constructor, Arguments: args}
	case *binder.DelegatingConstructorCallExpression:
		args, changed := l.rewriteArguments(e.Arguments)
		if !changed {
			return e
		}
		return &binder.DelegatingConstructorCallExpression{Constructor: e.Constructor, Arguments: args}
	case *binder.NewExpression:
		args, changed := l.rewriteArguments(e.Arguments)
		if !changed {
			return e
		}
		return &binder.NewExpression{Constructor: e.Constructor, Arguments: args}
	default:
		panic(fmt.Sprintf("lowerer: unexpected expression %s", expr.Kind()))
	}
}

func (l *lowerer) rewriteArguments(args []binder.Expression) ([]binder.Expression, bool) {
	out := make([]binder.Expression, len(args))
	changed := false
	for i, arg := range args {
		out[i] = l.rewriteExpression(arg)
		changed = changed || out[i] != arg
	}
	if !changed {
		return args, false
	}
	return out, true
}

// one is the increment of a for loop over typ.
func one(typ *symbols.TypeSymbol) binder.Expression {
	return binder.NewLiteral(runtime.MakeInteger(1, typ.Representation()), typ)
}
