package interpreter

import (
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func (i *Interpreter) evaluateExpression(expr binder.Expression, fr *frame) (runtime.Value, error) {
	switch e := expr.(type) {
	case *binder.LiteralExpression:
		return e.Value, nil
	case *binder.ConstExpression:
		return e.Value, nil
	case *binder.VariableExpression:
		val, ok := i.storeFor(e.Symbol, fr).Get(e.Symbol.ID())
		if !ok {
			return nil, faultf("variable '%s' is not bound", e.Symbol.Name())
		}
		return val, nil
	case *binder.ParameterExpression:
		if fr == nil {
			return nil, faultf("parameter '%s' read outside a call", e.Symbol.Name())
		}
		val, ok := fr.locals.Get(e.Symbol.ID())
		if !ok {
			return nil, faultf("parameter '%s' is not bound", e.Symbol.Name())
		}
		return val, nil
	case *binder.ThisExpression:
		if fr == nil || fr.receiver == nil {
			return nil, faultf("'this' used without a receiver")
		}
		return fr.receiver, nil
	case *binder.UnaryExpression:
		return i.evaluateUnary(e, fr)
	case *binder.BinaryExpression:
		return i.evaluateBinary(e, fr)
	case *binder.AssignmentExpression:
		return i.evaluateAssignment(e, fr)
	case *binder.FieldExpression:
		obj, err := i.evaluateReceiver(e.Target, fr)
		if err != nil {
			return nil, err
		}
		val, ok := obj.Fields.Get(e.Field.ID())
		if !ok {
			return nil, faultf("'%s' has no field '%s'", obj.Type.Name(), e.Field.Name())
		}
		return val, nil
	case *binder.PropertyExpression:
		return i.evaluateMethodCall(&binder.MethodCallExpression{Target: e.Target, Method: e.Property.Getter}, fr)
	case *binder.ConversionExpression:
		val, err := i.evaluateExpression(e.Expression, fr)
		if err != nil {
			return nil, err
		}
		converted, err := runtime.Convert(val, e.Type())
		if err != nil {
			return nil, wrapFault(err, "conversion to %s failed", e.Type().Name())
		}
		return converted, nil
	case *binder.FunctionCallExpression:
		return i.evaluateFunctionCall(e, fr)
	case *binder.MethodCallExpression:
		return i.evaluateMethodCall(e, fr)
	case *binder.ConstructorCallExpression:
		return i.construct(e.Constructor, e.Arguments, fr)
	case *binder.NewExpression:
		return i.construct(e.Constructor, e.Arguments, fr)
	case *binder.DelegatingConstructorCallExpression:
		if fr == nil || fr.receiver == nil {
			return nil, faultf("constructor delegation without a receiver")
		}
		args, err := i.evaluateArguments(e.Arguments, fr)
		if err != nil {
			return nil, err
		}
		if err := i.runConstructor(e.Constructor, fr.receiver, args); err != nil {
			return nil, err
		}
		return runtime.VoidValue{}, nil
	case nil:
		return nil, faultf("missing expression")
	default:
		return nil, faultf("cannot evaluate %s", expr.Kind())
	}
}

func (i *Interpreter) evaluateReceiver(expr binder.Expression, fr *frame) (*runtime.ObjectValue, error) {
	val, err := i.evaluateExpression(expr, fr)
	if err != nil {
		return nil, err
	}
	obj, ok := val.(*runtime.ObjectValue)
	if !ok {
		return nil, faultf("member access on %s", val.Kind())
	}
	return obj, nil
}

func (i *Interpreter) evaluateUnary(e *binder.UnaryExpression, fr *frame) (runtime.Value, error) {
	operand, err := i.evaluateExpression(e.Operand, fr)
	if err != nil {
		return nil, err
	}
	val, err := runtime.Unary(e.Op.Op, e.Op.Operand.Representation(), operand)
	if err != nil {
		return nil, wrapFault(err, "unary %s failed", e.Op.Syntax)
	}
	return val, nil
}

// evaluateBinary short-circuits && and ||.
func (i *Interpreter) evaluateBinary(e *binder.BinaryExpression, fr *frame) (runtime.Value, error) {
	left, err := i.evaluateExpression(e.Left, fr)
	if err != nil {
		return nil, err
	}
	if b, ok := left.(runtime.BoolValue); ok {
		if (e.Op.Op == runtime.OpLogicalAnd && !b.Val) || (e.Op.Op == runtime.OpLogicalOr && b.Val) {
			return b, nil
		}
	}
	right, err := i.evaluateExpression(e.Right, fr)
	if err != nil {
		return nil, err
	}
	val, err := runtime.Binary(e.Op.Op, e.Op.Representation(), left, right)
	if err != nil {
		return nil, wrapFault(err, "binary %s failed", e.Op.Syntax)
	}
	return val, nil
}

func (i *Interpreter) evaluateAssignment(e *binder.AssignmentExpression, fr *frame) (runtime.Value, error) {
	var (
		store *runtime.Store
		id    symbols.ID
	)
	switch target := e.Target.(type) {
	case *binder.VariableExpression:
		store, id = i.storeFor(target.Symbol, fr), target.Symbol.ID()
	case *binder.ParameterExpression:
		if fr == nil {
			return nil, faultf("parameter '%s' assigned outside a call", target.Symbol.Name())
		}
		store, id = fr.locals, target.Symbol.ID()
	case *binder.FieldExpression:
		obj, err := i.evaluateReceiver(target.Target, fr)
		if err != nil {
			return nil, err
		}
		store, id = obj.Fields, target.Field.ID()
	case *binder.PropertyExpression:
		obj, err := i.evaluateReceiver(target.Target, fr)
		if err != nil {
			return nil, err
		}
		store, id = obj.Fields, target.Property.ID()
	default:
		return nil, faultf("cannot assign to %s", e.Target.Kind())
	}

	val, err := i.evaluateExpression(e.Value, fr)
	if err != nil {
		return nil, err
	}
	store.Define(id, val)
	return val, nil
}
