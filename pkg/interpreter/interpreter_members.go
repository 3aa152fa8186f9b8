package interpreter

import (
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// frame is one active call. receiver is nil for free functions.
type frame struct {
	name     string
	receiver *runtime.ObjectValue
	locals   *runtime.Store
}

func (i *Interpreter) pushFrame(fr *frame) {
	i.frames = append(i.frames, fr)
	i.logger.Debug("push frame", "function", fr.name, "depth", len(i.frames))
}

func (i *Interpreter) popFrame() {
	fr := i.frames[len(i.frames)-1]
	i.frames[len(i.frames)-1] = nil
	i.frames = i.frames[:len(i.frames)-1]
	i.logger.Debug("pop frame", "function", fr.name, "depth", len(i.frames))
}

// callFunction runs fn with args bound to its parameters.
func (i *Interpreter) callFunction(fn *FunctionValue, receiver *runtime.ObjectValue, args []runtime.Value) (runtime.Value, error) {
	params := fn.Symbol.Parameters()
	if len(params) != len(args) {
		return nil, faultf("'%s' expects %d arguments, got %d", fn.Symbol.Name(), len(params), len(args))
	}
	fr := &frame{name: fn.Symbol.Name(), receiver: receiver, locals: runtime.NewStore()}
	for idx, param := range params {
		fr.locals.Define(param.ID(), args[idx])
	}
	i.pushFrame(fr)
	defer i.popFrame()
	return i.executeBlock(fn.Body, fr)
}

// callValue invokes either a registered body or a host built-in.
func (i *Interpreter) callValue(callee runtime.Value, receiver *runtime.ObjectValue, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *FunctionValue:
		return i.callFunction(fn, receiver, args)
	case runtime.NativeFunctionValue:
		if fn.Arity != len(args) {
			return nil, faultf("'%s' expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		val, err := fn.Impl(args)
		if err != nil {
			return nil, wrapFault(err, "call to '%s' failed", fn.Name)
		}
		return val, nil
	default:
		return nil, faultf("value of kind %s is not callable", callee.Kind())
	}
}

func (i *Interpreter) evaluateFunctionCall(call *binder.FunctionCallExpression, fr *frame) (runtime.Value, error) {
	callee, ok := i.globals.Get(call.Function.ID())
	if !ok {
		return nil, faultf("function '%s' is not registered", call.Function.Name())
	}
	args, err := i.evaluateArguments(call.Arguments, fr)
	if err != nil {
		return nil, err
	}
	return i.callValue(callee, nil, args)
}

func (i *Interpreter) evaluateMethodCall(call *binder.MethodCallExpression, fr *frame) (runtime.Value, error) {
	target, err := i.evaluateExpression(call.Target, fr)
	if err != nil {
		return nil, err
	}
	obj, ok := target.(*runtime.ObjectValue)
	if !ok {
		return nil, faultf("cannot call '%s' on %s", call.Method.Name(), target.Kind())
	}
	callee, ok := i.globals.Get(call.Method.ID())
	if !ok {
		return nil, faultf("method '%s' is not registered", call.Method.Name())
	}
	args, err := i.evaluateArguments(call.Arguments, fr)
	if err != nil {
		return nil, err
	}
	return i.callValue(callee, obj, args)
}

// construct allocates a fresh object and runs ctor on it.
func (i *Interpreter) construct(ctor *symbols.ConstructorSymbol, argExprs []binder.Expression, fr *frame) (runtime.Value, error) {
	args, err := i.evaluateArguments(argExprs, fr)
	if err != nil {
		return nil, err
	}
	obj := runtime.NewObject(ctor.DeclaringType())
	if err := i.runConstructor(ctor, obj, args); err != nil {
		return nil, err
	}
	return obj, nil
}

// runConstructor runs ctor with receiver obj.
func (i *Interpreter) runConstructor(ctor *symbols.ConstructorSymbol, obj *runtime.ObjectValue, args []runtime.Value) error {
	callee, ok := i.globals.Get(ctor.ID())
	if !ok {
		return faultf("constructor of '%s' is not registered", ctor.DeclaringType().Name())
	}
	_, err := i.callValue(callee, obj, args)
	return err
}

func (i *Interpreter) evaluateArguments(exprs []binder.Expression, fr *frame) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		val, err := i.evaluateExpression(expr, fr)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}
	return args, nil
}
