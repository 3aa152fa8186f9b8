package binder

import (
	"strconv"
	"strings"

	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

func (b *Binder) bindExpression(expr ast.Expression) Expression {
	switch e := expr.(type) {
	case *ast.NumberLiteral:
		return b.bindNumber(e)
	case *ast.BooleanLiteral:
		return NewLiteral(runtime.BoolValue{Val: e.Value}, symbols.Boolean)
	case *ast.StringLiteral:
		return NewLiteral(runtime.StringValue{Val: e.Value}, symbols.String)
	case *ast.NameExpression:
		return b.bindName(e)
	case *ast.UnaryExpression:
		return b.bindUnary(e)
	case *ast.BinaryExpression:
		return b.bindBinary(e)
	case *ast.AssignmentExpression:
		return b.bindAssignment(e)
	case *ast.InvokeExpression:
		return b.bindInvoke(e)
	case *ast.MemberAccessExpression:
		return b.bindMemberAccess(e)
	case *ast.CastExpression:
		typ := b.lookupType(e.Type)
		return b.convert(b.bindExpression(e.Expression), typ, true, e.NodeSpan())
	case *ast.ThisExpression:
		if b.thisType == nil {
			b.diags.ReportThisNotAllowed(e.NodeSpan())
			return &ErrorExpression{}
		}
		return NewThis(b.thisType)
	case *ast.NewExpression:
		return b.bindNew(e)
	case nil:
		return &ErrorExpression{}
	default:
		panic("binder: unexpected expression " + string(expr.NodeType()))
	}
}

func (b *Binder) bindNumber(e *ast.NumberLiteral) Expression {
	text := strings.ReplaceAll(e.Text, "_", "")
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewLiteral(runtime.Int(n), symbols.Int)
	}
	if strings.ContainsAny(text, ".eE") {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return NewLiteral(runtime.MakeFloat(f, symbols.RepF64), symbols.Float64)
		}
	}
	b.diags.ReportInvalidNumber(e.NodeSpan(), e.Text)
	return &ErrorExpression{}
}

// resolveValue turns a symbol found by name into a value expression.
func (b *Binder) resolveValue(sym symbols.Symbol, span ast.Span) Expression {
	switch s := sym.(type) {
	case *symbols.VariableSymbol:
		return &VariableExpression{Symbol: s}
	case *symbols.ParameterSymbol:
		return &ParameterExpression{Symbol: s}
	case *symbols.ConstSymbol:
		return &ConstExpression{Symbol: s, Value: b.consts[s.ID()]}
	case *symbols.FieldSymbol:
		return &FieldExpression{Target: b.implicitThis(s), Field: s}
	case *symbols.PropertySymbol:
		return &PropertyExpression{Target: b.implicitThis(s), Property: s}
	case *symbols.TypeSymbol:
		return &TypeExpression{typ: s}
	case *symbols.AliasSymbol:
		return &TypeExpression{typ: s.Target()}
	default:
		b.diags.ReportNotAValue(span, sym.Name(), sym.Kind().String())
		return &ErrorExpression{}
	}
}

// implicitThis is the receiver of an unqualified member name.
func (b *Binder) implicitThis(member symbols.Member) Expression {
	if b.thisType == nil {
		return NewThis(member.DeclaringType())
	}
	return NewThis(b.thisType)
}

func (b *Binder) bindName(e *ast.NameExpression) Expression {
	if sym, ok := b.scope.Lookup(e.Name); ok {
		return b.resolveValue(sym, e.NodeSpan())
	}
	if t, ok := symbols.LookupBuiltin(e.Name); ok {
		return &TypeExpression{typ: t}
	}
	b.diags.ReportUndefinedName(e.NodeSpan(), e.Name)
	return &ErrorExpression{}
}

func (b *Binder) bindUnary(e *ast.UnaryExpression) Expression {
	operand := b.bindExpression(e.Operand)
	if operand.Type().IsError() {
		return &ErrorExpression{}
	}
	op, ok := LookupUnaryOperator(e.Operator, operand.Type())
	if !ok {
		b.diags.ReportUndefinedUnaryOperator(e.NodeSpan(), e.Operator, operand.Type().Name())
		return &ErrorExpression{}
	}
	return &UnaryExpression{Op: op, Operand: operand}
}

func (b *Binder) bindBinary(e *ast.BinaryExpression) Expression {
	left := b.bindExpression(e.Left)
	right := b.bindExpression(e.Right)
	if left.Type().IsError() || right.Type().IsError() {
		return &ErrorExpression{}
	}
	lt, rt := left.Type(), right.Type()
	if op, ok := LookupBinaryOperator(e.Operator, lt, rt); ok {
		return &BinaryExpression{Left: left, Op: op, Right: right}
	}
	// Mixed numeric operands meet at the wider type.
	if lt.IsNumeric() && rt.IsNumeric() {
		switch {
		case symbols.ClassifyConversion(lt, rt) == symbols.ConversionImplicit:
			if op, ok := LookupBinaryOperator(e.Operator, rt, rt); ok {
				return &BinaryExpression{Left: NewConversion(rt, left), Op: op, Right: right}
			}
		case symbols.ClassifyConversion(rt, lt) == symbols.ConversionImplicit:
			if op, ok := LookupBinaryOperator(e.Operator, lt, lt); ok {
				return &BinaryExpression{Left: left, Op: op, Right: NewConversion(lt, right)}
			}
		}
	}
	b.diags.ReportUndefinedBinaryOperator(e.NodeSpan(), e.Operator, lt.Name(), rt.Name())
	return &ErrorExpression{}
}

func (b *Binder) bindAssignment(e *ast.AssignmentExpression) Expression {
	target := b.bindExpression(e.Target)
	value := b.bindExpression(e.Value)
	span := e.Target.NodeSpan()

	switch t := target.(type) {
	case *ErrorExpression:
		return &ErrorExpression{}
	case *VariableExpression:
		if t.Symbol.ReadOnly() {
			b.diags.ReportCannotAssign(span, t.Symbol.Name())
			return &ErrorExpression{}
		}
	case *ParameterExpression, *FieldExpression:
	case *PropertyExpression:
		if t.Property.Setter == nil {
			b.diags.ReportCannotAssign(span, t.Property.Name())
			return &ErrorExpression{}
		}
	default:
		name, kind := describeTarget(target)
		b.diags.ReportNotAssignable(span, name, kind)
		return &ErrorExpression{}
	}

	value = b.convert(value, target.Type(), false, e.Value.NodeSpan())
	if value.Type().IsError() {
		return &ErrorExpression{}
	}
	return &AssignmentExpression{Target: target, Value: value}
}

func describeTarget(expr Expression) (string, string) {
	switch e := expr.(type) {
	case *ConstExpression:
		return e.Symbol.Name(), e.Symbol.Kind().String()
	case *TypeExpression:
		return e.Type().Name(), symbols.KindType.String()
	default:
		return expr.Kind().String(), "expression"
	}
}

func (b *Binder) bindInvoke(e *ast.InvokeExpression) Expression {
	switch target := e.Target.(type) {
	case *ast.NameExpression:
		sym, ok := b.scope.Lookup(target.Name)
		if !ok {
			if t, builtin := symbols.LookupBuiltin(target.Name); builtin {
				sym, ok = t, true
			}
		}
		if !ok {
			b.diags.ReportUndefinedName(target.NodeSpan(), target.Name)
			b.bindDiscarded(e.Arguments)
			return &ErrorExpression{}
		}
		return b.bindCallTo(sym, nil, e)
	case *ast.MemberAccessExpression:
		receiver := b.bindExpression(target.Target)
		if receiver.Type().IsError() {
			b.bindDiscarded(e.Arguments)
			return &ErrorExpression{}
		}
		member, ok := receiver.Type().LookupMember(target.Member)
		if !ok {
			b.diags.ReportMissingMember(target.NodeSpan(), receiver.Type().Name(), target.Member)
			b.bindDiscarded(e.Arguments)
			return &ErrorExpression{}
		}
		return b.bindCallTo(member, receiver, e)
	default:
		callee := b.bindExpression(e.Target)
		if !callee.Type().IsError() {
			name, kind := describeTarget(callee)
			b.diags.ReportNotCallable(e.Target.NodeSpan(), name, kind)
		}
		b.bindDiscarded(e.Arguments)
		return &ErrorExpression{}
	}
}

// bindCallTo binds a call of sym. receiver is nil for unqualified calls.
func (b *Binder) bindCallTo(sym symbols.Symbol, receiver Expression, e *ast.InvokeExpression) Expression {
	switch s := sym.(type) {
	case *symbols.FunctionSymbol:
		if !b.checkArity(e, s.Name(), len(s.Parameters())) {
			return &ErrorExpression{}
		}
		return &FunctionCallExpression{Function: s, Arguments: b.bindArguments(s.Parameters(), e.Arguments)}
	case *symbols.MethodSymbol:
		if receiver == nil {
			receiver = b.implicitThis(s)
		}
		if !b.checkArity(e, s.Name(), len(s.Parameters())) {
			return &ErrorExpression{}
		}
		return &MethodCallExpression{Target: receiver, Method: s, Arguments: b.bindArguments(s.Parameters(), e.Arguments)}
	case *symbols.AliasSymbol:
		return b.bindCallTo(s.Target(), receiver, e)
	case *symbols.TypeSymbol:
		if receiver != nil {
			break
		}
		if !s.IsAggregate() && len(e.Arguments) == 1 {
			return b.convert(b.bindExpression(e.Arguments[0]), s, true, e.NodeSpan())
		}
		ctor, ok := b.resolveConstructor(s, e.Arguments, e.NodeSpan())
		if !ok {
			return &ErrorExpression{}
		}
		return &ConstructorCallExpression{Constructor: ctor, Arguments: b.bindArguments(ctor.Parameters(), e.Arguments)}
	}
	b.diags.ReportNotCallable(e.Target.NodeSpan(), sym.Name(), sym.Kind().String())
	b.bindDiscarded(e.Arguments)
	return &ErrorExpression{}
}

func (b *Binder) resolveConstructor(typ *symbols.TypeSymbol, args []ast.Expression, span ast.Span) (*symbols.ConstructorSymbol, bool) {
	if typ.IsError() {
		b.bindDiscarded(args)
		return nil, false
	}
	if !typ.IsAggregate() {
		b.diags.ReportNotCallable(span, typ.Name(), symbols.KindType.String())
		b.bindDiscarded(args)
		return nil, false
	}
	ctor, ok := typ.Constructor(len(args))
	if !ok {
		expected := 0
		if ctors := typ.Constructors(); len(ctors) > 0 {
			expected = len(ctors[0].Parameters())
		}
		b.diags.ReportWrongArgumentCount(span, typ.Name(), expected, len(args))
		b.bindDiscarded(args)
		return nil, false
	}
	return ctor, true
}

func (b *Binder) bindNew(e *ast.NewExpression) Expression {
	typ := b.lookupType(e.Type)
	ctor, ok := b.resolveConstructor(typ, e.Arguments, e.NodeSpan())
	if !ok {
		return &ErrorExpression{}
	}
	return &NewExpression{Constructor: ctor, Arguments: b.bindArguments(ctor.Parameters(), e.Arguments)}
}

func (b *Binder) checkArity(e *ast.InvokeExpression, name string, expected int) bool {
	if len(e.Arguments) == expected {
		return true
	}
	b.diags.ReportWrongArgumentCount(e.NodeSpan(), name, expected, len(e.Arguments))
	b.bindDiscarded(e.Arguments)
	return false
}

// bindArguments converts each argument to its parameter type.
func (b *Binder) bindArguments(params []*symbols.ParameterSymbol, args []ast.Expression) []Expression {
	out := make([]Expression, 0, len(args))
	for i, arg := range args {
		out = append(out, b.convert(b.bindExpression(arg), params[i].Type(), false, arg.NodeSpan()))
	}
	return out
}

// bindDiscarded binds expressions only for their diagnostics.
func (b *Binder) bindDiscarded(exprs []ast.Expression) {
	for _, expr := range exprs {
		b.bindExpression(expr)
	}
}

func (b *Binder) bindMemberAccess(e *ast.MemberAccessExpression) Expression {
	target := b.bindExpression(e.Target)
	if target.Type().IsError() {
		return &ErrorExpression{}
	}
	member, ok := target.Type().LookupMember(e.Member)
	if !ok {
		b.diags.ReportMissingMember(e.NodeSpan(), target.Type().Name(), e.Member)
		return &ErrorExpression{}
	}
	switch m := member.(type) {
	case *symbols.FieldSymbol:
		return &FieldExpression{Target: target, Field: m}
	case *symbols.PropertySymbol:
		return &PropertyExpression{Target: target, Property: m}
	default:
		b.diags.ReportNotAValue(e.NodeSpan(), m.Name(), m.Kind().String())
		return &ErrorExpression{}
	}
}

// convert applies the conversion from expr's type to typ. Explicit
// conversions need allowExplicit.
func (b *Binder) convert(expr Expression, typ *symbols.TypeSymbol, allowExplicit bool, span ast.Span) Expression {
	from := expr.Type()
	if from.IsError() || typ == nil || typ.IsError() {
		return &ErrorExpression{}
	}
	if typ.IsAssignableFrom(from) && from != typ && symbols.ClassifyConversion(from, typ) == symbols.ConversionNone {
		// nominal conversion along the base-type chain
		return NewConversion(typ, expr)
	}
	switch c := symbols.ClassifyConversion(from, typ); {
	case c.IsIdentity():
		return expr
	case c == symbols.ConversionImplicit:
		return NewConversion(typ, expr)
	case c.IsExplicit() && allowExplicit:
		return NewConversion(typ, expr)
	case c.IsExplicit():
		b.diags.ReportCannotConvertImplicitly(span, from.Name(), typ.Name())
	default:
		if allowExplicit && from.IsAggregate() && typ.IsAggregate() && typ.DerivesFrom(from) {
			return NewConversion(typ, expr)
		}
		b.diags.ReportCannotConvert(span, from.Name(), typ.Name())
	}
	return &ErrorExpression{}
}
