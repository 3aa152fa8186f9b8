package binder

import (
	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/diagnostics"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// pendingStruct tracks a struct between the binding phases.
type pendingStruct struct {
	syntax      *ast.ObjectDeclaration
	typ         *symbols.TypeSymbol
	scope       *TypeScope
	members     map[ast.MemberDeclaration]symbols.Symbol
	fieldInits  map[*ast.FieldDeclaration]Expression
	defaultCtor *symbols.ConstructorSymbol
}

type signatures struct {
	structs   []*pendingStruct
	byObject  map[*ast.ObjectDeclaration]*pendingStruct
	functions map[*ast.FunctionDeclaration]*symbols.FunctionSymbol
	externs   map[*ast.ExternDeclaration]*symbols.FunctionSymbol
	aliases   map[*ast.AliasDeclaration]*symbols.AliasSymbol
}

// bindTypes declares every struct type, then every alias.
func (b *Binder) bindTypes(members []ast.Member) *signatures {
	sigs := &signatures{
		byObject:  make(map[*ast.ObjectDeclaration]*pendingStruct),
		functions: make(map[*ast.FunctionDeclaration]*symbols.FunctionSymbol),
		externs:   make(map[*ast.ExternDeclaration]*symbols.FunctionSymbol),
		aliases:   make(map[*ast.AliasDeclaration]*symbols.AliasSymbol),
	}
	for _, member := range members {
		obj, ok := member.(*ast.ObjectDeclaration)
		if !ok {
			continue
		}
		typ := symbols.NewAggregate(obj.Name)
		b.declare(b.scope, typ, obj.NodeSpan())
		p := &pendingStruct{
			syntax:     obj,
			typ:        typ,
			members:    make(map[ast.MemberDeclaration]symbols.Symbol),
			fieldInits: make(map[*ast.FieldDeclaration]Expression),
		}
		sigs.structs = append(sigs.structs, p)
		sigs.byObject[obj] = p
	}
	for _, member := range members {
		alias, ok := member.(*ast.AliasDeclaration)
		if !ok {
			continue
		}
		sym := symbols.NewAlias(alias.Name, b.lookupType(alias.Target))
		b.declare(b.scope, sym, alias.NodeSpan())
		sigs.aliases[alias] = sym
	}
	return sigs
}

// bindMemberSignatures binds function signatures and struct members, then
// locks every struct type.
func (b *Binder) bindMemberSignatures(members []ast.Member, sigs *signatures) {
	for _, member := range members {
		switch decl := member.(type) {
		case *ast.FunctionDeclaration:
			params := b.bindParameters(decl.Parameters)
			fn := symbols.NewFunction(decl.Name, params, b.returnType(decl.ReturnType))
			b.declare(b.scope, fn, decl.NodeSpan())
			sigs.functions[decl] = fn
		case *ast.ExternDeclaration:
			params := b.bindParameters(decl.Parameters)
			fn := symbols.NewExtern(decl.Name, params, b.returnType(decl.ReturnType))
			b.declare(b.scope, fn, decl.NodeSpan())
			sigs.externs[decl] = fn
		}
	}
	for _, p := range sigs.structs {
		b.bindStructMembers(p)
	}
}

func (b *Binder) bindStructMembers(p *pendingStruct) {
	for _, ref := range p.syntax.BaseTypes {
		base := b.lookupType(ref)
		if base.IsError() {
			continue
		}
		if !base.IsAggregate() {
			b.diags.ReportCannotConvert(ref.NodeSpan(), p.typ.Name(), base.Name())
			continue
		}
		if base == p.typ || base.DerivesFrom(p.typ) {
			b.diags.ReportCyclicDependency(ref.NodeSpan(), p.typ.Name())
			continue
		}
		if err := p.typ.AddBaseType(base); err != nil {
			b.fail(err)
		}
	}

	p.scope = NewTypeScope(b.scope, p.typ)
	b.typeScopes[p.typ] = p.scope

	savedThis := b.thisType
	b.thisType = p.typ
	defer func() { b.thisType = savedThis }()

	b.withScope(p.scope, func() {
		hasCtor := false
		for _, member := range p.syntax.Members {
			switch decl := member.(type) {
			case *ast.FieldDeclaration:
				typ := b.lookupType(decl.Type)
				if typ == nil {
					if decl.Initializer == nil {
						b.diags.ReportMemberMustBeTyped(decl.NodeSpan())
						typ = symbols.Error
					} else {
						init := b.bindExpression(decl.Initializer)
						p.fieldInits[decl] = init
						typ = init.Type()
					}
				}
				field := symbols.NewField(decl.Name, typ, p.typ, len(p.typ.Fields()))
				b.declare(p.scope, field, decl.NodeSpan())
				p.members[decl] = field
			case *ast.PropertyDeclaration:
				typ := b.lookupType(decl.Type)
				if typ == nil {
					b.diags.ReportMemberMustBeTyped(decl.NodeSpan())
					typ = symbols.Error
				}
				prop := symbols.NewProperty(decl.Name, typ, p.typ, decl.Setter != nil)
				if b.declare(p.scope, prop, decl.NodeSpan()) {
					b.declare(p.scope, prop.Getter, decl.NodeSpan())
					if prop.Setter != nil {
						b.declare(p.scope, prop.Setter, decl.NodeSpan())
					}
				}
				p.members[decl] = prop
			case *ast.MethodDeclaration:
				params := b.bindParameters(decl.Parameters)
				method := symbols.NewMethod(decl.Name, params, b.returnType(decl.ReturnType), p.typ)
				b.declare(p.scope, method, decl.NodeSpan())
				p.members[decl] = method
			case *ast.ConstructorDeclaration:
				hasCtor = true
				ctor := symbols.NewConstructor(b.bindParameters(decl.Parameters), p.typ)
				b.declare(p.scope, ctor, decl.NodeSpan())
				p.members[decl] = ctor
			default:
				panic("binder: unexpected member declaration " + string(member.NodeType()))
			}
		}
		if !hasCtor {
			p.defaultCtor = symbols.NewConstructor(nil, p.typ)
			b.declare(p.scope, p.defaultCtor, p.syntax.NodeSpan())
		}
	})
	p.typ.Lock()
}

func (b *Binder) bindParameters(params []*ast.Parameter) []*symbols.ParameterSymbol {
	out := make([]*symbols.ParameterSymbol, 0, len(params))
	seen := make(map[string]bool, len(params))
	for i, param := range params {
		typ := b.lookupType(param.Type)
		if typ == nil {
			b.diags.ReportMemberMustBeTyped(param.NodeSpan())
			typ = symbols.Error
		}
		if seen[param.Name] {
			b.diags.ReportAlreadyDeclared(param.NodeSpan(), param.Name)
		}
		seen[param.Name] = true
		out = append(out, symbols.NewParameter(param.Name, typ, i))
	}
	return out
}

func (b *Binder) returnType(ref *ast.TypeReference) *symbols.TypeSymbol {
	if t := b.lookupType(ref); t != nil {
		return t
	}
	return symbols.Void
}

// bindBodies binds constants first, then every body and the global
// statements, in declaration order.
func (b *Binder) bindBodies(members []ast.Member, sigs *signatures) ([]Declaration, *BlockStatement) {
	consts := make(map[*ast.ConstDeclaration]*ConstDeclaration)
	for _, member := range members {
		if decl, ok := member.(*ast.ConstDeclaration); ok {
			consts[decl] = b.bindConst(decl)
		}
	}

	var decls []Declaration
	body := NewBlock()
	for _, member := range members {
		switch decl := member.(type) {
		case *ast.ConstDeclaration:
			decls = append(decls, consts[decl])
		case *ast.AliasDeclaration:
			decls = append(decls, &AliasDeclaration{Symbol: sigs.aliases[decl]})
		case *ast.ExternDeclaration:
			decls = append(decls, &ExternDeclaration{Symbol: sigs.externs[decl]})
		case *ast.FunctionDeclaration:
			fn := sigs.functions[decl]
			decls = append(decls, &FunctionDeclaration{Symbol: fn, Body: b.bindInvokableBody(fn, decl.Body)})
		case *ast.ObjectDeclaration:
			decls = append(decls, b.bindStruct(sigs.byObject[decl]))
		case *ast.GlobalStatement:
			body.Statements = append(body.Statements, b.bindStatement(decl.Statement))
		default:
			panic("binder: unexpected member " + string(member.NodeType()))
		}
	}
	return decls, body
}

func (b *Binder) bindConst(decl *ast.ConstDeclaration) *ConstDeclaration {
	init := b.bindExpression(decl.Initializer)
	typ := b.lookupType(decl.Type)
	if typ == nil {
		typ = init.Type()
	} else {
		init = b.convert(init, typ, false, decl.Initializer.NodeSpan())
	}

	value, ok := b.fold(init)
	if !ok {
		if !init.Type().IsError() {
			b.diags.ReportNotConstant(decl.Initializer.NodeSpan())
		}
		value = runtime.DefaultValue(typ)
	}
	sym := symbols.NewConst(decl.Name, typ)
	b.declare(b.scope, sym, decl.NodeSpan())
	b.consts[sym.ID()] = value
	return &ConstDeclaration{Symbol: sym, Value: value}
}

func (b *Binder) bindStruct(p *pendingStruct) *StructDeclaration {
	out := &StructDeclaration{Type: p.typ, DefaultConstructor: p.defaultCtor}

	savedThis := b.thisType
	b.thisType = p.typ
	defer func() { b.thisType = savedThis }()

	b.withScope(p.scope, func() {
		for _, member := range p.syntax.Members {
			switch decl := member.(type) {
			case *ast.FieldDeclaration:
				field := p.members[decl].(*symbols.FieldSymbol)
				init, ok := p.fieldInits[decl]
				if !ok && decl.Initializer != nil {
					init = b.convert(b.bindExpression(decl.Initializer), field.Type(), false, decl.Initializer.NodeSpan())
				}
				out.Members = append(out.Members, &FieldDeclaration{Symbol: field, Initializer: init})
			case *ast.PropertyDeclaration:
				prop := p.members[decl].(*symbols.PropertySymbol)
				bound := &PropertyDeclaration{Symbol: prop, Getter: b.bindInvokableBody(prop.Getter, decl.Getter)}
				if prop.Setter != nil {
					bound.Setter = b.bindInvokableBody(prop.Setter, decl.Setter)
				}
				out.Members = append(out.Members, bound)
			case *ast.MethodDeclaration:
				method := p.members[decl].(*symbols.MethodSymbol)
				out.Members = append(out.Members, &MethodDeclaration{Symbol: method, Body: b.bindInvokableBody(method, decl.Body)})
			case *ast.ConstructorDeclaration:
				out.Members = append(out.Members, b.bindConstructor(p.members[decl].(*symbols.ConstructorSymbol), decl))
			}
		}
	})
	return out
}

func (b *Binder) bindConstructor(ctor *symbols.ConstructorSymbol, decl *ast.ConstructorDeclaration) *ConstructorDeclaration {
	out := &ConstructorDeclaration{Symbol: ctor}
	restore := b.enterInvokable(ctor)
	defer restore()

	if decl.Initializer != nil {
		args := decl.Initializer.Arguments
		target, ok := ctor.DeclaringType().Constructor(len(args))
		switch {
		case !ok:
			b.diags.ReportWrongArgumentCount(decl.Initializer.NodeSpan(), ctor.Name(), 0, len(args))
		case target == ctor:
			b.diags.Report(decl.Initializer.NodeSpan(), diagnostics.NotCallable, "A constructor cannot delegate to itself.")
		default:
			out.Initializer = &DelegatingConstructorCallExpression{Constructor: target, Arguments: b.bindArguments(target.Parameters(), args)}
		}
	}
	out.Body = b.bindBlockIn(b.scope, decl.Body)
	return out
}

// enterInvokable opens the parameter scope of fn. The returned func restores
// the enclosing state.
func (b *Binder) enterInvokable(fn symbols.Invokable) func() {
	savedScope, savedFn, savedLoops := b.scope, b.function, b.loops
	scope := NewBlockScope(b.scope)
	for _, param := range fn.Parameters() {
		_ = scope.Define(param)
	}
	b.scope, b.function, b.loops = scope, fn, nil
	return func() {
		b.scope, b.function, b.loops = savedScope, savedFn, savedLoops
	}
}

func (b *Binder) bindInvokableBody(fn symbols.Invokable, body *ast.BlockStatement) *BlockStatement {
	restore := b.enterInvokable(fn)
	defer restore()
	if body == nil {
		return NewBlock()
	}
	block := b.bindBlockIn(b.scope, body)

	ret := fn.ReturnType()
	if ret == nil || ret == symbols.Void || ret.IsError() || len(block.Statements) == 0 {
		return block
	}
	last := len(block.Statements) - 1
	if stmt, ok := block.Statements[last].(*ExpressionStatement); ok {
		var span ast.Span
		if n := len(body.Statements); n > 0 {
			span = body.Statements[n-1].NodeSpan()
		}
		block.Statements[last] = &ExpressionStatement{Expression: b.convert(stmt.Expression, ret, false, span)}
	}
	return block
}
