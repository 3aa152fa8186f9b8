package binder

import (
	"eagle/interpreter-go/pkg/ast"
	"eagle/interpreter-go/pkg/symbols"
)

func (b *Binder) bindStatement(stmt ast.Statement) Statement {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		return b.bindBlockIn(NewBlockScope(b.scope), s)
	case *ast.VariableDeclaration:
		return b.bindVariableDeclaration(s)
	case *ast.IfStatement:
		cond := b.bindCondition(s.Condition)
		out := &IfStatement{Condition: cond, Then: b.bindStatement(s.Then)}
		if s.Else != nil {
			out.Else = b.bindStatement(s.Else)
		}
		return out
	case *ast.WhileStatement:
		cond := b.bindCondition(s.Condition)
		labels := newLoopLabels()
		return &WhileStatement{LoopLabels: labels, Condition: cond, Body: b.bindLoopBody(labels, s.Body)}
	case *ast.ForStatement:
		return b.bindFor(s)
	case *ast.LoopStatement:
		labels := newLoopLabels()
		return &LoopStatement{LoopLabels: labels, Body: b.bindLoopBody(labels, s.Body)}
	case *ast.BreakStatement:
		return b.bindJump(s, "break", func(l LoopLabels) *symbols.LabelSymbol { return l.Break })
	case *ast.ContinueStatement:
		return b.bindJump(s, "continue", func(l LoopLabels) *symbols.LabelSymbol { return l.Continue })
	case *ast.ReturnStatement:
		return b.bindReturn(s)
	case *ast.ExpressionStatement:
		return &ExpressionStatement{Expression: b.bindExpression(s.Expression)}
	default:
		panic("binder: unexpected statement " + string(stmt.NodeType()))
	}
}

// bindBlockIn binds the statements of block directly in scope.
func (b *Binder) bindBlockIn(scope Scope, block *ast.BlockStatement) *BlockStatement {
	out := NewBlock()
	b.withScope(scope, func() {
		for _, stmt := range block.Statements {
			out.Statements = append(out.Statements, b.bindStatement(stmt))
		}
	})
	return out
}

func (b *Binder) bindVariableDeclaration(s *ast.VariableDeclaration) Statement {
	init := b.bindExpression(s.Initializer)
	typ := b.lookupType(s.Type)
	if typ == nil {
		typ = init.Type()
	} else {
		init = b.convert(init, typ, false, s.Initializer.NodeSpan())
	}
	var sym *symbols.VariableSymbol
	if b.function == nil {
		sym = symbols.NewGlobalVariable(s.Name, s.ReadOnly, typ)
	} else {
		sym = symbols.NewVariable(s.Name, s.ReadOnly, typ)
	}
	b.declare(b.scope, sym, s.NodeSpan())
	return &VariableDeclaration{Symbol: sym, Initializer: init}
}

func (b *Binder) bindCondition(expr ast.Expression) Expression {
	return b.convert(b.bindExpression(expr), symbols.Boolean, false, expr.NodeSpan())
}

func newLoopLabels() LoopLabels {
	return LoopLabels{Break: symbols.GenerateLabel(), Continue: symbols.GenerateLabel()}
}

func (b *Binder) bindLoopBody(labels LoopLabels, body ast.Statement) Statement {
	b.loops = append(b.loops, labels)
	defer func() { b.loops = b.loops[:len(b.loops)-1] }()
	return b.bindStatement(body)
}

func (b *Binder) bindFor(s *ast.ForStatement) Statement {
	lower := b.bindExpression(s.Lower)
	typ := lower.Type()
	if !typ.IsError() && !typ.IsInteger() {
		b.diags.ReportCannotConvert(s.Lower.NodeSpan(), typ.Name(), symbols.Int.Name())
		typ = symbols.Error
	}
	upper := b.convert(b.bindExpression(s.Upper), typ, false, s.Upper.NodeSpan())

	out := &ForStatement{LoopLabels: newLoopLabels(), Lower: lower, Upper: upper}
	b.withScope(NewBlockScope(b.scope), func() {
		if b.function == nil {
			out.Variable = symbols.NewGlobalVariable(s.Variable, false, typ)
		} else {
			out.Variable = symbols.NewVariable(s.Variable, false, typ)
		}
		b.declare(b.scope, out.Variable, s.NodeSpan())
		out.Body = b.bindLoopBody(out.LoopLabels, s.Body)
	})
	return out
}

func (b *Binder) bindJump(node ast.Statement, keyword string, pick func(LoopLabels) *symbols.LabelSymbol) Statement {
	if len(b.loops) == 0 {
		b.diags.ReportInvalidBreakOrContinue(node.NodeSpan(), keyword)
		return &ExpressionStatement{Expression: &ErrorExpression{}}
	}
	return &GotoStatement{Label: pick(b.loops[len(b.loops)-1])}
}

func (b *Binder) bindReturn(s *ast.ReturnStatement) Statement {
	if b.function == nil {
		b.diags.ReportInvalidReturn(s.NodeSpan())
		return &ExpressionStatement{Expression: &ErrorExpression{}}
	}
	if s.Value == nil {
		return &ReturnStatement{}
	}
	value := b.bindExpression(s.Value)
	if ret := b.function.ReturnType(); ret != nil && ret != symbols.Void {
		value = b.convert(value, ret, false, s.Value.NodeSpan())
	}
	return &ReturnStatement{Value: value}
}
