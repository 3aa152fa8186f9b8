package lowerer

import (
	"fmt"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/symbols"
)

// lowerer rewrites one body. end is created on the first return statement.
type lowerer struct {
	end *symbols.LabelSymbol
}

// Lower rewrites a bound body into the flat label/goto form.
func Lower(stmt binder.Statement) *binder.BlockStatement {
	l := &lowerer{}
	block := flatten(l.rewriteStatement(stmt))
	if l.end != nil {
		block.Statements = append(block.Statements, &binder.LabelStatement{Label: l.end})
	}
	return block
}

// LowerUnit lowers every declaration body and the global statements.
func LowerUnit(unit *binder.Unit) *binder.Unit {
	out := &binder.Unit{Declarations: make([]binder.Declaration, 0, len(unit.Declarations))}
	for _, decl := range unit.Declarations {
		switch d := decl.(type) {
		case *binder.FunctionDeclaration:
			out.Declarations = append(out.Declarations, &binder.FunctionDeclaration{Symbol: d.Symbol, Body: Lower(d.Body)})
		case *binder.StructDeclaration:
			out.Declarations = append(out.Declarations, lowerStruct(d))
		case *binder.ExternDeclaration, *binder.ConstDeclaration, *binder.AliasDeclaration:
			out.Declarations = append(out.Declarations, d)
		default:
			panic(fmt.Sprintf("lowerer: unexpected declaration %s", decl.Kind()))
		}
	}
	if unit.Body != nil {
		out.Body = Lower(unit.Body)
	} else {
		out.Body = binder.NewBlock()
	}
	return out
}

// IsFlat reports whether block holds only the statement kinds the
// evaluator executes.
func IsFlat(block *binder.BlockStatement) bool {
	for _, stmt := range block.Statements {
		switch stmt.(type) {
		case *binder.VariableDeclaration, *binder.ExpressionStatement, *binder.LabelStatement,
			*binder.GotoStatement, *binder.ConditionalGotoStatement:
		default:
			return false
		}
	}
	return true
}

// flatten splices nested blocks using an explicit stack.
func flatten(stmt binder.Statement) *binder.BlockStatement {
	var out []binder.Statement
	stack := []binder.Statement{stmt}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if block, ok := top.(*binder.BlockStatement); ok {
			for i := len(block.Statements) - 1; i >= 0; i-- {
				stack = append(stack, block.Statements[i])
			}
			continue
		}
		out = append(out, top)
	}
	return binder.NewBlock(out...)
}

func (l *lowerer) rewriteStatement(stmt binder.Statement) binder.Statement {
	switch s := stmt.(type) {
	case *binder.BlockStatement:
		return l.rewriteBlock(s)
	case *binder.VariableDeclaration:
		init := l.rewriteExpression(s.Initializer)
		if init == s.Initializer {
			return s
		}
		return &binder.VariableDeclaration{Symbol: s.Symbol, Initializer: init}
	case *binder.ExpressionStatement:
		expr := l.rewriteExpression(s.Expression)
		if expr == s.Expression {
			return s
		}
		return &binder.ExpressionStatement{Expression: expr}
	case *binder.LabelStatement, *binder.GotoStatement:
		return s
	case *binder.ConditionalGotoStatement:
		cond := l.rewriteExpression(s.Condition)
		if cond == s.Condition {
			return s
		}
		return &binder.ConditionalGotoStatement{Label: s.Label, Condition: cond, JumpIfTrue: s.JumpIfTrue}
	case *binder.IfStatement:
		return l.rewriteStatement(lowerIf(s))
	case *binder.WhileStatement:
		return l.rewriteStatement(lowerWhile(s))
	case *binder.ForStatement:
		return l.rewriteStatement(lowerFor(s))
	case *binder.LoopStatement:
		return l.rewriteStatement(binder.NewBlock(
			&binder.LabelStatement{Label: s.Continue},
			s.Body,
			&binder.GotoStatement{Label: s.Continue},
			&binder.LabelStatement{Label: s.Break},
		))
	case *binder.ReturnStatement:
		if l.end == nil {
			l.end = symbols.GenerateLabel()
		}
		jump := &binder.GotoStatement{Label: l.end}
		if s.Value == nil {
			return jump
		}
		return binder.NewBlock(&binder.ExpressionStatement{Expression: l.rewriteExpression(s.Value)}, jump)
	default:
		panic(fmt.Sprintf("lowerer: unexpected statement %s", stmt.Kind()))
	}
}

func (l *lowerer) rewriteBlock(block *binder.BlockStatement) binder.Statement {
	var out []binder.Statement
	for i, stmt := range block.Statements {
		rewritten := l.rewriteStatement(stmt)
		if out == nil && rewritten != stmt {
			out = make([]binder.Statement, i, len(block.Statements))
			copy(out, block.Statements[:i])
		}
		if out != nil {
			out = append(out, rewritten)
		}
	}
	if out == nil {
		return block
	}
	return binder.NewBlock(out...)
}

func lowerIf(s *binder.IfStatement) binder.Statement {
	if s.Else == nil {
		end := symbols.GenerateLabel()
		return binder.NewBlock(
			&binder.ConditionalGotoStatement{Label: end, Condition: s.Condition},
			s.Then,
			&binder.LabelStatement{Label: end},
		)
	}
	elseLabel := symbols.GenerateLabel()
	end := symbols.GenerateLabel()
	return binder.NewBlock(
		&binder.ConditionalGotoStatement{Label: elseLabel, Condition: s.Condition},
		s.Then,
		&binder.GotoStatement{Label: end},
		&binder.LabelStatement{Label: elseLabel},
		s.Else,
		&binder.LabelStatement{Label: end},
	)
}

// lowerWhile tests the condition before the first iteration.
func lowerWhile(s *binder.WhileStatement) binder.Statement {
	body := symbols.GenerateLabel()
	return binder.NewBlock(
		&binder.GotoStatement{Label: s.Continue},
		&binder.LabelStatement{Label: body},
		s.Body,
		&binder.LabelStatement{Label: s.Continue},
		&binder.ConditionalGotoStatement{Label: body, Condition: s.Condition, JumpIfTrue: true},
		&binder.LabelStatement{Label: s.Break},
	)
}

func lowerFor(s *binder.ForStatement) binder.Statement {
	v := s.Variable
	typ := v.Type()
	var upper *symbols.VariableSymbol
	if v.Global() {
		upper = symbols.NewGlobalVariable("upperBound", true, typ)
	} else {
		upper = symbols.NewVariable("upperBound", true, typ)
	}
	lessOrEqual := mustBinary("<=", typ)
	plus := mustBinary("+", typ)

	variable := &binder.VariableExpression{Symbol: v}
	increment := &binder.AssignmentExpression{
		Target: variable,
		Value:  &binder.BinaryExpression{Left: variable, Op: plus, Right: one(typ)},
	}
	loop := &binder.WhileStatement{
		LoopLabels: binder.LoopLabels{Break: s.Break, Continue: symbols.GenerateLabel()},
		Condition:  &binder.BinaryExpression{Left: variable, Op: lessOrEqual, Right: &binder.VariableExpression{Symbol: upper}},
		Body: binder.NewBlock(
			s.Body,
			&binder.LabelStatement{Label: s.Continue},
			&binder.ExpressionStatement{Expression: increment},
		),
	}
	return binder.NewBlock(
		&binder.VariableDeclaration{Symbol: v, Initializer: s.Lower},
		&binder.VariableDeclaration{Symbol: upper, Initializer: s.Upper},
		loop,
	)
}

func mustBinary(syntax string, typ *symbols.TypeSymbol) *binder.BinaryOperator {
	op, ok := binder.LookupBinaryOperator(syntax, typ, typ)
	if !ok {
		panic(fmt.Sprintf("lowerer: no %s operator for loop variable of type %s", syntax, typ.Name()))
	}
	return op
}
