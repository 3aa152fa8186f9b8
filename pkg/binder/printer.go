package binder

import (
	"fmt"
	"io"
	"strings"

	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// Print writes an indented textual form of node to w.
func Print(w io.Writer, node Node) error {
	p := &printer{}
	p.node(node)
	_, err := io.WriteString(w, p.sb.String())
	return err
}

// PrintUnit writes every declaration followed by the global statements.
func PrintUnit(w io.Writer, unit *Unit) error {
	p := &printer{}
	for _, decl := range unit.Declarations {
		p.node(decl)
	}
	if unit.Body != nil && len(unit.Body.Statements) > 0 {
		p.node(unit.Body)
	}
	_, err := io.WriteString(w, p.sb.String())
	return err
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) line(format string, args ...any) {
	p.sb.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteByte('\n')
}

func (p *printer) nested(fn func()) {
	p.indent++
	fn()
	p.indent--
}

func (p *printer) node(node Node) {
	switch n := node.(type) {
	case *FunctionDeclaration:
		p.line("function %s(%s): %s", n.Symbol.Name(), formatParams(n.Symbol.Parameters()), n.Symbol.ReturnType())
		p.node(n.Body)
	case *ExternDeclaration:
		p.line("extern %s(%s): %s", n.Symbol.Name(), formatParams(n.Symbol.Parameters()), n.Symbol.ReturnType())
	case *ConstDeclaration:
		p.line("const %s: %s = %s", n.Symbol.Name(), n.Symbol.Type(), formatLiteral(n.Value))
	case *AliasDeclaration:
		p.line("alias %s = %s", n.Symbol.Name(), n.Symbol.Target())
	case *StructDeclaration:
		p.line("struct %s", n.Type.Name())
		p.nested(func() {
			for _, member := range n.Members {
				p.node(member)
			}
		})
	case *FieldDeclaration:
		if n.Initializer != nil {
			p.line("field %s: %s = %s", n.Symbol.Name(), n.Symbol.Type(), formatExpr(n.Initializer))
		} else {
			p.line("field %s: %s", n.Symbol.Name(), n.Symbol.Type())
		}
	case *PropertyDeclaration:
		p.line("property %s: %s", n.Symbol.Name(), n.Symbol.Type())
		p.nested(func() {
			p.line("get")
			p.node(n.Getter)
			if n.Setter != nil {
				p.line("set")
				p.node(n.Setter)
			}
		})
	case *MethodDeclaration:
		p.line("method %s(%s): %s", n.Symbol.Name(), formatParams(n.Symbol.Parameters()), n.Symbol.ReturnType())
		p.node(n.Body)
	case *ConstructorDeclaration:
		if n.Initializer != nil {
			p.line("constructor(%s) : %s", formatParams(n.Symbol.Parameters()), formatExpr(n.Initializer))
		} else {
			p.line("constructor(%s)", formatParams(n.Symbol.Parameters()))
		}
		p.node(n.Body)
	case *BlockStatement:
		p.line("{")
		p.nested(func() {
			for _, stmt := range n.Statements {
				p.node(stmt)
			}
		})
		p.line("}")
	case *VariableDeclaration:
		keyword := "var"
		if n.Symbol.ReadOnly() {
			keyword = "let"
		}
		p.line("%s %s: %s = %s", keyword, n.Symbol.Name(), n.Symbol.Type(), formatExpr(n.Initializer))
	case *ExpressionStatement:
		p.line("%s", formatExpr(n.Expression))
	case *LabelStatement:
		p.line("%s:", n.Label.Name())
	case *GotoStatement:
		p.line("goto %s", n.Label.Name())
	case *ConditionalGotoStatement:
		keyword := "unless"
		if n.JumpIfTrue {
			keyword = "if"
		}
		p.line("goto %s %s %s", n.Label.Name(), keyword, formatExpr(n.Condition))
	case *IfStatement:
		p.line("if %s", formatExpr(n.Condition))
		p.nested(func() { p.node(n.Then) })
		if n.Else != nil {
			p.line("else")
			p.nested(func() { p.node(n.Else) })
		}
	case *WhileStatement:
		p.line("while %s", formatExpr(n.Condition))
		p.nested(func() { p.node(n.Body) })
	case *ForStatement:
		p.line("for %s = %s to %s", n.Variable.Name(), formatExpr(n.Lower), formatExpr(n.Upper))
		p.nested(func() { p.node(n.Body) })
	case *LoopStatement:
		p.line("loop")
		p.nested(func() { p.node(n.Body) })
	case *ReturnStatement:
		if n.Value != nil {
			p.line("return %s", formatExpr(n.Value))
		} else {
			p.line("return")
		}
	case Expression:
		p.line("%s", formatExpr(n))
	default:
		p.line("<%s>", node.Kind())
	}
}

func formatParams(ps []*symbols.ParameterSymbol) string {
	parts := make([]string, 0, len(ps))
	for _, param := range ps {
		parts = append(parts, param.Name()+": "+param.Type().Name())
	}
	return strings.Join(parts, ", ")
}

func formatLiteral(v runtime.Value) string {
	if s, ok := v.(runtime.StringValue); ok {
		return fmt.Sprintf("%q", s.Val)
	}
	return runtime.Stringify(v)
}

func formatArgs(exprs []Expression) string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, formatExpr(e))
	}
	return strings.Join(parts, ", ")
}

// formatExpr renders an expression on one line.
func formatExpr(e Expression) string {
	switch n := e.(type) {
	case *LiteralExpression:
		return formatLiteral(n.Value)
	case *UnaryExpression:
		return n.Op.Syntax + formatExpr(n.Operand)
	case *BinaryExpression:
		return fmt.Sprintf("(%s %s %s)", formatExpr(n.Left), n.Op.Syntax, formatExpr(n.Right))
	case *AssignmentExpression:
		return fmt.Sprintf("%s = %s", formatExpr(n.Target), formatExpr(n.Value))
	case *VariableExpression:
		return n.Symbol.Name()
	case *ParameterExpression:
		return n.Symbol.Name()
	case *FieldExpression:
		return formatExpr(n.Target) + "." + n.Field.Name()
	case *PropertyExpression:
		return formatExpr(n.Target) + "." + n.Property.Name()
	case *ConstExpression:
		return n.Symbol.Name()
	case *ThisExpression:
		return "this"
	case *ConversionExpression:
		return fmt.Sprintf("%s(%s)", n.Type().Name(), formatExpr(n.Expression))
	case *FunctionCallExpression:
		return fmt.Sprintf("%s(%s)", n.Function.Name(), formatArgs(n.Arguments))
	case *MethodCallExpression:
		return fmt.Sprintf("%s.%s(%s)", formatExpr(n.Target), n.Method.Name(), formatArgs(n.Arguments))
	case *ConstructorCallExpression:
		return fmt.Sprintf("%s(%s)", n.Constructor.Name(), formatArgs(n.Arguments))
	case *DelegatingConstructorCallExpression:
		return fmt.Sprintf("this(%s)", formatArgs(n.Arguments))
	case *NewExpression:
		return fmt.Sprintf("new %s(%s)", n.Constructor.Name(), formatArgs(n.Arguments))
	case *TypeExpression:
		return n.Type().Name()
	case *ErrorExpression:
		return "?"
	case nil:
		return "<nil>"
	default:
		return "<" + e.Kind().String() + ">"
	}
}
