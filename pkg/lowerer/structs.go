package lowerer

import (
	"fmt"

	"eagle/interpreter-go/pkg/binder"
)

// lowerStruct turns properties into accessor methods, hoists field
// initializers into every non-delegating constructor, and lowers every body.
func lowerStruct(decl *binder.StructDeclaration) *binder.StructDeclaration {
	out := &binder.StructDeclaration{Type: decl.Type}

	var inits []binder.Statement
	for _, member := range decl.Members {
		field, ok := member.(*binder.FieldDeclaration)
		if !ok || field.Initializer == nil {
			continue
		}
		inits = append(inits, &binder.ExpressionStatement{Expression: &binder.AssignmentExpression{
			Target: &binder.FieldExpression{Target: binder.NewThis(decl.Type), Field: field.Symbol},
			Value:  field.Initializer,
		}})
	}

	for _, member := range decl.Members {
		switch m := member.(type) {
		case *binder.FieldDeclaration:
			out.Members = append(out.Members, &binder.FieldDeclaration{Symbol: m.Symbol})
		case *binder.PropertyDeclaration:
			out.Members = append(out.Members, &binder.MethodDeclaration{Symbol: m.Symbol.Getter, Body: Lower(m.Getter)})
			if m.Setter != nil && m.Symbol.Setter != nil {
				out.Members = append(out.Members, &binder.MethodDeclaration{Symbol: m.Symbol.Setter, Body: Lower(m.Setter)})
			}
		case *binder.MethodDeclaration:
			out.Members = append(out.Members, &binder.MethodDeclaration{Symbol: m.Symbol, Body: Lower(m.Body)})
		case *binder.ConstructorDeclaration:
			out.Members = append(out.Members, lowerConstructor(m, inits))
		default:
			panic(fmt.Sprintf("lowerer: unexpected member %s", member.Kind()))
		}
	}

	if decl.DefaultConstructor != nil {
		out.Members = append(out.Members, lowerConstructor(
			&binder.ConstructorDeclaration{Symbol: decl.DefaultConstructor, Body: binder.NewBlock()}, inits))
	}
	return out
}

func lowerConstructor(ctor *binder.ConstructorDeclaration, inits []binder.Statement) *binder.ConstructorDeclaration {
	var prefix []binder.Statement
	if ctor.Initializer != nil {
		prefix = []binder.Statement{&binder.ExpressionStatement{Expression: ctor.Initializer}}
	} else {
		prefix = inits
	}
	body := ctor.Body
	if body == nil {
		body = binder.NewBlock()
	}
	stmts := make([]binder.Statement, 0, len(prefix)+1)
	stmts = append(stmts, prefix...)
	stmts = append(stmts, body)
	return &binder.ConstructorDeclaration{Symbol: ctor.Symbol, Body: Lower(binder.NewBlock(stmts...))}
}
