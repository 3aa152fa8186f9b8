package ast

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed tree document.
type DecodeError struct {
	Path    string
	Message string
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "ast: " + e.Message
	}
	return fmt.Sprintf("ast: %s: %s", e.Path, e.Message)
}

// DecodeJSON decodes a compilation unit from its JSON tree form.
func DecodeJSON(data []byte) (*CompilationUnit, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: parse json: %w", err)
	}
	return DecodeUnit(raw)
}

// DecodeYAML decodes a compilation unit from its YAML tree form.
func DecodeYAML(data []byte) (*CompilationUnit, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("ast: parse yaml: %w", err)
	}
	return DecodeUnit(raw)
}

// DecodeUnit decodes an already unmarshalled tree document.
func DecodeUnit(raw map[string]any) (*CompilationUnit, error) {
	node, err := decodeNode(raw, "$")
	if err != nil {
		return nil, err
	}
	unit, ok := node.(*CompilationUnit)
	if !ok {
		return nil, &DecodeError{Path: "$", Message: fmt.Sprintf("expected CompilationUnit, got %s", node.NodeType())}
	}
	return unit, nil
}

func decodeNode(node map[string]any, path string) (Node, error) {
	typ, _ := node["type"].(string)
	decoded, err := decodeByType(node, NodeType(typ), path)
	if err != nil {
		return nil, err
	}
	if span, ok := node["span"].(map[string]any); ok {
		if s, ok := decoded.(spanSetter); ok {
			s.setSpan(Span{Start: intField(span, "start"), Length: intField(span, "length")})
		}
	}
	return decoded, nil
}

func decodeByType(node map[string]any, typ NodeType, path string) (Node, error) {
	switch typ {
	case NodeCompilationUnit:
		raws, err := listField(node, "members", path)
		if err != nil {
			return nil, err
		}
		members := make([]Member, 0, len(raws))
		for i, raw := range raws {
			child, err := decodeChild(raw, fmt.Sprintf("%s.members[%d]", path, i))
			if err != nil {
				return nil, err
			}
			member, ok := child.(Member)
			if !ok {
				if stmt, isStmt := child.(Statement); isStmt {
					member = NewGlobalStatement(stmt)
				} else if expr, isExpr := child.(Expression); isExpr {
					member = NewGlobalStatement(NewExpressionStatement(expr))
				} else {
					return nil, &DecodeError{Path: path, Message: fmt.Sprintf("invalid member %s", child.NodeType())}
				}
			}
			members = append(members, member)
		}
		unit := NewCompilationUnit(members)
		unit.Path, _ = node["path"].(string)
		return unit, nil
	case NodeGlobalStatement:
		stmt, err := statementField(node, "statement", path)
		if err != nil {
			return nil, err
		}
		return NewGlobalStatement(stmt), nil
	case NodeFunctionDeclaration:
		params, err := decodeParameters(node, path)
		if err != nil {
			return nil, err
		}
		body, err := blockField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return NewFunctionDeclaration(stringField(node, "name"), params, typeField(node, "returnType"), body), nil
	case NodeExternDeclaration:
		params, err := decodeParameters(node, path)
		if err != nil {
			return nil, err
		}
		return NewExternDeclaration(stringField(node, "name"), params, typeField(node, "returnType")), nil
	case NodeConstDeclaration:
		init, err := expressionField(node, "initializer", path)
		if err != nil {
			return nil, err
		}
		return NewConstDeclaration(stringField(node, "name"), typeField(node, "constType"), init), nil
	case NodeAliasDeclaration:
		target := typeField(node, "target")
		if target == nil {
			return nil, &DecodeError{Path: path, Message: "alias missing target"}
		}
		return NewAliasDeclaration(stringField(node, "name"), target), nil
	case NodeObjectDeclaration:
		var bases []*TypeReference
		if raws, ok := node["baseTypes"].([]any); ok {
			for _, raw := range raws {
				if ref := decodeTypeReference(raw); ref != nil {
					bases = append(bases, ref)
				}
			}
		}
		raws, err := listField(node, "members", path)
		if err != nil {
			return nil, err
		}
		members := make([]MemberDeclaration, 0, len(raws))
		for i, raw := range raws {
			child, err := decodeChild(raw, fmt.Sprintf("%s.members[%d]", path, i))
			if err != nil {
				return nil, err
			}
			member, ok := child.(MemberDeclaration)
			if !ok {
				return nil, &DecodeError{Path: path, Message: fmt.Sprintf("invalid object member %s", child.NodeType())}
			}
			members = append(members, member)
		}
		return NewObjectDeclaration(stringField(node, "name"), bases, members), nil
	case NodeFieldDeclaration:
		init, err := optionalExpressionField(node, "initializer", path)
		if err != nil {
			return nil, err
		}
		return NewFieldDeclaration(stringField(node, "name"), typeField(node, "fieldType"), init), nil
	case NodePropertyDeclaration:
		getter, err := optionalBlockField(node, "getter", path)
		if err != nil {
			return nil, err
		}
		setter, err := optionalBlockField(node, "setter", path)
		if err != nil {
			return nil, err
		}
		return NewPropertyDeclaration(stringField(node, "name"), typeField(node, "propertyType"), getter, setter), nil
	case NodeMethodDeclaration:
		params, err := decodeParameters(node, path)
		if err != nil {
			return nil, err
		}
		body, err := blockField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return NewMethodDeclaration(stringField(node, "name"), params, typeField(node, "returnType"), body), nil
	case NodeConstructorDeclaration:
		params, err := decodeParameters(node, path)
		if err != nil {
			return nil, err
		}
		body, err := blockField(node, "body", path)
		if err != nil {
			return nil, err
		}
		var initializer *ConstructorInitializer
		if raw, ok := node["initializer"].(map[string]any); ok {
			args, err := expressionList(raw, "arguments", path+".initializer")
			if err != nil {
				return nil, err
			}
			initializer = NewConstructorInitializer(args)
		}
		return NewConstructorDeclaration(params, initializer, body), nil
	case NodeBlockStatement:
		raws, err := listField(node, "statements", path)
		if err != nil {
			return nil, err
		}
		stmts := make([]Statement, 0, len(raws))
		for i, raw := range raws {
			child, err := decodeChild(raw, fmt.Sprintf("%s.statements[%d]", path, i))
			if err != nil {
				return nil, err
			}
			stmt, err := asStatement(child, path)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		}
		return NewBlockStatement(stmts), nil
	case NodeVariableDeclaration:
		init, err := expressionField(node, "initializer", path)
		if err != nil {
			return nil, err
		}
		readOnly, _ := node["readOnly"].(bool)
		return NewVariableDeclaration(readOnly, stringField(node, "name"), typeField(node, "varType"), init), nil
	case NodeIfStatement:
		cond, err := expressionField(node, "condition", path)
		if err != nil {
			return nil, err
		}
		then, err := statementField(node, "then", path)
		if err != nil {
			return nil, err
		}
		var els Statement
		if _, ok := node["else"]; ok && node["else"] != nil {
			if els, err = statementField(node, "else", path); err != nil {
				return nil, err
			}
		}
		return NewIfStatement(cond, then, els), nil
	case NodeWhileStatement:
		cond, err := expressionField(node, "condition", path)
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return NewWhileStatement(cond, body), nil
	case NodeForStatement:
		lower, err := expressionField(node, "lower", path)
		if err != nil {
			return nil, err
		}
		upper, err := expressionField(node, "upper", path)
		if err != nil {
			return nil, err
		}
		body, err := statementField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return NewForStatement(stringField(node, "variable"), lower, upper, body), nil
	case NodeLoopStatement:
		body, err := statementField(node, "body", path)
		if err != nil {
			return nil, err
		}
		return NewLoopStatement(body), nil
	case NodeBreakStatement:
		return NewBreakStatement(), nil
	case NodeContinueStatement:
		return NewContinueStatement(), nil
	case NodeReturnStatement:
		value, err := optionalExpressionField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return NewReturnStatement(value), nil
	case NodeExpressionStatement:
		expr, err := expressionField(node, "expression", path)
		if err != nil {
			return nil, err
		}
		return NewExpressionStatement(expr), nil
	}
	return decodeExpression(node, typ, path)
}

func decodeExpression(node map[string]any, typ NodeType, path string) (Node, error) {
	switch typ {
	case NodeNumberLiteral:
		return NewNumberLiteral(numberText(node["text"])), nil
	case NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		return NewBooleanLiteral(val), nil
	case NodeStringLiteral:
		val, _ := node["value"].(string)
		return NewStringLiteral(val), nil
	case NodeNameExpression:
		return NewNameExpression(stringField(node, "name")), nil
	case NodeUnaryExpression:
		operand, err := expressionField(node, "operand", path)
		if err != nil {
			return nil, err
		}
		return NewUnaryExpression(stringField(node, "operator"), operand), nil
	case NodeBinaryExpression:
		left, err := expressionField(node, "left", path)
		if err != nil {
			return nil, err
		}
		right, err := expressionField(node, "right", path)
		if err != nil {
			return nil, err
		}
		return NewBinaryExpression(stringField(node, "operator"), left, right), nil
	case NodeAssignmentExpression:
		target, err := expressionField(node, "target", path)
		if err != nil {
			return nil, err
		}
		value, err := expressionField(node, "value", path)
		if err != nil {
			return nil, err
		}
		return NewAssignmentExpression(target, value), nil
	case NodeInvokeExpression:
		target, err := expressionField(node, "target", path)
		if err != nil {
			return nil, err
		}
		args, err := expressionList(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return NewInvokeExpression(target, args), nil
	case NodeMemberAccessExpression:
		target, err := expressionField(node, "target", path)
		if err != nil {
			return nil, err
		}
		return NewMemberAccessExpression(target, stringField(node, "member")), nil
	case NodeCastExpression:
		expr, err := expressionField(node, "expression", path)
		if err != nil {
			return nil, err
		}
		ref := typeField(node, "castType")
		if ref == nil {
			return nil, &DecodeError{Path: path, Message: "cast missing castType"}
		}
		return NewCastExpression(ref, expr), nil
	case NodeThisExpression:
		return NewThisExpression(), nil
	case NodeNewExpression:
		ref := typeField(node, "newType")
		if ref == nil {
			return nil, &DecodeError{Path: path, Message: "new missing newType"}
		}
		args, err := expressionList(node, "arguments", path)
		if err != nil {
			return nil, err
		}
		return NewNewExpression(ref, args), nil
	case "":
		return nil, &DecodeError{Path: path, Message: "node missing type"}
	default:
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("unsupported node type %q", typ)}
	}
}

func decodeChild(raw any, path string) (Node, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("expected object, got %T", raw)}
	}
	return decodeNode(child, path)
}

func asStatement(node Node, path string) (Statement, error) {
	switch n := node.(type) {
	case Statement:
		return n, nil
	case Expression:
		return NewExpressionStatement(n), nil
	default:
		return nil, &DecodeError{Path: path, Message: fmt.Sprintf("expected statement, got %s", node.NodeType())}
	}
}

func statementField(node map[string]any, key, path string) (Statement, error) {
	child, err := decodeChild(node[key], path+"."+key)
	if err != nil {
		return nil, err
	}
	return asStatement(child, path+"."+key)
}

func expressionField(node map[string]any, key, path string) (Expression, error) {
	child, err := decodeChild(node[key], path+"."+key)
	if err != nil {
		return nil, err
	}
	expr, ok := child.(Expression)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Message: fmt.Sprintf("expected expression, got %s", child.NodeType())}
	}
	return expr, nil
}

func optionalExpressionField(node map[string]any, key, path string) (Expression, error) {
	if node[key] == nil {
		return nil, nil
	}
	return expressionField(node, key, path)
}

func blockField(node map[string]any, key, path string) (*BlockStatement, error) {
	child, err := decodeChild(node[key], path+"."+key)
	if err != nil {
		return nil, err
	}
	block, ok := child.(*BlockStatement)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Message: fmt.Sprintf("expected BlockStatement, got %s", child.NodeType())}
	}
	return block, nil
}

func optionalBlockField(node map[string]any, key, path string) (*BlockStatement, error) {
	if node[key] == nil {
		return nil, nil
	}
	return blockField(node, key, path)
}

func expressionList(node map[string]any, key, path string) ([]Expression, error) {
	raws, err := listField(node, key, path)
	if err != nil {
		return nil, err
	}
	exprs := make([]Expression, 0, len(raws))
	for i, raw := range raws {
		child, err := decodeChild(raw, fmt.Sprintf("%s.%s[%d]", path, key, i))
		if err != nil {
			return nil, err
		}
		expr, ok := child.(Expression)
		if !ok {
			return nil, &DecodeError{Path: path, Message: fmt.Sprintf("invalid argument %s", child.NodeType())}
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func decodeParameters(node map[string]any, path string) ([]*Parameter, error) {
	raws, err := listField(node, "parameters", path)
	if err != nil {
		return nil, err
	}
	params := make([]*Parameter, 0, len(raws))
	for i, raw := range raws {
		entry, ok := raw.(map[string]any)
		if !ok {
			return nil, &DecodeError{Path: fmt.Sprintf("%s.parameters[%d]", path, i), Message: "expected object"}
		}
		params = append(params, NewParameter(stringField(entry, "name"), typeField(entry, "paramType")))
	}
	return params, nil
}

func listField(node map[string]any, key, path string) ([]any, error) {
	raw, ok := node[key]
	if !ok || raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &DecodeError{Path: path + "." + key, Message: fmt.Sprintf("expected list, got %T", raw)}
	}
	return list, nil
}

// typeField accepts either a bare type name or a TypeReference object.
func typeField(node map[string]any, key string) *TypeReference {
	return decodeTypeReference(node[key])
}

func decodeTypeReference(raw any) *TypeReference {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return nil
		}
		return NewTypeReference(v)
	case map[string]any:
		name, _ := v["name"].(string)
		if name == "" {
			return nil
		}
		return NewTypeReference(name)
	default:
		return nil
	}
}

func stringField(node map[string]any, key string) string {
	s, _ := node[key].(string)
	return s
}

func intField(node map[string]any, key string) int {
	switch v := node[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// numberText normalises literal text: YAML and JSON documents may carry the
// number itself rather than its text.
func numberText(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
