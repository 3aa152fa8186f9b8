package interpreter

import (
	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/runtime"
	"eagle/interpreter-go/pkg/symbols"
)

// labelIndex maps each label of block to the position after it. The map is
// built once per block.
func (i *Interpreter) labelIndex(block *binder.BlockStatement) map[*symbols.LabelSymbol]int {
	if index, ok := i.labels[block]; ok {
		return index
	}
	index := make(map[*symbols.LabelSymbol]int)
	for pos, stmt := range block.Statements {
		if label, ok := stmt.(*binder.LabelStatement); ok {
			index[label.Label] = pos + 1
		}
	}
	i.labels[block] = index
	return index
}

// executeBlock runs a flat block with an explicit instruction pointer.
func (i *Interpreter) executeBlock(block *binder.BlockStatement, fr *frame) (runtime.Value, error) {
	index := i.labelIndex(block)
	jump := func(label *symbols.LabelSymbol) (int, error) {
		pos, ok := index[label]
		if !ok {
			return 0, faultf("unknown label '%s'", label.Name())
		}
		return pos, nil
	}

	var last runtime.Value = runtime.VoidValue{}
	for ip := 0; ip < len(block.Statements); {
		switch s := block.Statements[ip].(type) {
		case *binder.VariableDeclaration:
			val, err := i.evaluateExpression(s.Initializer, fr)
			if err != nil {
				return nil, err
			}
			i.storeFor(s.Symbol, fr).Define(s.Symbol.ID(), val)
			last = val
			ip++
		case *binder.ExpressionStatement:
			val, err := i.evaluateExpression(s.Expression, fr)
			if err != nil {
				return nil, err
			}
			last = val
			ip++
		case *binder.GotoStatement:
			pos, err := jump(s.Label)
			if err != nil {
				return nil, err
			}
			ip = pos
		case *binder.ConditionalGotoStatement:
			cond, err := i.evaluateExpression(s.Condition, fr)
			if err != nil {
				return nil, err
			}
			b, ok := cond.(runtime.BoolValue)
			if !ok {
				return nil, faultf("condition evaluated to %s", cond.Kind())
			}
			if b.Val != s.JumpIfTrue {
				ip++
				continue
			}
			pos, err := jump(s.Label)
			if err != nil {
				return nil, err
			}
			ip = pos
		case *binder.LabelStatement:
			ip++
		default:
			return nil, faultf("unexpected %s in lowered block", s.Kind())
		}
	}
	return last, nil
}

// storeFor picks the store that holds variable.
func (i *Interpreter) storeFor(variable *symbols.VariableSymbol, fr *frame) *runtime.Store {
	if variable.Global() || fr == nil {
		return i.globals
	}
	return fr.locals
}
