package codegen

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"eagle/interpreter-go/pkg/binder"
	"eagle/interpreter-go/pkg/lowerer"
	"eagle/interpreter-go/pkg/symbols"
)

// ErrUnsupported marks a construct outside the integer/Boolean subset.
var ErrUnsupported = errors.New("codegen: unsupported")

// EntryName is the function holding the global statements.
const EntryName = "main"

func unsupported(what fmt.Stringer) error {
	return fmt.Errorf("%w: %s", ErrUnsupported, what)
}

type emitter struct {
	module  *ir.Module
	funcs   map[symbols.ID]*ir.Func
	globals map[symbols.ID]*ir.Global
}

// EmitModule translates a lowered unit into an LLVM module. Free functions,
// externs and global statements over integer and Boolean types are supported.
func EmitModule(unit *binder.Unit) (*ir.Module, error) {
	e := &emitter{
		module:  ir.NewModule(),
		funcs:   make(map[symbols.ID]*ir.Func),
		globals: make(map[symbols.ID]*ir.Global),
	}

	var bodies []*binder.FunctionDeclaration
	for _, decl := range unit.Declarations {
		switch d := decl.(type) {
		case *binder.FunctionDeclaration:
			fn, err := e.declare(d.Symbol)
			if err != nil {
				return nil, err
			}
			if d.Symbol.Name() == EntryName && unit.Body != nil && len(unit.Body.Statements) > 0 {
				return nil, fmt.Errorf("%w: function named %s alongside global statements", ErrUnsupported, EntryName)
			}
			e.funcs[d.Symbol.ID()] = fn
			bodies = append(bodies, d)
		case *binder.ExternDeclaration:
			fn, err := e.declare(d.Symbol)
			if err != nil {
				return nil, err
			}
			e.funcs[d.Symbol.ID()] = fn
		case *binder.ConstDeclaration, *binder.AliasDeclaration:
		default:
			return nil, unsupported(decl.Kind())
		}
	}

	hasEntry := unit.Body != nil && len(unit.Body.Statements) > 0
	if hasEntry {
		if !lowerer.IsFlat(unit.Body) {
			return nil, errors.New("codegen: global statements are not lowered")
		}
		if err := e.declareGlobals(unit.Body); err != nil {
			return nil, err
		}
	}

	for _, d := range bodies {
		if !lowerer.IsFlat(d.Body) {
			return nil, fmt.Errorf("codegen: body of %s is not lowered", d.Symbol.Name())
		}
		if err := e.emitBody(e.funcs[d.Symbol.ID()], d.Symbol.Parameters(), d.Body); err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", d.Symbol.Name(), err)
		}
	}

	if hasEntry {
		entry := e.module.NewFunc(EntryName, types.Void)
		if err := e.emitBody(entry, nil, unit.Body); err != nil {
			return nil, fmt.Errorf("codegen: %s: %w", EntryName, err)
		}
	}
	return e.module, nil
}

func (e *emitter) declare(sym *symbols.FunctionSymbol) (*ir.Func, error) {
	ret, err := llvmType(sym.ReturnType())
	if err != nil {
		return nil, err
	}
	params := make([]*ir.Param, 0, len(sym.Parameters()))
	for _, param := range sym.Parameters() {
		typ, err := llvmType(param.Type())
		if err != nil {
			return nil, err
		}
		if typ == types.Void {
			return nil, unsupported(param.Type())
		}
		params = append(params, ir.NewParam(param.Name(), typ))
	}
	return e.module.NewFunc(sym.Name(), ret, params...), nil
}

// declareGlobals gives every top-level variable a zero-initialized global.
func (e *emitter) declareGlobals(body *binder.BlockStatement) error {
	for _, stmt := range body.Statements {
		decl, ok := stmt.(*binder.VariableDeclaration)
		if !ok || !decl.Symbol.Global() {
			continue
		}
		if _, seen := e.globals[decl.Symbol.ID()]; seen {
			continue
		}
		typ, err := llvmType(decl.Symbol.Type())
		if err != nil {
			return err
		}
		intType, ok := typ.(*types.IntType)
		if !ok {
			return unsupported(decl.Symbol.Type())
		}
		e.globals[decl.Symbol.ID()] = e.module.NewGlobalDef(decl.Symbol.Name(), constant.NewInt(intType, 0))
	}
	return nil
}

// llvmType maps a type symbol to its LLVM type. Nil is Void.
func llvmType(typ *symbols.TypeSymbol) (types.Type, error) {
	if typ == nil {
		return types.Void, nil
	}
	switch typ.Representation() {
	case symbols.RepVoid:
		return types.Void, nil
	case symbols.RepBool:
		return types.I1, nil
	case symbols.RepI8, symbols.RepU8:
		return types.I8, nil
	case symbols.RepI16, symbols.RepU16:
		return types.I16, nil
	case symbols.RepI32, symbols.RepU32:
		return types.I32, nil
	case symbols.RepI64, symbols.RepU64, symbols.RepInt, symbols.RepUInt:
		return types.I64, nil
	default:
		return nil, unsupported(typ)
	}
}

// function is the state of one body being emitted.
type function struct {
	*emitter
	fn     *ir.Func
	entry  *ir.Block
	block  *ir.Block
	locals map[symbols.ID]value.Value
	blocks map[*symbols.LabelSymbol]*ir.Block
	result *ir.InstAlloca
	ret    types.Type
}

func (e *emitter) emitBody(fn *ir.Func, params []*symbols.ParameterSymbol, body *binder.BlockStatement) error {
	f := &function{
		emitter: e,
		fn:      fn,
		locals:  make(map[symbols.ID]value.Value),
		blocks:  make(map[*symbols.LabelSymbol]*ir.Block),
		ret:     fn.Sig.RetType,
	}
	f.entry = fn.NewBlock("entry")
	f.block = f.entry
	for idx, param := range params {
		slot := f.entry.NewAlloca(fn.Params[idx].Typ)
		f.entry.NewStore(fn.Params[idx], slot)
		f.locals[param.ID()] = slot
	}
	if f.ret != types.Void {
		f.result = f.entry.NewAlloca(f.ret)
		f.entry.NewStore(constant.NewInt(f.ret.(*types.IntType), 0), f.result)
	}
	for _, stmt := range body.Statements {
		if label, ok := stmt.(*binder.LabelStatement); ok {
			f.blocks[label.Label] = fn.NewBlock(label.Label.Name())
		}
	}

	for _, stmt := range body.Statements {
		if err := f.emitStatement(stmt); err != nil {
			return err
		}
	}
	for _, block := range fn.Blocks {
		if block.Term != nil {
			continue
		}
		if f.result == nil {
			block.NewRet(nil)
		} else {
			block.NewRet(block.NewLoad(f.ret, f.result))
		}
	}
	return nil
}

func (f *function) target(label *symbols.LabelSymbol) (*ir.Block, error) {
	block, ok := f.blocks[label]
	if !ok {
		return nil, fmt.Errorf("unknown label %s", label.Name())
	}
	return block, nil
}

func (f *function) emitStatement(stmt binder.Statement) error {
	switch s := stmt.(type) {
	case *binder.VariableDeclaration:
		val, err := f.emitExpression(s.Initializer)
		if err != nil {
			return err
		}
		if val == nil {
			return fmt.Errorf("%w: void initializer of %s", ErrUnsupported, s.Symbol.Name())
		}
		slot, err := f.slot(s.Symbol)
		if err != nil {
			return err
		}
		f.block.NewStore(val, slot)
		f.record(s.Initializer.Type(), val)
	case *binder.ExpressionStatement:
		val, err := f.emitExpression(s.Expression)
		if err != nil {
			return err
		}
		f.record(s.Expression.Type(), val)
	case *binder.LabelStatement:
		next := f.blocks[s.Label]
		if f.block.Term == nil {
			f.block.NewBr(next)
		}
		f.block = next
	case *binder.GotoStatement:
		dest, err := f.target(s.Label)
		if err != nil {
			return err
		}
		f.block.NewBr(dest)
		f.block = f.fn.NewBlock("")
	case *binder.ConditionalGotoStatement:
		cond, err := f.emitExpression(s.Condition)
		if err != nil {
			return err
		}
		dest, err := f.target(s.Label)
		if err != nil {
			return err
		}
		next := f.fn.NewBlock("")
		if s.JumpIfTrue {
			f.block.NewCondBr(cond, dest, next)
		} else {
			f.block.NewCondBr(cond, next, dest)
		}
		f.block = next
	default:
		return unsupported(stmt.Kind())
	}
	return nil
}

// record stores val as the running result when it has the return type.
func (f *function) record(typ *symbols.TypeSymbol, val value.Value) {
	if f.result == nil || val == nil {
		return
	}
	if t, err := llvmType(typ); err == nil && t.Equal(f.ret) {
		f.block.NewStore(val, f.result)
	}
}

// slot returns the storage of a variable, allocating locals on first use.
func (f *function) slot(sym *symbols.VariableSymbol) (value.Value, error) {
	if sym.Global() {
		global, ok := f.globals[sym.ID()]
		if !ok {
			return nil, fmt.Errorf("%w: global %s read outside %s", ErrUnsupported, sym.Name(), EntryName)
		}
		return global, nil
	}
	if slot, ok := f.locals[sym.ID()]; ok {
		return slot, nil
	}
	typ, err := llvmType(sym.Type())
	if err != nil {
		return nil, err
	}
	slot := f.entry.NewAlloca(typ)
	f.locals[sym.ID()] = slot
	return slot, nil
}
