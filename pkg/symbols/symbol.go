package symbols

import (
	"fmt"
	"sync/atomic"
)

// ID is the stable handle of a symbol. Run-time stores are keyed by ID.
type ID uint64

var nextID atomic.Uint64

func newID() ID { return ID(nextID.Add(1)) }

type Kind int

const (
	KindVariable Kind = iota
	KindParameter
	KindFunction
	KindType
	KindField
	KindProperty
	KindMethod
	KindConstructor
	KindLabel
	KindConst
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "Variable"
	case KindParameter:
		return "Parameter"
	case KindFunction:
		return "Function"
	case KindType:
		return "Type"
	case KindField:
		return "Field"
	case KindProperty:
		return "Property"
	case KindMethod:
		return "Method"
	case KindConstructor:
		return "Constructor"
	case KindLabel:
		return "Label"
	case KindConst:
		return "Const"
	case KindAlias:
		return "Alias"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Symbol is an identity-bearing reference to a declared entity.
type Symbol interface {
	ID() ID
	Name() string
	Kind() Kind
	String() string
}

// Typed is implemented by symbols that denote a value of a type.
type Typed interface {
	Symbol
	Type() *TypeSymbol
}

// Invokable is implemented by functions, methods and constructors.
type Invokable interface {
	Symbol
	Parameters() []*ParameterSymbol
	ReturnType() *TypeSymbol
}

// Member is implemented by symbols declared inside a type.
type Member interface {
	Symbol
	DeclaringType() *TypeSymbol
}

type symbolBase struct {
	id   ID
	name string
}

func newBase(name string) symbolBase { return symbolBase{id: newID(), name: name} }

func (s symbolBase) ID() ID         { return s.id }
func (s symbolBase) Name() string   { return s.name }
func (s symbolBase) String() string { return s.name }

type VariableSymbol struct {
	symbolBase
	readOnly bool
	typ      *TypeSymbol
	global   bool
}

func NewVariable(name string, readOnly bool, typ *TypeSymbol) *VariableSymbol {
	return &VariableSymbol{symbolBase: newBase(name), readOnly: readOnly, typ: typ}
}

// NewGlobalVariable declares a variable of the global store.
func NewGlobalVariable(name string, readOnly bool, typ *TypeSymbol) *VariableSymbol {
	v := NewVariable(name, readOnly, typ)
	v.global = true
	return v
}

func (v *VariableSymbol) Kind() Kind        { return KindVariable }
func (v *VariableSymbol) Type() *TypeSymbol { return v.typ }
func (v *VariableSymbol) ReadOnly() bool    { return v.readOnly }
func (v *VariableSymbol) Global() bool      { return v.global }

type ParameterSymbol struct {
	symbolBase
	typ     *TypeSymbol
	ordinal int
}

func NewParameter(name string, typ *TypeSymbol, ordinal int) *ParameterSymbol {
	return &ParameterSymbol{symbolBase: newBase(name), typ: typ, ordinal: ordinal}
}

func (p *ParameterSymbol) Kind() Kind        { return KindParameter }
func (p *ParameterSymbol) Type() *TypeSymbol { return p.typ }
func (p *ParameterSymbol) Ordinal() int      { return p.ordinal }

type FunctionSymbol struct {
	symbolBase
	params     []*ParameterSymbol
	returnType *TypeSymbol
	extern     bool
}

func NewFunction(name string, params []*ParameterSymbol, returnType *TypeSymbol) *FunctionSymbol {
	return &FunctionSymbol{symbolBase: newBase(name), params: params, returnType: returnType}
}

// NewExtern declares a function whose body is provided by the host.
func NewExtern(name string, params []*ParameterSymbol, returnType *TypeSymbol) *FunctionSymbol {
	fn := NewFunction(name, params, returnType)
	fn.extern = true
	return fn
}

func (f *FunctionSymbol) Kind() Kind                     { return KindFunction }
func (f *FunctionSymbol) Parameters() []*ParameterSymbol { return f.params }
func (f *FunctionSymbol) ReturnType() *TypeSymbol        { return f.returnType }
func (f *FunctionSymbol) Extern() bool                   { return f.extern }

type ConstSymbol struct {
	symbolBase
	typ *TypeSymbol
}

func NewConst(name string, typ *TypeSymbol) *ConstSymbol {
	return &ConstSymbol{symbolBase: newBase(name), typ: typ}
}

func (c *ConstSymbol) Kind() Kind        { return KindConst }
func (c *ConstSymbol) Type() *TypeSymbol { return c.typ }

// AliasSymbol names another type.
type AliasSymbol struct {
	symbolBase
	target *TypeSymbol
}

func NewAlias(name string, target *TypeSymbol) *AliasSymbol {
	return &AliasSymbol{symbolBase: newBase(name), target: target}
}

func (a *AliasSymbol) Kind() Kind          { return KindAlias }
func (a *AliasSymbol) Target() *TypeSymbol { return a.target }

// LabelSymbol is a jump target produced by lowering. It is never declared in a scope.
type LabelSymbol struct {
	symbolBase
}

func NewLabel(name string) *LabelSymbol {
	return &LabelSymbol{symbolBase: newBase(name)}
}

func (l *LabelSymbol) Kind() Kind { return KindLabel }
