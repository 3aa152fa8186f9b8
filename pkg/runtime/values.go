package runtime

import (
	"fmt"
	"strconv"

	"eagle/interpreter-go/pkg/symbols"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindNil
	KindObject
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindNil:
		return "nil"
	case KindObject:
		return "object"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// IntegerValue holds an integer already wrapped to the width of Rep.
// Unsigned values keep their bit pattern in Val.
type IntegerValue struct {
	Val int64
	Rep symbols.Representation
}

func (v IntegerValue) Kind() Kind { return KindInteger }

// Uint reinterprets the value as unsigned.
func (v IntegerValue) Uint() uint64 { return uint64(v.Val) }

// Int builds an Int value.
func Int(v int64) IntegerValue { return IntegerValue{Val: v, Rep: symbols.RepInt} }

// MakeInteger wraps v to the width of rep.
func MakeInteger(v int64, rep symbols.Representation) IntegerValue {
	return IntegerValue{Val: wrap(v, rep), Rep: rep}
}

func wrap(v int64, rep symbols.Representation) int64 {
	switch rep {
	case symbols.RepI8:
		return int64(int8(v))
	case symbols.RepI16:
		return int64(int16(v))
	case symbols.RepI32:
		return int64(int32(v))
	case symbols.RepU8:
		return int64(uint8(v))
	case symbols.RepU16:
		return int64(uint16(v))
	case symbols.RepU32:
		return int64(uint32(v))
	default:
		return v
	}
}

type FloatValue struct {
	Val float64
	Rep symbols.Representation
}

func (v FloatValue) Kind() Kind { return KindFloat }

// MakeFloat rounds v to the precision of rep.
func MakeFloat(v float64, rep symbols.Representation) FloatValue {
	if rep == symbols.RepF32 {
		v = float64(float32(v))
	}
	return FloatValue{Val: v, Rep: rep}
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

// NilValue is the default value of struct-typed fields and of Any.
type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

//-----------------------------------------------------------------------------
// Objects & natives
//-----------------------------------------------------------------------------

// ObjectValue is a struct instance. Fields and property backing values are
// keyed by member handle.
type ObjectValue struct {
	Type   *symbols.TypeSymbol
	Fields *Store
}

func (v *ObjectValue) Kind() Kind { return KindObject }

// NewObject allocates an instance with every field, inherited ones included,
// preset to its default value.
func NewObject(typ *symbols.TypeSymbol) *ObjectValue {
	obj := &ObjectValue{Type: typ, Fields: NewStore()}
	presetFields(obj.Fields, typ, make(map[*symbols.TypeSymbol]bool))
	return obj
}

// presetFields defines the fields of typ and of its base types, visiting
// each type once.
func presetFields(store *Store, typ *symbols.TypeSymbol, seen map[*symbols.TypeSymbol]bool) {
	if seen[typ] {
		return
	}
	seen[typ] = true
	for _, base := range typ.BaseTypes() {
		presetFields(store, base, seen)
	}
	for _, field := range typ.Fields() {
		store.Define(field.ID(), DefaultValue(field.Type()))
	}
}

// NativeFunctionValue is a host built-in bound to an extern declaration.
type NativeFunctionValue struct {
	Name  string
	Arity int
	Impl  func(args []Value) (Value, error)
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

// DefaultValue derives the zero value of a type from its representation.
func DefaultValue(typ *symbols.TypeSymbol) Value {
	rep := typ.Representation()
	switch {
	case rep == symbols.RepBool:
		return BoolValue{}
	case rep.IsInteger():
		return IntegerValue{Rep: rep}
	case rep.IsFloat():
		return FloatValue{Rep: rep}
	case rep == symbols.RepString:
		return StringValue{}
	case rep == symbols.RepVoid:
		return VoidValue{}
	default:
		return NilValue{}
	}
}

// Stringify renders a value the way String conversion and concatenation do.
func Stringify(v Value) string {
	switch val := v.(type) {
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case IntegerValue:
		if val.Rep.Signed() {
			return strconv.FormatInt(val.Val, 10)
		}
		return strconv.FormatUint(val.Uint(), 10)
	case FloatValue:
		bits := 64
		if val.Rep == symbols.RepF32 {
			bits = 32
		}
		return strconv.FormatFloat(val.Val, 'g', -1, bits)
	case StringValue:
		return val.Val
	case NilValue:
		return "nil"
	case VoidValue:
		return ""
	case *ObjectValue:
		return val.Type.Name()
	case NativeFunctionValue:
		return "<native " + val.Name + ">"
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}
