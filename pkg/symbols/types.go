package symbols

import "strings"

// Representation tags the run-time shape of a type's values.
type Representation int

const (
	RepVoid Representation = iota
	RepBool
	RepI8
	RepI16
	RepI32
	RepI64
	RepU8
	RepU16
	RepU32
	RepU64
	RepInt
	RepUInt
	RepF32
	RepF64
	RepString
	RepAny
	RepAggregate
	RepError
)

func (r Representation) IsInteger() bool { return r >= RepI8 && r <= RepUInt }
func (r Representation) IsFloat() bool   { return r == RepF32 || r == RepF64 }
func (r Representation) IsNumeric() bool { return r.IsInteger() || r.IsFloat() }

func (r Representation) Signed() bool {
	switch r {
	case RepI8, RepI16, RepI32, RepI64, RepInt, RepF32, RepF64:
		return true
	}
	return false
}

// Bits is the width of a numeric representation. Int and UInt are 64 bits wide.
func (r Representation) Bits() int {
	switch r {
	case RepI8, RepU8:
		return 8
	case RepI16, RepU16:
		return 16
	case RepI32, RepU32, RepF32:
		return 32
	case RepI64, RepU64, RepInt, RepUInt, RepF64:
		return 64
	}
	return 0
}

// TypeSymbol is a built-in or declared type. Aggregates accumulate bases and
// members until Lock.
type TypeSymbol struct {
	symbolBase
	rep     Representation
	bases   []*TypeSymbol
	members []Symbol
	locked  bool
}

func newType(name string, rep Representation) *TypeSymbol {
	return &TypeSymbol{symbolBase: newBase(name), rep: rep}
}

// NewAggregate creates an unlocked struct type.
func NewAggregate(name string) *TypeSymbol {
	return newType(name, RepAggregate)
}

func (t *TypeSymbol) Kind() Kind                     { return KindType }
func (t *TypeSymbol) Representation() Representation { return t.rep }
func (t *TypeSymbol) IsInteger() bool                { return t.rep.IsInteger() }
func (t *TypeSymbol) IsFloat() bool                  { return t.rep.IsFloat() }
func (t *TypeSymbol) IsNumeric() bool                { return t.rep.IsNumeric() }
func (t *TypeSymbol) IsAggregate() bool              { return t.rep == RepAggregate }
func (t *TypeSymbol) IsError() bool                  { return t.rep == RepError }
func (t *TypeSymbol) Signed() bool                   { return t.rep.Signed() }
func (t *TypeSymbol) Bits() int                      { return t.rep.Bits() }
func (t *TypeSymbol) Locked() bool                   { return t.locked }

func (t *TypeSymbol) Lock() { t.locked = true }

func (t *TypeSymbol) BaseTypes() []*TypeSymbol {
	return append([]*TypeSymbol(nil), t.bases...)
}

func (t *TypeSymbol) Members() []Symbol {
	return append([]Symbol(nil), t.members...)
}

func (t *TypeSymbol) AddMember(member Symbol) error {
	if t.locked {
		return &TypeLockedError{Type: t.name, Member: member.Name()}
	}
	t.members = append(t.members, member)
	return nil
}

func (t *TypeSymbol) AddBaseType(base *TypeSymbol) error {
	if t.locked {
		return &TypeLockedError{Type: t.name, Member: base.Name()}
	}
	t.bases = append(t.bases, base)
	return nil
}

// LookupMember returns the first non-constructor member with the given name.
func (t *TypeSymbol) LookupMember(name string) (Symbol, bool) {
	for _, member := range t.members {
		if member.Kind() == KindConstructor {
			continue
		}
		if member.Name() == name {
			return member, true
		}
	}
	return nil, false
}

// Fields lists the declared fields in declaration order.
func (t *TypeSymbol) Fields() []*FieldSymbol {
	var fields []*FieldSymbol
	for _, member := range t.members {
		if field, ok := member.(*FieldSymbol); ok {
			fields = append(fields, field)
		}
	}
	return fields
}

func (t *TypeSymbol) Constructors() []*ConstructorSymbol {
	var ctors []*ConstructorSymbol
	for _, member := range t.members {
		if ctor, ok := member.(*ConstructorSymbol); ok {
			ctors = append(ctors, ctor)
		}
	}
	return ctors
}

// Constructor picks the constructor taking argc arguments.
func (t *TypeSymbol) Constructor(argc int) (*ConstructorSymbol, bool) {
	for _, ctor := range t.Constructors() {
		if len(ctor.params) == argc {
			return ctor, true
		}
	}
	return nil, false
}

// DerivesFrom reports whether base appears in t's base-type graph. Each type
// is visited once, so a cyclic graph still terminates.
func (t *TypeSymbol) DerivesFrom(base *TypeSymbol) bool {
	return t.derivesFrom(base, make(map[*TypeSymbol]bool))
}

func (t *TypeSymbol) derivesFrom(base *TypeSymbol, seen map[*TypeSymbol]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true
	for _, b := range t.bases {
		if b == base || b.derivesFrom(base, seen) {
			return true
		}
	}
	return false
}

// IsAssignableFrom reports whether a value of other can be stored in t
// without a cast.
func (t *TypeSymbol) IsAssignableFrom(other *TypeSymbol) bool {
	if t == other {
		return true
	}
	if ClassifyConversion(other, t).IsImplicit() {
		return true
	}
	return t.IsAggregate() && other.DerivesFrom(t)
}

// Built-in types.
var (
	Void    = builtin("Void", RepVoid)
	Boolean = builtin("Boolean", RepBool)
	Int8    = builtin("Int8", RepI8)
	Int16   = builtin("Int16", RepI16)
	Int32   = builtin("Int32", RepI32)
	Int64   = builtin("Int64", RepI64)
	UInt8   = builtin("UInt8", RepU8)
	UInt16  = builtin("UInt16", RepU16)
	UInt32  = builtin("UInt32", RepU32)
	UInt64  = builtin("UInt64", RepU64)
	Int     = builtin("Int", RepInt)
	UInt    = builtin("UInt", RepUInt)
	Float32 = builtin("Float32", RepF32)
	Float64 = builtin("Float64", RepF64)
	String  = builtin("String", RepString)
	Any     = builtin("Any", RepAny)
	Error   = builtin("?", RepError)
)

func builtin(name string, rep Representation) *TypeSymbol {
	t := newType(name, rep)
	t.Lock()
	return t
}

var builtinsByName = map[string]*TypeSymbol{}

func init() {
	for _, t := range BuiltinTypes() {
		builtinsByName[t.name] = t
	}
	aliases := map[string]*TypeSymbol{
		"void": Void, "bool": Boolean,
		"i8": Int8, "i16": Int16, "i32": Int32, "i64": Int64,
		"u8": UInt8, "u16": UInt16, "u32": UInt32, "u64": UInt64,
		"int": Int, "uint": UInt, "f32": Float32, "f64": Float64,
		"string": String, "any": Any,
	}
	for name, t := range aliases {
		builtinsByName[name] = t
	}
}

// BuiltinTypes lists the built-in types that user code can name.
func BuiltinTypes() []*TypeSymbol {
	return []*TypeSymbol{
		Void, Boolean,
		Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Int, UInt,
		Float32, Float64, String, Any,
	}
}

// IntegerTypes lists every integer built-in.
func IntegerTypes() []*TypeSymbol {
	return []*TypeSymbol{Int8, Int16, Int32, Int64, UInt8, UInt16, UInt32, UInt64, Int, UInt}
}

// LookupBuiltin resolves a built-in type by name or keyword spelling.
func LookupBuiltin(name string) (*TypeSymbol, bool) {
	t, ok := builtinsByName[strings.TrimSpace(name)]
	return t, ok
}
