package symbols

import (
	"errors"
	"testing"
)

func TestIntegerIdentityOnlyForSameType(t *testing.T) {
	for _, from := range IntegerTypes() {
		for _, to := range IntegerTypes() {
			got := ClassifyConversion(from, to)
			if got.IsIdentity() != (from == to) {
				t.Fatalf("%s -> %s: unexpected %s", from, to, got)
			}
			if !got.Exists() {
				t.Fatalf("%s -> %s: integer conversions always exist", from, to)
			}
		}
	}
}

func TestClassifyConversion(t *testing.T) {
	cases := []struct {
		from, to *TypeSymbol
		want     Conversion
	}{
		{Int8, Int64, ConversionImplicit},
		{Int64, Int8, ConversionExplicit},
		{UInt8, Int16, ConversionImplicit},
		{UInt32, Int32, ConversionExplicit},
		{Int8, UInt64, ConversionExplicit},
		{UInt16, UInt32, ConversionImplicit},
		{Int64, Int, ConversionImplicit},
		{UInt64, Int, ConversionExplicit},
		{Int, Float64, ConversionImplicit},
		{UInt8, Float32, ConversionImplicit},
		{Float64, Int, ConversionExplicit},
		{Float32, Float64, ConversionImplicit},
		{Float64, Float32, ConversionExplicit},
		{Int, Any, ConversionImplicit},
		{String, Any, ConversionImplicit},
		{Any, Boolean, ConversionExplicit},
		{Void, Any, ConversionNone},
		{Any, Void, ConversionNone},
		{Boolean, String, ConversionExplicit},
		{Int32, String, ConversionExplicit},
		{Float64, String, ConversionExplicit},
		{String, Int, ConversionExplicit},
		{String, Boolean, ConversionExplicit},
		{Boolean, Int, ConversionNone},
		{Error, Int, ConversionNone},
		{Int, Error, ConversionNone},
	}
	for _, tc := range cases {
		if got := ClassifyConversion(tc.from, tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %s, got %s", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestConversionHelpers(t *testing.T) {
	if !ConversionIdentity.IsImplicit() || ConversionIdentity.IsExplicit() {
		t.Fatalf("identity is an implicit conversion")
	}
	if ConversionNone.Exists() || ConversionNone.IsImplicit() {
		t.Fatalf("none must not exist")
	}
	if !ConversionExplicit.Exists() || ConversionExplicit.IsImplicit() {
		t.Fatalf("explicit exists but is not implicit")
	}
}

func TestLockedTypeRejectsMutation(t *testing.T) {
	typ := NewAggregate("A")
	field := NewField("b", Int, typ, 0)
	if err := typ.AddMember(field); err != nil {
		t.Fatalf("unexpected error before lock: %v", err)
	}
	typ.Lock()

	err := typ.AddMember(NewField("c", Int, typ, 1))
	var locked *TypeLockedError
	if !errors.As(err, &locked) || locked.Type != "A" || locked.Member != "c" {
		t.Fatalf("expected TypeLockedError, got %v", err)
	}
	if err := typ.AddBaseType(NewAggregate("B")); !errors.As(err, &locked) {
		t.Fatalf("expected TypeLockedError for base type, got %v", err)
	}
	if len(typ.Members()) != 1 {
		t.Fatalf("locked type gained members")
	}
}

func TestBuiltinsAreLockedAndAliased(t *testing.T) {
	for _, typ := range BuiltinTypes() {
		if !typ.Locked() {
			t.Fatalf("%s should be locked", typ)
		}
	}
	for name, want := range map[string]*TypeSymbol{"int": Int, "bool": Boolean, "u8": UInt8, "Float64": Float64, "any": Any} {
		got, ok := LookupBuiltin(name)
		if !ok || got != want {
			t.Fatalf("lookup %q: got %v", name, got)
		}
	}
	if _, ok := LookupBuiltin("?"); ok {
		t.Fatalf("the error type must not be nameable")
	}
}

func TestIsAssignableFrom(t *testing.T) {
	base := NewAggregate("Base")
	mid := NewAggregate("Mid")
	leaf := NewAggregate("Leaf")
	if err := mid.AddBaseType(base); err != nil {
		t.Fatal(err)
	}
	if err := leaf.AddBaseType(mid); err != nil {
		t.Fatal(err)
	}

	if !base.IsAssignableFrom(leaf) {
		t.Fatalf("expected Leaf to be assignable to Base")
	}
	if leaf.IsAssignableFrom(base) {
		t.Fatalf("Base must not be assignable to Leaf")
	}
	if !Int64.IsAssignableFrom(Int8) || Int8.IsAssignableFrom(Int64) {
		t.Fatalf("integer assignability follows implicit conversions")
	}
	if !Any.IsAssignableFrom(leaf) {
		t.Fatalf("every value type is assignable to Any")
	}
}

func TestDerivesFromTerminatesOnCycles(t *testing.T) {
	a := NewAggregate("A")
	b := NewAggregate("B")
	if err := a.AddBaseType(b); err != nil {
		t.Fatal(err)
	}
	if err := b.AddBaseType(a); err != nil {
		t.Fatal(err)
	}
	if !a.DerivesFrom(b) || !b.DerivesFrom(a) {
		t.Fatalf("both types lie on the cycle")
	}
	unrelated := NewAggregate("C")
	if a.DerivesFrom(unrelated) || unrelated.IsAssignableFrom(a) {
		t.Fatalf("C is outside the cycle")
	}
}

func TestSymbolIDsAreUnique(t *testing.T) {
	a := NewVariable("x", false, Int)
	b := NewVariable("x", false, Int)
	if a.ID() == b.ID() {
		t.Fatalf("symbols with equal names must have distinct handles")
	}
}

func TestPropertyAccessorNames(t *testing.T) {
	owner := NewAggregate("A")
	prop := NewProperty("P", Int, owner, true)
	if prop.Getter.Name() != "<>Get_P" || prop.Setter.Name() != "<>Set_P" {
		t.Fatalf("unexpected accessor names %s, %s", prop.Getter, prop.Setter)
	}
	if len(prop.Setter.Parameters()) != 1 || prop.Setter.ReturnType() != Void {
		t.Fatalf("unexpected setter signature")
	}
	if NewProperty("Q", Int, owner, false).Setter != nil {
		t.Fatalf("read-only property must not have a setter")
	}
}
