package typesystem

import (
	"errors"
	"testing"
)

func TestCommonType(t *testing.T) {
	shape := NewInterface("demo.Shape")
	circle := NewClass("demo.Circle", Public, nil, shape)
	square := NewClass("demo.Square", Public, nil, shape)
	base := NewClass("demo.Base", Public, nil, shape)
	left := NewClass("demo.Left", Public, base)
	right := NewClass("demo.Right", Public, base)

	tests := []struct {
		name string
		a, b Type
		want Type
	}{
		{"same", String, String, String},
		{"null left", Null, String, String},
		{"null right", Integer, Null, Integer},
		{"root wins", Object, String, Object},
		{"int and Double", PrimInt, Double, PrimDouble},
		{"Float and long", Float, PrimLong, PrimFloat},
		{"int and long", PrimInt, PrimLong, PrimLong},
		{"Integer and Short", Integer, Short, PrimInt},
		{"Byte and Short", Byte, Short, Number},
		{"byte and short", PrimByte, PrimShort, Number},
		{"int and char", PrimInt, PrimChar, PrimInt},
		{"BigInteger and BigDecimal", BigInteger, BigDecimal, Number},
		{"Short and BigDecimal", Short, BigDecimal, Number},
		{"shared interface", circle, square, shape},
		{"shared superclass before interface", left, right, base},
		{"list and array list", List, ArrayList, List},
		{"unrelated", circle, Number, Object},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommonType(tt.a, tt.b)
			if !Same(got, tt.want) {
				t.Errorf("CommonType(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCommonTypeCharacterIsNotWidened(t *testing.T) {
	for _, other := range []Type{Byte, Short} {
		got := CommonType(Character, other)
		if Same(got, PrimInt) || Same(got, Number) {
			t.Errorf("CommonType(Character, %v) = %v", other, got)
		}
		if !IsAssignableFrom(got, Character) || !IsAssignableFrom(got, other) {
			t.Errorf("CommonType(Character, %v) = %v is not a supertype of both", other, got)
		}
	}
}

func TestCommonTypeSymmetricAndSound(t *testing.T) {
	reg := NewRegistry()
	shape := NewInterface("demo.Shape")
	circle := NewClass("demo.Circle", Public, nil, shape)
	square := NewClass("demo.Square", Public, nil, shape, Cloneable)

	types := []Type{
		Null, PrimBoolean, PrimChar, PrimByte, PrimShort, PrimInt, PrimLong, PrimFloat, PrimDouble,
		Boolean, Character, Byte, Short, Integer, Long, Float, Double,
		Number, BigInteger, BigDecimal, String, GString, CharSequence,
		Comparable, Collection, List, ArrayList, Instantiate(ArrayList, String),
		reg.ArrayOf(String), reg.ArrayOf(PrimInt),
		shape, circle, square,
	}
	for _, a := range types {
		for _, b := range types {
			ab := CommonType(a, b)
			ba := CommonType(b, a)
			if !Same(ab, ba) {
				t.Errorf("CommonType(%v, %v) = %v but CommonType(%v, %v) = %v", a, b, ab, b, a, ba)
			}
			if !IsAssignableFrom(ab, a) || !IsAssignableFrom(ab, b) {
				t.Errorf("CommonType(%v, %v) = %v does not accept both operands", a, b, ab)
			}
		}
	}
}

func TestCommonTypeRejectsUnresolved(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInternal) {
			t.Fatalf("expected ErrInternal panic, got %v", r)
		}
	}()
	CommonType(String, nil)
}

func TestAllTypesOrder(t *testing.T) {
	got := AllTypes(ArrayList)
	want := []string{
		"java.util.ArrayList",
		"java.util.List",
		"java.io.Serializable",
		"java.lang.Cloneable",
		"java.util.Collection",
		"java.lang.Iterable",
		"java.lang.Object",
	}
	if len(got) != len(want) {
		t.Fatalf("AllTypes(ArrayList) = %v, want %v", got, want)
	}
	for i, name := range want {
		if Redirect(got[i]).Name != name {
			t.Errorf("AllTypes(ArrayList)[%d] = %v, want %s", i, got[i], name)
		}
	}

	// Interfaces keep the arguments they were declared with.
	if args := Args(got[1]); len(args) != 1 || args[0].Type != ArrayList.TypeParams[0] {
		t.Errorf("List entry lost its binding: %v", got[1])
	}
}

func TestAllTypesOfInterfaceStartsWithItself(t *testing.T) {
	got := AllTypes(List)
	if len(got) == 0 || got[0] != List {
		t.Fatalf("AllTypes(List) = %v", got)
	}
	if !Same(got[len(got)-1], Object) {
		t.Errorf("Object should come last, got %v", got)
	}
}
