package typesystem

import "testing"

func TestIsAssignableFrom(t *testing.T) {
	reg := NewRegistry()
	runnable := NewInterface("demo.Runnable")
	task := NewClass("demo.Task", Public, nil, runnable)
	subTask := NewClass("demo.SubTask", Public, task)

	tests := []struct {
		name     string
		to, from Type
		want     bool
	}{
		{"Number from Integer", Number, Integer, true},
		{"Integer from Number", Integer, Number, false},
		{"Object from Null", Object, Null, true},
		{"Object from int", Object, PrimInt, true},
		{"Object from user class", Object, task, true},
		{"anything from Null", String, Null, true},
		{"anything from unset", Integer, nil, true},
		{"int from Integer", PrimInt, Integer, true},
		{"Integer from int", Integer, PrimInt, true},
		{"long from int", PrimLong, PrimInt, true},
		{"int from double", PrimInt, PrimDouble, true},
		{"int from char", PrimInt, PrimChar, true},
		{"BigDecimal from long", BigDecimal, PrimLong, true},
		{"char from String", PrimChar, String, true},
		{"String from GString", String, GString, true},
		{"String from Integer", String, Integer, false},
		{"Integer from String", Integer, String, false},
		{"boolean from int", PrimBoolean, PrimInt, false},
		{"array from collection", reg.ArrayOf(String), ArrayList, true},
		{"array from String", reg.ArrayOf(String), String, false},
		{"interface from implementor", runnable, task, true},
		{"interface from subclass", runnable, subTask, true},
		{"superclass from subclass", task, subTask, true},
		{"subclass from superclass", subTask, task, false},
		{"generic interface from implementor", Instantiate(List, String), ArrayList, true},
		{"Comparable from Integer", Comparable, Integer, true},
		{"Serializable from int", Serializable, PrimInt, true},
		{"CharSequence from String", CharSequence, String, true},
		{"Cloneable from array", Cloneable, reg.ArrayOf(PrimInt), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAssignableFrom(tt.to, tt.from); got != tt.want {
				t.Errorf("IsAssignableFrom(%v, %v) = %v, want %v", tt.to, tt.from, got, tt.want)
			}
		})
	}
}

func TestImplementsInterfaceTransitive(t *testing.T) {
	if !ImplementsInterface(ArrayList, Iterable) {
		t.Error("ArrayList should implement Iterable through List and Collection")
	}
	if ImplementsInterface(String, Iterable) {
		t.Error("String should not implement Iterable")
	}

	// A malformed self-extending interface must not hang the walk.
	loop := NewInterface("demo.Loop")
	loop.Interfaces = []Type{loop}
	impl := NewClass("demo.Impl", Public, nil, loop)
	if ImplementsInterface(impl, Comparable) {
		t.Error("unexpected Comparable through cyclic interface")
	}
}

func TestClassification(t *testing.T) {
	if IsNumerical(Number) {
		t.Error("Number itself must not be numerical")
	}
	for _, n := range []Type{PrimInt, PrimChar, Character, BigDecimal, BigInteger, Double} {
		if !IsNumerical(n) {
			t.Errorf("%v should be numerical", n)
		}
	}
	for _, n := range []Type{Integer, Byte, Short, Character, Boolean} {
		if !IsIntegral(n) {
			t.Errorf("%v should be integral", n)
		}
	}
	if IsIntegral(Long) {
		t.Error("Long is not int-sized")
	}
	if !IsWide(PrimLong) || !IsWide(PrimDouble) || IsWide(Long) || IsWide(PrimInt) {
		t.Error("only long and double primitives are wide")
	}
}

func TestGetMathType(t *testing.T) {
	tests := []struct {
		l, r Type
		want Type
	}{
		{PrimInt, PrimInt, PrimInt},
		{PrimByte, PrimShort, PrimInt},
		{PrimChar, PrimInt, PrimInt},
		{PrimInt, PrimLong, PrimLong},
		{Long, Integer, PrimLong},
		{PrimLong, BigInteger, BigInteger},
		{BigInteger, BigDecimal, BigDecimal},
		{BigDecimal, PrimLong, BigDecimal},
		{PrimFloat, BigDecimal, PrimDouble},
		{PrimInt, Double, PrimDouble},
		{Float, PrimLong, PrimDouble},
	}
	for _, tt := range tests {
		got := GetMathType(tt.l, tt.r)
		if !Same(got, tt.want) {
			t.Errorf("GetMathType(%v, %v) = %v, want %v", tt.l, tt.r, got, tt.want)
		}
		if back := GetMathType(tt.r, tt.l); !Same(back, got) {
			t.Errorf("GetMathType(%v, %v) = %v, not symmetric with %v", tt.r, tt.l, back, got)
		}
	}
}
