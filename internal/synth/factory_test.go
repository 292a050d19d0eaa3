package synth

import (
	"strings"
	"testing"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/prettyprinter"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

func newUnit(t *testing.T, classes ...*typesystem.Class) (*typesystem.Registry, *Factory) {
	t.Helper()
	reg := typesystem.NewRegistry()
	for _, c := range classes {
		if err := reg.Declare(c); err != nil {
			t.Fatalf("declare %s: %v", c.Name, err)
		}
	}
	return reg, NewFactory(reg, NewNameAllocator(0, 0))
}

func TestFieldAccessorsMutable(t *testing.T) {
	counter := typesystem.NewClass("demo.Counter", typesystem.Public, nil)
	reg, f := newUnit(t, counter)
	field := typesystem.NewField("count", typesystem.Private, typesystem.PrimInt)
	reg.AddField(counter, field)
	before := reg.MemberCount(counter)

	getter := f.GetFieldGetter(field)
	setter := f.GetFieldSetter(field)
	if getter == nil || setter == nil {
		t.Fatalf("expected getter and setter, got %v, %v", getter, setter)
	}
	if getter.Name != "getField1979" || setter.Name != "setField1979" {
		t.Errorf("accessor names = %s, %s", getter.Name, setter.Name)
	}
	if got := reg.MemberCount(counter) - before; got != 2 {
		t.Errorf("member count grew by %d, want 2", got)
	}
	if f.GetFieldGetter(field) != getter || f.GetFieldSetter(field) != setter {
		t.Error("accessors must be generated once per field")
	}
	if got := reg.MemberCount(counter) - before; got != 2 {
		t.Errorf("repeated requests added members: grew by %d", got)
	}

	if !typesystem.Same(getter.ReturnType(), typesystem.PrimInt) || len(getter.Params) != 0 {
		t.Errorf("getter signature: %v returns %v", getter, getter.ReturnType())
	}
	if !typesystem.IsVoid(setter.ReturnType()) || len(setter.Params) != 1 || setter.Params[0].Name != "p" {
		t.Errorf("setter signature: %v", setter)
	}
	if getter.IsStatic() || !getter.IsSynthetic() {
		t.Errorf("getter modifiers: %v", getter.Modifiers)
	}

	if got := prettyprinter.Print(getter.Body.(ast.Statement)); got != "return count" {
		t.Errorf("getter body = %q", got)
	}
	if got := prettyprinter.Print(setter.Body.(ast.Statement)); got != "count = p" {
		t.Errorf("setter body = %q", got)
	}
}

func TestFieldAccessorsFinal(t *testing.T) {
	holder := typesystem.NewClass("demo.Holder", typesystem.Public, nil)
	reg, f := newUnit(t, holder)
	field := typesystem.NewField("id", typesystem.Private|typesystem.Final|typesystem.Static, typesystem.String)
	reg.AddField(holder, field)
	before := reg.MemberCount(holder)

	getter := f.GetFieldGetter(field)
	if getter == nil {
		t.Fatal("final field must still get a getter")
	}
	if f.GetFieldSetter(field) != nil {
		t.Error("final field must not get a setter")
	}
	if f.GetFieldGetter(field) != getter {
		t.Error("second getter request returned a different method")
	}
	if got := reg.MemberCount(holder) - before; got != 1 {
		t.Errorf("member count grew by %d, want 1", got)
	}
	if !getter.IsStatic() {
		t.Error("accessor of a static field must be static")
	}
}

func TestSetterFirstGeneratesBoth(t *testing.T) {
	holder := typesystem.NewClass("demo.Holder", typesystem.Public, nil)
	reg, f := newUnit(t, holder)
	field := typesystem.NewField("name", typesystem.Private, typesystem.String)
	reg.AddField(holder, field)

	setter := f.GetFieldSetter(field)
	getter := f.GetFieldGetter(field)
	if setter == nil || getter == nil {
		t.Fatal("expected both accessors")
	}
	if strings.TrimPrefix(setter.Name, "set") != strings.TrimPrefix(getter.Name, "get") {
		t.Errorf("accessors should share an id: %s, %s", getter.Name, setter.Name)
	}
}

func TestAccessorsVisibleToLookup(t *testing.T) {
	holder := typesystem.NewClass("demo.Holder", typesystem.Public, nil)
	reg, f := newUnit(t, holder)
	field := typesystem.NewField("name", typesystem.Private, typesystem.String)
	reg.AddField(holder, field)

	// Warm the lookup cache before the member exists.
	if m := reg.FindMethod(holder, "getField1979", nil); m != nil {
		t.Fatalf("unexpected %v", m)
	}
	getter := f.GetFieldGetter(field)
	if m := reg.FindMethod(holder, getter.Name, nil); m != getter {
		t.Errorf("lookup after generation = %v, want %v", m, getter)
	}
}

func TestMethodDelegate(t *testing.T) {
	service := typesystem.NewClass("demo.Service", typesystem.Public, nil)
	reg, f := newUnit(t, service)
	target := typesystem.NewMethod("compute", typesystem.Private, typesystem.PrimLong,
		typesystem.NewParameter("a", typesystem.PrimInt), typesystem.NewParameter("b", typesystem.String))
	target.TypeParams = []*typesystem.Param{typesystem.NewParam("R", nil)}
	reg.AddMethod(service, target)
	before := reg.MemberCount(service)

	d := f.GetMethodDelegate(target)
	if f.GetMethodDelegate(target) != d {
		t.Error("delegate must be generated once")
	}
	if got := reg.MemberCount(service) - before; got != 1 {
		t.Errorf("member count grew by %d, want 1", got)
	}
	if d.Name != "delegate1979" || d.Declaring != service {
		t.Errorf("delegate = %v", d)
	}
	if !d.SameSignature(d.Name, target.ParamTypes()) || !typesystem.Same(d.ReturnType(), typesystem.PrimLong) {
		t.Errorf("delegate signature differs: %v", d)
	}
	if len(d.TypeParams) != 1 || d.TypeParams[0].Name != "R" {
		t.Error("type parameters should be copied")
	}
	if d.IsPrivate() || d.IsStatic() {
		t.Errorf("delegate modifiers: %v", d.Modifiers)
	}

	ret, ok := d.Body.(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("delegate body = %T", d.Body)
	}
	call, ok := ret.Value.(*ast.MethodCallExpression)
	if !ok || !call.Dynamic {
		t.Fatalf("delegate should forward through a dynamic call, got %#v", ret.Value)
	}
	if got := prettyprinter.Print(ret); got != "return this.compute(a, b)" {
		t.Errorf("delegate body = %q", got)
	}
}

func TestStaticVoidMethodDelegate(t *testing.T) {
	util := typesystem.NewClass("demo.Util", typesystem.Public, nil)
	reg, f := newUnit(t, util)
	target := typesystem.NewMethod("reset", typesystem.Private|typesystem.Static, nil)
	reg.AddMethod(util, target)

	d := f.GetMethodDelegate(target)
	if !d.IsStatic() {
		t.Error("delegate of a static method must be static")
	}
	if got := prettyprinter.Print(d.Body.(ast.Statement)); got != "reset()" {
		t.Errorf("void delegate body = %q", got)
	}
}

func TestConstructorDelegate(t *testing.T) {
	point := typesystem.NewClass("demo.Point", typesystem.Public, nil)
	reg, f := newUnit(t, point)
	ctor := typesystem.NewMethod("", typesystem.Private, nil,
		typesystem.NewParameter("x", typesystem.PrimInt), typesystem.NewParameter("y", typesystem.PrimInt))
	reg.AddConstructor(point, ctor)

	d := f.GetConstructorDelegate(ctor)
	if f.GetConstructorDelegate(ctor) != d {
		t.Error("constructor delegate must be generated once")
	}
	if !d.IsStatic() || d.Constructor {
		t.Errorf("constructor delegate must be a static method, got %v", d.Modifiers)
	}
	if d.ReturnType() != typesystem.Type(point) {
		t.Errorf("constructor delegate returns %v", d.ReturnType())
	}
	if got := prettyprinter.Print(d.Body.(ast.Statement)); got != "return new demo.Point(x, y)" {
		t.Errorf("constructor delegate body = %q", got)
	}
	if reg.FindMethod(point, d.Name, []typesystem.Type{typesystem.PrimInt, typesystem.PrimInt}) != d {
		t.Error("constructor delegate not visible through lookup")
	}
}

func TestSuperMethodDelegate(t *testing.T) {
	base := typesystem.NewClass("demo.Base", typesystem.Public|typesystem.Abstract, nil)
	tp := typesystem.NewParam("T", nil)
	base.TypeParams = []*typesystem.Param{tp}
	derived := typesystem.NewClass("demo.Derived", typesystem.Public, typesystem.Instantiate(base, typesystem.String))
	reg, f := newUnit(t, base, derived)

	process := typesystem.NewMethod("process", typesystem.Public|typesystem.Abstract, tp, typesystem.NewParameter("item", tp))
	reg.AddMethod(base, process)
	before := reg.MemberCount(derived)

	bridge := f.GetSuperMethodDelegate(process, derived)
	for i := 0; i < 3; i++ {
		if again := f.GetSuperMethodDelegate(process, derived); again != bridge {
			t.Fatalf("request %d returned a different bridge", i)
		}
	}
	if got := reg.MemberCount(derived) - before; got != 1 {
		t.Errorf("member count grew by %d, want 1", got)
	}
	if bridge.Declaring != derived {
		t.Errorf("bridge declared on %v", bridge.Declaring)
	}
	if bridge.IsAbstract() {
		t.Error("abstract modifier must be stripped")
	}
	if !typesystem.Same(bridge.ReturnType(), typesystem.String) || !typesystem.Same(bridge.Params[0].Type, typesystem.String) {
		t.Errorf("bridge types not mapped: %v returns %v", bridge, bridge.ReturnType())
	}
	if got := prettyprinter.Print(bridge.Body.(ast.Statement)); got != "return super.process(item)" {
		t.Errorf("bridge body = %q", got)
	}
}

func TestSuperMethodDelegateIDs(t *testing.T) {
	base := typesystem.NewClass("demo.Base", typesystem.Public, nil)
	left := typesystem.NewClass("demo.Left", typesystem.Public, base)
	right := typesystem.NewClass("demo.Right", typesystem.Public, base)
	leaf := typesystem.NewClass("demo.Leaf", typesystem.Public, left)
	reg, f := newUnit(t, base, left, right, leaf)

	hello := typesystem.NewMethod("hello", typesystem.Public, typesystem.String)
	reg.AddMethod(base, hello)

	l := f.GetSuperMethodDelegate(hello, left)
	r := f.GetSuperMethodDelegate(hello, right)
	if l.Name != r.Name {
		t.Errorf("sibling places share the super method id: %s vs %s", l.Name, r.Name)
	}

	// Leaf inherits Left's bridge; its own bridge must not override it.
	leafBridge := f.GetSuperMethodDelegate(hello, leaf)
	if leafBridge.Name == l.Name {
		t.Errorf("leaf bridge %s overrides inherited bridge", leafBridge.Name)
	}
	if f.GetSuperMethodDelegate(hello, leaf) != leafBridge {
		t.Error("leaf bridge must be reused")
	}
}

func TestOuterClassInstanceUsed(t *testing.T) {
	outer := typesystem.NewClass("demo.Outer", typesystem.Public, nil)
	inner := typesystem.NewClass("demo.Outer$1", typesystem.Public, nil)
	inner.Outer = outer
	_, f := newUnit(t, outer, inner)

	if f.IsOuterClassInstanceUsed(inner) {
		t.Error("flag should start unset")
	}
	f.SetOuterClassInstanceUsed(inner)
	f.SetOuterClassInstanceUsed(inner)
	if !f.IsOuterClassInstanceUsed(inner) {
		t.Error("flag not recorded")
	}
	if f.IsOuterClassInstanceUsed(outer) {
		t.Error("flag leaked to another class")
	}
}

func TestNamesAreUnitScoped(t *testing.T) {
	c := typesystem.NewClass("demo.C", typesystem.Public, nil)
	regA, a := newUnit(t, c)
	regB, b := newUnit(t, c)
	fa := typesystem.NewField("x", 0, typesystem.PrimInt)
	fb := typesystem.NewField("y", 0, typesystem.PrimInt)
	regA.AddField(c, fa)
	regB.AddField(c, fb)

	if a.GetFieldGetter(fa).Name != b.GetFieldGetter(fb).Name {
		t.Error("independent units should start from the same base")
	}
	if a.NextTempVarName() != "$temp1979" || a.NextTempVarName() != "$temp1980" {
		t.Error("temp names should count up from 1979")
	}
	if b.NextTempVarName() != "$temp1979" {
		t.Error("temp counter leaked across units")
	}
}

func TestNameAllocatorBase(t *testing.T) {
	n := NewNameAllocator(42, 7)
	if n.NextID() != 42 || n.NextID() != 43 {
		t.Error("ids should count up from the base")
	}
	if got := n.NextTempVarName(); got != "$temp7" {
		t.Errorf("NextTempVarName() = %q", got)
	}
}
