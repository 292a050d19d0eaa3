package typesystem

import (
	"strings"
)

// Type is the interface for all types in our system.
//
// A Type is one of:
//   - *Class: a nominal declaration (the template);
//   - *Instance: a template with bound generic arguments;
//   - *Param: a reference to a declared type parameter.
type Type interface {
	String() string
	typeNode()
}

// Modifier is a member or type access flag set. The values match the
// access flags of the target class-file format.
type Modifier uint32

const (
	Public    Modifier = 0x0001
	Private   Modifier = 0x0002
	Protected Modifier = 0x0004
	Static    Modifier = 0x0008
	Final     Modifier = 0x0010
	Interface Modifier = 0x0200
	Abstract  Modifier = 0x0400
	Synthetic Modifier = 0x1000
)

// Visibility is the mask of the access-level flags.
const Visibility = Public | Private | Protected

// Has reports whether all flags in m2 are set.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

var modifierNames = []struct {
	flag Modifier
	name string
}{
	{Public, "public"},
	{Private, "private"},
	{Protected, "protected"},
	{Static, "static"},
	{Final, "final"},
	{Abstract, "abstract"},
	{Interface, "interface"},
	{Synthetic, "synthetic"},
}

func (m Modifier) String() string {
	var parts []string
	for _, mn := range modifierNames {
		if m.Has(mn.flag) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, " ")
}

// ParseModifier maps a modifier keyword to its flag.
func ParseModifier(name string) (Modifier, bool) {
	for _, mn := range modifierNames {
		if mn.name == name {
			return mn.flag, true
		}
	}
	return 0, false
}

// Class is a nominal type declaration. Super and Interfaces hold the
// types as written in the declaration, so they may be instantiations
// referring to this class's own type parameters (e.g. `extends Base<T>`).
type Class struct {
	Name       string
	Modifiers  Modifier
	TypeParams []*Param
	Super      Type
	Interfaces []Type
	Component  Type   // element type for arrays
	Outer      *Class // enclosing class for nested and closure classes

	primitive bool
	box       *Class // wrapper of a primitive
	unbox     *Class // primitive of a wrapper
	builtin   bool
}

// NewClass declares a class. Interfaces default to extending Object the
// way the host type graph models them.
func NewClass(name string, mods Modifier, super Type, interfaces ...Type) *Class {
	if super == nil && name != Object.Name {
		super = Object
	}
	return &Class{
		Name:       name,
		Modifiers:  mods,
		Super:      super,
		Interfaces: interfaces,
	}
}

// NewInterface declares an interface type.
func NewInterface(name string, extends ...Type) *Class {
	return NewClass(name, Public|Interface|Abstract, Object, extends...)
}

func (c *Class) typeNode() {}

func (c *Class) String() string {
	return c.Name
}

// IsInterface reports whether c declares an interface.
func (c *Class) IsInterface() bool { return c.Modifiers.Has(Interface) }

// IsArray reports whether c is an array type.
func (c *Class) IsArray() bool { return c.Component != nil }

// IsPrimitive reports whether c is a primitive (value) type.
func (c *Class) IsPrimitive() bool { return c.primitive }

// IsBuiltin reports whether c is one of the predeclared types.
func (c *Class) IsBuiltin() bool { return c.builtin }

// IsGeneric reports whether c declares type parameters.
func (c *Class) IsGeneric() bool { return len(c.TypeParams) > 0 }

// TypeParamNames returns the declared type-parameter names in order.
func (c *Class) TypeParamNames() []string {
	names := make([]string, len(c.TypeParams))
	for i, p := range c.TypeParams {
		names[i] = p.Name
	}
	return names
}

// TypeParam looks up a declared type parameter by name.
func (c *Class) TypeParam(name string) *Param {
	for _, p := range c.TypeParams {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// InternalName returns the slash-separated class-file name.
// Array types use their descriptor, as the target format requires.
func (c *Class) InternalName() string {
	if c.IsArray() {
		return Descriptor(c)
	}
	return strings.ReplaceAll(c.Name, ".", "/")
}

// SimpleName returns the last segment of the qualified name.
func (c *Class) SimpleName() string {
	if i := strings.LastIndexByte(c.Name, '.'); i >= 0 {
		return c.Name[i+1:]
	}
	return c.Name
}

// Param is a placeholder referring to a declared type parameter.
type Param struct {
	Name  string
	Bound Type // upper bound; nil means Object
}

// NewParam creates a type parameter with an optional bound.
func NewParam(name string, bound Type) *Param {
	return &Param{Name: name, Bound: bound}
}

func (p *Param) typeNode() {}

func (p *Param) String() string {
	return p.Name
}

// Erasure returns the bound the parameter erases to.
func (p *Param) Erasure() Type {
	if p.Bound == nil {
		return Object
	}
	return p.Bound
}

// Arg is one bound generic argument of an Instance.
type Arg struct {
	Type     Type
	Wildcard bool
	Resolved bool
	Upper    []Type
	Lower    Type
}

func (a Arg) String() string {
	if !a.Wildcard {
		return a.Type.String()
	}
	switch {
	case len(a.Upper) > 0:
		parts := make([]string, len(a.Upper))
		for i, u := range a.Upper {
			parts[i] = u.String()
		}
		return "? extends " + strings.Join(parts, " & ")
	case a.Lower != nil:
		return "? super " + a.Lower.String()
	}
	return "?"
}

// ArgOf binds a plain (non-wildcard) argument.
func ArgOf(t Type) Arg {
	_, placeholder := t.(*Param)
	return Arg{Type: t, Resolved: !placeholder}
}

// Instance is a generic template with bound arguments. It shares its
// template's identity.
type Instance struct {
	Template *Class
	Args     []Arg
}

// Instantiate binds args to template.
func Instantiate(template *Class, args ...Type) *Instance {
	bound := make([]Arg, len(args))
	for i, a := range args {
		bound[i] = ArgOf(a)
	}
	return &Instance{Template: template, Args: bound}
}

func (i *Instance) typeNode() {}

func (i *Instance) String() string {
	parts := make([]string, len(i.Args))
	for idx, a := range i.Args {
		parts[idx] = a.String()
	}
	return i.Template.Name + "<" + strings.Join(parts, ", ") + ">"
}

// Redirect returns the template behind any type.
func Redirect(t Type) *Class {
	switch typ := t.(type) {
	case *Class:
		return typ
	case *Instance:
		return typ.Template
	case *Param:
		return Redirect(typ.Erasure())
	}
	return nil
}

// Args returns the bound generic arguments of t, if any.
func Args(t Type) []Arg {
	if inst, ok := t.(*Instance); ok {
		return inst.Args
	}
	return nil
}

// Same reports nominal identity: both types redirect to the same
// template. Generic arguments are ignored.
func Same(a, b Type) bool {
	ra, rb := Redirect(a), Redirect(b)
	if ra == nil || rb == nil {
		return ra == rb
	}
	return ra == rb || ra.Name == rb.Name
}

// IsPlaceholder reports whether t is an unbound type-parameter reference.
func IsPlaceholder(t Type) bool {
	_, ok := t.(*Param)
	return ok
}
