package typesystem

import (
	"fmt"
	"strings"
)

// Body is a method body produced by the binder or by the synthetic member
// factory. The compiler package knows the concrete statement types.
type Body interface {
	StatementNode()
}

// Field is a declared field. Each field belongs to exactly one class.
type Field struct {
	Name      string
	Modifiers Modifier
	Type      Type
	Declaring *Class
}

func (f *Field) IsStatic() bool  { return f.Modifiers.Has(Static) }
func (f *Field) IsFinal() bool   { return f.Modifiers.Has(Final) }
func (f *Field) IsPrivate() bool { return f.Modifiers.Has(Private) }

func (f *Field) String() string {
	return fmt.Sprintf("%s.%s", f.Declaring.Name, f.Name)
}

// Parameter is one formal parameter of a method.
type Parameter struct {
	Name string
	Type Type
}

// Method describes a method or constructor. Parameter and return types are
// either concrete or refer to type parameters of Declaring (or of the
// method itself).
type Method struct {
	Name        string
	Modifiers   Modifier
	Return      Type
	Params      []*Parameter
	Declaring   *Class
	TypeParams  []*Param
	Constructor bool
	Body        Body

	// Extension marks a static helper method exposed as an instance method
	// of Declaring. Owner holds the implementation and the receiver is
	// passed as the first argument.
	Extension bool
	Owner     *Class
}

func (m *Method) IsStatic() bool    { return m.Modifiers.Has(Static) }
func (m *Method) IsPrivate() bool   { return m.Modifiers.Has(Private) }
func (m *Method) IsAbstract() bool  { return m.Modifiers.Has(Abstract) }
func (m *Method) IsSynthetic() bool { return m.Modifiers.Has(Synthetic) }

// ParamTypes returns the parameter types in order.
func (m *Method) ParamTypes() []Type {
	types := make([]Type, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type
	}
	return types
}

// ReturnType returns the declared return type; constructors return their
// declaring class.
func (m *Method) ReturnType() Type {
	if m.Constructor {
		return m.Declaring
	}
	if m.Return == nil {
		return PrimVoid
	}
	return m.Return
}

func (m *Method) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type.String()
	}
	owner := ""
	if m.Declaring != nil {
		owner = m.Declaring.Name + "."
	}
	return fmt.Sprintf("%s%s(%s)", owner, m.Name, strings.Join(params, ", "))
}

// SameSignature reports whether m has the given name and exactly the
// given (erased) parameter types.
func (m *Method) SameSignature(name string, params []Type) bool {
	if m.Name != name || len(m.Params) != len(params) {
		return false
	}
	for i, p := range m.Params {
		if !Same(p.Type, params[i]) {
			return false
		}
	}
	return true
}

// NewMethod builds a method descriptor; Declaring is set when it is added
// to a registry.
func NewMethod(name string, mods Modifier, ret Type, params ...*Parameter) *Method {
	return &Method{Name: name, Modifiers: mods, Return: ret, Params: params}
}

// NewParameter builds a formal parameter.
func NewParameter(name string, t Type) *Parameter {
	return &Parameter{Name: name, Type: t}
}

// NewField builds a field descriptor.
func NewField(name string, mods Modifier, t Type) *Field {
	return &Field{Name: name, Modifiers: mods, Type: t}
}
