// Package synth generates the synthetic members compiled code needs to
// reach fields and methods across visibility and scope boundaries:
// field accessors, method and constructor delegates, and super bridges.
package synth

import (
	set "github.com/hashicorp/go-set/v3"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/token"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

type bridgeKey struct {
	method *typesystem.Method
	place  *typesystem.Class
}

// Factory owns the synthetic members of one compilation unit. Generated
// members are added to the registry, which is invalidated right away, and
// are never removed.
type Factory struct {
	registry *typesystem.Registry
	names    *NameAllocator

	getters   map[*typesystem.Field]*typesystem.Method
	setters   map[*typesystem.Field]*typesystem.Method
	delegates map[*typesystem.Method]*typesystem.Method

	superIDs   map[*typesystem.Method]int
	bridgeIDs  map[bridgeKey]int
	outerInUse *set.Set[*typesystem.Class]
}

// NewFactory creates a factory that adds members to registry.
func NewFactory(registry *typesystem.Registry, names *NameAllocator) *Factory {
	if names == nil {
		names = NewNameAllocator(0, 0)
	}
	return &Factory{
		registry:   registry,
		names:      names,
		getters:    make(map[*typesystem.Field]*typesystem.Method),
		setters:    make(map[*typesystem.Field]*typesystem.Method),
		delegates:  make(map[*typesystem.Method]*typesystem.Method),
		superIDs:   make(map[*typesystem.Method]int),
		bridgeIDs:  make(map[bridgeKey]int),
		outerInUse: set.New[*typesystem.Class](4),
	}
}

// Registry returns the registry the factory mutates.
func (f *Factory) Registry() *typesystem.Registry { return f.registry }

// GetFieldGetter returns the accessor reading field, generating it (and
// the setter, for a mutable field) on first use.
func (f *Factory) GetFieldGetter(field *typesystem.Field) *typesystem.Method {
	if g, ok := f.getters[field]; ok {
		return g
	}
	f.initAccessors(field)
	return f.getters[field]
}

// GetFieldSetter returns the accessor writing field, or nil for a final
// field.
func (f *Factory) GetFieldSetter(field *typesystem.Field) *typesystem.Method {
	if s, ok := f.setters[field]; ok {
		return s
	}
	if _, done := f.getters[field]; done {
		return nil
	}
	f.initAccessors(field)
	return f.setters[field]
}

func (f *Factory) initAccessors(field *typesystem.Field) {
	id := f.names.NextID()
	mods := field.Modifiers&typesystem.Static | typesystem.Synthetic
	class := field.Declaring

	getter := typesystem.NewMethod(getterName(id), mods, field.Type)
	getter.Body = &ast.ReturnStatement{Value: &ast.FieldExpression{Name: field.Name}}
	f.registry.AddMethod(class, getter)
	f.getters[field] = getter

	if !field.IsFinal() {
		setter := typesystem.NewMethod(setterName(id), mods, typesystem.PrimVoid,
			typesystem.NewParameter(config.SetterParamName, field.Type))
		setter.Body = &ast.ExpressionStatement{Expression: &ast.AssignExpression{
			Operator: token.ASSIGN,
			Target:   &ast.FieldExpression{Name: field.Name},
			Value:    &ast.VariableExpression{Name: config.SetterParamName},
		}}
		f.registry.AddMethod(class, setter)
		f.setters[field] = setter
	}
	f.registry.Invalidate(class)
}

// GetMethodDelegate returns a same-signature method on the declaring
// class that forwards to method by dynamic dispatch.
func (f *Factory) GetMethodDelegate(method *typesystem.Method) *typesystem.Method {
	if d, ok := f.delegates[method]; ok {
		return d
	}

	var receiver ast.Expression
	if !method.IsStatic() {
		receiver = &ast.ThisExpression{}
	}
	call := &ast.MethodCallExpression{
		Object:    receiver,
		Name:      method.Name,
		Arguments: forwardArgs(method.Params),
		Dynamic:   true,
	}

	mods := method.Modifiers&typesystem.Static | typesystem.Synthetic
	d := typesystem.NewMethod(delegateName(f.names.NextID()), mods, method.Return, copyParams(method.Params)...)
	d.TypeParams = method.TypeParams
	d.Body = bodyFor(call, method.ReturnType())

	f.delegates[method] = d
	f.registry.AddMethod(method.Declaring, d)
	f.registry.Invalidate(method.Declaring)
	return d
}

// GetConstructorDelegate returns a static factory method constructing the
// declaring class through ctor.
func (f *Factory) GetConstructorDelegate(ctor *typesystem.Method) *typesystem.Method {
	if d, ok := f.delegates[ctor]; ok {
		return d
	}

	class := ctor.Declaring
	d := typesystem.NewMethod(delegateName(f.names.NextID()), typesystem.Static|typesystem.Synthetic, class,
		copyParams(ctor.Params)...)
	d.Body = &ast.ReturnStatement{Value: &ast.ConstructorCallExpression{
		Type:      class,
		Arguments: forwardArgs(ctor.Params),
	}}

	f.delegates[ctor] = d
	f.registry.AddMethod(class, d)
	f.registry.Invalidate(class)
	return d
}

// GetSuperMethodDelegate returns a bridge on place that calls superMethod
// through a superclass-qualified call. Parameter and return types are
// mapped from superMethod's declaring class into place.
//
// The bridge id is shared by every place bridging the same super method,
// except when place already inherits a bridge of that name and signature
// from an ancestor; such a place gets its own id.
func (f *Factory) GetSuperMethodDelegate(superMethod *typesystem.Method, place *typesystem.Class) *typesystem.Method {
	superParams := superMethod.ParamTypes()
	key := bridgeKey{superMethod, place}

	id, ok := f.bridgeIDs[key]
	if !ok {
		id, ok = f.superIDs[superMethod]
		if !ok {
			id = f.names.NextID()
			f.superIDs[superMethod] = id
		}
		if f.inheritsBridge(place, delegateName(id), superParams) {
			id = f.names.NextID()
		}
		f.bridgeIDs[key] = id
	}
	name := delegateName(id)

	declaring := superMethod.Declaring
	params := make([]*typesystem.Parameter, len(superMethod.Params))
	mapped := make([]typesystem.Type, len(params))
	for i, p := range superMethod.Params {
		params[i] = typesystem.NewParameter(p.Name, mapFromSuper(p.Type, declaring, place))
		mapped[i] = params[i].Type
	}

	if d := f.registry.DeclaredMethod(place, name, superParams); d != nil {
		return d
	}
	if d := f.registry.DeclaredMethod(place, name, mapped); d != nil {
		return d
	}

	ret := mapFromSuper(superMethod.ReturnType(), declaring, place)
	call := &ast.MethodCallExpression{
		Object:    &ast.SuperExpression{},
		Name:      superMethod.Name,
		Arguments: forwardArgs(params),
		Dynamic:   true,
	}
	mods := superMethod.Modifiers&^typesystem.Abstract | typesystem.Synthetic
	d := typesystem.NewMethod(name, mods, ret, params...)
	d.Body = bodyFor(call, ret)

	f.registry.AddMethod(place, d)
	f.registry.Invalidate(place)
	return d
}

func (f *Factory) inheritsBridge(place *typesystem.Class, name string, params []typesystem.Type) bool {
	for c := typesystem.Redirect(place.Super); c != nil; c = typesystem.Redirect(c.Super) {
		if f.registry.DeclaredMethod(c, name, params) != nil {
			return true
		}
	}
	return false
}

// SetOuterClassInstanceUsed records that class needs a captured reference
// to its enclosing instance.
func (f *Factory) SetOuterClassInstanceUsed(class *typesystem.Class) {
	f.outerInUse.Insert(class)
}

// IsOuterClassInstanceUsed reports whether SetOuterClassInstanceUsed was
// called for class.
func (f *Factory) IsOuterClassInstanceUsed(class *typesystem.Class) bool {
	return f.outerInUse.Contains(class)
}

// NextTempVarName allocates a unit-unique temporary variable name.
func (f *Factory) NextTempVarName() string {
	return f.names.NextTempVarName()
}

// Generated returns the synthetic methods of every user class, in class
// declaration order.
func (f *Factory) Generated() []*typesystem.Method {
	var out []*typesystem.Method
	for _, c := range f.registry.UserClasses() {
		for _, m := range f.registry.Methods(c) {
			if m.IsSynthetic() {
				out = append(out, m)
			}
		}
	}
	return out
}

func mapFromSuper(t typesystem.Type, declaring *typesystem.Class, place *typesystem.Class) typesystem.Type {
	if mapped, ok := typesystem.MapTypeFromSuper(t, declaring, place); ok {
		return mapped
	}
	return t
}

func copyParams(params []*typesystem.Parameter) []*typesystem.Parameter {
	out := make([]*typesystem.Parameter, len(params))
	for i, p := range params {
		out[i] = typesystem.NewParameter(p.Name, p.Type)
	}
	return out
}

func forwardArgs(params []*typesystem.Parameter) []ast.Expression {
	args := make([]ast.Expression, len(params))
	for i, p := range params {
		args[i] = &ast.VariableExpression{Name: p.Name}
	}
	return args
}

func bodyFor(call ast.Expression, ret typesystem.Type) ast.Statement {
	if typesystem.IsVoid(ret) {
		return &ast.ExpressionStatement{Expression: call}
	}
	return &ast.ReturnStatement{Value: call}
}
