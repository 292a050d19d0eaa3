package compiler

import (
	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

func (c *Compiler) transformMethodCall(e *ast.MethodCallExpression) Expr {
	if sup, ok := e.Object.(*ast.SuperExpression); ok {
		return c.transformSuperCall(e, sup)
	}

	var (
		recv  Expr
		owner ts.Type
	)
	switch obj := e.Object.(type) {
	case nil:
	case *ast.ClassExpression:
		owner = obj.Type
	default:
		recv = c.Transform(obj)
	}
	args, argTypes, ok := c.transformAll(e.Arguments)
	if !ok || (e.Object != nil && owner == nil && recv == nil) {
		return nil
	}

	switch {
	case e.Object == nil:
		return c.implicitCall(e, args, argTypes)
	case recv != nil:
		owner = recv.Type()
	}

	m := c.registry.FindMethod(owner, e.Name, argTypes)
	if m == nil {
		c.errorf(diagnostics.ErrC004, e.Pos, e.Name, typeNames(argTypes), owner)
		return nil
	}
	if recv == nil && !m.IsStatic() {
		c.errorf(diagnostics.ErrC004, e.Pos, e.Name, typeNames(argTypes), "static members of "+owner.String())
		return nil
	}
	return c.invoke(e.Pos, recv, owner, m, args, e.Dynamic)
}

// implicitCall resolves an unqualified call against the current class and
// then its enclosing classes.
func (c *Compiler) implicitCall(e *ast.MethodCallExpression, args []Expr, argTypes []ts.Type) Expr {
	for cls := c.class; cls != nil; cls = cls.Outer {
		owner := ts.Type(cls)
		if cls == c.class {
			owner = c.thisType()
		}
		m := c.registry.FindMethod(owner, e.Name, argTypes)
		if m == nil {
			continue
		}
		if m.IsStatic() {
			return c.invoke(e.Pos, nil, owner, m, args, e.Dynamic)
		}

		var recv Expr
		switch {
		case cls == c.class && !c.isStatic():
			recv = c.this(e.Pos)
		case cls != c.class:
			if outer := c.outerThis(cls, e.Pos); outer != nil {
				recv = outer
			}
		}
		if recv == nil {
			break
		}
		return c.invoke(e.Pos, recv, owner, m, args, e.Dynamic)
	}
	c.errorf(diagnostics.ErrC004, e.Pos, e.Name, typeNames(argTypes), c.class.Name)
	return nil
}

// transformSuperCall compiles super.m(args). Qualified as Outer.super from
// a nested class, the call goes through a bridge on Outer reached via the
// captured outer instance.
func (c *Compiler) transformSuperCall(e *ast.MethodCallExpression, sup *ast.SuperExpression) Expr {
	args, argTypes, ok := c.transformAll(e.Arguments)
	if !ok {
		return nil
	}
	if c.isStatic() {
		c.errorf(diagnostics.ErrC008, e.Pos, config.SuperName+" in a static context")
		return nil
	}

	target := c.class
	if sup.Qualifier != nil {
		target = sup.Qualifier
	}
	if target.Super == nil {
		c.errorf(diagnostics.ErrC004, e.Pos, e.Name, typeNames(argTypes), config.SuperName+" of "+target.Name)
		return nil
	}
	m := c.registry.FindMethod(target.Super, e.Name, argTypes)
	if m == nil || m.IsAbstract() {
		c.errorf(diagnostics.ErrC004, e.Pos, e.Name, typeNames(argTypes), target.Super)
		return nil
	}

	if ts.Same(target, c.class) {
		ret := ts.SubstitutedType(m.ReturnType(), m.Declaring, target.Super)
		return &Call{node: node{ret, e.Pos}, Object: c.this(e.Pos), Method: m, Args: args, Super: true}
	}

	outer := c.outerThis(target, e.Pos)
	if outer == nil {
		c.errorf(diagnostics.ErrC008, e.Pos, target.Name+"."+config.SuperName+" outside of "+target.Name)
		return nil
	}
	bridge := c.factory.GetSuperMethodDelegate(m, target)
	return &Call{node: node{bridge.ReturnType(), e.Pos}, Object: outer, Method: bridge, Args: args}
}

// invoke builds a call of m on recv. A private method of another class is
// reached through its synthetic delegate unless the call is dynamic. The
// result type is m's return type as seen from owner.
func (c *Compiler) invoke(pos token.Position, recv Expr, owner ts.Type, m *ts.Method, args []Expr, dynamic bool) Expr {
	ret := m.ReturnType()
	if !m.Extension && owner != nil {
		ret = ts.SubstitutedType(ret, m.Declaring, owner)
	}
	if !dynamic && c.foreign(m.Modifiers, m.Declaring) {
		m = c.factory.GetMethodDelegate(m)
	}

	if m.IsStatic() && !m.Extension && recv != nil {
		call := &Call{node: node{ret, pos}, Method: m, Args: args}
		drop := &Pop{node: node{ts.PrimVoid, pos}, Operand: recv}
		return &Seq{node: node{ret, pos}, First: drop, Second: call}
	}
	return &Call{node: node{ret, pos}, Object: recv, Method: m, Args: args}
}

func (c *Compiler) transformConstructorCall(e *ast.ConstructorCallExpression) Expr {
	args, argTypes, ok := c.transformAll(e.Arguments)
	if !ok {
		return nil
	}
	cls := ts.Redirect(e.Type)
	if cls == nil || cls.IsInterface() || cls.IsPrimitive() || cls.Modifiers.Has(ts.Abstract) {
		c.errorf(diagnostics.ErrC008, e.Pos, "instantiation of "+e.Type.String())
		return nil
	}
	ctor := c.registry.FindConstructor(cls, argTypes)
	if ctor == nil {
		c.errorf(diagnostics.ErrC004, e.Pos, config.ConstructorName, typeNames(argTypes), cls.Name)
		return nil
	}
	if c.foreign(ctor.Modifiers, cls) {
		d := c.factory.GetConstructorDelegate(ctor)
		return &Call{node: node{e.Type, e.Pos}, Method: d, Args: args}
	}
	return &NewInstance{node: node{e.Type, e.Pos}, Ctor: ctor, Args: args}
}
