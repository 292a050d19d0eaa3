package compiler

import (
	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// place is a resolved read/write location: a local variable, or a
// property of owner backed by accessors and/or a field.
type place struct {
	pos   token.Position
	name  string
	owner ts.Type

	receiver Expr // instance receiver; nil for locals and static members
	discard  Expr // receiver of a static member, evaluated and dropped
	static   bool

	local  *localVar
	getter *ts.Method
	field  *ts.Field
	direct bool // field access bypassing accessors
}

func (c *Compiler) transformVariable(e *ast.VariableExpression) Expr {
	if lv, ok := c.resolveLocal(e.Name); ok {
		return localExpr(lv, e.Pos)
	}
	pl := c.implicitPlace(e.Pos, e.Name, false)
	if pl == nil {
		return nil
	}
	return c.load(pl)
}

func (c *Compiler) transformField(e *ast.FieldExpression) Expr {
	pl := c.explicitPlace(e.Pos, e.Object, e.Name, true)
	if pl == nil {
		return nil
	}
	return c.load(pl)
}

func (c *Compiler) transformProperty(e *ast.PropertyExpression) Expr {
	pl := c.explicitPlace(e.Pos, e.Object, e.Name, false)
	if pl == nil {
		return nil
	}
	return c.load(pl)
}

func localExpr(lv localVar, pos token.Position) *Local {
	return &Local{node: node{lv.typ, pos}, Name: lv.name, Slot: lv.slot}
}

// resolvePlace resolves an assignment target.
func (c *Compiler) resolvePlace(target ast.Expression) *place {
	switch t := target.(type) {
	case *ast.VariableExpression:
		if lv, ok := c.resolveLocal(t.Name); ok {
			return &place{pos: t.Pos, name: t.Name, local: &lv}
		}
		return c.implicitPlace(t.Pos, t.Name, false)
	case *ast.FieldExpression:
		return c.explicitPlace(t.Pos, t.Object, t.Name, true)
	case *ast.PropertyExpression:
		return c.explicitPlace(t.Pos, t.Object, t.Name, false)
	case nil:
		return nil
	}
	c.errorf(diagnostics.ErrC005, target.GetPos(), "expression")
	return nil
}

// implicitPlace resolves an unqualified member name against the current
// class and then its enclosing classes.
func (c *Compiler) implicitPlace(pos token.Position, name string, direct bool) *place {
	for cls := c.class; cls != nil; cls = cls.Outer {
		owner := ts.Type(cls)
		if cls == c.class {
			owner = c.thisType()
		}
		pl := c.lookupMember(pos, owner, name, direct)
		if pl == nil {
			continue
		}
		if pl.static {
			return pl
		}
		if cls == c.class {
			if c.isStatic() {
				c.errorf(diagnostics.ErrC003, pos, name, "static context of "+c.class.Name)
				return nil
			}
			pl.receiver = c.this(pos)
			return pl
		}
		outer := c.outerThis(cls, pos)
		if outer == nil {
			break
		}
		pl.receiver = outer
		return pl
	}
	c.errorf(diagnostics.ErrC003, pos, name, c.class.Name)
	return nil
}

// explicitPlace resolves name on the value of object, or on the type it
// names.
func (c *Compiler) explicitPlace(pos token.Position, object ast.Expression, name string, direct bool) *place {
	if object == nil {
		return c.implicitPlace(pos, name, direct)
	}
	if ce, ok := object.(*ast.ClassExpression); ok {
		pl := c.lookupMember(pos, ce.Type, name, direct)
		if pl == nil || !pl.static {
			c.errorf(diagnostics.ErrC003, pos, name, "static members of "+ce.Type.String())
			return nil
		}
		return pl
	}

	obj := c.Transform(object)
	if obj == nil {
		return nil
	}
	pl := c.lookupMember(pos, obj.Type(), name, direct)
	if pl == nil {
		c.errorf(diagnostics.ErrC003, pos, name, obj.Type())
		return nil
	}
	if pl.static {
		pl.discard = obj
	} else {
		pl.receiver = obj
	}
	return pl
}

// lookupMember finds the accessors and field behind name on owner. The
// receiver is left for the caller to fill in.
func (c *Compiler) lookupMember(pos token.Position, owner ts.Type, name string, direct bool) *place {
	pl := &place{pos: pos, name: name, owner: owner, direct: direct}
	pl.field = c.registry.Field(owner, name)
	if !direct {
		pl.getter = c.findGetter(owner, name)
	}

	switch {
	case pl.getter != nil:
		pl.static = pl.getter.IsStatic()
	case pl.field != nil:
		pl.static = pl.field.IsStatic()
	case !direct && len(c.registry.FindMethods(owner, setterName(name))) > 0:
		pl.static = c.registry.FindMethods(owner, setterName(name))[0].IsStatic()
	default:
		return nil
	}
	return pl
}

func getterName(name string) string { return config.GetterPrefix + capitalize(name) }
func setterName(name string) string { return config.SetterPrefix + capitalize(name) }

func (c *Compiler) findGetter(owner ts.Type, name string) *ts.Method {
	if m := c.registry.FindMethod(owner, getterName(name), nil); m != nil && !ts.IsVoid(m.ReturnType()) {
		return m
	}
	if m := c.registry.FindMethod(owner, "is"+capitalize(name), nil); m != nil && ts.Same(m.ReturnType(), ts.PrimBoolean) {
		return m
	}
	return nil
}

func (c *Compiler) findSetter(owner ts.Type, name string, value ts.Type) *ts.Method {
	for _, m := range c.registry.FindMethods(owner, setterName(name)) {
		if len(m.Params) != 1 {
			continue
		}
		if ts.IsAssignableFrom(ts.SubstitutedType(m.Params[0].Type, m.Declaring, owner), value) {
			return m
		}
	}
	return nil
}

// load reads pl through its own receiver.
func (c *Compiler) load(pl *place) Expr {
	read := c.read(pl, pl.receiver)
	if pl.discard == nil {
		return read
	}
	return c.afterDiscard(pl, read)
}

// store writes value to pl using obj as the receiver.
func (c *Compiler) store(pl *place, obj Expr, value Expr) Expr {
	write := c.write(pl, obj, value)
	if write == nil || pl.discard == nil {
		return write
	}
	return c.afterDiscard(pl, write)
}

func (c *Compiler) afterDiscard(pl *place, e Expr) Expr {
	drop := &Pop{node: node{ts.PrimVoid, pl.pos}, Operand: pl.discard}
	return &Seq{node: node{e.Type(), pl.pos}, First: drop, Second: e}
}

// readForUpdate prepares a read-modify-write of pl. For an instance
// member the receiver is evaluated once and duplicated: the returned obj
// leaves two copies on the stack and cur consumes the top one.
func (c *Compiler) readForUpdate(pl *place) (obj Expr, cur Expr) {
	if pl.receiver == nil {
		return nil, c.read(pl, nil)
	}
	rt := pl.receiver.Type()
	obj = &DupReceiver{node: node{rt, pl.pos}, Object: pl.receiver}
	return obj, c.read(pl, &Stacked{node{rt, pl.pos}})
}

func (c *Compiler) read(pl *place, obj Expr) Expr {
	if pl.local != nil {
		return localExpr(*pl.local, pl.pos)
	}
	if pl.static {
		obj = nil
	}

	if m := pl.getter; m != nil {
		t := ts.SubstitutedType(m.ReturnType(), m.Declaring, pl.owner)
		if c.foreign(m.Modifiers, m.Declaring) {
			m = c.factory.GetMethodDelegate(m)
		}
		return &Getter{node: node{t, pl.pos}, Object: obj, Method: m, Property: pl.name}
	}

	f := pl.field
	if f == nil {
		c.errorf(diagnostics.ErrC003, pl.pos, pl.name, pl.owner)
		return nil
	}
	t := ts.SubstitutedType(f.Type, f.Declaring, pl.owner)
	if c.foreign(f.Modifiers, f.Declaring) {
		return &Getter{node: node{t, pl.pos}, Object: obj, Method: c.factory.GetFieldGetter(f), Field: f, Property: pl.name}
	}
	return &Getter{node: node{t, pl.pos}, Object: obj, Field: f, Property: pl.name}
}

func (c *Compiler) write(pl *place, obj Expr, value Expr) Expr {
	if lv := pl.local; lv != nil {
		if !ts.IsAssignableFrom(lv.typ, value.Type()) {
			c.errorf(diagnostics.ErrC005, pl.pos, value.Type().String()+" to "+lv.typ.String())
			return nil
		}
		return &Assign{
			node:  node{lv.typ, pl.pos},
			Local: localExpr(*lv, pl.pos),
			Value: coerce(value, lv.typ),
		}
	}
	if pl.static {
		obj = nil
	}

	if !pl.direct {
		if s := c.findSetter(pl.owner, pl.name, value.Type()); s != nil {
			if c.foreign(s.Modifiers, s.Declaring) {
				c.errorf(diagnostics.ErrC007, pl.pos, s.Name, pl.owner, c.class.Name)
				return nil
			}
			pt := ts.SubstitutedType(s.Params[0].Type, s.Declaring, pl.owner)
			return &Assign{node: node{pt, pl.pos}, Object: obj, Setter: s, Value: coerce(value, pt)}
		}
	}

	f := pl.field
	if f == nil || (f.IsFinal() && !c.initializes(f)) {
		c.errorf(diagnostics.ErrC001, pl.pos, setterName(pl.name), pl.name, pl.owner)
		return nil
	}
	ft := ts.SubstitutedType(f.Type, f.Declaring, pl.owner)
	if !ts.IsAssignableFrom(ft, value.Type()) {
		c.errorf(diagnostics.ErrC005, pl.pos, value.Type().String()+" to "+f.String())
		return nil
	}
	if c.foreign(f.Modifiers, f.Declaring) {
		s := c.factory.GetFieldSetter(f)
		return &Assign{node: node{ft, pl.pos}, Object: obj, Setter: s, Value: coerce(value, ft)}
	}
	return &Assign{node: node{ft, pl.pos}, Object: obj, Field: f, Value: coerce(value, ft)}
}

// initializes reports whether the method being compiled may store into
// the final field f.
func (c *Compiler) initializes(f *ts.Field) bool {
	return c.method != nil && c.method.Constructor && ts.Same(f.Declaring, c.class)
}

func (c *Compiler) transformAssign(e *ast.AssignExpression) Expr {
	pl := c.resolvePlace(e.Target)
	value := c.Transform(e.Value)
	if pl == nil || value == nil {
		return nil
	}

	if e.Operator == token.ASSIGN {
		return c.store(pl, pl.receiver, value)
	}
	if !e.Operator.IsCompoundAssign() {
		c.errorf(diagnostics.ErrC008, e.Pos, "assignment operator "+e.Operator.String())
		return nil
	}

	obj, cur := c.readForUpdate(pl)
	if cur == nil {
		return nil
	}
	result := c.arithmetic(e.Pos, e.Operator.BinaryOf(), cur, value)
	if result == nil {
		return nil
	}
	return c.store(pl, obj, result)
}

// transformIncDec compiles ++/-- on a variable, field or property. The
// prefix form leaves the new value, the postfix form the old one.
func (c *Compiler) transformIncDec(pos token.Position, op token.Kind, operand ast.Expression, prefix bool) Expr {
	if op != token.PLUS_PLUS && op != token.MINUS_MINUS {
		c.errorf(diagnostics.ErrC008, pos, "unary operator "+op.String())
		return nil
	}
	pl := c.resolvePlace(operand)
	if pl == nil {
		return nil
	}
	obj, cur := c.readForUpdate(pl)
	if cur == nil {
		return nil
	}
	t := cur.Type()
	if !prefix {
		cur = &Keep{node: node{t, pos}, Operand: cur, Under: obj != nil}
	}

	var next Expr
	if ts.IsNumerical(t) && !ts.IsBigDecimal(t) && !ts.IsBigInteger(t) {
		next = &IncDec{node: node{t, pos}, Op: op, Operand: cur, Prim: ts.Unbox(t)}
	} else {
		name := config.NextMethodName
		if op == token.MINUS_MINUS {
			name = config.PreviousMethodName
		}
		m := c.registry.FindMethod(t, name, nil)
		if m == nil {
			c.errorf(diagnostics.ErrC002, pos, name, t)
			return nil
		}
		next = c.invoke(pos, cur, t, m, nil, false)
	}

	st := c.store(pl, obj, next)
	if st == nil || prefix {
		return st
	}
	return &Pop{node: node{t, pos}, Operand: st}
}
