package compiler

import (
	"fmt"
	"strings"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/bytecode"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/synth"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// localVar is a declared local variable or parameter.
type localVar struct {
	name  string
	typ   ts.Type
	slot  int
	depth int
}

// Compiler transforms the expressions of one method body into typed
// nodes. It records diagnostics instead of failing: a transformer that
// hits an error returns nil and its siblings are still attempted.
type Compiler struct {
	registry *ts.Registry
	factory  *synth.Factory
	class    *ts.Class
	method   *ts.Method

	locals     []localVar
	nextSlot   int
	scopeDepth int

	errors diagnostics.List
}

// New creates a compiler for method of class. The method parameters are
// bound to the first local slots, after the receiver for instance
// methods. method may be nil to transform free-standing expressions in
// an instance context.
func New(factory *synth.Factory, class *ts.Class, method *ts.Method) *Compiler {
	c := &Compiler{
		registry: factory.Registry(),
		factory:  factory,
		class:    class,
		method:   method,
	}
	if !c.isStatic() {
		c.nextSlot = 1
	}
	if method != nil {
		for _, p := range method.Params {
			c.addLocal(p.Name, p.Type)
		}
	}
	return c
}

// Errors returns the diagnostics recorded so far.
func (c *Compiler) Errors() diagnostics.List {
	return c.errors
}

// MaxLocals returns the number of local slots allocated so far.
func (c *Compiler) MaxLocals() int {
	return c.nextSlot
}

func (c *Compiler) isStatic() bool {
	return c.method != nil && c.method.IsStatic()
}

func (c *Compiler) errorf(code diagnostics.ErrorCode, pos token.Position, args ...any) {
	c.errors.Add(diagnostics.NewError(code, pos, args...))
}

// Scope handling

func (c *Compiler) beginScope() {
	c.scopeDepth++
}

func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// addLocal allocates the next slot for name. Slots are never reused, so
// MaxLocals covers every variable the method declared.
func (c *Compiler) addLocal(name string, t ts.Type) localVar {
	lv := localVar{name: name, typ: t, slot: c.nextSlot, depth: c.scopeDepth}
	c.locals = append(c.locals, lv)
	c.nextSlot += max(1, bytecode.Slots(t))
	return lv
}

func (c *Compiler) resolveLocal(name string) (localVar, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			return c.locals[i], true
		}
	}
	return localVar{}, false
}

// foreign reports whether a private member of declaring is out of reach
// from the class being compiled.
func (c *Compiler) foreign(mods ts.Modifier, declaring *ts.Class) bool {
	return mods.Has(ts.Private) && !ts.Same(declaring, c.class)
}

// Transform builds the typed node for expr, or returns nil after
// recording a diagnostic.
func (c *Compiler) Transform(expr ast.Expression) Expr {
	switch e := expr.(type) {
	case *ast.ConstantExpression:
		return c.transformConstant(e)
	case *ast.VariableExpression:
		return c.transformVariable(e)
	case *ast.ThisExpression:
		return c.transformThis(e)
	case *ast.SuperExpression:
		c.errorf(diagnostics.ErrC008, e.Pos, "super outside of a method call")
		return nil
	case *ast.ClassExpression:
		c.errorf(diagnostics.ErrC008, e.Pos, "type reference "+e.Type.String()+" used as a value")
		return nil
	case *ast.FieldExpression:
		return c.transformField(e)
	case *ast.PropertyExpression:
		return c.transformProperty(e)
	case *ast.MethodCallExpression:
		return c.transformMethodCall(e)
	case *ast.ConstructorCallExpression:
		return c.transformConstructorCall(e)
	case *ast.BinaryExpression:
		return c.transformBinary(e)
	case *ast.AssignExpression:
		return c.transformAssign(e)
	case *ast.PrefixExpression:
		return c.transformIncDec(e.Pos, e.Operator, e.Operand, true)
	case *ast.PostfixExpression:
		return c.transformIncDec(e.Pos, e.Operator, e.Operand, false)
	case *ast.TernaryExpression:
		return c.transformTernary(e)
	case *ast.ElvisExpression:
		return c.transformElvis(e)
	case *ast.CastExpression:
		return c.transformCast(e)
	case *ast.NotExpression:
		return c.transformNot(e)
	case nil:
		return nil
	}
	c.errorf(diagnostics.ErrC008, expr.GetPos(), fmt.Sprintf("expression %T", expr))
	return nil
}

// transformAll transforms every expression, continuing past failures so
// each one gets its diagnostics.
func (c *Compiler) transformAll(exprs []ast.Expression) ([]Expr, []ts.Type, bool) {
	out := make([]Expr, len(exprs))
	types := make([]ts.Type, len(exprs))
	ok := true
	for i, e := range exprs {
		out[i] = c.Transform(e)
		if out[i] == nil {
			ok = false
			continue
		}
		types[i] = out[i].Type()
	}
	return out, types, ok
}

func (c *Compiler) transformConstant(e *ast.ConstantExpression) Expr {
	t := e.Type
	if t == nil {
		switch e.Value.(type) {
		case int64:
			t = ts.PrimInt
		case float64:
			t = ts.PrimDouble
		case string:
			t = ts.String
		case bool:
			t = ts.PrimBoolean
		case nil:
			t = ts.Null
		default:
			c.errorf(diagnostics.ErrC008, e.Pos, fmt.Sprintf("constant %v", e.Value))
			return nil
		}
	}
	return &Constant{node: node{t, e.Pos}, Value: e.Value}
}

func (c *Compiler) transformThis(e *ast.ThisExpression) Expr {
	if c.isStatic() {
		c.errorf(diagnostics.ErrC008, e.Pos, "this in a static context")
		return nil
	}
	if e.Qualifier == nil || ts.Same(e.Qualifier, c.class) {
		return c.this(e.Pos)
	}
	outer := c.outerThis(e.Qualifier, e.Pos)
	if outer == nil {
		c.errorf(diagnostics.ErrC008, e.Pos, e.Qualifier.Name+".this outside of "+e.Qualifier.Name)
		return nil
	}
	return outer
}

func (c *Compiler) this(pos token.Position) Expr {
	return &This{node{c.thisType(), pos}}
}

// thisType is the current class seen with its own type parameters bound.
func (c *Compiler) thisType() ts.Type {
	if !c.class.IsGeneric() {
		return c.class
	}
	args := make([]ts.Type, len(c.class.TypeParams))
	for i, p := range c.class.TypeParams {
		args[i] = p
	}
	return ts.Instantiate(c.class, args...)
}

// outerThis builds the load of the enclosing instance of target and marks
// every class on the way as using its outer instance. It returns nil when
// target does not enclose the current class through inner classes.
func (c *Compiler) outerThis(target *ts.Class, pos token.Position) *OuterThis {
	if c.isStatic() {
		return nil
	}
	var path []*ts.Class
	cls := c.class
	for !ts.Same(cls, target) {
		if cls.Outer == nil || cls.Modifiers.Has(ts.Static) {
			return nil
		}
		path = append(path, cls)
		cls = cls.Outer
	}
	for _, p := range path {
		c.factory.SetOuterClassInstanceUsed(p)
	}
	return &OuterThis{node: node{target, pos}, Path: path}
}

// coerce converts e to t when their types differ.
func coerce(e Expr, t ts.Type) Expr {
	if t == nil || ts.Same(e.Type(), t) {
		return e
	}
	return &Cast{node: node{t, e.Pos()}, Operand: e}
}

func capitalize(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func typeNames(types []ts.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
