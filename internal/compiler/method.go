package compiler

import (
	"fmt"
	"strings"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/bytecode"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/synth"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// CompiledMethod is the emitted body of one method.
type CompiledMethod struct {
	Method *ts.Method
	Code   *bytecode.Code
}

// Unit is the result of compiling every method of a compilation unit.
type Unit struct {
	Methods []*CompiledMethod
	Errors  diagnostics.List
}

// Disassemble renders every compiled method.
func (u *Unit) Disassemble() string {
	var sb strings.Builder
	for _, cm := range u.Methods {
		sb.WriteString(bytecode.Disassemble(cm.Code, cm.Method.String()))
	}
	return sb.String()
}

// Lookup returns the compiled body of m, if any.
func (u *Unit) Lookup(m *ts.Method) *CompiledMethod {
	for _, cm := range u.Methods {
		if cm.Method == m {
			return cm
		}
	}
	return nil
}

// CompileUnit compiles the constructors and methods of every user class
// in the factory's registry. Synthetic members generated along the way
// are compiled too, until a pass adds nothing new.
func CompileUnit(factory *synth.Factory) *Unit {
	reg := factory.Registry()
	unit := &Unit{}
	seen := make(map[*ts.Method]bool)

	for progress := true; progress; {
		progress = false
		for _, cls := range reg.UserClasses() {
			members := append(append([]*ts.Method(nil), reg.Constructors(cls)...), reg.Methods(cls)...)
			for _, m := range members {
				if seen[m] {
					continue
				}
				seen[m] = true
				progress = true
				if m.Body == nil {
					continue
				}
				code, errs := CompileMethod(factory, m)
				unit.Errors = append(unit.Errors, errs...)
				if code != nil {
					unit.Methods = append(unit.Methods, &CompiledMethod{Method: m, Code: code})
				}
			}
		}
	}
	return unit
}

// CompileMethod compiles the body of m. It returns nil code when m has no
// body or the body does not compile.
func CompileMethod(factory *synth.Factory, m *ts.Method) (*bytecode.Code, diagnostics.List) {
	body, ok := m.Body.(ast.Statement)
	if !ok {
		return nil, nil
	}

	c := New(factory, m.Declaring, m)
	code := bytecode.NewCode()
	em := &emitter{v: code}

	returned := c.compileStatement(em, body)
	if !returned {
		if !ts.IsVoid(c.returnType()) {
			c.errorf(diagnostics.ErrC008, body.GetPos(), "missing return in "+m.String())
		} else {
			code.VisitInsn(bytecode.RETURN)
		}
	}
	if c.errors.HasErrors() {
		return nil, c.errors
	}
	code.MaxLocals = max(code.MaxLocals, c.MaxLocals())
	return code, nil
}

func (c *Compiler) returnType() ts.Type {
	if c.method == nil || c.method.Constructor {
		return ts.PrimVoid
	}
	return c.method.ReturnType()
}

// compileStatement emits s and reports whether it always returns.
func (c *Compiler) compileStatement(em *emitter, s ast.Statement) bool {
	switch st := s.(type) {
	case *ast.BlockStatement:
		c.beginScope()
		defer c.endScope()
		returned := false
		for _, inner := range st.Statements {
			if returned {
				c.errorf(diagnostics.ErrC008, inner.GetPos(), "unreachable statement")
				break
			}
			returned = c.compileStatement(em, inner)
		}
		return returned

	case *ast.ExpressionStatement:
		if e := c.Transform(st.Expression); e != nil {
			em.expr(e)
			bytecode.Pop(em.v, e.Type())
		}
		return false

	case *ast.ReturnStatement:
		c.compileReturn(em, st)
		return true

	case *ast.DeclarationStatement:
		c.compileDeclaration(em, st)
		return false
	}
	c.errorf(diagnostics.ErrC008, s.GetPos(), fmt.Sprintf("statement %T", s))
	return false
}

func (c *Compiler) compileReturn(em *emitter, st *ast.ReturnStatement) {
	ret := c.returnType()
	if st.Value == nil {
		if !ts.IsVoid(ret) {
			c.errorf(diagnostics.ErrC005, st.Pos, "void to "+ret.String())
			return
		}
		em.v.VisitInsn(bytecode.RETURN)
		return
	}

	e := c.Transform(st.Value)
	if e == nil {
		return
	}
	if ts.IsVoid(ret) || !ts.IsAssignableFrom(ret, e.Type()) {
		c.errorf(diagnostics.ErrC005, st.Pos, e.Type().String()+" to "+ret.String())
		return
	}
	em.expr(coerce(e, ret))
	em.v.VisitInsn(bytecode.ReturnOp(ret))
}

func (c *Compiler) compileDeclaration(em *emitter, st *ast.DeclarationStatement) {
	var value Expr
	if st.Value != nil {
		value = c.Transform(st.Value)
	}

	t := st.Type
	if t == nil {
		if value == nil {
			if st.Value == nil {
				c.errorf(diagnostics.ErrC008, st.Pos, "untyped declaration of "+st.Name+" without a value")
			}
			return
		}
		t = value.Type()
		if ts.Same(t, ts.Null) {
			t = ts.Object
		}
	}
	lv := c.addLocal(st.Name, t)
	if value == nil {
		return
	}
	if !ts.IsAssignableFrom(t, value.Type()) {
		c.errorf(diagnostics.ErrC005, st.Pos, value.Type().String()+" to "+t.String())
		return
	}
	em.expr(coerce(value, t))
	em.v.VisitVarInsn(bytecode.StoreOp(t), lv.slot)
}
