package compiler

import (
	"fmt"

	"github.com/funvibe/jvmstatic/internal/bytecode"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// emitter writes typed nodes to an instruction visitor, recording a line
// number whenever it changes.
type emitter struct {
	v    bytecode.Visitor
	line int
}

// Emit writes the instructions computing e, leaving its value (if any)
// on the stack.
func Emit(v bytecode.Visitor, e Expr) {
	em := &emitter{v: v}
	em.expr(e)
}

func (em *emitter) mark(pos token.Position) {
	if pos.Line > 0 && pos.Line != em.line {
		em.line = pos.Line
		em.v.VisitLineNumber(pos.Line)
	}
}

func (em *emitter) expr(e Expr) {
	em.mark(e.Pos())
	v := em.v

	switch n := e.(type) {
	case *Constant:
		bytecode.LoadConstant(v, n.Value, n.Type())

	case *This:
		v.VisitVarInsn(bytecode.ALOAD, 0)

	case *OuterThis:
		v.VisitVarInsn(bytecode.ALOAD, 0)
		for _, inner := range n.Path {
			v.VisitFieldInsn(bytecode.GETFIELD, inner.InternalName(), config.OuterInstanceName,
				ts.Descriptor(inner.Outer))
		}

	case *Local:
		v.VisitVarInsn(bytecode.LoadOp(n.Type()), n.Slot)

	case *Stacked:

	case *DupReceiver:
		em.expr(n.Object)
		bytecode.Dup(v, n.Object.Type())

	case *Keep:
		em.expr(n.Operand)
		if n.Under {
			bytecode.DupX1(v, n.Operand.Type())
		} else {
			bytecode.Dup(v, n.Operand.Type())
		}

	case *Getter:
		em.getter(n)

	case *Call:
		em.call(n.Object, n.Method, n.Args, n.Super, n.Type())

	case *NewInstance:
		cls := ts.Redirect(n.Type())
		v.VisitTypeInsn(bytecode.NEW, cls.InternalName())
		v.VisitInsn(bytecode.DUP)
		em.args(n.Ctor, n.Args)
		v.VisitMethodInsn(bytecode.INVOKESPECIAL, cls.InternalName(), config.ConstructorName,
			n.Ctor.Descriptor(), false)

	case *Binary:
		em.binary(n)

	case *Not:
		em.expr(n.Operand)
		isFalse, end := bytecode.NewLabel(), bytecode.NewLabel()
		bytecode.Branch(v, n.Operand.Type(), bytecode.IFNE, isFalse)
		v.VisitInsn(bytecode.ICONST_1)
		v.VisitJumpInsn(bytecode.GOTO, end)
		v.VisitLabel(isFalse)
		v.VisitInsn(bytecode.ICONST_0)
		v.VisitLabel(end)

	case *Cast:
		em.expr(n.Operand)
		bytecode.Cast(v, n.Operand.Type(), n.Type())

	case *Ternary:
		elseLabel, end := bytecode.NewLabel(), bytecode.NewLabel()
		em.expr(n.Cond)
		bytecode.Branch(v, n.Cond.Type(), bytecode.IFEQ, elseLabel)
		em.expr(n.True)
		v.VisitJumpInsn(bytecode.GOTO, end)
		v.VisitLabel(elseLabel)
		em.expr(n.False)
		v.VisitLabel(end)

	case *Elvis:
		elseLabel, end := bytecode.NewLabel(), bytecode.NewLabel()
		lt := n.Left.Type()
		em.expr(n.Left)
		bytecode.Dup(v, lt)
		bytecode.Branch(v, lt, bytecode.IFEQ, elseLabel)
		bytecode.Cast(v, lt, n.Type())
		v.VisitJumpInsn(bytecode.GOTO, end)
		v.VisitLabel(elseLabel)
		bytecode.Pop(v, lt)
		em.expr(n.Right)
		bytecode.Cast(v, n.Right.Type(), n.Type())
		v.VisitLabel(end)

	case *Assign:
		em.assign(n)

	case *IncDec:
		em.expr(n.Operand)
		t := n.Operand.Type()
		boxed := !ts.IsPrimitive(t)
		if boxed {
			bytecode.Unbox(v, n.Prim)
		}
		bytecode.IncOrDecPrimitive(v, n.Prim, n.Op)
		if boxed {
			bytecode.Box(v, n.Prim)
		}

	case *Seq:
		em.expr(n.First)
		em.expr(n.Second)

	case *Pop:
		em.expr(n.Operand)
		bytecode.Pop(v, n.Operand.Type())

	default:
		panic(fmt.Errorf("%w: cannot emit %T", ts.ErrInternal, e))
	}
}

func (em *emitter) getter(n *Getter) {
	if n.Method != nil {
		em.call(n.Object, n.Method, nil, false, n.Type())
		return
	}
	f := n.Field
	op := bytecode.GETFIELD
	if f.IsStatic() {
		op = bytecode.GETSTATIC
	} else {
		em.expr(n.Object)
	}
	em.v.VisitFieldInsn(op, f.Declaring.InternalName(), f.Name, ts.Descriptor(f.Type))
	em.result(f.Type, n.Type())
}

// call emits an invocation of m. Extension methods receive the boxed
// receiver as their first argument.
func (em *emitter) call(recv Expr, m *ts.Method, args []Expr, super bool, result ts.Type) {
	if recv != nil {
		em.expr(recv)
		if m.Extension || ts.IsPrimitive(recv.Type()) {
			bytecode.Box(em.v, recv.Type())
		}
	}
	em.args(m, args)
	em.invoke(m, super)
	em.result(m.ReturnType(), result)
}

// args emits each argument coerced to exactly its parameter type.
func (em *emitter) args(m *ts.Method, args []Expr) {
	for i, a := range args {
		em.expr(a)
		bytecode.CoerceArgument(em.v, a.Type(), m.Params[i].Type)
	}
}

func (em *emitter) invoke(m *ts.Method, super bool) {
	owner := m.Declaring
	op := bytecode.INVOKEVIRTUAL
	switch {
	case m.Extension:
		owner, op = m.Owner, bytecode.INVOKESTATIC
	case m.IsStatic():
		op = bytecode.INVOKESTATIC
	case super || m.IsPrivate():
		op = bytecode.INVOKESPECIAL
	case owner.IsInterface():
		op = bytecode.INVOKEINTERFACE
	}
	em.v.VisitMethodInsn(op, owner.InternalName(), m.Name, m.Descriptor(), owner.IsInterface())
}

// result narrows the erased value a member produced to the type the node
// promises, e.g. a generic getter seen through a parameterized receiver.
func (em *emitter) result(declared, want ts.Type) {
	if want == nil || ts.IsVoid(want) || ts.IsVoid(declared) {
		return
	}
	erased := ts.Type(ts.Redirect(declared))
	if !ts.Same(erased, want) {
		bytecode.Cast(em.v, erased, want)
	}
}

// assign leaves a copy of the stored value below the receiver, so the
// store consumes the receiver and the other copy.
func (em *emitter) assign(n *Assign) {
	v := em.v
	vt := n.Value.Type()

	switch {
	case n.Local != nil:
		em.expr(n.Value)
		bytecode.Dup(v, vt)
		v.VisitVarInsn(bytecode.StoreOp(n.Local.Type()), n.Local.Slot)

	case n.Setter != nil:
		s := n.Setter
		if s.IsStatic() {
			em.expr(n.Value)
			bytecode.Dup(v, vt)
		} else {
			em.expr(n.Object)
			em.expr(n.Value)
			bytecode.DupX1(v, vt)
		}
		bytecode.CoerceArgument(v, vt, s.Params[0].Type)
		em.invoke(s, false)
		bytecode.Pop(v, s.ReturnType())

	case n.Field != nil:
		f := n.Field
		if f.IsStatic() {
			em.expr(n.Value)
			bytecode.Dup(v, vt)
			v.VisitFieldInsn(bytecode.PUTSTATIC, f.Declaring.InternalName(), f.Name, ts.Descriptor(f.Type))
		} else {
			em.expr(n.Object)
			em.expr(n.Value)
			bytecode.DupX1(v, vt)
			v.VisitFieldInsn(bytecode.PUTFIELD, f.Declaring.InternalName(), f.Name, ts.Descriptor(f.Type))
		}

	default:
		panic(fmt.Errorf("%w: assignment without a target", ts.ErrInternal))
	}
}

func (em *emitter) binary(n *Binary) {
	v := em.v
	switch {
	case n.Op.IsLogical():
		em.logical(n)

	case n.Op.IsComparison():
		isFalse, end := bytecode.NewLabel(), bytecode.NewLabel()
		em.expr(n.Left)
		em.expr(n.Right)
		bytecode.CompareJump(v, n.Operand, n.Op, isFalse)
		v.VisitInsn(bytecode.ICONST_1)
		v.VisitJumpInsn(bytecode.GOTO, end)
		v.VisitLabel(isFalse)
		v.VisitInsn(bytecode.ICONST_0)
		v.VisitLabel(end)

	default:
		em.expr(n.Left)
		em.expr(n.Right)
		op, ok := bytecode.ArithmeticOp(n.Op, n.Type())
		if !ok {
			panic(fmt.Errorf("%w: no %s instruction for %s", ts.ErrInternal, n.Op, n.Type()))
		}
		v.VisitInsn(op)
	}
}

// logical short-circuits: && stops at the first false operand, || at the
// first true one.
func (em *emitter) logical(n *Binary) {
	v := em.v
	shortCircuit, end := bytecode.NewLabel(), bytecode.NewLabel()
	jump, result := bytecode.IFEQ, bytecode.ICONST_1
	if n.Op == token.OR {
		jump, result = bytecode.IFNE, bytecode.ICONST_0
	}

	em.expr(n.Left)
	bytecode.Branch(v, n.Left.Type(), jump, shortCircuit)
	em.expr(n.Right)
	bytecode.Branch(v, n.Right.Type(), jump, shortCircuit)
	v.VisitInsn(result)
	v.VisitJumpInsn(bytecode.GOTO, end)
	v.VisitLabel(shortCircuit)
	if result == bytecode.ICONST_1 {
		v.VisitInsn(bytecode.ICONST_0)
	} else {
		v.VisitInsn(bytecode.ICONST_1)
	}
	v.VisitLabel(end)
}
