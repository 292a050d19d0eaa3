package bytecode

import (
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// kind is the stack representation of a value: int-like, long, float,
// double or reference.
type kind int

const (
	kindInt kind = iota
	kindLong
	kindFloat
	kindDouble
	kindRef
	kindVoid
)

func kindOf(t ts.Type) kind {
	switch {
	case t == nil:
		return kindRef
	case ts.IsVoid(t):
		return kindVoid
	case !ts.IsPrimitive(t):
		return kindRef
	case ts.Same(t, ts.PrimLong):
		return kindLong
	case ts.Same(t, ts.PrimFloat):
		return kindFloat
	case ts.Same(t, ts.PrimDouble):
		return kindDouble
	}
	return kindInt
}

// typed picks the variant of an int/long/float/double/reference opcode
// group laid out consecutively.
func typed(base Opcode, t ts.Type) Opcode {
	k := kindOf(t)
	if k == kindVoid {
		k = kindRef
	}
	return base + Opcode(k)
}

// LoadOp returns the local-variable load instruction for t.
func LoadOp(t ts.Type) Opcode { return typed(ILOAD, t) }

// StoreOp returns the local-variable store instruction for t.
func StoreOp(t ts.Type) Opcode { return typed(ISTORE, t) }

// ReturnOp returns the return instruction for t.
func ReturnOp(t ts.Type) Opcode {
	if ts.IsVoid(t) {
		return RETURN
	}
	return typed(IRETURN, t)
}

// Slots returns the number of local/stack slots a value of t occupies.
func Slots(t ts.Type) int {
	switch kindOf(t) {
	case kindVoid:
		return 0
	case kindLong, kindDouble:
		return 2
	}
	return 1
}

// ArithmeticOp returns the instruction for an arithmetic operator on
// primitive operands of type t.
func ArithmeticOp(op token.Kind, t ts.Type) (Opcode, bool) {
	var base Opcode
	switch op {
	case token.PLUS:
		base = IADD
	case token.MINUS:
		base = ISUB
	case token.MULTIPLY:
		base = IMUL
	case token.DIVIDE:
		base = IDIV
	case token.MOD:
		base = IREM
	default:
		return NOP, false
	}
	k := kindOf(t)
	if k > kindDouble {
		return NOP, false
	}
	return base + Opcode(k), true
}

// Dup duplicates a value of type t.
func Dup(v Visitor, t ts.Type) {
	switch Slots(t) {
	case 1:
		v.VisitInsn(DUP)
	case 2:
		v.VisitInsn(DUP2)
	}
}

// DupX1 duplicates a value of type t and inserts the copy below the
// one-slot value underneath it.
func DupX1(v Visitor, t ts.Type) {
	switch Slots(t) {
	case 1:
		v.VisitInsn(DUP_X1)
	case 2:
		v.VisitInsn(DUP2_X1)
	}
}

// Pop discards a value of type t.
func Pop(v Visitor, t ts.Type) {
	switch Slots(t) {
	case 1:
		v.VisitInsn(POP)
	case 2:
		v.VisitInsn(POP2)
	}
}

// Box converts a primitive value on the stack to its wrapper. Reference
// values are left untouched.
func Box(v Visitor, t ts.Type) {
	if !ts.IsPrimitive(t) || ts.IsVoid(t) {
		return
	}
	w := ts.Redirect(ts.Box(t))
	v.VisitMethodInsn(INVOKESTATIC, w.InternalName(), "valueOf",
		ts.MethodDescriptor(w, []ts.Type{t}), false)
}

// Unbox converts a wrapper on the stack to primitive t. It is a no-op
// when t is a reference type.
func Unbox(v Visitor, t ts.Type) {
	if !ts.IsPrimitive(t) || ts.IsVoid(t) {
		return
	}
	w := ts.Redirect(ts.Box(t))
	v.VisitMethodInsn(INVOKEVIRTUAL, w.InternalName(), ts.Redirect(t).Name+"Value",
		ts.MethodDescriptor(t, nil), false)
}

// Convert emits the primitive widening or narrowing from one primitive
// type to another.
func Convert(v Visitor, from, to ts.Type) {
	if ts.Same(from, to) {
		return
	}
	fk, tk := kindOf(from), kindOf(to)
	if fk != tk {
		if op, ok := conversions[[2]kind{fk, tk}]; ok {
			v.VisitInsn(op)
		}
	}
	if tk != kindInt {
		return
	}
	switch {
	case ts.Same(to, ts.PrimByte):
		v.VisitInsn(I2B)
	case ts.Same(to, ts.PrimShort) && !ts.Same(from, ts.PrimByte):
		v.VisitInsn(I2S)
	case ts.Same(to, ts.PrimChar):
		v.VisitInsn(I2C)
	}
}

var conversions = map[[2]kind]Opcode{
	{kindInt, kindLong}:     I2L,
	{kindInt, kindFloat}:    I2F,
	{kindInt, kindDouble}:   I2D,
	{kindLong, kindInt}:     L2I,
	{kindLong, kindFloat}:   L2F,
	{kindLong, kindDouble}:  L2D,
	{kindFloat, kindInt}:    F2I,
	{kindFloat, kindLong}:   F2L,
	{kindFloat, kindDouble}: F2D,
	{kindDouble, kindInt}:   D2I,
	{kindDouble, kindLong}:  D2L,
	{kindDouble, kindFloat}: D2F,
}

// Cast coerces a value of type from on the stack to type to.
func Cast(v Visitor, from, to ts.Type) {
	switch {
	case to == nil || ts.Same(from, to):
		return
	case ts.IsVoid(to):
		Pop(v, from)
		return
	case ts.IsPrimitive(from) && ts.IsPrimitive(to):
		Convert(v, from, to)
		return
	case ts.IsPrimitive(to) && ts.IsWrapper(from) && ts.IsNumerical(from) && ts.IsNumerical(to):
		Unbox(v, ts.Unbox(from))
		Convert(v, ts.Unbox(from), to)
		return
	case ts.IsPrimitive(to):
		Cast(v, from, ts.Box(to))
		Unbox(v, to)
		return
	case ts.IsPrimitive(from):
		Box(v, from)
		Cast(v, ts.Box(from), to)
		return
	case ts.Same(from, ts.Null) || ts.Same(to, ts.Object):
		return
	}

	// Numeric wrapper to numeric wrapper goes through the primitives.
	if ts.IsWrapper(from) && ts.IsWrapper(to) && ts.IsNumerical(from) && ts.IsNumerical(to) {
		Unbox(v, ts.Unbox(from))
		Convert(v, ts.Unbox(from), ts.Unbox(to))
		Box(v, ts.Unbox(to))
		return
	}
	if (ts.IsBigDecimal(to) || ts.IsBigInteger(to)) && ts.IsNumerical(from) && !ts.IsDirectlyAssignableFrom(to, from) {
		target := ts.Redirect(to)
		v.VisitMethodInsn(INVOKESTATIC, config.TypeTransformationOwner, "to"+target.SimpleName(),
			ts.MethodDescriptor(target, []ts.Type{ts.Object}), false)
		return
	}
	if ts.IsDirectlyAssignableFrom(to, from) {
		return
	}
	v.VisitTypeInsn(CHECKCAST, ts.Redirect(to).InternalName())
}

// CoerceArgument forces a value of type from into exactly the declared
// type to: box, cast to the wrapper of to, then unbox.
func CoerceArgument(v Visitor, from, to ts.Type) {
	if ts.Same(from, to) {
		return
	}
	Box(v, from)
	Cast(v, ts.Box(from), ts.Box(to))
	Unbox(v, to)
}

// IncOrDecPrimitive adds or subtracts one from the primitive of type t on
// top of the stack.
func IncOrDecPrimitive(v Visitor, t ts.Type, op token.Kind) {
	arith := token.PLUS
	if op == token.MINUS_MINUS {
		arith = token.MINUS
	}
	switch kindOf(t) {
	case kindLong:
		v.VisitInsn(LCONST_1)
	case kindFloat:
		v.VisitInsn(FCONST_1)
	case kindDouble:
		v.VisitInsn(DCONST_1)
	default:
		v.VisitInsn(ICONST_1)
	}
	code, _ := ArithmeticOp(arith, t)
	v.VisitInsn(code)
	if kindOf(t) == kindInt {
		Convert(v, ts.PrimInt, t)
	}
}

// LoadConstant pushes a literal value of type t.
func LoadConstant(v Visitor, value any, t ts.Type) {
	switch c := value.(type) {
	case nil:
		v.VisitInsn(ACONST_NULL)
	case bool:
		if c {
			v.VisitInsn(ICONST_1)
		} else {
			v.VisitInsn(ICONST_0)
		}
	case string:
		v.VisitLdcInsn(c)
	case int64:
		switch kindOf(t) {
		case kindLong:
			loadLong(v, c)
		case kindFloat, kindDouble:
			loadDouble(v, float64(c), t)
		default:
			loadInt(v, c)
		}
	case float64:
		loadDouble(v, c, t)
	default:
		v.VisitLdcInsn(c)
	}
}

func loadInt(v Visitor, c int64) {
	switch {
	case c >= -1 && c <= 5:
		v.VisitInsn(Opcode(int64(ICONST_0) + c))
	case c >= -128 && c <= 127:
		v.VisitIntInsn(BIPUSH, int(c))
	case c >= -32768 && c <= 32767:
		v.VisitIntInsn(SIPUSH, int(c))
	default:
		v.VisitLdcInsn(int32(c))
	}
}

func loadLong(v Visitor, c int64) {
	switch c {
	case 0:
		v.VisitInsn(LCONST_0)
	case 1:
		v.VisitInsn(LCONST_1)
	default:
		v.VisitLdcInsn(c)
	}
}

func loadDouble(v Visitor, c float64, t ts.Type) {
	if kindOf(t) == kindFloat {
		switch c {
		case 0:
			v.VisitInsn(FCONST_0)
		case 1:
			v.VisitInsn(FCONST_1)
		case 2:
			v.VisitInsn(FCONST_2)
		default:
			v.VisitLdcInsn(float32(c))
		}
		return
	}
	switch c {
	case 0:
		v.VisitInsn(DCONST_0)
	case 1:
		v.VisitInsn(DCONST_1)
	default:
		v.VisitLdcInsn(c)
	}
}

// Branch consumes a value of type t and jumps to l when its truth value
// matches op: IFEQ jumps when it is false, IFNE when it is true.
// References use the runtime truth rules (null, false, zero and empty are
// false).
func Branch(v Visitor, t ts.Type, op Opcode, l *Label) {
	switch kindOf(t) {
	case kindLong:
		v.VisitInsn(LCONST_0)
		v.VisitInsn(LCMP)
	case kindFloat:
		v.VisitInsn(FCONST_0)
		v.VisitInsn(FCMPL)
	case kindDouble:
		v.VisitInsn(DCONST_0)
		v.VisitInsn(DCMPL)
	case kindRef:
		v.VisitMethodInsn(INVOKESTATIC, config.TypeTransformationOwner,
			config.BooleanUnboxMethod, config.BooleanUnboxDescriptor, false)
	}
	v.VisitJumpInsn(op, l)
}

var intCompareJumps = map[token.Kind]Opcode{
	token.EQ: IF_ICMPEQ,
	token.NE: IF_ICMPNE,
	token.LT: IF_ICMPLT,
	token.GE: IF_ICMPGE,
	token.GT: IF_ICMPGT,
	token.LE: IF_ICMPLE,
}

var zeroCompareJumps = map[token.Kind]Opcode{
	token.EQ: IFEQ,
	token.NE: IFNE,
	token.LT: IFLT,
	token.GE: IFGE,
	token.GT: IFGT,
	token.LE: IFLE,
}

// CompareJump consumes two values of type t and jumps to l when the
// comparison op does NOT hold. References compare by identity.
// Floating-point comparisons are false on NaN.
func CompareJump(v Visitor, t ts.Type, op token.Kind, l *Label) {
	switch kindOf(t) {
	case kindInt:
		v.VisitJumpInsn(intCompareJumps[op].Negate(), l)
		return
	case kindRef:
		if op == token.EQ {
			v.VisitJumpInsn(IF_ACMPNE, l)
		} else {
			v.VisitJumpInsn(IF_ACMPEQ, l)
		}
		return
	case kindLong:
		v.VisitInsn(LCMP)
	case kindFloat:
		if op == token.LT || op == token.LE {
			v.VisitInsn(FCMPG)
		} else {
			v.VisitInsn(FCMPL)
		}
	case kindDouble:
		if op == token.LT || op == token.LE {
			v.VisitInsn(DCMPG)
		} else {
			v.VisitInsn(DCMPL)
		}
	}
	v.VisitJumpInsn(zeroCompareJumps[op].Negate(), l)
}
