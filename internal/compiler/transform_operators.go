package compiler

import (
	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// Arithmetic on BigInteger and BigDecimal calls these methods.
var bigMethods = map[token.Kind]string{
	token.PLUS:     "add",
	token.MINUS:    "subtract",
	token.MULTIPLY: "multiply",
	token.DIVIDE:   "divide",
	token.MOD:      "remainder",
}

func (c *Compiler) transformBinary(e *ast.BinaryExpression) Expr {
	left := c.Transform(e.Left)
	right := c.Transform(e.Right)
	if left == nil || right == nil {
		return nil
	}

	switch {
	case e.Operator.IsArithmetic():
		return c.arithmetic(e.Pos, e.Operator, left, right)
	case e.Operator.IsComparison():
		return c.comparison(e.Pos, e.Operator, left, right)
	case e.Operator.IsLogical():
		return &Binary{node: node{ts.PrimBoolean, e.Pos}, Op: e.Operator, Left: left, Right: right}
	}
	c.errorf(diagnostics.ErrC008, e.Pos, "binary operator "+e.Operator.String())
	return nil
}

func isText(t ts.Type) bool {
	return ts.Same(t, ts.String) || ts.Same(t, ts.GString)
}

// arithmetic applies op in the math type of its operands, or
// concatenates when + has a textual operand.
func (c *Compiler) arithmetic(pos token.Position, op token.Kind, left, right Expr) Expr {
	lt, rt := left.Type(), right.Type()
	if op == token.PLUS && (isText(lt) || isText(rt)) {
		return c.concat(pos, left, right)
	}
	if !ts.IsNumerical(lt) || !ts.IsNumerical(rt) {
		c.errorf(diagnostics.ErrC006, pos, op, lt, rt)
		return nil
	}

	mt := ts.GetMathType(lt, rt)
	if ts.IsBigDecimal(mt) || ts.IsBigInteger(mt) {
		m := c.registry.FindMethod(mt, bigMethods[op], []ts.Type{mt})
		if m == nil {
			c.errorf(diagnostics.ErrC006, pos, op, lt, rt)
			return nil
		}
		return &Call{node: node{mt, pos}, Object: coerce(left, mt), Method: m, Args: []Expr{coerce(right, mt)}}
	}
	return &Binary{node: node{mt, pos}, Op: op, Left: coerce(left, mt), Right: coerce(right, mt)}
}

// concat renders both operands with String.valueOf and joins them.
func (c *Compiler) concat(pos token.Position, left, right Expr) Expr {
	valueOf := c.registry.FindMethod(ts.String, "valueOf", []ts.Type{ts.Object})
	join := c.registry.FindMethod(ts.String, "concat", []ts.Type{ts.String})
	text := func(e Expr) Expr {
		if ts.Same(e.Type(), ts.String) {
			return e
		}
		return &Call{node: node{ts.String, pos}, Method: valueOf, Args: []Expr{e}}
	}
	return &Call{node: node{ts.String, pos}, Object: text(left), Method: join, Args: []Expr{text(right)}}
}

func (c *Compiler) comparison(pos token.Position, op token.Kind, left, right Expr) Expr {
	lt, rt := left.Type(), right.Type()
	boolean := node{ts.PrimBoolean, pos}

	switch {
	case ts.IsNumerical(lt) && ts.IsNumerical(rt):
		mt := ts.GetMathType(lt, rt)
		if ts.IsBigDecimal(mt) || ts.IsBigInteger(mt) {
			cmp := c.registry.FindMethod(mt, "compareTo", []ts.Type{mt})
			call := &Call{node: node{ts.PrimInt, pos}, Object: coerce(left, mt), Method: cmp, Args: []Expr{coerce(right, mt)}}
			zero := &Constant{node: node{ts.PrimInt, pos}, Value: int64(0)}
			return &Binary{node: boolean, Op: op, Left: call, Right: zero, Operand: ts.PrimInt}
		}
		return &Binary{node: boolean, Op: op, Left: coerce(left, mt), Right: coerce(right, mt), Operand: mt}

	case isBoolean(lt) && isBoolean(rt) && (op == token.EQ || op == token.NE):
		return &Binary{
			node:    boolean,
			Op:      op,
			Left:    coerce(left, ts.PrimBoolean),
			Right:   coerce(right, ts.PrimBoolean),
			Operand: ts.PrimBoolean,
		}

	case ts.Same(lt, ts.Null) || ts.Same(rt, ts.Null):
		if op != token.EQ && op != token.NE {
			break
		}
		return &Binary{node: boolean, Op: op, Left: coerce(left, ts.Box(lt)), Right: coerce(right, ts.Box(rt)), Operand: ts.Object}

	case op == token.EQ || op == token.NE:
		equals := c.registry.FindMethod(lt, "equals", []ts.Type{ts.Object})
		if equals == nil {
			break
		}
		var eq Expr = c.invoke(pos, coerce(left, ts.Box(lt)), ts.Box(lt), equals, []Expr{right}, false)
		if op == token.NE {
			eq = &Not{node: boolean, Operand: eq}
		}
		return eq

	case ts.IsAssignableFrom(ts.Comparable, lt):
		cmp := c.registry.FindMethod(lt, "compareTo", []ts.Type{rt})
		if cmp == nil {
			break
		}
		call := c.invoke(pos, left, lt, cmp, []Expr{right}, false)
		zero := &Constant{node: node{ts.PrimInt, pos}, Value: int64(0)}
		return &Binary{node: boolean, Op: op, Left: call, Right: zero, Operand: ts.PrimInt}
	}
	c.errorf(diagnostics.ErrC006, pos, op, lt, rt)
	return nil
}

func isBoolean(t ts.Type) bool {
	return ts.Same(t, ts.PrimBoolean) || ts.Same(t, ts.Boolean)
}

func (c *Compiler) transformNot(e *ast.NotExpression) Expr {
	operand := c.Transform(e.Expression)
	if operand == nil {
		return nil
	}
	return &Not{node: node{ts.PrimBoolean, e.Pos}, Operand: operand}
}

func (c *Compiler) transformCast(e *ast.CastExpression) Expr {
	operand := c.Transform(e.Expression)
	if operand == nil {
		return nil
	}
	from := operand.Type()
	if !ts.IsAssignableFrom(e.Type, from) && !ts.IsAssignableFrom(from, e.Type) &&
		!ts.Redirect(e.Type).IsInterface() && !ts.Redirect(ts.Box(from)).IsInterface() {
		c.errorf(diagnostics.ErrC005, e.Pos, from.String()+" to "+e.Type.String())
		return nil
	}
	return &Cast{node: node{e.Type, e.Pos}, Operand: operand}
}

// transformTernary unifies both branches to their common type.
func (c *Compiler) transformTernary(e *ast.TernaryExpression) Expr {
	cond := c.Transform(e.Condition)
	whenTrue := c.Transform(e.True)
	whenFalse := c.Transform(e.False)
	if cond == nil || whenTrue == nil || whenFalse == nil {
		return nil
	}
	t := ts.CommonType(whenTrue.Type(), whenFalse.Type())
	return &Ternary{
		node:  node{t, e.Pos},
		Cond:  cond,
		True:  coerce(whenTrue, t),
		False: coerce(whenFalse, t),
	}
}

// transformElvis types a ?: b as the common type of the declared type of
// a and the type of b.
func (c *Compiler) transformElvis(e *ast.ElvisExpression) Expr {
	left := c.Transform(e.Left)
	right := c.Transform(e.Right)
	if left == nil || right == nil {
		return nil
	}
	t := ts.CommonType(left.Type(), right.Type())
	return &Elvis{node: node{t, e.Pos}, Left: left, Right: right}
}
