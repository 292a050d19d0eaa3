package ast

import (
	"github.com/funvibe/jvmstatic/internal/token"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

// ConstantExpression is a literal. Value holds int64, float64, string,
// bool or nil; Type is the literal's static type as bound by the front end.
type ConstantExpression struct {
	Pos   token.Position
	Value any
	Type  typesystem.Type
}

func (ce *ConstantExpression) Accept(v Visitor)       { v.VisitConstantExpression(ce) }
func (ce *ConstantExpression) expressionNode()        {}
func (ce *ConstantExpression) GetPos() token.Position { return ce.Pos }

// VariableExpression names a local variable, a parameter or, when no local
// matches, a property of the current class.
type VariableExpression struct {
	Pos  token.Position
	Name string
}

func (ve *VariableExpression) Accept(v Visitor)       { v.VisitVariableExpression(ve) }
func (ve *VariableExpression) expressionNode()        {}
func (ve *VariableExpression) GetPos() token.Position { return ve.Pos }

// ThisExpression is the current instance, or the enclosing instance of
// Qualifier when set (Outer.this).
type ThisExpression struct {
	Pos       token.Position
	Qualifier *typesystem.Class
}

func (te *ThisExpression) Accept(v Visitor)       { v.VisitThisExpression(te) }
func (te *ThisExpression) expressionNode()        {}
func (te *ThisExpression) GetPos() token.Position { return te.Pos }

// SuperExpression is the receiver of a superclass-qualified call. With a
// Qualifier it refers to the superclass of an enclosing class (Outer.super).
type SuperExpression struct {
	Pos       token.Position
	Qualifier *typesystem.Class
}

func (se *SuperExpression) Accept(v Visitor)       { v.VisitSuperExpression(se) }
func (se *SuperExpression) expressionNode()        {}
func (se *SuperExpression) GetPos() token.Position { return se.Pos }

// ClassExpression names a type as the receiver of a static member access.
// Math.max(a, b)
type ClassExpression struct {
	Pos  token.Position
	Type typesystem.Type
}

func (ce *ClassExpression) Accept(v Visitor)       { v.VisitClassExpression(ce) }
func (ce *ClassExpression) expressionNode()        {}
func (ce *ClassExpression) GetPos() token.Position { return ce.Pos }

// FieldExpression is a direct field access, bypassing accessors.
// obj.@name
type FieldExpression struct {
	Pos    token.Position
	Object Expression // nil for the current instance or a static field
	Name   string
}

func (fe *FieldExpression) Accept(v Visitor)       { v.VisitFieldExpression(fe) }
func (fe *FieldExpression) expressionNode()        {}
func (fe *FieldExpression) GetPos() token.Position { return fe.Pos }

// PropertyExpression is property-style access: a getter/setter pair, or a
// field when no accessor exists.
// obj.name
type PropertyExpression struct {
	Pos    token.Position
	Object Expression // nil for the current instance
	Name   string
}

func (pe *PropertyExpression) Accept(v Visitor)       { v.VisitPropertyExpression(pe) }
func (pe *PropertyExpression) expressionNode()        {}
func (pe *PropertyExpression) GetPos() token.Position { return pe.Pos }

// MethodCallExpression is a method invocation.
type MethodCallExpression struct {
	Pos       token.Position
	Object    Expression // nil for the current instance or a static call
	Name      string
	Arguments []Expression
	// Dynamic calls dispatch on the runtime receiver and are never routed
	// through a synthetic delegate.
	Dynamic bool
}

func (mc *MethodCallExpression) Accept(v Visitor)       { v.VisitMethodCallExpression(mc) }
func (mc *MethodCallExpression) expressionNode()        {}
func (mc *MethodCallExpression) GetPos() token.Position { return mc.Pos }

// ConstructorCallExpression creates a new instance.
// new T(args)
type ConstructorCallExpression struct {
	Pos       token.Position
	Type      typesystem.Type
	Arguments []Expression
}

func (cc *ConstructorCallExpression) Accept(v Visitor)       { v.VisitConstructorCallExpression(cc) }
func (cc *ConstructorCallExpression) expressionNode()        {}
func (cc *ConstructorCallExpression) GetPos() token.Position { return cc.Pos }

// BinaryExpression is an arithmetic, comparison or logical operation.
type BinaryExpression struct {
	Pos      token.Position
	Operator token.Kind
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) Accept(v Visitor)       { v.VisitBinaryExpression(be) }
func (be *BinaryExpression) expressionNode()        {}
func (be *BinaryExpression) GetPos() token.Position { return be.Pos }

// AssignExpression is a plain (=) or compound (+= and friends) assignment.
// Target is a variable, field or property expression.
type AssignExpression struct {
	Pos      token.Position
	Operator token.Kind
	Target   Expression
	Value    Expression
}

func (ae *AssignExpression) Accept(v Visitor)       { v.VisitAssignExpression(ae) }
func (ae *AssignExpression) expressionNode()        {}
func (ae *AssignExpression) GetPos() token.Position { return ae.Pos }

// PrefixExpression is ++x or --x.
type PrefixExpression struct {
	Pos      token.Position
	Operator token.Kind
	Operand  Expression
}

func (pe *PrefixExpression) Accept(v Visitor)       { v.VisitPrefixExpression(pe) }
func (pe *PrefixExpression) expressionNode()        {}
func (pe *PrefixExpression) GetPos() token.Position { return pe.Pos }

// PostfixExpression is x++ or x--.
type PostfixExpression struct {
	Pos      token.Position
	Operator token.Kind
	Operand  Expression
}

func (pe *PostfixExpression) Accept(v Visitor)       { v.VisitPostfixExpression(pe) }
func (pe *PostfixExpression) expressionNode()        {}
func (pe *PostfixExpression) GetPos() token.Position { return pe.Pos }

// TernaryExpression is cond ? a : b.
type TernaryExpression struct {
	Pos       token.Position
	Condition Expression
	True      Expression
	False     Expression
}

func (te *TernaryExpression) Accept(v Visitor)       { v.VisitTernaryExpression(te) }
func (te *TernaryExpression) expressionNode()        {}
func (te *TernaryExpression) GetPos() token.Position { return te.Pos }

// ElvisExpression is a ?: b, yielding a when it is truthy.
type ElvisExpression struct {
	Pos   token.Position
	Left  Expression
	Right Expression
}

func (ee *ElvisExpression) Accept(v Visitor)       { v.VisitElvisExpression(ee) }
func (ee *ElvisExpression) expressionNode()        {}
func (ee *ElvisExpression) GetPos() token.Position { return ee.Pos }

// CastExpression is (T) expr.
type CastExpression struct {
	Pos        token.Position
	Type       typesystem.Type
	Expression Expression
}

func (ce *CastExpression) Accept(v Visitor)       { v.VisitCastExpression(ce) }
func (ce *CastExpression) expressionNode()        {}
func (ce *CastExpression) GetPos() token.Position { return ce.Pos }

// NotExpression is !expr.
type NotExpression struct {
	Pos        token.Position
	Expression Expression
}

func (ne *NotExpression) Accept(v Visitor)       { v.VisitNotExpression(ne) }
func (ne *NotExpression) expressionNode()        {}
func (ne *NotExpression) GetPos() token.Position { return ne.Pos }
