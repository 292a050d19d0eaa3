// Package compiler turns bound expressions into typed nodes and emits
// them as stack-machine code.
//
// Every node carries its static type and source position. Nodes are
// immutable once built and own their operands; the emission pass in
// emit.go switches over the closed set of node types defined here.
package compiler

import (
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// Expr is a typed expression node.
type Expr interface {
	Type() ts.Type
	Pos() token.Position
	exprNode()
}

type node struct {
	typ ts.Type
	pos token.Position
}

func (n node) Type() ts.Type       { return n.typ }
func (n node) Pos() token.Position { return n.pos }
func (n node) exprNode()           {}

// Constant pushes a literal.
type Constant struct {
	node
	Value any
}

// This loads the current instance.
type This struct {
	node
}

// OuterThis loads an enclosing instance by following the captured
// outer-instance field of each class in Path, innermost first.
type OuterThis struct {
	node
	Path []*ts.Class
}

// Local loads a local variable or parameter.
type Local struct {
	node
	Name string
	Slot int
}

// Stacked stands for a value that is already on the operand stack. It
// emits nothing.
type Stacked struct {
	node
}

// DupReceiver evaluates Object and leaves it on the stack twice.
type DupReceiver struct {
	node
	Object Expr
}

// Keep evaluates Operand and duplicates its value, below the receiver
// that sits under it when Under is set.
type Keep struct {
	node
	Operand Expr
	Under   bool
}

// Getter reads a property through an accessor method, or directly from
// Field when Method is nil. Object is nil for a static member read
// without a receiver expression.
type Getter struct {
	node
	Object   Expr
	Method   *ts.Method
	Field    *ts.Field
	Property string
}

// Call invokes Method. Object is nil for static calls without a receiver
// expression. Super selects non-virtual dispatch to the superclass
// implementation.
type Call struct {
	node
	Object Expr
	Method *ts.Method
	Args   []Expr
	Super  bool
}

// NewInstance constructs an instance of the node's type through Ctor.
type NewInstance struct {
	node
	Ctor *ts.Method
	Args []Expr
}

// Binary applies a primitive arithmetic, comparison or logical operator.
// Arithmetic operands are already converted to the node's type.
type Binary struct {
	node
	Op      token.Kind
	Left    Expr
	Right   Expr
	Operand ts.Type // comparison operand type; nil otherwise
}

// Not negates the truth value of Operand.
type Not struct {
	node
	Operand Expr
}

// Cast converts Operand to the node's type.
type Cast struct {
	node
	Operand Expr
}

// Ternary selects True or False by the truth value of Cond. Both branches
// already have the node's type.
type Ternary struct {
	node
	Cond  Expr
	True  Expr
	False Expr
}

// Elvis yields Left when it is truthy and Right otherwise.
type Elvis struct {
	node
	Left  Expr
	Right Expr
}

// Assign stores Value through a setter, into a field or into a local, and
// leaves the stored value on the stack. Exactly one of Setter, Field and
// Local is set.
type Assign struct {
	node
	Object Expr
	Setter *ts.Method
	Field  *ts.Field
	Local  *Local
	Value  Expr
}

// IncDec increments or decrements a numeric Operand in its primitive
// type Prim, boxing the result again when Operand is a wrapper.
type IncDec struct {
	node
	Op      token.Kind
	Operand Expr
	Prim    ts.Type
}

// Seq emits First and then Second. First must leave nothing on the stack.
type Seq struct {
	node
	First  Expr
	Second Expr
}

// Pop evaluates Operand and discards its value. The node's type describes
// what Operand left beneath that value, or void.
type Pop struct {
	node
	Operand Expr
}
