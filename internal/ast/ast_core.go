package ast

import (
	"github.com/funvibe/jvmstatic/internal/token"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Accept(v Visitor)
	GetPos() token.Position
}

// Statement is a Node that represents a statement. StatementNode is
// exported so member descriptors can hold a body without importing this
// package.
type Statement interface {
	Node
	StatementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// Visitor walks the tree. Each node calls the method for its own type.
type Visitor interface {
	VisitBlockStatement(n *BlockStatement)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitDeclarationStatement(n *DeclarationStatement)

	VisitConstantExpression(n *ConstantExpression)
	VisitVariableExpression(n *VariableExpression)
	VisitThisExpression(n *ThisExpression)
	VisitSuperExpression(n *SuperExpression)
	VisitClassExpression(n *ClassExpression)
	VisitFieldExpression(n *FieldExpression)
	VisitPropertyExpression(n *PropertyExpression)
	VisitMethodCallExpression(n *MethodCallExpression)
	VisitConstructorCallExpression(n *ConstructorCallExpression)
	VisitBinaryExpression(n *BinaryExpression)
	VisitAssignExpression(n *AssignExpression)
	VisitPrefixExpression(n *PrefixExpression)
	VisitPostfixExpression(n *PostfixExpression)
	VisitTernaryExpression(n *TernaryExpression)
	VisitElvisExpression(n *ElvisExpression)
	VisitCastExpression(n *CastExpression)
	VisitNotExpression(n *NotExpression)
}

// BlockStatement represents a list of statements.
type BlockStatement struct {
	Pos        token.Position
	Statements []Statement
}

func (bs *BlockStatement) Accept(v Visitor)       { v.VisitBlockStatement(bs) }
func (bs *BlockStatement) StatementNode()         {}
func (bs *BlockStatement) GetPos() token.Position { return bs.Pos }

// ExpressionStatement evaluates an expression and discards its value.
type ExpressionStatement struct {
	Pos        token.Position
	Expression Expression
}

func (es *ExpressionStatement) Accept(v Visitor)       { v.VisitExpressionStatement(es) }
func (es *ExpressionStatement) StatementNode()         {}
func (es *ExpressionStatement) GetPos() token.Position { return es.Pos }

// ReturnStatement returns from the enclosing method. Value is nil for a
// void return.
type ReturnStatement struct {
	Pos   token.Position
	Value Expression
}

func (rs *ReturnStatement) Accept(v Visitor)       { v.VisitReturnStatement(rs) }
func (rs *ReturnStatement) StatementNode()         {}
func (rs *ReturnStatement) GetPos() token.Position { return rs.Pos }

// DeclarationStatement declares a typed local variable, optionally
// initialized.
// int x = 1
type DeclarationStatement struct {
	Pos   token.Position
	Name  string
	Type  typesystem.Type
	Value Expression
}

func (ds *DeclarationStatement) Accept(v Visitor)       { v.VisitDeclarationStatement(ds) }
func (ds *DeclarationStatement) StatementNode()         {}
func (ds *DeclarationStatement) GetPos() token.Position { return ds.Pos }
