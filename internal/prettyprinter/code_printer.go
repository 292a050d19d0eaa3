package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/token"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[token.Kind]int{
	token.OR:       1,
	token.AND:      2,
	token.EQ:       3,
	token.NE:       3,
	token.LT:       4,
	token.GT:       4,
	token.LE:       4,
	token.GE:       4,
	token.PLUS:     7,
	token.MINUS:    7,
	token.MULTIPLY: 8,
	token.DIVIDE:   8,
	token.MOD:      8,
}

// Assignment, elvis and ternary sit below every binary operator.
const (
	precAssign  = -2
	precTernary = -1
	precUnary   = 100
)

func getPrecedence(op token.Kind) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a single node.
func Print(n ast.Node) string {
	p := NewCodePrinter()
	if n == nil {
		return "<???>"
	}
	n.Accept(p)
	return p.String()
}

// PrintMethod renders a method signature followed by its body, if any.
func PrintMethod(m *typesystem.Method) string {
	p := NewCodePrinter()
	p.printMethod(m)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) printMethod(m *typesystem.Method) {
	if mods := m.Modifiers.String(); mods != "" {
		p.write(mods + " ")
	}
	if !m.Constructor {
		p.write(typeName(m.ReturnType()) + " ")
	}
	p.write(m.Name + "(")
	for i, param := range m.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write(typeName(param.Type) + " " + param.Name)
	}
	p.write(")")

	body, ok := m.Body.(ast.Statement)
	if !ok || body == nil {
		return
	}
	p.write(" ")
	if _, isBlock := body.(*ast.BlockStatement); !isBlock {
		body = &ast.BlockStatement{Statements: []ast.Statement{body}}
	}
	body.Accept(p)
}

func typeName(t typesystem.Type) string {
	if t == nil {
		return "def"
	}
	return t.String()
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}
	prec := precUnary
	switch e := expr.(type) {
	case *ast.BinaryExpression:
		prec = getPrecedence(e.Operator)
	case *ast.AssignExpression:
		prec = precAssign
	case *ast.TernaryExpression, *ast.ElvisExpression:
		prec = precTernary
	}
	needParens := prec < parentPrec || (prec == parentPrec && isRight)
	if needParens {
		p.write("(")
	}
	expr.Accept(p)
	if needParens {
		p.write(")")
	}
}

func (p *CodePrinter) printReceiver(obj ast.Expression) {
	if obj == nil {
		return
	}
	p.printExpr(obj, precUnary, false)
	p.write(".")
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(a, precAssign, false)
	}
	p.write(")")
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	p.write("{\n")
	p.indent++
	for _, stmt := range n.Statements {
		p.writeIndent()
		if stmt != nil {
			stmt.Accept(p)
		} else {
			p.write("<???>")
		}
		p.write("\n")
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitExpressionStatement(n *ast.ExpressionStatement) {
	p.printExpr(n.Expression, precAssign, false)
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, precAssign, false)
	}
}

func (p *CodePrinter) VisitDeclarationStatement(n *ast.DeclarationStatement) {
	p.write(typeName(n.Type) + " " + n.Name)
	if n.Value != nil {
		p.write(" = ")
		p.printExpr(n.Value, precAssign, false)
	}
}

func (p *CodePrinter) VisitConstantExpression(n *ast.ConstantExpression) {
	switch v := n.Value.(type) {
	case nil:
		p.write("null")
	case string:
		p.write(strconv.Quote(v))
	case int64:
		p.write(strconv.FormatInt(v, 10))
	case float64:
		p.write(strconv.FormatFloat(v, 'g', -1, 64))
	case bool:
		p.write(strconv.FormatBool(v))
	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) VisitVariableExpression(n *ast.VariableExpression) {
	p.write(n.Name)
}

func (p *CodePrinter) VisitThisExpression(n *ast.ThisExpression) {
	if n.Qualifier != nil {
		p.write(n.Qualifier.SimpleName() + ".")
	}
	p.write("this")
}

func (p *CodePrinter) VisitSuperExpression(n *ast.SuperExpression) {
	if n.Qualifier != nil {
		p.write(n.Qualifier.SimpleName() + ".")
	}
	p.write("super")
}

func (p *CodePrinter) VisitClassExpression(n *ast.ClassExpression) {
	p.write(typeName(n.Type))
}

func (p *CodePrinter) VisitFieldExpression(n *ast.FieldExpression) {
	if n.Object != nil {
		p.printExpr(n.Object, precUnary, false)
		p.write(".@")
	}
	p.write(n.Name)
}

func (p *CodePrinter) VisitPropertyExpression(n *ast.PropertyExpression) {
	p.printReceiver(n.Object)
	p.write(n.Name)
}

func (p *CodePrinter) VisitMethodCallExpression(n *ast.MethodCallExpression) {
	p.printReceiver(n.Object)
	p.write(n.Name)
	p.printArgs(n.Arguments)
}

func (p *CodePrinter) VisitConstructorCallExpression(n *ast.ConstructorCallExpression) {
	p.write("new " + typeName(n.Type))
	p.printArgs(n.Arguments)
}

func (p *CodePrinter) VisitBinaryExpression(n *ast.BinaryExpression) {
	prec := getPrecedence(n.Operator)
	p.printExpr(n.Left, prec, false)
	p.write(" " + n.Operator.String() + " ")
	p.printExpr(n.Right, prec, true)
}

func (p *CodePrinter) VisitAssignExpression(n *ast.AssignExpression) {
	p.printExpr(n.Target, precUnary, false)
	p.write(" " + n.Operator.String() + " ")
	p.printExpr(n.Value, precAssign, false)
}

func (p *CodePrinter) VisitPrefixExpression(n *ast.PrefixExpression) {
	p.write(n.Operator.String())
	p.printExpr(n.Operand, precUnary, false)
}

func (p *CodePrinter) VisitPostfixExpression(n *ast.PostfixExpression) {
	p.printExpr(n.Operand, precUnary, false)
	p.write(n.Operator.String())
}

func (p *CodePrinter) VisitTernaryExpression(n *ast.TernaryExpression) {
	p.printExpr(n.Condition, precTernary+1, false)
	p.write(" ? ")
	p.printExpr(n.True, precTernary, false)
	p.write(" : ")
	p.printExpr(n.False, precTernary, false)
}

func (p *CodePrinter) VisitElvisExpression(n *ast.ElvisExpression) {
	p.printExpr(n.Left, precTernary+1, false)
	p.write(" ?: ")
	p.printExpr(n.Right, precTernary, false)
}

func (p *CodePrinter) VisitCastExpression(n *ast.CastExpression) {
	p.write("(" + typeName(n.Type) + ") ")
	p.printExpr(n.Expression, precUnary, false)
}

func (p *CodePrinter) VisitNotExpression(n *ast.NotExpression) {
	p.write("!")
	p.printExpr(n.Expression, precUnary, false)
}

// Indent prefixes every line of s with n levels of indentation.
func Indent(s string, n int) string {
	pad := strings.Repeat("    ", n)
	return pad + strings.ReplaceAll(s, "\n", "\n"+pad)
}
