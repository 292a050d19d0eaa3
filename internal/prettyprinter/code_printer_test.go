package prettyprinter

import (
	"testing"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/token"
	"github.com/funvibe/jvmstatic/internal/typesystem"
)

func TestPrintExpressions(t *testing.T) {
	x := &ast.VariableExpression{Name: "x"}
	y := &ast.VariableExpression{Name: "y"}
	one := &ast.ConstantExpression{Value: int64(1), Type: typesystem.PrimInt}

	tests := []struct {
		name string
		node ast.Node
		want string
	}{
		{"constant string", &ast.ConstantExpression{Value: "hi"}, `"hi"`},
		{"null", &ast.ConstantExpression{}, "null"},
		{"precedence kept", &ast.BinaryExpression{Operator: token.MULTIPLY,
			Left: &ast.BinaryExpression{Operator: token.PLUS, Left: x, Right: y}, Right: one}, "(x + y) * 1"},
		{"left assoc", &ast.BinaryExpression{Operator: token.MINUS,
			Left: &ast.BinaryExpression{Operator: token.MINUS, Left: x, Right: y}, Right: one}, "x - y - 1"},
		{"right nested", &ast.BinaryExpression{Operator: token.MINUS,
			Left: x, Right: &ast.BinaryExpression{Operator: token.MINUS, Left: y, Right: one}}, "x - (y - 1)"},
		{"compound", &ast.AssignExpression{Operator: token.PLUS_ASSIGN,
			Target: &ast.PropertyExpression{Object: x, Name: "count"}, Value: one}, "x.count += 1"},
		{"postfix", &ast.PostfixExpression{Operator: token.PLUS_PLUS, Operand: x}, "x++"},
		{"elvis", &ast.ElvisExpression{Left: x, Right: y}, "x ?: y"},
		{"ternary", &ast.TernaryExpression{Condition: &ast.NotExpression{Expression: x}, True: y, False: one}, "!x ? y : 1"},
		{"call", &ast.MethodCallExpression{Object: &ast.ThisExpression{}, Name: "run", Arguments: []ast.Expression{x, y}}, "this.run(x, y)"},
		{"field", &ast.FieldExpression{Object: &ast.ThisExpression{}, Name: "value"}, "this.@value"},
		{"new", &ast.ConstructorCallExpression{Type: typesystem.ArrayList}, "new java.util.ArrayList()"},
		{"super", &ast.MethodCallExpression{Object: &ast.SuperExpression{}, Name: "close"}, "super.close()"},
		{"return", &ast.ReturnStatement{Value: x}, "return x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Print(tt.node); got != tt.want {
				t.Errorf("Print() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPrintMethod(t *testing.T) {
	m := typesystem.NewMethod("getField1979", typesystem.Public|typesystem.Synthetic, typesystem.String)
	m.Body = &ast.ReturnStatement{Value: &ast.FieldExpression{Name: "name"}}

	want := "public synthetic java.lang.String getField1979() {\n    return name\n}"
	if got := PrintMethod(m); got != want {
		t.Errorf("PrintMethod() =\n%s\nwant\n%s", got, want)
	}

	abstract := typesystem.NewMethod("size", typesystem.Public|typesystem.Abstract, typesystem.PrimInt,
		typesystem.NewParameter("hint", typesystem.PrimLong))
	if got := PrintMethod(abstract); got != "public abstract int size(long hint)" {
		t.Errorf("PrintMethod() = %q", got)
	}
}
