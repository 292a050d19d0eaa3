package loader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/bytecode"
	"github.com/funvibe/jvmstatic/internal/compiler"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/synth"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

const boxUnit = `
unit: Example
package: demo
classes:
  - name: demo.Box
    params: [T]
    modifiers: [public]
    fields:
      - {name: value, type: T, modifiers: [private]}
    methods:
      - name: get
        returns: T
        modifiers: [public]
        body:
          - return: {field: value}
  - name: demo.Holder
    modifiers: [public]
    super: Box<String>
    interfaces: ["Comparable<Holder>"]
    methods:
      - name: compareTo
        modifiers: [public]
        returns: int
        params: [{name: o, type: Holder}]
        body:
          - return: {const: 0}
      - name: peek
        modifiers: [public]
        returns: String
        params: [{name: b, type: "Box<String>"}]
        body:
          - return: {prop: {object: {var: b}, name: value}}
`

func mustDecode(t *testing.T, src string) *Unit {
	t.Helper()
	unit, errs := Decode([]byte(src), "unit.yaml", nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", errs.Err())
	}
	return unit
}

func TestDecodeClasses(t *testing.T) {
	unit := mustDecode(t, boxUnit)
	reg := unit.Registry

	if unit.Name != "Example" || len(unit.Classes) != 2 {
		t.Fatalf("unit = %s", spew.Sdump(unit.Name, unit.Classes))
	}
	box, holder := unit.Classes[0], unit.Classes[1]

	if len(box.TypeParams) != 1 || box.TypeParams[0].Name != "T" {
		t.Errorf("box params = %v", box.TypeParams)
	}
	value := reg.Field(box, "value")
	if value == nil || value.Type != box.TypeParams[0] || !value.IsPrivate() {
		t.Errorf("value field = %s", spew.Sdump(value))
	}
	get := reg.DeclaredMethod(box, "get", nil)
	if get == nil || get.ReturnType() != box.TypeParams[0] {
		t.Fatalf("get = %s", spew.Sdump(get))
	}
	if _, ok := get.Body.(*ast.BlockStatement); !ok {
		t.Errorf("get body = %T", get.Body)
	}

	super, ok := holder.Super.(*ts.Instance)
	if !ok || super.Template != box || !ts.Same(super.Args[0].Type, ts.String) {
		t.Errorf("holder super = %v", holder.Super)
	}
	if !ts.IsAssignableFrom(ts.Comparable, holder) {
		t.Error("holder is not Comparable")
	}
	if got := ts.SubstitutedType(get.ReturnType(), box, holder); !ts.Same(got, ts.String) {
		t.Errorf("get() seen from Holder = %s", got)
	}
}

func TestDefaultConstructor(t *testing.T) {
	unit := mustDecode(t, `
classes:
  - name: demo.Plain
  - name: demo.Shape
    modifiers: [public, interface]
  - name: demo.Point
    constructors:
      - modifiers: [private]
        params: [{name: x, type: int}]
`)
	reg := unit.Registry
	plain, shape, point := unit.Classes[0], unit.Classes[1], unit.Classes[2]

	if ctors := reg.Constructors(plain); len(ctors) != 1 || !ctors[0].Modifiers.Has(ts.Public) || len(ctors[0].Params) != 0 {
		t.Errorf("plain constructors = %s", spew.Sdump(ctors))
	}
	if ctors := reg.Constructors(shape); len(ctors) != 0 {
		t.Errorf("interface got constructors: %s", spew.Sdump(ctors))
	}
	if !shape.IsInterface() || !shape.Modifiers.Has(ts.Abstract) {
		t.Errorf("shape modifiers = %s", shape.Modifiers)
	}
	ctors := reg.Constructors(point)
	if len(ctors) != 1 || !ctors[0].IsPrivate() || !ctors[0].Constructor {
		t.Errorf("point constructors = %s", spew.Sdump(ctors))
	}
}

func TestParseType(t *testing.T) {
	reg := ts.NewRegistry()
	scope := (&typeScope{registry: reg}).with([]*ts.Param{ts.NewParam("T", nil)})

	tests := []struct {
		text string
		want string
	}{
		{"int", "int"},
		{"String", "java.lang.String"},
		{"java.util.List<T>", "java.util.List<T>"},
		{"List<?>", "java.util.List<?>"},
		{"List<? extends Number>", "java.util.List<? extends java.lang.Number>"},
		{"List<? super Integer>", "java.util.List<? super java.lang.Integer>"},
		{"Comparable<? extends Number & Serializable>", "java.lang.Comparable<? extends java.lang.Number & java.io.Serializable>"},
		{"int[]", "int[]"},
		{"List<String>[]", "java.util.List<java.lang.String>[]"},
		{"T", "T"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := scope.parseType(tt.text)
			if err != nil {
				t.Fatalf("parseType: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	if got, _ := scope.parseType("int[]"); got != reg.ArrayOf(ts.PrimInt) {
		t.Error("array types are not interned")
	}

	for _, bad := range []string{"", "List<", "List<String", "List<String>>", "int[", "T<String>"} {
		if _, err := scope.parseType(bad); err == nil {
			t.Errorf("parseType(%q) succeeded", bad)
		}
	}
	_, err := scope.parseType("Missing")
	if _, ok := err.(*ts.TypeNotFoundError); !ok {
		t.Errorf("unknown type error = %v", err)
	}
}

func TestParseTypeUnicodeNames(t *testing.T) {
	reg := ts.NewRegistry()
	size := ts.NewClass("demo.Größe", ts.Public, nil)
	if err := reg.Declare(size); err != nil {
		t.Fatal(err)
	}
	scope := (&typeScope{registry: reg, pkg: "demo"}).with([]*ts.Param{ts.NewParam("Ä", nil)})

	tests := []struct {
		text string
		want string
	}{
		{"Größe", "demo.Größe"},
		{"List<demo.Größe>", "java.util.List<demo.Größe>"},
		{"Größe[]", "demo.Größe[]"},
		{"Comparable<Ä>", "java.lang.Comparable<Ä>"},
	}
	for _, tt := range tests {
		got, err := scope.parseType(tt.text)
		if err != nil {
			t.Errorf("parseType(%q): %v", tt.text, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseType(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestParseTypeParam(t *testing.T) {
	scope := &typeScope{registry: ts.NewRegistry()}
	p, err := scope.parseTypeParam("N extends Number")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "N" || !ts.Same(p.Erasure(), ts.Number) {
		t.Errorf("param = %s", spew.Sdump(p))
	}
	if _, err := scope.parseTypeParam("A B"); err == nil {
		t.Error("malformed parameter accepted")
	}
}

func TestDecodeExpressions(t *testing.T) {
	unit := mustDecode(t, `
classes:
  - name: demo.C
    methods:
      - name: m
        params: [{name: n, type: int}]
        body:
          - declare: {name: x, type: long, value: {const: {value: 7, type: long}}}
          - expr: {assign: {op: "+=", target: {var: x}, value: {var: n}}}
          - expr: {postfix: {op: "++", operand: {field: {object: {this: null}, name: f}}}}
          - expr: {call: {object: {class: demo.C}, name: make, args: [{const: "s"}, {const: 1.5}, {const: true}, {const: null}]}}
          - expr: {ternary: {cond: {not: {var: b}}, then: {new: {type: demo.C}}, else: {cast: {type: Object, value: {var: o}}}}}
          - expr: {elvis: {left: {binary: {op: "<", left: {var: n}, right: {const: 2}}}, right: {call: {object: {super: null}, name: toString}}}}
          - return: ~
`)
	m := unit.Registry.DeclaredMethod(unit.Classes[0], "m", []ts.Type{ts.PrimInt})
	body := m.Body.(*ast.BlockStatement)
	if len(body.Statements) != 7 {
		t.Fatalf("statements = %d", len(body.Statements))
	}

	decl := body.Statements[0].(*ast.DeclarationStatement)
	if !ts.Same(decl.Type, ts.PrimLong) || decl.Value.(*ast.ConstantExpression).Value != int64(7) {
		t.Errorf("declaration = %s", spew.Sdump(decl))
	}
	if decl.Pos.Line != 8 || decl.Pos.File != "unit.yaml" {
		t.Errorf("declaration position = %s", decl.Pos)
	}

	assign := body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if assign.Operator != token.PLUS_ASSIGN {
		t.Errorf("assign operator = %s", assign.Operator)
	}

	post := body.Statements[2].(*ast.ExpressionStatement).Expression.(*ast.PostfixExpression)
	if _, ok := post.Operand.(*ast.FieldExpression).Object.(*ast.ThisExpression); !ok {
		t.Errorf("postfix operand = %s", spew.Sdump(post.Operand))
	}

	call := body.Statements[3].(*ast.ExpressionStatement).Expression.(*ast.MethodCallExpression)
	var values []any
	for _, a := range call.Arguments {
		values = append(values, a.(*ast.ConstantExpression).Value)
	}
	if want := []any{"s", 1.5, true, nil}; !reflect.DeepEqual(values, want) {
		t.Errorf("constants = %s", spew.Sdump(values))
	}
	if _, ok := call.Object.(*ast.ClassExpression); !ok {
		t.Errorf("call object = %T", call.Object)
	}

	tern := body.Statements[4].(*ast.ExpressionStatement).Expression.(*ast.TernaryExpression)
	if _, ok := tern.Condition.(*ast.NotExpression); !ok {
		t.Errorf("condition = %T", tern.Condition)
	}
	if _, ok := tern.False.(*ast.CastExpression); !ok {
		t.Errorf("else branch = %T", tern.False)
	}

	elvis := body.Statements[5].(*ast.ExpressionStatement).Expression.(*ast.ElvisExpression)
	if elvis.Left.(*ast.BinaryExpression).Operator != token.LT {
		t.Errorf("elvis left = %s", spew.Sdump(elvis.Left))
	}
	if _, ok := elvis.Right.(*ast.MethodCallExpression).Object.(*ast.SuperExpression); !ok {
		t.Errorf("elvis right = %s", spew.Sdump(elvis.Right))
	}

	if ret := body.Statements[6].(*ast.ReturnStatement); ret.Value != nil {
		t.Errorf("return value = %s", spew.Sdump(ret.Value))
	}
}

func TestDecodeNestedOperands(t *testing.T) {
	unit := mustDecode(t, `
classes:
  - name: demo.C
    fields:
      - {name: f, type: int}
    methods:
      - name: m
        returns: int
        body:
          - declare: {name: x, type: int}
          - expr: {assign: {target: {var: x}, value: {prop: {object: {var: x}, name: f}}}}
          - return: {binary: {op: "+", left: {field: f}, right: {field: {object: {this: null}, name: f}}}}
`)
	m := unit.Registry.DeclaredMethod(unit.Classes[0], "m", nil)
	if m == nil || m.Body == nil {
		t.Fatalf("method body not decoded: %s", spew.Sdump(m))
	}
	body := m.Body.(*ast.BlockStatement)
	if len(body.Statements) != 3 {
		t.Fatalf("statements = %d", len(body.Statements))
	}

	if decl := body.Statements[0].(*ast.DeclarationStatement); decl.Value != nil {
		t.Errorf("declaration without value got %s", spew.Sdump(decl.Value))
	}

	assign := body.Statements[1].(*ast.ExpressionStatement).Expression.(*ast.AssignExpression)
	if assign.Operator != token.ASSIGN {
		t.Errorf("assign operator = %s", assign.Operator)
	}
	value := assign.Value.(*ast.PropertyExpression)
	if v, ok := value.Object.(*ast.VariableExpression); !ok || v.Name != "x" {
		t.Errorf("property object = %s", spew.Sdump(value.Object))
	}

	sum := body.Statements[2].(*ast.ReturnStatement).Value.(*ast.BinaryExpression)
	if left := sum.Left.(*ast.FieldExpression); left.Object != nil || left.Name != "f" {
		t.Errorf("implicit field = %s", spew.Sdump(left))
	}
	if _, ok := sum.Right.(*ast.FieldExpression).Object.(*ast.ThisExpression); !ok {
		t.Errorf("explicit field = %s", spew.Sdump(sum.Right))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code diagnostics.ErrorCode
		line int
		text string
	}{
		{
			name: "malformed yaml",
			src:  "classes: [",
			code: diagnostics.ErrL001,
		},
		{
			name: "unknown field type",
			src:  "classes:\n  - name: demo.A\n    fields: [{name: f, type: Nope}]\n",
			code: diagnostics.ErrL002,
			line: 2,
			text: "Nope",
		},
		{
			name: "unknown modifier",
			src:  "classes:\n  - name: demo.A\n    modifiers: [sealed]\n",
			code: diagnostics.ErrL001,
			text: "sealed",
		},
		{
			name: "duplicate class",
			src:  "classes:\n  - name: demo.A\n  - name: demo.A\n",
			code: diagnostics.ErrL001,
			line: 3,
			text: "already declared",
		},
		{
			name: "unknown expression",
			src:  "classes:\n  - name: demo.A\n    methods:\n      - name: m\n        body:\n          - expr: {lambda: x}\n",
			code: diagnostics.ErrL001,
			line: 6,
			text: "lambda",
		},
		{
			name: "bad operator",
			src:  "classes:\n  - name: demo.A\n    methods:\n      - name: m\n        body:\n          - expr: {binary: {op: \"+=\", left: {var: a}, right: {var: b}}}\n",
			code: diagnostics.ErrL001,
			text: "+=",
		},
		{
			name: "missing operand",
			src:  "classes:\n  - name: demo.A\n    methods:\n      - name: m\n        body:\n          - expr: {prefix: {op: \"++\"}}\n",
			code: diagnostics.ErrL001,
			text: "operand",
		},
		{
			name: "missing right operand",
			src:  "classes:\n  - name: demo.A\n    methods:\n      - name: m\n        body:\n          - expr: {binary: {op: \"+\", left: {var: a}}}\n",
			code: diagnostics.ErrL001,
			line: 6,
			text: "missing right",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Decode([]byte(tt.src), "bad.yaml", nil)
			if len(errs) == 0 {
				t.Fatal("expected diagnostics")
			}
			err := errs[0]
			if err.Code != tt.code {
				t.Errorf("code = %s, want %s (%v)", err.Code, tt.code, err)
			}
			if tt.line != 0 && err.Pos.Line != tt.line {
				t.Errorf("line = %d, want %d", err.Pos.Line, tt.line)
			}
			if !strings.Contains(err.Message, tt.text) {
				t.Errorf("message %q does not mention %q", err.Message, tt.text)
			}
		})
	}
}

func TestDecodedUnitCompiles(t *testing.T) {
	unit := mustDecode(t, boxUnit)
	factory := synth.NewFactory(unit.Registry, nil)
	compiled := compiler.CompileUnit(factory)
	if compiled.Errors.HasErrors() {
		t.Fatalf("compile errors: %v", compiled.Errors.Err())
	}

	box, holder := unit.Classes[0], unit.Classes[1]
	peek := unit.Registry.DeclaredMethod(holder, "peek", []ts.Type{ts.Instantiate(box, ts.String)})
	cm := compiled.Lookup(peek)
	if cm == nil {
		t.Fatal("peek not compiled")
	}
	want := []string{
		"ALOAD 1",
		"INVOKEVIRTUAL demo/Box.getField1979 ()Ljava/lang/Object;",
		"CHECKCAST java/lang/String",
		"ARETURN",
	}
	if got := bytecode.Text(cm.Code); !reflect.DeepEqual(got, want) {
		t.Errorf("peek code\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
	if line := cm.Code.Instructions[0].Line; line != 32 {
		t.Errorf("first instruction on line %d, want 32", line)
	}
	if !strings.Contains(compiled.Disassemble(), "demo.Box.getField1979()") {
		t.Errorf("disassembly misses the generated getter:\n%s", compiled.Disassemble())
	}
}
