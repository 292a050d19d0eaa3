package loader

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// bodyDecoder turns statement and expression nodes into AST. Every
// statement and expression is a single-key mapping naming its form.
// Decoding errors are recorded and the offending node yields nil.
type bodyDecoder struct {
	loader *loader
	scope  *typeScope
}

type memberDoc struct {
	Object  yaml.Node   `yaml:"object,omitempty"`
	Name    string      `yaml:"name"`
	Args    []yaml.Node `yaml:"args,omitempty"`
	Dynamic bool        `yaml:"dynamic,omitempty"`
}

type constDoc struct {
	Value yaml.Node `yaml:"value"`
	Type  string    `yaml:"type,omitempty"`
}

type newDoc struct {
	Type string      `yaml:"type"`
	Args []yaml.Node `yaml:"args,omitempty"`
}

type operatorDoc struct {
	Op      string    `yaml:"op,omitempty"`
	Left    yaml.Node `yaml:"left,omitempty"`
	Right   yaml.Node `yaml:"right,omitempty"`
	Target  yaml.Node `yaml:"target,omitempty"`
	Value   yaml.Node `yaml:"value,omitempty"`
	Operand yaml.Node `yaml:"operand,omitempty"`
}

type ternaryDoc struct {
	Cond yaml.Node `yaml:"cond"`
	Then yaml.Node `yaml:"then"`
	Else yaml.Node `yaml:"else"`
}

type castDoc struct {
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

type declareDoc struct {
	Name  string    `yaml:"name"`
	Type  string    `yaml:"type,omitempty"`
	Value yaml.Node `yaml:"value,omitempty"`
}

func (b *bodyDecoder) pos(n *yaml.Node) token.Position { return b.loader.pos(n) }

func (b *bodyDecoder) fail(n *yaml.Node, format string, args ...any) {
	b.loader.errorf(diagnostics.ErrL001, b.pos(n), fmt.Sprintf(format, args...))
}

// form splits a single-key mapping into its key and value.
func (b *bodyDecoder) form(n *yaml.Node) (string, *yaml.Node, bool) {
	if n == nil || n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		b.fail(n, "expected a single-key mapping")
		return "", nil, false
	}
	return n.Content[0].Value, n.Content[1], true
}

func (b *bodyDecoder) decode(n *yaml.Node, out any) bool {
	if err := n.Decode(out); err != nil {
		b.fail(n, "%v", err)
		return false
	}
	return true
}

func (b *bodyDecoder) typ(n *yaml.Node, text string) ts.Type {
	t, err := b.scope.parseType(text)
	if err != nil {
		b.loader.typeError(b.pos(n), err)
		return nil
	}
	return t
}

func (b *bodyDecoder) class(n *yaml.Node, text string) *ts.Class {
	if text == "" {
		return nil
	}
	t := b.typ(n, text)
	if t == nil {
		return nil
	}
	c, ok := t.(*ts.Class)
	if !ok {
		b.fail(n, "%s is not a class", text)
		return nil
	}
	return c
}

// block decodes a sequence of statements.
func (b *bodyDecoder) block(n *yaml.Node) *ast.BlockStatement {
	if n.Kind != yaml.SequenceNode {
		b.fail(n, "expected a statement list")
		return nil
	}
	block := &ast.BlockStatement{Pos: b.pos(n)}
	ok := true
	for _, item := range n.Content {
		s := b.statement(item)
		if s == nil {
			ok = false
			continue
		}
		block.Statements = append(block.Statements, s)
	}
	if !ok {
		return nil
	}
	return block
}

func (b *bodyDecoder) statement(n *yaml.Node) ast.Statement {
	key, val, ok := b.form(n)
	if !ok {
		return nil
	}
	pos := b.pos(n)

	switch key {
	case "return":
		if val.Tag == "!!null" {
			return &ast.ReturnStatement{Pos: pos}
		}
		if e := b.expr(val); e != nil {
			return &ast.ReturnStatement{Pos: pos, Value: e}
		}
	case "expr":
		if e := b.expr(val); e != nil {
			return &ast.ExpressionStatement{Pos: pos, Expression: e}
		}
	case "block":
		if block := b.block(val); block != nil {
			return block
		}
	case "declare":
		var doc declareDoc
		if !b.decode(val, &doc) {
			return nil
		}
		st := &ast.DeclarationStatement{Pos: pos, Name: doc.Name}
		if doc.Type != "" {
			if st.Type = b.typ(val, doc.Type); st.Type == nil {
				return nil
			}
		}
		if !absent(&doc.Value) {
			if st.Value = b.expr(&doc.Value); st.Value == nil {
				return nil
			}
		}
		return st
	default:
		b.fail(n, "unknown statement %q", key)
	}
	return nil
}

func (b *bodyDecoder) exprs(nodes []yaml.Node) ([]ast.Expression, bool) {
	out := make([]ast.Expression, len(nodes))
	ok := true
	for i := range nodes {
		if out[i] = b.expr(&nodes[i]); out[i] == nil {
			ok = false
		}
	}
	return out, ok
}

// absent reports whether an optional node field was left out.
func absent(n *yaml.Node) bool {
	return n == nil || n.Kind == 0
}

// optional decodes n unless it is absent.
func (b *bodyDecoder) optional(n *yaml.Node) (ast.Expression, bool) {
	if absent(n) {
		return nil, true
	}
	e := b.expr(n)
	return e, e != nil
}

func (b *bodyDecoder) required(parent *yaml.Node, n *yaml.Node, what string) ast.Expression {
	if absent(n) {
		b.fail(parent, "missing %s", what)
		return nil
	}
	return b.expr(n)
}

func (b *bodyDecoder) operator(n *yaml.Node, text string, accept func(token.Kind) bool) (token.Kind, bool) {
	k := token.Lookup(text)
	if k == token.ILLEGAL || !accept(k) {
		b.fail(n, "invalid operator %q", text)
		return token.ILLEGAL, false
	}
	return k, true
}

func (b *bodyDecoder) expr(n *yaml.Node) ast.Expression {
	key, val, ok := b.form(n)
	if !ok {
		return nil
	}
	pos := b.pos(n)

	switch key {
	case "const":
		return b.constant(pos, val)

	case "var":
		return &ast.VariableExpression{Pos: pos, Name: val.Value}

	case "this":
		if val.Tag == "!!null" {
			return &ast.ThisExpression{Pos: pos}
		}
		if q := b.class(val, val.Value); q != nil {
			return &ast.ThisExpression{Pos: pos, Qualifier: q}
		}

	case "super":
		if val.Tag == "!!null" {
			return &ast.SuperExpression{Pos: pos}
		}
		if q := b.class(val, val.Value); q != nil {
			return &ast.SuperExpression{Pos: pos, Qualifier: q}
		}

	case "class":
		if t := b.typ(val, val.Value); t != nil {
			return &ast.ClassExpression{Pos: pos, Type: t}
		}

	case "field", "prop":
		doc := memberDoc{Name: val.Value}
		if val.Kind == yaml.MappingNode && !b.decode(val, &doc) {
			return nil
		}
		obj, ok := b.optional(&doc.Object)
		if !ok {
			return nil
		}
		if key == "field" {
			return &ast.FieldExpression{Pos: pos, Object: obj, Name: doc.Name}
		}
		return &ast.PropertyExpression{Pos: pos, Object: obj, Name: doc.Name}

	case "call":
		var doc memberDoc
		if !b.decode(val, &doc) {
			return nil
		}
		obj, ok := b.optional(&doc.Object)
		args, argsOK := b.exprs(doc.Args)
		if !ok || !argsOK {
			return nil
		}
		return &ast.MethodCallExpression{Pos: pos, Object: obj, Name: doc.Name, Arguments: args, Dynamic: doc.Dynamic}

	case "new":
		var doc newDoc
		if !b.decode(val, &doc) {
			return nil
		}
		t := b.typ(val, doc.Type)
		args, argsOK := b.exprs(doc.Args)
		if t == nil || !argsOK {
			return nil
		}
		return &ast.ConstructorCallExpression{Pos: pos, Type: t, Arguments: args}

	case "binary":
		var doc operatorDoc
		if !b.decode(val, &doc) {
			return nil
		}
		op, opOK := b.operator(val, doc.Op, func(k token.Kind) bool {
			return k.IsArithmetic() || k.IsComparison() || k.IsLogical()
		})
		left := b.required(val, &doc.Left, "left")
		right := b.required(val, &doc.Right, "right")
		if !opOK || left == nil || right == nil {
			return nil
		}
		return &ast.BinaryExpression{Pos: pos, Operator: op, Left: left, Right: right}

	case "assign":
		var doc operatorDoc
		if !b.decode(val, &doc) {
			return nil
		}
		if doc.Op == "" {
			doc.Op = token.ASSIGN.String()
		}
		op, opOK := b.operator(val, doc.Op, func(k token.Kind) bool {
			return k == token.ASSIGN || k.IsCompoundAssign()
		})
		target := b.required(val, &doc.Target, "target")
		value := b.required(val, &doc.Value, "value")
		if !opOK || target == nil || value == nil {
			return nil
		}
		return &ast.AssignExpression{Pos: pos, Operator: op, Target: target, Value: value}

	case "prefix", "postfix":
		var doc operatorDoc
		if !b.decode(val, &doc) {
			return nil
		}
		op, opOK := b.operator(val, doc.Op, func(k token.Kind) bool {
			return k == token.PLUS_PLUS || k == token.MINUS_MINUS
		})
		operand := b.required(val, &doc.Operand, "operand")
		if !opOK || operand == nil {
			return nil
		}
		if key == "prefix" {
			return &ast.PrefixExpression{Pos: pos, Operator: op, Operand: operand}
		}
		return &ast.PostfixExpression{Pos: pos, Operator: op, Operand: operand}

	case "ternary":
		var doc ternaryDoc
		if !b.decode(val, &doc) {
			return nil
		}
		cond := b.required(val, &doc.Cond, "cond")
		whenTrue := b.required(val, &doc.Then, "then")
		whenFalse := b.required(val, &doc.Else, "else")
		if cond == nil || whenTrue == nil || whenFalse == nil {
			return nil
		}
		return &ast.TernaryExpression{Pos: pos, Condition: cond, True: whenTrue, False: whenFalse}

	case "elvis":
		var doc operatorDoc
		if !b.decode(val, &doc) {
			return nil
		}
		left := b.required(val, &doc.Left, "left")
		right := b.required(val, &doc.Right, "right")
		if left == nil || right == nil {
			return nil
		}
		return &ast.ElvisExpression{Pos: pos, Left: left, Right: right}

	case "cast":
		var doc castDoc
		if !b.decode(val, &doc) {
			return nil
		}
		t := b.typ(val, doc.Type)
		operand := b.required(val, &doc.Value, "value")
		if t == nil || operand == nil {
			return nil
		}
		return &ast.CastExpression{Pos: pos, Type: t, Expression: operand}

	case "not":
		if operand := b.expr(val); operand != nil {
			return &ast.NotExpression{Pos: pos, Expression: operand}
		}

	default:
		b.fail(n, "unknown expression %q", key)
	}
	return nil
}

// constant decodes `const: 5` or `const: {value: 5, type: long}`.
func (b *bodyDecoder) constant(pos token.Position, val *yaml.Node) ast.Expression {
	ce := &ast.ConstantExpression{Pos: pos}
	scalar := val
	if val.Kind == yaml.MappingNode {
		var doc constDoc
		if !b.decode(val, &doc) {
			return nil
		}
		if doc.Type != "" {
			if ce.Type = b.typ(val, doc.Type); ce.Type == nil {
				return nil
			}
		}
		scalar = &doc.Value
	}
	if scalar.Kind != yaml.ScalarNode {
		b.fail(val, "constant must be a scalar")
		return nil
	}

	var err error
	switch scalar.Tag {
	case "!!int":
		ce.Value, err = strconv.ParseInt(scalar.Value, 0, 64)
	case "!!float":
		ce.Value, err = strconv.ParseFloat(scalar.Value, 64)
	case "!!bool":
		ce.Value, err = strconv.ParseBool(scalar.Value)
	case "!!null":
		ce.Value = nil
	default:
		ce.Value = scalar.Value
	}
	if err != nil {
		b.fail(scalar, "constant %q: %v", scalar.Value, err)
		return nil
	}
	return ce
}
