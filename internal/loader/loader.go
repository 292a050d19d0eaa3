// Package loader decodes the YAML description of a bound compilation unit
// into a type registry whose methods carry their bodies as AST.
package loader

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/jvmstatic/internal/ast"
	"github.com/funvibe/jvmstatic/internal/config"
	"github.com/funvibe/jvmstatic/internal/diagnostics"
	"github.com/funvibe/jvmstatic/internal/token"
	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// Unit is a decoded compilation unit.
type Unit struct {
	Name     string
	Registry *ts.Registry
	// Classes lists the unit's classes in declaration order.
	Classes []*ts.Class
}

type unitDoc struct {
	Unit    string      `yaml:"unit"`
	Package string      `yaml:"package,omitempty"`
	Classes []yaml.Node `yaml:"classes"`
}

type classDoc struct {
	Name         string      `yaml:"name"`
	Params       []string    `yaml:"params,omitempty"`
	Super        string      `yaml:"super,omitempty"`
	Interfaces   []string    `yaml:"interfaces,omitempty"`
	Outer        string      `yaml:"outer,omitempty"`
	Modifiers    []string    `yaml:"modifiers,omitempty"`
	Fields       []fieldDoc  `yaml:"fields,omitempty"`
	Methods      []yaml.Node `yaml:"methods,omitempty"`
	Constructors []yaml.Node `yaml:"constructors,omitempty"`
}

type fieldDoc struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type"`
	Modifiers []string `yaml:"modifiers,omitempty"`
}

type methodDoc struct {
	Name       string     `yaml:"name"`
	Modifiers  []string   `yaml:"modifiers,omitempty"`
	TypeParams []string   `yaml:"type_params,omitempty"`
	Returns    string     `yaml:"returns,omitempty"`
	Params     []paramDoc `yaml:"params,omitempty"`
	Body       yaml.Node  `yaml:"body,omitempty"`
}

type paramDoc struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// declared pairs a class with the document it came from until its members
// are resolved.
type declared struct {
	class *ts.Class
	doc   classDoc
	node  *yaml.Node
}

type loader struct {
	file     string
	registry *ts.Registry
	scope    *typeScope
	errors   diagnostics.List
}

// LoadFile reads and decodes the unit at path into registry. A nil
// registry selects a fresh one.
func LoadFile(path string, registry *ts.Registry) (*Unit, diagnostics.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading unit %s: %w", path, err)
	}
	unit, errs := Decode(data, path, registry)
	return unit, errs, nil
}

// Decode decodes unit content. file is used only for positions. The unit
// is returned even when diagnostics were recorded; members that failed to
// decode are left out.
func Decode(data []byte, file string, registry *ts.Registry) (*Unit, diagnostics.List) {
	if registry == nil {
		registry = ts.NewRegistry()
	}
	l := &loader{file: file, registry: registry}

	var doc unitDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		l.errorf(diagnostics.ErrL001, token.Position{File: file}, fmt.Sprintf("parsing %s: %v", file, err))
		return &Unit{Registry: registry}, l.errors
	}
	l.scope = &typeScope{registry: registry, pkg: doc.Package}

	unit := &Unit{Name: doc.Unit, Registry: registry}
	var classes []*declared
	for i := range doc.Classes {
		if d := l.declare(&doc.Classes[i]); d != nil {
			classes = append(classes, d)
			unit.Classes = append(unit.Classes, d.class)
		}
	}
	// Headers first so member signatures may refer to any class of the unit.
	for _, d := range classes {
		l.resolveHeader(d)
	}
	for _, d := range classes {
		l.resolveMembers(d)
	}
	return unit, l.errors
}

func (l *loader) pos(n *yaml.Node) token.Position {
	if n == nil {
		return token.Position{File: l.file}
	}
	return token.Position{File: l.file, Line: n.Line, Column: n.Column}
}

func (l *loader) errorf(code diagnostics.ErrorCode, pos token.Position, args ...any) {
	l.errors.Add(diagnostics.NewError(code, pos, args...))
}

// typeError records err from parsing a type reference at pos.
func (l *loader) typeError(pos token.Position, err error) {
	if nf, ok := err.(*ts.TypeNotFoundError); ok {
		l.errorf(diagnostics.ErrL002, pos, nf.Name)
		return
	}
	l.errorf(diagnostics.ErrL001, pos, err.Error())
}

func (l *loader) modifiers(pos token.Position, names []string) ts.Modifier {
	var mods ts.Modifier
	for _, name := range names {
		m, ok := ts.ParseModifier(name)
		if !ok {
			l.errorf(diagnostics.ErrL001, pos, "unknown modifier "+name)
			continue
		}
		mods |= m
	}
	return mods
}

func (l *loader) declare(n *yaml.Node) *declared {
	var doc classDoc
	if err := n.Decode(&doc); err != nil {
		l.errorf(diagnostics.ErrL001, l.pos(n), err.Error())
		return nil
	}
	pos := l.pos(n)
	if doc.Name == "" {
		l.errorf(diagnostics.ErrL001, pos, "class without a name")
		return nil
	}

	mods := l.modifiers(pos, doc.Modifiers)
	if mods.Has(ts.Interface) {
		mods |= ts.Abstract
	}
	cls := ts.NewClass(doc.Name, mods, nil)
	for _, p := range doc.Params {
		name, _, _ := strings.Cut(strings.TrimSpace(p), " ")
		cls.TypeParams = append(cls.TypeParams, ts.NewParam(name, nil))
	}
	if err := l.registry.Declare(cls); err != nil {
		l.errorf(diagnostics.ErrL001, pos, err.Error())
		return nil
	}
	return &declared{class: cls, doc: doc, node: n}
}

// resolveHeader binds the outer class, type-parameter bounds, the super
// class and the interfaces.
func (l *loader) resolveHeader(d *declared) {
	cls, doc, pos := d.class, d.doc, l.pos(d.node)

	if doc.Outer != "" {
		outer, ok := l.registry.Class(doc.Outer)
		if !ok {
			l.errorf(diagnostics.ErrL002, pos, doc.Outer)
		}
		cls.Outer = outer
	}

	scope := l.scope.with(cls.TypeParams)
	for i, text := range doc.Params {
		p, err := scope.parseTypeParam(text)
		if err != nil {
			l.typeError(pos, err)
			continue
		}
		cls.TypeParams[i].Bound = p.Bound
	}

	if doc.Super != "" {
		if super, err := scope.parseType(doc.Super); err != nil {
			l.typeError(pos, err)
		} else {
			cls.Super = super
		}
	}
	for _, text := range doc.Interfaces {
		iface, err := scope.parseType(text)
		if err != nil {
			l.typeError(pos, err)
			continue
		}
		cls.Interfaces = append(cls.Interfaces, iface)
	}
}

func (l *loader) resolveMembers(d *declared) {
	cls, doc, pos := d.class, d.doc, l.pos(d.node)
	scope := l.scope.with(cls.TypeParams)

	for _, fd := range doc.Fields {
		t, err := scope.parseType(fd.Type)
		if err != nil {
			l.typeError(pos, err)
			continue
		}
		l.registry.AddField(cls, ts.NewField(fd.Name, l.modifiers(pos, fd.Modifiers), t))
	}

	for i := range doc.Methods {
		if m := l.method(&doc.Methods[i], scope, false); m != nil {
			l.registry.AddMethod(cls, m)
		}
	}

	for i := range doc.Constructors {
		if m := l.method(&doc.Constructors[i], scope, true); m != nil {
			l.registry.AddConstructor(cls, m)
		}
	}
	if len(doc.Constructors) == 0 && !cls.IsInterface() {
		ctor := ts.NewMethod(config.ConstructorName, ts.Public, nil)
		ctor.Body = &ast.BlockStatement{Pos: pos}
		l.registry.AddConstructor(cls, ctor)
	}
	l.registry.Invalidate(cls)
}

func (l *loader) method(n *yaml.Node, scope *typeScope, ctor bool) *ts.Method {
	var doc methodDoc
	pos := l.pos(n)
	if err := n.Decode(&doc); err != nil {
		l.errorf(diagnostics.ErrL001, pos, err.Error())
		return nil
	}
	if doc.Name == "" && !ctor {
		l.errorf(diagnostics.ErrL001, pos, "method without a name")
		return nil
	}

	var typeParams []*ts.Param
	for _, text := range doc.TypeParams {
		p, err := scope.parseTypeParam(text)
		if err != nil {
			l.typeError(pos, err)
			return nil
		}
		typeParams = append(typeParams, p)
	}
	scope = scope.with(typeParams)

	var ret ts.Type = ts.PrimVoid
	if doc.Returns != "" && !ctor {
		t, err := scope.parseType(doc.Returns)
		if err != nil {
			l.typeError(pos, err)
			return nil
		}
		ret = t
	}

	params := make([]*ts.Parameter, len(doc.Params))
	for i, pd := range doc.Params {
		t, err := scope.parseType(pd.Type)
		if err != nil {
			l.typeError(pos, err)
			return nil
		}
		params[i] = ts.NewParameter(pd.Name, t)
	}

	m := ts.NewMethod(doc.Name, l.modifiers(pos, doc.Modifiers), ret, params...)
	m.TypeParams = typeParams
	if !absent(&doc.Body) {
		b := &bodyDecoder{loader: l, scope: scope}
		if body := b.block(&doc.Body); body != nil {
			m.Body = body
		}
	}
	return m
}
