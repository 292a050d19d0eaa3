package loader

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	ts "github.com/funvibe/jvmstatic/internal/typesystem"
)

// Packages searched for an unqualified type name, after the unit's own
// package.
var implicitPackages = []string{"java.lang", "java.util", "java.math", "java.io"}

// typeScope resolves type names: type parameters first, then the
// registry.
type typeScope struct {
	registry *ts.Registry
	pkg      string
	params   map[string]*ts.Param
}

func (s *typeScope) with(params []*ts.Param) *typeScope {
	inner := &typeScope{registry: s.registry, pkg: s.pkg, params: make(map[string]*ts.Param, len(s.params)+len(params))}
	for k, v := range s.params {
		inner.params[k] = v
	}
	for _, p := range params {
		inner.params[p.Name] = p
	}
	return inner
}

func (s *typeScope) lookup(name string) (ts.Type, bool) {
	if p, ok := s.params[name]; ok {
		return p, true
	}
	if c, ok := s.registry.Class(name); ok {
		return c, true
	}
	if strings.Contains(name, ".") {
		return nil, false
	}
	candidates := make([]string, 0, len(implicitPackages)+1)
	if s.pkg != "" {
		candidates = append(candidates, s.pkg)
	}
	candidates = append(candidates, implicitPackages...)
	for _, pkg := range candidates {
		if c, ok := s.registry.Class(pkg + "." + name); ok {
			return c, true
		}
	}
	return nil, false
}

// parseType parses a type reference:
//
//	Name
//	Name<Arg, ?, ? extends B & C, ? super D>
//	Name[]
func (s *typeScope) parseType(text string) (ts.Type, error) {
	p := &typeParser{scope: s, src: text}
	p.next()
	t, err := p.typ()
	if err != nil {
		return nil, err
	}
	if p.tok != "" {
		return nil, fmt.Errorf("unexpected %q in type %q", p.tok, text)
	}
	return t, nil
}

// parseTypeParam parses a type-parameter declaration: `T` or
// `T extends Bound`.
func (s *typeScope) parseTypeParam(text string) (*ts.Param, error) {
	name, bound, found := strings.Cut(strings.TrimSpace(text), " extends ")
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsFunc(name, unicode.IsSpace) {
		return nil, fmt.Errorf("malformed type parameter %q", text)
	}
	if !found {
		return ts.NewParam(name, nil), nil
	}
	b, err := s.parseType(bound)
	if err != nil {
		return nil, err
	}
	return ts.NewParam(name, b), nil
}

type typeParser struct {
	scope *typeScope
	src   string
	pos   int
	tok   string
}

// next advances to the next token: an identifier (dots allowed), a
// punctuation rune, or "" at the end.
func (p *typeParser) next() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentRune(r) {
			if p.pos == start {
				p.pos += size
			}
			break
		}
		p.pos += size
	}
	p.tok = p.src[start:p.pos]
}

func isIdentRune(c rune) bool {
	return c == '.' || c == '_' || c == '$' || unicode.IsLetter(c) || unicode.IsDigit(c)
}

func (p *typeParser) expect(tok string) error {
	if p.tok != tok {
		return fmt.Errorf("expected %q in type %q, got %q", tok, p.src, p.tok)
	}
	p.next()
	return nil
}

func (p *typeParser) typ() (ts.Type, error) {
	name := p.tok
	if first, _ := utf8.DecodeRuneInString(name); name == "" || !isIdentRune(first) {
		return nil, fmt.Errorf("expected a type name in %q", p.src)
	}
	p.next()

	base, ok := p.scope.lookup(name)
	if !ok {
		return nil, ts.NewTypeNotFoundError(name)
	}
	var t ts.Type = base

	if p.tok == "<" {
		cls, isClass := base.(*ts.Class)
		if !isClass {
			return nil, fmt.Errorf("type parameter %s cannot take arguments", name)
		}
		p.next()
		var args []ts.Arg
		for {
			a, err := p.arg()
			if err != nil {
				return nil, err
			}
			args = append(args, a)
			if p.tok != "," {
				break
			}
			p.next()
		}
		if err := p.expect(">"); err != nil {
			return nil, err
		}
		t = &ts.Instance{Template: cls, Args: args}
	}

	for p.tok == "[" {
		p.next()
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		t = p.scope.registry.ArrayOf(t)
	}
	return t, nil
}

func (p *typeParser) arg() (ts.Arg, error) {
	if p.tok != "?" {
		t, err := p.typ()
		if err != nil {
			return ts.Arg{}, err
		}
		return ts.ArgOf(t), nil
	}
	p.next()

	a := ts.Arg{Wildcard: true}
	switch p.tok {
	case "extends":
		p.next()
		for {
			t, err := p.typ()
			if err != nil {
				return ts.Arg{}, err
			}
			a.Upper = append(a.Upper, t)
			if p.tok != "&" {
				break
			}
			p.next()
		}
	case "super":
		p.next()
		t, err := p.typ()
		if err != nil {
			return ts.Arg{}, err
		}
		a.Lower = t
	}
	return a, nil
}
