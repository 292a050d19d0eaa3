package typesystem

import (
	"fmt"

	"github.com/funvibe/jvmstatic/internal/config"
)

// memberTable holds the declared members of one class in insertion order.
type memberTable struct {
	methods []*Method
	ctors   []*Method
	fields  []*Field
}

// Registry is the type graph of one compilation unit: declared classes,
// their member tables and a method-lookup cache.
//
// Adding members does not touch the lookup cache. Callers that mutate a
// class must call Invalidate before anyone looks up its methods again.
type Registry struct {
	classes map[string]*Class
	order   []*Class
	members map[*Class]*memberTable
	arrays  map[string]*Class
	lookup  map[*Class]map[string][]*Method
}

// NewRegistry creates a registry preloaded with the builtin types and their
// members.
func NewRegistry() *Registry {
	r := &Registry{
		classes: make(map[string]*Class),
		members: make(map[*Class]*memberTable),
		arrays:  make(map[string]*Class),
		lookup:  make(map[*Class]map[string][]*Method),
	}
	for _, c := range BuiltinTypes() {
		r.classes[c.Name] = c
		r.order = append(r.order, c)
	}
	r.preloadMembers()
	return r
}

// Declare adds a class to the registry.
func (r *Registry) Declare(c *Class) error {
	if _, exists := r.classes[c.Name]; exists {
		return fmt.Errorf("class %s already declared", c.Name)
	}
	r.classes[c.Name] = c
	r.order = append(r.order, c)
	return nil
}

// Class looks up a declared class by qualified name.
func (r *Registry) Class(name string) (*Class, bool) {
	c, ok := r.classes[name]
	return c, ok
}

// Classes returns every class in declaration order, builtins first.
func (r *Registry) Classes() []*Class {
	return r.order
}

// UserClasses returns the non-builtin classes in declaration order.
func (r *Registry) UserClasses() []*Class {
	var out []*Class
	for _, c := range r.order {
		if !c.builtin {
			out = append(out, c)
		}
	}
	return out
}

// ArrayOf returns the interned array type with the given element type.
func (r *Registry) ArrayOf(elem Type) *Class {
	name := elem.String() + "[]"
	if a, ok := r.arrays[name]; ok {
		return a
	}
	a := &Class{
		Name:       name,
		Modifiers:  Public | Final,
		Super:      Object,
		Interfaces: []Type{Cloneable, Serializable},
		Component:  elem,
	}
	r.arrays[name] = a
	return a
}

func (r *Registry) table(c *Class) *memberTable {
	t, ok := r.members[c]
	if !ok {
		t = &memberTable{}
		r.members[c] = t
	}
	return t
}

// AddMethod registers m as a member of c.
func (r *Registry) AddMethod(c *Class, m *Method) {
	m.Declaring = c
	if m.Constructor {
		r.table(c).ctors = append(r.table(c).ctors, m)
		return
	}
	r.table(c).methods = append(r.table(c).methods, m)
}

// AddConstructor registers a constructor of c.
func (r *Registry) AddConstructor(c *Class, m *Method) {
	m.Constructor = true
	m.Name = config.ConstructorName
	r.AddMethod(c, m)
}

// AddField registers f as a member of c.
func (r *Registry) AddField(c *Class, f *Field) {
	f.Declaring = c
	r.table(c).fields = append(r.table(c).fields, f)
}

// Methods returns the methods declared by c itself.
func (r *Registry) Methods(c *Class) []*Method {
	if t, ok := r.members[c]; ok {
		return t.methods
	}
	return nil
}

// Constructors returns the constructors declared by c.
func (r *Registry) Constructors(c *Class) []*Method {
	if t, ok := r.members[c]; ok {
		return t.ctors
	}
	return nil
}

// Fields returns the fields declared by c itself.
func (r *Registry) Fields(c *Class) []*Field {
	if t, ok := r.members[c]; ok {
		return t.fields
	}
	return nil
}

// MemberCount returns the number of declared methods, constructors and
// fields of c.
func (r *Registry) MemberCount(c *Class) int {
	t, ok := r.members[c]
	if !ok {
		return 0
	}
	return len(t.methods) + len(t.ctors) + len(t.fields)
}

// Field finds a field visible on t, walking the superclass chain.
func (r *Registry) Field(t Type, name string) *Field {
	for c := Redirect(t); c != nil; c = Redirect(c.Super) {
		for _, f := range r.Fields(c) {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// DeclaredMethod finds a method declared directly on c with exactly the
// given name and parameter types.
func (r *Registry) DeclaredMethod(c *Class, name string, params []Type) *Method {
	for _, m := range r.Methods(c) {
		if m.SameSignature(name, params) {
			return m
		}
	}
	return nil
}

// FindMethods returns every method named name visible on t: declared ones
// first, then inherited ones not overridden, superclasses before
// interfaces. Results are cached until Invalidate.
func (r *Registry) FindMethods(t Type, name string) []*Method {
	c := Redirect(Box(t))
	if c == nil {
		return nil
	}
	byName, ok := r.lookup[c]
	if !ok {
		byName = make(map[string][]*Method)
		r.lookup[c] = byName
	}
	if cached, ok := byName[name]; ok {
		return cached
	}

	var found []*Method
	for _, a := range AllTypes(c) {
		for _, m := range r.Methods(Redirect(a)) {
			if m.Name != name || overridden(found, m) {
				continue
			}
			found = append(found, m)
		}
	}
	byName[name] = found
	return found
}

func overridden(found []*Method, m *Method) bool {
	for _, f := range found {
		if f.SameSignature(m.Name, m.ParamTypes()) {
			return true
		}
	}
	return false
}

// FindMethod resolves name on t for the given argument types. An exact
// parameter match wins; otherwise the first applicable method is chosen.
func (r *Registry) FindMethod(t Type, name string, args []Type) *Method {
	return pickApplicable(r.FindMethods(t, name), args)
}

// FindConstructor resolves a constructor of c for the argument types.
func (r *Registry) FindConstructor(c *Class, args []Type) *Method {
	return pickApplicable(r.Constructors(c), args)
}

func pickApplicable(candidates []*Method, args []Type) *Method {
	var applicable *Method
	for _, m := range candidates {
		if len(m.Params) != len(args) {
			continue
		}
		exact, ok := true, true
		for i, p := range m.Params {
			if !Same(p.Type, args[i]) {
				exact = false
			}
			if !IsAssignableFrom(p.Type, args[i]) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		if exact {
			return m
		}
		if applicable == nil {
			applicable = m
		}
	}
	return applicable
}

// Invalidate drops cached method lookups of c and of every type derived
// from it. It must be called after any member is added to c.
func (r *Registry) Invalidate(c *Class) {
	for k := range r.lookup {
		if Same(k, c) || IsDerivedFrom(k, c) || ImplementsInterface(k, c) {
			delete(r.lookup, k)
		}
	}
}

func (r *Registry) preloadMembers() {
	pub := Public
	pubStatic := Public | Static

	r.AddMethod(Object, NewMethod("toString", pub, String))
	r.AddMethod(Object, NewMethod("hashCode", pub, PrimInt))
	r.AddMethod(Object, NewMethod("equals", pub, PrimBoolean, NewParameter("o", Object)))
	r.AddConstructor(Object, NewMethod(config.ConstructorName, pub, nil))

	r.AddMethod(String, NewMethod("length", pub, PrimInt))
	r.AddMethod(String, NewMethod("concat", pub, String, NewParameter("s", String)))
	r.AddMethod(String, NewMethod("valueOf", pubStatic, String, NewParameter("o", Object)))

	r.AddMethod(Comparable, NewMethod("compareTo", pub|Abstract, PrimInt, NewParameter("o", Comparable.TypeParams[0])))
	r.AddMethod(Collection, NewMethod("size", pub|Abstract, PrimInt))
	r.AddMethod(List, NewMethod("get", pub|Abstract, List.TypeParams[0], NewParameter("index", PrimInt)))
	r.AddMethod(List, NewMethod("add", pub|Abstract, PrimBoolean, NewParameter("e", List.TypeParams[0])))
	r.AddConstructor(ArrayList, NewMethod(config.ConstructorName, pub, nil))

	for _, c := range []*Class{BigInteger, BigDecimal} {
		for _, op := range []string{"add", "subtract", "multiply", "divide", "remainder"} {
			r.AddMethod(c, NewMethod(op, pub, c, NewParameter("v", c)))
		}
		r.AddMethod(c, NewMethod("compareTo", pub, PrimInt, NewParameter("v", c)))
	}

	// next/previous capability methods are static extensions.
	for _, c := range []*Class{Number, Character, String, BigInteger, BigDecimal} {
		for _, name := range []string{"next", "previous"} {
			m := NewMethod(name, pub, c)
			m.Extension = true
			m.Owner = DefaultMethods
			r.AddMethod(c, m)
		}
	}
}
