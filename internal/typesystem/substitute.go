package typesystem

// Generic substitution across the inheritance graph.
//
// A type written in terms of a superclass's (or interface's) type
// parameters is rewritten, one inheritance edge at a time, into the type
// arguments visible at a derived type.

// SubstitutedType maps toSubstitute, written against declaring's type
// parameters, into the arguments bound by access (e.g. the return type
// `T` of `Base<T>.get()` seen through a receiver of type `Derived<String>`).
// Unresolvable bindings fall back to the input unchanged.
func SubstitutedType(toSubstitute Type, declaring *Class, access Type) Type {
	accessClass := Redirect(access)
	if accessClass == nil || declaring == nil {
		return toSubstitute
	}

	mapped, ok := MapTypeFromSuper(toSubstitute, declaring, accessClass)
	if !ok {
		return toSubstitute
	}
	return substituteToplevel(mapped, accessClass, Args(access))
}

// MapTypeFromSuper rewrites t from super's parameter space into derived's
// own parameter space. The superclass path is tried before interfaces, in
// declaration order. It reports false when derived does not reach super.
func MapTypeFromSuper(t Type, super *Class, derived Type) (Type, bool) {
	return mapTypeFromSuper(t, super, derived, 0)
}

func mapTypeFromSuper(t Type, super *Class, derived Type, depth int) (Type, bool) {
	dc := Redirect(derived)
	if dc == nil || depth > maxHierarchyDepth {
		return nil, false
	}
	if Same(dc, super) {
		return t, true
	}

	if dc.Super != nil {
		if rec, ok := mapTypeFromSuper(t, super, dc.Super, depth+1); ok {
			return substituteToplevel(rec, Redirect(dc.Super), Args(dc.Super)), true
		}
	}
	for _, iface := range dc.Interfaces {
		if rec, ok := mapTypeFromSuper(t, super, iface, depth+1); ok {
			return substituteToplevel(rec, Redirect(iface), Args(iface)), true
		}
	}
	return nil, false
}

// substituteToplevel binds t against the parameters of access. A bare
// placeholder is looked up by name; anything else has its generic
// arguments rewritten.
func substituteToplevel(t Type, access *Class, args []Arg) Type {
	if len(args) == 0 {
		return t
	}
	vars := access.TypeParamNames()

	if p, ok := t.(*Param); ok {
		if b := bindingNormalized(p.Name, vars, args); b != nil {
			return b
		}
		return t
	}

	if len(vars) != len(args) {
		Logger.Printf("generic argument count mismatch for %s: %d parameters, %d arguments; keeping %s",
			access.Name, len(vars), len(args), t)
		return t
	}
	return substituteInner(t, vars, args)
}

// substituteInner rewrites the generic arguments of t, keeping its template.
func substituteInner(t Type, vars []string, args []Arg) Type {
	inst, ok := t.(*Instance)
	if !ok || len(inst.Args) == 0 {
		return t
	}

	changed := false
	out := make([]Arg, len(inst.Args))
	for i, a := range inst.Args {
		if p, ok := a.Type.(*Param); ok && !a.Wildcard {
			if b, found := binding(p.Name, vars, args); found {
				out[i] = b
				changed = true
				continue
			}
			out[i] = a
			continue
		}

		na := Arg{
			Type:     substituteInner(a.Type, vars, args),
			Wildcard: a.Wildcard,
			Resolved: a.Resolved,
			Lower:    substituteBound(a.Lower, vars, args),
		}
		if a.Upper != nil {
			na.Upper = make([]Type, len(a.Upper))
			for j, u := range a.Upper {
				na.Upper[j] = substituteBound(u, vars, args)
			}
		}
		if !sameArg(a, na) {
			changed = true
		}
		out[i] = na
	}

	if !changed {
		return t
	}
	return &Instance{Template: inst.Template, Args: out}
}

// substituteBound rewrites a wildcard bound, which may itself be a bare
// placeholder.
func substituteBound(t Type, vars []string, args []Arg) Type {
	if t == nil {
		return nil
	}
	if p, ok := t.(*Param); ok {
		if b := bindingNormalized(p.Name, vars, args); b != nil {
			return b
		}
		return t
	}
	return substituteInner(t, vars, args)
}

func binding(name string, vars []string, args []Arg) (Arg, bool) {
	for i, v := range vars {
		if v == name && i < len(args) {
			return args[i], true
		}
	}
	return Arg{}, false
}

// bindingNormalized returns the bound type for name, unwrapping a
// wildcard to its first upper bound.
func bindingNormalized(name string, vars []string, args []Arg) Type {
	a, ok := binding(name, vars, args)
	if !ok {
		return nil
	}
	if a.Wildcard {
		if len(a.Upper) > 0 {
			return a.Upper[0]
		}
		return Object
	}
	return a.Type
}

func sameArg(a, b Arg) bool {
	if a.Type != b.Type || a.Lower != b.Lower || len(a.Upper) != len(b.Upper) {
		return false
	}
	for i := range a.Upper {
		if a.Upper[i] != b.Upper[i] {
			return false
		}
	}
	return true
}
