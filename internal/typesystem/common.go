package typesystem

import (
	"fmt"

	set "github.com/hashicorp/go-set/v3"
)

// CommonType returns the narrowest type both a and b can be coerced to.
// Both types must be resolved; a nil argument is an internal error.
func CommonType(a, b Type) Type {
	if a == nil || b == nil {
		panic(fmt.Errorf("%w: common type of unresolved type (%v, %v)", ErrInternal, a, b))
	}

	if Same(a, b) {
		return a
	}
	if Same(a, Null) {
		return b
	}
	if Same(b, Null) {
		return a
	}
	if Same(a, Object) || Same(b, Object) {
		return Object
	}

	a, b = Box(a), Box(b)

	if IsNumerical(a) && IsNumerical(b) {
		switch {
		case Same(a, Double) || Same(b, Double):
			return PrimDouble
		case Same(a, Float) || Same(b, Float):
			return PrimFloat
		case Same(a, Long) || Same(b, Long):
			return PrimLong
		case Same(a, Integer) || Same(b, Integer):
			return PrimInt
		}
		// Character does not derive from Number.
		if Same(a, Character) || Same(b, Character) {
			return commonAncestor(a, b)
		}
		return Number
	}

	return commonAncestor(a, b)
}

// commonAncestor picks, among the ancestors shared by a and b, the one
// with the smallest combined traversal rank. A shared superclass always
// ranks before any interface on both sides; ties between interfaces are
// broken by name so the result does not depend on argument order.
func commonAncestor(a, b Type) Type {
	allA := AllTypes(a)
	allB := AllTypes(b)

	rankB := make(map[string]int, len(allB))
	for i, t := range allB {
		rankB[Redirect(t).Name] = i
	}

	var best Type
	bestScore := -1
	for i, t := range allA {
		j, ok := rankB[Redirect(t).Name]
		if !ok {
			continue
		}
		score := i + j
		if best == nil || score < bestScore ||
			(score == bestScore && Redirect(t).Name < Redirect(best).Name) {
			best, bestScore = t, score
		}
	}
	if best == nil || Same(best, Object) {
		return Object
	}
	return best
}

// AllTypes returns t and all its ancestors in traversal order: the
// superclass chain first, then interfaces breadth-first, Object last.
// Interfaces are returned as written, with their generic arguments.
func AllTypes(t Type) []Type {
	c := Redirect(t)
	if c == nil {
		return nil
	}

	seen := set.New[string](16)
	var out []Type
	add := func(x Type) {
		if x == nil {
			return
		}
		if seen.Insert(Redirect(x).Name) {
			out = append(out, x)
		}
	}

	var queue []Type
	if !c.IsInterface() {
		var cur Type = t
		for cc := c; cc != nil && !Same(cc, Object); cc = Redirect(cc.Super) {
			add(cur)
			queue = append(queue, cc.Interfaces...)
			cur = cc.Super
		}
	} else {
		queue = append(queue, t)
	}

	for len(queue) > 0 {
		iface := queue[0]
		queue = queue[1:]
		if seen.Contains(Redirect(iface).Name) {
			continue
		}
		add(iface)
		queue = append(queue, Redirect(iface).Interfaces...)
	}

	add(Object)
	return out
}
