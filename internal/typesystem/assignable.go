package typesystem

// IsAssignableFrom reports whether a value of type from may be used where
// to is expected. The null/identity/root checks run first because
// primitives have no supertype chain, and the numeric, character and text
// rules must win over the nominal fallback.
func IsAssignableFrom(to, from Type) bool {
	if from == nil || Same(from, Null) {
		return true
	}
	if Same(to, from) {
		return true
	}
	if Same(to, Object) {
		return true
	}

	to = Box(to)
	from = Box(from)
	if Same(to, from) {
		return true
	}

	// Character is itself numerical, so its rule is checked first.
	switch {
	case Same(to, Character):
		if IsNumerical(from) || Same(from, String) {
			return true
		}
	case IsNumerical(to):
		if IsNumerical(from) {
			return true
		}
	case Same(to, String):
		if Same(from, String) || IsDirectlyAssignableFrom(GString, from) {
			return true
		}
	case Redirect(to) != nil && Redirect(to).IsArray():
		if ImplementsInterface(from, Collection) {
			return true
		}
	}

	return IsDirectlyAssignableFrom(to, from)
}

// IsDirectlyAssignableFrom is the nominal check: derivation or interface
// implementation, with no conversions.
func IsDirectlyAssignableFrom(to, from Type) bool {
	if from == nil || Same(from, Null) {
		return true
	}
	if IsDerivedFrom(from, to) {
		return true
	}
	tc := Redirect(to)
	return tc != nil && tc.IsInterface() && ImplementsInterface(from, to)
}

// IsDerivedFrom reports whether t is super or one of its subclasses.
func IsDerivedFrom(t, super Type) bool {
	for c := Redirect(t); c != nil; c = Redirect(c.Super) {
		if Same(c, super) {
			return true
		}
	}
	return false
}

// ImplementsInterface reports whether t or any of its superclasses
// declares iface, directly or through super-interfaces.
func ImplementsInterface(t, iface Type) bool {
	for c := Redirect(t); c != nil; c = Redirect(c.Super) {
		if declaresInterface(c, iface, 0) {
			return true
		}
	}
	return false
}

func declaresInterface(c *Class, iface Type, depth int) bool {
	if depth > maxHierarchyDepth {
		return false
	}
	for _, i := range c.Interfaces {
		if Same(i, iface) || declaresInterface(Redirect(i), iface, depth+1) {
			return true
		}
	}
	return false
}

// maxHierarchyDepth bounds walks over malformed (cyclic) interface graphs.
const maxHierarchyDepth = 64

var numericalTypes = []*Class{
	PrimChar, PrimByte, PrimShort, PrimInt, PrimFloat, PrimLong, PrimDouble,
	Byte, Character, Short, Integer, Float, Long, Double,
	BigDecimal, BigInteger,
}

// IsNumerical reports whether t takes part in numeric promotion. Number
// itself is not numerical.
func IsNumerical(t Type) bool {
	for _, n := range numericalTypes {
		if Same(t, n) {
			return true
		}
	}
	return false
}

// IsIntegral reports whether t is a boxed int-sized integral type.
func IsIntegral(t Type) bool {
	for _, n := range []*Class{Integer, Byte, Short, Character, Boolean} {
		if Same(t, n) {
			return true
		}
	}
	return false
}

func IsBigDecimal(t Type) bool { return Same(t, BigDecimal) }

func IsBigInteger(t Type) bool { return Same(t, BigInteger) }

func IsFloatingPoint(t Type) bool { return Same(t, PrimDouble) || Same(t, PrimFloat) }

func IsLong(t Type) bool { return Same(t, PrimLong) }

// GetMathType returns the type arithmetic on l and r is performed in:
// floating point, then BigDecimal, then BigInteger, then long, else int.
func GetMathType(l, r Type) Type {
	l, r = Unbox(l), Unbox(r)

	switch {
	case IsFloatingPoint(l) || IsFloatingPoint(r):
		return PrimDouble
	case IsBigDecimal(l) || IsBigDecimal(r):
		return BigDecimal
	case IsBigInteger(l) || IsBigInteger(r):
		return BigInteger
	case IsLong(l) || IsLong(r):
		return PrimLong
	}
	return PrimInt
}
