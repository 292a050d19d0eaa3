package typesystem

// Root and special types
var (
	Object = &Class{Name: "java.lang.Object", Modifiers: Public, builtin: true}

	// Null is the type of the null literal; assignable to every reference.
	Null = &Class{Name: "jvmstatic.Null", Modifiers: Public | Final, Super: Object, builtin: true}
)

// Primitive types
var (
	PrimVoid    = primitive("void")
	PrimBoolean = primitive("boolean")
	PrimByte    = primitive("byte")
	PrimChar    = primitive("char")
	PrimShort   = primitive("short")
	PrimInt     = primitive("int")
	PrimLong    = primitive("long")
	PrimFloat   = primitive("float")
	PrimDouble  = primitive("double")
)

// Interfaces
var (
	Serializable = builtinInterface("java.io.Serializable")
	Cloneable    = builtinInterface("java.lang.Cloneable")
	CharSequence = builtinInterface("java.lang.CharSequence")
	Comparable   = genericInterface("java.lang.Comparable", "T")
	Iterable     = genericInterface("java.lang.Iterable", "T")
	Collection   = genericInterface("java.util.Collection", "E")
	List         = genericInterface("java.util.List", "E")
)

// Reference types
var (
	Number     = builtinClass("java.lang.Number", Public|Abstract, Object, Serializable)
	Void       = builtinClass("java.lang.Void", Public|Final, Object)
	Boolean    = builtinClass("java.lang.Boolean", Public|Final, Object, Serializable)
	Byte       = builtinClass("java.lang.Byte", Public|Final, Number)
	Character  = builtinClass("java.lang.Character", Public|Final, Object, Serializable)
	Short      = builtinClass("java.lang.Short", Public|Final, Number)
	Integer    = builtinClass("java.lang.Integer", Public|Final, Number)
	Long       = builtinClass("java.lang.Long", Public|Final, Number)
	Float      = builtinClass("java.lang.Float", Public|Final, Number)
	Double     = builtinClass("java.lang.Double", Public|Final, Number)
	BigInteger = builtinClass("java.math.BigInteger", Public, Number)
	BigDecimal = builtinClass("java.math.BigDecimal", Public, Number)
	String     = builtinClass("java.lang.String", Public|Final, Object, Serializable, CharSequence)

	// GString is the text-like interpolated string type.
	GString = builtinClass("groovy.lang.GString", Public|Abstract, Object, CharSequence, Serializable)

	ArrayList = builtinClass("java.util.ArrayList", Public, Object, Serializable, Cloneable)

	// DefaultMethods owns the static extension methods (next, previous).
	DefaultMethods = builtinClass("org.codehaus.groovy.runtime.DefaultGroovyMethods", Public, Object)
)

var builtinTypes []*Class

func init() {
	pairs := []struct{ prim, wrapper *Class }{
		{PrimVoid, Void},
		{PrimBoolean, Boolean},
		{PrimByte, Byte},
		{PrimChar, Character},
		{PrimShort, Short},
		{PrimInt, Integer},
		{PrimLong, Long},
		{PrimFloat, Float},
		{PrimDouble, Double},
	}
	for _, p := range pairs {
		p.prim.box = p.wrapper
		p.wrapper.unbox = p.prim
	}

	// Self-referencing generic edges are wired once every template exists.
	Collection.Interfaces = []Type{Instantiate(Iterable, Collection.TypeParams[0])}
	List.Interfaces = []Type{Instantiate(Collection, List.TypeParams[0])}
	ArrayList.TypeParams = []*Param{NewParam("E", nil)}
	ArrayList.Interfaces = append([]Type{Instantiate(List, ArrayList.TypeParams[0])}, ArrayList.Interfaces...)
	for _, c := range []*Class{Boolean, Byte, Character, Short, Integer, Long, Float, Double, BigInteger, BigDecimal, String} {
		c.Interfaces = append(c.Interfaces, Instantiate(Comparable, c))
	}
	GString.Interfaces = append([]Type{Comparable}, GString.Interfaces...)

	builtinTypes = []*Class{
		Object, Null,
		PrimVoid, PrimBoolean, PrimByte, PrimChar, PrimShort, PrimInt, PrimLong, PrimFloat, PrimDouble,
		Serializable, Cloneable, CharSequence, Comparable, Iterable, Collection, List,
		Number, Void, Boolean, Byte, Character, Short, Integer, Long, Float, Double,
		BigInteger, BigDecimal, String, GString, ArrayList, DefaultMethods,
	}
}

// BuiltinTypes returns every predeclared type.
func BuiltinTypes() []*Class {
	return builtinTypes
}

func primitive(name string) *Class {
	return &Class{Name: name, Modifiers: Public | Final, primitive: true, builtin: true}
}

func builtinClass(name string, mods Modifier, super Type, interfaces ...Type) *Class {
	return &Class{Name: name, Modifiers: mods, Super: super, Interfaces: interfaces, builtin: true}
}

func builtinInterface(name string) *Class {
	return &Class{Name: name, Modifiers: Public | Interface | Abstract, Super: Object, builtin: true}
}

func genericInterface(name string, params ...string) *Class {
	c := builtinInterface(name)
	for _, p := range params {
		c.TypeParams = append(c.TypeParams, NewParam(p, nil))
	}
	return c
}

// Box returns the wrapper of a primitive type, or t unchanged.
func Box(t Type) Type {
	if c := Redirect(t); c != nil && c.box != nil {
		return c.box
	}
	return t
}

// Unbox returns the primitive of a wrapper type, or t unchanged.
func Unbox(t Type) Type {
	if c := Redirect(t); c != nil && c.unbox != nil {
		return c.unbox
	}
	return t
}

// IsPrimitive reports whether t is a primitive type.
func IsPrimitive(t Type) bool {
	c := Redirect(t)
	return c != nil && c.primitive
}

// IsWrapper reports whether t is the boxed form of a primitive.
func IsWrapper(t Type) bool {
	c := Redirect(t)
	return c != nil && c.unbox != nil
}

// IsVoid reports whether t is the void primitive.
func IsVoid(t Type) bool {
	return t != nil && Same(t, PrimVoid)
}

// IsWide reports whether a value of t takes two stack slots.
func IsWide(t Type) bool {
	return Same(t, PrimLong) || Same(t, PrimDouble)
}
