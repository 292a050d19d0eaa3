package typesystem

import "strings"

var primitiveDescriptors = map[*Class]string{
	PrimVoid:    "V",
	PrimBoolean: "Z",
	PrimByte:    "B",
	PrimChar:    "C",
	PrimShort:   "S",
	PrimInt:     "I",
	PrimLong:    "J",
	PrimFloat:   "F",
	PrimDouble:  "D",
}

// Descriptor returns the class-file field descriptor of the erasure of t.
func Descriptor(t Type) string {
	c := Redirect(t)
	if c == nil {
		return "Ljava/lang/Object;"
	}
	if d, ok := primitiveDescriptors[c]; ok {
		return d
	}
	if c.IsArray() {
		return "[" + Descriptor(c.Component)
	}
	return "L" + strings.ReplaceAll(c.Name, ".", "/") + ";"
}

// MethodDescriptor returns the class-file method descriptor for the given
// return and parameter types.
func MethodDescriptor(ret Type, params []Type) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(Descriptor(p))
	}
	sb.WriteByte(')')
	if ret == nil {
		sb.WriteString("V")
	} else {
		sb.WriteString(Descriptor(ret))
	}
	return sb.String()
}

// Descriptor returns the method descriptor of m. Extension methods take
// their receiver as an explicit first parameter.
func (m *Method) Descriptor() string {
	params := m.ParamTypes()
	if m.Extension {
		params = append([]Type{m.Declaring}, params...)
	}
	ret := m.ReturnType()
	if m.Constructor {
		ret = PrimVoid
	}
	return MethodDescriptor(ret, params)
}
