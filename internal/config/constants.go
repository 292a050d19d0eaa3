package config

import "strings"

// OptionsFileName is the per-project options file looked up by FindOptions.
const OptionsFileName = "jvmstatic.yaml"

// UnitFileExtensions are all recognized compilation-unit description extensions
var UnitFileExtensions = []string{".unit.yaml", ".unit.yml"}

// HasUnitExt reports whether path names a compilation-unit description.
func HasUnitExt(path string) bool {
	for _, ext := range UnitFileExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// SyntheticBase seeds both per-unit counters. It is large enough that the
// generated names never collide with hand-written accessor names.
const SyntheticBase = 1979

// Synthetic member name prefixes
const (
	FieldGetterPrefix = "getField"
	FieldSetterPrefix = "setField"
	DelegatePrefix    = "delegate"
	TempVarPrefix     = "$temp"
	SetterParamName   = "p"
)

// Property accessor prefixes
const (
	GetterPrefix = "get"
	SetterPrefix = "set"
)

// Increment/decrement capability methods
const (
	NextMethodName     = "next"
	PreviousMethodName = "previous"
)

// Well-known receivers and member names
const (
	ThisName          = "this"
	SuperName         = "super"
	ConstructorName   = "<init>"
	OuterInstanceName = "this$0"
)

// Runtime support used by emitted code
const (
	// TypeTransformationOwner holds the truth and unboxing helpers.
	TypeTransformationOwner = "jvmstatic/runtime/TypeTransformation"
	BooleanUnboxMethod      = "booleanUnbox"
	BooleanUnboxDescriptor  = "(Ljava/lang/Object;)Z"
)
