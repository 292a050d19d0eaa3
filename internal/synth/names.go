package synth

import (
	"strconv"

	"github.com/funvibe/jvmstatic/internal/config"
)

// NameAllocator hands out unit-unique synthetic ids and temporary
// variable names. One allocator belongs to exactly one compilation unit.
type NameAllocator struct {
	nextID   int
	nextTemp int
}

// NewNameAllocator creates an allocator whose counters start at the given
// bases. A zero base selects config.SyntheticBase.
func NewNameAllocator(idBase, tempBase int) *NameAllocator {
	if idBase == 0 {
		idBase = config.SyntheticBase
	}
	if tempBase == 0 {
		tempBase = config.SyntheticBase
	}
	return &NameAllocator{nextID: idBase, nextTemp: tempBase}
}

// NextID returns the next synthetic member id.
func (a *NameAllocator) NextID() int {
	id := a.nextID
	a.nextID++
	return id
}

// NextTempVarName returns a fresh temporary local name ($temp1979, ...).
func (a *NameAllocator) NextTempVarName() string {
	name := config.TempVarPrefix + strconv.Itoa(a.nextTemp)
	a.nextTemp++
	return name
}

func getterName(id int) string   { return config.FieldGetterPrefix + strconv.Itoa(id) }
func setterName(id int) string   { return config.FieldSetterPrefix + strconv.Itoa(id) }
func delegateName(id int) string { return config.DelegatePrefix + strconv.Itoa(id) }
