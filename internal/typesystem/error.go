package typesystem

import (
	"errors"
	"fmt"
	"io"
	"log"
)

// ErrInternal marks invariant violations: callers passed an unresolved
// type where a resolved one is mandatory. These are programmer errors and
// are raised with panic.
var ErrInternal = errors.New("internal error")

// Logger receives recoverable type-resolution fallbacks. It is silent
// unless SetLogOutput is called.
var Logger = log.New(io.Discard, "typesystem: ", 0)

// SetLogOutput redirects the type-resolution log.
func SetLogOutput(w io.Writer) {
	Logger.SetOutput(w)
}

// TypeNotFoundError indicates a type reference that names no declared class.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}

func NewTypeNotFoundError(name string) *TypeNotFoundError {
	return &TypeNotFoundError{Name: name}
}
