// Package diagnostics carries positioned, coded compile errors.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/jvmstatic/internal/token"
)

// ErrorCode identifies a class of diagnostic.
type ErrorCode string

// Compiler (C) and loader (L) error codes
const (
	ErrC001 ErrorCode = "C001" // no matching setter for an assignment target
	ErrC002 ErrorCode = "C002" // no increment/decrement capability method
	ErrC003 ErrorCode = "C003" // unresolved property or field
	ErrC004 ErrorCode = "C004" // unresolved method or constructor
	ErrC005 ErrorCode = "C005" // expression is not assignable
	ErrC006 ErrorCode = "C006" // invalid operand types
	ErrC007 ErrorCode = "C007" // setter is not visible from the access site
	ErrC008 ErrorCode = "C008" // unsupported expression or statement

	ErrL001 ErrorCode = "L001" // malformed unit description
	ErrL002 ErrorCode = "L002" // unknown type reference
)

var messages = map[ErrorCode]string{
	ErrC001: "no setter %s found for property %s of %s",
	ErrC002: "can't find method %s() for type %s",
	ErrC003: "no property %s in %s",
	ErrC004: "no method %s(%s) in %s",
	ErrC005: "%s is not assignable",
	ErrC006: "operator %s can't be applied to %s and %s",
	ErrC007: "setter %s of %s is not visible from %s",
	ErrC008: "unsupported %s",
	ErrL001: "%s",
	ErrL002: "unknown type %s",
}

// DiagnosticError is a compile error anchored at a source position.
type DiagnosticError struct {
	Code    ErrorCode
	Pos     token.Position
	File    string
	Message string
}

func (e *DiagnosticError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: [%s] %s", e.Pos, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// NewError formats the message registered for code with args.
func NewError(code ErrorCode, pos token.Position, args ...any) *DiagnosticError {
	format, ok := messages[code]
	if !ok {
		format = "%v"
	}
	return &DiagnosticError{
		Code:    code,
		Pos:     pos,
		File:    pos.File,
		Message: fmt.Sprintf(format, args...),
	}
}

// List accumulates diagnostics for one compilation unit.
type List []*DiagnosticError

// Add appends err.
func (l *List) Add(err *DiagnosticError) {
	*l = append(*l, err)
}

// HasErrors reports whether anything was recorded.
func (l List) HasErrors() bool {
	return len(l) > 0
}

// Err returns nil for an empty list, the single error for one entry,
// or a combined error otherwise.
func (l List) Err() error {
	switch len(l) {
	case 0:
		return nil
	case 1:
		return l[0]
	}
	return fmt.Errorf("%w (and %d more errors)", l[0], len(l)-1)
}
