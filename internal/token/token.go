// Package token defines source positions and the operator kinds used by
// binary, prefix and postfix expressions.
package token

import "fmt"

// Position anchors a node in the source the binder parsed.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether the position was set by the front end.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Kind is an operator kind.
type Kind int

const (
	ILLEGAL Kind = iota

	ASSIGN // =

	// Arithmetic
	PLUS     // +
	MINUS    // -
	MULTIPLY // *
	DIVIDE   // /
	MOD      // %

	// Compound assignment
	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	MULTIPLY_ASSIGN // *=
	DIVIDE_ASSIGN   // /=
	MOD_ASSIGN      // %=

	// Increment / decrement
	PLUS_PLUS   // ++
	MINUS_MINUS // --

	// Comparison
	EQ // ==
	NE // !=
	LT // <
	LE // <=
	GT // >
	GE // >=

	// Logic
	AND // &&
	OR  // ||
	NOT // !
)

var kindText = map[Kind]string{
	ILLEGAL:         "ILLEGAL",
	ASSIGN:          "=",
	PLUS:            "+",
	MINUS:           "-",
	MULTIPLY:        "*",
	DIVIDE:          "/",
	MOD:             "%",
	PLUS_ASSIGN:     "+=",
	MINUS_ASSIGN:    "-=",
	MULTIPLY_ASSIGN: "*=",
	DIVIDE_ASSIGN:   "/=",
	MOD_ASSIGN:      "%=",
	PLUS_PLUS:       "++",
	MINUS_MINUS:     "--",
	EQ:              "==",
	NE:              "!=",
	LT:              "<",
	LE:              "<=",
	GT:              ">",
	GE:              ">=",
	AND:             "&&",
	OR:              "||",
	NOT:             "!",
}

func (k Kind) String() string {
	if s, ok := kindText[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Lookup maps operator text to its kind, or ILLEGAL.
func Lookup(text string) Kind {
	for k, s := range kindText {
		if s == text && k != ILLEGAL {
			return k
		}
	}
	return ILLEGAL
}

// IsCompoundAssign reports whether k is one of +=, -=, *=, /=, %=.
func (k Kind) IsCompoundAssign() bool {
	return k >= PLUS_ASSIGN && k <= MOD_ASSIGN
}

// BinaryOf returns the arithmetic operator behind a compound assignment.
func (k Kind) BinaryOf() Kind {
	if !k.IsCompoundAssign() {
		return k
	}
	return k - PLUS_ASSIGN + PLUS
}

// IsArithmetic reports whether k is +, -, *, / or %.
func (k Kind) IsArithmetic() bool {
	return k >= PLUS && k <= MOD
}

// IsComparison reports whether k compares its operands.
func (k Kind) IsComparison() bool {
	return k >= EQ && k <= GE
}

// IsLogical reports whether k is && or ||.
func (k Kind) IsLogical() bool {
	return k == AND || k == OR
}
