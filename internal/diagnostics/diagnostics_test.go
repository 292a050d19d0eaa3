package diagnostics

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/jvmstatic/internal/token"
)

func TestNewErrorFormatsMessage(t *testing.T) {
	pos := token.Position{File: "a.unit.yaml", Line: 3, Column: 7}
	err := NewError(ErrC003, pos, "size", "demo.Box")

	if err.Message != "no property size in demo.Box" {
		t.Errorf("message = %q", err.Message)
	}
	if err.File != "a.unit.yaml" {
		t.Errorf("file = %q", err.File)
	}
	if got, want := err.Error(), "a.unit.yaml:3:7: [C003] no property size in demo.Box"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorWithoutPosition(t *testing.T) {
	err := NewError(ErrL002, token.Position{}, "Missing")
	if got, want := err.Error(), "[L002] unknown type Missing"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestListErr(t *testing.T) {
	var l List
	if l.HasErrors() || l.Err() != nil {
		t.Fatal("empty list reports errors")
	}

	first := NewError(ErrC008, token.Position{Line: 1}, "statement")
	l.Add(first)
	if l.Err() != first {
		t.Errorf("single error = %v", l.Err())
	}

	l.Add(NewError(ErrC005, token.Position{Line: 2}, "1"))
	l.Add(NewError(ErrC005, token.Position{Line: 3}, "2"))
	err := l.Err()
	if !strings.Contains(err.Error(), "and 2 more errors") {
		t.Errorf("combined = %v", err)
	}
	var de *DiagnosticError
	if !errors.As(err, &de) || de != first {
		t.Error("combined error does not wrap the first diagnostic")
	}
}
