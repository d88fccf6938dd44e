// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"errors"
	"fmt"

	"autonomine.net/ascript/internal/value"
)

// Sentinel errors for errors.Is.
var (
	ErrUndefined = errors.New("undefined identifier")
	ErrType      = errors.New("type error")
	ErrDepth     = errors.New("recursion limit exceeded")
	ErrSyntax    = errors.New("syntax error")
	ErrLoopLimit = errors.New("loop limit exceeded")
)

// UndefinedError reports a name that is neither a literal, a binding, an
// assignment nor a known call.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%q is undefined", e.Name)
}

func (e *UndefinedError) Unwrap() error { return ErrUndefined }

// TypeError reports an operand of the wrong kind. Want describes what the
// operation accepts; empty means a number.
type TypeError struct {
	Op    string
	Value value.Value
	Want  string
}

func (e *TypeError) Error() string {
	want := e.Want
	if want == "" {
		want = "a number"
	}
	if e.Value == nil || e.Value.IsEmpty() {
		return fmt.Sprintf("%s expects %s, got nothing", e.Op, want)
	}
	return fmt.Sprintf("%s expects %s, got %s %q", e.Op, want, e.Value.Kind(), e.Value.String())
}

func (e *TypeError) Unwrap() error { return ErrType }

// DepthError reports runaway recursion.
type DepthError struct {
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("recursion deeper than %d", e.Limit)
}

func (e *DepthError) Unwrap() error { return ErrDepth }

// SyntaxError reports a command with a malformed call.
type SyntaxError struct {
	Command string
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s in %q", e.Msg, e.Command)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// LoopLimitError reports a loop that ran past the configured limit.
type LoopLimitError struct {
	Limit int
}

func (e *LoopLimitError) Error() string {
	return fmt.Sprintf("loop ran more than %d iterations", e.Limit)
}

func (e *LoopLimitError) Unwrap() error { return ErrLoopLimit }
