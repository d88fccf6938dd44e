// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package value defines ascript runtime values.
package value

import (
	"strconv"
	"strings"
)

// Kind tags a Value.
type Kind int

const (
	NullKind Kind = iota
	NumberKind
	TextKind
	CallableKind
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case NumberKind:
		return "number"
	case TextKind:
		return "text"
	case CallableKind:
		return "callable"
	}
	return "unknown"
}

// Value is the interface all runtime values implement.
type Value interface {
	// Kind returns the value's tag.
	Kind() Kind
	// String returns the display form of the value.
	String() string
	// IsEmpty returns true for the absent value.
	IsEmpty() bool
}

// Null represents the absence of a value.
type Null struct{}

func (Null) Kind() Kind     { return NullKind }
func (Null) String() string { return "" }
func (Null) IsEmpty() bool  { return true }

// Number is a 64-bit float. Truth values are numbers (1 and 0).
type Number struct {
	Value float64
}

func (n Number) Kind() Kind     { return NumberKind }
func (n Number) String() string { return FormatNumber(n.Value) }
func (n Number) IsEmpty() bool  { return false }

// Text is a string value.
type Text struct {
	Value string
}

func (t Text) Kind() Kind     { return TextKind }
func (t Text) String() string { return t.Value }
func (t Text) IsEmpty() bool  { return false }

// Function describes a user-defined callable. It is created by the def
// builtin and never mutated afterwards.
type Function struct {
	Name   string
	Params []string
	Body   string
}

// Callable is a handle to a user-defined function.
type Callable struct {
	Fn *Function
}

func (c Callable) Kind() Kind { return CallableKind }
func (c Callable) String() string {
	if c.Fn == nil {
		return "<def>"
	}
	return "<def " + c.Fn.Name + ">"
}
func (c Callable) IsEmpty() bool { return false }

// Source returns the def call that recreates the callable.
func (c Callable) Source() string {
	if c.Fn == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("def(")
	sb.WriteString(Quote(c.Fn.Name))
	for _, p := range c.Fn.Params {
		sb.WriteByte(',')
		sb.WriteString(Quote(p))
	}
	sb.WriteString("){")
	sb.WriteString(c.Fn.Body)
	sb.WriteString("}")
	return sb.String()
}

// Bool returns the number encoding of a truth value.
func Bool(b bool) Number {
	if b {
		return Number{Value: 1}
	}
	return Number{Value: 0}
}

// Truthy reports whether a value counts as true: a non-zero number, a
// non-empty text, or any callable.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Number:
		return v.Value != 0
	case Text:
		return v.Value != ""
	case Callable:
		return true
	}
	return false
}

// Canonical returns source text that evaluates back to v.
func Canonical(v Value) string {
	switch v := v.(type) {
	case Number:
		return FormatNumber(v.Value)
	case Text:
		return Quote(v.Value)
	case Callable:
		return v.Source()
	}
	return ""
}

// Quote wraps s in double quotes. The language has no escapes.
func Quote(s string) string {
	return `"` + s + `"`
}

// IsQuoted returns true if s is a complete string literal.
func IsQuoted(s string) bool {
	return len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"'
}

// FormatNumber renders a float in the shortest form that parses back.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseNumber parses a numeric literal. Only digits, signs, a decimal point
// and exponent markers are accepted so identifiers like "inf" stay names.
func ParseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ToNumber coerces a value to a float. Text coerces when it holds a
// numeric literal.
func ToNumber(v Value) (float64, bool) {
	switch v := v.(type) {
	case Number:
		return v.Value, true
	case Text:
		return ParseNumber(strings.TrimSpace(v.Value))
	}
	return 0, false
}
