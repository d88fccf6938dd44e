// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package token defines the ascript operator table and syntax runes.
package token

import "math"

// Syntax runes recognised by the splitter, desugarer and evaluator.
const (
	RuneBlockOpen  = '{'
	RuneBlockClose = '}'
	RuneParenOpen  = '('
	RuneParenClose = ')'
	RuneQuote      = '"'
	RuneComment    = '#'
	RuneComma      = ','
	RuneAssign     = '='
	RuneSpace      = ' '
	RuneNewline    = '\n'
	RuneDefMarker  = '~' // Appended after a bare "def" so the desugarer sees the keyword form
)

// Keywords rewritten by the desugarer.
const (
	KeywordDef  = "def"
	KeywordFor  = "for"
	KeywordIf   = "if"
	KeywordElse = "else"
	KeywordNot  = "!"

	// ReturnKey is the binding a block reads its result from.
	ReturnKey = "return"
)

// Kind is the result kind of an operator.
type Kind int

const (
	Numeric Kind = iota
	Boolean
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "NUMERIC"
	case Boolean:
		return "BOOLEAN"
	}
	return "UNKNOWN"
}

// Operator is a binary operator.
type Operator struct {
	Symbol     string
	Kind       Kind
	Precedence int
}

// Precedence levels, lowest first.
const (
	PrecAdditive       = 0 // + -
	PrecMultiplicative = 1 // * / %
	PrecPower          = 2 // ^
	PrecComparison     = 3 // == != > >= < <=
)

// operators is ordered two-character symbols first.
var operators = []Operator{
	{"==", Boolean, PrecComparison},
	{"!=", Boolean, PrecComparison},
	{">=", Boolean, PrecComparison},
	{"<=", Boolean, PrecComparison},
	{">", Boolean, PrecComparison},
	{"<", Boolean, PrecComparison},
	{"^", Numeric, PrecPower},
	{"*", Numeric, PrecMultiplicative},
	{"/", Numeric, PrecMultiplicative},
	{"%", Numeric, PrecMultiplicative},
	{"+", Numeric, PrecAdditive},
	{"-", Numeric, PrecAdditive},
}

// Lookup returns the operator for a symbol. The boolean is false if the
// symbol is not an operator.
func Lookup(symbol string) (Operator, bool) {
	for _, op := range operators {
		if op.Symbol == symbol {
			return op, true
		}
	}
	return Operator{}, false
}

// IsOperator returns true if the symbol is an operator.
func IsOperator(symbol string) bool {
	_, ok := Lookup(symbol)
	return ok
}

// Binding returns how tightly the operator holds its operands, loosest
// first. Comparisons bind loosest so 1+2>2 compares 1+2 with 2; the
// arithmetic levels keep their usual order so 1+2*3 is 7.
func (o Operator) Binding() int {
	if o.IsBoolean() {
		return 0
	}
	return o.Precedence + 1
}

// RightAssoc reports whether a chain of this operator groups from the right.
func (o Operator) RightAssoc() bool {
	return o.Symbol == "^"
}

// IsBoolean returns true if the operator yields a truth value.
func (o Operator) IsBoolean() bool {
	return o.Kind == Boolean
}

// Apply computes a op b. Boolean operators return 1 or 0.
func (o Operator) Apply(a, b float64) float64 {
	switch o.Symbol {
	case "==":
		return truth(a == b)
	case "!=":
		return truth(a != b)
	case ">":
		return truth(a > b)
	case ">=":
		return truth(a >= b)
	case "<":
		return truth(a < b)
	case "<=":
		return truth(a <= b)
	case "^":
		return math.Pow(a, b)
	case "*":
		return a * b
	case "/":
		return a / b
	case "%":
		return math.Mod(a, b)
	case "+":
		return a + b
	case "-":
		return a - b
	}
	panic("token: apply on unknown operator " + o.Symbol)
}

func (o Operator) String() string { return o.Symbol }

func truth(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
