// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package expr splits a command into a binary equation around its
// loosest-binding top-level operator.
package expr

import (
	"strings"

	"autonomine.net/ascript/internal/token"
)

// Equation is a command split as Left Op Right.
type Equation struct {
	Left  string
	Op    token.Operator
	Right string
}

func (e Equation) String() string {
	return e.Left + e.Op.Symbol + e.Right
}

// Components breaks command into alternating operands and operators at
// nesting depth zero outside string literals. The sequence always starts
// and ends with an operand. It returns false if any component is empty.
func Components(command string) ([]string, bool) {
	runes := []rune(command)
	var components []string
	var buf strings.Builder
	depth := 0
	inString := false

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch r {
		case token.RuneParenOpen, token.RuneBlockOpen:
			depth++
		case token.RuneParenClose, token.RuneBlockClose:
			depth--
		case token.RuneQuote:
			inString = !inString
		}

		if depth > 0 || inString {
			buf.WriteRune(r)
			continue
		}

		// Two-character operators win over their one-character prefixes
		if i+1 < len(runes) {
			if pair := string(runes[i : i+2]); token.IsOperator(pair) {
				components = append(components, buf.String(), pair)
				buf.Reset()
				i++
				continue
			}
		}
		if single := string(r); token.IsOperator(single) {
			components = append(components, buf.String(), single)
			buf.Reset()
			continue
		}
		buf.WriteRune(r)
	}
	components = append(components, buf.String())

	for _, c := range components {
		if c == "" {
			return nil, false
		}
	}
	return components, true
}

// Split finds the operator that binds loosest and returns the text on
// either side of it. Comparisons split first, then + -, then * / %, then ^.
// Ties split at the last occurrence so a-b-c is (a-b)-c, except ^ which
// splits at the first so 2^3^2 is 2^(3^2). It returns false when the
// command is not an equation.
func Split(command string) (Equation, bool) {
	components, ok := Components(command)
	if !ok || len(components) < 3 {
		return Equation{}, false
	}

	best := -1
	var bestOp token.Operator
	for i := 1; i < len(components); i += 2 {
		op, ok := token.Lookup(components[i])
		if !ok {
			// Components only emits symbols from the operator table
			panic("expr: unknown operator " + components[i])
		}
		switch {
		case best < 0, op.Binding() < bestOp.Binding():
			best, bestOp = i, op
		case op.Binding() == bestOp.Binding() && !op.RightAssoc():
			best, bestOp = i, op
		}
	}

	return Equation{
		Left:  strings.Join(components[:best], ""),
		Op:    bestOp,
		Right: strings.Join(components[best+1:], ""),
	}, true
}
