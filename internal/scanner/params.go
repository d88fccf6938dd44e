// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package scanner

import (
	"strings"

	"autonomine.net/ascript/internal/token"
)

// SplitParams splits the argument list that starts at the first '(' of s.
// Commas only separate arguments outside nested parentheses, braces and
// string literals. Scanning stops at the closing parenthesis; a trailing
// empty argument is dropped so "()" yields no arguments.
func SplitParams(s string) []string {
	open := strings.IndexByte(s, token.RuneParenOpen)
	if open < 0 {
		return nil
	}

	var params []string
	var buf strings.Builder
	depth := 0
	inString := false

	for _, r := range s[open+1:] {
		if r == token.RuneQuote {
			inString = !inString
		}
		if !inString {
			switch r {
			case token.RuneParenOpen, token.RuneBlockOpen:
				depth++
			case token.RuneParenClose, token.RuneBlockClose:
				depth--
			}
			if depth < 0 {
				break
			}
			if r == token.RuneComma && depth == 0 {
				params = append(params, buf.String())
				buf.Reset()
				continue
			}
		}
		buf.WriteRune(r)
	}

	if buf.Len() > 0 {
		params = append(params, buf.String())
	}
	return params
}

// MatchParen returns the index of the parenthesis closing the one at
// s[open], or -1. String literals are skipped.
func MatchParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != token.RuneParenOpen {
		return -1
	}
	depth := 0
	inString := false
	for i := open; i < len(s); i++ {
		c := s[i]
		if c == token.RuneQuote {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case token.RuneParenOpen:
			depth++
		case token.RuneParenClose:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// Subscript extracts the block that opens at s[open]. It returns the text
// between the outer braces and the index just past the closing brace.
func Subscript(s string, open int) (body string, end int, ok bool) {
	if open < 0 || open >= len(s) || s[open] != token.RuneBlockOpen {
		return "", open, false
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case token.RuneBlockOpen:
			depth++
		case token.RuneBlockClose:
			depth--
			if depth == 0 {
				return s[open+1 : i], i + 1, true
			}
		}
	}
	return "", open, false
}
