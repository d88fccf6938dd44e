// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package scanner splits ascript source text into top-level commands.
package scanner

import (
	"errors"
	"fmt"
	"strings"

	"autonomine.net/ascript/internal/token"
)

// DefaultIgnore lists the characters dropped everywhere in the input.
const DefaultIgnore = "\t\r"

// ErrIncomplete is returned when the input ends inside a block or string.
var ErrIncomplete = errors.New("incomplete input")

// IncompleteError reports an unterminated block or string literal.
type IncompleteError struct {
	What string // "block" or "string"
	Line int    // Line where the construct was opened (1-based)
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("unterminated %s starting at line %d", e.What, e.Line)
}

func (e *IncompleteError) Unwrap() error { return ErrIncomplete }

// Scanner splits text into commands rune-by-rune.
type Scanner struct {
	ignore string

	buf      strings.Builder
	cmds     []string
	depth    int  // Brace depth, only tracked inside a block
	inBlock  bool
	inString bool
	line     int // Current line number (1-based)
	openLine int // Line where the pending block or string opened
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithIgnore replaces the set of ignored characters.
func WithIgnore(chars string) Option {
	return func(s *Scanner) { s.ignore = chars }
}

// New creates a new Scanner.
func New(opts ...Option) *Scanner {
	s := &Scanner{ignore: DefaultIgnore}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Split splits text with the default options.
func Split(text string) ([]string, error) {
	return New().Split(text)
}

// Split returns the top-level commands of text in order. Each command is
// non-empty; a command that opens a block runs to the matching close brace.
func (s *Scanner) Split(text string) ([]string, error) {
	s.reset()
	runes := []rune(text)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == token.RuneNewline {
			s.line++
		}
		if strings.ContainsRune(s.ignore, r) {
			continue
		}

		if s.inBlock {
			s.buf.WriteRune(r)
			switch r {
			case token.RuneBlockOpen:
				s.depth++
			case token.RuneBlockClose:
				s.depth--
				if s.depth < 1 {
					s.flush()
					s.inBlock = false
				}
			}
			continue
		}

		if r == token.RuneQuote {
			s.inString = !s.inString
			if s.inString {
				s.openLine = s.line
			}
			s.buf.WriteRune(r)
			continue
		}
		if s.inString {
			s.buf.WriteRune(r)
			continue
		}

		switch r {
		case token.RuneComment:
			s.flush()
			// Discard up to, not including, the newline
			for i+1 < len(runes) && runes[i+1] != token.RuneNewline {
				i++
			}

		case token.RuneSpace:
			if s.buf.String() == token.KeywordDef {
				s.buf.WriteRune(token.RuneDefMarker)
			}

		case token.RuneBlockOpen:
			s.buf.WriteRune(r)
			s.depth = 1
			s.inBlock = true
			s.openLine = s.line

		case token.RuneNewline:
			s.flush()

		default:
			s.buf.WriteRune(r)
		}
	}

	if s.inBlock {
		return nil, &IncompleteError{What: "block", Line: s.openLine}
	}
	if s.inString {
		return nil, &IncompleteError{What: "string", Line: s.openLine}
	}
	s.flush()

	cmds := s.cmds
	s.cmds = nil
	return cmds, nil
}

func (s *Scanner) reset() {
	s.buf.Reset()
	s.cmds = nil
	s.depth = 0
	s.inBlock = false
	s.inString = false
	s.line = 1
	s.openLine = 0
}

// flush emits the buffer as a command if it is non-empty.
func (s *Scanner) flush() {
	if s.buf.Len() > 0 {
		s.cmds = append(s.cmds, s.buf.String())
		s.buf.Reset()
	}
}
