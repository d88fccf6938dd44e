// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package desugar rewrites keyword forms into plain call syntax.
//
//	def~name(a,b){...}      ->  def("name","a","b"){...}
//	for(i=0,i<3,i=i+1){...} ->  for("i",0,i<3,i=i+1){...}
//	if(c){...} else{...}    ->  if(c){...} if(!(c)){...}
package desugar

import (
	"errors"
	"fmt"
	"strings"

	"autonomine.net/ascript/internal/scanner"
	"autonomine.net/ascript/internal/token"
	"autonomine.net/ascript/internal/value"
)

// ErrMalformedElse is returned when an else does not directly follow an if.
var ErrMalformedElse = errors.New("else must follow if")

// MalformedElseError reports the offending else command.
type MalformedElseError struct {
	Index   int // Position in the command sequence
	Command string
}

func (e *MalformedElseError) Error() string {
	return fmt.Sprintf("else must follow if (command %d: %q)", e.Index+1, e.Command)
}

func (e *MalformedElseError) Unwrap() error { return ErrMalformedElse }

var (
	prefixDef  = token.KeywordDef + string(token.RuneDefMarker)
	prefixFor  = token.KeywordFor + string(token.RuneParenOpen)
	prefixIf   = token.KeywordIf + string(token.RuneParenOpen)
	prefixElse = token.KeywordElse + string(token.RuneBlockOpen)
)

// latestIf remembers the most recent if command.
type latestIf struct {
	index     int
	condition string // Parenthesised condition text
}

// Parse splits text into commands and desugars them.
func Parse(text string, opts ...scanner.Option) ([]string, error) {
	cmds, err := scanner.New(opts...).Split(text)
	if err != nil {
		return nil, err
	}
	return Desugar(cmds)
}

// Desugar rewrites sugar forms in order. The input slice is not modified.
func Desugar(cmds []string) ([]string, error) {
	out := make([]string, len(cmds))
	copy(out, cmds)

	last := latestIf{index: -1}
	for i := range out {
		if is(out[i], prefixDef) {
			out[i] = rewriteDef(out[i])
		}
		if is(out[i], prefixFor) {
			out[i] = rewriteFor(out[i])
		}
		if is(out[i], prefixIf) {
			last = latestIf{index: i, condition: condition(out[i])}
		}
		if is(out[i], prefixElse) {
			if i != last.index+1 || last.index < 0 {
				return nil, &MalformedElseError{Index: i, Command: out[i]}
			}
			out[i] = rewriteElse(last, out[i])
		}
	}
	return out, nil
}

// is reports whether cmd starts with prefix and has more after it.
func is(cmd, prefix string) bool {
	return len(cmd) > len(prefix) && strings.HasPrefix(cmd, prefix)
}

// rewriteDef turns def~name(a,b){...} into def("name","a","b"){...}.
func rewriteDef(cmd string) string {
	rest := cmd[len(prefixDef):]

	end := strings.IndexAny(rest, "({")
	if end < 0 {
		return "def(" + value.Quote(rest) + ")"
	}
	name := rest[:end]

	var params []string
	tail := rest[end:]
	if rest[end] == token.RuneParenOpen {
		params = scanner.SplitParams(rest[end:])
		if closeIdx := scanner.MatchParen(rest, end); closeIdx >= 0 {
			tail = rest[closeIdx+1:]
		} else {
			tail = ""
		}
	}

	var sb strings.Builder
	sb.WriteString("def(")
	sb.WriteString(value.Quote(name))
	for _, p := range params {
		sb.WriteByte(token.RuneComma)
		sb.WriteString(value.Quote(p))
	}
	sb.WriteByte(token.RuneParenClose)
	sb.WriteString(tail)
	return sb.String()
}

// rewriteFor quotes the loop variable of for(v=start,...) and passes the
// remaining arguments through unchanged.
func rewriteFor(cmd string) string {
	params := scanner.SplitParams(cmd)
	if len(params) == 0 {
		return cmd
	}
	decl := params[0]
	if strings.HasPrefix(decl, string(token.RuneQuote)) {
		return cmd
	}
	eq := strings.IndexByte(decl, token.RuneAssign)
	if eq < 0 {
		return cmd
	}

	variable := decl[:eq]
	start := decl[eq+1:]
	rest := cmd[len(prefixFor)+len(decl):]
	return prefixFor + value.Quote(variable) + string(token.RuneComma) + start + rest
}

// condition returns the parenthesised argument text of an if command.
func condition(cmd string) string {
	return "(" + strings.Join(scanner.SplitParams(cmd), string(token.RuneComma)) + ")"
}

// rewriteElse turns else{...} into if(!(cond)){...}.
func rewriteElse(last latestIf, cmd string) string {
	return prefixIf + token.KeywordNot + last.condition + ")" + cmd[len(token.KeywordElse):]
}
