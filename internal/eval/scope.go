// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package eval

import (
	"fortio.org/log"

	"autonomine.net/ascript/internal/token"
	"autonomine.net/ascript/internal/value"
)

// RunBlock runs block against a fork of outer. Assignments to names outer
// already held are copied back; names first bound inside the block are
// dropped. The result is the block's return binding, or Null.
func (e *Evaluator) RunBlock(outer *Env, block string) (*Env, value.Value, error) {
	return e.RunBlockIn(outer, outer.Fork(), block, nil)
}

// RunBlockIn is RunBlock with a caller-prepared inner environment. Names
// for which skip returns true are never copied back into outer.
//
// On error the effects made before the failing command are still merged
// back, then the error is returned.
func (e *Evaluator) RunBlockIn(outer, inner *Env, block string, skip func(name string) bool) (*Env, value.Value, error) {
	cmds, err := e.Parse(block)
	if err != nil {
		return outer, value.Null{}, err
	}

	log.LogVf("block: %d commands, %d bindings", len(cmds), inner.Len())

	inner, _, runErr := e.RunCommands(inner, cmds)

	var result value.Value = value.Null{}
	if v, ok := inner.Lookup(token.ReturnKey); ok {
		result = v
	}

	outer.MergeBack(inner, skip)
	if runErr != nil {
		return outer, value.Null{}, runErr
	}
	return outer, result, nil
}
