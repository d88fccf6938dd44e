// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package stdlib

import (
	"fortio.org/log"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/token"
	"autonomine.net/ascript/internal/value"
)

// Invoker calls callables created by def.
//
// The body runs in a fork of the caller's environment with the parameters
// bound positionally (missing ones bind Null, extra arguments are ignored)
// and return pre-bound to Null, so a return set inside nested blocks
// reaches the call. Parameters and return never leak into the caller.
type Invoker struct{}

// Invoke implements eval.Invoker.
func (Invoker) Invoke(e *eval.Evaluator, env *eval.Env, fn value.Callable, args []value.Value) (*eval.Env, value.Value, error) {
	if fn.Fn == nil {
		return env, value.Null{}, nil
	}
	if len(args) > len(fn.Fn.Params) {
		log.LogVf("%s: ignoring %d extra arguments", fn.Fn.Name, len(args)-len(fn.Fn.Params))
	}

	inner := env.Fork()
	inner.Set(token.ReturnKey, value.Null{})

	local := map[string]bool{token.ReturnKey: true}
	for i, p := range fn.Fn.Params {
		var v value.Value = value.Null{}
		if i < len(args) {
			v = args[i]
		}
		inner.Set(p, v)
		local[p] = true
	}

	return e.RunBlockIn(env, inner, fn.Fn.Body, func(name string) bool {
		return local[name]
	})
}
