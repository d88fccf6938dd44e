// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package stdlib

import (
	"strings"

	"fortio.org/log"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/value"
)

// builtinIf runs its block when the condition is truthy.
func builtinIf(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	if !value.Truthy(arg(call, 0)) || !call.HasBlock {
		return env, value.Null{}, nil
	}
	return e.RunBlock(env, call.Block)
}

func builtinNot(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	return env, value.Bool(!value.Truthy(arg(call, 0))), nil
}

// builtinFor implements for("v", start, cond, step){body}. The loop
// variable lives in a fork of env, so a fresh one is gone after the loop
// while assignments to existing names are kept.
func builtinFor(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	if len(call.Raw) != 4 {
		return env, value.Null{}, &eval.SyntaxError{
			Command: source(call),
			Msg:     "for needs a variable, a start, a condition and a step",
		}
	}

	loop := env.Fork()
	loop, v, err := e.Run(loop, call.Raw[0])
	if err != nil {
		return env, value.Null{}, err
	}
	name, ok := v.(value.Text)
	if !ok || name.Value == "" {
		return env, value.Null{}, &eval.TypeError{Op: "for", Value: v, Want: "a variable name"}
	}
	loop, start, err := e.Run(loop, call.Raw[1])
	if err != nil {
		return env, value.Null{}, err
	}
	loop.Set(name.Value, start)

	cond, step := call.Raw[2], call.Raw[3]
	result, err := loopWhile(e, loop, call, cond, func(loop *eval.Env) (*eval.Env, error) {
		loop, _, err := e.Run(loop, step)
		return loop, err
	})

	env.MergeBack(loop, nil)
	if err != nil {
		return env, value.Null{}, err
	}
	return env, result, nil
}

// builtinWhile implements while(cond){body} on env itself.
func builtinWhile(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	if len(call.Raw) != 1 {
		return env, value.Null{}, &eval.SyntaxError{Command: source(call), Msg: "while needs one condition"}
	}
	result, err := loopWhile(e, env, call, call.Raw[0], nil)
	if err != nil {
		return env, value.Null{}, err
	}
	return env, result, nil
}

// loopWhile evaluates cond, runs the block and the optional step until cond
// is false. It returns the last block result.
func loopWhile(e *eval.Evaluator, env *eval.Env, call eval.Call, cond string, step func(*eval.Env) (*eval.Env, error)) (value.Value, error) {
	limit := e.LoopLimit()
	var result value.Value = value.Null{}

	for n := 0; ; n++ {
		var c value.Value
		var err error
		env, c, err = e.Run(env, cond)
		if err != nil {
			return value.Null{}, err
		}
		if !value.Truthy(c) {
			log.LogVf("%s: done after %d iterations", call.Name, n)
			return result, nil
		}
		if limit > 0 && n >= limit {
			return value.Null{}, &eval.LoopLimitError{Limit: limit}
		}

		if call.HasBlock {
			env, result, err = e.RunBlock(env, call.Block)
			if err != nil {
				return value.Null{}, err
			}
		}
		if step != nil {
			if env, err = step(env); err != nil {
				return value.Null{}, err
			}
		}
	}
}

// source rebuilds the call text for error messages.
func source(call eval.Call) string {
	return call.Name + "(" + strings.Join(call.Raw, ",") + ")"
}
