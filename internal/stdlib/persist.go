// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package stdlib

import (
	"fmt"
	"strings"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/store"
	"autonomine.net/ascript/internal/value"
)

func bindingName(op string, call eval.Call) (string, error) {
	v := arg(call, 0)
	t, ok := v.(value.Text)
	if !ok || t.Value == "" {
		return "", &eval.TypeError{Op: op, Value: v, Want: "a name"}
	}
	return t.Value, nil
}

// builtinPersist stores the canonical text of a binding.
func builtinPersist(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	name, err := bindingName("persist", call)
	if err != nil {
		return env, value.Null{}, err
	}
	s := e.Store()
	if s == nil {
		return env, value.Null{}, nil
	}

	v, ok := env.Lookup(name)
	if !ok {
		return env, value.Null{}, &eval.UndefinedError{Name: name}
	}
	// Literals have no escapes, so such text could not be loaded back.
	if t, ok := v.(value.Text); ok && strings.ContainsRune(t.Value, '"') {
		return env, value.Null{}, &eval.TypeError{Op: "persist", Value: v, Want: "text without quotes"}
	}
	if err := s.Put(name, value.Canonical(v)); err != nil {
		return env, value.Null{}, fmt.Errorf("persist %s: %w", name, err)
	}
	return env, value.Null{}, nil
}

// builtinLoad evaluates the stored text of a binding and binds the result.
func builtinLoad(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	name, err := bindingName("load", call)
	if err != nil {
		return env, value.Null{}, err
	}
	s := e.Store()
	if s == nil {
		return env, value.Null{}, nil
	}

	text, ok, err := s.Get(name)
	if err != nil {
		return env, value.Null{}, fmt.Errorf("load %s: %w", name, err)
	}
	if !ok || text == "" {
		return env, value.Null{}, nil
	}

	env, v, err := e.Run(env, text)
	if err != nil {
		return env, value.Null{}, fmt.Errorf("load %s: %w", name, err)
	}
	env.Set(name, v)
	return env, v, nil
}

func builtinForget(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	name, err := bindingName("forget", call)
	if err != nil {
		return env, value.Null{}, err
	}
	if s := e.Store(); s != nil {
		if err := s.Delete(name); err != nil {
			return env, value.Null{}, fmt.Errorf("forget %s: %w", name, err)
		}
	}
	return env, value.Null{}, nil
}

// builtinStored lists stored names, one per line.
func builtinStored(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	s := e.Store()
	if s == nil {
		return env, value.Text{}, nil
	}
	names, err := s.Names()
	if err != nil {
		return env, value.Null{}, fmt.Errorf("stored: %w", err)
	}
	return env, value.Text{Value: strings.Join(names, "\n")}, nil
}

// builtinHistory lists the persisted values of a binding, newest (the
// current stored value) first, one per line. An optional second argument
// caps the count.
func builtinHistory(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	name, err := bindingName("history", call)
	if err != nil {
		return env, value.Null{}, err
	}
	hs, ok := e.Store().(store.HistoryStore)
	if !ok {
		return env, value.Null{}, nil
	}

	limit := 0
	if len(call.Args) > 1 {
		f, ok := value.ToNumber(call.Args[1])
		if !ok {
			return env, value.Null{}, &eval.TypeError{Op: "history", Value: call.Args[1]}
		}
		limit = int(f)
	}

	entries, err := hs.GetHistory(name, limit)
	if err != nil {
		return env, value.Null{}, fmt.Errorf("history %s: %w", name, err)
	}
	if len(entries) == 0 {
		return env, value.Null{}, nil
	}
	lines := make([]string, len(entries))
	for i, ve := range entries {
		lines[i] = ve.Value
	}
	return env, value.Text{Value: strings.Join(lines, "\n")}, nil
}
