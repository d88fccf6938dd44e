// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

// Package eval implements the ascript evaluator.
package eval

import (
	"sort"

	"autonomine.net/ascript/internal/value"
)

// Env maps variable names to values. An Env is owned by a single
// evaluation and is not safe for concurrent use.
type Env struct {
	vars map[string]value.Value
}

// NewEnv creates a new empty environment.
func NewEnv() *Env {
	return &Env{
		vars: make(map[string]value.Value),
	}
}

// Get retrieves a value by name. Returns Null if not found.
func (e *Env) Get(name string) value.Value {
	if v, ok := e.vars[name]; ok {
		return v
	}
	return value.Null{}
}

// Lookup retrieves a value by name and reports whether it is bound.
func (e *Env) Lookup(name string) (value.Value, bool) {
	v, ok := e.vars[name]
	return v, ok
}

// Set binds a name.
func (e *Env) Set(name string, v value.Value) {
	e.vars[name] = v
}

// Has returns true if the name is bound.
func (e *Env) Has(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// Len returns the number of bindings.
func (e *Env) Len() int {
	return len(e.vars)
}

// Keys returns the bound names in sorted order.
func (e *Env) Keys() []string {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Fork creates a copy holding every current binding.
func (e *Env) Fork() *Env {
	fork := &Env{vars: make(map[string]value.Value, len(e.vars))}
	for k, v := range e.vars {
		fork.vars[k] = v
	}
	return fork
}

// MergeBack copies the final values of inner into e, but only for keys e
// held before the fork. Keys created in inner are dropped. Keys for which
// skip returns true keep their current value in e.
func (e *Env) MergeBack(inner *Env, skip func(name string) bool) {
	keys := make([]string, 0, len(e.vars))
	for k := range e.vars {
		keys = append(keys, k)
	}
	for _, k := range keys {
		if skip != nil && skip(k) {
			continue
		}
		if v, ok := inner.vars[k]; ok {
			e.vars[k] = v
		}
	}
}
