// Package stdlib provides the ascript builtin library, the callable
// invoker and the prelude.
package stdlib

import (
	_ "embed"
	"strings"
	"unicode/utf8"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/value"
)

// Prelude is ascript source loaded into every new runtime unless disabled.
//
//go:embed prelude.as
var Prelude string

// Registry returns a fresh registry holding every builtin.
func Registry() eval.Builtins {
	b := eval.Builtins{}

	b.Register("print", builtinPrint)
	b.Register("def", builtinDef)
	b.Register("input", builtinInput)
	b.Register("str", builtinStr)
	b.Register("num", builtinNum)
	b.Register("len", builtinLen)
	b.Register("cat", builtinCat)

	// Control flow
	b.Register("if", builtinIf)
	b.Register("!", builtinNot)
	b.RegisterRaw("for", builtinFor)
	b.RegisterRaw("while", builtinWhile)

	// Persistence
	b.Register("persist", builtinPersist)
	b.Register("load", builtinLoad)
	b.Register("forget", builtinForget)
	b.Register("stored", builtinStored)
	b.Register("history", builtinHistory)

	return b
}

// Options returns the evaluator options that install the library.
func Options() []eval.Option {
	return []eval.Option{
		eval.WithBuiltins(Registry()),
		eval.WithInvoker(Invoker{}),
	}
}

func arg(call eval.Call, i int) value.Value {
	if i < len(call.Args) {
		return call.Args[i]
	}
	return value.Null{}
}

func builtinPrint(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	var sb strings.Builder
	for _, a := range call.Args {
		sb.WriteString(a.String())
	}
	sb.WriteString("\n")

	if out := e.Output(); out != nil {
		if err := out(sb.String()); err != nil {
			return env, value.Null{}, err
		}
	}
	return env, value.Null{}, nil
}

// builtinDef binds def("name","p1",...){body} to a callable.
func builtinDef(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	names := make([]string, 0, len(call.Args))
	for _, a := range call.Args {
		t, ok := a.(value.Text)
		if !ok || t.Value == "" {
			return env, value.Null{}, &eval.TypeError{Op: "def", Value: a, Want: "a name"}
		}
		names = append(names, t.Value)
	}
	if len(names) == 0 {
		return env, value.Null{}, &eval.SyntaxError{Command: "def()", Msg: "def without a name"}
	}

	fn := value.Callable{Fn: &value.Function{
		Name:   names[0],
		Params: names[1:],
		Body:   call.Block,
	}}
	env.Set(fn.Fn.Name, fn)
	return env, fn, nil
}

func builtinInput(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	read := e.Input()
	if read == nil {
		return env, value.Null{}, nil
	}
	line, err := read(arg(call, 0).String())
	if err != nil {
		return env, value.Null{}, err
	}
	return env, value.Text{Value: strings.TrimRight(line, "\r\n")}, nil
}

func builtinStr(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	return env, value.Text{Value: arg(call, 0).String()}, nil
}

func builtinNum(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	v := arg(call, 0)
	f, ok := value.ToNumber(v)
	if !ok {
		return env, value.Null{}, &eval.TypeError{Op: "num", Value: v}
	}
	return env, value.Number{Value: f}, nil
}

func builtinLen(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	n := utf8.RuneCountInString(arg(call, 0).String())
	return env, value.Number{Value: float64(n)}, nil
}

func builtinCat(e *eval.Evaluator, env *eval.Env, call eval.Call) (*eval.Env, value.Value, error) {
	var sb strings.Builder
	for _, a := range call.Args {
		sb.WriteString(a.String())
	}
	return env, value.Text{Value: sb.String()}, nil
}
