package eval

import (
	"fmt"
	"io"

	"autonomine.net/ascript/internal/value"
)

// Call carries one call site to a builtin.
type Call struct {
	Name     string
	Args     []value.Value // Evaluated arguments; nil for raw builtins
	Raw      []string      // Argument source text
	Block    string        // Text between the braces following the call
	HasBlock bool
}

// BuiltinFunc is the signature for builtin functions. The returned Env is
// the caller's environment from then on.
type BuiltinFunc func(e *Evaluator, env *Env, call Call) (*Env, value.Value, error)

// Builtin is a registered builtin. Raw builtins receive their arguments
// unevaluated in Call.Raw.
type Builtin struct {
	Fn  BuiltinFunc
	Raw bool
}

// Registry resolves builtin names. An unknown name is not an error.
type Registry interface {
	Lookup(name string) (Builtin, bool)
}

// Builtins is a map-backed Registry.
type Builtins map[string]Builtin

// Lookup returns the builtin registered under the exact name.
func (b Builtins) Lookup(name string) (Builtin, bool) {
	fn, ok := b[name]
	return fn, ok
}

// Register adds a builtin with evaluated arguments.
func (b Builtins) Register(name string, fn BuiltinFunc) {
	b[name] = Builtin{Fn: fn}
}

// RegisterRaw adds a builtin that receives argument source text.
func (b Builtins) RegisterRaw(name string, fn BuiltinFunc) {
	b[name] = Builtin{Fn: fn, Raw: true}
}

// Invoker calls user-defined callables.
type Invoker interface {
	Invoke(e *Evaluator, env *Env, fn value.Callable, args []value.Value) (*Env, value.Value, error)
}

// InvokerFunc adapts a function to Invoker.
type InvokerFunc func(e *Evaluator, env *Env, fn value.Callable, args []value.Value) (*Env, value.Value, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(e *Evaluator, env *Env, fn value.Callable, args []value.Value) (*Env, value.Value, error) {
	return f(e, env, fn, args)
}

// Reporter displays user-facing error messages.
type Reporter interface {
	Display(msg string)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(msg string)

// Display calls f.
func (f ReporterFunc) Display(msg string) { f(msg) }

// WriterReporter displays messages as lines on w.
func WriterReporter(w io.Writer) Reporter {
	return ReporterFunc(func(msg string) {
		fmt.Fprintln(w, msg)
	})
}

// OutputWriter writes output (for the print builtin).
type OutputWriter func(text string) error

// InputReader reads user input (for the input builtin).
type InputReader func(prompt string) (string, error)

// Store is the interface for binding persistence.
type Store interface {
	Get(name string) (string, bool, error)
	Put(name, text string) error
	Delete(name string) error
	Names() ([]string, error)
	Close() error
}
