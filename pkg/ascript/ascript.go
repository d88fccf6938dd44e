// Package ascript provides the public API for the ascript interpreter.
package ascript

import (
	"errors"
	"io"
	"os"

	"fortio.org/log"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/scanner"
	"autonomine.net/ascript/internal/stdlib"
	"autonomine.net/ascript/internal/value"
)

// PreludeKey is the stored name whose text, when present, replaces the
// default prelude.
const PreludeKey = "__prelude__"

// Runtime is the ascript interpreter runtime. It owns one root environment
// that persists across calls to Exec.
type Runtime struct {
	evaluator    *eval.Evaluator
	env          *eval.Env
	store        Store
	inputReader  func(prompt string) (string, error)
	outputWriter func(text string) error
	reporter     eval.Reporter
	maxDepth     int
	loopLimit    int
	ignore       string
	prelude      string // Custom prelude source (if empty, uses DefaultPrelude)
	noPrelude    bool
}

// New creates a new ascript runtime with the given options.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		env: eval.NewEnv(),
	}

	for _, opt := range opts {
		opt(r)
	}

	// Build evaluator options
	evalOpts := stdlib.Options()
	if r.store != nil {
		evalOpts = append(evalOpts, eval.WithStore(r.store))
	}
	if r.inputReader != nil {
		evalOpts = append(evalOpts, eval.WithInputReader(r.inputReader))
	}
	if r.outputWriter != nil {
		evalOpts = append(evalOpts, eval.WithOutputWriter(r.outputWriter))
	}
	if r.reporter != nil {
		evalOpts = append(evalOpts, eval.WithReporter(r.reporter))
	}
	if r.ignore != "" {
		evalOpts = append(evalOpts, eval.WithIgnore(r.ignore))
	}
	evalOpts = append(evalOpts,
		eval.WithMaxDepth(r.maxDepth),
		eval.WithLoopLimit(r.loopLimit),
	)

	r.evaluator = eval.New(evalOpts...)

	// Load prelude unless disabled
	if !r.noPrelude {
		prelude := r.prelude
		if prelude == "" {
			prelude = DefaultPrelude
		}

		// Check for database override
		if r.store != nil {
			if text, ok, err := r.store.Get(PreludeKey); err == nil && ok && value.IsQuoted(text) {
				prelude = text[1 : len(text)-1]
			}
		}

		if _, err := r.Exec(prelude); err != nil {
			log.Warnf("prelude failed to load: %v", err)
		}
	}

	return r
}

// Exec runs a script and returns the value of its last command. Scripts
// that fail to split or desugar return an error and run nothing. Runtime
// errors are displayed on the reporter and yield Null.
func (r *Runtime) Exec(src string) (Value, error) {
	env, v, err := r.evaluator.RunScript(r.env, src)
	r.env = env
	return v, err
}

// Eval runs a script and returns the display form of its value.
func (r *Runtime) Eval(src string) (string, error) {
	v, err := r.Exec(src)
	if err != nil {
		return "", err
	}
	return v.String(), nil
}

// EvalReader evaluates ascript from a reader.
func (r *Runtime) EvalReader(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return r.Eval(string(data))
}

// EvalFile evaluates an ascript file.
func (r *Runtime) EvalFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return r.EvalReader(f)
}

// Parse splits and desugars src without running it.
func (r *Runtime) Parse(src string) ([]string, error) {
	return r.evaluator.Parse(src)
}

// IsIncomplete reports whether err means the source ended inside a block
// or string, so more input could complete it.
func IsIncomplete(err error) bool {
	return errors.Is(err, scanner.ErrIncomplete)
}

// Get returns the value bound to name, or Null.
func (r *Runtime) Get(name string) Value {
	return r.env.Get(name)
}

// Set binds name in the root environment.
func (r *Runtime) Set(name string, v Value) {
	r.env.Set(name, v)
}

// Names returns the names bound in the root environment, sorted.
func (r *Runtime) Names() []string {
	return r.env.Keys()
}

// Close releases resources.
func (r *Runtime) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

// SetInputReader changes the input reader for the input builtin.
func (r *Runtime) SetInputReader(reader func(prompt string) (string, error)) {
	r.inputReader = reader
	r.evaluator.SetInputReader(reader)
}
