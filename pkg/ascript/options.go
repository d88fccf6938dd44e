package ascript

import (
	"io"

	"fortio.org/log"

	"autonomine.net/ascript/internal/eval"
	"autonomine.net/ascript/internal/store"
	"autonomine.net/ascript/internal/value"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithSQLiteStore configures SQLite persistence at the given path. If the
// database cannot be opened the runtime runs without persistence.
func WithSQLiteStore(path string) Option {
	return func(r *Runtime) {
		s, err := store.NewSQLite(path)
		if err != nil {
			log.Errf("sqlite store %s: %v", path, err)
			return
		}
		r.store = s
	}
}

// WithMemoryStore configures an in-memory store (for testing).
func WithMemoryStore() Option {
	return func(r *Runtime) {
		r.store = store.NewMemory()
	}
}

// WithStore configures a custom store.
func WithStore(s Store) Option {
	return func(r *Runtime) {
		r.store = s
	}
}

// WithInputReader sets the input reader for the input builtin.
func WithInputReader(reader func(prompt string) (string, error)) Option {
	return func(r *Runtime) {
		r.inputReader = reader
	}
}

// WithOutputWriter sets the output writer for the print builtin.
func WithOutputWriter(writer func(text string) error) Option {
	return func(r *Runtime) {
		r.outputWriter = writer
	}
}

// WithOutput sets the io.Writer for output.
func WithOutput(w io.Writer) Option {
	return func(r *Runtime) {
		r.outputWriter = func(text string) error {
			_, err := w.Write([]byte(text))
			return err
		}
	}
}

// WithReporter sets where runtime error messages are displayed. The
// default is standard error.
func WithReporter(w io.Writer) Option {
	return func(r *Runtime) {
		r.reporter = eval.WriterReporter(w)
	}
}

// WithReporterFunc sets a function that receives runtime error messages.
func WithReporterFunc(fn func(msg string)) Option {
	return func(r *Runtime) {
		r.reporter = eval.ReporterFunc(fn)
	}
}

// WithMaxDepth bounds nested evaluation.
func WithMaxDepth(n int) Option {
	return func(r *Runtime) {
		r.maxDepth = n
	}
}

// WithLoopLimit caps loop iterations. Zero means unlimited.
func WithLoopLimit(n int) Option {
	return func(r *Runtime) {
		r.loopLimit = n
	}
}

// WithIgnore sets the characters dropped while splitting scripts.
func WithIgnore(chars string) Option {
	return func(r *Runtime) {
		r.ignore = chars
	}
}

// WithPrelude sets a custom prelude source to be loaded on startup.
// If not set, DefaultPrelude is used.
func WithPrelude(source string) Option {
	return func(r *Runtime) {
		r.prelude = source
	}
}

// WithNoPrelude disables loading the prelude.
func WithNoPrelude() Option {
	return func(r *Runtime) {
		r.noPrelude = true
	}
}

// Store interface for custom stores.
type Store = eval.Store

// Value is an ascript value.
type Value = value.Value

// Value kinds.
type (
	Null     = value.Null
	Number   = value.Number
	Text     = value.Text
	Callable = value.Callable
)
