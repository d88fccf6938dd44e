package eval

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"unicode"

	"fortio.org/log"

	"autonomine.net/ascript/internal/desugar"
	"autonomine.net/ascript/internal/expr"
	"autonomine.net/ascript/internal/scanner"
	"autonomine.net/ascript/internal/token"
	"autonomine.net/ascript/internal/value"
)

// DefaultMaxDepth bounds nested evaluation.
const DefaultMaxDepth = 1000

// TerminatedMessage is displayed after a script stops on an error.
const TerminatedMessage = "Script terminated."

// Evaluator interprets ascript commands.
type Evaluator struct {
	builtins     Registry
	invoker      Invoker
	reporter     Reporter
	outputWriter OutputWriter
	inputReader  InputReader
	store        Store
	ignore       string
	maxDepth     int
	loopLimit    int // 0 means unlimited
	depth        int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithBuiltins sets the builtin registry.
func WithBuiltins(r Registry) Option {
	return func(e *Evaluator) { e.builtins = r }
}

// WithInvoker sets how user-defined callables are called.
func WithInvoker(i Invoker) Option {
	return func(e *Evaluator) { e.invoker = i }
}

// WithReporter sets the diagnostic sink.
func WithReporter(r Reporter) Option {
	return func(e *Evaluator) { e.reporter = r }
}

// WithOutputWriter sets the output writer for the print builtin.
func WithOutputWriter(w OutputWriter) Option {
	return func(e *Evaluator) { e.outputWriter = w }
}

// WithInputReader sets the input reader for the input builtin.
func WithInputReader(r InputReader) Option {
	return func(e *Evaluator) { e.inputReader = r }
}

// WithStore sets the persistence store.
func WithStore(s Store) Option {
	return func(e *Evaluator) { e.store = s }
}

// WithMaxDepth bounds nested evaluation. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxDepth = n
		}
	}
}

// WithLoopLimit caps loop iterations. Zero means unlimited.
func WithLoopLimit(n int) Option {
	return func(e *Evaluator) { e.loopLimit = n }
}

// WithIgnore sets the characters the splitter drops.
func WithIgnore(chars string) Option {
	return func(e *Evaluator) { e.ignore = chars }
}

// New creates a new Evaluator with the given options.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		builtins: Builtins{},
		reporter: WriterReporter(os.Stderr),
		outputWriter: func(text string) error {
			fmt.Print(text)
			return nil
		},
		ignore:   scanner.DefaultIgnore,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetInputReader changes the input reader.
func (e *Evaluator) SetInputReader(r InputReader) {
	e.inputReader = r
}

// Output returns the output writer.
func (e *Evaluator) Output() OutputWriter { return e.outputWriter }

// Input returns the input reader, or nil.
func (e *Evaluator) Input() InputReader { return e.inputReader }

// Store returns the persistence store, or nil.
func (e *Evaluator) Store() Store { return e.store }

// LoopLimit returns the loop iteration cap (0 = unlimited).
func (e *Evaluator) LoopLimit() int { return e.loopLimit }

// Parse splits text into desugared commands.
func (e *Evaluator) Parse(text string) ([]string, error) {
	return desugar.Parse(text, scanner.WithIgnore(e.ignore))
}

// RunScript runs a whole script. Split and desugar failures are returned
// and nothing runs. A runtime error stops the script, is displayed on the
// reporter, and yields Null with the environment as mutated so far.
func (e *Evaluator) RunScript(env *Env, text string) (*Env, value.Value, error) {
	cmds, err := e.Parse(text)
	if err != nil {
		return env, value.Null{}, err
	}
	env, result, err := e.RunCommands(env, cmds)
	if err != nil {
		e.report(err)
		return env, value.Null{}, nil
	}
	return env, result, nil
}

// RunCommands runs commands in order, threading the environment, and
// returns the value of the last one. It stops at the first error.
func (e *Evaluator) RunCommands(env *Env, cmds []string) (*Env, value.Value, error) {
	var result value.Value = value.Null{}
	for _, cmd := range cmds {
		var err error
		env, result, err = e.Run(env, cmd)
		if err != nil {
			return env, value.Null{}, err
		}
	}
	return env, result, nil
}

// report displays a runtime error and the termination notice.
func (e *Evaluator) report(err error) {
	log.Errf("script terminated: %v", err)
	if e.reporter == nil {
		return
	}
	e.reporter.Display(displayMessage(err))
	e.reporter.Display(TerminatedMessage)
}

func displayMessage(err error) string {
	var ue *UndefinedError
	if errors.As(err, &ue) {
		return ue.Error() + "."
	}
	return err.Error()
}

// Run evaluates one command against env and returns the environment to
// use from then on and the command's value.
func (e *Evaluator) Run(env *Env, command string) (*Env, value.Value, error) {
	if e.depth >= e.maxDepth {
		return env, value.Null{}, &DepthError{Limit: e.maxDepth}
	}
	e.depth++
	defer func() { e.depth-- }()

	log.LogVf("run %q", command)

	// Literals
	if f, ok := value.ParseNumber(command); ok {
		return env, value.Number{Value: f}, nil
	}
	if isStringLiteral(command) {
		return env, value.Text{Value: command[1 : len(command)-1]}, nil
	}

	// Equation
	if !isAssignment(command) {
		if eq, ok := expr.Split(command); ok {
			return e.runEquation(env, eq)
		}
	}

	// Variable
	if v, ok := env.Lookup(command); ok {
		return e.resolve(env, command, v)
	}

	// Parenthesised expression
	if inner, ok := grouped(command); ok {
		return e.Run(env, inner)
	}

	return e.runStatement(env, command)
}

// runEquation evaluates both sides in order and applies the operator.
func (e *Evaluator) runEquation(env *Env, eq expr.Equation) (*Env, value.Value, error) {
	env, left, err := e.Run(env, eq.Left)
	if err != nil {
		return env, value.Null{}, err
	}
	env, right, err := e.Run(env, eq.Right)
	if err != nil {
		return env, value.Null{}, err
	}

	a, ok := value.ToNumber(left)
	if !ok {
		return env, value.Null{}, &TypeError{Op: eq.Op.Symbol, Value: left}
	}
	b, ok := value.ToNumber(right)
	if !ok {
		return env, value.Null{}, &TypeError{Op: eq.Op.Symbol, Value: right}
	}
	return env, value.Number{Value: eq.Op.Apply(a, b)}, nil
}

// resolve evaluates the stored value of name again. Text is evaluated as
// written, so a binding can hold an expression. Text that does not
// evaluate (a plain word, a sentence) stands for itself.
func (e *Evaluator) resolve(env *Env, name string, v value.Value) (*Env, value.Value, error) {
	switch v := v.(type) {
	case value.Number:
		if math.IsInf(v.Value, 0) || math.IsNaN(v.Value) {
			return env, v, nil
		}
		return e.Run(env, value.Canonical(v))
	case value.Text:
		if v.Value == "" || v.Value == name {
			return env, v, nil
		}
		next, result, err := e.Run(env, v.Value)
		if errors.Is(err, ErrUndefined) || errors.Is(err, ErrSyntax) {
			log.LogVf("%s holds text: %v", name, err)
			return env, v, nil
		}
		if err != nil {
			return next, value.Null{}, err
		}
		return next, result, nil
	}
	return env, v, nil
}

// runStatement handles assignments and calls.
func (e *Evaluator) runStatement(env *Env, command string) (*Env, value.Value, error) {
	for i, r := range command {
		switch r {
		case token.RuneAssign:
			name := command[:i]
			if name == "" {
				return env, value.Null{}, &SyntaxError{Command: command, Msg: "assignment without a name"}
			}
			env, v, err := e.Run(env, command[i+1:])
			if err != nil {
				return env, value.Null{}, err
			}
			env.Set(name, v)
			log.LogVf("set %s = %s", name, value.Canonical(v))
			return env, v, nil

		case token.RuneParenOpen:
			return e.runCall(env, command, i)
		}
	}
	return env, value.Null{}, &UndefinedError{Name: command}
}

// runCall parses name(args){block} with the parenthesis at open.
func (e *Evaluator) runCall(env *Env, command string, open int) (*Env, value.Value, error) {
	name := command[:open]
	closeIdx := scanner.MatchParen(command, open)
	if closeIdx < 0 {
		return env, value.Null{}, &SyntaxError{Command: command, Msg: "unclosed parenthesis"}
	}

	call := Call{
		Name: name,
		Raw:  scanner.SplitParams(command[open:]),
	}

	end := closeIdx + 1
	if end < len(command) && command[end] == token.RuneBlockOpen {
		body, next, ok := scanner.Subscript(command, end)
		if !ok {
			return env, value.Null{}, &SyntaxError{Command: command, Msg: "unclosed block"}
		}
		call.Block = body
		call.HasBlock = true
		end = next
	}
	if end < len(command) {
		return env, value.Null{}, &SyntaxError{Command: command, Msg: fmt.Sprintf("unexpected %q after call", command[end:])}
	}

	builtin, isBuiltin := e.lookupBuiltin(name)
	if !isBuiltin || !builtin.Raw {
		var err error
		env, call.Args, err = e.evalArgs(env, call.Raw)
		if err != nil {
			return env, value.Null{}, err
		}
	}

	if isBuiltin {
		log.LogVf("call builtin %s with %d args", name, len(call.Raw))
		return builtin.Fn(e, env, call)
	}

	if v, ok := env.Lookup(name); ok {
		if fn, ok := v.(value.Callable); ok && e.invoker != nil {
			log.LogVf("call %s with %d args", name, len(call.Args))
			return e.invoker.Invoke(e, env, fn, call.Args)
		}
	}
	return env, value.Null{}, &UndefinedError{Name: name}
}

func (e *Evaluator) lookupBuiltin(name string) (Builtin, bool) {
	if e.builtins == nil {
		return Builtin{}, false
	}
	return e.builtins.Lookup(name)
}

// evalArgs evaluates arguments left to right on the threaded environment.
func (e *Evaluator) evalArgs(env *Env, raw []string) (*Env, []value.Value, error) {
	args := make([]value.Value, 0, len(raw))
	for _, r := range raw {
		var v value.Value
		var err error
		env, v, err = e.Run(env, r)
		if err != nil {
			return env, nil, err
		}
		args = append(args, v)
	}
	return env, args, nil
}

// isStringLiteral reports whether command is exactly one quoted string.
func isStringLiteral(command string) bool {
	return value.IsQuoted(command) && strings.Count(command, string(token.RuneQuote)) == 2
}

// isAssignment reports whether command starts with name= (but not name==).
// Assignment binds looser than every operator so x=x+1 updates x.
func isAssignment(command string) bool {
	for i, r := range command {
		if r == token.RuneAssign {
			return i > 0 && !strings.HasPrefix(command[i+1:], string(token.RuneAssign))
		}
		if !isIdentRune(r) {
			return false
		}
	}
	return false
}

// isIdentRune returns true if the rune is valid in an identifier (letter, digit, underscore).
func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// grouped returns the inside of a command wrapped in one pair of parentheses.
func grouped(command string) (string, bool) {
	if len(command) < 2 || command[0] != token.RuneParenOpen {
		return "", false
	}
	if scanner.MatchParen(command, 0) != len(command)-1 {
		return "", false
	}
	return command[1 : len(command)-1], true
}
