package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"fortio.org/log"
	"github.com/peterh/liner"
	"golang.org/x/term"

	"autonomine.net/ascript/pkg/ascript"
)

const (
	promptMain  = "ascript> "
	promptCont  = "...      "
	historyFile = ".ascript_history"
)

const helpText = `Commands:
  :help          show this help
  :names         list bound names
  :load <file>   run a file in this session
  :quit          exit (Ctrl+D also works)
`

// historyPath returns configured when set, else the history file in the
// home directory.
func historyPath(configured string) string {
	if configured != "" {
		return configured
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return historyFile
	}
	return filepath.Join(home, historyFile)
}

// promptFunc reads one line after showing prompt.
type promptFunc func(prompt string) (string, error)

func runREPL(runtime *ascript.Runtime, histPath string, stdin *os.File, stdout, stderr io.Writer) {
	// Load __startup__ from the store and run it if it is callable
	if _, err := runtime.Eval(`load("` + startupName + `")`); err != nil {
		log.Warnf("load %s: %v", startupName, err)
	}
	if _, err := runStartup(runtime); err != nil {
		fmt.Fprintf(stderr, "Error in %s: %v\n", startupName, err)
	}

	fmt.Fprintln(stdout, "ascript REPL (Ctrl+D to exit, :help for commands)")

	if !term.IsTerminal(int(stdin.Fd())) {
		runBasicREPL(runtime, stdin, stdout)
		return
	}

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	runtime.SetInputReader(func(prompt string) (string, error) {
		return ln.Prompt(prompt)
	})

	loop(runtime, ln.Prompt, stdout, func(code string) {
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	})

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	} else {
		log.Warnf("write history %s: %v", histPath, err)
	}
}

// runBasicREPL handles non-TTY input.
func runBasicREPL(runtime *ascript.Runtime, in io.Reader, out io.Writer) {
	reader := bufio.NewReader(in)
	read := func(prompt string) (string, error) {
		fmt.Fprint(out, prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	runtime.SetInputReader(read)
	loop(runtime, read, out, nil)
}

func loop(runtime *ascript.Runtime, read promptFunc, out io.Writer, remember func(string)) {
	for {
		code, ok := readByParseProbe(runtime, read, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			if handleCommand(runtime, trimmed, out) {
				return
			}
			continue
		}
		evalInput(runtime, code, out)
		if remember != nil {
			remember(code)
		}
	}
}

// readByParseProbe reads lines until the buffer no longer ends inside a
// block or string. Other parse errors return the buffer so evaluation
// reports them.
func readByParseProbe(runtime *ascript.Runtime, read promptFunc, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := read(p)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := runtime.Parse(src); perr != nil && ascript.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}

// handleCommand runs a ':' command and reports whether the REPL should exit.
func handleCommand(runtime *ascript.Runtime, line string, out io.Writer) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":exit":
		return true
	case ":help":
		fmt.Fprint(out, helpText)
	case ":names":
		for _, name := range runtime.Names() {
			fmt.Fprintln(out, name)
		}
	case ":load":
		if len(fields) < 2 {
			fmt.Fprintln(out, "usage: :load <file>")
			return false
		}
		result, err := runtime.EvalFile(fields[1])
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return false
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	default:
		fmt.Fprintln(out, "unknown command. Type :help for help.")
	}
	return false
}

func evalInput(runtime *ascript.Runtime, code string, out io.Writer) {
	result, err := runtime.Eval(code)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return
	}
	if result != "" {
		fmt.Fprintln(out, result)
	}
}
