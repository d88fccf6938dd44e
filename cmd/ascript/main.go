// Command ascript is the ascript interpreter CLI.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"fortio.org/log"

	"autonomine.net/ascript/pkg/ascript"
)

// startupName is the callable run after a file loads and before the REPL.
const startupName = "__startup__"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("ascript", flag.ContinueOnError)
	flags.SetOutput(stderr)
	var (
		evalStr    = flags.String("e", "", "Evaluate ascript string")
		file       = flags.String("f", "", "Execute ascript file")
		dbPath     = flags.String("db", "", "SQLite database path (default ascript.db)")
		memory     = flags.Bool("memory", false, "Use an in-memory store instead of SQLite")
		configPath = flags.String("config", "", "YAML config file (default ascript.yaml if present)")
		maxDepth   = flags.Int("max-depth", 0, "Maximum evaluation depth")
		loopLimit  = flags.Int("loop-limit", 0, "Maximum loop iterations (0 = unlimited)")
		noPrelude  = flags.Bool("no-prelude", false, "Disable the prelude")
		initConfig = flags.String("init-config", "", "Write the default config to this path and exit")
		verbose    = flags.Bool("v", false, "Verbose logging")
		debug      = flags.Bool("debug", false, "Debug logging")
	)

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *initConfig != "" {
		if err := ascript.WriteConfig(ascript.DefaultConfig(), *initConfig); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	// Explicit flags override the config file
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			cfg.DB = *dbPath
			cfg.Memory = false
		case "memory":
			cfg.Memory = *memory
		case "max-depth":
			cfg.MaxDepth = *maxDepth
		case "loop-limit":
			cfg.LoopLimit = *loopLimit
		case "no-prelude":
			cfg.NoPrelude = *noPrelude
		case "v":
			cfg.Verbose = *verbose
		}
	})

	switch {
	case *debug:
		log.SetLogLevel(log.Debug)
	case cfg.Verbose:
		log.SetLogLevel(log.Verbose)
	default:
		log.SetLogLevel(log.Warning)
	}

	// Create the stdin reader once and reuse it across input calls
	stdinReader := bufio.NewReader(stdin)
	opts := append(cfg.Options(),
		ascript.WithOutput(stdout),
		ascript.WithReporter(stderr),
		ascript.WithInputReader(func(prompt string) (string, error) {
			if prompt != "" {
				fmt.Fprint(stdout, prompt)
			}
			return stdinReader.ReadString('\n')
		}),
	)

	runtime := ascript.New(opts...)
	defer runtime.Close()

	var result string

	// Step 1: load the file
	if *file != "" {
		if _, err = runtime.EvalFile(*file); err != nil {
			fmt.Fprintf(stderr, "Error loading file: %v\n", err)
			return 1
		}
	}

	// Step 2: run -e (before __startup__)
	if *evalStr != "" {
		if result, err = runtime.Eval(*evalStr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if result != "" {
			fmt.Fprintln(stdout, result)
		}
	}

	// Step 3: determine main execution
	switch {
	case *file != "":
		result, err = runStartup(runtime)

	case *evalStr != "":
		return 0

	case !isTerminal(stdin):
		input, readErr := io.ReadAll(stdinReader)
		if readErr != nil {
			fmt.Fprintf(stderr, "Error reading stdin: %v\n", readErr)
			return 1
		}
		result, err = runtime.Eval(string(input))
		if err == nil {
			var startup string
			if startup, err = runStartup(runtime); startup != "" {
				result = startup
			}
		}

	default:
		runREPL(runtime, historyPath(cfg.History), stdin, stdout, stderr)
		return 0
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if result != "" {
		fmt.Fprintln(stdout, result)
	}
	return 0
}

// loadConfig reads path, or the default config file when path is empty
// and the file exists.
func loadConfig(path string) (*ascript.Config, error) {
	if path != "" {
		return ascript.LoadConfig(path)
	}
	if _, err := os.Stat(ascript.DefaultConfigFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ascript.DefaultConfig(), nil
		}
		return nil, err
	}
	return ascript.LoadConfig(ascript.DefaultConfigFile)
}

// runStartup calls the startup callable when one is bound.
func runStartup(runtime *ascript.Runtime) (string, error) {
	if _, ok := runtime.Get(startupName).(ascript.Callable); !ok {
		return "", nil
	}
	log.Infof("running %s", startupName)
	return runtime.Eval(startupName + "()")
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
