package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"autonomine.net/ascript/pkg/ascript"
)

// stdinFile returns a regular file holding content, so run treats it as
// piped input.
func stdinFile(t *testing.T, content string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stdin")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write stdin: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open stdin: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut strings.Builder
	code = run(args, stdinFile(t, stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRunEval(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-memory", "-e", "x = 20\nx * 2 + 2")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "42\n" {
		t.Errorf("expected '42\\n', got %q", out)
	}
}

func TestRunEvalLoadError(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-memory", "-e", "else{x=1}")
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.HasPrefix(errOut, "Error: ") {
		t.Errorf("expected an error message, got %q", errOut)
	}
}

func TestRunFileWithStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.as")
	src := "greeting = \"hello\"\ndef __startup__() {\n\tprint(greeting, \" from startup\")\n}\n"
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	code, out, errOut := runCLI(t, "", "-memory", "-no-prelude", "-f", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "hello from startup\n" {
		t.Errorf("expected startup output, got %q", out)
	}
}

func TestRunMissingFile(t *testing.T) {
	code, _, errOut := runCLI(t, "", "-memory", "-f", filepath.Join(t.TempDir(), "nope.as"))
	if code != 1 {
		t.Errorf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "Error loading file") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunPipedInput(t *testing.T) {
	code, out, errOut := runCLI(t, "total = 0\nfor(i = 1, i <= 4, i = i + 1) {\n\ttotal = total + i\n}\ntotal\n", "-memory")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "10\n" {
		t.Errorf("expected '10\\n', got %q", out)
	}
}

func TestRunRuntimeErrorIsReported(t *testing.T) {
	code, out, errOut := runCLI(t, "", "-memory", "-e", "missing()")
	if code != 0 {
		t.Fatalf("runtime errors do not change the exit code, got %d", code)
	}
	if out != "" {
		t.Errorf("expected no result, got %q", out)
	}
	if !strings.Contains(errOut, `"missing" is undefined.`) || !strings.Contains(errOut, "Script terminated.") {
		t.Errorf("unexpected stderr %q", errOut)
	}
}

func TestRunLoopLimitFlag(t *testing.T) {
	_, _, errOut := runCLI(t, "", "-memory", "-loop-limit", "5", "-e", "while(1){}")
	if !strings.Contains(errOut, "5") {
		t.Errorf("expected a loop limit report, got %q", errOut)
	}
}

func TestRunConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ascript.yaml")
	if err := os.WriteFile(cfgPath, []byte("memory: true\nno_prelude: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, out, _ := runCLI(t, "", "-config", cfgPath, "-e", "max(1, 2)")
	if out != "" {
		t.Errorf("expected max to be undefined without the prelude, got %q", out)
	}

	// Flags win over the file
	code, out, errOut := runCLI(t, "", "-config", cfgPath, "-no-prelude=false", "-e", "max(1, 2)")
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "2\n" {
		t.Errorf("expected '2\\n', got %q", out)
	}
}

func TestRunBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(cfgPath, []byte("bogus: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	code, _, errOut := runCLI(t, "", "-config", cfgPath, "-e", "1")
	if code != 1 || !strings.Contains(errOut, "config: parse") {
		t.Errorf("expected a config error, got %d %q", code, errOut)
	}
}

func TestRunInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "init.yaml")
	code, _, errOut := runCLI(t, "", "-init-config", path)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	cfg, err := ascript.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if *cfg != *ascript.DefaultConfig() {
		t.Errorf("expected the default config, got %+v", cfg)
	}
}

func TestRunSQLitePersistence(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")
	if code, _, errOut := runCLI(t, "", "-db", db, "-e", "n = 5\npersist(\"n\")"); code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	code, out, errOut := runCLI(t, "", "-db", db, "-e", `load("n") + 1`)
	if code != 0 {
		t.Fatalf("exit %d, stderr %q", code, errOut)
	}
	if out != "6\n" {
		t.Errorf("expected '6\\n', got %q", out)
	}
}

func TestBasicREPL(t *testing.T) {
	r := ascript.New(ascript.WithMemoryStore(), ascript.WithNoPrelude())
	defer r.Close()

	in := strings.NewReader("x = 4\ndef sq(n) {\n\treturn = n * n\n}\nsq(x)\n:names\n:quit\nx\n")
	var out strings.Builder
	runBasicREPL(r, in, &out)

	got := out.String()
	if !strings.Contains(got, promptCont) {
		t.Errorf("expected a continuation prompt, got %q", got)
	}
	if !strings.Contains(got, "16\n") {
		t.Errorf("expected sq(x) = 16, got %q", got)
	}
	if !strings.Contains(got, "sq\n") {
		t.Errorf("expected :names to list sq, got %q", got)
	}
	if strings.Count(got, "4\n") != 1 {
		t.Errorf("expected input after :quit to be ignored, got %q", got)
	}
}

func TestBasicREPLReportsErrors(t *testing.T) {
	r := ascript.New(ascript.WithMemoryStore(), ascript.WithNoPrelude())
	defer r.Close()

	var out strings.Builder
	runBasicREPL(r, strings.NewReader("else{y=1}\n:bogus\n"), &out)

	got := out.String()
	if !strings.Contains(got, "Error: ") {
		t.Errorf("expected an error line, got %q", got)
	}
	if !strings.Contains(got, "unknown command") {
		t.Errorf("expected an unknown command message, got %q", got)
	}
}

func TestHistoryPath(t *testing.T) {
	if got := historyPath("/tmp/custom"); got != "/tmp/custom" {
		t.Errorf("expected the configured path, got %q", got)
	}
	if got := historyPath(""); filepath.Base(got) != historyFile {
		t.Errorf("expected the default history file, got %q", got)
	}
}
