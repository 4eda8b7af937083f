package puppet

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell-script puppets need a POSIX shell")
	}
}

// writeScript writes an executable sh script into dir and returns its name.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return name
}

func TestProcess_Exec_CapturesStdout(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "ok.sh", "echo 'puppetPerformance: 10'\n")

	out, err := NewProcess().Exec(context.Background(), Request{Puppet: name, Dir: dir, Interpreter: "sh"})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if out != "puppetPerformance: 10\n" {
		t.Errorf("Exec() = %q, want %q", out, "puppetPerformance: 10\n")
	}
}

// Not parallel: exec of a freshly written file races with forks from other
// tests that may inherit its write descriptor (ETXTBSY).
func TestProcess_Exec_DirectWithoutInterpreter(t *testing.T) {
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "direct.sh", "echo direct\n")

	out, err := NewProcess().Exec(context.Background(), Request{Puppet: name, Dir: dir})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if strings.TrimSpace(out) != "direct" {
		t.Errorf("Exec() = %q, want %q", out, "direct\n")
	}
}

func TestProcess_Exec_InterpreterWithArgs(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "flags.sh", "echo \"$-\"\n")

	out, err := NewProcess().Exec(context.Background(), Request{Puppet: name, Dir: dir, Interpreter: "sh -e"})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if !strings.Contains(out, "e") {
		t.Errorf("Exec() = %q, want shell flags to include e", out)
	}
}

func TestProcess_Exec_WorkingDirectory(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "tasks"), 0755); err != nil {
		t.Fatal(err)
	}
	writeScript(t, filepath.Join(dir, "tasks"), "where.sh", "pwd\n")

	out, err := NewProcess().Exec(context.Background(), Request{Puppet: "tasks/where.sh", Dir: dir, Interpreter: "sh"})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	got, _ := filepath.EvalSymlinks(strings.TrimSpace(out))
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("puppet cwd = %q, want %q", got, want)
	}
}

func TestProcess_Exec_Env(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "env.sh", "echo \"$THEATER_PUPPET#$THEATER_ATTEMPT\"\n")

	out, err := NewProcess().Exec(context.Background(), Request{
		Puppet:      name,
		Dir:         dir,
		Interpreter: "sh",
		Env:         map[string]string{"THEATER_PUPPET": "env.sh", "THEATER_ATTEMPT": "2"},
	})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if strings.TrimSpace(out) != "env.sh#2" {
		t.Errorf("Exec() = %q, want %q", out, "env.sh#2")
	}
}

func TestProcess_Exec_StderrPassthrough(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "noisy.sh", "echo out\necho err >&2\n")

	var stderr bytes.Buffer
	out, err := NewProcess().Exec(context.Background(), Request{Puppet: name, Dir: dir, Interpreter: "sh", Stderr: &stderr})
	if err != nil {
		t.Fatalf("Exec() error = %v", err)
	}
	if strings.TrimSpace(out) != "out" {
		t.Errorf("stdout = %q, want %q", out, "out\n")
	}
	if strings.TrimSpace(stderr.String()) != "err" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "err\n")
	}
}

func TestProcess_Exec_NonZeroExit(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "crash.sh", "echo partial\nexit 3\n")

	out, err := NewProcess().Exec(context.Background(), Request{Puppet: name, Dir: dir, Interpreter: "sh"})
	if err == nil {
		t.Fatal("Exec() expected error for non-zero exit")
	}
	if !strings.Contains(err.Error(), "exit status 3") {
		t.Errorf("Exec() error = %v, want exit status 3", err)
	}
	if strings.TrimSpace(out) != "partial" {
		t.Errorf("Exec() stdout = %q, want partial output kept", out)
	}
}

func TestProcess_Exec_MissingInterpreter(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := NewProcess().Exec(context.Background(), Request{Puppet: "x.js", Dir: dir, Interpreter: "nonexistent-interpreter-xyz-12345"})
	if err == nil {
		t.Fatal("Exec() expected error for missing interpreter")
	}
	if !strings.Contains(err.Error(), "not found in PATH") {
		t.Errorf("Exec() error = %v, want not found in PATH", err)
	}
}

func TestProcess_Exec_EmptyPuppet(t *testing.T) {
	t.Parallel()
	if _, err := NewProcess().Exec(context.Background(), Request{Dir: t.TempDir()}); err == nil {
		t.Error("Exec() expected error for empty puppet path")
	}
}

func TestProcess_Exec_ContextCancellation(t *testing.T) {
	t.Parallel()
	skipOnWindows(t)
	dir := t.TempDir()
	name := writeScript(t, dir, "slow.sh", "sleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewProcess().Exec(ctx, Request{Puppet: name, Dir: dir, Interpreter: "sh"})
	elapsed := time.Since(start)

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Exec() error = %v, want context.DeadlineExceeded", err)
	}
	if elapsed > 5*time.Second {
		t.Errorf("Exec() took %v, expected to abort quickly", elapsed)
	}
}

func TestScriptPath(t *testing.T) {
	t.Parallel()
	sep := string(filepath.Separator)
	tests := []struct {
		input, want string
	}{
		{"a.js", "." + sep + "a.js"},
		{"tasks/a.js", filepath.FromSlash("tasks/a.js")},
	}
	for _, tt := range tests {
		if got := scriptPath(tt.input); got != tt.want {
			t.Errorf("scriptPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestMergeEnv_LaterEntriesWin(t *testing.T) {
	t.Parallel()
	env := mergeEnv([]string{"A=1"}, map[string]string{"B": "2", "A": "3"})
	want := []string{"A=1", "A=3", "B=2"}
	if strings.Join(env, ",") != strings.Join(want, ",") {
		t.Errorf("mergeEnv() = %v, want %v", env, want)
	}
}

func TestIsCommandAvailable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		if !isCommandAvailable("cmd", "") {
			t.Error("isCommandAvailable(cmd) = false, want true on Windows")
		}
	} else if !isCommandAvailable("sh", "") {
		t.Error("isCommandAvailable(sh) = false, want true on Unix")
	}
	if isCommandAvailable("nonexistent-command-xyz-12345", "") {
		t.Error("isCommandAvailable(nonexistent-command) = true, want false")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "run"), []byte("x"), 0755); err != nil {
		t.Fatal(err)
	}
	if !isCommandAvailable("./run", dir) {
		t.Error("isCommandAvailable(./run) = false, want true relative to dir")
	}
}
