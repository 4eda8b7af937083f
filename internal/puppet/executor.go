package puppet

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// waitDelay bounds how long Exec waits for grandchildren holding the stdout
// pipe after the puppet itself was killed.
const waitDelay = 2 * time.Second

// Request describes a single puppet spawn.
type Request struct {
	// Puppet is the script path, absolute or relative to Dir.
	Puppet string
	// Dir is the working directory of the child process.
	Dir string
	// Interpreter is the program that runs the script, e.g. "node" or
	// "node --no-warnings". Empty executes the script directly.
	Interpreter string
	// Env is added on top of the inherited environment.
	Env map[string]string
	// Stderr receives the child's stderr. Nil means os.Stderr.
	Stderr io.Writer
}

// Executor spawns puppets. Exec blocks until the child exits and returns
// everything it wrote to stdout, even when the child fails.
type Executor interface {
	Exec(ctx context.Context, req Request) (string, error)
}

// Process runs puppets as operating system processes.
type Process struct{}

// NewProcess returns an Executor backed by os/exec.
func NewProcess() *Process {
	return &Process{}
}

// Exec implements Executor.
func (p *Process) Exec(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Puppet) == "" {
		return "", fmt.Errorf("puppet path is empty")
	}

	cmd, err := buildPuppetCommand(ctx, req)
	if err != nil {
		return "", err
	}

	var stdout bytes.Buffer
	cmd.Dir = req.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = req.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	cmd.Env = mergeEnv(os.Environ(), req.Env)
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), ctxErr
		}
		return stdout.String(), err
	}
	return stdout.String(), nil
}

func buildPuppetCommand(ctx context.Context, req Request) (*exec.Cmd, error) {
	script := scriptPath(req.Puppet)

	fields := strings.Fields(req.Interpreter)
	if len(fields) == 0 {
		return exec.CommandContext(ctx, script), nil
	}

	name := fields[0]
	if !isCommandAvailable(name, req.Dir) {
		return nil, fmt.Errorf("interpreter %q not found in PATH", name)
	}
	args := append(fields[1:len(fields):len(fields)], script)
	return exec.CommandContext(ctx, name, args...), nil
}

// scriptPath makes bare file names explicit so they are not looked up in PATH.
func scriptPath(puppet string) string {
	p := filepath.FromSlash(puppet)
	if filepath.IsAbs(p) || strings.ContainsRune(p, filepath.Separator) {
		return p
	}
	return "." + string(filepath.Separator) + p
}

// mergeEnv appends extra in key order so later entries override inherited ones.
func mergeEnv(environ []string, extra map[string]string) []string {
	env := make([]string, 0, len(environ)+len(extra))
	env = append(env, environ...)
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		env = append(env, k+"="+extra[k])
	}
	return env
}

// isCommandAvailable reports whether cmdName resolves to an executable.
// Names with a path separator are checked on disk relative to dir.
func isCommandAvailable(cmdName, dir string) bool {
	if strings.ContainsRune(cmdName, filepath.Separator) || strings.ContainsRune(cmdName, '/') {
		p := filepath.FromSlash(cmdName)
		if !filepath.IsAbs(p) && dir != "" {
			p = filepath.Join(dir, p)
		}
		info, err := os.Stat(p)
		return err == nil && !info.IsDir()
	}
	_, err := exec.LookPath(cmdName)
	return err == nil
}
