package puppet

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ShellCallback turns a shell command into a callback that runs it in dir.
// Nil writers fall back to the process's own stdout and stderr.
func ShellCallback(command, dir string, stdout, stderr io.Writer) func(ctx context.Context) error {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return func(ctx context.Context) error {
		cmd := buildShellCommand(ctx, command)
		cmd.Dir = dir
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		cmd.WaitDelay = waitDelay
		if err := cmd.Run(); err != nil {
			name := extractCommandName(command)
			if name == "" {
				return err
			}
			return fmt.Errorf("%s: %w", name, err)
		}
		return nil
	}
}

// extractCommandName returns the first word of a shell command.
// Quoted expressions have no executable name and yield "".
func extractCommandName(cmdStr string) string {
	trimmed := strings.TrimSpace(cmdStr)
	if len(trimmed) == 0 {
		return ""
	}
	if trimmed[0] == '"' || trimmed[0] == '\'' {
		return ""
	}
	return strings.Fields(trimmed)[0]
}

// buildShellCommand creates a cross-platform shell command.
// On Windows it uses PowerShell by full path, elsewhere sh -c.
func buildShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return buildWindowsShellCommand(ctx, cmdStr)
	}
	return exec.CommandContext(ctx, "sh", "-c", cmdStr)
}

func buildWindowsShellCommand(ctx context.Context, cmdStr string) *exec.Cmd {
	systemRoot := os.Getenv("SYSTEMROOT")
	if systemRoot == "" {
		systemRoot = `C:\Windows`
	}
	powershellPath := filepath.Join(systemRoot, "System32", "WindowsPowerShell", "v1.0", "powershell.exe")
	return exec.CommandContext(ctx, powershellPath, "-NoProfile", "-NonInteractive", "-Command", cmdStr)
}
