// Package cli provides command-line interface functionality for theater.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AndreyAkinshin/theater/internal/config"
	"github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
// Without a command, run is assumed.
func Run(args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "-h", "--help", "help":
			printUsage()
			return 0
		case "--version", "version":
			fmt.Printf("theater %s\n", Version)
			return 0
		case "completion":
			return cmdCompletion(args[1:])
		}
	}

	opts, remaining, err := parseFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		out.Hint("run 'theater --help' for usage")
		return errors.ExitConfigError
	}

	cmd := "run"
	cmdArgs := remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		cmd = remaining[0]
		cmdArgs = remaining[1:]
	}

	switch cmd {
	case "run":
		return cmdRun(cmdArgs, opts)
	case "list":
		return cmdList(cmdArgs, opts)
	case "config":
		return cmdConfig(cmdArgs, opts)
	case "init":
		return cmdInit(cmdArgs, opts)
	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'theater --help' for usage")
		return errors.ExitConfigError
	}
}

// Options holds parsed flags. Only flags that were given end up in the
// configuration overlay, so file and default values survive otherwise.
type Options struct {
	ConfigPath string
	Dir        string
	overlay    map[string]any
	callback   string
}

// parseFlags manually parses flags from arguments.
//
// Flags may appear before or after the command. -h and --help are left in
// the remaining arguments so each command can print its own usage.
func parseFlags(args []string) (*Options, []string, error) {
	opts := &Options{overlay: map[string]any{}}
	var remaining []string
	var patterns []string

	i := 0
	for i < len(args) {
		arg := args[i]
		name, inline, hasInline := strings.Cut(arg, "=")
		if !strings.HasPrefix(arg, "--") {
			name, hasInline = arg, false
		}

		value := func() (string, error) {
			if hasInline {
				i++
				return inline, nil
			}
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			v := args[i+1]
			i += 2
			return v, nil
		}

		switch name {
		case "-c", "--config":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			opts.ConfigPath = v
		case "-C", "--dir":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			opts.Dir = v
		case "-p", "--pattern":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			patterns = append(patterns, v)
		case "-n", "--attempts":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			n, err := config.ParseAttempts(v)
			if err != nil {
				return nil, nil, fmt.Errorf("invalid %s value %q\n  expected a positive integer or Infinity", name, v)
			}
			if n.IsUnbounded() {
				opts.overlay["attempts"] = config.Unbounded.String()
			} else {
				opts.overlay["attempts"] = float64(n)
			}
		case "-o", "--results":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			opts.setPath("results", v)
		case "-i", "--interpreter":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			opts.overlay["interpreter"] = v
		case "--callback":
			v, err := value()
			if err != nil {
				return nil, nil, err
			}
			opts.callback = v
		case "-q", "--silent":
			opts.setParam("silent", true)
			i++
		case "--no-performance":
			opts.setParam("checkPerformance", false)
			i++
		case "--no-write":
			opts.setParam("writeResultsToFile", false)
			i++
		case "--continue-on-failure":
			opts.setParam("continueOnFailure", true)
			i++
		default:
			if strings.HasPrefix(arg, "-") && arg != "-h" && arg != "--help" {
				return nil, nil, fmt.Errorf("unknown flag %q", arg)
			}
			remaining = append(remaining, arg)
			i++
		}
	}

	if len(patterns) > 0 {
		opts.setPath("pattern", patterns)
	}
	return opts, remaining, nil
}

func (o *Options) setPath(key string, v any) {
	p, _ := o.overlay["path"].(map[string]any)
	if p == nil {
		p = map[string]any{}
		o.overlay["path"] = p
	}
	if list, ok := v.([]string); ok {
		items := make([]any, len(list))
		for i, s := range list {
			items[i] = s
		}
		v = items
	}
	p[key] = v
}

func (o *Options) setParam(key string, v any) {
	p, _ := o.overlay["additionalParams"].(map[string]any)
	if p == nil {
		p = map[string]any{}
		o.overlay["additionalParams"] = p
	}
	p[key] = v
}

// execDir returns the absolute execution directory.
func (o *Options) execDir() (string, error) {
	dir := o.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "failed to resolve execution directory")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve execution directory")
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", errors.NotFound("execution directory", abs)
	}
	return abs, nil
}

func printUsage() {
	w := output.New()

	w.HelpTitle("theater - run puppet scripts repeatedly and collect their performance")

	w.HelpSection("Usage:")
	w.HelpUsage("theater [command] [flags]")

	w.HelpSection("Commands:")
	w.HelpCommand("run", "Discover puppets and run them (default)", helpCommandWidth)
	w.HelpCommand("list", "List the puppets that would run", helpCommandWidth)
	w.HelpCommand("config validate", "Validate the configuration", helpCommandWidth)
	w.HelpCommand("config show", "Print the resolved configuration", helpCommandWidth)
	w.HelpCommand("init", "Create a starter config and example puppet", helpCommandWidth)
	w.HelpCommand("completion", "Generate shell completion (bash, zsh, fish)", helpCommandWidth)
	w.HelpCommand("version", "Show version information", helpCommandWidth)

	printRunFlags(w)

	w.HelpSection("Environment (set for each puppet):")
	w.HelpEnvVar("THEATER_PUPPET", "Puppet path relative to the execution directory", helpEnvWidth)
	w.HelpEnvVar("THEATER_ATTEMPT", "1-based attempt number", helpEnvWidth)

	w.HelpSection("Examples:")
	w.HelpExample("theater", "Run ./*.puppet.js three times each with node")
	w.HelpExample("theater -n 10 -p 'scenarios/**/*.puppet.js'", "Run every scenario ten times")
	w.HelpExample("theater -n Infinity", "Run until interrupted, then summarize")
	w.HelpExample("theater list", "Show what would run")
	w.Println("")
}

func printRunFlags(w *output.Writer) {
	w.HelpSection("Flags:")
	w.HelpFlag("-c, --config <file>", "Config file (default: theater.json/.yaml in dir)", helpFlagWidth)
	w.HelpFlag("-C, --dir <dir>", "Execution directory (default: current)", helpFlagWidth)
	w.HelpFlag("-p, --pattern <glob>", "Puppet glob, repeatable", helpFlagWidth)
	w.HelpFlag("-n, --attempts <n>", "Attempts per puppet, or Infinity", helpFlagWidth)
	w.HelpFlag("-o, --results <file>", "Results file path", helpFlagWidth)
	w.HelpFlag("-i, --interpreter <cmd>", "Interpreter command, empty to exec directly", helpFlagWidth)
	w.HelpFlag("--callback <cmd>", "Shell command run after each step", helpFlagWidth)
	w.HelpFlag("-q, --silent", "Suppress per-attempt and group lines", helpFlagWidth)
	w.HelpFlag("--no-performance", "Skip parsing and the summary", helpFlagWidth)
	w.HelpFlag("--no-write", "Do not write the results file", helpFlagWidth)
	w.HelpFlag("--continue-on-failure", "Record crashes and keep going", helpFlagWidth)
	w.HelpFlag("-h, --help", "Show this help", helpFlagWidth)
	w.HelpFlag("--version", "Show version", helpFlagWidth)
}
