package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/theater/internal/config"
	"github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
	"github.com/AndreyAkinshin/theater/internal/puppet"
	"github.com/AndreyAkinshin/theater/internal/runner"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	helpCommandWidth = 16
	helpFlagWidth    = 24
	helpEnvWidth     = 16
	helpShortWidth   = 10
)

// userConfig is the configuration layered from the config file and flags,
// before it is merged onto the defaults.
type userConfig struct {
	dir    string
	source string
	values map[string]any
}

// loadUserConfig reads the config file (explicit or found in the execution
// directory) and overlays the flags on it. Shell callbacks are turned into
// functions running in the execution directory.
func loadUserConfig(opts *Options) (*userConfig, error) {
	dir, err := opts.execDir()
	if err != nil {
		return nil, err
	}

	uc := &userConfig{dir: dir, values: map[string]any{}}
	path := opts.ConfigPath
	if path == "" {
		path = config.FindDefault(dir)
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.NotFound("config file", path)
	}
	if path != "" {
		raw, warnings, err := config.Load(path)
		if err != nil {
			return nil, errors.Config(err.Error())
		}
		for _, w := range warnings {
			out.Warning("%s", w)
		}
		uc.source = path
		uc.values = raw
	}

	if params, ok := uc.values["additionalParams"].(map[string]any); ok {
		if cmd, ok := params["callback"].(string); ok {
			params["callback"] = puppet.ShellCallback(cmd, dir, nil, nil)
		}
	}

	uc.values = config.Merge(uc.values, opts.overlay)
	if opts.callback != "" {
		params, _ := uc.values["additionalParams"].(map[string]any)
		if params == nil {
			params = map[string]any{}
			uc.values["additionalParams"] = params
		}
		params["callback"] = puppet.ShellCallback(opts.callback, dir, nil, nil)
	}
	return uc, nil
}

// resolveConfig loads and resolves the configuration, printing any failure.
// Returns nil and an exit code on failure.
func resolveConfig(opts *Options) (*userConfig, *config.Config, int) {
	uc, err := loadUserConfig(opts)
	if err != nil {
		return nil, nil, reportError(err)
	}
	cfg, err := config.Resolve(uc.values)
	if err != nil {
		return nil, nil, reportError(errors.Validation(err))
	}
	return uc, cfg, 0
}

// reportError prints err the way its kind calls for and returns its exit code.
func reportError(err error) int {
	if err == nil {
		return errors.ExitSuccess
	}
	if te, ok := err.(*errors.TheaterError); ok {
		switch te.Kind {
		case errors.KindValidation:
			out.InvalidConfig(te.Cause)
		case errors.KindInterrupted:
			out.Warning("interrupted")
		default:
			out.ErrorPrefix("%v", err)
		}
	} else {
		out.ErrorPrefix("%v", err)
	}
	return errors.GetExitCode(err)
}

func cmdRun(args []string, opts *Options) int {
	if wantsHelp(args) {
		printCommandUsage("run", "discover puppets and run them", "theater run [flags]")
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("run: unexpected argument %q", args[0])
		return errors.ExitConfigError
	}

	uc, err := loadUserConfig(opts)
	if err != nil {
		return reportError(err)
	}
	if params, ok := uc.values["additionalParams"].(map[string]any); ok && params["silent"] == true {
		out.SetQuiet(true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = runner.LaunchWith(ctx, uc.values, runner.Options{Dir: uc.dir, Out: out})
	return reportError(err)
}

func cmdList(args []string, opts *Options) int {
	if wantsHelp(args) {
		printCommandUsage("list", "list the puppets that would run", "theater list [flags]")
		return 0
	}
	if len(args) > 0 {
		out.ErrorPrefix("list: unexpected argument %q", args[0])
		return errors.ExitConfigError
	}

	uc, cfg, code := resolveConfig(opts)
	if cfg == nil {
		return code
	}
	r, err := runner.New(cfg, runner.Options{Dir: uc.dir, Out: out})
	if err != nil {
		return reportError(err)
	}
	found, err := r.Discover()
	if err != nil {
		return reportError(err)
	}
	if len(found) == 0 {
		out.NoPuppets(cfg.Path.Pattern)
		return 0
	}
	for _, p := range found {
		out.Println("%s", p)
	}
	return 0
}

func cmdConfig(args []string, opts *Options) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate, show)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "show":
		return cmdConfigShow(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *Options) int {
	uc, cfg, code := resolveConfig(opts)
	if cfg == nil {
		return code
	}

	source := uc.source
	if source == "" {
		source = "defaults"
	}
	out.ValidationSuccess("Configuration is valid.")
	out.Hint("  source: %s", source)
	out.Hint("  patterns: %d, attempts: %s", len(cfg.Path.Pattern), cfg.Attempts)
	return 0
}

func cmdConfigShow(opts *Options) int {
	_, cfg, code := resolveConfig(opts)
	if cfg == nil {
		return code
	}
	data, err := config.ToYAML(cfg)
	if err != nil {
		return reportError(errors.Wrap(err, "failed to render configuration"))
	}
	out.Print("%s", data)
	return 0
}

// printCommandUsage prints the help text shared by commands that take the
// run flags.
func printCommandUsage(cmd, desc, usage string) {
	w := output.New()

	w.HelpTitle(fmt.Sprintf("theater %s - %s", cmd, desc))

	w.HelpSection("Usage:")
	w.HelpUsage(usage)

	printRunFlags(w)

	w.HelpSection("Examples:")
	titleCase := cases.Title(language.English)
	w.HelpExample(fmt.Sprintf("theater %s", cmd), fmt.Sprintf("%s with the config found in the current directory", titleCase.String(cmd)))
	w.HelpExample(fmt.Sprintf("theater %s -C tasks", cmd), fmt.Sprintf("%s from the tasks directory", titleCase.String(cmd)))
	w.Println("")
}

func printConfigUsage() {
	w := output.New()

	w.HelpTitle("theater config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("theater config <subcommand> [flags]")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the configuration", helpShortWidth)
	w.HelpCommand("show", "Print the resolved configuration as YAML", helpShortWidth)

	w.HelpSection("Examples:")
	w.HelpExample("theater config validate", "Validate theater.json in the current directory")
	w.HelpExample("theater config show -n 5", "Show the configuration with five attempts")
	w.Println("")
}
