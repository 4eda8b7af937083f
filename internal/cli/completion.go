package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/theater/internal/errors"
	"github.com/AndreyAkinshin/theater/internal/output"
)

// cmdCompletion generates shell completion scripts.
func cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	for _, arg := range args {
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage()
			return 0
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			out.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return errors.ExitConfigError
		case strings.HasPrefix(arg, "-"):
			out.ErrorPrefix("completion: unknown flag: %s", arg)
			return errors.ExitConfigError
		default:
			if shell != "" {
				out.ErrorPrefix("completion: unexpected argument: %s", arg)
				return errors.ExitConfigError
			}
			shell = arg
		}
	}

	if shell == "" {
		out.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		return errors.ExitConfigError
	}

	cmdName := "theater"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		out.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		out.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		out.Print("%s", generateFishCompletion(cmdName))
	default:
		out.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return errors.ExitConfigError
	}
	return 0
}

func printCompletionUsage() {
	w := output.New()

	w.HelpTitle("theater completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("theater completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", helpShortWidth)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(theater completion bash)\"")
	w.Println("  Zsh:   eval \"$(theater completion zsh)\"")
	w.Println("  Fish:  theater completion fish | source")
	w.Println("")
}

type completionItem struct {
	name string
	desc string
}

type completionFlag struct {
	long  string
	short string
	desc  string
	value string // value hint, empty for switches
}

func builtinCommands() []completionItem {
	return []completionItem{
		{"run", "Discover puppets and run them"},
		{"list", "List the puppets that would run"},
		{"config", "Configuration utilities"},
		{"init", "Create a starter config and example puppet"},
		{"completion", "Generate shell completion"},
		{"version", "Show version information"},
		{"help", "Show help"},
	}
}

func configSubcommands() []completionItem {
	return []completionItem{
		{"validate", "Validate the configuration"},
		{"show", "Print the resolved configuration"},
	}
}

func runFlags() []completionFlag {
	return []completionFlag{
		{"config", "c", "Config file", "file"},
		{"dir", "C", "Execution directory", "dir"},
		{"pattern", "p", "Puppet glob", "glob"},
		{"attempts", "n", "Attempts per puppet", "n"},
		{"results", "o", "Results file path", "file"},
		{"interpreter", "i", "Interpreter command", "cmd"},
		{"callback", "", "Shell command run after each step", "cmd"},
		{"silent", "q", "Suppress progress lines", ""},
		{"no-performance", "", "Skip parsing and the summary", ""},
		{"no-write", "", "Do not write the results file", ""},
		{"continue-on-failure", "", "Record crashes and keep going", ""},
		{"help", "h", "Show help", ""},
		{"version", "", "Show version", ""},
	}
}

func names(items []completionItem) string {
	list := make([]string, len(items))
	for i, it := range items {
		list[i] = it.name
	}
	return strings.Join(list, " ")
}

func flagWords() string {
	var words []string
	for _, f := range runFlags() {
		words = append(words, "--"+f.long)
		if f.short != "" {
			words = append(words, "-"+f.short)
		}
	}
	return strings.Join(words, " ")
}

func aliasNote(cmdName, hint string) string {
	if cmdName == "theater" {
		return ""
	}
	return fmt.Sprintf("\n# This completion is generated for the alias %q\n# Make sure you have the alias defined: alias %s=\"theater\"\n# %s\n", cmdName, cmdName, hint)
}

func generateBashCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	return fmt.Sprintf(`# theater bash completion
# Add to ~/.bashrc: eval "$(theater completion bash)"
%s
%s() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"
    local config_subcommands="%s"
    local completion_shells="bash zsh fish"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "${config_subcommands}" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "${completion_shells}" -- "${cur}"))
            return
            ;;
        -c|--config|-o|--results)
            _filedir
            return
            ;;
        -C|--dir)
            _filedir -d
            return
            ;;
        -n|--attempts)
            COMPREPLY=($(compgen -W "1 3 10 Infinity" -- "${cur}"))
            return
            ;;
        -p|--pattern|-i|--interpreter|--callback)
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
}

complete -F %s %s
`, aliasNote(cmdName, "complete -F "+funcName+" "+cmdName), funcName,
		names(builtinCommands()), flagWords(), names(configSubcommands()),
		cmdName, funcName, cmdName)
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var sb strings.Builder
	fmt.Fprintf(&sb, "#compdef %s\n# theater zsh completion\n# Add to ~/.zshrc: eval \"$(theater completion zsh)\"\n%s\n", cmdName, aliasNote(cmdName, "compdef "+funcName+" "+cmdName))
	fmt.Fprintf(&sb, "%s() {\n    local -a commands config_subcommands completion_shells flags\n\n", funcName)

	sb.WriteString("    commands=(\n")
	for _, c := range builtinCommands() {
		fmt.Fprintf(&sb, "        '%s:%s'\n", c.name, c.desc)
	}
	sb.WriteString("    )\n\n    config_subcommands=(\n")
	for _, c := range configSubcommands() {
		fmt.Fprintf(&sb, "        '%s:%s'\n", c.name, c.desc)
	}
	sb.WriteString("    )\n\n    completion_shells=(\n")
	sb.WriteString("        'bash:Generate bash completion'\n        'zsh:Generate zsh completion'\n        'fish:Generate fish completion'\n")
	sb.WriteString("    )\n\n    flags=(\n")
	for _, f := range runFlags() {
		arg := fmt.Sprintf("--%s[%s]", f.long, f.desc)
		if f.value != "" {
			arg = fmt.Sprintf("--%s=[%s]:%s:", f.long, f.desc, f.value)
			if f.value == "file" || f.value == "dir" {
				arg += "_files"
			}
		}
		fmt.Fprintf(&sb, "        '%s'\n", arg)
	}
	sb.WriteString(`    )

    if (( CURRENT == 2 )); then
        _describe -t commands 'command' commands
        _arguments -s $flags[@]
        return
    fi

    case "${words[2]}" in
        config)
            _describe -t config-subcommands 'config subcommand' config_subcommands
            ;;
        completion)
            _describe -t shells 'shell' completion_shells
            ;;
        *)
            _arguments -s $flags[@]
            ;;
    esac
}

`)
	fmt.Fprintf(&sb, "compdef %s %s\n", funcName, cmdName)
	return sb.String()
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# theater fish completion\n# Add to config: theater completion fish | source\n%s\n", aliasNote(cmdName, "complete -c "+cmdName+" -w theater"))
	fmt.Fprintf(&sb, "# Disable file completion by default\ncomplete -c %s -f\n\n", cmdName)

	for _, c := range builtinCommands() {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, c.name, c.desc)
	}

	sb.WriteString("\n# Flags\n")
	for _, f := range runFlags() {
		line := fmt.Sprintf("complete -c %s -l %s", cmdName, f.long)
		if f.short != "" {
			line += " -s " + f.short
		}
		switch f.value {
		case "":
		case "file", "dir":
			line += " -r -F"
		default:
			line += " -x"
		}
		fmt.Fprintf(&sb, "%s -d '%s'\n", line, f.desc)
	}

	sb.WriteString("\n# config subcommands\n")
	for _, c := range configSubcommands() {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from config' -a '%s' -d '%s'\n", cmdName, c.name, c.desc)
	}

	sb.WriteString("\n# completion subcommands\n")
	for _, shell := range []string{"bash", "zsh", "fish"} {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from completion' -a '%s' -d 'Generate %s completion'\n", cmdName, shell, shell)
	}

	return sb.String()
}
