// Package output provides formatted terminal output for the theater CLI:
// launch banners, progress lines, warnings, help text and the summary tables.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Writer handles CLI output formatting.
type Writer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

// New creates a Writer on stdout and stderr, colored when stdout is a terminal.
func New() *Writer {
	return NewWithWriters(os.Stdout, os.Stderr, isTerminal())
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return &Writer{out: out, err: err, color: color}
}

// SetQuiet suppresses informational messages. Warnings, errors and the
// run output itself are still printed.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// Semantic color roles for help output.
const (
	colorTitle       = bold + cyan
	colorSection     = bold + yellow
	colorCommand     = bold + cyan
	colorPlaceholder = green // <glob>, <n>
	colorFlag        = yellow
	colorDescription = dim
	colorExample     = cyan
	colorEnvVar      = yellow
)

// paint wraps s in the given color when color output is enabled.
func (w *Writer) paint(color, s string) string {
	if !w.color || s == "" {
		return s
	}
	return color + s + reset
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Success prints a success message in green.
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s", w.paint(green, fmt.Sprintf(format, args...)))
}

// Warning prints a warning to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Errorln("%s", w.paint(yellow, "warning: "+fmt.Sprintf(format, args...)))
}

// ErrorPrefix prints an error message with the theater prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	w.Errorln("%s %s", w.paint(red, "theater:"), fmt.Sprintf(format, args...))
}

// ValidationSuccess prints a validation success message.
func (w *Writer) ValidationSuccess(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		msg = w.paint(green, "✓") + " " + msg
	}
	w.Println("%s", msg)
}

// Hint prints a dimmed hint for the user.
func (w *Writer) Hint(format string, args ...interface{}) {
	w.Println("%s", w.paint(dim, fmt.Sprintf(format, args...)))
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// HelpTitle formats the main help title line.
func (w *Writer) HelpTitle(title string) {
	w.Println("%s", w.paint(colorTitle, title))
}

// HelpSection formats a section header (e.g., "Flags:").
func (w *Writer) HelpSection(title string) {
	w.Println("")
	w.Println("%s", w.paint(colorSection, title))
}

// HelpCommand formats a command with its description.
func (w *Writer) HelpCommand(name, description string, width int) {
	w.helpEntry(colorCommand, name, description, width)
}

// HelpFlag formats a flag with its description.
func (w *Writer) HelpFlag(name, description string, width int) {
	w.helpEntry(colorFlag, name, description, width)
}

// HelpEnvVar formats an environment variable.
func (w *Writer) HelpEnvVar(name, description string, width int) {
	w.helpEntry(colorEnvVar, name, description, width)
}

// helpEntry pads name to width by its visible length so that colored
// placeholders do not shift the description column.
func (w *Writer) helpEntry(color, name, description string, width int) {
	padding := width - len(name)
	if padding < 0 {
		padding = 0
	}
	label := name
	if w.color {
		label = color + w.colorPlaceholders(name) + reset
	}
	w.Println("  %s%s  %s", label, strings.Repeat(" ", padding), w.paint(colorDescription, description))
}

// HelpExample formats an example command with description.
func (w *Writer) HelpExample(command, description string) {
	w.Println("  %s", w.paint(colorExample, command))
	if description != "" {
		w.Println("      %s", w.paint(colorDescription, description))
	}
}

// HelpUsage formats usage lines.
func (w *Writer) HelpUsage(usage string) {
	if w.color {
		usage = w.colorPlaceholders(usage)
	}
	w.Println("  %s", usage)
}

// colorPlaceholders highlights <placeholder> patterns in text.
func (w *Writer) colorPlaceholders(text string) string {
	var result strings.Builder
	for {
		start := strings.IndexByte(text, '<')
		if start < 0 {
			break
		}
		end := strings.IndexByte(text[start:], '>')
		if end < 0 {
			break
		}
		result.WriteString(text[:start])
		result.WriteString(reset + colorPlaceholder + text[start:start+end+1] + reset)
		text = text[start+end+1:]
	}
	result.WriteString(text)
	return result.String()
}
