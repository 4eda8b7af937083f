// Package perfparser decodes the timing report a puppet prints on stdout.
//
// A puppet reports its duration by starting its output with the marker
// token, optionally followed by a label, and a duration:
//
//	puppetPerformance: 1234.567ms
//	puppetPerformance: screenshot: 1234.567ms
//
// The label and duration may also be split over two lines, the second of the
// form "<label-or-puppetPerformance:>: <duration>". Anything else is treated
// as a failed performance test.
package perfparser

import (
	"strings"
	"unicode"

	"github.com/acarl005/stripansi"

	"github.com/AndreyAkinshin/theater/internal/results"
)

// Marker is the token a puppet's output must start with.
const Marker = "puppetPerformance"

// DefaultUnit is appended to durations reported as a bare number.
const DefaultUnit = "ms"

// Report is a decoded timing report.
type Report struct {
	Label    string // empty when the puppet did not name its task
	Duration string // duration with unit, e.g. "42ms"
	Parsed   bool   // true if the output followed the convention
}

// Decode extracts the timing report from raw puppet output.
func Decode(output string) Report {
	text := stripansi.Strip(output)
	if !strings.HasPrefix(text, Marker) {
		return Report{}
	}

	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	head := strings.TrimSpace(lines[0])
	if rest, ok := trimMarker(head); ok {
		head = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	}

	var label, duration string
	if l, d, ok := strings.Cut(head, ": "); ok {
		label, duration = l, d
	} else if looksLikeDuration(head) && !continuesOnNextLine(head, lines[1:]) {
		duration = head
	} else {
		label, duration = continuation(head, lines[1:])
	}

	duration = normalizeDuration(duration)
	if duration == "" {
		return Report{}
	}
	return Report{
		Label:    normalizeLabel(label),
		Duration: duration,
		Parsed:   true,
	}
}

// Parse decodes output of attempt index of puppetPath into a single-key
// result entry. The key is the reported label, or puppetPath when the puppet
// did not name its task. Output not following the convention is recorded as
// results.FailureMarker.
func Parse(output string, index int, puppetPath string) results.Results {
	key := puppetPath
	value := results.FailureMarker

	if r := Decode(output); r.Parsed {
		value = r.Duration
		if r.Label != "" {
			key = r.Label
		}
	}

	return results.Results{key: {index: value}}
}

// continuation reads "<label>: <duration>" from the first non-blank line.
func continuation(label string, lines []string) (string, string) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l, d, ok := strings.Cut(line, ": ")
		if !ok {
			return label, ""
		}
		if label == "" {
			label = l
		}
		return label, d
	}
	return label, ""
}

// trimMarker strips Marker from the start of line when it stands as a whole
// token, followed by a colon, whitespace or the end of the line.
func trimMarker(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, Marker)
	if !ok {
		return line, false
	}
	if rest == "" || rest[0] == ':' || unicode.IsSpace(rune(rest[0])) {
		return rest, true
	}
	return line, false
}

// continuesOnNextLine reports whether the first non-blank line after the
// head carries the duration for label.
func continuesOnNextLine(label string, lines []string) bool {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		return strings.HasPrefix(line, label+": ") || strings.HasPrefix(line, Marker+":: ")
	}
	return false
}

func looksLikeDuration(s string) bool {
	if s == "" {
		return false
	}
	r := rune(s[0])
	return unicode.IsDigit(r) || r == '.'
}

func normalizeDuration(d string) string {
	d = strings.TrimSpace(d)
	if d == "" {
		return ""
	}
	if unicode.IsDigit(rune(d[len(d)-1])) {
		return d + DefaultUnit
	}
	return d
}

func normalizeLabel(l string) string {
	l = strings.TrimSpace(l)
	if strings.TrimSuffix(l, ":") == Marker {
		return ""
	}
	return l
}
