package output

import (
	"fmt"
	"strings"
)

// Banner lines framing a launch.
const (
	StartBanner = "======[ THE PUPPET THEATER STARTS! ]======"
	EndBanner   = "======[ THE PUPPET THEATER IS ENDING! ]======"
	groupRule   = "======"
)

// TheaterStart prints the banner opening a launch.
func (w *Writer) TheaterStart() {
	w.Println("%s", w.paint(bold+cyan, StartBanner))
}

// TheaterEnd prints the banner closing a launch.
func (w *Writer) TheaterEnd() {
	w.Println("%s", w.paint(bold+cyan, EndBanner))
}

// GroupStarted prints the header of a puppet's attempt group.
func (w *Writer) GroupStarted(puppet string) {
	w.Println("%s", groupRule)
	w.Println("%s started", w.paint(bold, puppet))
}

// GroupEnded prints the footer of a puppet's attempt group.
func (w *Writer) GroupEnded(puppet string) {
	w.Println("%s ended", w.paint(bold, puppet))
	w.Println("%s", groupRule)
}

// Attempt prints the 1-based attempt counter.
func (w *Writer) Attempt(number int) {
	w.Println("%s", w.paint(dim, fmt.Sprintf("attempt #%d", number)))
}

// NoPuppets prints the warning emitted when discovery finds nothing.
func (w *Writer) NoPuppets(patterns []string) {
	for _, line := range []string{
		"NO PUPPETEER FILES!",
		"Check the path.pattern setting or the location of your puppet files.",
		"Pattern used: " + strings.Join(patterns, ", "),
		"Launcher terminated.",
	} {
		w.Errorln("%s", w.paint(yellow, line))
	}
}

// InvalidConfig prints a configuration failure in red to stderr.
func (w *Writer) InvalidConfig(err error) {
	w.Errorln("%s", w.paint(red, fmt.Sprintf("Invalid configuration: %v", err)))
}

// CrashRecorded warns that a puppet crash was recorded instead of aborting.
func (w *Writer) CrashRecorded(puppet string, attempt int, err error) {
	w.Warning("%s attempt #%d failed: %v (continuing)", puppet, attempt, err)
}

// ResultsWritten reports where the performance store was saved
// (skipped in quiet mode).
func (w *Writer) ResultsWritten(path string) {
	if w.quiet {
		return
	}
	w.Hint("results written to %s", path)
}
