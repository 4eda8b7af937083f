package output

import (
	"reflect"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/theater/internal/results"
)

func sampleLog() *results.Log {
	log := results.NewLog()
	log.Order = []string{"z.puppet.js", "a.puppet.js"}
	log.Performance.Assign("z.puppet.js", 300)
	log.Performance.Assign("a.puppet.js", 40)
	log.Attempts["z.puppet.js"] = 3
	log.Attempts["a.puppet.js"] = 2
	results.Assign(results.Results{"login": {0: "10ms", 1: "12ms", 2: "11ms"}}, log.Tests)
	results.Assign(results.Results{"a.puppet.js": {0: "20ms", 1: results.FailureMarker}}, log.Tests)
	return log
}

func TestWriter_PerformanceSummary(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.PerformanceSummary(sampleLog())

	got := stdout.String()
	for _, want := range []string{
		"Performance",
		"z.puppet.js",
		"300",
		"100.00",
		"20.00",
		"TOTAL",
		"340",
		"Results",
		"login",
		"12ms",
		results.FailureMarker,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("PerformanceSummary() missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "z.puppet.js") > strings.Index(got, "a.puppet.js") {
		t.Errorf("PerformanceSummary() should list puppets in run order:\n%s", got)
	}
}

func TestWriter_PerformanceSummary_NoTests(t *testing.T) {
	w, stdout, _ := newTestWriter()
	log := results.NewLog()
	log.Performance.Assign("a.js", 5)
	log.Attempts["a.js"] = 1

	w.PerformanceSummary(log)

	got := stdout.String()
	if !strings.Contains(got, "a.js") {
		t.Errorf("PerformanceSummary() missing puppet:\n%s", got)
	}
	if strings.Contains(got, "Results") {
		t.Errorf("PerformanceSummary() printed an empty results table:\n%s", got)
	}
}

func TestWriter_PerformanceSummary_Nil(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.PerformanceSummary(nil)

	if stdout.Len() != 0 {
		t.Errorf("PerformanceSummary(nil) wrote %q", stdout.String())
	}
}

func TestHasFailures(t *testing.T) {
	tests := []struct {
		name  string
		tests results.Results
		want  bool
	}{
		{"empty", results.Results{}, false},
		{"all passed", results.Results{"a": {0: "1ms"}}, false},
		{"marker", results.Results{"a": {0: "1ms", 1: results.FailureMarker}}, true},
		{"crash", results.Results{"a": {0: results.CrashMarker(nil)}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasFailures(tt.tests); got != tt.want {
				t.Errorf("hasFailures() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSummaryOrder(t *testing.T) {
	log := results.NewLog()
	log.Order = []string{"b", "a", "b"}
	log.Performance.Assign("a", 1).Assign("b", 2).Assign("c", 3)

	got := summaryOrder(log)
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("summaryOrder() = %v, want %v", got, want)
	}
}
