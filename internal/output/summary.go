package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/AndreyAkinshin/theater/internal/results"
)

// PerformanceSummary prints the total and average duration of every puppet
// followed by the result of every attempt.
func (w *Writer) PerformanceSummary(log *results.Log) {
	if log == nil {
		return
	}

	perf := w.newTable()
	perf.SetTitle("Performance")
	perf.AppendHeader(table.Row{"Puppet", "Attempts", "Total (ms)", "Average (ms)"})
	perf.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Puppet", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Attempts", Align: text.AlignRight},
		{Name: "Total (ms)", Align: text.AlignRight},
		{Name: "Average (ms)", Align: text.AlignRight},
	})
	var total int64
	for _, puppet := range summaryOrder(log) {
		ms := log.Performance[puppet]
		total += ms
		perf.AppendRow(table.Row{
			puppet,
			log.Attempts[puppet],
			ms,
			fmt.Sprintf("%.2f", log.Average(puppet)),
		})
	}
	perf.AppendFooter(table.Row{"TOTAL", "", total, ""})
	w.styleTable(perf, log.Tests)
	perf.Render()

	if len(log.Tests) == 0 {
		return
	}

	tests := w.newTable()
	tests.SetTitle("Results")
	tests.AppendHeader(table.Row{"Test", "Attempt", "Result"})
	tests.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", AutoMerge: true, WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Attempt", Align: text.AlignRight},
	})
	for _, key := range log.Tests.Keys() {
		for _, idx := range log.Tests.Indices(key) {
			tests.AppendRow(table.Row{key, idx + 1, log.Tests[key][idx]})
		}
	}
	w.styleTable(tests, log.Tests)
	tests.Render()
}

func (w *Writer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	return t
}

// styleTable colors the table by outcome when color output is enabled.
func (w *Writer) styleTable(t table.Writer, tests results.Results) {
	if !w.color {
		return
	}
	if hasFailures(tests) {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}
}

func hasFailures(tests results.Results) bool {
	for _, attempts := range tests {
		for _, v := range attempts {
			if v == results.FailureMarker || strings.HasPrefix(v, results.CrashMarkerPrefix) {
				return true
			}
		}
	}
	return false
}

// summaryOrder lists puppets in run order, then any others in lexical order.
func summaryOrder(log *results.Log) []string {
	seen := make(map[string]bool, len(log.Order))
	order := make([]string, 0, len(log.Performance))
	for _, p := range log.Order {
		if _, ok := log.Performance[p]; ok && !seen[p] {
			seen[p] = true
			order = append(order, p)
		}
	}
	for _, p := range log.Performance.Keys() {
		if !seen[p] {
			order = append(order, p)
		}
	}
	return order
}
