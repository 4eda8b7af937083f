// Package results holds the per-run result stores and persists them.
package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// FailureMarker is stored for an attempt whose output did not follow the
// performance marker convention.
const FailureMarker = "PERFORMANCE TESTS FAILED"

// CrashMarkerPrefix starts the value stored for an attempt whose puppet
// exited abnormally while failures are tolerated.
const CrashMarkerPrefix = "PUPPET FAILED"

// CrashMarker formats the value stored for a crashed attempt.
func CrashMarker(cause error) string {
	if cause == nil {
		return CrashMarkerPrefix
	}
	return fmt.Sprintf("%s (%v)", CrashMarkerPrefix, cause)
}

// AttemptResults maps a 0-based attempt index to its result string.
type AttemptResults map[int]string

// Results maps a puppet key to the results of its attempts.
type Results map[string]AttemptResults

// Performance maps a puppet path to the total elapsed milliseconds of its group.
type Performance map[string]int64

// Assign merges entry into store and returns store.
//
// Entries normally carry a single key. When store already holds the key the
// attempt maps are merged and the entry wins on index collision; otherwise the
// entry's attempts are inserted. store is mutated in place.
func Assign(entry, store Results) Results {
	if store == nil {
		store = Results{}
	}
	for key, attempts := range entry {
		existing, ok := store[key]
		if !ok {
			existing = make(AttemptResults, len(attempts))
			store[key] = existing
		}
		for idx, value := range attempts {
			existing[idx] = value
		}
	}
	return store
}

// Indices returns the attempt indices recorded for key in ascending order.
func (r Results) Indices(key string) []int {
	attempts := r[key]
	indices := make([]int, 0, len(attempts))
	for idx := range attempts {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// Keys returns the puppet keys in lexical order.
func (r Results) Keys() []string {
	return sortedKeys(r)
}

// Assign records the elapsed time of a group, overwriting any prior entry.
func (p Performance) Assign(puppet string, elapsedMs int64) Performance {
	p[puppet] = elapsedMs
	return p
}

// Keys returns the puppet paths in lexical order.
func (p Performance) Keys() []string {
	return sortedKeys(p)
}

// Log aggregates the stores of a single launch.
type Log struct {
	Tests       Results
	Performance Performance
	// Attempts counts completed attempts per puppet; used for averages.
	Attempts map[string]int
	// Order lists puppets in the order they ran.
	Order []string
}

// NewLog creates an empty Log.
func NewLog() *Log {
	return &Log{
		Tests:       Results{},
		Performance: Performance{},
		Attempts:    map[string]int{},
	}
}

// Average returns the mean elapsed milliseconds per attempt for puppet.
func (l *Log) Average(puppet string) float64 {
	n := l.Attempts[puppet]
	if n == 0 {
		return 0
	}
	return float64(l.Performance[puppet]) / float64(n)
}

// WriteFile writes the performance store as 4-space indented JSON,
// replacing the file if it exists. Missing parent directories are created.
func WriteFile(path string, perf Performance) error {
	data, err := json.MarshalIndent(perf, "", "    ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create results directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
