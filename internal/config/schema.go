// Package config provides configuration loading, merging and validation for theater.
package config

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Config represents a fully resolved theater configuration.
type Config struct {
	Path             PathConfig       `json:"path" yaml:"path"`
	Attempts         Attempts         `json:"attempts" yaml:"attempts"`
	Interpreter      string           `json:"interpreter" yaml:"interpreter"`
	AdditionalParams AdditionalParams `json:"additionalParams" yaml:"additionalParams"`
}

// PathConfig locates puppets and the results file.
type PathConfig struct {
	Pattern Patterns `json:"pattern" yaml:"pattern"`
	Results string   `json:"results" yaml:"results"`
}

// AdditionalParams holds behavioral switches for a run.
type AdditionalParams struct {
	CheckPerformance   bool       `json:"checkPerformance" yaml:"checkPerformance"`
	Silent             bool       `json:"silent" yaml:"silent"`
	WriteResultsToFile bool       `json:"writeResultsToFile" yaml:"writeResultsToFile"`
	ContinueOnFailure  bool       `json:"continueOnFailure" yaml:"continueOnFailure"`
	Callback           Callback   `json:"-" yaml:"-"`
	FastGlobParams     GlobParams `json:"fastGlobParams" yaml:"fastGlobParams"`
}

// GlobParams are passed through to puppet discovery.
type GlobParams struct {
	Dot             bool     `json:"dot" yaml:"dot"`
	OnlyFiles       bool     `json:"onlyFiles" yaml:"onlyFiles"`
	CaseInsensitive bool     `json:"caseInsensitive" yaml:"caseInsensitive"`
	FollowSymlinks  bool     `json:"followSymlinks" yaml:"followSymlinks"`
	Ignore          []string `json:"ignore,omitempty" yaml:"ignore,omitempty"`
}

// Callback is invoked after every attempt, every group and once at the end
// of a launch. A returned error aborts the run.
type Callback func(ctx context.Context) error

// Attempts is the number of times each puppet runs.
// Unbounded keeps running until the run's context is cancelled.
type Attempts int

// Unbounded is the sentinel for "Infinity" attempts.
const Unbounded Attempts = -1

// IsUnbounded reports whether a is the Unbounded sentinel.
func (a Attempts) IsUnbounded() bool {
	return a == Unbounded
}

func (a Attempts) String() string {
	if a.IsUnbounded() {
		return "Infinity"
	}
	return strconv.Itoa(int(a))
}

// MaxAttempts is the largest bounded attempt count.
const MaxAttempts = math.MaxInt32

// ParseAttempts parses a positive integer or "Infinity" (any case).
func ParseAttempts(s string) (Attempts, error) {
	s = strings.TrimSpace(s)
	if isInfinityString(s) {
		return Unbounded, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("attempts must be a positive integer or Infinity, got %q", s)
	}
	if n < 1 || n > MaxAttempts {
		return 0, fmt.Errorf("attempts must be a positive integer or Infinity, got %d", n)
	}
	return Attempts(n), nil
}

// attemptsFromNumber converts a decoded number to Attempts.
func attemptsFromNumber(f float64) (Attempts, error) {
	if math.IsInf(f, 1) {
		return Unbounded, nil
	}
	if f < 1 || f != math.Trunc(f) || f > MaxAttempts {
		return 0, fmt.Errorf("attempts must be a positive integer or Infinity, got %v", f)
	}
	return Attempts(int(f)), nil
}

// UnmarshalJSON accepts a number or the string "Infinity".
func (a *Attempts) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		parsed, err := ParseAttempts(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("attempts must be a number or \"Infinity\": %w", err)
	}
	parsed, err := attemptsFromNumber(f)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalJSON writes Unbounded as the string "Infinity".
func (a Attempts) MarshalJSON() ([]byte, error) {
	if a.IsUnbounded() {
		return json.Marshal(a.String())
	}
	return json.Marshal(int(a))
}

// MarshalYAML writes Unbounded as the string "Infinity".
func (a Attempts) MarshalYAML() (interface{}, error) {
	if a.IsUnbounded() {
		return a.String(), nil
	}
	return int(a), nil
}

// Patterns is one or more glob patterns. In config files it may be a
// single string or a list of strings.
type Patterns []string

// UnmarshalJSON accepts a string or an array of strings.
func (p *Patterns) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*p = Patterns{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("pattern must be a string or an array of strings: %w", err)
	}
	*p = Patterns(list)
	return nil
}
