// Package theater provides public constants for external tools
// integrating with the theater CLI.
package theater

// Exit codes returned by the theater CLI.
// These constants allow scripts and CI jobs to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every puppet ran (or none matched the pattern).
	ExitSuccess = 0

	// ExitConfigError indicates a configuration error (invalid config, validation failure, bad flags).
	ExitConfigError = 1

	// ExitFailure indicates a runtime failure (puppet crashed, callback failed, results not written).
	ExitFailure = 2

	// ExitInterrupted indicates the run was stopped by SIGINT or SIGTERM.
	ExitInterrupted = 130
)
