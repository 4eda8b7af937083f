// Package errors provides structured error types and exit codes for theater.
package errors

import (
	"fmt"
)

// Exit codes returned by the theater CLI.
const (
	ExitSuccess      = 0   // Success
	ExitConfigError  = 1   // Configuration error (invalid config, bad flags, unreadable config file)
	ExitRuntimeError = 2   // Runtime error (puppet crashed, callback failed, results not written)
	ExitInterrupted  = 130 // Run interrupted by SIGINT/SIGTERM
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindPuppet
	KindCallback
	KindInterrupted
)

// TheaterError is the base error type for theater.
type TheaterError struct {
	Kind    ErrorKind
	Message string
	Puppet  string // Puppet path if applicable
	Attempt int    // 1-based attempt number if applicable, 0 otherwise
	Cause   error  // Underlying error
}

func (e *TheaterError) Error() string {
	if e.Puppet != "" && e.Attempt > 0 {
		return fmt.Sprintf("[%s] attempt #%d: %s", e.Puppet, e.Attempt, e.Message)
	}
	if e.Puppet != "" {
		return fmt.Sprintf("[%s] %s", e.Puppet, e.Message)
	}
	return e.Message
}

func (e *TheaterError) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *TheaterError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation, KindNotFound:
		return ExitConfigError
	case KindInterrupted:
		return ExitInterrupted
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *TheaterError {
	return &TheaterError{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Config creates a new configuration error.
func Config(message string) *TheaterError {
	return &TheaterError{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *TheaterError {
	return Config(fmt.Sprintf(format, args...))
}

// Validation wraps a configuration validation failure.
func Validation(cause error) *TheaterError {
	return &TheaterError{
		Kind:    KindValidation,
		Message: cause.Error(),
		Cause:   cause,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *TheaterError {
	return &TheaterError{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// PuppetError creates an error for a failed puppet attempt.
// attempt is 1-based; pass 0 when the failure is not tied to an attempt.
func PuppetError(puppet string, attempt int, cause error) *TheaterError {
	msg := "failed"
	if cause != nil {
		msg = cause.Error()
	}
	return &TheaterError{
		Kind:    KindPuppet,
		Puppet:  puppet,
		Attempt: attempt,
		Message: msg,
		Cause:   cause,
	}
}

// CallbackError creates an error for a failed user callback.
func CallbackError(cause error) *TheaterError {
	return &TheaterError{
		Kind:    KindCallback,
		Message: fmt.Sprintf("callback failed: %v", cause),
		Cause:   cause,
	}
}

// Interrupted creates an error for a run stopped by a signal.
func Interrupted(cause error) *TheaterError {
	return &TheaterError{
		Kind:    KindInterrupted,
		Message: "interrupted",
		Cause:   cause,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *TheaterError {
	return &TheaterError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if te, ok := err.(*TheaterError); ok {
		return te.ExitCode()
	}
	return ExitRuntimeError
}
