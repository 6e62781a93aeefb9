// Package errors provides structured error types and exit codes for simcheck.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Exit codes returned by the simcheck CLI.
const (
	ExitSuccess          = 0 // Every comparison passed
	ExitRuntimeError     = 1 // A comparison failed or a case errored
	ExitConfigError      = 2 // Configuration error (unreadable or invalid suite file, bad flags)
	ExitEnvironmentError = 3 // Environment error (no usable binary, unwritable log path)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindEnvironment
	// KindLaunch is a simulation process that could not be started.
	KindLaunch
	// KindExtraction is a result sequence shorter than the expected-value list.
	KindExtraction
	// KindAggregation is a partition result whose length differs from the running aggregate.
	KindAggregation
	// KindMismatch is a numeric comparison outside tolerance.
	KindMismatch
)

var kindNames = map[ErrorKind]string{
	KindRuntime:     "runtime",
	KindConfig:      "config",
	KindNotFound:    "not found",
	KindEnvironment: "environment",
	KindLaunch:      "launch",
	KindExtraction:  "extraction",
	KindAggregation: "aggregation shape mismatch",
	KindMismatch:    "mismatch",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the base error type for simcheck.
type Error struct {
	Kind    ErrorKind
	Message string
	Section string // Test section name if applicable
	Input   string // Input file name if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	if e.Section != "" && e.Input != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Section, e.Input, msg)
	}
	if e.Section != "" {
		return fmt.Sprintf("[%s] %s", e.Section, msg)
	}
	if e.Input != "" {
		return fmt.Sprintf("%s: %s", e.Input, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Environment creates a new environment error.
func Environment(message string) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *Error {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// WrapKind wraps an error with additional context and an explicit kind.
func WrapKind(kind ErrorKind, err error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// Mismatch creates the error reported when a suite finishes with failed
// comparisons or case errors.
func Mismatch(failed, caseErrors int) *Error {
	return &Error{
		Kind:    KindMismatch,
		Message: fmt.Sprintf("%d comparison(s) failed, %d case error(s)", failed, caseErrors),
	}
}

// Launch creates an error for a simulation process that failed to start.
func Launch(input string, cause error) *Error {
	return &Error{
		Kind:    KindLaunch,
		Input:   input,
		Message: "failed to launch simulation binary",
		Cause:   cause,
	}
}

// Extraction creates an error for a result sequence that cannot satisfy the expected values.
func Extraction(input string, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    KindExtraction,
		Input:   input,
		Message: fmt.Sprintf(format, args...),
	}
}

// Aggregation creates an error for partition results of unequal length.
func Aggregation(input string, partition, want, got int) *Error {
	return &Error{
		Kind:    KindAggregation,
		Input:   input,
		Message: fmt.Sprintf("aggregation shape mismatch: partition %d produced %d values, aggregate has %d", partition, got, want),
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		if e, ok := err.(*Error); ok && e.Kind == kind {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.ExitCode()
	}
	return ExitRuntimeError
}
