// Package simcheck provides public constants for tools that drive the
// simcheck regression harness.
package simcheck

// Exit codes returned by the simcheck CLI.
const (
	// ExitSuccess indicates every comparison passed.
	ExitSuccess = 0

	// ExitFailure indicates a failed comparison or a case error.
	ExitFailure = 1

	// ExitConfigError indicates an unreadable or invalid suite configuration,
	// or bad command-line usage.
	ExitConfigError = 2

	// ExitEnvError indicates a missing simulation binary or an unwritable log file.
	ExitEnvError = 3
)
