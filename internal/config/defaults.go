package config

// Default configuration values and reserved tokens.
const (
	DefaultConfigFile = "test_cases.cfg"
	DefaultLogFile    = "test.log"

	// DirectoryKey is the per-section key naming the working directory.
	DirectoryKey = "input_dir"
	// ForcesToken as a case value selects force-comparison mode.
	ForcesToken = "forces"
	// WildcardToken in an expected-value list skips that position.
	WildcardToken = "*"
	// AllSections requests every section in the suite.
	AllSections = "all"

	InputExtension  = ".in"
	OutputExtension = ".out"
)
