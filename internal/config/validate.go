package config

import (
	"fmt"
	"math"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a parsed suite for errors.
func Validate(s *Suite) error {
	if err := s.Tolerance.Validate(); err != nil {
		return &ValidationError{Field: "tolerance", Message: err.Error()}
	}

	seen := make(map[string]bool)
	for _, sec := range s.Sections {
		if sec.Name == "" {
			return &ValidationError{Field: "sections", Message: "section name must not be empty"}
		}
		if sec.Name == AllSections {
			return &ValidationError{Field: sec.Name, Message: fmt.Sprintf("%q is reserved for selecting every section", AllSections)}
		}
		if seen[sec.Name] {
			return &ValidationError{Field: sec.Name, Message: "duplicate section"}
		}
		seen[sec.Name] = true

		if sec.WorkingDirectory == "" {
			return &ValidationError{Field: sec.Name + "." + DirectoryKey, Message: "is required"}
		}
		if err := validateCases(sec); err != nil {
			return err
		}
	}
	return nil
}

func validateCases(sec Section) error {
	names := make(map[string]bool)
	for _, c := range sec.Cases {
		field := sec.Name + "." + c.Name
		if c.Name == "" {
			return &ValidationError{Field: sec.Name, Message: "case name must not be empty"}
		}
		if names[c.Name] {
			return &ValidationError{Field: field, Message: "duplicate case"}
		}
		names[c.Name] = true
		for i, e := range c.Expected {
			if !e.Wildcard && (math.IsNaN(e.Value) || math.IsInf(e.Value, 0)) {
				return &ValidationError{Field: fmt.Sprintf("%s[%d]", field, i), Message: fmt.Sprintf("expected value %q is not finite", e.Raw)}
			}
		}
	}
	return nil
}
