// Package config loads test suite definitions from INI (.cfg) or YAML files.
package config

import (
	"strings"

	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Suite is a parsed test suite: named sections in file order plus the
// tolerance policy used to verify them.
type Suite struct {
	Path      string
	Sections  []Section
	Tolerance verify.Policy
}

// Section is one named test section. WorkingDirectory is the directory in
// which every case's input and output files are resolved.
type Section struct {
	Name             string
	WorkingDirectory string
	Cases            []Case
}

// Mode selects how a case is verified.
type Mode int

const (
	// ModeValues compares extracted energies against expected values.
	ModeValues Mode = iota
	// ModeForces delegates the case to the force checker.
	ModeForces
)

func (m Mode) String() string {
	if m == ModeForces {
		return "forces"
	}
	return "values"
}

// Case is one input file of a section and what is expected of it.
type Case struct {
	// Name is the input file's base name without the .in extension.
	Name     string
	Mode     Mode
	Expected []Expected
}

// InputFile returns the case's input file name.
func (c Case) InputFile() string {
	return c.Name + InputExtension
}

// ExpectedString renders the expected values the way they were written.
func (c Case) ExpectedString() string {
	if c.Mode == ModeForces {
		return ForcesToken
	}
	parts := make([]string, len(c.Expected))
	for i, e := range c.Expected {
		parts[i] = e.Raw
	}
	return strings.Join(parts, " ")
}

// Expected is one position of an expected-value list.
type Expected struct {
	Raw      string
	Wildcard bool
	Value    float64
}

// Section returns the section with the given name.
func (s *Suite) Section(name string) (*Section, bool) {
	for i := range s.Sections {
		if s.Sections[i].Name == name {
			return &s.Sections[i], true
		}
	}
	return nil, false
}

// Names returns section names in file order.
func (s *Suite) Names() []string {
	names := make([]string, len(s.Sections))
	for i, sec := range s.Sections {
		names[i] = sec.Name
	}
	return names
}
