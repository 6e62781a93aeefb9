// Package verify implements the numeric verification policy used to judge
// computed simulation results against expected values.
package verify

import (
	"fmt"
	"math"
)

// Default tolerance coefficients.
const (
	DefaultRelativeTolerance       = 1e-6
	DefaultAbsoluteTolerance       = 1e-9
	DefaultStrictRelativeTolerance = 1e-12
	DefaultStrictAbsoluteTolerance = 1e-12
)

// Tolerance is one absolute-or-relative tolerance rule.
type Tolerance struct {
	Relative float64 `json:"relative" yaml:"relative"`
	Absolute float64 `json:"absolute" yaml:"absolute"`
}

// Band returns the allowed absolute difference between computed and expected.
// The relative part scales with the smaller magnitude, so the band is the same
// whichever value is called expected. When either value is zero it reduces to
// the absolute tolerance.
func (t Tolerance) Band(computed, expected float64) float64 {
	scale := math.Min(math.Abs(computed), math.Abs(expected))
	return math.Max(t.Absolute, t.Relative*scale)
}

// Within reports whether computed lies within the tolerance band around expected.
func (t Tolerance) Within(computed, expected float64) bool {
	if computed == expected {
		return true
	}
	return math.Abs(computed-expected) <= t.Band(computed, expected)
}

func (t Tolerance) String() string {
	return fmt.Sprintf("relative %g, absolute %g", t.Relative, t.Absolute)
}

// Policy holds the normal and strict (over-cautious) tolerance rules.
type Policy struct {
	Normal Tolerance `json:"normal" yaml:"normal"`
	Strict Tolerance `json:"strict" yaml:"strict"`
}

// DefaultPolicy returns the default verification policy.
func DefaultPolicy() Policy {
	return Policy{
		Normal: Tolerance{Relative: DefaultRelativeTolerance, Absolute: DefaultAbsoluteTolerance},
		Strict: Tolerance{Relative: DefaultStrictRelativeTolerance, Absolute: DefaultStrictAbsoluteTolerance},
	}
}

// Validate checks that the coefficients are finite and non-negative and that
// strict mode never accepts what normal mode rejects.
func (p Policy) Validate() error {
	for _, c := range []struct {
		name  string
		value float64
	}{
		{"normal.relative", p.Normal.Relative},
		{"normal.absolute", p.Normal.Absolute},
		{"strict.relative", p.Strict.Relative},
		{"strict.absolute", p.Strict.Absolute},
	} {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < 0 {
			return fmt.Errorf("tolerance %s must be a finite non-negative number, got %v", c.name, c.value)
		}
	}
	if p.Strict.Relative > p.Normal.Relative {
		return fmt.Errorf("strict relative tolerance %g is looser than normal %g", p.Strict.Relative, p.Normal.Relative)
	}
	if p.Strict.Absolute > p.Normal.Absolute {
		return fmt.Errorf("strict absolute tolerance %g is looser than normal %g", p.Strict.Absolute, p.Normal.Absolute)
	}
	return nil
}

// Tolerance returns the rule in effect for the given mode.
func (p Policy) Tolerance(strict bool) Tolerance {
	if strict {
		return p.Strict
	}
	return p.Normal
}

// Outcome is the result of one comparison.
type Outcome struct {
	Context   string
	Computed  float64
	Expected  float64
	Strict    bool
	Tolerance Tolerance
	Passed    bool
}

// Difference returns |computed - expected|.
func (o Outcome) Difference() float64 {
	return math.Abs(o.Computed - o.Expected)
}

// String returns a diagnostic suitable for both log channels.
func (o Outcome) String() string {
	mode := "normal"
	if o.Strict {
		mode = "strict"
	}
	verdict := "matched"
	rel := "<="
	if !o.Passed {
		verdict = "does not match"
		rel = ">"
	}
	return fmt.Sprintf("computed %.12E %s expected %.12E in %s (|diff| %.3E %s %.3E; %s mode, %s)",
		o.Computed, verdict, o.Expected, o.Context,
		o.Difference(), rel, o.Tolerance.Band(o.Computed, o.Expected), mode, o.Tolerance)
}

// Check compares computed against expected under the policy. It never panics;
// NaN on either side always fails.
func (p Policy) Check(computed, expected float64, context string, strict bool) Outcome {
	tol := p.Tolerance(strict)
	passed := false
	if !math.IsNaN(computed) && !math.IsNaN(expected) {
		passed = tol.Within(computed, expected)
	}
	return Outcome{
		Context:   context,
		Computed:  computed,
		Expected:  expected,
		Strict:    strict,
		Tolerance: tol,
		Passed:    passed,
	}
}

// Tally counts comparison outcomes.
type Tally struct {
	Passed int
	Failed int
}

// Record adds one outcome.
func (t *Tally) Record(o Outcome) {
	if o.Passed {
		t.Passed++
	} else {
		t.Failed++
	}
}

// Add merges another tally.
func (t *Tally) Add(other Tally) {
	t.Passed += other.Passed
	t.Failed += other.Failed
}

// Total returns the number of recorded outcomes.
func (t Tally) Total() int {
	return t.Passed + t.Failed
}
