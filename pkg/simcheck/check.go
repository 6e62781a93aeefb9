package simcheck

import (
	"fmt"

	"github.com/AndreyAkinshin/simcheck/internal/config"
	"github.com/AndreyAkinshin/simcheck/internal/extract"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Outcome is the verdict for one expected position.
type Outcome struct {
	Index    int
	Computed float64
	Expected float64
	Passed   bool
	Detail   string
}

// Energies returns the energies reported in simulation output, in order.
func Energies(output []byte) []float64 {
	return extract.Values(output)
}

// Check verifies computed values against an expected-value string as written
// in a suite file ("1.5 * -2.0"). Wildcard positions are skipped and produce no
// Outcome. An error is returned for a malformed expected string or when a
// non-wildcard position has no computed value.
func Check(computed []float64, expected string, strict bool) ([]Outcome, error) {
	c, err := config.ParseCase("check", expected)
	if err != nil {
		return nil, err
	}
	if c.Mode == config.ModeForces {
		return nil, fmt.Errorf("%q cannot be checked against energies", expected)
	}

	policy := verify.DefaultPolicy()
	var outcomes []Outcome
	for i, exp := range c.Expected {
		if exp.Wildcard {
			continue
		}
		if i >= len(computed) {
			return outcomes, fmt.Errorf("expected value %d (%s) has no computed counterpart: %d values computed", i, exp.Raw, len(computed))
		}
		o := policy.Check(computed[i], exp.Value, fmt.Sprintf("value %d", i), strict)
		outcomes = append(outcomes, Outcome{
			Index:    i,
			Computed: o.Computed,
			Expected: o.Expected,
			Passed:   o.Passed,
			Detail:   o.String(),
		})
	}
	return outcomes, nil
}

// AllPassed reports whether every outcome passed.
func AllPassed(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if !o.Passed {
			return false
		}
	}
	return true
}
