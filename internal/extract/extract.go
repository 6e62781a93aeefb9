// Package extract scans simulation output for energy report lines.
package extract

import (
	"iter"
	"regexp"
	"strconv"
)

// Species identifies which energy a report line carries.
type Species string

const (
	Electrostatic Species = "ELEC"
	Apolar        Species = "APOL"
)

// FloatPattern matches a normalized scientific literal such as 1.234567890123E+02.
const FloatPattern = `[+-]?\d+\.\d+E[+-]\d+`

var energyPattern = regexp.MustCompile(`Global net (ELEC|APOL) energy = (` + FloatPattern + `)`)

// Energy is one parsed energy report.
type Energy struct {
	Species Species
	Value   float64
}

// Energies returns a sequence over every energy report in text, in order of
// appearance. The sequence can be ranged over any number of times.
func Energies(text []byte) iter.Seq[Energy] {
	return func(yield func(Energy) bool) {
		rest := text
		for len(rest) > 0 {
			loc := energyPattern.FindSubmatchIndex(rest)
			if loc == nil {
				return
			}
			value, err := strconv.ParseFloat(string(rest[loc[4]:loc[5]]), 64)
			// Huge exponents parse to ±Inf with ErrRange; keep those.
			if err != nil && !isRangeError(err) {
				rest = rest[loc[1]:]
				continue
			}
			if !yield(Energy{Species: Species(rest[loc[2]:loc[3]]), Value: value}) {
				return
			}
			rest = rest[loc[1]:]
		}
	}
}

// Values collects the numeric values of every energy report in text.
func Values(text []byte) []float64 {
	var values []float64
	for e := range Energies(text) {
		values = append(values, e.Value)
	}
	return values
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
