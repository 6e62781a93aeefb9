package verify

import (
	"math"
	"strings"
	"testing"
)

func TestPolicy_Check(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	tests := []struct {
		name     string
		computed float64
		expected float64
		strict   bool
		pass     bool
	}{
		{"exact", 123.4567890123, 123.4567890123, false, true},
		{"printed energy", 1.234567890123e+02, 123.4567890123, false, true},
		{"within relative", 100.0, 100.0 + 1e-5, false, true},
		{"outside relative", 100.0, 100.1, false, false},
		{"far off", 123.4567890123, 999.0, false, false},
		{"strict rejects small drift", 100.0, 100.0 + 1e-5, true, false},
		{"strict accepts exact", 100.0, 100.0, true, true},
		{"strict accepts last digit noise", 1.0, 1.0 + 1e-13, true, true},
		{"zero expected within absolute", 1e-10, 0, false, true},
		{"zero expected outside absolute", 1e-8, 0, false, false},
		{"zero both", 0, 0, true, true},
		{"negative values", -4.5e3, -4.5e3 * (1 + 1e-7), false, true},
		{"opposite signs", 1e-3, -1e-3, false, false},
		{"NaN computed", math.NaN(), 1.0, false, false},
		{"NaN expected", 1.0, math.NaN(), false, false},
		{"equal infinities", math.Inf(1), math.Inf(1), false, true},
		{"opposite infinities", math.Inf(1), math.Inf(-1), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o := p.Check(tt.computed, tt.expected, "case.in", tt.strict)
			if o.Passed != tt.pass {
				t.Errorf("Check(%v, %v, strict=%v).Passed = %v, want %v (%s)", tt.computed, tt.expected, tt.strict, o.Passed, tt.pass, o)
			}
			if o.Strict != tt.strict {
				t.Errorf("Outcome.Strict = %v, want %v", o.Strict, tt.strict)
			}
		})
	}
}

// samplePairs spans magnitudes, signs and zero for property checks.
func samplePairs() [][2]float64 {
	values := []float64{0, 1e-15, -1e-15, 1e-12, 1e-9, -1e-9, 1e-6, 0.5, 1, -1, 1 + 1e-13, 1 + 1e-7, 1 + 1e-5,
		123.4567890123, 123.4567890124, 123.4568, -123.4567890123, 1e6, 1e6 + 0.5, 1e6 + 2, 1e12}
	var pairs [][2]float64
	for _, a := range values {
		for _, b := range values {
			pairs = append(pairs, [2]float64{a, b})
		}
	}
	return pairs
}

func TestPolicy_Symmetric(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	for _, pair := range samplePairs() {
		for _, strict := range []bool{false, true} {
			ab := p.Check(pair[0], pair[1], "ctx", strict).Passed
			ba := p.Check(pair[1], pair[0], "ctx", strict).Passed
			if ab != ba {
				t.Errorf("asymmetric result for (%v, %v) strict=%v: %v vs %v", pair[0], pair[1], strict, ab, ba)
			}
		}
	}
}

func TestPolicy_StrictNeverLooser(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	for _, pair := range samplePairs() {
		strict := p.Check(pair[0], pair[1], "ctx", true).Passed
		normal := p.Check(pair[0], pair[1], "ctx", false).Passed
		if strict && !normal {
			t.Errorf("strict accepted (%v, %v) that normal rejected", pair[0], pair[1])
		}
	}
}

func TestTolerance_ZeroExpectedUsesAbsolute(t *testing.T) {
	t.Parallel()
	tol := Tolerance{Relative: 0.5, Absolute: 1e-3}

	if got := tol.Band(1000, 0); got != 1e-3 {
		t.Errorf("Band(1000, 0) = %v, want 1e-3", got)
	}
	if tol.Within(2e-3, 0) {
		t.Error("Within(2e-3, 0) should fail with absolute 1e-3")
	}
	if !tol.Within(5e-4, 0) {
		t.Error("Within(5e-4, 0) should pass with absolute 1e-3")
	}
}

func TestPolicy_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		policy  Policy
		wantErr string
	}{
		{"default", DefaultPolicy(), ""},
		{"equal modes", Policy{Normal: Tolerance{1e-6, 1e-9}, Strict: Tolerance{1e-6, 1e-9}}, ""},
		{"strict relative looser", Policy{Normal: Tolerance{1e-6, 1e-9}, Strict: Tolerance{1e-3, 1e-9}}, "strict relative"},
		{"strict absolute looser", Policy{Normal: Tolerance{1e-6, 1e-9}, Strict: Tolerance{1e-12, 1e-3}}, "strict absolute"},
		{"negative", Policy{Normal: Tolerance{-1, 1e-9}}, "normal.relative"},
		{"NaN", Policy{Normal: Tolerance{1e-6, math.NaN()}}, "normal.absolute"},
		{"infinite", Policy{Normal: Tolerance{1e-6, 1e-9}, Strict: Tolerance{math.Inf(1), 0}}, "strict.relative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.policy.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestOutcome_String(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	fail := p.Check(123.4567890123, 999.0, "case1.in", false).String()
	for _, want := range []string{"1.234567890123E+02", "9.990000000000E+02", "does not match", "case1.in", "normal mode"} {
		if !strings.Contains(fail, want) {
			t.Errorf("String() = %q, missing %q", fail, want)
		}
	}

	pass := p.Check(1, 1, "case1.in", true).String()
	if !strings.Contains(pass, "matched") || !strings.Contains(pass, "strict mode") {
		t.Errorf("String() = %q", pass)
	}
}

func TestTally(t *testing.T) {
	t.Parallel()
	p := DefaultPolicy()

	var a Tally
	a.Record(p.Check(1, 1, "x", false))
	a.Record(p.Check(1, 2, "x", false))
	a.Record(p.Check(2, 2, "x", true))

	var b Tally
	b.Record(p.Check(0, 5, "y", false))
	a.Add(b)

	if a.Passed != 2 || a.Failed != 2 || a.Total() != 4 {
		t.Errorf("Tally = %+v (total %d), want 2 passed 2 failed", a, a.Total())
	}
}
