// Package forces verifies per-atom forces reported by the simulation binary
// against reference force files.
package forces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"go.uber.org/zap"

	simerrors "github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Reference file names for the two force classes.
const (
	PolarReference  = "polarforces"
	ApolarReference = "apolarforces"
)

// Class separates electrostatic from apolar force reports.
type Class string

const (
	Polar  Class = "polar"
	Apolar Class = "apolar"
)

var apolarKinds = map[string]bool{"sasa": true, "sav": true, "wca": true}

const numberPattern = `[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`

var (
	blockHeader = regexp.MustCompile(`Printing per-atom forces`)
	forceLine   = regexp.MustCompile(`^\s*(tot|qf|ib|db|sasa|sav|wca)\s+(\d+)\s+(` + numberPattern + `)\s+(` + numberPattern + `)\s+(` + numberPattern + `)\s*$`)
)

// Key identifies one force vector: its kind and atom index.
type Key struct {
	Kind string
	Atom int
}

func (k Key) String() string {
	return fmt.Sprintf("%s %d", k.Kind, k.Atom)
}

// Vector is one per-atom force.
type Vector struct {
	Key
	Components [3]float64
}

// Report holds the forces of one class in order of appearance.
type Report []Vector

// Lookup returns the vector with key k.
func (r Report) Lookup(k Key) (Vector, bool) {
	for _, v := range r {
		if v.Key == k {
			return v, true
		}
	}
	return Vector{}, false
}

// ParseReport reads every force line in text regardless of block structure.
// Reference files use this form.
func ParseReport(text []byte) (Report, error) {
	var r Report
	for _, line := range bytes.Split(text, []byte("\n")) {
		v, ok, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			r = append(r, v)
		}
	}
	return r, nil
}

// ParseOutput splits simulation output into polar and apolar reports. Each
// "Printing per-atom forces" header opens a block; a block containing any
// sasa, sav or wca line is apolar, otherwise polar.
func ParseOutput(text []byte) (map[Class]Report, error) {
	reports := map[Class]Report{}
	var block Report
	apolar := false
	flush := func() {
		if len(block) == 0 {
			return
		}
		class := Polar
		if apolar {
			class = Apolar
		}
		reports[class] = append(reports[class], block...)
		block, apolar = nil, false
	}

	inBlock := false
	for _, line := range bytes.Split(text, []byte("\n")) {
		if blockHeader.Match(line) {
			flush()
			inBlock = true
			continue
		}
		if !inBlock {
			continue
		}
		v, ok, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if apolarKinds[v.Kind] {
			apolar = true
		}
		block = append(block, v)
	}
	flush()
	return reports, nil
}

func parseLine(line []byte) (Vector, bool, error) {
	m := forceLine.FindSubmatch(line)
	if m == nil {
		return Vector{}, false, nil
	}
	atom, err := strconv.Atoi(string(m[2]))
	if err != nil {
		return Vector{}, false, fmt.Errorf("force line %q: %w", line, err)
	}
	v := Vector{Key: Key{Kind: string(m[1]), Atom: atom}}
	for i := 0; i < 3; i++ {
		v.Components[i], err = strconv.ParseFloat(string(m[3+i]), 64)
		if err != nil {
			return Vector{}, false, fmt.Errorf("force line %q: %w", line, err)
		}
	}
	return v, true, nil
}

// RunFunc runs the simulation binary on inputFile inside dir and returns its
// captured standard output.
type RunFunc func(ctx context.Context, dir, inputFile string) ([]byte, error)

// Checker runs an input and compares its forces with reference files.
type Checker struct {
	Run    RunFunc
	Policy verify.Policy
	Strict bool
	Log    *logging.Logger
}

// Check runs inputFile and verifies every reference force component. A
// missing reference file skips its class with a warning; both missing is an
// error.
func (c *Checker) Check(ctx context.Context, dir, inputFile, polarRef, apolarRef string) (verify.Tally, error) {
	var tally verify.Tally

	text, err := c.Run(ctx, dir, inputFile)
	if err != nil {
		return tally, err
	}
	computed, err := ParseOutput(text)
	if err != nil {
		return tally, simerrors.Extraction(inputFile, "%v", err)
	}

	checked := 0
	for _, ref := range []struct {
		class Class
		file  string
	}{
		{Polar, polarRef},
		{Apolar, apolarRef},
	} {
		data, err := os.ReadFile(filepath.Join(dir, ref.file))
		if errors.Is(err, fs.ErrNotExist) {
			c.Log.Warn(fmt.Sprintf("no %s reference file %s; skipping %s forces", ref.class, ref.file, ref.class),
				zap.String("input", inputFile))
			continue
		}
		if err != nil {
			return tally, fmt.Errorf("read %s: %w", ref.file, err)
		}
		expected, err := ParseReport(data)
		if err != nil {
			return tally, fmt.Errorf("parse %s: %w", ref.file, err)
		}
		checked++

		c.Log.Message("Checking %s forces against %s", ref.class, ref.file)
		t, err := c.compare(inputFile, ref.class, expected, computed[ref.class])
		tally.Add(t)
		if err != nil {
			return tally, err
		}
	}

	if checked == 0 {
		return tally, simerrors.Extraction(inputFile, "neither %s nor %s reference file found in %s", polarRef, apolarRef, dir)
	}
	return tally, nil
}

var axes = [3]string{"x", "y", "z"}

func (c *Checker) compare(inputFile string, class Class, expected, computed Report) (verify.Tally, error) {
	var tally verify.Tally
	for _, want := range expected {
		got, ok := computed.Lookup(want.Key)
		if !ok {
			return tally, simerrors.Extraction(inputFile, "%s force %s missing from output", class, want.Key)
		}
		for i := range want.Components {
			ctx := fmt.Sprintf("%s %s force %s %s", inputFile, class, want.Key, axes[i])
			o := c.Policy.Check(got.Components[i], want.Components[i], ctx, c.Strict)
			c.Log.Comparison(o)
			tally.Record(o)
		}
	}
	return tally, nil
}
