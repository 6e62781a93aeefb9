package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/simcheck/internal/config"
	simerrors "github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/forces"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/split"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// ForceChecker verifies per-atom forces of a forces-mode case.
type ForceChecker interface {
	Check(ctx context.Context, dir, inputFile, polarRef, apolarRef string) (verify.Tally, error)
}

// CaseResult is the outcome of one test case.
type CaseResult struct {
	Name    string
	Mode    config.Mode
	Tally   verify.Tally
	Err     error
	Skipped bool
	Elapsed time.Duration
}

// Passed reports whether the case ran without errors or mismatches.
func (r CaseResult) Passed() bool {
	return !r.Skipped && r.Err == nil && r.Tally.Failed == 0
}

// SectionResult is the outcome of one section.
type SectionResult struct {
	Name      string
	Directory string
	Cases     []CaseResult
	// Aborted is set when the section stopped early; remaining cases are
	// marked skipped.
	Aborted error
	Elapsed time.Duration
}

// Tally sums comparison outcomes across the section's cases.
func (r SectionResult) Tally() verify.Tally {
	var t verify.Tally
	for _, c := range r.Cases {
		t.Add(c.Tally)
	}
	return t
}

// Errors counts cases that ended in an error other than a numeric mismatch.
func (r SectionResult) Errors() int {
	n := 0
	for _, c := range r.Cases {
		if c.Err != nil {
			n++
		}
	}
	return n
}

// Skipped counts cases that never ran.
func (r SectionResult) Skipped() int {
	n := 0
	for _, c := range r.Cases {
		if c.Skipped {
			n++
		}
	}
	return n
}

// Passed reports whether every case in the section passed.
func (r SectionResult) Passed() bool {
	if r.Aborted != nil {
		return false
	}
	for _, c := range r.Cases {
		if !c.Passed() {
			return false
		}
	}
	return true
}

// CaseRunner runs and verifies the cases of a section. Input files and
// outputs are resolved against the section's working directory; the process
// working directory is never changed.
type CaseRunner struct {
	Serial      Serial
	Coordinator *Coordinator
	Forces      ForceChecker
	Policy      verify.Policy
	Strict      bool
	Log         *logging.Logger
}

// NewCaseRunner wires an Executor into a CaseRunner with the inputgen
// splitter and the force checker.
func NewCaseRunner(exec *Executor, policy verify.Policy, strict bool, log *logging.Logger) *CaseRunner {
	return &CaseRunner{
		Serial: exec,
		Coordinator: &Coordinator{
			Serial:   exec,
			Splitter: split.Inputgen{},
			Log:      log,
		},
		Forces: &forces.Checker{
			Run:    exec.Output,
			Policy: policy,
			Strict: strict,
			Log:    log,
		},
		Policy: policy,
		Strict: strict,
		Log:    log,
	}
}

// RunSection runs every case of sec in file order. A launch failure or a
// cancelled context stops the section; every other error is recorded on its
// case and the section continues.
func (r *CaseRunner) RunSection(ctx context.Context, sec config.Section) SectionResult {
	res := SectionResult{Name: sec.Name, Directory: sec.WorkingDirectory}
	start := time.Now()
	log := r.Log.With(zap.String("section", sec.Name))

	log.Log("section started",
		zap.String("directory", sec.WorkingDirectory),
		zap.Int("cases", len(sec.Cases)))

	if info, err := os.Stat(sec.WorkingDirectory); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		e := simerrors.Wrap(err, fmt.Sprintf("section directory %s", sec.WorkingDirectory))
		e.Section = sec.Name
		res.Aborted = e
		log.CaseError(sec.Name, e)
		for _, c := range sec.Cases {
			res.Cases = append(res.Cases, CaseResult{Name: c.Name, Mode: c.Mode, Skipped: true})
		}
		res.Elapsed = time.Since(start)
		logSectionFinished(log, res)
		return res
	}

	for i, c := range sec.Cases {
		if res.Aborted == nil {
			res.Aborted = ctx.Err()
		}
		if res.Aborted != nil {
			for _, rest := range sec.Cases[i:] {
				res.Cases = append(res.Cases, CaseResult{Name: rest.Name, Mode: rest.Mode, Skipped: true})
			}
			break
		}

		cr := r.runCase(ctx, log, sec, c)
		res.Cases = append(res.Cases, cr)
		if simerrors.IsKind(cr.Err, simerrors.KindLaunch) {
			res.Aborted = cr.Err
		}
	}

	res.Elapsed = time.Since(start)
	log.Message("Total elapsed time: %d seconds", int(res.Elapsed.Seconds()))
	log.Message("Test results have been logged")
	log.Rule("-")

	logSectionFinished(log, res)
	return res
}

func logSectionFinished(log *logging.Logger, res SectionResult) {
	t := res.Tally()
	fields := []zap.Field{
		zap.Int("passed", t.Passed),
		zap.Int("failed", t.Failed),
		zap.Int("errors", res.Errors()),
		zap.Int("skipped", res.Skipped()),
		zap.Duration("elapsed", res.Elapsed),
	}
	if res.Aborted != nil {
		fields = append(fields, zap.NamedError("aborted", res.Aborted))
	}
	log.Log("section finished", fields...)
}

func (r *CaseRunner) runCase(ctx context.Context, log *logging.Logger, sec config.Section, c config.Case) CaseResult {
	cr := CaseResult{Name: c.Name, Mode: c.Mode}
	input := c.InputFile()
	start := time.Now()

	log.Rule("-")
	if c.Mode == config.ModeForces {
		log.Message("Testing forces from %s", input)
	} else {
		log.Message("Testing input file %s", input)
	}
	log.Message("")
	log.Log("case started",
		zap.String("input", input),
		zap.Stringer("mode", c.Mode),
		zap.String("expected", c.ExpectedString()))

	if c.Mode == config.ModeForces {
		cr.Tally, cr.Err = r.Forces.Check(ctx, sec.WorkingDirectory, input, forces.PolarReference, forces.ApolarReference)
	} else {
		cr.Tally, cr.Err = r.checkValues(ctx, log, sec.WorkingDirectory, c)
	}

	if cr.Err != nil {
		var e *simerrors.Error
		if errors.As(cr.Err, &e) && e.Section == "" {
			e.Section = sec.Name
		}
		log.CaseError(input, cr.Err)
	}

	cr.Elapsed = time.Since(start)
	log.Message("Elapsed time: %f seconds", cr.Elapsed.Seconds())
	log.Rule("-")
	log.Log("case finished",
		zap.String("input", input),
		zap.Int("passed", cr.Tally.Passed),
		zap.Int("failed", cr.Tally.Failed),
		zap.Bool("error", cr.Err != nil),
		zap.Duration("elapsed", cr.Elapsed))
	return cr
}

func (r *CaseRunner) checkValues(ctx context.Context, log *logging.Logger, dir string, c config.Case) (verify.Tally, error) {
	var tally verify.Tally
	input := c.InputFile()

	text, err := os.ReadFile(filepath.Join(dir, input))
	if err != nil {
		return tally, simerrors.Wrap(err, fmt.Sprintf("read input %s", input))
	}
	d, decomposed, err := split.Parse(text)
	if err != nil {
		return tally, simerrors.Extraction(input, "%v", err)
	}

	var res Result
	if decomposed {
		log.Log("decomposed input",
			zap.String("input", input),
			zap.String("decomposition", describe(d)),
			zap.Int("partitions", d.Partitions()))
		res, err = r.Coordinator.Run(ctx, dir, input, d.Partitions())
	} else {
		res, err = r.Serial.Run(ctx, dir, input)
	}
	if err != nil {
		return tally, err
	}

	if err := checkLength(input, c.Expected, res); err != nil {
		return tally, err
	}

	for i, exp := range c.Expected {
		if exp.Wildcard {
			continue
		}
		computed := res.Values[i]
		log.Message("Testing computed result %.12E against expected result %12E", computed, exp.Value)
		o := r.Policy.Check(computed, exp.Value, fmt.Sprintf("%s value %d", input, i), r.Strict)
		log.Comparison(o)
		tally.Record(o)
	}
	return tally, nil
}

// checkLength fails when a non-wildcard expected position has no computed
// counterpart. Wildcards past the end are fine.
func checkLength(input string, expected []config.Expected, res Result) error {
	last := -1
	for i, exp := range expected {
		if !exp.Wildcard {
			last = i
		}
	}
	if last < len(res.Values) {
		return nil
	}
	msg := fmt.Sprintf("expected value %d (%s) has no computed counterpart: output reported %d energies",
		last, expected[last].Raw, len(res.Values))
	if res.ExitCode != 0 {
		msg += fmt.Sprintf(" (binary exited with status %d)", res.ExitCode)
	}
	return simerrors.Extraction(input, "%s", msg)
}
