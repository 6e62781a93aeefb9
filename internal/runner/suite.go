package runner

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/simcheck/internal/config"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Report is the outcome of a suite run.
type Report struct {
	Sections []SectionResult
	// Missing lists requested sections that the suite does not define.
	Missing []string
	Elapsed time.Duration
}

// Tally sums comparison outcomes across all sections.
func (r Report) Tally() verify.Tally {
	var t verify.Tally
	for _, s := range r.Sections {
		t.Add(s.Tally())
	}
	return t
}

// Errors counts case errors and aborted sections.
func (r Report) Errors() int {
	n := 0
	for _, s := range r.Sections {
		n += s.Errors()
		if s.Aborted != nil && s.Errors() == 0 {
			n++
		}
	}
	return n
}

// Passed reports whether every executed section passed.
func (r Report) Passed() bool {
	for _, s := range r.Sections {
		if !s.Passed() {
			return false
		}
	}
	return true
}

// Driver runs the requested sections of a suite one after another.
type Driver struct {
	Suite  *config.Suite
	Runner *CaseRunner
	Log    *logging.Logger
}

// Resolve maps requested section names onto the suite. No names, or any
// name equal to "all", selects every section in file order. Unknown names are
// returned separately, in request order and without duplicates.
func Resolve(suite *config.Suite, targets []string) (names, missing []string) {
	if len(targets) == 0 || slices.Contains(targets, config.AllSections) {
		return suite.Names(), nil
	}
	for _, t := range targets {
		if _, ok := suite.Section(t); !ok {
			if !slices.Contains(missing, t) {
				missing = append(missing, t)
			}
			continue
		}
		if !slices.Contains(names, t) {
			names = append(names, t)
		}
	}
	return names, missing
}

// Run executes the requested sections. A missing section is reported and
// skipped; it never stops the suite.
func (d *Driver) Run(ctx context.Context, targets []string) Report {
	start := time.Now()
	var rep Report

	names, missing := Resolve(d.Suite, targets)
	all := len(targets) == 0 || slices.Contains(targets, config.AllSections)
	requested := targets
	if all {
		d.Log.Message("Testing all sections")
		requested = names
	}
	d.Log.Message("The following sections will be tested: %s", strings.Join(requested, ", "))
	d.Log.Rule("=")

	d.Log.Log("suite started",
		zap.String("config", d.Suite.Path),
		zap.Strings("sections", names),
		zap.Strings("missing", missing))

	for _, name := range requested {
		if err := ctx.Err(); err != nil {
			break
		}
		d.Log.Message("Running tests for %s section", name)
		sec, ok := d.Suite.Section(name)
		if !ok {
			if !slices.Contains(rep.Missing, name) {
				rep.Missing = append(rep.Missing, name)
			}
			d.Log.Message("  %s section not found in %s", name, d.Suite.Path)
			d.Log.Message("  skipping...")
			d.Log.Message("")
			continue
		}
		if slices.ContainsFunc(rep.Sections, func(s SectionResult) bool { return s.Name == name }) {
			continue
		}
		rep.Sections = append(rep.Sections, d.Runner.RunSection(ctx, *sec))
	}

	rep.Elapsed = time.Since(start)
	t := rep.Tally()
	d.Log.Log("suite finished",
		zap.Int("passed", t.Passed),
		zap.Int("failed", t.Failed),
		zap.Int("errors", rep.Errors()),
		zap.Strings("missing", rep.Missing),
		zap.Duration("elapsed", rep.Elapsed))
	return rep
}
