package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/simcheck/internal/binary"
	"github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/output"
	"github.com/AndreyAkinshin/simcheck/internal/runner"
	"github.com/AndreyAkinshin/simcheck/internal/split"
)

// NewRunCommand creates the run command. It is the same action as the bare
// root command.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the test suite (default)",
		Long: `Run the selected sections of the test suite.

Exit status is 0 when every comparison passed, 1 when any comparison failed
or a case errored, 2 for configuration errors and 3 when the binary cannot be
found or the log file cannot be written.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd.Context(), opts)
		},
	}
}

func runSuite(ctx context.Context, opts *RootOptions) error {
	w := opts.out

	suite, err := loadSuite(opts)
	if err != nil {
		return err
	}

	bin, err := binary.NewLocator(opts.Binary, binary.DefaultName).Locate(ctx)
	if err != nil {
		return errors.WrapKind(errors.KindEnvironment, err, "no simulation binary")
	}

	log, err := logging.Open(opts.LogFile, w)
	if err != nil {
		return errors.WrapKind(errors.KindEnvironment, err, "unusable log path")
	}
	defer func() { _ = log.Close() }()

	exec := runner.NewExecutor(bin, log)
	exec.Timeout = opts.Timeout
	cr := runner.NewCaseRunner(exec, suite.Tolerance, opts.Strict, log)
	if fields := strings.Fields(opts.Splitter); len(fields) > 0 {
		cr.Coordinator.Splitter = split.Command{Name: fields[0], Args: fields[1:]}
	}

	log.Log("run started",
		zap.String("version", Version),
		zap.String("binary", bin),
		zap.String("config", suite.Path),
		zap.Strings("targets", opts.Targets),
		zap.Bool("strict", opts.Strict),
		zap.Duration("timeout", opts.Timeout))

	driver := &runner.Driver{Suite: suite, Runner: cr, Log: log}
	rep := driver.Run(ctx, opts.Targets)

	printSummary(w, rep, opts.Strict)

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "interrupted")
	}
	t := rep.Tally()
	if !rep.Passed() {
		w.FinalFailure("%d of %d comparisons failed, %d case error(s)", t.Failed, t.Total(), rep.Errors())
		return errors.Mismatch(t.Failed, rep.Errors())
	}
	w.FinalSuccess("All %d comparisons passed", t.Total())
	return nil
}

var summaryColumns = []string{"section", "passed", "failed", "errors", "skipped", "status"}

// printSummary writes the per-section results table and totals.
func printSummary(w *output.Writer, rep runner.Report, strict bool) {
	titleCase := cases.Title(language.English)
	headers := make([]string, len(summaryColumns))
	for i, c := range summaryColumns {
		headers[i] = titleCase.String(c)
	}

	rows := make([][]string, 0, len(rep.Sections))
	for _, s := range rep.Sections {
		t := s.Tally()
		rows = append(rows, []string{
			s.Name,
			fmt.Sprint(t.Passed),
			fmt.Sprint(t.Failed),
			fmt.Sprint(s.Errors()),
			fmt.Sprint(s.Skipped()),
			sectionStatus(s),
		})
	}

	w.SummaryHeader("Test Summary")
	if len(rows) > 0 {
		w.Table(headers, rows)
		w.Println("")
	}

	t := rep.Tally()
	mode := "normal"
	if strict {
		mode = "strict"
	}
	w.SummaryItem("Mode", mode)
	w.SummaryPassed("Passed", fmt.Sprint(t.Passed))
	if t.Failed > 0 {
		w.SummaryFailed("Failed", fmt.Sprint(t.Failed))
	}
	if n := rep.Errors(); n > 0 {
		w.SummaryFailed("Errors", fmt.Sprint(n))
	}
	if len(rep.Missing) > 0 {
		w.SummaryItem("Not found", strings.Join(rep.Missing, ", "))
	}
	w.SummaryItem("Elapsed", rep.Elapsed.Round(time.Millisecond).String())
}

func sectionStatus(s runner.SectionResult) string {
	switch {
	case s.Aborted != nil:
		return "ABORTED"
	case s.Passed():
		return "PASS"
	default:
		return "FAIL"
	}
}
