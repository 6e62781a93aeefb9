package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simcheck/internal/config"
	"github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/output"
)

// RootOptions holds the flags shared by every command.
type RootOptions struct {
	ConfigFile string
	Targets    []string
	Strict     bool
	LogFile    string
	Binary     string
	Timeout    time.Duration
	Splitter   string
	Quiet      bool
	NoColor    bool

	out *output.Writer
}

// NewRootCommand creates the simcheck command tree. Running the root command
// without a subcommand runs the suite.
func NewRootCommand(w *output.Writer) *cobra.Command {
	opts := &RootOptions{out: w}

	cmd := &cobra.Command{
		Use:   "simcheck",
		Short: "Regression harness for the simulation binary",
		Long: `simcheck runs the test cases of a suite file against the simulation binary,
extracts the reported energies and verifies them against expected values.

Sections are run in file order unless --target-test selects some of them.
Decomposed inputs are split into partitions, run one by one and summed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			w.SetQuiet(opts.Quiet)
			w.SetColor(!opts.NoColor && output.IsTerminal(cmd.OutOrStdout()))
			if opts.Timeout < 0 {
				return errors.Configf("invalid --timeout %s: must not be negative", opts.Timeout)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuite(cmd.Context(), opts)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigFile, "test-config", "c", config.DefaultConfigFile, "suite configuration file (.cfg or .yaml)")
	flags.StringArrayVarP(&opts.Targets, "target-test", "t", nil, fmt.Sprintf("section to run; repeatable (%q runs every section)", config.AllSections))
	flags.BoolVarP(&opts.Strict, "ocd", "o", false, "strict mode: verify with the tighter tolerance")
	flags.StringVarP(&opts.LogFile, "log-file", "l", config.DefaultLogFile, "structured log file (truncated on start)")
	flags.StringVarP(&opts.Binary, "binary", "b", "", "simulation binary to try before the default locations")
	flags.DurationVar(&opts.Timeout, "timeout", 0, "per-process timeout (0 disables)")
	flags.StringVar(&opts.Splitter, "splitter", "", "external splitting command used instead of the built-in splitter")
	flags.BoolVarP(&opts.Quiet, "quiet", "q", false, "print only failures and the summary")
	flags.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewVersionCommand(opts))

	return cmd
}

// loadSuite loads the configured suite file, reporting failures as
// configuration errors.
func loadSuite(opts *RootOptions) (*config.Suite, error) {
	suite, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, errors.WrapKind(errors.KindConfig, err, "couldn't load test configuration")
	}
	return suite, nil
}
