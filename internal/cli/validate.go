package cli

import (
	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simcheck/internal/binary"
	"github.com/AndreyAkinshin/simcheck/internal/errors"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var checkBinary bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the suite configuration without running it",
		Long: `Parse and validate the suite configuration file.

With --check-binary the simulation binary is also located, the same way a
run would.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, checkBinary)
		},
	}

	cmd.Flags().BoolVar(&checkBinary, "check-binary", false, "also locate the simulation binary")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *RootOptions, checkBinary bool) error {
	w := opts.out
	suite, err := loadSuite(opts)
	if err != nil {
		return err
	}

	cases := 0
	for _, s := range suite.Sections {
		cases += len(s.Cases)
	}
	w.Println("%s: %d section(s), %d case(s)", suite.Path, len(suite.Sections), cases)
	w.Println("tolerance: normal %s; strict %s", suite.Tolerance.Normal, suite.Tolerance.Strict)

	if checkBinary {
		bin, err := binary.NewLocator(opts.Binary, binary.DefaultName).Locate(cmd.Context())
		if err != nil {
			return errors.WrapKind(errors.KindEnvironment, err, "no simulation binary")
		}
		w.Println("binary: %s", bin)
	}

	w.FinalSuccess("Configuration is valid")
	return nil
}
