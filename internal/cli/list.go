package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/simcheck/internal/runner"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List the sections and cases of the suite",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts)
		},
	}
}

func runList(opts *RootOptions) error {
	w := opts.out
	suite, err := loadSuite(opts)
	if err != nil {
		return err
	}

	names, missing := runner.Resolve(suite, opts.Targets)
	titleCase := cases.Title(language.English)
	headers := []string{"Case", "Mode", "Expected"}

	total := 0
	for _, name := range names {
		sec, _ := suite.Section(name)
		total += len(sec.Cases)
		w.Section(sec.Name)
		w.Println("directory: %s", sec.WorkingDirectory)
		w.Println("")

		rows := make([][]string, len(sec.Cases))
		for i, c := range sec.Cases {
			rows[i] = []string{c.InputFile(), titleCase.String(c.Mode.String()), c.ExpectedString()}
		}
		w.Table(headers, rows)
	}
	if len(missing) > 0 {
		w.Warning("%d requested section(s) not found in %s:", len(missing), suite.Path)
		w.List(missing)
	}

	w.Println("")
	w.Println("%d section(s), %d case(s) in %s", len(names), total, suite.Path)
	return nil
}
