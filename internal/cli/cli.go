// Package cli provides the simcheck command-line interface.
package cli

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/signal"

	"github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute runs the command tree against the given streams and maps the
// outcome to a process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	w := output.NewWithWriters(stdout, stderr, false)
	root := NewRootCommand(w)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return errors.ExitSuccess
	}

	// Anything cobra rejects before a command runs is a usage problem.
	var e *errors.Error
	if !stderrors.As(err, &e) {
		err = errors.Config(err.Error())
	}
	// The summary already reported failed comparisons.
	if !errors.IsKind(err, errors.KindMismatch) {
		w.ErrorPrefix("%v", err)
	}
	return errors.GetExitCode(err)
}
