// Package runner executes test cases against the simulation binary: serial
// runs, decomposed multi-partition runs, per-case verification, and the
// section-by-section suite driver.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	simerrors "github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/extract"
	"github.com/AndreyAkinshin/simcheck/internal/logging"
	"github.com/AndreyAkinshin/simcheck/internal/split"
)

// OutputExtension names the file that captures a run's standard output.
const OutputExtension = ".out"

// maxStderrTail bounds how much of the binary's stderr is quoted in warnings.
const maxStderrTail = 2048

// waitDelay bounds how long Run waits for output pipes to close after the
// process was killed. Grandchildren that inherited the pipes would otherwise
// hold Wait open until they exit.
const waitDelay = time.Second

// Result is what one invocation of the binary produced.
type Result struct {
	Output   []byte
	Values   []float64
	ExitCode int
}

// Serial runs a single input file to completion.
type Serial interface {
	Run(ctx context.Context, dir, inputFile string) (Result, error)
}

// Executor invokes the simulation binary once per input file. Output goes to
// <base>.out next to the input and is re-read for energy extraction.
type Executor struct {
	Binary  string
	Timeout time.Duration
	// Env is appended to the inherited environment of every invocation.
	Env []string
	Log *logging.Logger
}

// NewExecutor creates an Executor for binary. A relative binary path is made
// absolute because the binary is launched from each section's directory.
func NewExecutor(binary string, log *logging.Logger) *Executor {
	if strings.ContainsRune(binary, filepath.Separator) && !filepath.IsAbs(binary) {
		if abs, err := filepath.Abs(binary); err == nil {
			binary = abs
		}
	}
	return &Executor{Binary: binary, Log: log}
}

// Run executes inputFile inside dir and extracts the reported energies. A
// non-zero exit status is logged as a warning and returned in the Result.
func (e *Executor) Run(ctx context.Context, dir, inputFile string) (Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	outPath := filepath.Join(dir, split.BaseName(inputFile)+OutputExtension)
	outFile, err := os.Create(outPath)
	if err != nil {
		return Result{}, simerrors.Launch(inputFile, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.Binary, inputFile)
	cmd.Dir = dir
	cmd.Stdout = outFile
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		_ = outFile.Close()
		return Result{}, simerrors.Launch(inputFile, err)
	}
	waitErr := cmd.Wait()
	if err := outFile.Close(); err != nil {
		return Result{}, fmt.Errorf("close %s: %w", outPath, err)
	}

	res := Result{}
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case ctx.Err() != nil:
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && e.Timeout > 0 {
			return Result{}, simerrors.Newf("%s timed out after %s", inputFile, e.Timeout)
		}
		return Result{}, ctx.Err()
	case errors.As(waitErr, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		e.Log.Warn(fmt.Sprintf("%s exited with status %d on %s", filepath.Base(e.Binary), res.ExitCode, inputFile),
			zap.String("input", inputFile),
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", tail(stderr.String(), maxStderrTail)))
	default:
		return Result{}, simerrors.Launch(inputFile, waitErr)
	}

	res.Output, err = os.ReadFile(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", outPath, err)
	}
	res.Values = extract.Values(res.Output)

	e.Log.Log("binary finished",
		zap.String("input", inputFile),
		zap.String("directory", dir),
		zap.Int("exit_code", res.ExitCode),
		zap.Int("energies", len(res.Values)),
		zap.Duration("elapsed", time.Since(start)))
	return res, nil
}

// Output runs inputFile and returns its raw standard output. It adapts the
// Executor to the force checker.
func (e *Executor) Output(ctx context.Context, dir, inputFile string) ([]byte, error) {
	res, err := e.Run(ctx, dir, inputFile)
	if err != nil {
		return nil, err
	}
	return res.Output, nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
