package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AndreyAkinshin/simcheck/internal/cli"
	"github.com/AndreyAkinshin/simcheck/internal/config"
	"github.com/AndreyAkinshin/simcheck/internal/errors"
	"github.com/AndreyAkinshin/simcheck/internal/testing/fakesim"
)

func TestConfigFileMissingError(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "test_cases.cfg"))
	if err == nil {
		t.Error("expected error when loading missing config file")
	}
}

func TestConfigInvalidYAMLError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "suite.yaml")
	if err := os.WriteFile(path, []byte("sections:\n  - name: born\n    input_dir: born\n    extra: true\n"), 0o644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := config.Load(path)
	if err == nil {
		t.Fatal("expected schema error for unknown section property")
	}
	if !strings.Contains(err.Error(), "suite validation failed") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestMismatchInFixture(t *testing.T) {
	t.Setenv(fakesim.EnvVar, "1")
	dir := copyFixture(t, "born")
	cfg := filepath.Join(dir, "test_cases.cfg")
	data, err := os.ReadFile(cfg)
	if err != nil {
		t.Fatal(err)
	}
	data = bytes.Replace(data, []byte("apbs-para = 4.0E+01"), []byte("apbs-para = 3.0E+01"), 1)
	if err := os.WriteFile(cfg, data, 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(),
		[]string{"-c", cfg, "-l", filepath.Join(dir, "test.log"), "-b", fakeBinary(t)},
		&stdout, &stderr)

	if code != errors.ExitRuntimeError {
		t.Fatalf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stdout.String(), "1 of 11 comparisons failed") {
		t.Errorf("unexpected summary:\n%s", stdout.String())
	}
}

func TestMissingSectionDirectory(t *testing.T) {
	t.Setenv(fakesim.EnvVar, "1")
	dir := copyFixture(t, "born")
	if err := os.RemoveAll(filepath.Join(dir, "forces")); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := cli.Execute(context.Background(),
		[]string{"-c", filepath.Join(dir, "test_cases.cfg"), "-l", filepath.Join(dir, "test.log"), "-b", fakeBinary(t)},
		&stdout, &stderr)

	if code != errors.ExitRuntimeError {
		t.Fatalf("exit code = %d, want %d", code, errors.ExitRuntimeError)
	}
	if !strings.Contains(stdout.String(), "ABORTED") {
		t.Errorf("summary should mark the section aborted:\n%s", stdout.String())
	}
}
