package binary

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// childEnv makes a re-executed test binary exit immediately with status 3, a
// stand-in for a simulation binary that starts but fails.
const childEnv = "SIMCHECK_PROBE_CHILD"

func TestMain(m *testing.M) {
	if os.Getenv(childEnv) == "1" {
		os.Exit(3)
	}
	os.Exit(m.Run())
}

func testExecutable(t *testing.T) string {
	t.Helper()
	t.Setenv(childEnv, "1")
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	return exe
}

func TestProbe_NonZeroExitIsFound(t *testing.T) {
	exe := testExecutable(t)

	if err := Probe(context.Background(), exe); err != nil {
		t.Errorf("Probe() error = %v, want nil for a binary that starts", err)
	}
}

func TestProbe_Missing(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "no-such-apbs")
	if err := Probe(context.Background(), missing); err == nil {
		t.Error("Probe() of a missing binary should fail")
	}
}

func TestProbe_NotExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit is not meaningful on Windows")
	}
	t.Parallel()

	path := filepath.Join(t.TempDir(), "apbs")
	if err := os.WriteFile(path, []byte("not a program"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := Probe(context.Background(), path); err == nil {
		t.Error("Probe() of a non-executable file should fail")
	}
}

func TestLocator_Locate(t *testing.T) {
	exe := testExecutable(t)
	missing := filepath.Join(t.TempDir(), "no-such-apbs")

	l := &Locator{Candidates: []string{missing, exe}}
	got, err := l.Locate(context.Background())
	if err != nil {
		t.Fatalf("Locate() error = %v", err)
	}
	if got != exe {
		t.Errorf("Locate() = %q, want %q", got, exe)
	}
}

func TestLocator_LocateFirstWins(t *testing.T) {
	exe := testExecutable(t)

	l := &Locator{Candidates: []string{exe, filepath.Join(t.TempDir(), "other")}}
	got, err := l.Locate(context.Background())
	if err != nil || got != exe {
		t.Errorf("Locate() = %q, %v; want %q", got, err, exe)
	}
}

func TestLocator_NotFound(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")

	_, err := (&Locator{Candidates: []string{a, b}}).Locate(context.Background())
	if err == nil {
		t.Fatal("Locate() should fail when no candidate starts")
	}
	for _, want := range []string{"couldn't detect a binary", a, b} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Locate() error = %q, missing %q", err, want)
		}
	}
}

func TestNewLocator(t *testing.T) {
	t.Parallel()

	l := NewLocator("/opt/apbs/bin/apbs", DefaultName)
	if len(l.Candidates) != 3 {
		t.Fatalf("Candidates = %v, want 3 entries", l.Candidates)
	}
	if l.Candidates[0] != "/opt/apbs/bin/apbs" || l.Candidates[1] != DefaultName {
		t.Errorf("Candidates = %v", l.Candidates)
	}
	if !filepath.IsAbs(l.Candidates[2]) || filepath.Base(l.Candidates[2]) != DefaultName {
		t.Errorf("fallback candidate = %q, want absolute path ending in %s", l.Candidates[2], DefaultName)
	}
	if filepath.Base(filepath.Dir(l.Candidates[2])) != "bin" {
		t.Errorf("fallback candidate = %q, want a bin directory", l.Candidates[2])
	}

	if got := NewLocator("", DefaultName).Candidates; len(got) != 2 || got[0] != DefaultName {
		t.Errorf("Candidates without override = %v", got)
	}
}
