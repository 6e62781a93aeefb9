// Package binary locates a runnable simulation binary.
package binary

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

// Defaults for the target binary.
const (
	DefaultName  = "apbs"
	VersionFlag  = "--version"
	localBinPath = "../bin"
)

// Locator finds a binary by probing candidates in order.
type Locator struct {
	// Candidates are tried in order. Each must start when invoked with the
	// version flag; its exit status and output are ignored.
	Candidates []string
}

// NewLocator returns a Locator trying explicit (when set), then name on the
// execution path, then name under the ../bin directory.
func NewLocator(explicit, name string) *Locator {
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, explicit)
	}
	candidates = append(candidates, name)
	if abs, err := filepath.Abs(filepath.Join(localBinPath, name)); err == nil {
		candidates = append(candidates, abs)
	}
	return &Locator{Candidates: candidates}
}

// Locate returns the first candidate that starts, or an error listing every
// failed attempt.
func (l *Locator) Locate(ctx context.Context) (string, error) {
	var failures []string
	for _, candidate := range l.Candidates {
		if err := Probe(ctx, candidate); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", candidate, err))
			continue
		}
		return candidate, nil
	}
	return "", fmt.Errorf("couldn't detect a binary in the path or local bin directory (%s)", strings.Join(failures, "; "))
}

// Probe runs "binary --version" with output discarded. Only a failure to
// start the process is an error; a non-zero exit is not.
func Probe(ctx context.Context, binary string) error {
	cmd := exec.CommandContext(ctx, binary, VersionFlag)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Start(); err != nil {
		return err
	}
	_ = cmd.Wait()
	return nil
}
