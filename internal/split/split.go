// Package split detects domain-decomposition directives in simulation input
// files and splits such inputs into per-partition files.
package split

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// Directive is the keyword introducing the per-axis partition counts.
const Directive = "pdime"

// MaxPartitions caps the number of partition files a directive may request.
const MaxPartitions = 1 << 16

var directivePattern = regexp.MustCompile(`(?m)(?:^|\s)` + Directive + `((?:[ \t]+\d+)+)`)

// Decomposition is a parsed decomposition directive.
type Decomposition struct {
	Counts []int
}

// Partitions returns the product of the per-axis counts.
func (d Decomposition) Partitions() int {
	n := 1
	for _, c := range d.Counts {
		n *= c
	}
	return n
}

// Parse looks for a decomposition directive in text. The boolean is false when
// the input has none and should run serially.
func Parse(text []byte) (Decomposition, bool, error) {
	m := directivePattern.FindSubmatch(text)
	if m == nil {
		return Decomposition{}, false, nil
	}
	var d Decomposition
	total := 1
	for _, field := range strings.Fields(string(m[1])) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return Decomposition{}, true, fmt.Errorf("%s count %q: %w", Directive, field, err)
		}
		if n < 1 {
			return Decomposition{}, true, fmt.Errorf("%s count must be positive, got %d", Directive, n)
		}
		if n > MaxPartitions/total {
			return Decomposition{}, true, fmt.Errorf("%s %s requests more than %d partitions", Directive, strings.Join(strings.Fields(string(m[1])), " "), MaxPartitions)
		}
		total *= n
		d.Counts = append(d.Counts, n)
	}
	return d, true, nil
}

// BaseName strips the extension from an input file name.
func BaseName(inputFile string) string {
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile))
}

// PartitionFile returns the name of partition index's input file.
func PartitionFile(inputFile string, index int) string {
	return fmt.Sprintf("%s-PE%d.in", BaseName(inputFile), index)
}

// Splitter produces the per-partition input files for inputFile inside dir.
type Splitter interface {
	Split(ctx context.Context, dir, inputFile string) error
}

// VerifyPartitions checks that exactly partitions files named by PartitionFile
// exist in dir: indices 0..partitions-1 present and index partitions absent.
func VerifyPartitions(dir, inputFile string, partitions int) error {
	for i := 0; i < partitions; i++ {
		name := PartitionFile(inputFile, i)
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("splitter did not produce %s for %d partitions: %w", name, partitions, err)
		}
	}
	extra := PartitionFile(inputFile, partitions)
	if _, err := os.Stat(filepath.Join(dir, extra)); err == nil {
		return fmt.Errorf("splitter produced %s, more than the %d partitions computed from %s", extra, partitions, inputFile)
	}
	return nil
}

var mgParaLine = regexp.MustCompile(`(?m)^([ \t]*mg-para[ \t]*)\r?$`)

// Inputgen writes one copy of the input per partition with an "async <i>"
// line inserted after every mg-para line.
type Inputgen struct{}

// String names the utility in commentary.
func (Inputgen) String() string { return "inputgen" }

// Split implements Splitter.
func (Inputgen) Split(_ context.Context, dir, inputFile string) error {
	text, err := os.ReadFile(filepath.Join(dir, inputFile))
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	d, ok, err := Parse(text)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s has no %s directive", inputFile, Directive)
	}
	if !mgParaLine.Match(text) {
		return fmt.Errorf("%s has no mg-para calculation to split", inputFile)
	}

	for i := 0; i < d.Partitions(); i++ {
		async := []byte(fmt.Sprintf("${1}\n    async %d", i))
		out := mgParaLine.ReplaceAll(text, async)
		name := filepath.Join(dir, PartitionFile(inputFile, i))
		if err := os.WriteFile(name, out, 0o644); err != nil {
			return fmt.Errorf("write partition %d: %w", i, err)
		}
	}
	return nil
}

// Command runs an external splitting utility as "Name Args... inputFile" in dir.
type Command struct {
	Name string
	Args []string
}

// String names the utility in commentary.
func (c Command) String() string { return filepath.Base(c.Name) }

// Split implements Splitter.
func (c Command) Split(ctx context.Context, dir, inputFile string) error {
	args := append(append([]string{}, c.Args...), inputFile)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %s failed: %w (stderr: %s)", c.Name, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
