package output

import (
	"bytes"
	"strings"
	"testing"
)

// newTestWriter creates a Writer with captured output for testing.
func newTestWriter() (*Writer, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	w := &Writer{
		out:   stdout,
		err:   stderr,
		color: false, // Disable color for predictable test output
		quiet: false,
	}
	return w, stdout, stderr
}

func TestNewWithWriters(t *testing.T) {
	var stdout, stderr bytes.Buffer
	w := NewWithWriters(&stdout, &stderr, true)

	if w.out != &stdout || w.err != &stderr {
		t.Error("writers were not kept")
	}
	if !w.color {
		t.Error("color flag was not kept")
	}
}

func TestWriter_SetQuiet(t *testing.T) {
	w, _, _ := newTestWriter()

	w.SetQuiet(true)
	if !w.quiet {
		t.Error("SetQuiet(true) did not set quiet")
	}

	w.SetQuiet(false)
	if w.quiet {
		t.Error("SetQuiet(false) did not unset quiet")
	}
}

func TestWriter_Println(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Println("hello %s", "world")

	if got := stdout.String(); got != "hello world\n" {
		t.Errorf("Println() = %q, want %q", got, "hello world\n")
	}
}

func TestWriter_List(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.List([]string{"born", "forces"})

	if got := stdout.String(); got != "  - born\n  - forces\n" {
		t.Errorf("List() = %q", got)
	}
}

func TestWriter_Info_Quiet(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetQuiet(true)

	w.Info("should not appear")
	w.Rule("-")
	w.Pass("also hidden")

	if stdout.Len() != 0 {
		t.Errorf("quiet mode produced output: %q", stdout.String())
	}
}

func TestWriter_Fail_NotQuieted(t *testing.T) {
	w, stdout, _ := newTestWriter()
	w.SetQuiet(true)

	w.Fail("computed %g != expected %g", 1.0, 2.0)

	want := "*** FAILED *** computed 1 != expected 2\n"
	if got := stdout.String(); got != want {
		t.Errorf("Fail() = %q, want %q", got, want)
	}
}

func TestWriter_Rule(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Rule("=")

	want := strings.Repeat("=", RuleWidth) + "\n"
	if got := stdout.String(); got != want {
		t.Errorf("Rule() = %q, want %q", got, want)
	}
}

func TestWriter_Pass_Color(t *testing.T) {
	stdout := &bytes.Buffer{}
	w := NewWithWriters(stdout, &bytes.Buffer{}, true)

	w.Pass("ok")

	got := stdout.String()
	if !strings.Contains(got, green) || !strings.Contains(got, "*** PASSED ***") {
		t.Errorf("Pass() with color = %q", got)
	}
}

func TestWriter_WarningAndErrorPrefix(t *testing.T) {
	w, _, stderr := newTestWriter()

	w.Warning("exit status %d", 2)
	w.ErrorPrefix("no binary")

	want := "warning: exit status 2\nsimcheck: no binary\n"
	if got := stderr.String(); got != want {
		t.Errorf("stderr = %q, want %q", got, want)
	}
}

func TestWriter_Table(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.Table([]string{"Section", "Status"}, [][]string{
		{"born", "Passed"},
		{"actio-long", "Failed"},
	})

	want := "Section     Status\n" +
		"----------  ------\n" +
		"born        Passed\n" +
		"actio-long  Failed\n"
	if got := stdout.String(); got != want {
		t.Errorf("Table() =\n%s\nwant\n%s", got, want)
	}
}

func TestWriter_Summary(t *testing.T) {
	w, stdout, _ := newTestWriter()

	w.SummaryHeader("Summary")
	w.SummaryPassed("Passed", "3")
	w.SummaryFailed("Failed", "1")
	w.SummaryItem("Total", "4")
	w.FinalFailure("%d of %d comparisons failed.", 1, 4)

	got := stdout.String()
	for _, s := range []string{"=== Summary ===", "  Passed: 3", "  Failed: 1", "  Total: 4", "1 of 4 comparisons failed."} {
		if !strings.Contains(got, s) {
			t.Errorf("summary output missing %q:\n%s", s, got)
		}
	}
}

func TestIsTerminal_NonFile(t *testing.T) {
	if IsTerminal(&bytes.Buffer{}) {
		t.Error("IsTerminal(buffer) = true, want false")
	}
}
