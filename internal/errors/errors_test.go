package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with section",
			err:      &Error{Section: "born", Message: "directory missing"},
			expected: "[born] directory missing",
		},
		{
			name:     "with section and input",
			err:      &Error{Section: "born", Input: "apbs-mol.in", Message: "no values"},
			expected: "[born] apbs-mol.in: no values",
		},
		{
			name:     "input without section",
			err:      &Error{Input: "apbs-mol.in", Message: "no values"},
			expected: "apbs-mol.in: no values",
		},
		{
			name:     "with cause",
			err:      &Error{Message: "launch failed", Cause: errors.New("permission denied")},
			expected: "launch failed: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(cause, "wrapper")

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the cause")
	}

	errNoCause := New("no cause")
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestError_ExitCode(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindRuntime, ExitRuntimeError},
		{KindConfig, ExitConfigError},
		{KindNotFound, ExitRuntimeError},
		{KindEnvironment, ExitEnvironmentError},
		{KindLaunch, ExitRuntimeError},
		{KindExtraction, ExitRuntimeError},
		{KindAggregation, ExitRuntimeError},
		{KindMismatch, ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := &Error{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestConstructors(t *testing.T) {
	if err := Configf("bad %s", "value"); err.Kind != KindConfig || err.Message != "bad value" {
		t.Errorf("Configf() = %+v", err)
	}
	if err := Environmentf("no %s", "binary"); err.Kind != KindEnvironment || err.Message != "no binary" {
		t.Errorf("Environmentf() = %+v", err)
	}
	if err := Newf("%d failures", 3); err.Kind != KindRuntime || err.Message != "3 failures" {
		t.Errorf("Newf() = %+v", err)
	}
	if err := NotFound("section", "born"); err.Message != "section not found: born" {
		t.Errorf("NotFound() message = %q", err.Message)
	}

	agg := Aggregation("case.in", 2, 3, 1)
	if agg.Kind != KindAggregation {
		t.Errorf("Aggregation() kind = %v", agg.Kind)
	}
	want := "case.in: aggregation shape mismatch: partition 2 produced 1 values, aggregate has 3"
	if got := agg.Error(); got != want {
		t.Errorf("Aggregation().Error() = %q, want %q", got, want)
	}

	ext := Extraction("case.in", "expected %d values, got %d", 2, 1)
	if ext.Kind != KindExtraction || ext.Input != "case.in" {
		t.Errorf("Extraction() = %+v", ext)
	}
}

func TestIsKind(t *testing.T) {
	launch := Launch("case.in", errors.New("exec: not found"))
	wrapped := fmt.Errorf("section born: %w", launch)
	nested := Wrap(wrapped, "suite aborted")

	if !IsKind(wrapped, KindLaunch) {
		t.Error("IsKind() should see through fmt wrapping")
	}
	if !IsKind(nested, KindLaunch) {
		t.Error("IsKind() should find inner kind below an outer *Error")
	}
	if IsKind(nested, KindExtraction) {
		t.Error("IsKind() matched the wrong kind")
	}
	if IsKind(errors.New("plain"), KindRuntime) {
		t.Error("IsKind() matched a plain error")
	}
	if IsKind(nil, KindRuntime) {
		t.Error("IsKind(nil) should be false")
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitRuntimeError},
		{"config", Config("bad"), ExitConfigError},
		{"environment", Environment("no binary"), ExitEnvironmentError},
		{"wrapped environment", fmt.Errorf("setup: %w", Environment("no binary")), ExitEnvironmentError},
		{"wrap kind config", WrapKind(KindConfig, errors.New("no such file"), "load suite"), ExitConfigError},
		{"mismatch", Mismatch(2, 1), ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetExitCode(tt.err); got != tt.want {
				t.Errorf("GetExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrorKind_String(t *testing.T) {
	if got := KindAggregation.String(); got != "aggregation shape mismatch" {
		t.Errorf("String() = %q", got)
	}
	if got := ErrorKind(99).String(); got != "kind(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestMismatch(t *testing.T) {
	err := Mismatch(3, 0)
	if err.Kind != KindMismatch {
		t.Errorf("Kind = %v, want %v", err.Kind, KindMismatch)
	}
	if got, want := err.Error(), "3 comparison(s) failed, 0 case error(s)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
