// Package logging provides the dual-channel logger: a human-readable running
// commentary and a persistent structured log.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/AndreyAkinshin/simcheck/internal/output"
	"github.com/AndreyAkinshin/simcheck/internal/verify"
)

// Logger writes commentary to an output.Writer and structured entries to zap.
type Logger struct {
	out    *output.Writer
	log    *zap.Logger
	closer io.Closer
}

// New creates a Logger over existing channels.
func New(out *output.Writer, log *zap.Logger) *Logger {
	return &Logger{out: out, log: log}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	return New(output.NewWithWriters(io.Discard, io.Discard, false), zap.NewNop())
}

// Open creates a Logger whose structured channel is a JSON log written to
// path. The file is truncated.
func Open(path string, out *output.Writer) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("couldn't open log file %s: %w", path, err)
	}

	l := New(out, NewFileLogger(f))
	l.closer = f
	return l, nil
}

// NewFileLogger builds the structured log core used for log files.
func NewFileLogger(w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(w), zap.DebugLevel)
	return zap.New(core)
}

// Close flushes the structured log and closes its file, if any.
func (l *Logger) Close() error {
	_ = l.log.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Out returns the commentary writer.
func (l *Logger) Out() *output.Writer {
	return l.out
}

// With returns a Logger whose structured entries carry fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{out: l.out, log: l.log.With(fields...)}
}

// Message writes a commentary line.
func (l *Logger) Message(format string, args ...interface{}) {
	l.out.Info(format, args...)
}

// Rule writes a commentary separator.
func (l *Logger) Rule(ch string) {
	l.out.Rule(ch)
}

// Log writes a structured entry.
func (l *Logger) Log(msg string, fields ...zap.Field) {
	l.log.Info(msg, fields...)
}

// Warn writes a warning to both channels.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.out.Warning("%s", msg)
	l.log.Warn(msg, fields...)
}

// Comparison records a verification outcome on both channels, pass or fail.
func (l *Logger) Comparison(o verify.Outcome) {
	fields := []zap.Field{
		zap.String("input", o.Context),
		zap.Float64("computed", o.Computed),
		zap.Float64("expected", o.Expected),
		zap.Float64("difference", o.Difference()),
		zap.Bool("strict", o.Strict),
		zap.Float64("relative_tolerance", o.Tolerance.Relative),
		zap.Float64("absolute_tolerance", o.Tolerance.Absolute),
	}
	if o.Passed {
		l.out.Pass("%s", o)
		l.log.Info("comparison passed", fields...)
		return
	}
	l.out.Fail("%s", o)
	l.log.Error("comparison failed", fields...)
}

// CaseError records a per-case error that is not a numeric mismatch.
func (l *Logger) CaseError(input string, err error) {
	l.out.Fail("%s: %v", input, err)
	l.log.Error("case error", zap.String("input", input), zap.Error(err))
}
