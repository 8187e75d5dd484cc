package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func capturedLogger(level LogLevel) (*PipelineLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = &buf
	return NewLogger(cfg), &buf
}

func TestPipelineLoggerLevels(t *testing.T) {
	l, buf := capturedLogger(LogLevelWarn)

	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	assert.NotContains(t, out, "debug msg")
	assert.NotContains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
}

func TestPipelineLoggerContext(t *testing.T) {
	l, buf := capturedLogger(LogLevelInfo)

	l.WithComponent("classify").WithSession("s-1", "r-1").Info("claimed")

	out := buf.String()
	assert.Contains(t, out, "classify")
	assert.Contains(t, out, "s-1")
	assert.Contains(t, out, "r-1")
}

func TestDomainHelpers(t *testing.T) {
	l, buf := capturedLogger(LogLevelDebug)

	l.LogToolCall("get_weather", 12*time.Millisecond, true, nil)
	l.LogCompletionCall("disambiguator", 30*time.Millisecond, false, errors.New("boom"))
	l.LogDetector("focus_mode", true, time.Millisecond, nil)

	out := buf.String()
	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, "disambiguator")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "focus_mode")
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

	logger.Info("hello", "key", "value")

	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "key=value")
}

func TestNoOpLogger(t *testing.T) {
	// Must simply not panic.
	var l NoOpLogger
	l.Debug("a")
	l.Info("b", "k", 1)
	l.Warn("c")
	l.Error("d")
}
