package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/campus-admin/internal/platform/timeutil"
)

// captureLogOutput captures the log lines emitted by logFn and returns them decoded.
func captureLogOutput(t *testing.T, logFn func(*zap.Logger)) []map[string]any {
	t.Helper()

	resetLoggerForTest()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if closeErr := w.Close(); closeErr != nil {
		t.Fatalf("failed to close writer: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("failed to unmarshal log JSON %q: %v", line, err)
		}
		out = append(out, payload)
	}
	return out
}

func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	loggerErr = nil
	outputPath = "stdout"
	atomicLevel.SetLevel(zap.InfoLevel)
}

func TestLoggerWritesStructuredJSON(t *testing.T) {
	lines := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("roster saved", zap.String("course", "c-1"))
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	payload := lines[0]

	if payload["severity"] != "INFO" {
		t.Fatalf("expected severity INFO, got %v", payload["severity"])
	}
	if payload["message"] != "roster saved" {
		t.Fatalf("expected message, got %v", payload["message"])
	}
	if payload["course"] != "c-1" {
		t.Fatalf("expected course field, got %v", payload["course"])
	}
	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected timestamp string, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(timeutil.RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp %q not in micro format: %v", ts, err)
	}
}

func TestConfigureLevelFiltersDebug(t *testing.T) {
	lines := captureLogOutput(t, func(l *zap.Logger) {
		l.Debug("hidden")
		l.Info("shown")
	})
	if len(lines) != 1 || lines[0]["message"] != "shown" {
		t.Fatalf("expected only the info line, got %+v", lines)
	}

	lines = captureLogOutput(t, func(l *zap.Logger) {
		if err := Configure("", "debug"); err != nil {
			t.Fatalf("configure: %v", err)
		}
		l.Debug("visible")
	})
	if len(lines) != 1 || lines[0]["severity"] != "DEBUG" {
		t.Fatalf("expected a debug line after lowering the level, got %+v", lines)
	}
	resetLoggerForTest()
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	defer resetLoggerForTest()
	if err := Configure("", "chatty"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestEncodeSeverity(t *testing.T) {
	tests := []struct {
		level zapcore.Level
		want  string
	}{
		{zapcore.DebugLevel, "DEBUG"},
		{zapcore.InfoLevel, "INFO"},
		{zapcore.WarnLevel, "WARNING"},
		{zapcore.ErrorLevel, "ERROR"},
		{zapcore.DPanicLevel, "CRITICAL"},
		{zapcore.PanicLevel, "ALERT"},
		{zapcore.FatalLevel, "EMERGENCY"},
		{zapcore.Level(99), "DEFAULT"},
	}
	for _, tc := range tests {
		t.Run(tc.want, func(t *testing.T) {
			enc := &sliceEncoder{}
			encodeSeverity(tc.level, enc)
			if len(enc.elems) != 1 || enc.elems[0] != tc.want {
				t.Fatalf("expected %s, got %v", tc.want, enc.elems)
			}
		})
	}
}

func TestErrAfterBuild(t *testing.T) {
	resetLoggerForTest()
	if err := Err(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	if Logger() == nil {
		t.Fatal("expected logger")
	}
}

func TestDurationsEncodeAsStrings(t *testing.T) {
	lines := captureLogOutput(t, func(l *zap.Logger) {
		l.Info("request completed", zap.Duration("duration", 1500*time.Millisecond))
	})
	if len(lines) != 1 || lines[0]["duration"] != "1.5s" {
		t.Fatalf("expected duration 1.5s, got %+v", lines)
	}
}

type sliceEncoder struct {
	zapcore.PrimitiveArrayEncoder
	elems []string
}

func (s *sliceEncoder) AppendString(v string) { s.elems = append(s.elems, v) }
