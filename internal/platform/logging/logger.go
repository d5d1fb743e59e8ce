package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/campus-admin/internal/platform/timeutil"
)

// The shared logger is built on first use from the sink and level set by
// Configure. The CLI logs to stderr so stdout carries only command output;
// the stand-in API logs to stdout.
var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error

	configMu    sync.Mutex
	outputPath  = "stdout"
	atomicLevel = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// Configure selects the sink ("stdout", "stderr" or a file path) and the
// minimum level. The sink is fixed once the logger is built; the level can be
// changed at any time.
func Configure(output, level string) error {
	if level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return fmt.Errorf("parsing log level %q: %w", level, err)
		}
		atomicLevel.SetLevel(lvl)
	}
	if output != "" {
		configMu.Lock()
		outputPath = output
		configMu.Unlock()
	}
	return nil
}

var severities = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	s, ok := severities[level]
	if !ok {
		s = "DEFAULT"
	}
	enc.AppendString(s)
}

func encodeTimestamp(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

func build() {
	configMu.Lock()
	sink := outputPath
	configMu.Unlock()

	enc := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "severity",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeSeverity,
		EncodeTime:     encodeTimestamp,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	cfg := zap.Config{
		Level:            atomicLevel,
		Encoding:         "json",
		EncoderConfig:    enc,
		OutputPaths:      []string{sink},
		ErrorOutputPaths: []string{sink},
	}
	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
}

// Logger returns the process-wide logger.
func Logger() *zap.Logger {
	loggerOnce.Do(build)
	return baseLogger
}

// Sync flushes buffered entries. Call before exiting.
func Sync() error {
	return Logger().Sync()
}

// Err reports whether building the logger failed. A failed build falls back
// to a no-op logger.
func Err() error {
	loggerOnce.Do(build)
	return loggerErr
}
