package logger

import (
	"io"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	current atomic.Pointer[zap.SugaredLogger]
)

var encoderConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "lvl",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.RFC3339TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

func init() {
	if os.Getenv("DEBUG") == "1" {
		level.SetLevel(zapcore.DebugLevel)
	}
	SetOutput(os.Stdout)
}

// SetOutput redirects all log lines to w. The level is shared across outputs.
func SetOutput(w io.Writer) {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	current.Store(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar())
}

// SetDebug toggles debug output on top of the DEBUG=1 environment switch.
func SetDebug(on bool) {
	if on {
		level.SetLevel(zapcore.DebugLevel)
		return
	}
	level.SetLevel(zapcore.InfoLevel)
}

// With returns a child logger carrying the given key/value pairs.
func With(args ...any) *zap.SugaredLogger {
	return current.Load().Desugar().WithOptions(zap.AddCallerSkip(-1)).Sugar().With(args...)
}

func DebugLog(format string, args ...any) {
	current.Load().Debugf(format, args...)
}

func InfoLog(format string, args ...any) {
	current.Load().Infof(format, args...)
}

func WarnLog(format string, args ...any) {
	current.Load().Warnf(format, args...)
}

func ErrorLog(format string, args ...any) {
	current.Load().Errorf(format, args...)
}

// Sync flushes buffered log entries. Errors from syncing stdout are ignored.
func Sync() {
	_ = current.Load().Sync()
}
