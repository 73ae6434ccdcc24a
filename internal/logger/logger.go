package logger

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	//nolint:gochecknoglobals // Global logger is shared by every package through the helpers below.
	globalLogger *zap.SugaredLogger
	//nolint:gochecknoglobals // Atomic level lets the CLI change verbosity after startup.
	globalLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	//nolint:gochecknoglobals // Guards globalLogger replacement.
	globalMutex sync.RWMutex
)

//nolint:gochecknoinits // The logger must be usable before any command runs.
func init() {
	globalLogger = New(globalLevel)
}

// New creates a sugared console logger writing to stderr.
// A nil level falls back to the shared atomic level.
func New(level zapcore.LevelEnabler, options ...zap.Option) *zap.SugaredLogger {
	if level == nil {
		level = globalLevel
	}

	return zap.New(NewConsoleCore(level), options...).Sugar()
}

// NewConsoleCore creates the console core used by New.
func NewConsoleCore(level zapcore.LevelEnabler) zapcore.Core {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)
}

// ParseLogLevel converts a textual level to zapcore.Level.
// It returns InfoLevel and false when the value is not recognized.
func ParseLogLevel(level string) (zapcore.Level, bool) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zapcore.InfoLevel, false
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, false
	}

	return parsed, true
}

// Level returns the current global log level.
func Level() zapcore.Level {
	return globalLevel.Level()
}

// SetLevel changes the global log level.
func SetLevel(level zapcore.Level) {
	globalLevel.SetLevel(level)
}

// AtomicLevel returns the shared atomic level, so other cores can follow it.
func AtomicLevel() zap.AtomicLevel {
	return globalLevel
}

// IsDebugLevel reports whether debug messages are currently emitted.
func IsDebugLevel() bool {
	return globalLevel.Enabled(zapcore.DebugLevel)
}

// Logger returns the global sugared logger.
func Logger() *zap.SugaredLogger {
	globalMutex.RLock()
	defer globalMutex.RUnlock()

	return globalLogger
}

// SetLogger replaces the global logger.
func SetLogger(l *zap.SugaredLogger) {
	globalMutex.Lock()
	defer globalMutex.Unlock()

	globalLogger = l
}

// Named returns a child of the global logger with the given name.
func Named(name string) *zap.SugaredLogger {
	return Logger().Named(name)
}

// Debug logs a message at debug level.
func Debug(_ context.Context, args ...any) {
	Logger().Debug(args...)
}

// Debugf logs a formatted message at debug level.
func Debugf(_ context.Context, format string, args ...any) {
	Logger().Debugf(format, args...)
}

// DebugKV logs a message with key-value pairs at debug level.
func DebugKV(_ context.Context, message string, kvs ...any) {
	Logger().Debugw(message, kvs...)
}

// Info logs a message at info level.
func Info(_ context.Context, args ...any) {
	Logger().Info(args...)
}

// Infof logs a formatted message at info level.
func Infof(_ context.Context, format string, args ...any) {
	Logger().Infof(format, args...)
}

// InfoKV logs a message with key-value pairs at info level.
func InfoKV(_ context.Context, message string, kvs ...any) {
	Logger().Infow(message, kvs...)
}

// Warn logs a message at warn level.
func Warn(_ context.Context, args ...any) {
	Logger().Warn(args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(_ context.Context, format string, args ...any) {
	Logger().Warnf(format, args...)
}

// WarnKV logs a message with key-value pairs at warn level.
func WarnKV(_ context.Context, message string, kvs ...any) {
	Logger().Warnw(message, kvs...)
}

// Error logs a message at error level.
func Error(_ context.Context, args ...any) {
	Logger().Error(args...)
}

// Errorf logs a formatted message at error level.
func Errorf(_ context.Context, format string, args ...any) {
	Logger().Errorf(format, args...)
}

// ErrorKV logs a message with key-value pairs at error level.
func ErrorKV(_ context.Context, message string, kvs ...any) {
	Logger().Errorw(message, kvs...)
}

// Fatal logs a message at fatal level and exits.
func Fatal(_ context.Context, args ...any) {
	Logger().Fatal(args...)
}

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(_ context.Context, format string, args ...any) {
	Logger().Fatalf(format, args...)
}
