package logger

import (
	"log/slog"
	"os"
	"strings"

	slogzap "github.com/samber/slog-zap/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var globalLogger *slog.Logger

// ParseLevel maps a config level string to slog and zap levels. Unknown values fall back to info.
func ParseLevel(levelStr string) (slog.Level, zapcore.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case "DEBUG":
		return slog.LevelDebug, zapcore.DebugLevel, true
	case "INFO", "":
		return slog.LevelInfo, zapcore.InfoLevel, true
	case "WARN", "WARNING":
		return slog.LevelWarn, zapcore.WarnLevel, true
	case "ERROR":
		return slog.LevelError, zapcore.ErrorLevel, true
	default:
		return slog.LevelInfo, zapcore.InfoLevel, false
	}
}

// NewZap builds the zap logger that backs slog. Development mode uses the console encoder.
func NewZap(levelStr string, development bool) (*zap.Logger, error) {
	_, zapLevel, _ := ParseLevel(levelStr)
	var zcfg zap.Config
	if development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)
	return zcfg.Build()
}

// Init installs a slog logger writing through zapLogger as the global and slog default logger.
func Init(zapLogger *zap.Logger, levelStr string) {
	slogLevel, _, ok := ParseLevel(levelStr)
	handler := slogzap.Option{
		Level:  slogLevel,
		Logger: zapLogger,
	}.NewZapHandler()
	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	if !ok {
		globalLogger.Warn("Invalid log level string, defaulting to INFO", "input", levelStr)
	}
}

// ensureInitialized falls back to a JSON stdout logger when Init was never called.
func ensureInitialized() {
	if globalLogger == nil {
		globalLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
}

// Debug logs a message at DebugLevel.
func Debug(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Debug(msg, args...)
}

// Info logs a message at InfoLevel.
func Info(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Info(msg, args...)
}

// Warn logs a message at WarnLevel.
func Warn(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Warn(msg, args...)
}

// Error logs a message at ErrorLevel.
func Error(msg string, args ...any) {
	ensureInitialized()
	globalLogger.Error(msg, args...)
}
