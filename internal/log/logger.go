// Package log provides the structured JSON logger shared by the gosqlite
// command line tools.
package log

import (
	"io"
	"log/slog"
)

// Logger is a custom structured logger on top of slog.Logger that logs in
// JSON format.
type Logger struct {
	slogger *slog.Logger
	level   *slog.LevelVar
}

// NewLogger creates a new Logger that writes to the given writer. The writer
// is typically os.Stdout but can be any io.Writer. Debug messages are
// suppressed until EnableDebug is called.
func NewLogger(writer io.Writer) Logger {
	level := &slog.LevelVar{}
	level.Set(slog.LevelInfo)

	slogger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	return Logger{
		slogger: slogger,
		level:   level,
	}
}

// EnableDebug lowers the logger threshold so Debug messages pass through.
func (l *Logger) EnableDebug() {
	l.level.Set(slog.LevelDebug)
}

// Debug logs a structured debug message with optional key-value pairs.
func (l *Logger) Debug(msg string, keyVals ...KV) {
	l.slogger.Debug(msg, kvToArgs(keyVals...)...)
}

// Info logs a structured info message with optional key-value pairs.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.slogger.Info(msg, kvToArgs(keyVals...)...)
}

// Warn logs a structured warning message with optional key-value pairs.
func (l *Logger) Warn(msg string, keyVals ...KV) {
	l.slogger.Warn(msg, kvToArgs(keyVals...)...)
}

// Error logs a structured error message with optional key-value pairs.
func (l *Logger) Error(msg string, keyVals ...KV) {
	l.slogger.Error(msg, kvToArgs(keyVals...)...)
}

// DebugNs logs a structured debug message under a namespace, included as
// the first key-value pair to differentiate logs from different parts.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Debug(msg, kvToArgsNs(namespace, keyVals...)...)
}

// InfoNs logs a structured info message under a namespace.
func (l *Logger) InfoNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Info(msg, kvToArgsNs(namespace, keyVals...)...)
}

// ErrorNs logs a structured error message under a namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.slogger.Error(msg, kvToArgsNs(namespace, keyVals...)...)
}
