// Package log provides the structured logger used across tblexport.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is a custom structured logger on top of slog.Logger
// that logs in JSON format.
type Logger struct {
	slogger *slog.Logger
}

// NewLogger creates a new Logger that writes records at or above the
// given level to writer. The writer is typically os.Stderr so the
// human readable report on os.Stdout stays clean.
func NewLogger(writer io.Writer, level slog.Level) Logger {
	slogger := slog.New(slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level: level,
	}))
	return Logger{
		slogger: slogger,
	}
}

// NewDiscardLogger returns a Logger that drops every record.
func NewDiscardLogger() Logger {
	return NewLogger(io.Discard, slog.LevelError+1)
}

// ParseLevel converts one of debug, info, warn or error into a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Info logs structured info message.
//
// Accepts a message and a list of key-value pairs to be logged.
func (l *Logger) Info(msg string, keyVals ...KV) {
	l.get().Info(msg, kvToArgs(keyVals...)...)
}

// InfoNs logs structured info message with a namespace.
//
// The namespace is used to differentiate logs from different parts
// and will be included as the first key-value pair in the log.
func (l *Logger) InfoNs(namespace string, msg string, keyVals ...KV) {
	l.get().Info(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Debug logs structured debug message.
func (l *Logger) Debug(msg string, keyVals ...KV) {
	l.get().Debug(msg, kvToArgs(keyVals...)...)
}

// DebugNs logs structured debug message with a namespace.
func (l *Logger) DebugNs(namespace string, msg string, keyVals ...KV) {
	l.get().Debug(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Warn logs structured warning message.
func (l *Logger) Warn(msg string, keyVals ...KV) {
	l.get().Warn(msg, kvToArgs(keyVals...)...)
}

// WarnNs logs structured warning message with a namespace.
func (l *Logger) WarnNs(namespace string, msg string, keyVals ...KV) {
	l.get().Warn(msg, kvToArgsNs(namespace, keyVals...)...)
}

// Error logs structured error message.
func (l *Logger) Error(msg string, keyVals ...KV) {
	l.get().Error(msg, kvToArgs(keyVals...)...)
}

// ErrorNs logs structured error message with a namespace.
func (l *Logger) ErrorNs(namespace string, msg string, keyVals ...KV) {
	l.get().Error(msg, kvToArgsNs(namespace, keyVals...)...)
}

// get falls back to a discarding logger for the zero value.
func (l *Logger) get() *slog.Logger {
	if l.slogger == nil {
		return slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return l.slogger
}
