package logging

import (
	"context"
	"log"
	"strings"
	"sync/atomic"
)

type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var minLevel atomic.Int32

func init() { minLevel.Store(int32(LevelInfo)) }

// SetLevel sets the process-wide minimum level from a LOG_LEVEL value.
// Unknown values fall back to info.
func SetLevel(s string) {
	lvl := LevelInfo
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		lvl = LevelDebug
	case "warn", "warning":
		lvl = LevelWarn
	case "error":
		lvl = LevelError
	}
	minLevel.Store(int32(lvl))
}

func enabled(l Level) bool { return int32(l) >= minLevel.Load() }

type requestIDKey struct{}

// WithRequestID stores rid on ctx for loggers created from it.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID returns the request id on ctx or "".
func RequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Logger writes tagged key=value lines through the standard logger.
type Logger struct {
	component string
	requestID string
}

// New creates a logger for component, picking up the request id from ctx.
func New(ctx context.Context, component string) *Logger {
	rid := "-"
	if ctx != nil {
		if v := RequestID(ctx); v != "" {
			rid = v
		}
	}
	return &Logger{component: component, requestID: rid}
}

func (l *Logger) printf(level Level, tag, operation, format string, args ...any) {
	if !enabled(level) {
		return
	}
	log.Printf("[%s] component=%s request_id=%s operation=%s "+format,
		append([]any{tag, l.component, l.requestID, operation}, args...)...)
}

func (l *Logger) LogError(operation string, err error) {
	l.printf(LevelError, "error", operation, "error=%v", err)
}

func (l *Logger) LogErrorf(operation, format string, args ...any) {
	l.printf(LevelError, "error", operation, format, args...)
}

func (l *Logger) LogWarnf(operation, format string, args ...any) {
	l.printf(LevelWarn, "warn", operation, format, args...)
}

func (l *Logger) LogInfof(operation, format string, args ...any) {
	l.printf(LevelInfo, "info", operation, format, args...)
}

func (l *Logger) LogDebugf(operation, format string, args ...any) {
	l.printf(LevelDebug, "debug", operation, format, args...)
}
