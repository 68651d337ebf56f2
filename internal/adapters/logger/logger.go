// Package logger writes driver messages to stderr through log/slog, either as
// colored lines or as JSON records.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"go.trai.ch/recipe/internal/core/ports"
)

// Logger implements ports.Logger.
type Logger struct {
	mu     sync.RWMutex
	base   *slog.Logger
	w      io.Writer
	asJSON bool
}

var _ ports.Logger = (*Logger)(nil)

// New creates a Logger writing colored lines to stderr.
func New() ports.Logger {
	l := &Logger{w: os.Stderr}
	l.rebuild()
	return l
}

// SetOutput redirects the logger to w, or stderr when w is nil.
func (l *Logger) SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w = w
	l.rebuild()
}

// SetJSON switches between JSON records and colored lines.
func (l *Logger) SetJSON(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.asJSON = enable
	l.rebuild()
}

// Info logs progress of a phase or command.
func (l *Logger) Info(msg string) {
	l.current().Info(msg)
}

// Warn logs a condition the run continues past, such as an ignored option.
func (l *Logger) Warn(msg string) {
	l.current().Warn(msg)
}

// Error logs err with its chain of causes. A nil err is ignored.
// JSON records carry the top-level message in "error" and one entry per cause.
func (l *Logger) Error(err error) {
	if err == nil {
		return
	}
	entries := collectErrorEntries(err)

	l.mu.RLock()
	asJSON := l.asJSON
	l.mu.RUnlock()

	if !asJSON {
		l.current().Error(formatErrorEntries(entries))
		return
	}

	attrs := []any{slog.String("error", err.Error())}
	if len(entries) > 1 {
		causes := make([]string, 0, len(entries)-1)
		for _, e := range entries[1:] {
			causes = append(causes, e.Message)
		}
		attrs = append(attrs, slog.Any("causes", causes))
	}
	l.current().Error("operation failed", attrs...)
}

func (l *Logger) current() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.base
}

// rebuild must be called with mu held.
func (l *Logger) rebuild() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if l.asJSON {
		l.base = slog.New(slog.NewJSONHandler(l.w, opts))
		return
	}
	l.base = slog.New(NewPrettyHandler(l.w, opts))
}
