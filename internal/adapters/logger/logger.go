// Package logger implements a logging adapter using log/slog.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/balebuild/bale/internal/core/ports"
)

// Logger implements ports.Logger using log/slog with a pretty handler.
type Logger struct {
	logger  *slog.Logger
	mu      sync.RWMutex
	out     io.Writer
	verbose bool
}

var _ ports.Logger = (*Logger)(nil)

// New creates a new Logger writing to stderr.
func New() *Logger {
	l := &Logger{}
	l.rebuild(os.Stderr)
	return l
}

// SetOutput updates the logger's output destination. Thread-safe.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rebuild(w)
}

// SetVerbose enables debug-level output.
func (l *Logger) SetVerbose(verbose bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.verbose = verbose
	l.rebuild(l.out)
}

func (l *Logger) rebuild(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	l.out = w

	level := slog.LevelInfo
	if l.verbose {
		level = slog.LevelDebug
	}
	l.logger = slog.New(NewPrettyHandler(w, &slog.HandlerOptions{Level: level}))
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Debug(msg)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Warn(msg)
}

// Error logs an error with its full report attached.
func (l *Logger) Error(err error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	l.logger.Error("operation failed", "error", err)
}
