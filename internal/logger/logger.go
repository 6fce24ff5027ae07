// Package logger provides the structured logging surface for the data layer.
// The default is a no-op; applications plug in log/slog through SlogAdapter.
package logger

import "log/slog"

// Logger is the minimal structured logging interface the store depends on.
// Arguments are alternating key-value pairs, slog style.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Noop discards everything. Used when no logger is configured so call sites
// never nil-check.
type Noop struct{}

func (Noop) Debug(string, ...any) {}
func (Noop) Info(string, ...any)  {}
func (Noop) Warn(string, ...any)  {}
func (Noop) Error(string, ...any) {}

// SlogAdapter bridges a *slog.Logger to the Logger interface.
type SlogAdapter struct {
	l *slog.Logger
}

// NewSlogAdapter wraps an slog.Logger. A nil logger falls back to
// slog.Default.
func NewSlogAdapter(l *slog.Logger) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{l: l}
}

// Debug logs at debug level.
func (a *SlogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }

// Info logs at info level.
func (a *SlogAdapter) Info(msg string, args ...any) { a.l.Info(msg, args...) }

// Warn logs at warn level.
func (a *SlogAdapter) Warn(msg string, args ...any) { a.l.Warn(msg, args...) }

// Error logs at error level.
func (a *SlogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
