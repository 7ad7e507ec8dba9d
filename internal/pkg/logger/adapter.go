package logger

import "aave_borrower/internal/app/port"

// slogAdapter implements port.Logger on top of the package-level functions.
type slogAdapter struct {
	args []any
}

// NewSlogAdapter returns a port.Logger that writes through the global logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

// With returns an adapter that prepends args to every record.
func (a *slogAdapter) With(args ...any) port.Logger {
	merged := make([]any, 0, len(a.args)+len(args))
	merged = append(merged, a.args...)
	merged = append(merged, args...)
	return &slogAdapter{args: merged}
}

func (a *slogAdapter) Info(msg string, args ...any) {
	Info(msg, a.merge(args)...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	Debug(msg, a.merge(args)...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	Warn(msg, a.merge(args)...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	Error(msg, a.merge(args)...)
}

func (a *slogAdapter) merge(args []any) []any {
	if len(a.args) == 0 {
		return args
	}
	return append(append([]any{}, a.args...), args...)
}

type nopLogger struct{}

// NewNop returns a port.Logger that discards everything.
func NewNop() port.Logger {
	return nopLogger{}
}

func (nopLogger) Info(string, ...any)       {}
func (nopLogger) Debug(string, ...any)      {}
func (nopLogger) Warn(string, ...any)       {}
func (nopLogger) Error(string, ...any)      {}
func (n nopLogger) With(...any) port.Logger { return n }
