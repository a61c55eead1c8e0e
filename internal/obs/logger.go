// Package obs holds the observability seams of the server: a minimal
// leveled Logger and a Meter for counters and histograms. Implementations
// may no-op, wrap the standard library logger or bridge to a metrics
// system.
package obs

import "log"

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger receives connection- and lifecycle-scoped events.
type Logger interface {
	Logf(level Level, format string, args ...any)
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Logf(Level, string, ...any) {}

// StdLogger adapts the standard library logger, dropping entries below
// Min.
type StdLogger struct {
	L   *log.Logger
	Min Level
}

func (s StdLogger) Logf(level Level, format string, args ...any) {
	if s.L == nil || level < s.Min {
		return
	}
	s.L.Printf("[%s] "+format, append([]any{level.String()}, args...)...)
}
