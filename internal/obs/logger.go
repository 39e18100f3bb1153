package obs

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

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

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return Debug, nil
	case "info", "":
		return Info, nil
	case "warn", "warning":
		return Warn, nil
	case "error":
		return Error, nil
	}
	return Info, fmt.Errorf("obs: unknown log level %q", s)
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case Debug:
		return zerolog.DebugLevel
	case Info:
		return zerolog.InfoLevel
	case Warn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// Logger is a minimal logging interface for observability.
type Logger interface {
	Logf(level Level, format string, args ...interface{})
}

// Fielder is implemented by loggers that can emit structured events.
type Fielder interface {
	Event(level Level, msg string, fields map[string]interface{})
}

// NopLogger discards all logs.
type NopLogger struct{}

func (NopLogger) Logf(level Level, format string, args ...interface{}) {}

// Zerolog adapts a zerolog.Logger.
type Zerolog struct {
	L zerolog.Logger
}

// NewZerolog builds a zerolog-backed Logger writing to w at min level and
// above. console selects human readable output instead of JSON lines.
func NewZerolog(w io.Writer, min Level, console bool) Zerolog {
	if console {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return Zerolog{L: zerolog.New(w).Level(min.zerolog()).With().Timestamp().Logger()}
}

func (z Zerolog) Logf(level Level, format string, args ...interface{}) {
	z.L.WithLevel(level.zerolog()).Msgf(format, args...)
}

func (z Zerolog) Event(level Level, msg string, fields map[string]interface{}) {
	z.L.WithLevel(level.zerolog()).Fields(fields).Msg(msg)
}
