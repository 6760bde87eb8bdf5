// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer
}

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger.
func Setup(cfg Config) zerolog.Logger {
	// Set global log level
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	// Configure output
	var output io.Writer = cfg.Output
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: cfg.Output}
	}

	// Create logger with timestamp
	logger := zerolog.New(output).With().Timestamp().Logger()

	// Set as global logger
	log.Logger = logger

	return logger
}

// ParseLevel validates a textual level.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug", "info", "warn", "error":
		return LogLevel(strings.ToLower(s)), nil
	case "warning":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// TimingHook returns a fetch observer logging each completed fetch at info
// level. It is assignable to pagination.Hook.
func TimingHook(logger zerolog.Logger) func(op, endpoint string, d time.Duration) {
	return func(op, endpoint string, d time.Duration) {
		logger.Info().
			Str("op", op).
			Str("endpoint", endpoint).
			Dur("duration", d).
			Msgf("%s executed in %.2f seconds", op, d.Seconds())
	}
}

// Log Level Guidelines:
//
// Debug: Detailed information for debugging
//   - Request URLs and query parameters
//   - Per-page record counts and running totals
//   - Internal state changes
//
// Info: Normal operation events
//   - Completed fetches and their duration
//   - Completed year windows
//   - Files and archives written
//
// Warn: Warning conditions that don't prevent operation
//   - Empty year windows (stop or skip)
//   - Remote API errors and malformed responses
//   - Stations without observations
//
// Error: Error conditions requiring attention
//   - Aborted fetches
//   - Export failures
//   - Configuration errors
//
// Context Fields:
//   - component: emitting package (hubeau-client, hubeau-pagination, ...)
//   - endpoint: Hub'Eau endpoint path
//   - page: 1-based page number
//   - window: date window "start..end"
//   - status: HTTP status code
//   - duration: Fetch duration
//   - error_class: Error classification (transport, malformed, remote)
