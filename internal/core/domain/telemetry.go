package domain

import "strings"

// Outcome describes how a transform request was served.
type Outcome string

const (
	// OutcomeCompiled indicates the compiler ran and the result was stored.
	OutcomeCompiled Outcome = "compiled"
	// OutcomeCached indicates the artifact was read from the store.
	OutcomeCached Outcome = "cached"
	// OutcomeShared indicates the caller attached to a computation already in flight.
	OutcomeShared Outcome = "shared"
	// OutcomeEmpty indicates the compiler produced nothing for the file.
	OutcomeEmpty Outcome = "empty"
	// OutcomeFailed indicates the request failed.
	OutcomeFailed Outcome = "failed"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel converts a configured level name to a LogLevel, defaulting to info.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug
	case "warn", "warning":
		return LogLevelWarn
	case "error":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}
