package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Verbosity level constants for CLI flag counts.
const (
	VerbosityUser  = 0 // No flags: prompts, results and errors only
	VerbosityInfo  = 1 // -v: + session progress, reach passes, scores
	VerbosityDebug = 2 // -vv: + every resolution and scoring request
	VerbosityTrace = 3 // -vvv: + per-tuple truth recomputation
)

// VerbosityToLevel maps verbosity flags (-v, -vv, etc.) to zap log levels
//
// Mapping:
//
//	0 (none)  -> WarnLevel  (errors and warnings only)
//	1 (-v)    -> InfoLevel  (+ informational messages)
//	2+ (-vv)  -> DebugLevel (+ debug messages)
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// ShouldLogTrace returns true for verbosity >= 3 (-vvv)
func ShouldLogTrace(verbosity int) bool {
	return verbosity >= VerbosityTrace
}

// LevelName returns a human-readable name for verbosity level
func LevelName(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "User"
	case VerbosityInfo:
		return "Info (-v)"
	case VerbosityDebug:
		return "Debug (-vv)"
	case VerbosityTrace:
		return "Trace (-vvv)"
	default:
		if verbosity > VerbosityTrace {
			return "Trace (-vvv+)"
		}
		return "Unknown"
	}
}

// VerbosityFromLevel maps a configured level name back to a verbosity count.
// An empty name keeps fallback, so the -v flags decide.
func VerbosityFromLevel(name string, fallback int) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return fallback, nil
	case "warn", "warning", "error":
		return VerbosityUser, nil
	case "info":
		return VerbosityInfo, nil
	case "debug":
		return VerbosityDebug, nil
	case "trace":
		return VerbosityTrace, nil
	default:
		return fallback, fmt.Errorf("unknown log level %q (want warn, info, debug or trace)", name)
	}
}
