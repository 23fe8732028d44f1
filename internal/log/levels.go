// Package log provides structured logging with verbosity levels for headerstamp.
// It wraps log/slog and follows kubectl/klog style -v=N verbosity.
//
// Logs always go to stderr; stdout is reserved for the per-file report.
package log

import "log/slog"

// LevelTrace is a custom level below Debug for per-file detail.
const LevelTrace = slog.Level(-8)

// Verbosity level constants for documentation and reference.
const (
	VerbosityError = 0 // Errors only (quiet)
	VerbosityWarn  = 1 // + Warnings (duplicate header risk, ignored config)
	VerbosityInfo  = 2 // + Info (config loaded, metadata table size, summaries)
	VerbosityDebug = 3 // + Debug (files visited, decoder used, strip decisions)
	VerbosityTrace = 4 // + Trace (rendered headers, watch events)
)

// VerbosityToLevel maps -v=N to an slog level.
func VerbosityToLevel(v int) slog.Level {
	switch {
	case v <= VerbosityError:
		return slog.LevelError
	case v == VerbosityWarn:
		return slog.LevelWarn
	case v == VerbosityInfo:
		return slog.LevelInfo
	case v == VerbosityDebug:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// LevelName returns the display name for a level, including TRACE.
func LevelName(l slog.Level) string {
	if l <= LevelTrace {
		return "TRACE"
	}
	return l.String()
}
