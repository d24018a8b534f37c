// ABOUTME: Structured logging setup for the daily CLI.
// ABOUTME: Builds an slog text logger on stderr with a level parsed from config.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a config string to a slog level. Unknown values fall back to
// warn and report ok=false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning", "":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelWarn, false
	}
}

// Setup creates the process logger writing to w and installs it as the slog
// default. verbose forces debug level.
func Setup(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if verbose {
		lvl = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	if !ok {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "warn")
	}

	slog.SetDefault(logger)
	return logger
}
