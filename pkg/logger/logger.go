// Package logger configures the process-wide slog logger.
//
// The MCP transport owns stdout, so log output always goes to stderr or
// to a file, never stdout.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ParseLevel converts a string log level to slog.Level
// Valid levels: debug, info, warn, error
func ParseLevel(levelStr string) (slog.Level, error) {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", levelStr)
	}
}

// Options controls logger initialization.
type Options struct {
	Level slog.Level
	// File is the log file path. Empty means stderr.
	File string
}

// Init installs the default slog logger and returns a cleanup function
// that closes the log file when one was opened.
func Init(opts Options) (func(), error) {
	var w io.Writer = os.Stderr
	cleanup := func() {}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.File, err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: opts.Level})
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}
