// Package logging builds the slog logger shared by the pegplot tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"peg-plot/internal/config"
)

// New constructs a logger from cfg. Records go to stderr and, when cfg.File is
// set, are also appended to that file. verbose forces debug level.
// The returned closer releases the log file and is never nil.
func New(cfg config.LoggingConfig, verbose bool) (*slog.Logger, io.Closer, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		w = io.MultiWriter(os.Stderr, f)
		closer = f
	}

	level := ParseLevel(cfg.Level)
	if verbose {
		level = slog.LevelDebug
	}

	handler, err := newHandler(w, cfg.Format, level)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return slog.New(handler), closer, nil
}

// NewWriter constructs a logger writing to w only
func NewWriter(w io.Writer, format, level string) (*slog.Logger, error) {
	handler, err := newHandler(w, format, ParseLevel(level))
	if err != nil {
		return nil, err
	}
	return slog.New(handler), nil
}

// Discard returns a logger that drops all records
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

func newHandler(w io.Writer, format string, level slog.Leveler) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text", "":
		return slog.NewTextHandler(w, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", format)
	}
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
