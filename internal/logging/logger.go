package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

// New creates a configured application logger.
// It writes text to Stderr (to keep Stdout for the menu and JSON-RPC) and
// to every extra sink as JSON lines.
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level, sinks ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	if len(sinks) == 0 {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(fanout(opts, os.Stderr, sinks...))
}

// NewToWriters builds a logger that writes text to primary and JSON to
// every sink. A nil primary is skipped.
func NewToWriters(level slog.Level, primary io.Writer, sinks ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}
	return slog.New(fanout(opts, primary, sinks...))
}

func fanout(opts *slog.HandlerOptions, primary io.Writer, sinks ...io.Writer) slog.Handler {
	handlers := make([]slog.Handler, 0, len(sinks)+1)
	if primary != nil {
		handlers = append(handlers, slog.NewTextHandler(primary, opts))
	}
	for _, w := range sinks {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	return slogmulti.Fanout(handlers...)
}

func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	// Standardize 'error' key to 'err'
	if a.Key == "error" {
		a.Key = "err"
	}
	return a
}

// ParseLevel maps a flag value ("debug", "info", "warn", "error") to a level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
