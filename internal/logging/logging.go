// Package logging sets up the structured logger. Output always goes to
// stderr-like writers: stdout carries the preprocessor protocol.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLevel names the environment variable holding the default log level.
const EnvLevel = "MDBOOK_WAVEDROM_LOG"

// DefaultLevel is used when neither a flag nor EnvLevel set a level.
const DefaultLevel = "info"

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "trace":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LevelFromEnv returns the level named by EnvLevel, or DefaultLevel.
func LevelFromEnv() string {
	if level, ok := os.LookupEnv(EnvLevel); ok && len(level) != 0 {
		return level
	}

	return DefaultLevel
}

// New returns a text logger writing to w at the named level.
func New(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}

			return a
		},
	})

	return slog.New(handler), nil
}
