// Package logger provides a centralized logging configuration for twitter-requester.
// It wraps the standard slog package to provide consistent logging across all components.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level determines the minimum severity level of messages to be logged
	Level slog.Level
	// Output specifies where the logs should be written
	Output io.Writer
	// JSONFormat determines whether logs should be formatted as JSON (true) or text (false)
	JSONFormat bool
}

// ParseConfig builds a Config from the textual level and format found in configuration files.
func ParseConfig(level, format string, output io.Writer) (Config, error) {
	cfg := Config{Output: output}

	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "info", "":
		cfg.Level = slog.LevelInfo
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	default:
		return Config{}, fmt.Errorf("logger: unsupported level %q", level)
	}

	switch strings.ToLower(format) {
	case "text", "":
	case "json":
		cfg.JSONFormat = true
	default:
		return Config{}, fmt.Errorf("logger: unsupported format %q", format)
	}

	return cfg, nil
}

// NewLogger creates a new slog.Logger with the specified configuration.
func NewLogger(cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSONFormat {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(handler).With(slog.String("component", "twitter-requester"))
}

// SetDefault sets the default logger for the application.
// This affects all logging done through the slog package-level functions.
func SetDefault(cfg Config) {
	slog.SetDefault(NewLogger(cfg))
}
