package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logging configures the slog handler of a command.
type Logging struct {
	Level  string `env:"DEPENDENT_LOG_LEVEL" envDefault:"info"`
	Format string `env:"DEPENDENT_LOG_FORMAT" envDefault:"text"`
}

// NewLogger builds a logger writing to w.
func (l Logging) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(l.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}

	return nil, fmt.Errorf("log format: unknown %q", l.Format)
}
