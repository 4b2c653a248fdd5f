// Package logging builds the zerolog loggers used by the CLI and the TUI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Options selects where log lines go.
type Options struct {
	// Level is a zerolog level name. Empty means info.
	Level string

	// File, when set, receives JSON log lines and the console is left
	// alone. The TUI owns the terminal, so it always logs to a file.
	File string

	// Console is used when File is empty. Defaults to os.Stderr.
	Console io.Writer
}

// New returns a logger and a function that releases its output.
func New(opts Options) (zerolog.Logger, func() error, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		lvl, err := zerolog.ParseLevel(opts.Level)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = lvl
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
		}
		log := zerolog.New(f).Level(level).With().Timestamp().Logger()
		return log, f.Close, nil
	}

	w := opts.Console
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	log := zerolog.New(console).Level(level).With().Timestamp().Logger()
	return log, func() error { return nil }, nil
}
