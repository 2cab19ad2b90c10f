// Package logging builds the explicit logger instance every component holds.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing human-readable lines to stderr and JSON lines
// to an append-mode log file. An empty logFile disables the file sink. The
// returned closer releases the file handle; flushes happen on normal exit.
func New(level, logFile string) (zerolog.Logger, func() error, error) {
	lvl := parseLevel(level)

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	var w io.Writer = console
	closer := func() error { return nil }
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Logger{}, nil, fmt.Errorf("open log file: %w", err)
		}
		w = zerolog.MultiLevelWriter(console, f)
		closer = f.Close
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return logger, closer, nil
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
