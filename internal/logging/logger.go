package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultDir is the directory receiving the pipeline log file.
	DefaultDir = "logs"
	// DefaultFile is the append-only log file name inside DefaultDir.
	DefaultFile = "continuous_logs.log"
)

// Options configures the application logger.
type Options struct {
	Dir   string
	File  string
	Level slog.Level
	// Stdout is the console sink. Defaults to os.Stdout.
	Stdout io.Writer
}

// New creates the application logger.
// Every record is written both to <Dir>/<File> (appending) and to Stdout in the
// "[<timestamp>: <LEVEL>: <module>: <message>]" layout. The returned Closer releases the log file.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(opts.Dir, opts.File), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	h := NewHandler(io.MultiWriter(f, opts.Stdout), opts.Level)
	return slog.New(h), f, nil
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(NewHandler(io.Discard, slog.LevelError+1))
}

// Module returns a child logger tagged with the given source module.
func Module(logger *slog.Logger, module string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(KeyModule, module)
}

// ParseLevel converts a level name such as "info" or "DEBUG" to a slog.Level.
// An empty string yields slog.LevelInfo.
func ParseLevel(s string) (slog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	name := strings.ToUpper(strings.TrimSpace(s))
	if name == "WARNING" {
		name = "WARN"
	}
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return l, nil
}
