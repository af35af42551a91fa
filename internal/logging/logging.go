// Package logging builds the process logger shared by the CLI, the SSH
// server and the web server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// DefaultLogFile is where `arcade play` writes logs, since the terminal
// belongs to the game.
const DefaultLogFile = "~/.arcade/arcade.log"

// ParseLevel converts a --log-level value. Empty input means info.
func ParseLevel(s string) (log.Level, error) {
	if strings.TrimSpace(s) == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(s))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// New returns a timestamped text logger on stderr.
func New(level log.Level, prefix string) *log.Logger {
	return NewWriter(os.Stderr, level, prefix)
}

// NewWriter returns a timestamped text logger writing to w.
func NewWriter(w io.Writer, level log.Level, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}

// ToFile opens path for appending (expanding ~ and creating parent
// directories) and returns a logger writing to it. The caller closes the
// returned file.
func ToFile(path string, level log.Level, prefix string) (*log.Logger, *os.File, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("logging: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("logging: cannot create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: cannot open log file: %w", err)
	}

	return NewWriter(f, level, prefix), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
