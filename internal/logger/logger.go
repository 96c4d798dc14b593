// Package logger builds the zerolog loggers used by the terminal UI and the
// demo host.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at level.
func New(w io.Writer, level string, color bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("parsing log level: %w", err)
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: "15:04:05"}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// ForTUI returns a logger that never writes to the terminal the UI owns.
// With an empty path everything is discarded. The returned closer must be
// called on exit.
func ForTUI(path, level string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("opening log file: %w", err)
	}
	l, err := New(f, level, false)
	if err != nil {
		_ = f.Close()
		return zerolog.Nop(), nil, err
	}
	return l, f, nil
}
