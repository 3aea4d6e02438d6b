package app

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// NewLogger opens a structured file logger. The TUI owns the terminal, so an
// empty path yields a no-op logger rather than stdout output. The returned
// closer is nil when nothing was opened.
func NewLogger(path string) (zerolog.Logger, io.Closer, error) {
	if path == "" {
		return zerolog.Nop(), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return zerolog.Nop(), nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}
	logger := zerolog.New(f).With().Timestamp().Logger()
	return logger, f, nil
}
