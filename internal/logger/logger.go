package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. format "json" writes one JSON object per line;
// anything else uses the human-readable console writer. An unknown level
// falls back to info.
func New(level, format string, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
