// Package logging builds the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/lovincyrus/darkcyber-vault/internal/config"
)

// New returns a logger configured from conf, writing to stderr.
func New(conf *config.Config) zerolog.Logger {
	return NewWithWriter(os.Stderr, conf.Logger.Level, conf.Logger.Pretty).
		With().Str("app", conf.AppName).Logger()
}

// NewWithWriter returns a timestamped logger at the given level. Unknown levels
// fall back to info. pretty switches to zerolog's human-readable console output.
func NewWithWriter(w io.Writer, level string, pretty bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen, NoColor: !isTerminal(w)}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// Component tags a logger with the component that owns it.
func Component(l zerolog.Logger, name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
