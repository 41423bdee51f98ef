// Package logging builds the zerolog logger shared by the daemon and the
// services it wires together.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the logger's level and output format.
type Options struct {
	Level  string // debug, info, warn, error; empty means info
	Format string // json or console; empty means console
	Out    io.Writer
}

// New returns a logger for opts. Unknown levels fall back to info.
func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !strings.EqualFold(opts.Format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
			NoColor:    noColor(),
		}
	}

	return zerolog.New(w).Level(ParseLevel(opts.Level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level. Empty or unknown names
// yield InfoLevel.
func ParseLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Nop returns a logger that discards everything. Used in tests and as the
// zero value for optional logger fields.
func Nop() zerolog.Logger { return zerolog.Nop() }

func noColor() bool {
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}
