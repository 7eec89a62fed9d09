// Package logger builds the zerolog loggers shared by the CLI and the HTTP server.
package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Options selects the level and output format.
type Options struct {
	// Level is a zerolog level name. Unknown or empty values mean "info".
	Level string
	// Console switches to the human readable console writer.
	Console bool
	// Out defaults to os.Stderr.
	Out io.Writer
}

func New(opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).With().Timestamp().Logger().Level(level)
}

// Badger adapts a zerolog logger to badger.Logger. Badger is chatty, so its
// info messages are logged at debug level.
type Badger struct {
	Log zerolog.Logger
}

func (b Badger) Errorf(format string, args ...any) {
	b.Log.Error().Str("component", "badger").Msg(trim(format, args))
}

func (b Badger) Warningf(format string, args ...any) {
	b.Log.Warn().Str("component", "badger").Msg(trim(format, args))
}

func (b Badger) Infof(format string, args ...any) {
	b.Log.Debug().Str("component", "badger").Msg(trim(format, args))
}

func (b Badger) Debugf(format string, args ...any) {
	b.Log.Trace().Str("component", "badger").Msg(trim(format, args))
}

func trim(format string, args []any) string {
	msg := fmt.Sprintf(format, args...)
	for len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	return msg
}
