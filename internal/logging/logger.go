// Package logging builds the zerolog loggers used across the SDK.
//
// Level comes from LOG_LEVEL (or DEBUG for debug), and output switches to a
// human-readable console writer when stderr is a terminal and LOG_FORMAT is
// not "json".
package logging

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

var (
	defaultLogger zerolog.Logger

	// Nop discards everything.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = createDefaultLogger()
}

func createDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr
	if isTerminal() && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := ParseLevel(os.Getenv("LOG_LEVEL"))
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the process logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
}

// New creates a timestamped logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// NewConsole creates a console logger on stderr.
func NewConsole(level zerolog.Level) zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}, level)
}

// ParseLevel maps a level name to a zerolog level. An empty name falls
// back to DEBUG from the environment, then info.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		if os.Getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func isTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
