package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger creates a new zerolog logger with console output
func NewLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return log.Output(output).With().Timestamp().Logger()
}

// NewLoggerWithVerbosity maps CLI verbosity to a log level:
// quiet -> Error, 0 -> Info, 1 (-v) -> Debug, 2+ (-vv) -> Trace.
func NewLoggerWithVerbosity(verbose int, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case quiet:
		level = zerolog.ErrorLevel
	case verbose == 1:
		level = zerolog.DebugLevel
	case verbose >= 2:
		level = zerolog.TraceLevel
	}

	return NewLogger().Level(level)
}
