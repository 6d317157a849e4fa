// Package logging provides structured logging for the FinSight backend.
package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates the process logger. Development gets a human-readable
// console writer; production writes JSON to stdout.
func NewLogger(environment, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if environment == "production" {
		return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(console).Level(lvl).With().Timestamp().Logger()
}
