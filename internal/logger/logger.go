// Package logger wraps zerolog with the constructors the server uses.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

type Logger struct {
	zerolog.Logger
}

// New builds a JSON logger writing to stdout, tagged with a role label
// ("server", "hub") for filtering.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a logger that discards everything; used in tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}
