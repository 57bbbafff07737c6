// Package server implements the multiplex listener: terminal registry,
// connection reader/writer actors, the differential emission walk, and
// the attribute maps clients can query and mutate (spec §5, §6).
package server

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Log is the process-wide structured logger, configured once at
// startup by Configure. Every package in this module logs through it
// rather than the standard log package.
var Log zerolog.Logger

func init() {
	Log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Configure sets the global level and output writer. debug enables
// zerolog.DebugLevel regardless of levelName; w defaults to os.Stderr
// when nil.
func Configure(levelName string, debug bool, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	level := zerolog.InfoLevel
	if lvl, err := zerolog.ParseLevel(strings.ToLower(levelName)); err == nil {
		level = lvl
	}
	if debug {
		level = zerolog.DebugLevel
	}
	Log = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(level)
}
