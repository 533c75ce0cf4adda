// Package logger is the process-wide zerolog logger. Debug, Info, Warn and
// Section print only in verbose mode (--verbose); Error always prints.
// Lines are human-readable "[LEVEL] message" by default, or one JSON object
// per line after SetJSON(true).
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.RWMutex
	out     io.Writer = os.Stderr
	verbose bool
	asJSON  bool
	log     = build()
)

// build must be called with mu held for writing, or during init.
func build() zerolog.Logger {
	var w io.Writer = zerolog.ConsoleWriter{
		Out:          out,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
		FormatLevel: func(l any) string {
			return "[" + strings.ToUpper(fmt.Sprint(l)) + "]"
		},
	}
	l := zerolog.New(w)
	if asJSON {
		l = zerolog.New(out).With().Timestamp().Logger()
	}
	if verbose {
		return l.Level(zerolog.DebugLevel)
	}
	return l.Level(zerolog.ErrorLevel)
}

func reconfigure(apply func()) {
	mu.Lock()
	defer mu.Unlock()
	apply()
	log = build()
}

func SetVerbose(v bool) { reconfigure(func() { verbose = v }) }

// SetJSON switches between console and JSON lines.
func SetJSON(v bool) { reconfigure(func() { asJSON = v }) }

// SetOutput redirects all logging; tests pass a buffer.
func SetOutput(w io.Writer) { reconfigure(func() { out = w }) }

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug(format string, args ...any) { l := current(); l.Debug().Msgf(format, args...) }
func Info(format string, args ...any)  { l := current(); l.Info().Msgf(format, args...) }
func Warn(format string, args ...any)  { l := current(); l.Warn().Msgf(format, args...) }

// Error logs err under msg whatever the verbosity.
func Error(err error, format string, args ...any) {
	l := current()
	l.Error().Err(err).Msgf(format, args...)
}

// DebugFields logs msg with structured key/value fields.
func DebugFields(msg string, fields map[string]any) {
	l := current()
	l.Debug().Fields(fields).Msg(msg)
}

// Section prints a "=== name ===" banner in verbose console mode. JSON
// output records it as a debug line with a section field instead.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	switch {
	case !verbose:
	case asJSON:
		log.Debug().Str("section", name).Msg("section")
	default:
		fmt.Fprintf(out, "\n=== %s ===\n", name)
	}
}
