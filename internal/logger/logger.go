// Package logger is a small leveled printf-style logger backed by zerolog.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging severity.
type Level = zerolog.Level

const (
	TraceLevel = zerolog.TraceLevel
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
	PanicLevel = zerolog.PanicLevel
)

var (
	mu  sync.RWMutex
	out io.Writer = consoleWriter(os.Stderr)
	log           = zerolog.New(out).Level(InfoLevel).With().Timestamp().Logger()
)

func init() {
	// per-logger levels do the filtering
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return InfoLevel, nil
	}
	if s == "warning" {
		s = "warn"
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return InfoLevel, fmt.Errorf("invalid log level %q: use trace, debug, info, warn, error, fatal or panic", s)
	}
	return level, nil
}

// SetLevel sets the minimum level that is written.
func SetLevel(level Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(level)
}

// GetLevel returns the current minimum level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return log.GetLevel()
}

// SetOutput redirects log output. Files get plain JSON lines; anything else
// gets the console format.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if _, isFile := w.(*os.File); isFile && w != os.Stderr && w != os.Stdout {
		out = w
	} else {
		out = consoleWriter(w)
	}
	log = log.Output(out)
}

func event(level Level) *zerolog.Event {
	mu.RLock()
	defer mu.RUnlock()
	return log.WithLevel(level)
}

// Trace logs at trace level.
func Trace(format string, args ...any) { event(TraceLevel).Msgf(format, args...) }

// Debug logs at debug level.
func Debug(format string, args ...any) { event(DebugLevel).Msgf(format, args...) }

// Info logs at info level.
func Info(format string, args ...any) { event(InfoLevel).Msgf(format, args...) }

// Warn logs at warn level.
func Warn(format string, args ...any) { event(WarnLevel).Msgf(format, args...) }

// Error logs at error level.
func Error(format string, args ...any) { event(ErrorLevel).Msgf(format, args...) }
