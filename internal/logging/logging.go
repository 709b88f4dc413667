package logging

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// EnvLogLevel names the environment variable read by [LevelFromEnv].
const EnvLogLevel = "KLIPPAI_LOG_LEVEL"

// DefaultLevel keeps the terminal quiet unless something goes wrong.
const DefaultLevel = zerolog.WarnLevel

// LevelFromEnv returns the level set in KLIPPAI_LOG_LEVEL, falling back to
// LOG_LEVEL and then [DefaultLevel].
func LevelFromEnv(getenv func(string) string) zerolog.Level {
	if getenv == nil {
		getenv = os.Getenv
	}
	level := getenv(EnvLogLevel)
	if level == "" {
		level = getenv("LOG_LEVEL")
	}
	if level == "" {
		return DefaultLevel
	}
	l, ok := ParseLevel(level)
	if !ok {
		return DefaultLevel
	}
	return l
}

// ParseLevel maps DEBUG, INFO, WARN, WARNING, ERROR and OFF (any case) to a
// zerolog level. ok is false for anything else.
func ParseLevel(level string) (zerolog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel, true
	case "INFO":
		return zerolog.InfoLevel, true
	case "WARN", "WARNING":
		return zerolog.WarnLevel, true
	case "ERROR":
		return zerolog.ErrorLevel, true
	case "OFF", "DISABLED":
		return zerolog.Disabled, true
	default:
		return DefaultLevel, false
	}
}

// New returns a human-readable logger writing to w at level. Completions go
// to stdout, so w is normally os.Stderr.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: !isTerminal(w)}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
