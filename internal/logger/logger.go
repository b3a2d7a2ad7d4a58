package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/loopfetch/internal/errors"
	"github.com/rs/zerolog"
)

const (
	defaultDirPerm  = 0o755
	defaultFilePerm = 0o644
)

var log = zerolog.Nop()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// ParseLevel maps a configured level name to a LogLevel.
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel, true
	case "info":
		return InfoLevel, true
	case "warn", "warning":
		return WarnLevel, true
	case "error":
		return ErrorLevel, true
	default:
		return WarnLevel, false
	}
}

// Init initializes the global logger writing to out. The terminal belongs to
// the dashboard while it runs, so out is usually a log file.
func Init(level string, out io.Writer) {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	lvl, _ := ParseLevel(level)
	SetLogLevel(lvl)
}

// OpenFile opens (or creates) the log file in append mode.
func OpenFile(path string) (*os.File, error) {
	errFactory := errors.New()

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerm); err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, defaultFilePerm)
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrInitFailed, err)
	}

	return f, nil
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs an error message with a specific error code
func ErrorWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Error().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error()).
		AnErr("error", err.Unwrap())}
}

// WarnWithCode logs a recovered error with its code at warning level
func WarnWithCode(err errors.Error) *LogEvent {
	return &LogEvent{log.Warn().
		Str("error_code", string(err.Code())).
		Str("error_message", err.Error())}
}
