package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogMode string

const (
	LogModeDefault  LogMode = "default"
	LogModeJSON     LogMode = "json"
	LogModeCombined LogMode = "combined"
	LogModeEvent    LogMode = "event"
)

var stderr = struct{ io.Writer }{os.Stderr}

const componentFieldName = "Component"

func init() { //nolint:gochecknoinits // init with zerolog is idiomatic
	configureLogging(LogMode(strings.ToLower(os.Getenv("LOG_TYPE"))), os.Getenv("LOG_LEVEL"))
}

type tTesting interface {
	Log(args ...interface{})
	Logf(format string, args ...interface{})
	Helper()
	Cleanup(f func())
}

// ConfigureTestLogging allows logs to be associated with individual tests
func ConfigureTestLogging(t tTesting) {
	oldLogger := log.Logger
	oldContextLogger := zerolog.DefaultContextLogger
	configureLogging(LogModeDefault, os.Getenv("LOG_LEVEL"), zerolog.ConsoleTestWriter(t))
	t.Cleanup(func() {
		log.Logger = oldLogger
		zerolog.DefaultContextLogger = oldContextLogger
	})
}

// ParseLogMode returns the LogMode matching the given string, or an error when it is not a known mode.
func ParseLogMode(s string) (LogMode, error) {
	switch m := LogMode(strings.ToLower(s)); m {
	case LogModeDefault, LogModeJSON, LogModeCombined, LogModeEvent:
		return m, nil
	case "":
		return LogModeDefault, nil
	default:
		return "", fmt.Errorf("invalid log mode %q, expected one of default, json, combined or event", s)
	}
}

// ConfigureLogging reconfigures the global logger. Used by the CLI once flags have been parsed.
func ConfigureLogging(mode LogMode, level string) {
	configureLogging(mode, level)
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "error":
		return zerolog.ErrorLevel
	case "warn":
		return zerolog.WarnLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func configureLogging(mode LogMode, level string, loggingOptions ...func(w *zerolog.ConsoleWriter)) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(parseLevel(level))

	isTerminal := isatty.IsTerminal(os.Stdout.Fd())

	defaultLogging := func(w *zerolog.ConsoleWriter) {
		w.Out = stderr
		w.NoColor = !isTerminal
		w.TimeFormat = "15:04:05.999 |"
		w.PartsOrder = []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		}

		w.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("[%s:", i)
		}

		w.FormatFieldValue = func(i interface{}) string {
			// don't print nil in case field value wasn't preset
			if i == nil {
				i = ""
			}
			return fmt.Sprintf("%s]", i)
		}
	}

	loggingOptions = append([]func(w *zerolog.ConsoleWriter){defaultLogging}, loggingOptions...)

	textWriter := zerolog.NewConsoleWriter(loggingOptions...)

	zerolog.CallerMarshalFunc = func(_ uintptr, file string, line int) string {
		return shortenCaller(file) + ":" + strconv.Itoa(line)
	}

	var useLogWriter io.Writer = textWriter
	switch mode {
	case LogModeJSON:
		useLogWriter = os.Stdout
	case LogModeCombined:
		useLogWriter = zerolog.MultiLevelWriter(textWriter, os.Stdout)
	case LogModeEvent:
		useLogWriter = io.Discard
	}

	log.Logger = zerolog.New(useLogWriter).With().Timestamp().Caller().Logger()
	// Tests and code without a component logger in the context fall back to this one.
	zerolog.DefaultContextLogger = &log.Logger
}

// shortenCaller keeps the last two path segments of a source file.
func shortenCaller(file string) string {
	short := file

	separatorCount := 2
	countedSeparators := 0

	for i := len(file) - 1; i > 0; i-- {
		if file[i] == '/' {
			countedSeparators += 1
			if countedSeparators >= separatorCount {
				short = file[i+1:]
				break
			}
		}
	}
	return short
}

// ContextWithComponentLogger returns a context whose logger tags every line with the component name.
func ContextWithComponentLogger(ctx context.Context, component string) context.Context {
	l := log.With().Str(componentFieldName, component).Logger()
	return l.WithContext(ctx)
}
