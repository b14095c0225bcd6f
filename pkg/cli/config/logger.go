package config

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"

	"github.com/bikram-mondal/bikram-ai/pkg/utils/logging"
	"github.com/bikram-mondal/bikram-ai/pkg/utils/safe"
)

// Logger holds logging configuration
type Logger struct {
	level  string
	format string
	output string
}

// Flags returns CLI flags for logger configuration
func (l *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("BIKRAM_AI_LOG_LEVEL"),
			Destination: &l.level,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, json)",
			Value:       "console",
			Sources:     cli.EnvVars("BIKRAM_AI_LOG_FORMAT"),
			Destination: &l.format,
		},
		&cli.StringFlag{
			Name:        "log-output",
			Usage:       "Log output destination (stdout, stderr or file path)",
			Value:       "stderr",
			Sources:     cli.EnvVars("BIKRAM_AI_LOG_OUTPUT"),
			Destination: &l.output,
		},
	}
}

// LogValue returns the loggable representation of the configuration
func (l Logger) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("level", l.level),
		slog.String("format", l.format),
		slog.String("output", l.output),
	)
}

// Configure builds the process logger and installs it as the default.
// The returned closer flushes the log file when one is used.
func (l *Logger) Configure() (func(), error) {
	level, err := l.logLevel()
	if err != nil {
		return nil, err
	}

	w, closer, err := l.logOutput()
	if err != nil {
		return nil, err
	}

	// Credential-shaped values never reach the log stream
	redactor := masq.New(
		masq.WithFieldName("APIKey"),
		masq.WithFieldName("PublicKey"),
		masq.WithFieldName("Password"),
		masq.WithFieldPrefix("secret"),
	)

	var handler slog.Handler
	switch l.format {
	case "console":
		handler = clog.New(
			clog.WithWriter(w),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redactor),
			clog.WithSource(level == slog.LevelDebug),
			clog.WithColor(isTerminal(w)),
		)
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: redactor,
		})
	default:
		closer()
		return nil, goerr.Wrap(ErrInvalidLogFormat, l.format)
	}

	logging.SetDefault(slog.New(handler))
	return closer, nil
}

func (l *Logger) logLevel() (slog.Level, error) {
	switch l.level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, goerr.Wrap(ErrInvalidLogLevel, l.level)
	}
}

func (l *Logger) logOutput() (io.Writer, func(), error) {
	switch l.output {
	case "stdout":
		return os.Stdout, func() {}, nil
	case "stderr", "":
		return os.Stderr, func() {}, nil
	default:
		f, err := os.OpenFile(l.output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to open log file", goerr.V("path", l.output))
		}
		return f, func() { safe.Close(context.Background(), f) }, nil
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
