// Package logging builds the daemon's slog logger on top of charmbracelet/log.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

// Logger is a slog.Logger whose level and format can be changed after a
// config reload.
type Logger struct {
	*slog.Logger
	handler *log.Logger
	out     io.Writer
}

// New creates a logger writing to w. level is one of debug, info, warn or
// error; format is auto, text, logfmt or json. auto picks text for terminals
// and logfmt otherwise.
func New(w io.Writer, level, format string) (*Logger, error) {
	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "gridflux",
	})
	l := &Logger{
		Logger:  slog.New(handler),
		handler: handler,
		out:     w,
	}
	if err := l.Apply(level, format); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply changes level and format in place.
func (l *Logger) Apply(level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	formatter, err := l.formatter(format)
	if err != nil {
		return err
	}
	l.handler.SetLevel(lvl)
	l.handler.SetFormatter(formatter)
	return nil
}

// ParseLevel accepts the config spellings of a log level.
func ParseLevel(level string) (log.Level, error) {
	switch level {
	case "", "info":
		return log.InfoLevel, nil
	case "warning":
		return log.WarnLevel, nil
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q", level)
	}
	return lvl, nil
}

func (l *Logger) formatter(format string) (log.Formatter, error) {
	switch format {
	case "", "auto":
		if isTerminal(l.out) {
			return log.TextFormatter, nil
		}
		return log.LogfmtFormatter, nil
	case "text":
		return log.TextFormatter, nil
	case "logfmt":
		return log.LogfmtFormatter, nil
	case "json":
		return log.JSONFormatter, nil
	default:
		return log.TextFormatter, fmt.Errorf("invalid log format %q", format)
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
