// Package log builds the logrus loggers used by the fecchan binaries.
package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
)

// Logger is a module-tagged logrus entry.
type Logger struct {
	*logrus.Entry
}

// Options select level, format and destination.
type Options struct {
	Level  string // logrus level name, default info
	Format string // text or json
	Output io.Writer
}

// NewLogger returns a logger tagged name=module with default options.
func NewLogger(module string) *Logger {
	l, _ := New(module, Options{})
	return l
}

// New returns a logger tagged name=module. An unknown level is an error; the
// returned logger is still usable at info level.
func New(module string, opts Options) (*Logger, error) {
	base := logrus.New()
	if opts.Format == "json" {
		base.SetFormatter(&logrus.JSONFormatter{})
	} else {
		base.SetFormatter(&logrus.TextFormatter{
			DisableColors:    false,
			DisableTimestamp: false,
			FullTimestamp:    true,
		})
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	base.SetOutput(out)

	var err error
	level := logrus.InfoLevel
	if opts.Level != "" {
		if level, err = logrus.ParseLevel(opts.Level); err != nil {
			level = logrus.InfoLevel
			err = fmt.Errorf("log level %q: %w", opts.Level, err)
		}
	}
	base.SetLevel(level)
	return &Logger{base.WithField("name", module)}, err
}

// With returns a child logger that also carries the sub-module field.
func (l *Logger) With(sub string) *Logger {
	return &Logger{l.WithField("component", sub)}
}

// AddFileSink writes warnings and errors to path.warn and info and debug
// entries to path.info, as JSON, next to the regular output.
func AddFileSink(l *Logger, path string) {
	pathMap := lfshook.PathMap{
		logrus.DebugLevel: path + ".info",
		logrus.InfoLevel:  path + ".info",
		logrus.WarnLevel:  path + ".warn",
		logrus.ErrorLevel: path + ".warn",
		logrus.FatalLevel: path + ".warn",
	}
	hook := lfshook.NewHook(pathMap, &logrus.JSONFormatter{
		TimestampFormat: "Jan _2 2006 15:04:05.000000",
	})
	l.Logger.Hooks.Add(hook)
}
