package logger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ekisa-team/defaultrisk/internal/env"
)

const (
	defaultLogFile    = "logs/defaultrisk.log"
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 5
	defaultMaxAgeDays = 28
)

type options struct {
	out       io.Writer
	level     slog.Leveler
	logFile   string
	logToFile bool
	addSource bool
}

// Option configures the logger built by New.
type Option func(*options)

// WithLogToFile enables or disables writing logs to a rotating file.
func WithLogToFile(enabled bool) Option {
	return func(o *options) {
		o.logToFile = enabled
	}
}

// WithLogFile sets the path of the rotating log file.
func WithLogFile(path string) Option {
	return func(o *options) {
		if path != "" {
			o.logFile = path
		}
	}
}

// WithLevel sets the minimum level. Pass a *slog.LevelVar to change it at runtime.
func WithLevel(level slog.Leveler) Option {
	return func(o *options) {
		if level != nil {
			o.level = level
		}
	}
}

// WithWriter replaces the console writer (stderr by default).
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithSource adds the caller's file and line to every record.
func WithSource(enabled bool) Option {
	return func(o *options) {
		o.addSource = enabled
	}
}

// New builds a logger for the given environment. Production emits JSON;
// every other environment emits tint's colored text. When file logging is
// enabled the output is also written to a lumberjack-rotated file.
func New(environment env.Environment, opts ...Option) *slog.Logger {
	o := &options{
		out:     os.Stderr,
		level:   slog.LevelInfo,
		logFile: defaultLogFile,
	}
	for _, opt := range opts {
		opt(o)
	}

	w := o.out
	if o.logToFile {
		w = io.MultiWriter(o.out, &lumberjack.Logger{
			Filename:   o.logFile,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			MaxAge:     defaultMaxAgeDays,
			Compress:   true,
		})
	}

	if environment.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: o.addSource,
			Level:     o.level,
		}))
	}

	return slog.New(tint.NewHandler(w, &tint.Options{
		AddSource:  o.addSource,
		Level:      o.level,
		TimeFormat: time.Kitchen,
		NoColor:    o.logToFile || o.out != os.Stderr,
	}))
}
