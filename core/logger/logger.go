package logger

import (
	"io"
	"log/slog"
	"os"
)

type options struct {
	level  slog.Level
	json   bool
	output io.Writer
}

// Option configures the logger built by New.
type Option func(*options)

// WithLevel sets the minimum log level. Default is Info.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithJSON switches output to JSON. Default is text.
func WithJSON() Option {
	return func(o *options) {
		o.json = true
	}
}

// WithOutput redirects log output. Default is stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.output = w
		}
	}
}

// New builds a slog.Logger with the SDK's defaults.
func New(opts ...Option) *slog.Logger {
	o := options{
		level:  slog.LevelInfo,
		output: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handlerOpts := &slog.HandlerOptions{Level: o.level}
	if o.json {
		return slog.New(slog.NewJSONHandler(o.output, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(o.output, handlerOpts))
}
