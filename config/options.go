package config

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/junioryono/simpledi"
)

// NewLogger builds a logger writing to w in the configured format and level.
// Unknown levels fall back to info.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.ToLower(c.LogFormat) == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true})
	} else {
		zl = zerolog.New(w)
	}

	return zl.Level(level).With().Timestamp().Logger()
}

// Options converts the configuration into container options, logging to w.
func (c *Config) Options(w io.Writer) []simpledi.Option {
	opts := []simpledi.Option{
		simpledi.WithLogger(c.NewLogger(w)),
		simpledi.WithImplicitConstructors(c.ImplicitConstructors),
		simpledi.WithMaxDepth(c.MaxDepth),
	}

	if !c.Telemetry {
		opts = append(opts,
			simpledi.WithMeterProvider(noop.NewMeterProvider()),
			simpledi.WithTracerProvider(tracenoop.NewTracerProvider()),
		)
	}

	return opts
}
