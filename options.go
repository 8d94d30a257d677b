package simpledi

import (
	"reflect"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Container.
type Option interface {
	apply(*containerOptions)
}

type containerOptions struct {
	logger         zerolog.Logger
	implicit       bool
	maxDepth       int
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	onResolved     func(serviceType reflect.Type, instance any, duration time.Duration)
	onError        func(serviceType reflect.Type, err error)
}

func defaultOptions() containerOptions {
	return containerOptions{
		logger:   zerolog.Nop(),
		implicit: true,
	}
}

// optionFunc adapts a function to Option.
type optionFunc func(*containerOptions)

func (f optionFunc) apply(opts *containerOptions) {
	f(opts)
}

// WithLogger sets the logger. Containers log nothing by default.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.logger = logger
	})
}

// WithImplicitConstructors controls whether concrete types without declared
// constructors are built from their zero value. Enabled by default.
func WithImplicitConstructors(enabled bool) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.implicit = enabled
	})
}

// WithMaxDepth bounds the length of a dependency chain. Zero means unlimited.
func WithMaxDepth(depth int) Option {
	return optionFunc(func(opts *containerOptions) {
		if depth < 0 {
			depth = 0
		}
		opts.maxDepth = depth
	})
}

// WithMeterProvider sets the provider used for resolution metrics.
// The global provider is used when unset.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.meterProvider = mp
	})
}

// WithTracerProvider sets the provider used for resolution spans.
// The global provider is used when unset.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.tracerProvider = tp
	})
}

// WithOnResolved registers a callback invoked after every successful
// top-level resolution.
func WithOnResolved(fn func(serviceType reflect.Type, instance any, duration time.Duration)) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.onResolved = fn
	})
}

// WithOnError registers a callback invoked after every failed top-level resolution.
func WithOnError(fn func(serviceType reflect.Type, err error)) Option {
	return optionFunc(func(opts *containerOptions) {
		opts.onError = fn
	})
}
