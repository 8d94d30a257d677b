// Package telemetry records resolution metrics and spans with OpenTelemetry.
package telemetry

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/junioryono/simpledi/internal/resolver"
)

// InstrumentationName identifies the meter and tracer created by this package.
const InstrumentationName = "github.com/junioryono/simpledi"

// Attribute keys
const (
	ServiceTypeKey = attribute.Key("service.type")
	ErrorKindKey   = attribute.Key("error.kind")
	ContainerIDKey = attribute.Key("container.id")
)

// Instruments holds the metric instruments and tracer used by a container.
type Instruments struct {
	tracer      trace.Tracer
	containerID attribute.KeyValue

	resolutions   metric.Int64Counter
	errors        metric.Int64Counter
	constructions metric.Int64Counter
	duration      metric.Float64Histogram
}

// New creates instruments on the given providers. Nil providers fall back to
// the global ones registered with otel.
func New(containerID string, mp metric.MeterProvider, tp trace.TracerProvider) (*Instruments, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	meter := mp.Meter(InstrumentationName)

	resolutions, err := meter.Int64Counter("simpledi.resolutions",
		metric.WithDescription("Total number of top-level resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simpledi.resolutions counter: %w", err)
	}

	errorTotal, err := meter.Int64Counter("simpledi.resolution.errors",
		metric.WithDescription("Total number of failed resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simpledi.resolution.errors counter: %w", err)
	}

	constructions, err := meter.Int64Counter("simpledi.constructions",
		metric.WithDescription("Total number of constructor invocations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simpledi.constructions counter: %w", err)
	}

	duration, err := meter.Float64Histogram("simpledi.resolution.duration",
		metric.WithDescription("Duration of top-level resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating simpledi.resolution.duration histogram: %w", err)
	}

	return &Instruments{
		tracer:        tp.Tracer(InstrumentationName),
		containerID:   ContainerIDKey.String(containerID),
		resolutions:   resolutions,
		errors:        errorTotal,
		constructions: constructions,
		duration:      duration,
	}, nil
}

// StartResolve opens a span for resolving t. The returned function must be
// called with the outcome; it ends the span and records the metrics.
func (i *Instruments) StartResolve(ctx context.Context, t reflect.Type) (context.Context, func(error)) {
	typeAttr := ServiceTypeKey.String(typeName(t))

	ctx, span := i.tracer.Start(ctx, "simpledi.Resolve",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(typeAttr, i.containerID),
	)
	start := time.Now()

	return ctx, func(err error) {
		attrs := metric.WithAttributes(typeAttr, i.containerID)

		i.resolutions.Add(ctx, 1, attrs)
		i.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		if err != nil {
			kind := resolver.Kind(err)
			i.errors.Add(ctx, 1, metric.WithAttributes(typeAttr, i.containerID, ErrorKindKey.String(kind)))

			span.SetAttributes(ErrorKindKey.String(kind))
			span.RecordError(err)
			span.SetStatus(codes.Error, kind)
		}

		span.End()
	}
}

// RecordConstruction counts one constructor invocation for impl.
func (i *Instruments) RecordConstruction(ctx context.Context, impl reflect.Type) {
	i.constructions.Add(ctx, 1, metric.WithAttributes(ServiceTypeKey.String(typeName(impl)), i.containerID))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
