package simpledi_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/junioryono/simpledi"
	"github.com/junioryono/simpledi/internal/testutil"
)

func sumCounter(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "metric %s is not an int64 sum", name)
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	return total
}

func TestContainer_Telemetry(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
		_ = tp.Shutdown(context.Background())
	})

	c := testutil.NewContainer(t, simpledi.WithMeterProvider(mp), simpledi.WithTracerProvider(tp))
	require.NoError(t, c.Provide(NewCar))
	require.NoError(t, simpledi.Register[*Engine](c, simpledi.Singleton))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "request")
	_, err := simpledi.ResolveContext[*Car](ctx, c)
	require.NoError(t, err)
	_, err = simpledi.ResolveContext[*Car](ctx, c)
	require.NoError(t, err)
	_, err = simpledi.ResolveContext[Greeter](ctx, c)
	require.Error(t, err)
	parent.End()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(3), sumCounter(t, rm, "simpledi.resolutions"))
	assert.Equal(t, int64(1), sumCounter(t, rm, "simpledi.resolution.errors"))
	// Engine once, Car twice.
	assert.Equal(t, int64(3), sumCounter(t, rm, "simpledi.constructions"))

	var resolveSpans []sdktrace.ReadOnlySpan
	for _, s := range exporter.GetSpans().Snapshots() {
		if s.Name() == "simpledi.Resolve" {
			resolveSpans = append(resolveSpans, s)
		}
	}
	require.Len(t, resolveSpans, 3)

	for _, s := range resolveSpans {
		assert.Equal(t, parent.SpanContext().TraceID(), s.SpanContext().TraceID())
		assert.Equal(t, trace.SpanKindInternal, s.SpanKind())
		assert.Contains(t, s.Attributes(), attribute.String("container.id", c.ID()))
	}

	failed := resolveSpans[2]
	assert.Contains(t, failed.Attributes(), attribute.String("error.kind", "not_registered"))
	assert.Contains(t, failed.Attributes(), attribute.String("service.type", "simpledi_test.Greeter"))
}
