package app

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/ayusman/mudra/internal/app"

type metrics struct {
	ticks    metric.Int64Counter
	intents  metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	var m metrics
	var err error

	if m.ticks, err = meter.Int64Counter("mudra.ticks",
		metric.WithDescription("Poll ticks run")); err != nil {
		return nil, fmt.Errorf("create ticks counter: %w", err)
	}
	if m.intents, err = meter.Int64Counter("mudra.intents",
		metric.WithDescription("Intents dispatched, by intent")); err != nil {
		return nil, fmt.Errorf("create intents counter: %w", err)
	}
	if m.errors, err = meter.Int64Counter("mudra.errors",
		metric.WithDescription("Tick-local errors, by kind")); err != nil {
		return nil, fmt.Errorf("create errors counter: %w", err)
	}
	if m.duration, err = meter.Float64Histogram("mudra.tick.duration",
		metric.WithDescription("Tick processing time"),
		metric.WithUnit("ms")); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return &m, nil
}

func (m *metrics) tick(ctx context.Context, d time.Duration, skipped string) {
	m.ticks.Add(ctx, 1, metric.WithAttributes(attribute.String("skipped", skipped)))
	m.duration.Record(ctx, float64(d)/float64(time.Millisecond))
}

func (m *metrics) intent(ctx context.Context, intent string) {
	m.intents.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intent)))
}

func (m *metrics) error(ctx context.Context, kind string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
