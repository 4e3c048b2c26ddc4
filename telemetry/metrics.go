package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/akmonengine/drivetrain/telemetry"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics counts vehicle ticks. It uses the global OpenTelemetry provider, a no-op until one is installed.
type Metrics struct {
	ticks    metric.Int64Counter
	skipped  metric.Int64Counter
	duration metric.Float64Histogram
}

func NewMetrics() (*Metrics, error) {
	return NewMetricsFrom(meter())
}

func NewMetricsFrom(m metric.Meter) (*Metrics, error) {
	var (
		metrics Metrics
		err     error
	)

	metrics.ticks, err = m.Int64Counter(
		"vehicle.ticks",
		metric.WithDescription("Vehicle ticks run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	metrics.skipped, err = m.Int64Counter(
		"vehicle.ticks.skipped",
		metric.WithDescription("Vehicle ticks skipped for an invalid body"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating skipped counter: %w", err)
	}

	metrics.duration, err = m.Float64Histogram(
		"vehicle.tick.duration",
		metric.WithDescription("Wall time of a vehicle tick"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating tick duration histogram: %w", err)
	}

	return &metrics, nil
}

// ObserveTick records one vehicle tick. ran is the result of the tick.
func (m *Metrics) ObserveTick(ctx context.Context, ran, grounded bool, elapsed time.Duration) {
	if m == nil {
		return
	}

	if !ran {
		m.skipped.Add(ctx, 1)
		return
	}

	m.ticks.Add(ctx, 1, metric.WithAttributes(attribute.Bool("grounded", grounded)))
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond))
}
