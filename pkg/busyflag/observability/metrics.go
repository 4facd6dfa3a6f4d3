package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry activity.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordOperation records a registry operation and its error status.
	// op is one of "add", "remove", "set", "get", "hold", "configure".
	RecordOperation(ctx context.Context, op string, err error)

	// RecordWarning records an emitted diagnostic warning.
	// kind is one of "duplicate_add", "unregistered", "auto_register".
	RecordWarning(ctx context.Context, kind string)

	// RecordFlagCount records the current number of registered flags.
	RecordFlagCount(ctx context.Context, n int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	operations metric.Int64Counter
	errors     metric.Int64Counter
	warnings   metric.Int64Counter
	flagCount  metric.Int64Gauge
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("busyflag")

	operations, err := meter.Int64Counter("busyflag.operations",
		metric.WithDescription("Number of registry operations"),
	)
	if err != nil {
		return nil, err
	}

	opErrors, err := meter.Int64Counter("busyflag.errors",
		metric.WithDescription("Number of strict-mode operation failures"),
	)
	if err != nil {
		return nil, err
	}

	warnings, err := meter.Int64Counter("busyflag.warnings",
		metric.WithDescription("Number of diagnostic warnings emitted"),
	)
	if err != nil {
		return nil, err
	}

	flagCount, err := meter.Int64Gauge("busyflag.flags",
		metric.WithDescription("Current number of registered flags"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		operations: operations,
		errors:     opErrors,
		warnings:   warnings,
		flagCount:  flagCount,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordOperation records a registry operation.
func (m *otelMetrics) RecordOperation(ctx context.Context, op string, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op", op),
	}

	m.operations.Add(ctx, 1, metric.WithAttributes(attrs...))

	if err != nil {
		m.errors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordWarning records an emitted warning.
func (m *otelMetrics) RecordWarning(ctx context.Context, kind string) {
	m.warnings.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
	))
}

// RecordFlagCount records the current registry size.
func (m *otelMetrics) RecordFlagCount(ctx context.Context, n int) {
	m.flagCount.Record(ctx, int64(n))
}
