package busyflag

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/randalmurphal/busyflag/pkg/busyflag/observability"
)

// countingMetrics records call counts for wiring assertions.
type countingMetrics struct {
	operations atomic.Int64
	warnings   atomic.Int64
	flagCounts atomic.Int64
}

var _ observability.MetricsRecorder = (*countingMetrics)(nil)

func (c *countingMetrics) RecordOperation(_ context.Context, _ string, _ error) {
	c.operations.Add(1)
}

func (c *countingMetrics) RecordWarning(_ context.Context, _ string) {
	c.warnings.Add(1)
}

func (c *countingMetrics) RecordFlagCount(_ context.Context, _ int) {
	c.flagCounts.Add(1)
}

// countingSpans counts started spans.
type countingSpans struct {
	observability.NoopSpanManager
	started atomic.Int64
}

func (c *countingSpans) StartOpSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	c.started.Add(1)
	return c.NoopSpanManager.StartOpSpan(ctx, op, key)
}

func TestDefaultModes(t *testing.T) {
	m := New()

	// Non-strict by default: implicit registration works.
	require.NoError(t, m.Set("implicit"))

	// Create-on-access defaults on, but only matters in strict mode.
	m.Configure(WithStrict(true))
	v, err := m.Get("healed")
	require.NoError(t, err)
	assert.Equal(t, false, v)
	assert.True(t, m.Has("healed"))
}

func TestWithMetrics(t *testing.T) {
	metrics := &countingMetrics{}
	m := New(WithMetrics(metrics), WithLogger(nil))

	m.Add("save")
	m.Add("save") // duplicate warning
	require.NoError(t, m.Set("save"))
	_, err := m.Get("save")
	require.NoError(t, err)
	require.NoError(t, m.Remove("save"))

	assert.Equal(t, int64(5), metrics.operations.Load())
	assert.Equal(t, int64(1), metrics.warnings.Load())
	assert.Greater(t, metrics.flagCounts.Load(), int64(0))
}

func TestWithMetricsStrictFailure(t *testing.T) {
	metrics := &countingMetrics{}
	m := New(WithMetrics(metrics), WithLogger(nil), WithStrict(true))

	require.Error(t, m.Set("missing"))

	assert.Equal(t, int64(1), metrics.operations.Load())
	assert.Equal(t, int64(1), metrics.warnings.Load())
}

func TestWithSpans(t *testing.T) {
	spans := &countingSpans{}
	m := New(WithSpans(spans))

	m.Add("save")
	require.NoError(t, m.Set("save"))
	_, err := m.Get("save")
	require.NoError(t, err)

	assert.Equal(t, int64(3), spans.started.Load())
}

func TestWithMetricsSurvivesConfigure(t *testing.T) {
	metrics := &countingMetrics{}
	m := New(WithMetrics(metrics), WithLogger(nil))

	m.Configure()
	m.Add("save")

	assert.Greater(t, metrics.operations.Load(), int64(1))
}
