package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordCycle(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	obs := newWithProvider(provider, "status-bot-test")
	defer obs.Shutdown()

	ctx := context.Background()
	obs.RecordCycle(ctx, 15*time.Millisecond, "notified")
	obs.RecordCycle(ctx, 5*time.Millisecond, "unchanged")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	names := map[string]metricdata.Metrics{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		names[m.Name] = m
	}

	counter, ok := names["poll.cycles"]
	require.True(t, ok)
	sum, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	_, ok = names["poll.cycle.duration"]
	assert.True(t, ok)
}

func TestNilObservabilityIsSafe(t *testing.T) {
	var obs *Observability
	obs.RecordCycle(context.Background(), time.Second, "failed")
	obs.Shutdown()

	empty := &Observability{}
	empty.RecordCycle(context.Background(), time.Second, "failed")
	empty.Shutdown()
}
