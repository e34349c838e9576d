package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "%s is not an int64 sum", name)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	return 0
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })

	CaseCreated(ctx, "W")
	CaseCreated(ctx, "AT")
	EscalationTriggered(ctx, 1)
	WordFilterHit(ctx, "delete_and_log")
	PlatformFailure(ctx, "timeout", "missing_permissions")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	assert.Equal(t, int64(2), sumOf(t, rm, "modbot.cases.created"))
	assert.Equal(t, int64(1), sumOf(t, rm, "modbot.escalations"))
	assert.Equal(t, int64(1), sumOf(t, rm, "modbot.word_filter.hits"))
	assert.Equal(t, int64(1), sumOf(t, rm, "modbot.platform.failures"))
}
