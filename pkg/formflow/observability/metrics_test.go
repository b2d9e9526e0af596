package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) *metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return &rm
}

func findMetric(rm *metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// The recorder's instruments are created once per process, so all metric
// assertions share a single provider set up before the first recording.
func TestMetricsRecorder(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down meter provider: %v", err)
		}
	}()

	recorder := NewMetricsRecorder()
	require.NotNil(t, recorder)
	_, isNoop := recorder.(NoopMetrics)
	require.False(t, isNoop, "expected a real recorder with a provider installed")

	ctx := context.Background()

	t.Run("RecordSession", func(t *testing.T) {
		recorder.RecordSession(ctx, "edit-42", "updated", 120*time.Millisecond)

		rm := collectMetrics(t, reader)

		sessions := findMetric(rm, "formflow.sessions")
		require.NotNil(t, sessions)
		sum, ok := sessions.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.NotEmpty(t, sum.DataPoints)
		assert.Equal(t, int64(1), sum.DataPoints[0].Value)

		duration := findMetric(rm, "formflow.session.duration_ms")
		require.NotNil(t, duration)
		hist, ok := duration.Data.(metricdata.Histogram[float64])
		require.True(t, ok)
		require.NotEmpty(t, hist.DataPoints)
		assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
		assert.Equal(t, 120.0, hist.DataPoints[0].Sum)
	})

	t.Run("RecordNavigation", func(t *testing.T) {
		recorder.RecordNavigation(ctx, "detail-7")

		rm := collectMetrics(t, reader)
		navigations := findMetric(rm, "formflow.navigations")
		require.NotNil(t, navigations)
		sum, ok := navigations.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.NotEmpty(t, sum.DataPoints)
		assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	})

	t.Run("RecordPublish", func(t *testing.T) {
		recorder.RecordPublish(ctx, "form.presentation.requested")
		recorder.RecordPublish(ctx, "form.presentation.requested")

		rm := collectMetrics(t, reader)
		published := findMetric(rm, "formflow.events.published")
		require.NotNil(t, published)
		sum, ok := published.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		require.NotEmpty(t, sum.DataPoints)
		assert.Equal(t, int64(2), sum.DataPoints[0].Value)
	})
}
