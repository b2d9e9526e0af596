package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records formflow metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSession records a completed form session with its outcome
	// ("created", "updated", "deleted", "cancelled", "failed") and the
	// time the caller spent suspended.
	RecordSession(ctx context.Context, formID, outcome string, duration time.Duration)

	// RecordNavigation records a navigation push.
	RecordNavigation(ctx context.Context, routeID string)

	// RecordPublish records an event published to the broker.
	RecordPublish(ctx context.Context, eventType string)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	sessions        metric.Int64Counter
	sessionDuration metric.Float64Histogram
	navigations     metric.Int64Counter
	published       metric.Int64Counter
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
	meter := otel.Meter("formflow")

	sessions, err := meter.Int64Counter("formflow.sessions",
		metric.WithDescription("Number of completed form sessions"),
	)
	if err != nil {
		return nil, err
	}

	sessionDuration, err := meter.Float64Histogram("formflow.session.duration_ms",
		metric.WithDescription("Form session duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	navigations, err := meter.Int64Counter("formflow.navigations",
		metric.WithDescription("Number of navigation pushes"),
	)
	if err != nil {
		return nil, err
	}

	published, err := meter.Int64Counter("formflow.events.published",
		metric.WithDescription("Number of events published to the broker"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		sessions:        sessions,
		sessionDuration: sessionDuration,
		navigations:     navigations,
		published:       published,
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

// RecordSession records a completed form session.
func (m *otelMetrics) RecordSession(ctx context.Context, formID, outcome string, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("form_id", formID),
		attribute.String("outcome", outcome),
	}
	m.sessions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.sessionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordNavigation records a navigation push.
func (m *otelMetrics) RecordNavigation(ctx context.Context, routeID string) {
	m.navigations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("route_id", routeID),
	))
}

// RecordPublish records a published event.
func (m *otelMetrics) RecordPublish(ctx context.Context, eventType string) {
	m.published.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event_type", eventType),
	))
}
