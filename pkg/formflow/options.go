package formflow

import (
	"log/slog"

	"github.com/Moroverse/formflow/pkg/formflow/ident"
	"github.com/Moroverse/formflow/pkg/formflow/observability"
)

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the router's structured logger.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithIDGenerator sets the generator used for session tokens.
// Default: random UUIDs. Substitute ident.Sequential in tests for
// deterministic tokens.
func WithIDGenerator(ids ident.Generator) Option {
	return func(r *Router) {
		if ids != nil {
			r.ids = ids
		}
	}
}

// WithTracing enables OTel spans for sessions and navigation.
// Default: disabled (no-op span manager).
func WithTracing(enabled bool) Option {
	return func(r *Router) {
		if enabled {
			r.spans = observability.NewSpanManager()
		} else {
			r.spans = observability.NoopSpanManager{}
		}
	}
}

// WithSpanManager sets a custom span manager, overriding WithTracing.
func WithSpanManager(spans observability.SpanManager) Option {
	return func(r *Router) {
		if spans != nil {
			r.spans = spans
		}
	}
}

// WithMetrics enables OTel metrics for sessions, navigation, and event
// publication. Default: disabled (no-op recorder).
func WithMetrics(enabled bool) Option {
	return func(r *Router) {
		if enabled {
			r.metrics = observability.NewMetricsRecorder()
		} else {
			r.metrics = observability.NoopMetrics{}
		}
	}
}

// WithMetricsRecorder sets a custom metrics recorder, overriding
// WithMetrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(r *Router) {
		if m != nil {
			r.metrics = m
		}
	}
}
