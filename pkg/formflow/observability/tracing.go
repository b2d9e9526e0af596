package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the formflow tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("formflow")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartSessionSpan starts a span covering one form session, from
	// request to terminal result.
	StartSessionSpan(ctx context.Context, formID, sessionToken string) (context.Context, trace.Span)

	// StartNavigationSpan starts a span for a synchronous navigation push.
	StartNavigationSpan(ctx context.Context, routeID string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartSessionSpan starts a span covering one form session.
func (m *otelSpanManager) StartSessionSpan(ctx context.Context, formID, sessionToken string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formflow.session",
		trace.WithAttributes(
			attribute.String("form.id", formID),
			attribute.String("session.token", sessionToken),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartNavigationSpan starts a span for a navigation push.
func (m *otelSpanManager) StartNavigationSpan(ctx context.Context, routeID string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "formflow.navigation."+routeID,
		trace.WithAttributes(
			attribute.String("route.id", routeID),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
