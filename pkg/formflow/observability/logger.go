// Package observability provides production-grade observability features
// for formflow: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds formflow session context to a logger.
// Returns a new logger with session_token and form_id fields.
func EnrichLogger(logger *slog.Logger, sessionToken, formID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("session_token", sessionToken),
		slog.String("form_id", formID),
	)
}

// LogFormRequested logs the start of a form session.
func LogFormRequested(logger *slog.Logger, sessionToken, formID string) {
	if logger == nil {
		return
	}
	logger.Info("form presentation requested",
		slog.String("session_token", sessionToken),
		slog.String("form_id", formID),
	)
}

// LogFormCompleted logs a form session reaching its terminal result.
func LogFormCompleted(logger *slog.Logger, sessionToken, formID, outcome string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Info("form presentation completed",
		slog.String("session_token", sessionToken),
		slog.String("form_id", formID),
		slog.String("outcome", outcome),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogFormSuperseded logs an in-flight session being cancelled because a new
// request arrived before it resolved.
func LogFormSuperseded(logger *slog.Logger, oldToken, oldFormID, newFormID string) {
	if logger == nil {
		return
	}
	logger.Warn("pending form superseded",
		slog.String("session_token", oldToken),
		slog.String("form_id", oldFormID),
		slog.String("superseded_by", newFormID),
	)
}

// LogNavigation logs a navigation push.
func LogNavigation(logger *slog.Logger, routeID string, stackDepth int) {
	if logger == nil {
		return
	}
	logger.Debug("navigation",
		slog.String("route_id", routeID),
		slog.Int("stack_depth", stackDepth),
	)
}

// LogStaleResolve logs a resolve call that targeted a session which is no
// longer current. This is expected protocol noise, not a fault.
func LogStaleResolve(logger *slog.Logger, token string) {
	if logger == nil {
		return
	}
	logger.Debug("resolve targeted a stale session",
		slog.String("session_token", token),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
