package formflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/Moroverse/formflow/pkg/formflow/event"
	"github.com/Moroverse/formflow/pkg/formflow/form"
	"github.com/Moroverse/formflow/pkg/formflow/ident"
	"github.com/Moroverse/formflow/pkg/formflow/observability"
)

// Router coordinates modal form presentation for one feature boundary.
//
// It is a two-state machine: Idle (no session) or Pending (exactly one
// session). RequestForm suspends its caller until the presentation surface
// resolves the session; every lifecycle transition is published through the
// injected broker before the affected caller observes it, so subscribers
// never see a Completed event without its causally prior Requested event.
//
// Router is safe for concurrent use. Two call sites racing RequestForm do
// not corrupt state: the loser's session is deterministically resolved with
// Cancelled before the winner's session is installed. Event publication
// happens while the router's mutex is held, which keeps the per-router
// event stream a strict Requested/Completed alternation; broker handlers
// therefore must not call back into mutating router operations.
type Router struct {
	broker  *event.Broker
	factory *event.Factory
	ids     ident.Generator
	logger  *slog.Logger
	spans   observability.SpanManager
	metrics observability.MetricsRecorder

	mu        sync.Mutex
	session   *session
	presented *Presentation
	stack     []form.Route
}

// NewRouter creates a router publishing through broker with events built by
// factory. A nil broker or factory is replaced with a default instance so a
// bare NewRouter(nil, nil) is usable in tests.
func NewRouter(broker *event.Broker, factory *event.Factory, opts ...Option) *Router {
	if broker == nil {
		broker = event.NewBroker(event.BrokerConfig{})
	}
	if factory == nil {
		factory = event.NewFactory(nil, nil)
	}

	r := &Router{
		broker:  broker,
		factory: factory,
		ids:     ident.UUID(),
		spans:   observability.NoopSpanManager{},
		metrics: observability.NoopMetrics{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// RequestForm presents a form for mode and suspends the calling goroutine
// until the session resolves. It returns the session's terminal result.
//
// If a session is already pending it is force-resolved with Cancelled
// first - superseding is an implicit cancellation, never a silent
// overwrite - and its Completed event is published before the new
// session's Requested event.
//
// Cancelling ctx resolves the session with Cancelled; the delivered result
// is returned together with ctx.Err().
func (r *Router) RequestForm(ctx context.Context, mode form.Mode) (form.Result, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	s := newSession(r.ids.NewID(), mode)
	ctx, span := r.spans.StartSessionSpan(ctx, mode.Identity(), s.token)
	start := time.Now()

	r.mu.Lock()
	old := r.session
	oldPresented := r.presented
	r.session = s
	r.presented = &Presentation{
		Token:  s.token,
		FormID: mode.Identity(),
		Title:  mode.Title(),
		Mode:   mode,
	}
	if old != nil {
		r.publishLocked(ctx, r.factory.FormCompleted(old.mode, form.Cancelled{}))
		old.fire(form.Cancelled{})
	}
	r.publishLocked(ctx, r.factory.FormRequested(mode))
	r.mu.Unlock()

	if old != nil {
		observability.LogFormSuperseded(r.logger, old.token, oldPresented.FormID, mode.Identity())
	}
	observability.LogFormRequested(r.logger, s.token, mode.Identity())

	var res form.Result
	var ctxErr error
	select {
	case res = <-s.result:
	case <-ctx.Done():
		ctxErr = ctx.Err()
		// Resolve on the caller's behalf; a no-op if another goroutine
		// already resolved or superseded the session, in which case the
		// channel still delivers exactly one result.
		r.resolveSession(s, form.Cancelled{})
		res = <-s.result
	}

	r.finishSession(ctx, span, s, mode, res, start)
	return res, ctxErr
}

// Resolve delivers result to the session identified by token. It reports
// whether a session was resolved: resolution targets session identity, so
// a stale caller holding an old token cannot corrupt a newer session.
// Resolving when nothing is pending is a no-op.
func (r *Router) Resolve(token string, result form.Result) bool {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()

	if s == nil || s.token != token {
		observability.LogStaleResolve(r.logger, token)
		return false
	}
	return r.resolveSession(s, result)
}

// CancelActiveOperations resolves the pending session, if any, with
// Cancelled. Idempotent: on an idle router it publishes nothing and
// changes nothing.
func (r *Router) CancelActiveOperations() {
	r.mu.Lock()
	s := r.session
	r.mu.Unlock()

	if s == nil {
		return
	}
	r.resolveSession(s, form.Cancelled{})
}

// NavigateTo pushes route onto the navigation stack. Navigation never
// suspends: the Requested and Completed events are published back-to-back,
// synchronously, before NavigateTo returns.
func (r *Router) NavigateTo(ctx context.Context, route form.Route) error {
	if ctx == nil {
		return ErrNilContext
	}

	ctx, span := r.spans.StartNavigationSpan(ctx, route.Identity())

	r.mu.Lock()
	r.stack = append(r.stack, route)
	depth := len(r.stack)
	r.publishLocked(ctx, r.factory.NavigationRequested(route))
	r.publishLocked(ctx, r.factory.NavigationCompleted(route))
	r.mu.Unlock()

	observability.LogNavigation(r.logger, route.Identity(), depth)
	r.metrics.RecordNavigation(ctx, route.Identity())
	r.spans.EndSpanWithError(span, nil)
	return nil
}

// HasActiveOperations reports whether a session is pending.
func (r *Router) HasActiveOperations() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session != nil
}

// PresentedForm returns the descriptor of the currently presented form, or
// nil when the router is idle.
func (r *Router) PresentedForm() *Presentation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.presented
}

// NavigationStack returns a copy of the navigation stack, oldest first.
func (r *Router) NavigationStack() []form.Route {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]form.Route, len(r.stack))
	copy(out, r.stack)
	return out
}

// resolveSession completes s with result if it is still the current
// session. The Completed event is published before the suspended caller is
// released, so subscribers observe the completion before the caller
// resumes.
func (r *Router) resolveSession(s *session, result form.Result) bool {
	r.mu.Lock()
	if r.session != s {
		r.mu.Unlock()
		return false
	}
	r.session = nil
	r.presented = nil
	r.publishLocked(context.Background(), r.factory.FormCompleted(s.mode, result))
	s.fire(result)
	r.mu.Unlock()
	return true
}

// finishSession records observability for a delivered result.
func (r *Router) finishSession(ctx context.Context, span trace.Span, s *session, mode form.Mode, res form.Result, start time.Time) {
	elapsed := time.Since(start)
	outcome := form.ResultKind(res)
	observability.LogFormCompleted(r.logger, s.token, mode.Identity(), outcome,
		float64(elapsed.Milliseconds()))
	r.metrics.RecordSession(ctx, mode.Identity(), outcome, elapsed)

	var spanErr error
	if failed, ok := res.(form.Failed); ok {
		spanErr = failed.Err
	}
	r.spans.EndSpanWithError(span, spanErr)
}

// publishLocked publishes one event; callers must hold r.mu.
func (r *Router) publishLocked(ctx context.Context, evt event.Event) {
	r.broker.Publish(evt)
	r.metrics.RecordPublish(ctx, evt.Type())
}
