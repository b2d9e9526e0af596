package formflow_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Moroverse/formflow/pkg/formflow"
	"github.com/Moroverse/formflow/pkg/formflow/clock"
	"github.com/Moroverse/formflow/pkg/formflow/event"
	"github.com/Moroverse/formflow/pkg/formflow/form"
	"github.com/Moroverse/formflow/pkg/formflow/ident"
)

// eventLog collects every published event in delivery order.
type eventLog struct {
	mu   sync.Mutex
	evts []event.Event
}

func (l *eventLog) add(evt event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.evts = append(l.evts, evt)
}

func (l *eventLog) events() []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]event.Event, len(l.evts))
	copy(out, l.evts)
	return out
}

func (l *eventLog) types() []string {
	evts := l.events()
	types := make([]string, len(evts))
	for i, evt := range evts {
		types[i] = evt.Type()
	}
	return types
}

func newTestRouter(t *testing.T) (*formflow.Router, *event.Broker, *eventLog) {
	t.Helper()

	broker := event.NewBroker(event.BrokerConfig{})
	factory := event.NewFactory(
		clock.Stepping(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), time.Second),
		ident.Sequential("evt"),
	)
	router := formflow.NewRouter(broker, factory,
		formflow.WithIDGenerator(ident.Sequential("tok")),
	)

	log := &eventLog{}
	broker.SubscribeAll(log.add)
	return router, broker, log
}

// presentedSignal fires on every form presentation request.
func presentedSignal(broker *event.Broker, capacity int) chan struct{} {
	requested := make(chan struct{}, capacity)
	broker.Subscribe(event.TypeFormRequested, func(event.Event) {
		requested <- struct{}{}
	})
	return requested
}

func TestRequestFormResolvesWithResult(t *testing.T) {
	router, broker, log := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	resolved := make(chan bool, 1)
	go func() {
		<-requested
		p := router.PresentedForm()
		resolved <- router.Resolve(p.Token, form.Created{Entity: "rec-1", Message: "saved"})
	}()

	res, err := router.RequestForm(context.Background(), form.Create{})
	require.NoError(t, err)
	require.Equal(t, form.Created{Entity: "rec-1", Message: "saved"}, res)
	assert.True(t, <-resolved)

	assert.False(t, router.HasActiveOperations())
	assert.Nil(t, router.PresentedForm())

	// One Requested, one Completed, in that order
	require.Equal(t, []string{event.TypeFormRequested, event.TypeFormCompleted}, log.types())

	completed, ok := log.events()[1].(*event.FormCompleted)
	require.True(t, ok)
	assert.True(t, form.SameMode(form.Create{}, completed.TypedData().Mode))
	assert.Equal(t, form.Created{Entity: "rec-1", Message: "saved"}, completed.TypedData().Result)
}

func TestRequestFormPresentationDescriptor(t *testing.T) {
	router, broker, _ := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	type outcome struct {
		res form.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := router.RequestForm(context.Background(),
			form.Edit{Ref: form.EntityRef{ID: "42", Label: "Invoice"}})
		done <- outcome{res, err}
	}()

	<-requested
	assert.True(t, router.HasActiveOperations())

	p := router.PresentedForm()
	require.NotNil(t, p)
	assert.Equal(t, "tok-1", p.Token)
	assert.Equal(t, "edit-42", p.FormID)
	assert.Equal(t, "Edit Invoice", p.Title)
	assert.True(t, form.SameMode(form.Edit{Ref: form.EntityRef{ID: "42"}}, p.Mode))

	require.True(t, router.Resolve(p.Token, form.Updated{}))

	out := <-done
	require.NoError(t, out.err)
	assert.Equal(t, form.Updated{}, out.res)
}

func TestRequestFormSupersedesPendingSession(t *testing.T) {
	router, broker, log := newTestRouter(t)
	requested := presentedSignal(broker, 2)

	first := make(chan form.Result, 1)
	go func() {
		res, _ := router.RequestForm(context.Background(), form.Create{})
		first <- res
	}()
	<-requested

	second := make(chan form.Result, 1)
	go func() {
		res, _ := router.RequestForm(context.Background(),
			form.Edit{Ref: form.EntityRef{ID: "42"}})
		second <- res
	}()
	<-requested

	// The first caller is force-resolved with Cancelled, never left hanging
	assert.Equal(t, form.Cancelled{}, <-first)

	// The new session is the presented one
	p := router.PresentedForm()
	require.NotNil(t, p)
	assert.Equal(t, "edit-42", p.FormID)

	require.True(t, router.Resolve(p.Token, form.Updated{}))
	assert.Equal(t, form.Updated{}, <-second)

	// The superseded session's Completed precedes the new Requested
	require.Equal(t, []string{
		event.TypeFormRequested,
		event.TypeFormCompleted,
		event.TypeFormRequested,
		event.TypeFormCompleted,
	}, log.types())

	evts := log.events()
	superseded, ok := evts[1].(*event.FormCompleted)
	require.True(t, ok)
	assert.True(t, form.SameMode(form.Create{}, superseded.TypedData().Mode))
	assert.Equal(t, form.Cancelled{}, superseded.TypedData().Result)

	final, ok := evts[3].(*event.FormCompleted)
	require.True(t, ok)
	assert.Equal(t, "edit-42", final.TypedData().Mode.Identity())
	assert.Equal(t, form.Updated{}, final.TypedData().Result)
}

func TestResolveStaleToken(t *testing.T) {
	router, broker, log := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	done := make(chan form.Result, 1)
	go func() {
		res, _ := router.RequestForm(context.Background(), form.Create{})
		done <- res
	}()
	<-requested

	// A stale or bogus token must not touch the pending session
	assert.False(t, router.Resolve("tok-999", form.Created{}))
	assert.True(t, router.HasActiveOperations())
	require.Equal(t, []string{event.TypeFormRequested}, log.types())

	require.True(t, router.Resolve(router.PresentedForm().Token, form.Created{}))
	assert.Equal(t, form.Created{}, <-done)

	// After resolution the old token is dead too
	assert.False(t, router.Resolve("tok-1", form.Created{}))
}

func TestResolveIdle(t *testing.T) {
	router, _, log := newTestRouter(t)

	assert.False(t, router.Resolve("tok-1", form.Created{}))
	assert.Empty(t, log.types())
}

func TestCancelActiveOperations(t *testing.T) {
	router, broker, log := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	done := make(chan form.Result, 1)
	go func() {
		res, _ := router.RequestForm(context.Background(), form.Create{})
		done <- res
	}()
	<-requested

	router.CancelActiveOperations()
	assert.Equal(t, form.Cancelled{}, <-done)
	assert.False(t, router.HasActiveOperations())

	// Idempotent: cancelling an idle router publishes nothing
	router.CancelActiveOperations()
	require.Equal(t, []string{event.TypeFormRequested, event.TypeFormCompleted}, log.types())
}

func TestRequestFormContextCancelled(t *testing.T) {
	router, broker, log := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-requested
		cancel()
	}()

	res, err := router.RequestForm(ctx, form.Create{})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, form.Cancelled{}, res)

	assert.False(t, router.HasActiveOperations())
	require.Equal(t, []string{event.TypeFormRequested, event.TypeFormCompleted}, log.types())
}

func TestRequestFormNilContext(t *testing.T) {
	router, _, log := newTestRouter(t)

	var nilCtx context.Context
	res, err := router.RequestForm(nilCtx, form.Create{})
	require.ErrorIs(t, err, formflow.ErrNilContext)
	assert.Nil(t, res)
	assert.Empty(t, log.types())
}

func TestNavigateTo(t *testing.T) {
	router, _, log := newTestRouter(t)
	ctx := context.Background()

	require.NoError(t, router.NavigateTo(ctx, form.Detail{Ref: form.EntityRef{ID: "7"}}))
	require.NoError(t, router.NavigateTo(ctx, form.History{Ref: form.EntityRef{ID: "7"}}))

	stack := router.NavigationStack()
	require.Len(t, stack, 2)
	assert.Equal(t, "detail-7", stack[0].Identity())
	assert.Equal(t, "history-7", stack[1].Identity())

	// The returned stack is a copy
	stack[0] = form.Detail{Ref: form.EntityRef{ID: "mutated"}}
	assert.Equal(t, "detail-7", router.NavigationStack()[0].Identity())

	// Each navigation publishes Requested then Completed, back to back
	require.Equal(t, []string{
		event.TypeNavigationRequested,
		event.TypeNavigationCompleted,
		event.TypeNavigationRequested,
		event.TypeNavigationCompleted,
	}, log.types())

	nav, ok := log.events()[0].(*event.Navigation)
	require.True(t, ok)
	assert.Equal(t, "detail-7", nav.TypedData().Route.Identity())
}

func TestNavigateToNilContext(t *testing.T) {
	router, _, log := newTestRouter(t)

	var nilCtx context.Context
	err := router.NavigateTo(nilCtx, form.Detail{Ref: form.EntityRef{ID: "7"}})
	require.ErrorIs(t, err, formflow.ErrNilContext)
	assert.Empty(t, router.NavigationStack())
	assert.Empty(t, log.types())
}

func TestNavigateToDoesNotDisturbPendingSession(t *testing.T) {
	router, broker, _ := newTestRouter(t)
	requested := presentedSignal(broker, 1)

	done := make(chan form.Result, 1)
	go func() {
		res, _ := router.RequestForm(context.Background(), form.Create{})
		done <- res
	}()
	<-requested

	require.NoError(t, router.NavigateTo(context.Background(), form.Detail{Ref: form.EntityRef{ID: "7"}}))
	assert.True(t, router.HasActiveOperations())

	require.True(t, router.Resolve(router.PresentedForm().Token, form.Created{}))
	assert.Equal(t, form.Created{}, <-done)
}

func TestConcurrentRequestsResolveExactlyOnce(t *testing.T) {
	router, broker, log := newTestRouter(t)

	const n = 4
	requested := presentedSignal(broker, n)

	results := make(chan form.Result, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			res, err := router.RequestForm(context.Background(),
				form.Edit{Ref: form.EntityRef{ID: strconv.Itoa(i)}})
			assert.NoError(t, err)
			results <- res
		}(i)
	}

	// All n sessions installed; n-1 already superseded, one still pending
	for i := 0; i < n; i++ {
		<-requested
	}
	router.CancelActiveOperations()

	// Every caller receives exactly one result
	for i := 0; i < n; i++ {
		assert.Equal(t, form.Cancelled{}, <-results)
	}
	assert.False(t, router.HasActiveOperations())

	// The event stream stays a strict Requested/Completed alternation
	types := log.types()
	require.Len(t, types, 2*n)
	for i, typ := range types {
		if i%2 == 0 {
			assert.Equal(t, event.TypeFormRequested, typ, "position %d", i)
		} else {
			assert.Equal(t, event.TypeFormCompleted, typ, "position %d", i)
		}
	}
}

func TestRouterDefaultCollaborators(t *testing.T) {
	// A bare router must work with generated defaults
	router := formflow.NewRouter(nil, nil)

	require.NoError(t, router.NavigateTo(context.Background(), form.Detail{Ref: form.EntityRef{ID: "7"}}))
	assert.False(t, router.HasActiveOperations())
}
