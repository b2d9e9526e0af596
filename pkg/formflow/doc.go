/*
Package formflow provides bidirectional modal form routing backed by an
event broker.

# Overview

formflow is a Go library for coordinating user-facing modal operations
("forms"). A caller requests a form, suspends until the presentation
surface delivers a terminal result, and every lifecycle transition is
published to independent subscribers - without coupling the subscribers to
the caller.

The core guarantees:
  - Single-flight: at most one session is pending per router.
  - Exactly-once resolution: a session's resolver fires once; duplicate
    fires are no-ops.
  - Deterministic ordering: every Completed event is preceded by its
    mode-matching Requested event; superseding a pending session emits the
    old session's Completed event before the new session's Requested event.
  - Safe cancellation: explicit cancellation and superseding follow
    identical semantics, resolving the displaced caller with Cancelled.

# Basic Usage

	broker := event.NewBroker(event.BrokerConfig{})
	factory := event.NewFactory(nil, nil) // system clock, UUID ids
	router := formflow.NewRouter(broker, factory)

	sub := broker.Subscribe(event.TypeFormCompleted, func(evt event.Event) {
	    log.Printf("completed: %s", evt.ID())
	})
	defer sub.Unsubscribe()

	// The presentation surface resolves the session when the user is done.
	go func() {
	    for router.PresentedForm() == nil {
	        runtime.Gosched()
	    }
	    p := router.PresentedForm()
	    router.Resolve(p.Token, form.Created{Entity: "patient-1"})
	}()

	result, err := router.RequestForm(context.Background(), form.Create{})

# Navigation

Navigation never suspends. NavigateTo pushes a route and publishes its
Requested and Completed events back-to-back:

	router.NavigateTo(ctx, form.Detail{Ref: form.EntityRef{ID: "42"}})

# Testing

Substitute deterministic collaborators without touching router or broker
code:

	factory := event.NewFactory(
	    clock.Fixed(time.Unix(0, 0)),
	    ident.Sequential("evt"),
	)
	router := formflow.NewRouter(broker, factory,
	    formflow.WithIDGenerator(ident.Sequential("tok")))
*/
package formflow
