package event

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// Handler processes a published event. Handlers run synchronously on the
// publisher's goroutine, in registration order.
type Handler func(evt Event)

// BrokerConfig configures broker behavior.
type BrokerConfig struct {
	// OnError is called when a handler panics during Publish. The panic is
	// contained to that handler; remaining handlers still run.
	// Default: a slog warning.
	OnError func(evt Event, subscriberTag string, recovered any)
}

// Broker is an in-process publish/subscribe registry keyed by event type.
//
// Publish is synchronous: every matching handler runs on the caller's
// goroutine before Publish returns, in the order the handlers subscribed.
// A handler failure (panic) is isolated per handler and never propagates
// to the publisher.
type Broker struct {
	config BrokerConfig

	mu        sync.RWMutex
	byType    map[string][]entry // event type -> tagged handlers
	wildcards []entry            // handlers for all event types
	nextTag   int
}

// entry pairs a handler with the tag Unsubscribe removes it by.
// Removal is by tag, never by handler value - handlers need not be
// comparable.
type entry struct {
	tag     string
	handler Handler
}

// NewBroker creates a new broker.
func NewBroker(config BrokerConfig) *Broker {
	if config.OnError == nil {
		config.OnError = func(evt Event, tag string, recovered any) {
			err := &EventError{
				Event:      evt,
				Subscriber: tag,
				Message:    "subscriber panicked",
				Err:        fmt.Errorf("%v", recovered),
				Timestamp:  time.Now(),
			}
			slog.Warn("event handler panicked",
				slog.String("event_type", evt.Type()),
				slog.String("subscriber", tag),
				slog.String("error", err.Error()),
			)
		}
	}
	return &Broker{
		config: config,
		byType: make(map[string][]entry),
	}
}

// Subscription is an opaque handle to one registered handler entry.
// Unsubscribe is idempotent and removes exactly that entry.
type Subscription struct {
	once    sync.Once
	dispose func()
}

// Unsubscribe removes the subscription's handler entry. Calling it again
// is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.dispose)
}

// Subscribe registers handler for one event type and returns a Subscription
// that removes it.
func (b *Broker) Subscribe(eventType string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	tag := b.newTag()
	b.byType[eventType] = append(b.byType[eventType], entry{tag: tag, handler: handler})

	return &Subscription{dispose: func() { b.remove(eventType, tag) }}
}

// SubscribeAll registers handler for every event type.
func (b *Broker) SubscribeAll(handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	tag := b.newTag()
	b.wildcards = append(b.wildcards, entry{tag: tag, handler: handler})

	return &Subscription{dispose: func() { b.removeWildcard(tag) }}
}

// Publish delivers evt to every handler subscribed to its type, then to
// every wildcard handler, synchronously and in registration order. No-op
// when nothing is subscribed.
func (b *Broker) Publish(evt Event) {
	// Snapshot under the read lock so handlers may subscribe or
	// unsubscribe during dispatch without corrupting iteration.
	b.mu.RLock()
	entries := make([]entry, 0, len(b.byType[evt.Type()])+len(b.wildcards))
	entries = append(entries, b.byType[evt.Type()]...)
	entries = append(entries, b.wildcards...)
	b.mu.RUnlock()

	for _, e := range entries {
		b.invoke(evt, e)
	}
}

// invoke runs one handler, containing any panic to that handler.
func (b *Broker) invoke(evt Event, e entry) {
	defer func() {
		if r := recover(); r != nil {
			b.config.OnError(evt, e.tag, r)
		}
	}()
	e.handler(evt)
}

// SubscriberCount returns the number of handlers registered for eventType.
// Wildcard subscribers are not counted.
func (b *Broker) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byType[eventType])
}

// Types returns the event types that currently have at least one
// type-specific subscriber. The registry is bounded by live subscriptions:
// a type with no remaining subscribers does not appear.
func (b *Broker) Types() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	types := make([]string, 0, len(b.byType))
	for t := range b.byType {
		types = append(types, t)
	}
	return types
}

// newTag must be called with b.mu held.
func (b *Broker) newTag() string {
	b.nextTag++
	return "sub-" + strconv.Itoa(b.nextTag)
}

func (b *Broker) remove(eventType, tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.byType[eventType]
	for i, e := range entries {
		if e.tag == tag {
			entries = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if len(entries) == 0 {
		// Last subscriber gone - drop the key so the map stays bounded
		// by live subscriptions.
		delete(b.byType, eventType)
		return
	}
	b.byType[eventType] = entries
}

func (b *Broker) removeWildcard(tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.wildcards {
		if e.tag == tag {
			b.wildcards = append(b.wildcards[:i], b.wildcards[i+1:]...)
			return
		}
	}
}
