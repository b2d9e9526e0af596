package event

import (
	"encoding/json"
	"time"

	"github.com/Moroverse/formflow/pkg/formflow/form"
)

// SchemaVersion is the current event schema version stamped by the Factory.
const SchemaVersion = 1

// Event type discriminators. The Broker dispatches on these.
const (
	TypeFormRequested       = "form.presentation.requested"
	TypeFormCompleted       = "form.presentation.completed"
	TypeNavigationRequested = "navigation.requested"
	TypeNavigationCompleted = "navigation.completed"
)

// Event is the interface satisfied by every formflow event.
// Events are immutable once created.
type Event interface {
	// ID returns the unique event identifier.
	ID() string

	// Type returns the event type discriminator.
	Type() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time

	// Version returns the schema version for evolution.
	Version() int
}

// Metadata contains the common event fields.
type Metadata struct {
	EventID       string    `json:"id"`
	EventType     string    `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	SchemaVersion int       `json:"schema_version"`
}

// BaseEvent provides a generic event implementation.
// T is the payload type for type-safe access.
type BaseEvent[T any] struct {
	Meta    Metadata `json:"metadata"`
	Payload T        `json:"payload"`
}

// ID returns the unique event identifier.
func (e *BaseEvent[T]) ID() string { return e.Meta.EventID }

// Type returns the event type discriminator.
func (e *BaseEvent[T]) Type() string { return e.Meta.EventType }

// Timestamp returns when the event occurred.
func (e *BaseEvent[T]) Timestamp() time.Time { return e.Meta.Timestamp }

// Version returns the schema version.
func (e *BaseEvent[T]) Version() int { return e.Meta.SchemaVersion }

// TypedData returns the strongly-typed payload.
func (e *BaseEvent[T]) TypedData() T { return e.Payload }

// MarshalJSON implements json.Marshaler.
func (e *BaseEvent[T]) MarshalJSON() ([]byte, error) {
	type alias BaseEvent[T]
	return json.Marshal((*alias)(e))
}

// FormRequestedPayload is the payload of a TypeFormRequested event.
type FormRequestedPayload struct {
	Mode form.Mode `json:"mode"`
}

// FormCompletedPayload is the payload of a TypeFormCompleted event.
// It pairs the session's mode with its terminal result.
type FormCompletedPayload struct {
	Mode   form.Mode   `json:"mode"`
	Result form.Result `json:"result"`
}

// NavigationPayload is the payload of both navigation event types.
type NavigationPayload struct {
	Route form.Route `json:"route"`
}

// FormRequested is a presentation-request event.
type FormRequested = BaseEvent[FormRequestedPayload]

// FormCompleted is a presentation-completion event.
type FormCompleted = BaseEvent[FormCompletedPayload]

// Navigation is a navigation event; its Type distinguishes requested
// from completed.
type Navigation = BaseEvent[NavigationPayload]
