package event

import (
	"fmt"
	"time"
)

// EventError represents a failure tied to a specific event, typically a
// recovered subscriber panic surfaced through BrokerConfig.OnError.
type EventError struct {
	Event      Event     // The event being delivered
	Subscriber string    // Tag of the subscriber entry that failed
	Message    string    // Error message
	Err        error     // Underlying error, if any
	Timestamp  time.Time // When the failure occurred
}

// Error implements the error interface.
func (e *EventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event %s: %s: %v", e.Event.ID(), e.Message, e.Err)
	}
	return fmt.Sprintf("event %s: %s", e.Event.ID(), e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EventError) Unwrap() error {
	return e.Err
}
