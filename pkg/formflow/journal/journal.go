// Package journal persists the event stream published by a formflow broker.
//
// The journal is an observability subscriber: it attaches to a Broker,
// encodes every published event, and appends it to a Store. The router
// itself persists nothing - removing the journal changes no routing
// behavior.
package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Moroverse/formflow/pkg/formflow/event"
)

// Store errors.
var (
	// ErrStoreClosed indicates an operation on a closed store.
	ErrStoreClosed = errors.New("journal store is closed")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("journal record not found")
)

// Record is one journaled event.
type Record struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	Timestamp     time.Time `json:"timestamp"`
	SchemaVersion int       `json:"schema_version"`
	Payload       []byte    `json:"payload"`
}

// Store persists journal records in append order.
type Store interface {
	// Append adds a record to the journal.
	Append(rec Record) error

	// List returns all records in append order.
	List() ([]Record, error)

	// ListByType returns records of one event type in append order.
	ListByType(eventType string) ([]Record, error)

	// Count returns the number of journaled records.
	Count() (int, error)

	// Close releases the store's resources.
	Close() error
}

// Encode converts an event to a Record. The payload is the event's JSON
// encoding, including its metadata, so a record is self-describing.
func Encode(evt event.Event) (Record, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return Record{}, fmt.Errorf("encode event %s: %w", evt.ID(), err)
	}
	return Record{
		EventID:       evt.ID(),
		EventType:     evt.Type(),
		Timestamp:     evt.Timestamp(),
		SchemaVersion: evt.Version(),
		Payload:       payload,
	}, nil
}
