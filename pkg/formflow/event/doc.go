// Package event provides the event vocabulary and delivery machinery for
// formflow:
//   - Event interface with id, type, timestamp, and schema version
//   - Four event variants covering the form and navigation lifecycles
//   - Factory for building events from an injected Clock and id Generator
//   - Broker for synchronous, type-keyed pub/sub fan-out
//
// Delivery guarantees:
//   - Handlers run on the publisher's goroutine, in registration order,
//     before Publish returns.
//   - A panicking handler is isolated: it is reported through the broker's
//     OnError hook and delivery continues to the remaining handlers.
//   - Unsubscribe removes exactly one tagged entry and is idempotent;
//     when the last subscriber for a type leaves, the type's registry
//     entry is deleted.
//
// Design Influences:
//   - Confluent Schema Registry (schema version on every event)
//   - Apache Kafka (type-keyed fan-out, registration-order delivery)
package event
