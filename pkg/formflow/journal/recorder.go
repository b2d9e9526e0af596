package journal

import (
	"log/slog"

	"github.com/Moroverse/formflow/pkg/formflow/event"
)

// Recorder subscribes to a broker and journals every published event.
//
// Recording happens synchronously inside Publish, so the journal order is
// exactly the broker's delivery order. A store failure is logged and the
// event dropped; the broker isolates the failure from other subscribers.
type Recorder struct {
	store  Store
	sub    *event.Subscription
	logger *slog.Logger
}

// NewRecorder attaches a recorder to broker, persisting into store.
func NewRecorder(broker *event.Broker, store Store) *Recorder {
	r := &Recorder{
		store:  store,
		logger: slog.Default(),
	}
	r.sub = broker.SubscribeAll(r.record)
	return r
}

// WithLogger sets the logger for the recorder.
func (r *Recorder) WithLogger(logger *slog.Logger) *Recorder {
	r.logger = logger
	return r
}

// Close detaches the recorder from the broker. The store is not closed;
// the caller owns it.
func (r *Recorder) Close() {
	r.sub.Unsubscribe()
}

func (r *Recorder) record(evt event.Event) {
	rec, err := Encode(evt)
	if err != nil {
		r.logger.Error("failed to encode event for journal",
			"event_id", evt.ID(),
			"event_type", evt.Type(),
			"error", err,
		)
		return
	}

	if err := r.store.Append(rec); err != nil {
		r.logger.Error("failed to journal event",
			"event_id", evt.ID(),
			"event_type", evt.Type(),
			"error", err,
		)
	}
}
