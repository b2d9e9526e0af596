package formflow

import (
	"fmt"

	"github.com/Moroverse/formflow/pkg/formflow/config"
	"github.com/Moroverse/formflow/pkg/formflow/event"
	"github.com/Moroverse/formflow/pkg/formflow/journal"
)

// Bundle wires together a Broker, a Factory, a Router, and optionally a
// journal Recorder that persists the router's event stream.
//
// One bundle per feature boundary: the router's single presentation slot is
// owned by exactly one coordinating layer.
type Bundle struct {
	Broker  *event.Broker
	Factory *event.Factory
	Router  *Router

	// recorder and store are kept unexported; the public API focuses on
	// Router and Broker. Journal returns the store for inspection.
	recorder *journal.Recorder
	store    journal.Store
}

// NewBundle constructs a broker, factory, and router from cfg.
//
// Recognized keys:
//
//	journal.driver  "memory" or "sqlite"; unset disables the journal
//	journal.path    SQLite path, default ":memory:"
//	tracing         enable OTel spans
//	metrics         enable OTel metrics
//
// Additional router options are applied after the config-derived ones, so
// they win on conflict.
func NewBundle(cfg config.Config, opts ...Option) (*Bundle, error) {
	broker := event.NewBroker(event.BrokerConfig{})
	factory := event.NewFactory(nil, nil)

	b := &Bundle{
		Broker:  broker,
		Factory: factory,
	}

	switch driver := cfg.String("journal.driver", ""); driver {
	case "":
		// journal disabled
	case "memory":
		b.store = journal.NewMemoryStore()
	case "sqlite":
		store, err := journal.NewSQLiteStore(cfg.String("journal.path", ":memory:"))
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
		b.store = store
	default:
		return nil, fmt.Errorf("unknown journal driver: %q", driver)
	}

	if b.store != nil {
		b.recorder = journal.NewRecorder(broker, b.store)
	}

	routerOpts := []Option{
		WithTracing(cfg.Bool("tracing", false)),
		WithMetrics(cfg.Bool("metrics", false)),
	}
	routerOpts = append(routerOpts, opts...)
	b.Router = NewRouter(broker, factory, routerOpts...)

	return b, nil
}

// Journal returns the journal store, or nil when journaling is disabled.
func (b *Bundle) Journal() journal.Store {
	return b.store
}

// Close cancels any pending session and tears down the journal. The broker
// itself holds no resources.
func (b *Bundle) Close() error {
	b.Router.CancelActiveOperations()

	if b.recorder != nil {
		b.recorder.Close()
	}
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
