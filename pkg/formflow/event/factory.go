package event

import (
	"github.com/Moroverse/formflow/pkg/formflow/clock"
	"github.com/Moroverse/formflow/pkg/formflow/form"
	"github.com/Moroverse/formflow/pkg/formflow/ident"
)

// Factory builds fully-populated events from two injected collaborators:
// a Clock for timestamps and a Generator for fresh ids. Substituting
// deterministic doubles for either changes nothing in the router or the
// broker - that substitutability is the testability contract of the whole
// subsystem.
type Factory struct {
	clock clock.Clock
	ids   ident.Generator
}

// NewFactory creates a Factory. A nil clock defaults to the system clock;
// a nil generator defaults to UUIDs.
func NewFactory(c clock.Clock, ids ident.Generator) *Factory {
	if c == nil {
		c = clock.System()
	}
	if ids == nil {
		ids = ident.UUID()
	}
	return &Factory{clock: c, ids: ids}
}

// FormRequested builds a TypeFormRequested event for mode.
func (f *Factory) FormRequested(mode form.Mode) *FormRequested {
	return &FormRequested{
		Meta:    f.metadata(TypeFormRequested),
		Payload: FormRequestedPayload{Mode: mode},
	}
}

// FormCompleted builds a TypeFormCompleted event pairing mode with result.
func (f *Factory) FormCompleted(mode form.Mode, result form.Result) *FormCompleted {
	return &FormCompleted{
		Meta:    f.metadata(TypeFormCompleted),
		Payload: FormCompletedPayload{Mode: mode, Result: result},
	}
}

// NavigationRequested builds a TypeNavigationRequested event for route.
func (f *Factory) NavigationRequested(route form.Route) *Navigation {
	return &Navigation{
		Meta:    f.metadata(TypeNavigationRequested),
		Payload: NavigationPayload{Route: route},
	}
}

// NavigationCompleted builds a TypeNavigationCompleted event for route.
func (f *Factory) NavigationCompleted(route form.Route) *Navigation {
	return &Navigation{
		Meta:    f.metadata(TypeNavigationCompleted),
		Payload: NavigationPayload{Route: route},
	}
}

func (f *Factory) metadata(eventType string) Metadata {
	return Metadata{
		EventID:       f.ids.NewID(),
		EventType:     eventType,
		Timestamp:     f.clock.Now(),
		SchemaVersion: SchemaVersion,
	}
}
