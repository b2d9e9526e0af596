package form

import "encoding/json"

// Route is a navigable destination. Unlike Mode, a Route never suspends the
// caller: navigation is fire-and-forget onto the router's stack.
type Route interface {
	// Identity returns the stable identity string for this route:
	// "detail-<id>" or "history-<id>".
	Identity() string

	isRoute()
}

// Detail navigates to a record's detail screen.
type Detail struct {
	Ref EntityRef
}

// Identity implements Route.
func (r Detail) Identity() string { return "detail-" + r.Ref.ID }

func (Detail) isRoute() {}

// MarshalJSON implements json.Marshaler.
func (r Detail) MarshalJSON() ([]byte, error) {
	return json.Marshal(routeJSON{Kind: "detail", Ref: r.Ref})
}

// History navigates to a record's change history.
type History struct {
	Ref EntityRef
}

// Identity implements Route.
func (r History) Identity() string { return "history-" + r.Ref.ID }

func (History) isRoute() {}

// MarshalJSON implements json.Marshaler.
func (r History) MarshalJSON() ([]byte, error) {
	return json.Marshal(routeJSON{Kind: "history", Ref: r.Ref})
}

type routeJSON struct {
	Kind string    `json:"kind"`
	Ref  EntityRef `json:"ref"`
}

var (
	_ Route = Detail{}
	_ Route = History{}
)
