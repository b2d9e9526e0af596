// Package form defines the domain vocabulary shared by the router and the
// event subsystem: presentation modes, terminal results, and navigation
// routes. All three are closed unions - a fixed set of concrete types behind
// a small interface with an unexported marker method.
package form

import (
	"encoding/json"
	"fmt"
)

// EntityRef identifies the domain record a mode or route points at.
// Label is optional display text; ID is the stable identity.
type EntityRef struct {
	ID    string `json:"id"`
	Label string `json:"label,omitempty"`
}

// Mode describes which form a caller wants presented.
//
// The three variants are Create, Edit, and View. Identity() is stable and
// used to decide whether two requests target the same logical operation;
// Title() is display text for the presentation surface.
type Mode interface {
	// Identity returns the stable identity string for this mode:
	// "create", "edit-<id>", or "view-<id>".
	Identity() string

	// Title returns a human-readable title for the presented form.
	Title() string

	isMode()
}

// Create requests a blank form for a new record.
type Create struct{}

// Identity implements Mode.
func (Create) Identity() string { return "create" }

// Title implements Mode.
func (Create) Title() string { return "New Record" }

func (Create) isMode() {}

// MarshalJSON implements json.Marshaler.
func (Create) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeJSON{Kind: "create"})
}

// Edit requests a form pre-populated with an existing record.
type Edit struct {
	Ref EntityRef
}

// Identity implements Mode.
func (m Edit) Identity() string { return "edit-" + m.Ref.ID }

// Title implements Mode.
func (m Edit) Title() string {
	if m.Ref.Label != "" {
		return "Edit " + m.Ref.Label
	}
	return "Edit Record"
}

func (Edit) isMode() {}

// MarshalJSON implements json.Marshaler.
func (m Edit) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeJSON{Kind: "edit", Ref: &m.Ref})
}

// View requests a read-only form for an existing record.
type View struct {
	Ref EntityRef
}

// Identity implements Mode.
func (m View) Identity() string { return "view-" + m.Ref.ID }

// Title implements Mode.
func (m View) Title() string {
	if m.Ref.Label != "" {
		return "View " + m.Ref.Label
	}
	return "View Record"
}

func (View) isMode() {}

// MarshalJSON implements json.Marshaler.
func (m View) MarshalJSON() ([]byte, error) {
	return json.Marshal(modeJSON{Kind: "view", Ref: &m.Ref})
}

// modeJSON is the wire shape for all Mode variants.
type modeJSON struct {
	Kind string     `json:"kind"`
	Ref  *EntityRef `json:"ref,omitempty"`
}

// SameMode reports whether two modes target the same logical operation.
// Comparison is by identity string, not structural equality, so an Edit
// whose label changed still matches.
func SameMode(a, b Mode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Identity() == b.Identity()
}

// compile-time union checks
var (
	_ Mode = Create{}
	_ Mode = Edit{}
	_ Mode = View{}
)

// ModeString formats a mode for logs and debugging output.
func ModeString(m Mode) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s (%s)", m.Identity(), m.Title())
}
