package formflow

import (
	"sync/atomic"

	"github.com/Moroverse/formflow/pkg/formflow/form"
)

// session is one in-flight modal operation. Its resolver is consume-once:
// the atomic flag guarantees the result channel receives exactly one value,
// so a late or duplicate fire is a no-op, never a crash and never a
// blocked goroutine.
type session struct {
	token    string
	mode     form.Mode
	result   chan form.Result
	resolved atomic.Bool
}

func newSession(token string, mode form.Mode) *session {
	return &session{
		token:  token,
		mode:   mode,
		result: make(chan form.Result, 1),
	}
}

// fire delivers the terminal result. Returns false if the session was
// already resolved; the channel has capacity 1 so the winning send never
// blocks.
func (s *session) fire(res form.Result) bool {
	if !s.resolved.CompareAndSwap(false, true) {
		return false
	}
	s.result <- res
	return true
}

// Presentation describes the form currently presented by a router.
// The presentation surface renders the form for Mode and resolves the
// session via the token.
type Presentation struct {
	// Token identifies the session; Resolve calls must present it.
	Token string

	// FormID is the mode's stable identity ("create", "edit-<id>", ...).
	FormID string

	// Title is display text for the presented form.
	Title string

	// Mode is the requested presentation mode.
	Mode form.Mode
}
