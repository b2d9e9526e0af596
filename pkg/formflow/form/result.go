package form

import "encoding/json"

// Result is the terminal outcome of one form session. Exactly one Result
// flows back to the caller that requested the form; success and failure
// travel the same channel.
type Result interface {
	// Kind returns the stable discriminator for this result:
	// "created", "updated", "deleted", "cancelled", or "failed".
	Kind() string

	isResult()
}

// Created reports that the form produced a new record.
type Created struct {
	Entity  any    `json:"entity,omitempty"`
	Message string `json:"message,omitempty"`
}

// Kind implements Result.
func (Created) Kind() string { return "created" }

func (Created) isResult() {}

// MarshalJSON implements json.Marshaler.
func (r Created) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Kind: "created", Entity: r.Entity, Message: r.Message})
}

// Updated reports that the form modified an existing record.
type Updated struct {
	Entity  any    `json:"entity,omitempty"`
	Message string `json:"message,omitempty"`
}

// Kind implements Result.
func (Updated) Kind() string { return "updated" }

func (Updated) isResult() {}

// MarshalJSON implements json.Marshaler.
func (r Updated) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Kind: "updated", Entity: r.Entity, Message: r.Message})
}

// Deleted reports that the form removed a record.
type Deleted struct {
	Entity  any    `json:"entity,omitempty"`
	Message string `json:"message,omitempty"`
}

// Kind implements Result.
func (Deleted) Kind() string { return "deleted" }

func (Deleted) isResult() {}

// MarshalJSON implements json.Marshaler.
func (r Deleted) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Kind: "deleted", Entity: r.Entity, Message: r.Message})
}

// Cancelled reports that the session ended without a terminal edit:
// the user dismissed the form, the session was superseded, or
// CancelActiveOperations ran.
type Cancelled struct{}

// Kind implements Result.
func (Cancelled) Kind() string { return "cancelled" }

func (Cancelled) isResult() {}

// MarshalJSON implements json.Marshaler.
func (Cancelled) MarshalJSON() ([]byte, error) {
	return json.Marshal(resultJSON{Kind: "cancelled"})
}

// Failed reports that the operation behind the form failed. It is an
// ordinary outcome, not a protocol fault: the router delivers it through
// the same channel as Created or Updated.
type Failed struct {
	Err error
}

// Kind implements Result.
func (Failed) Kind() string { return "failed" }

func (Failed) isResult() {}

// Error implements error, so a Failed result works with errors.Is and
// errors.As directly.
func (f Failed) Error() string {
	if f.Err == nil {
		return "form operation failed"
	}
	return f.Err.Error()
}

// Unwrap returns the underlying error.
func (f Failed) Unwrap() error { return f.Err }

// MarshalJSON implements json.Marshaler.
func (f Failed) MarshalJSON() ([]byte, error) {
	msg := ""
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return json.Marshal(resultJSON{Kind: "failed", Error: msg})
}

type resultJSON struct {
	Kind    string `json:"kind"`
	Entity  any    `json:"entity,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultKind returns the discriminator for a result, or "none" for nil.
// Convenience for metrics and log attributes.
func ResultKind(r Result) string {
	if r == nil {
		return "none"
	}
	return r.Kind()
}

var (
	_ Result = Created{}
	_ Result = Updated{}
	_ Result = Deleted{}
	_ Result = Cancelled{}
	_ Result = Failed{}
)
