package formflow

import "errors"

// Sentinel errors.
var (
	// ErrNilContext indicates RequestForm or NavigateTo was called with a
	// nil context.
	ErrNilContext = errors.New("context cannot be nil")
)
