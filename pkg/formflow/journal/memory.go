package journal

import "sync"

// MemoryStore is an in-memory journal store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	recs   []Record
	closed bool
}

// NewMemoryStore creates a new in-memory journal store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Append implements Store.
func (m *MemoryStore) Append(rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	// Copy payload to avoid retaining the caller's slice
	stored := rec
	stored.Payload = make([]byte, len(rec.Payload))
	copy(stored.Payload, rec.Payload)

	m.recs = append(m.recs, stored)
	return nil
}

// List implements Store.
func (m *MemoryStore) List() ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	out := make([]Record, len(m.recs))
	copy(out, m.recs)
	return out, nil
}

// ListByType implements Store.
func (m *MemoryStore) ListByType(eventType string) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	var out []Record
	for _, rec := range m.recs {
		if rec.EventType == eventType {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Count implements Store.
func (m *MemoryStore) Count() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrStoreClosed
	}
	return len(m.recs), nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.recs = nil
	return nil
}
