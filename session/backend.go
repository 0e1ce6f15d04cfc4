package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by [Backend.Read] when no record has been written.
var ErrNotFound = errors.New("session record not found")

// Backend is the durable key-value slot a [Store] persists into. One record,
// written and deleted whole. Implementations must be safe for concurrent use.
type Backend interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Delete(ctx context.Context) error
}

// MemoryBackend keeps the record in process memory. It is the fallback tier
// every store degrades to when its durable backend fails, and a reasonable
// primary for tests and short-lived tools.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
	set  bool
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Read implements [Backend].
func (m *MemoryBackend) Read(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

// Write implements [Backend].
func (m *MemoryBackend) Write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make([]byte, len(data))
	copy(m.data, data)
	m.set = true
	return nil
}

// Delete implements [Backend].
func (m *MemoryBackend) Delete(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	m.set = false
	return nil
}
