package library

import (
	"context"
	"sync"
)

// MemoryStore keeps blobs in a map. Data is lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, owner, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[blobKey(owner, name)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Put(_ context.Context, owner, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[blobKey(owner, name)] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, owner, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, blobKey(owner, name))
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
