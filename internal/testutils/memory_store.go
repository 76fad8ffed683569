package testutils

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-memory kvstore.Store used by the service tests, with
// injectable failures for the swallowed-storage-error paths.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Get(_ context.Context, key string, value interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetErr != nil {
		return false, m.GetErr
	}

	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, value); err != nil {
		return false, err
	}

	return true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SetErr != nil {
		return m.SetErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.data[key] = raw

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	delete(m.data, key)

	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// Stored returns the raw persisted bytes for key, or nil when absent.
func (m *MemoryStore) Stored(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.data[key]
}

// Has reports whether key currently exists.
func (m *MemoryStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.data[key]

	return ok
}
