// Package session keeps the bearer credential and the cached user profile
// between runs.
package session

import (
	"context"
	"sync"

	"shelfsmart/internal/models"
)

// Data is what a Store persists.
type Data struct {
	Token   string             `json:"token"`
	Profile models.UserProfile `json:"profile"`
}

// Store persists session data. Load returns nil, nil when nothing is stored.
type Store interface {
	Load(ctx context.Context) (*Data, error)
	Save(ctx context.Context, data Data) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps session data for the lifetime of the process.
type MemoryStore struct {
	mu   sync.Mutex
	data *Data
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		return nil, nil
	}
	d := *m.data
	return &d, nil
}

func (m *MemoryStore) Save(ctx context.Context, data Data) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = &data
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = nil
	return nil
}
