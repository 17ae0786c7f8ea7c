package settings

import (
	"context"
	"sync"

	"brc-agent/internal/application/port/output"
	"brc-agent/internal/domain/entity"
)

var _ output.SettingsStore = (*MemoryStore)(nil)

// MemoryStore is an in-process store, used when no settings file is wanted.
type MemoryStore struct {
	mu       sync.Mutex
	settings entity.Settings
	saves    int
}

func NewMemoryStore(initial entity.Settings) *MemoryStore {
	return &MemoryStore{settings: initial}
}

func (s *MemoryStore) Get(ctx context.Context) (entity.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings, nil
}

func (s *MemoryStore) Save(ctx context.Context, settings entity.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.saves++
	return nil
}

// Saves counts successful Save calls.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
