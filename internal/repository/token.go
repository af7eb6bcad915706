package repository

import (
	"context"
	"sync"
)

// DefaultScope is the scope used when no profile is selected
const DefaultScope = "default"

// Store backends
const (
	StoreFile    = "file"
	StoreSurreal = "surreal"
	StoreRedis   = "redis"
	StoreMemory  = "memory"
)

// MemoryTokenStore keeps the token in process memory only
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Get returns the token, or "" if none
func (s *MemoryTokenStore) Get(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Set replaces the token
func (s *MemoryTokenStore) Set(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token
func (s *MemoryTokenStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}
