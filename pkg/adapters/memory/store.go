package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/exitintent/pkg/domain"
)

// ErrUnavailable simulates blocked or disabled storage.
var ErrUnavailable = errors.New("session storage unavailable")

// Store implements ports.SessionStore in memory for a single browsing session.
// Safe for concurrent use.
type Store struct {
	data        map[string]string
	unavailable bool
	mu          sync.RWMutex
}

// NewStore creates a new in-memory session store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]string),
	}
}

// Get retrieves a value from memory.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.unavailable {
		return "", ErrUnavailable
	}
	val, ok := s.data[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return val, nil
}

// Set stores a value in memory.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.unavailable {
		return ErrUnavailable
	}
	s.data[key] = value
	return nil
}

// Clear drops every key, as the end of a browsing session does.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
}

// SetUnavailable makes every subsequent Get and Set fail with ErrUnavailable.
func (s *Store) SetUnavailable(unavailable bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = unavailable
}

// Keys returns the stored keys.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}
