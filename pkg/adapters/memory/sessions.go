package memory

import (
	"context"
	"sync"

	"github.com/aretw0/exitintent/pkg/ports"
)

// Sessions hands out one Store per browsing session.
// Safe for concurrent use.
type Sessions struct {
	stores map[string]*Store
	mu     sync.Mutex
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		stores: make(map[string]*Store),
	}
}

// Session returns the store of sessionID, creating it on first use.
func (s *Sessions) Session(sessionID string) ports.SessionStore {
	s.mu.Lock()
	defer s.mu.Unlock()

	store, ok := s.stores[sessionID]
	if !ok {
		store = NewStore()
		s.stores[sessionID] = store
	}
	return store
}

// EndSession drops the store of sessionID.
func (s *Sessions) EndSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if store, ok := s.stores[sessionID]; ok {
		store.Clear()
		delete(s.stores, sessionID)
	}
	return nil
}
