package session

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/exitintent"
	"github.com/aretw0/exitintent/internal/logging"
	"github.com/aretw0/exitintent/pkg/adapters/memory"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
)

// Backend hands out session-scoped stores and ends sessions.
// memory.Sessions and redis.Store implement it.
type Backend interface {
	Session(sessionID string) ports.SessionStore
	EndSession(ctx context.Context, sessionID string) error
}

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates remote sessions, ensuring serialized access per session.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	backend    Backend
	engineOpts []exitintent.Option
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	regMu    sync.RWMutex
	sessions map[string]*Session
}

// Option configures the Manager.
type Option func(*Manager)

// WithBackend sets the session store backend (default: in-memory).
func WithBackend(b Backend) Option {
	return func(m *Manager) {
		m.backend = b
	}
}

// WithEngineOptions passes options to every engine the manager creates.
func WithEngineOptions(opts ...exitintent.Option) Option {
	return func(m *Manager) {
		m.engineOpts = append(m.engineOpts, opts...)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a new Session Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		backend:  memory.NewSessions(),
		logger:   logging.NewNop(), // Default to no-op
		now:      time.Now,
		locks:    make(map[string]*lockEntry),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return // Should not happen if paired correctly
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

func (m *Manager) lookup(sessionID string) (*Session, bool) {
	m.regMu.RLock()
	defer m.regMu.RUnlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Activate mounts an engine for sessionID, or re-activates the existing one with cfg.
func (m *Manager) Activate(ctx context.Context, sessionID string, init Init, cfg domain.Config) (Status, error) {
	var status Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, ok := m.lookup(sessionID)
		if !ok {
			s = m.newSession(sessionID, init)
		} else {
			s.apply(init.asInput())
		}

		handle, err := s.engine.Activate(ctx, s.onTrigger, &cfg)
		if err != nil {
			return err
		}
		s.handle = handle

		if !ok {
			m.regMu.Lock()
			m.sessions[sessionID] = s
			m.regMu.Unlock()
		}
		status = s.status()
		return nil
	})
	return status, err
}

// Dispatch applies client inputs to the session's host in order.
// Returns domain.ErrSessionNotFound if the session is not mounted.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, inputs []Input) (Status, error) {
	var status Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, ok := m.lookup(sessionID)
		if !ok {
			return domain.ErrSessionNotFound
		}
		for _, in := range inputs {
			if err := in.Validate(); err != nil {
				return err
			}
		}
		for _, in := range inputs {
			s.apply(in)
		}
		status = s.status()
		return nil
	})
	return status, err
}

// Status returns the current view of a session.
func (m *Manager) Status(ctx context.Context, sessionID string) (Status, error) {
	var status Status
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, ok := m.lookup(sessionID)
		if !ok {
			return domain.ErrSessionNotFound
		}
		status = s.status()
		return nil
	})
	return status, err
}

// Deactivate unmounts the session's engine. With end set, the session's persisted
// marker is dropped as well, as when the browsing session closes.
func (m *Manager) Deactivate(ctx context.Context, sessionID string, end bool) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, ok := m.lookup(sessionID)
		if !ok && !end {
			return domain.ErrSessionNotFound
		}
		if ok {
			s.engine.Deactivate(s.handle)
			m.regMu.Lock()
			delete(m.sessions, sessionID)
			m.regMu.Unlock()
		}
		if end {
			if err := m.backend.EndSession(ctx, sessionID); err != nil {
				return fmt.Errorf("failed to end session: %w", err)
			}
		}
		return nil
	})
}

// List returns the mounted session IDs, sorted.
func (m *Manager) List() []string {
	m.regMu.RLock()
	defer m.regMu.RUnlock()

	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close unmounts every session.
func (m *Manager) Close(ctx context.Context) {
	for _, id := range m.List() {
		if err := m.Deactivate(ctx, id, false); err != nil {
			m.logger.Warn("failed to deactivate session on close", "session_id", id, "err", err)
		}
	}
}
