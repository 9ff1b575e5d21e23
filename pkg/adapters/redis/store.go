package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Store keeps session-scoped markers in Redis, one hash per browsing session.
// A TTL models the end of the browsing session.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for sessions, refreshed on every write.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for sessions.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "exitintent:session:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Session returns a ports.SessionStore scoped to one browsing session.
func (s *Store) Session(sessionID string) ports.SessionStore {
	return &Session{store: s, id: sessionID}
}

// EndSession drops every key of the session.
func (s *Store) EndSession(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Session implements ports.SessionStore for a single session hash.
type Session struct {
	store *Store
	id    string
}

// Get retrieves a field of the session hash.
func (s *Session) Get(ctx context.Context, key string) (string, error) {
	val, err := s.store.client.HGet(ctx, s.store.key(s.id), key).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("failed to get from redis: %w", err)
	}
	return val, nil
}

// Set writes a field of the session hash and refreshes the session TTL.
func (s *Session) Set(ctx context.Context, key, value string) error {
	hashKey := s.store.key(s.id)

	pipe := s.store.client.Pipeline()
	pipe.HSet(ctx, hashKey, key, value)
	if s.store.ttl > 0 {
		pipe.Expire(ctx, hashKey, s.store.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}
