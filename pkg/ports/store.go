package ports

import "context"

// SessionStore defines session-scoped key/value persistence.
// Data is expected to vanish when the browsing session ends.
type SessionStore interface {
	// Get returns the value stored under key.
	// Returns domain.ErrKeyNotFound if the key was never written.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key. Writing the same value twice is idempotent.
	Set(ctx context.Context, key, value string) error
}
