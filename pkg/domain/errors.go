package domain

import "errors"

// ErrKeyNotFound is returned by a session store when the key has never been written.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidConfig is returned when an activation is requested with unusable options.
var ErrInvalidConfig = errors.New("invalid config")

// ErrNotActive is returned when an operation needs a live activation and there is none.
var ErrNotActive = errors.New("engine not active")

// ErrSessionNotFound is returned when a remote session ID is unknown to the manager.
var ErrSessionNotFound = errors.New("session not found")
