package session

import (
	"context"
	"errors"
	"time"
)

// Package session contains the expiring key-value store abstraction behind
// session tokens. Implementations must remain stateless; token lifetime is
// enforced entirely by the store's TTL mechanism, so an expired token is
// indistinguishable from one that never existed.

// ErrKeyNotFound is returned by Get when the key is absent or has expired.
var ErrKeyNotFound = errors.New("session: key not found")

// Store is a capability interface over an expiring key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)
	// SetWithTTL stores value under key; the store deletes it after ttl.
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping verifies connectivity to the backing store.
	Ping(ctx context.Context) error
}
