// Package recovery is the short-term cache that holds facts which arrived before
// the item they belong to was known, until they can be replayed.
package recovery

import (
	"context"
	"time"
)

// DefaultTTL is how long a stashed fact is kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour

// Cache keeps the last known value per key for a limited time.
type Cache interface {
	// Set stores value at key, replacing any previous value
	Set(ctx context.Context, key string, value []byte) error

	// Get returns the value at key and whether it exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// RemoveAndReturn atomically deletes key and returns the value it held
	RemoveAndReturn(ctx context.Context, key string) ([]byte, bool, error)
}

// Key builds the cache key of a fact kind for an item.
func Key(fact, itemID string) string {
	return fact + ":" + itemID
}
