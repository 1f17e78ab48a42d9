// Package cache stores resolved schedules so identical requests skip the
// resolver.
//
// Resolution is a pure function of the task titles and dependency lists, so
// a result computed once can be replayed for any request with the same
// ordering-relevant input. Payload fields (estimated hours, due dates) and
// the project ID are not part of the key.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long a resolved schedule is kept when no TTL is configured.
const DefaultTTL = 24 * time.Hour
