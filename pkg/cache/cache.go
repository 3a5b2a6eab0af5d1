// Package cache provides byte-oriented caches shared by the registry
// clients and the packages API.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for multi-instance API deployments
//   - [NullCache]: disables caching
//
// Keys are built by a [Keyer] so that every component hashes and namespaces
// keys the same way.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte payloads with an optional TTL.
type Cache interface {
	// Get returns the payload stored under key. A miss is reported as
	// (nil, false, nil); expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the different kinds of cached data.
type Keyer interface {
	// HTTPKey is the key for a raw registry response.
	HTTPKey(namespace, key string) string

	// SearchKey is the key for a catalog search result.
	SearchKey(query string) string
}

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// SearchKey hashes the query so arbitrary user input is a safe key.
func (DefaultKeyer) SearchKey(query string) string {
	return hashKey("search", query)
}
