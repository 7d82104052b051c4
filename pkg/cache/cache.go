// Package cache stores fetched neighborhoods, summaries and computed layouts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, for the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: caching disabled
//
// All backends treat a missing or expired entry as a miss, never as an
// error. Errors are reserved for backend failures.
//
// # Keys
//
// [Keyer] builds keys. Keys that depend on structured options hash them so
// different filters never share an entry:
//
//	k := cache.NewDefaultKeyer()
//	key := k.NeighborhoodKey("arg-17", cache.NeighborhoodKeyOpts{Depth: 1, Supporting: true})
package cache

import (
	"context"
	"time"
)

// Default TTLs per entry type.
const (
	TTLNeighborhood = time.Hour
	TTLSummary      = 10 * time.Minute
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the stored bytes. A miss returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop all of their entries.
// Clear returns the number of entries removed.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// NeighborhoodKeyOpts are the lookup filters that change a neighborhood
// response.
type NeighborhoodKeyOpts struct {
	Depth       int  `json:"depth"`
	Supporting  bool `json:"supporting"`
	Opposing    bool `json:"opposing"`
	Preferences bool `json:"preferences"`
}

// Keyer generates cache keys.
type Keyer interface {
	NeighborhoodKey(argumentID string, opts NeighborhoodKeyOpts) string
	SummaryKey(argumentID string) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// NeighborhoodKey returns "neighborhood:<hash>" over the id and filters.
func (DefaultKeyer) NeighborhoodKey(argumentID string, opts NeighborhoodKeyOpts) string {
	return hashKey("neighborhood", argumentID, opts)
}

// SummaryKey returns "summary:<argumentID>".
func (DefaultKeyer) SummaryKey(argumentID string) string {
	return "summary:" + argumentID
}

// ScopedKeyer prefixes every key, for example with the source base URL so
// two backends never share entries.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer uses
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// NeighborhoodKey returns the prefixed inner key.
func (k *ScopedKeyer) NeighborhoodKey(argumentID string, opts NeighborhoodKeyOpts) string {
	return k.prefix + k.inner.NeighborhoodKey(argumentID, opts)
}

// SummaryKey returns the prefixed inner key.
func (k *ScopedKeyer) SummaryKey(argumentID string) string {
	return k.prefix + k.inner.SummaryKey(argumentID)
}
