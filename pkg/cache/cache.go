// Package cache stores rendered diagram artifacts so that unchanged
// diagrams are not laid out again.
//
// Layout through Graphviz dominates the cost of a run. The DOT source of a
// diagram fully determines its image, so the key of a rendered artifact is
// the hash of the DOT text plus the output format.
//
// Three backends are provided:
//
//   - [FileCache]: sharded JSON files under the user cache directory (CLI)
//   - [RedisCache]: a shared Redis instance (preview server, CI runners)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// # Usage
//
//	c, err := cache.NewFileCache(cache.DefaultDir())
//	key := cache.NewDefaultKeyer().RenderKey(cache.Hash([]byte(dot)), "svg")
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is reported as ok=false with a
	// nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any held resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour

// DefaultDir returns the per-user cache directory, honouring
// XDG_CACHE_HOME. It falls back to a directory under os.TempDir when no
// home directory is available.
func DefaultDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "mlopsdiagrams")
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "mlopsdiagrams")
	}
	return filepath.Join(os.TempDir(), "mlopsdiagrams-cache")
}

// Keyer derives cache keys.
type Keyer interface {
	// RenderKey is the key of an artifact rendered from the DOT source with
	// the given hash.
	RenderKey(dotHash, format string) string
}

// DefaultKeyer produces "render:<hash>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(dotHash, format string) string {
	return hashKey("render", dotHash, format)
}
