// Package cache stores raw reasoning-backend completions.
//
// Entries are keyed by a hash of everything that shapes a completion, so a
// hit is only ever a replay of an identical request.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/factlens/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "factlens:v1:"

// CacheKey hashes the request parts into a key. Parts are separated so
// that ("ab", "c") and ("a", "bc") never collide.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}

// New builds the cache described by cfg. It returns nil when caching is
// disabled, a memory cache when no disk directory is set, and a layered
// memory+disk cache otherwise.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return nil
	}
	if cfg.DiskDir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL))
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.DiskDir, cfg.DiskTTL)
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Minute
	}
	return 2 * ttl
}
