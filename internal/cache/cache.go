package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/ppiankov/boycotts/internal/model"
)

// Cache stores fetched page bodies
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a URL
func CacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "boycotts:v1:" + hex.EncodeToString(hash[:])
}

// NewFromConfig builds the layered page cache described by cfg
func NewFromConfig(cfg model.CacheConfig) *LayeredCache {
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}
