// Package negcache remembers URLs whose extraction recently failed so the
// pipeline can skip paying for the same failure again within a TTL.
package negcache

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

const keyPrefix = "seokeys:neg:"

// Storage is the key/value subset used here. gofiber/storage/redis
// satisfies it, as does the limiter's in-memory storage.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte, exp time.Duration) error
}

// Cache records failed URLs for a fixed TTL.
type Cache struct {
	storage Storage
	ttl     time.Duration
}

// New returns a Cache, or nil when storage is nil or ttl is not positive.
// A nil *Cache is valid and never reports a failure.
func New(storage Storage, ttl time.Duration) *Cache {
	if storage == nil || ttl <= 0 {
		return nil
	}
	return &Cache{storage: storage, ttl: ttl}
}

// Key returns the storage key for url.
func Key(url string) string {
	return keyPrefix + strconv.FormatUint(xxhash.Sum64String(url), 16)
}

// RecentlyFailed reports whether url failed within the TTL. Storage
// errors read as "no".
func (c *Cache) RecentlyFailed(url string) bool {
	if c == nil {
		return false
	}
	val, err := c.storage.Get(Key(url))
	return err == nil && len(val) > 0
}

// MarkFailed records a failure for url.
func (c *Cache) MarkFailed(url string) error {
	if c == nil {
		return nil
	}
	return c.storage.Set(Key(url), []byte("1"), c.ttl)
}

// TTL returns how long a failure is remembered.
func (c *Cache) TTL() time.Duration {
	if c == nil {
		return 0
	}
	return c.ttl
}
