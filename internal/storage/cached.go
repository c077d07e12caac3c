package storage

import (
	"context"
	"time"

	"masrofi/internal/cache"
)

// CachedBackend is a read-through LRU in front of another backend. The cache
// is only updated after the wrapped backend accepted a write.
type CachedBackend struct {
	next  Backend
	cache *cache.LRUCache[[]byte]
}

func NewCachedBackend(next Backend, size int, ttl time.Duration) *CachedBackend {
	return &CachedBackend{
		next:  next,
		cache: cache.NewLRUCache[[]byte](size, ttl),
	}
}

func (c *CachedBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		return append([]byte(nil), v...), true, nil
	}
	data, found, err := c.next.Get(ctx, key)
	if err != nil || !found {
		return data, found, err
	}
	c.cache.Set(key, append([]byte(nil), data...))
	return data, true, nil
}

func (c *CachedBackend) Set(ctx context.Context, key string, data []byte) error {
	if err := c.next.Set(ctx, key, data); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, append([]byte(nil), data...))
	return nil
}

// Cleaner exposes the cache so a cache.Manager can expire entries.
func (c *CachedBackend) Cleaner() cache.Cleaner { return c.cache }

// Unwrap returns the wrapped backend.
func (c *CachedBackend) Unwrap() Backend { return c.next }

func (c *CachedBackend) Close() error {
	c.cache.Purge()
	return c.next.Close()
}
