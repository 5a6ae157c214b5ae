package assetcache

import (
	"context"
	"sync"
	"time"
)

// Fetcher is the network seam; satisfied by fetcher.Client.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

type entry struct {
	data      []byte
	fetchedAt time.Time
}

// Cache is a process-wide URL-keyed byte cache with lazy, per-read TTL
// expiry. The TTL is chosen by the caller on every read so the same
// store serves short-lived item images and long-lived static assets
// (template, font). An entry older than the requested TTL is treated as
// absent and re-fetched, never served stale.
//
// Concurrent fetches of the same URL are not deduplicated: duplicate
// in-flight downloads are harmless because the last writer's bytes are
// an equally valid cache state for an idempotent URL.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	fetcher Fetcher
	now     func() time.Time
}

func New(f Fetcher) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		fetcher: f,
		now:     time.Now,
	}
}

// GetOrFetch returns the cached payload for url when it is younger than
// ttl, otherwise fetches it with the given per-attempt timeout and
// stores the result.
func (c *Cache) GetOrFetch(ctx context.Context, url string, ttl, timeout time.Duration) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[url]
	now := c.now()
	c.mu.RUnlock()

	if ok && now.Sub(e.fetchedAt) < ttl {
		return e.data, nil
	}

	data, err := c.fetcher.Fetch(ctx, url, timeout)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[url] = entry{data: data, fetchedAt: c.now()}
	c.mu.Unlock()
	return data, nil
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
