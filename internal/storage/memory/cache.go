// Package memory provides a process-local core.Cache.
package memory

import (
	"bytes"
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache is an in-memory TTL cache. Expired entries are invisible to Get and
// reclaimed by Sweep. Reads do not extend an entry's lifetime.
type Cache struct {
	items *ttlcache.Cache[string, []byte]
}

func NewCache() *Cache {
	return &Cache{
		items: ttlcache.New[string, []byte](
			ttlcache.WithDisableTouchOnHit[string, []byte](),
		),
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return nil, false, nil
	}
	return bytes.Clone(item.Value()), true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.items.Set(key, bytes.Clone(value), ttl)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// SetIfAbsent stores value unless a live entry already exists. It reports whether the value was stored.
func (c *Cache) SetIfAbsent(_ context.Context, key string, value []byte, ttl time.Duration) bool {
	v := bytes.Clone(value)
	item, found := c.items.GetOrSet(key, v, ttlcache.WithTTL[string, []byte](ttl))
	if found && item.IsExpired() {
		// not swept yet
		c.items.Set(key, v, ttl)
		return true
	}
	return !found
}

// Sweep removes expired entries and reports how many were removed.
func (c *Cache) Sweep(_ context.Context) (int, error) {
	before := c.items.Len()
	c.items.DeleteExpired()
	return max(before-c.items.Len(), 0), nil
}

func (c *Cache) Len() int {
	return c.items.Len()
}
