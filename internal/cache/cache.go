package cache

import (
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the key-value capability the feed composer depends on. Handlers
// use the process-wide Default(); tests inject their own instance.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, data any, ttl time.Duration)
	Delete(key string)
}

type item struct {
	data      any
	expiresAt time.Time
}

// LRUStore wraps an LRU cache with per-entry expiry. Entries are evicted
// lazily on read once past their TTL.
type LRUStore struct {
	lruCache *lru.Cache[string, item]
}

func New(size int) *LRUStore {
	l, err := lru.New[string, item](size)
	if err != nil {
		log.Fatalf("Failed to create LRU cache: %v", err)
	}
	return &LRUStore{lruCache: l}
}

var defaultStore *LRUStore

// Default returns the shared process-wide cache instance.
func Default() *LRUStore {
	if defaultStore == nil {
		defaultStore = New(500)
	}
	return defaultStore
}

func (c *LRUStore) Set(key string, data any, ttl time.Duration) {
	c.lruCache.Add(key, item{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
}

func (c *LRUStore) Get(key string) (any, bool) {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil, false
	}

	if time.Now().After(val.expiresAt) {
		c.lruCache.Remove(key)
		return nil, false
	}

	return val.data, true
}

func (c *LRUStore) Delete(key string) {
	c.lruCache.Remove(key)
}
