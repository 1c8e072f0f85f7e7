package sandbox

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// MemoryCache is an in-process sqlcraft.Cache backed by a map with
// per-entry expiry. Expired entries are dropped lazily on Get.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	data    []byte
	expires time.Time // zero means no expiry
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry)}
}

// Get retrieves a value from the cache. Returns nil, nil if the key does
// not exist or has expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return e.data, nil
}

// Set stores a value with an optional TTL. A zero TTL never expires.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := cacheEntry{data: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}

// Len returns the number of live entries, counting expired ones until they
// are dropped.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cachedRows is the msgpack payload stored for a row-returning result.
type cachedRows struct {
	Data []map[string]any `msgpack:"data"`
}

// cacheKey derives the cache key of a statement and its parameters. Each
// parameter is rendered with its type and length-prefixed, so distinct
// parameter lists can never concatenate to the same key.
func cacheKey(statement string, args []any) string {
	var sb strings.Builder
	sb.WriteString(statement)
	for _, a := range args {
		v := fmt.Sprintf("%T:%v", a, a)
		sb.WriteString("|")
		sb.WriteString(strconv.Itoa(len(v)))
		sb.WriteString(":")
		sb.WriteString(v)
	}
	return sb.String()
}

// cacheGet loads and decodes a cached row set.
func (s *Sandbox) cacheGet(ctx context.Context, statement string, args []any) ([]map[string]any, bool) {
	raw, err := s.cache.Get(ctx, cacheKey(statement, args))
	if err != nil {
		s.log.Warn("cache get failed", "sql", statement, "error", err)
		return nil, false
	}
	if raw == nil {
		return nil, false
	}
	var payload cachedRows
	if err := msgpack.Unmarshal(raw, &payload); err != nil {
		s.log.Warn("cache decode failed", "sql", statement, "error", err)
		return nil, false
	}
	return payload.Data, true
}

// cacheSet encodes and stores a row set.
func (s *Sandbox) cacheSet(ctx context.Context, statement string, args []any, data []map[string]any) {
	raw, err := msgpack.Marshal(cachedRows{Data: data})
	if err != nil {
		s.log.Warn("cache encode failed", "sql", statement, "error", err)
		return
	}
	if err := s.cache.Set(ctx, cacheKey(statement, args), raw, s.cacheTTL); err != nil {
		s.log.Warn("cache set failed", "sql", statement, "error", err)
	}
}
