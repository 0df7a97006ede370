package gateway

import (
	"encoding/json"
	"sync"
	"time"
)

// bindingCache is the process-local read cache. Entries carry their own
// expiry; expired entries linger until overwritten, matching the contract
// that there is no proactive eviction and no cross-instance invalidation.
// Per-entry TTLs vary by read definition, which rules out the fixed-TTL
// cache libraries — this stays a guarded map.
type bindingCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	value   any
	expires time.Time
}

func newBindingCache(now func() time.Time) *bindingCache {
	if now == nil {
		now = time.Now
	}
	return &bindingCache{
		entries: make(map[string]cacheEntry),
		now:     now,
	}
}

// get returns the cached value if the entry exists and has not expired.
func (c *bindingCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().After(e.expires) {
		return nil, false
	}
	return e.value, true
}

// put stores a value with the given TTL, overwriting any prior entry.
func (c *bindingCache) put(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(ttl)}
}

// len reports the number of entries, live or expired.
func (c *bindingCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// cacheKey builds the (namespace, bindKey, params) cache key. json.Marshal
// sorts map keys, so equal param maps always produce equal keys.
func cacheKey(namespace, bindKey string, params map[string]any) string {
	serialized, err := json.Marshal(params)
	if err != nil {
		// Non-serializable params never match a cached entry.
		serialized = []byte(time.Now().Format(time.RFC3339Nano))
	}
	return namespace + "\x00" + bindKey + "\x00" + string(serialized)
}
