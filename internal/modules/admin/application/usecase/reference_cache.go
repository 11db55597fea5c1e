package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"nomadeAdmin/internal/modules/admin/application/port"
)

// ReferenceCache keeps reference option sets for ttl so consecutive forms share them. Change
// events for an entity invalidate the set of the same name.
type ReferenceCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]*referenceCacheEntry
}

type referenceCacheEntry struct {
	options   []port.Option
	fetchedAt time.Time
}

// NewReferenceCache returns nil when ttl is not positive, which FormController treats as no cache.
func NewReferenceCache(ttl time.Duration) *ReferenceCache {
	if ttl <= 0 {
		return nil
	}
	return &ReferenceCache{ttl: ttl, now: time.Now, entries: make(map[string]*referenceCacheEntry)}
}

// Get returns the cached set for name or loads it. Failed loads are not cached.
func (c *ReferenceCache) Get(ctx context.Context, name string, loader port.OptionLoader) ([]port.Option, error) {
	key := cacheKey(name)
	if options, ok := c.lookup(key); ok {
		return options, nil
	}
	options, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.entries[key] = &referenceCacheEntry{options: append([]port.Option(nil), options...), fetchedAt: c.now()}
	c.mu.Unlock()
	return options, nil
}

func (c *ReferenceCache) lookup(key string) ([]port.Option, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return nil, false
	}
	return append([]port.Option(nil), entry.options...), true
}

// Invalidate drops the set cached under name.
func (c *ReferenceCache) Invalidate(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	delete(c.entries, cacheKey(name))
	c.mu.Unlock()
}

// Names lists the cached set names.
func (c *ReferenceCache) Names() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	return names
}

func cacheKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
