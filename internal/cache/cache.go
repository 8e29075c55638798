// Package cache is the request/cache/invalidate layer behind the entity
// services. A Cache holds one collection (trips, vehicles, duty statuses by
// trip, ...) keyed by string.
//
// Guarantees:
//   - A value younger than the TTL is served without calling load.
//   - Concurrent Gets of the same key share one in-flight load.
//   - A Get that starts after Invalidate, InvalidateAll or Set never joins a
//     load that started before it, and such older loads never overwrite the
//     entry. A caller that mutates and then reads always sees the mutation.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pkordes/hos-planner/internal/metrics"
)

// LoadFunc fetches the value for a key from upstream.
type LoadFunc[V any] func(ctx context.Context) (V, error)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// generation identifies which invalidations a load has seen.
type generation struct {
	epoch uint64 // bumped by InvalidateAll
	key   uint64 // bumped by Invalidate and Set
}

type settings struct {
	now     func() time.Time
	metrics *metrics.Metrics
}

// Option configures a Cache.
type Option func(*settings)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// WithMetrics records lookups and loads on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	name    string
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics

	mu      sync.Mutex
	entries map[string]entry[V]
	keyGens map[string]uint64
	epoch   uint64

	group singleflight.Group
}

// New creates an empty cache. name labels metrics and log lines.
// A zero ttl makes every Get go upstream while still sharing concurrent loads.
func New[V any](name string, ttl time.Duration, opts ...Option) *Cache[V] {
	s := settings{now: time.Now}
	for _, o := range opts {
		o(&s)
	}
	return &Cache[V]{
		name:    name,
		ttl:     ttl,
		now:     s.now,
		metrics: s.metrics,
		entries: make(map[string]entry[V]),
		keyGens: make(map[string]uint64),
	}
}

// Name returns the cache name.
func (c *Cache[V]) Name() string { return c.name }

// Get returns the fresh cached value for key, or calls load and caches its
// result. Load errors are returned and not cached.
//
// The load runs detached from ctx cancellation so that other callers sharing
// it are not affected; a cancelled caller returns ctx.Err() immediately and
// the load still populates the cache when it finishes.
func (c *Cache[V]) Get(ctx context.Context, key string, load LoadFunc[V]) (V, error) {
	var zero V

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < c.ttl {
		c.mu.Unlock()
		c.metrics.CacheLookup(c.name, "hit")
		return e.value, nil
	}
	gen := c.generationLocked(key)
	c.mu.Unlock()

	flight := fmt.Sprintf("%s\x00%d.%d", key, gen.epoch, gen.key)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := load(context.WithoutCancel(ctx))
		c.metrics.CacheLoad(c.name, err)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		if c.generationLocked(key) == gen {
			c.entries[key] = entry[V]{value: v, storedAt: c.now()}
		}
		c.mu.Unlock()
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			c.metrics.CacheLookup(c.name, "shared")
		} else {
			c.metrics.CacheLookup(c.name, "miss")
		}
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Set stores v as the fresh value for key, superseding any in-flight load.
func (c *Cache[V]) Set(key string, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyGens[key]++
	c.entries[key] = entry[V]{value: v, storedAt: c.now()}
}

// Invalidate forces the next Get of key to go upstream.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keyGens[key]++
	delete(c.entries, key)
}

// InvalidateAll forces the next Get of every key to go upstream.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	clear(c.entries)
}

// Peek returns the cached value for key regardless of age.
func (c *Cache[V]) Peek(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, ok
}

func (c *Cache[V]) generationLocked(key string) generation {
	return generation{epoch: c.epoch, key: c.keyGens[key]}
}
