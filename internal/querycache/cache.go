// Package querycache is the process-wide store for list and detail query
// results. Entries are keyed by resource plus canonical arguments, carry
// invalidation tags, expire on a TTL, and concurrent identical fetches are
// collapsed into a single upstream call.
package querycache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rentdash/internal/metrics"
)

type entry struct {
	value     any
	tags      []string
	expiresAt time.Time
}

type call struct {
	done  chan struct{}
	value any
	err   error
}

// Cache is safe for concurrent use. All writes flow through Fetch completions
// and Invalidate; readers never mutate entries.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]*entry
	inflight map[string]*call

	// gens guards against a stale in-flight fetch repopulating a key that
	// was invalidated while the fetch was running.
	gens map[string]uint64
}

// New builds a cache with the given entry TTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Cache{
		ttl:      ttl,
		entries:  make(map[string]*entry),
		inflight: make(map[string]*call),
		gens:     make(map[string]uint64),
	}
}

// Fetch returns the cached value for key, joining an in-flight fetch for the
// same key if one exists, and otherwise invoking fn and sharing its result
// with all concurrent callers.
func (c *Cache) Fetch(ctx context.Context, key string, tags []string, fn func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()

	if e, ok := c.entries[key]; ok && time.Now().Before(e.expiresAt) {
		c.mu.Unlock()
		metrics.IncCache("hit")
		return e.value, nil
	}

	if inflight, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		metrics.IncCache("join")
		select {
		case <-inflight.done:
			return inflight.value, inflight.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	metrics.IncCache("miss")
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.gens[key]++
	gen := c.gens[key]
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil && c.gens[key] == gen {
		c.entries[key] = &entry{
			value:     value,
			tags:      append([]string(nil), tags...),
			expiresAt: time.Now().Add(c.ttl),
		}
	}
	c.mu.Unlock()

	cl.value = value
	cl.err = err
	close(cl.done)

	return value, err
}

// Invalidate drops every entry carrying any of the given tags and marks their
// keys so that fetches already in flight do not repopulate them.
func (c *Cache) Invalidate(tags ...string) {
	if len(tags) == 0 {
		return
	}

	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		for _, t := range e.tags {
			if want[t] {
				delete(c.entries, key)
				c.gens[key]++
				metrics.IncCache("invalidate")
				break
			}
		}
	}

	// Tags of an in-flight fetch are not known yet, so bump every in-flight
	// generation: the result still reaches its waiters but is not cached.
	for key := range c.inflight {
		c.gens[key]++
	}
}

// Fetch is the typed wrapper around Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key string, tags []string, fn func(context.Context) (T, error)) (T, error) {
	value, err := c.Fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query cache: unexpected value type for key %q", key)
	}
	return typed, nil
}

// Key builds a canonical cache key from a resource and its arguments.
// Argument order does not matter.
func Key(resource string, args map[string]string) string {
	if len(args) == 0 {
		return resource
	}
	parts := make([]string, 0, len(args))
	for k, v := range args {
		if v == "" {
			continue
		}
		parts = append(parts, k+"="+v)
	}
	sort.Strings(parts)
	return resource + "?" + strings.Join(parts, "&")
}

// TagAll is the collection-wide marker; both list and detail entries carry it.
func TagAll(resource string) string { return resource }

// TagList marks list entries of a resource.
func TagList(resource string) string { return resource + ":list" }

// TagID marks the detail entry for one record.
func TagID(resource string, id int64) string { return fmt.Sprintf("%s:%d", resource, id) }
