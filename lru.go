// Package lru provides thread-safe, byte-bounded LRU caches built on
// sizedlru.
package lru

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/bpowers/sized-lru/digest"
	"github.com/bpowers/sized-lru/sizedlru"
)

// Cache is a thread-safe LRU cache bounded by the encoded size of its values.
type Cache[V any] struct {
	lru   *sizedlru.LRU[V]
	lock  sync.RWMutex
	loads singleflight.Group
}

// New creates a cache. See sizedlru.NewLRU for the defaults.
func New[V any](opts ...sizedlru.Option) (*Cache[V], error) {
	lru, err := sizedlru.NewLRU[V](opts...)
	if err != nil {
		return nil, err
	}
	c := &Cache[V]{
		lru: lru,
	}
	return c, nil
}

// Purge is used to completely clear the cache.
func (c *Cache[V]) Purge() {
	c.lock.Lock()
	c.lru.Purge()
	c.lock.Unlock()
}

// Set stores a value, evicting least recently used entries until it fits,
// and returns it.
func (c *Cache[V]) Set(key string, value V) (V, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Set(key, value)
}

// Get looks up a key's value from the cache.
func (c *Cache[V]) Get(key string) (value V, ok bool, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Get(key)
}

// GetOrLoad returns the cached value for key, or calls load and stores its
// result. Concurrent misses on the same key share one load, which runs on a
// context that keeps ctx's values but not its cancellation; each caller stops
// waiting when its own ctx is done. A value stored by Set while the load was
// running is kept and returned instead of the loaded one.
func (c *Cache[V]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	var zero V
	if value, ok, err := c.Get(key); err != nil || ok {
		return value, err
	}
	loadCtx := context.WithoutCancel(ctx)
	ch := c.loads.DoChan(key, func() (interface{}, error) {
		value, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		return c.setIfAbsent(key, value)
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[V]) setIfAbsent(key string, value V) (V, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if cur, ok, err := c.lru.Peek(key); err == nil && ok {
		return cur, nil
	}
	return c.lru.Set(key, value)
}

// Contains checks if a key is in the cache, without updating the
// recent-ness.
func (c *Cache[V]) Contains(key string) bool {
	c.lock.RLock()
	containKey := c.lru.Contains(key)
	c.lock.RUnlock()
	return containKey
}

// Peek returns the key value without updating the "recently used"-ness of
// the key.
func (c *Cache[V]) Peek(key string) (value V, ok bool, err error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Peek(key)
}

// Remove removes the provided key from the cache.
func (c *Cache[V]) Remove(key string) (present bool) {
	c.lock.Lock()
	present = c.lru.Remove(key)
	c.lock.Unlock()
	return
}

// Len returns the number of items in the cache.
func (c *Cache[V]) Len() int {
	c.lock.RLock()
	length := c.lru.Len()
	c.lock.RUnlock()
	return length
}

// Remaining returns the unused part of the byte budget.
func (c *Cache[V]) Remaining() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Remaining()
}

// Stats returns activity counters and the current size.
func (c *Cache[V]) Stats() sizedlru.Stats {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Stats()
}

// Inspect reports the budget and the ends of the recency list.
func (c *Cache[V]) Inspect() (sizedlru.Snapshot, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Inspect()
}

// InspectKey reports key's position without promoting it.
func (c *Cache[V]) InspectKey(key string) (sizedlru.EntryInfo, bool, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.InspectKey(key)
}

// Order returns resident digests from most to least recently used.
func (c *Cache[V]) Order() ([]digest.Token, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Order()
}

// Validate checks the internal invariants of the cache.
func (c *Cache[V]) Validate() error {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.lru.Validate()
}
