package lru

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/bpowers/sized-lru/sizedlru"
)

const defaultShardCount = 16

type shard[V any] struct {
	mu  sync.Mutex
	lru *sizedlru.LRU[V]
}

// ShardedCache is a thread-safe byte-bounded LRU cache split into
// independently locked shards. Recency is tracked per shard, and each
// shard gets an equal part of the capacity, which also caps the largest
// storable entry.
type ShardedCache[V any] struct {
	shards   []shard[V]
	capacity int
}

// NewSharded creates a cache of shardCount shards; shardCount <= 0 selects
// the default. The capacity from opts is divided evenly between shards.
func NewSharded[V any](shardCount int, opts ...sizedlru.Option) (*ShardedCache[V], error) {
	if shardCount <= 0 {
		shardCount = defaultShardCount
	}
	cfg, err := sizedlru.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	perShard := cfg.Capacity / shardCount
	if perShard <= 0 {
		return nil, &sizedlru.ConfigurationError{
			Field: "capacity",
			Value: cfg.Capacity,
			Err:   fmt.Errorf("%w: %d shards leave no room per shard", sizedlru.ErrInvalidCapacity, shardCount),
		}
	}
	shardOpts := make([]sizedlru.Option, 0, len(opts)+1)
	shardOpts = append(shardOpts, opts...)
	shardOpts = append(shardOpts, sizedlru.WithCapacity(perShard))

	c := &ShardedCache[V]{
		shards:   make([]shard[V], shardCount),
		capacity: perShard * shardCount,
	}
	for i := 0; i < shardCount; i++ {
		lru, err := sizedlru.NewLRU[V](shardOpts...)
		if err != nil {
			return nil, err
		}
		c.shards[i].lru = lru
	}
	return c, nil
}

// Purge is used to completely clear the cache.
func (c *ShardedCache[V]) Purge() {
	for i := 0; i < len(c.shards); i++ {
		shard := &c.shards[i]
		shard.mu.Lock()
		shard.lru.Purge()
		shard.mu.Unlock()
	}
}

func (c *ShardedCache[V]) getShard(key string) *shard[V] {
	shardId := xxhash.Sum64String(key) % uint64(len(c.shards))
	return &c.shards[shardId]
}

// Set stores a value in the key's shard and returns it.
func (c *ShardedCache[V]) Set(key string, value V) (V, error) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.lru.Set(key, value)
}

// Get looks up a key's value from the cache.
func (c *ShardedCache[V]) Get(key string) (value V, ok bool, err error) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.lru.Get(key)
}

// Contains checks if a key is in the cache, without updating the
// recent-ness.
func (c *ShardedCache[V]) Contains(key string) bool {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.lru.Contains(key)
}

// Peek returns the key value without updating the "recently used"-ness of
// the key.
func (c *ShardedCache[V]) Peek(key string) (value V, ok bool, err error) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.lru.Peek(key)
}

// Remove removes the provided key from the cache.
func (c *ShardedCache[V]) Remove(key string) (present bool) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()
	return shard.lru.Remove(key)
}

// Capacity returns the total byte budget over all shards.
func (c *ShardedCache[V]) Capacity() int {
	return c.capacity
}

// Len returns the number of items in the cache.
func (c *ShardedCache[V]) Len() int {
	size := 0
	for i := 0; i < len(c.shards); i++ {
		shard := &c.shards[i]
		shard.mu.Lock()
		size += shard.lru.Len()
		shard.mu.Unlock()
	}
	return size
}

// Remaining returns the unused bytes summed over all shards.
func (c *ShardedCache[V]) Remaining() int {
	remaining := 0
	for i := 0; i < len(c.shards); i++ {
		shard := &c.shards[i]
		shard.mu.Lock()
		remaining += shard.lru.Remaining()
		shard.mu.Unlock()
	}
	return remaining
}

// Stats sums the statistics of every shard.
func (c *ShardedCache[V]) Stats() sizedlru.Stats {
	var s sizedlru.Stats
	for i := 0; i < len(c.shards); i++ {
		shard := &c.shards[i]
		shard.mu.Lock()
		s.Add(shard.lru.Stats())
		shard.mu.Unlock()
	}
	return s
}

// Validate checks the invariants of every shard.
func (c *ShardedCache[V]) Validate() error {
	for i := 0; i < len(c.shards); i++ {
		shard := &c.shards[i]
		shard.mu.Lock()
		err := shard.lru.Validate()
		shard.mu.Unlock()
		if err != nil {
			return fmt.Errorf("shard %d: %w", i, err)
		}
	}
	return nil
}
