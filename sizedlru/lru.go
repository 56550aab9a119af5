package sizedlru

import (
	"go.uber.org/zap"

	"github.com/bpowers/sized-lru/digest"
)

// LRU implements a non-thread safe, byte-bounded LRU cache. Entries live in
// a dense arena indexed by digest; the recency list links arena slots by
// index.
type LRU[V any] struct {
	cfg       Config
	data      []entry
	free      []int
	items     map[digest.Token]int
	head      int
	tail      int
	remaining int
	stats     Stats
}

// Stats counts cache activity since construction.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Sets       uint64
	Evictions  uint64
	Rejections uint64

	Entries   int
	Capacity  int
	Remaining int
}

// Add accumulates o into s. Used to aggregate shards.
func (s *Stats) Add(o Stats) {
	s.Hits += o.Hits
	s.Misses += o.Misses
	s.Sets += o.Sets
	s.Evictions += o.Evictions
	s.Rejections += o.Rejections
	s.Entries += o.Entries
	s.Capacity += o.Capacity
	s.Remaining += o.Remaining
}

// NewLRU constructs an LRU. Without options it holds DefaultCapacity bytes,
// hashes keys with SHA1 and encodes values with msgpack.
func NewLRU[V any](opts ...Option) (*LRU[V], error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	c := &LRU[V]{
		cfg:       cfg,
		items:     make(map[digest.Token]int),
		head:      none,
		tail:      none,
		remaining: cfg.Capacity,
	}
	return c, nil
}

// Config returns the configuration the cache was built with.
func (c *LRU[V]) Config() Config {
	return c.cfg
}

func (c *LRU[V]) digest(key string) digest.Token {
	return c.cfg.Digester.Sum([]byte(key))
}

func (c *LRU[V]) decode(d digest.Token, payload []byte) (value V, err error) {
	if err := c.cfg.Codec.Unmarshal(payload, &value); err != nil {
		var zero V
		return zero, &CorruptionError{Digest: d, Codec: c.cfg.Codec.Name(), Err: err}
	}
	return value, nil
}

// Get looks up a key's value and marks it most recently used. A payload
// that fails to decode is reported as a *CorruptionError and the entry is
// not promoted.
func (c *LRU[V]) Get(key string) (value V, ok bool, err error) {
	d := c.digest(key)
	i, ok := c.items[d]
	if !ok {
		c.stats.Misses++
		return value, false, nil
	}
	value, err = c.decode(d, c.data[i].payload)
	if err != nil {
		return value, false, err
	}
	c.promote(i)
	c.stats.Hits++
	return value, true, nil
}

// Peek returns a key's value without updating its recent-ness.
func (c *LRU[V]) Peek(key string) (value V, ok bool, err error) {
	d := c.digest(key)
	i, ok := c.items[d]
	if !ok {
		return value, false, nil
	}
	value, err = c.decode(d, c.data[i].payload)
	if err != nil {
		return value, false, err
	}
	return value, true, nil
}

// Contains checks if a key is in the cache, without updating the
// recent-ness.
func (c *LRU[V]) Contains(key string) bool {
	_, ok := c.items[c.digest(key)]
	return ok
}

// Set stores value under key as the most recently used entry, evicting
// least recently used entries until it fits, and returns value. The cache is
// unchanged when encoding fails or the entry could never fit.
func (c *LRU[V]) Set(key string, value V) (V, error) {
	var zero V
	d := c.digest(key)
	payload, err := c.cfg.Codec.Marshal(value)
	if err != nil {
		return zero, &SerializationError{Codec: c.cfg.Codec.Name(), Err: err}
	}
	cost := c.cost(payload)
	if !c.fits(cost) {
		c.stats.Rejections++
		c.cfg.Logger.Warn("rejected oversize entry",
			zap.String("digest", string(d)),
			zap.Int("cost", cost),
			zap.Int("capacity", c.cfg.Capacity))
		return zero, &OversizeEntryError{Digest: d, Cost: cost, Capacity: c.cfg.Capacity}
	}

	if i, ok := c.items[d]; ok {
		// Detach the old entry and credit its cost so eviction below can
		// only pick other entries.
		c.unlink(i)
		c.remaining += c.data[i].cost
		c.reserve(cost)
		c.data[i].payload = payload
		c.data[i].cost = cost
		c.pushFront(i)
	} else {
		c.reserve(cost)
		c.pushFront(c.alloc(entry{digest: d, payload: payload, cost: cost}))
	}
	c.remaining -= cost
	c.stats.Sets++
	return value, nil
}

// Remove removes the provided key from the cache, returning if the
// key was contained.
func (c *LRU[V]) Remove(key string) (present bool) {
	if i, ok := c.items[c.digest(key)]; ok {
		c.removeElement(i)
		return true
	}
	return false
}

// Purge is used to completely clear the cache.
func (c *LRU[V]) Purge() {
	for c.tail != none {
		c.removeElement(c.tail)
	}
	c.data = c.data[:0]
	c.free = c.free[:0]
}

// Len returns the number of items in the cache.
func (c *LRU[V]) Len() int {
	return len(c.items)
}

// Capacity returns the byte budget. It never changes; there is no Resize.
func (c *LRU[V]) Capacity() int {
	return c.cfg.Capacity
}

// Remaining returns the unused part of the byte budget.
func (c *LRU[V]) Remaining() int {
	return c.remaining
}

// Stats returns activity counters and the current size.
func (c *LRU[V]) Stats() Stats {
	s := c.stats
	s.Entries = len(c.items)
	s.Capacity = c.cfg.Capacity
	s.Remaining = c.remaining
	return s
}
