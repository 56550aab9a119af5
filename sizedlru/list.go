package sizedlru

import (
	"go.uber.org/zap"

	"github.com/bpowers/sized-lru/digest"
)

// none marks a missing link, and an empty head or tail.
const none = -1

// entry lives in the arena; prev points toward the head (more recently
// used) and next toward the tail.
type entry struct {
	digest  digest.Token
	payload []byte
	cost    int
	prev    int
	next    int
}

// alloc stores e in a free arena slot and indexes it by digest. The entry is
// not linked into the recency list.
func (c *LRU[V]) alloc(e entry) int {
	e.prev, e.next = none, none
	var i int
	if n := len(c.free); n > 0 {
		i = c.free[n-1]
		c.free = c.free[:n-1]
		c.data[i] = e
	} else {
		i = len(c.data)
		c.data = append(c.data, e)
	}
	c.items[e.digest] = i
	return i
}

// release drops the slot from the entry table and recycles it. The entry
// must already be unlinked.
func (c *LRU[V]) release(i int) entry {
	e := c.data[i]
	delete(c.items, e.digest)
	c.data[i] = entry{prev: none, next: none}
	c.free = append(c.free, i)
	return e
}

// unlink splices entry i out of the recency list, joining its neighbors.
func (c *LRU[V]) unlink(i int) {
	e := &c.data[i]
	if e.prev == none {
		c.head = e.next
	} else {
		c.data[e.prev].next = e.next
	}
	if e.next == none {
		c.tail = e.prev
	} else {
		c.data[e.next].prev = e.prev
	}
	e.prev, e.next = none, none
}

// pushFront links an unlinked entry in as the new head.
func (c *LRU[V]) pushFront(i int) {
	e := &c.data[i]
	e.prev = none
	e.next = c.head
	if c.head != none {
		c.data[c.head].prev = i
	} else {
		c.tail = i
	}
	c.head = i
}

// promote marks entry i as most recently used.
func (c *LRU[V]) promote(i int) {
	if c.head == i {
		return
	}
	c.unlink(i)
	c.pushFront(i)
}

// removeElement unlinks and frees entry i, returning the bytes it gave back
// to the budget.
func (c *LRU[V]) removeElement(i int) int {
	c.unlink(i)
	e := c.release(i)
	c.remaining += e.cost
	if c.cfg.OnEvict != nil {
		c.cfg.OnEvict(e.digest, e.cost)
	}
	return e.cost
}

// evictTail removes the least recently used entry. It reports false when the
// cache is empty.
func (c *LRU[V]) evictTail() (freed int, ok bool) {
	if c.tail == none {
		return 0, false
	}
	d := c.data[c.tail].digest
	freed = c.removeElement(c.tail)
	c.stats.Evictions++
	c.cfg.Logger.Debug("evicted entry",
		zap.String("digest", string(d)),
		zap.Int("freed", freed),
		zap.Int("remaining", c.remaining))
	return freed, true
}
