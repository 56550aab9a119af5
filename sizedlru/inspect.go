package sizedlru

import (
	"golang.org/x/exp/slices"

	"github.com/bpowers/sized-lru/digest"
)

// Snapshot describes the whole cache. Head and Tail are empty when Len is 0.
type Snapshot struct {
	Capacity  int
	Remaining int
	Len       int
	Head      digest.Token
	Tail      digest.Token
}

// EntryInfo describes one resident entry and its neighbors in the recency
// list. Previous is empty when AtHead, Next is empty when AtTail.
type EntryInfo struct {
	Digest   digest.Token
	Cost     int
	Previous digest.Token
	Next     digest.Token
	AtHead   bool
	AtTail   bool
}

func (c *LRU[V]) tokenAt(i int) digest.Token {
	if i == none {
		return ""
	}
	return c.data[i].digest
}

// Inspect reports the budget and the ends of the recency list. It never
// changes recency or accounting.
func (c *LRU[V]) Inspect() (Snapshot, error) {
	if !c.cfg.Inspect {
		return Snapshot{}, ErrInspectDisabled
	}
	return Snapshot{
		Capacity:  c.cfg.Capacity,
		Remaining: c.remaining,
		Len:       len(c.items),
		Head:      c.tokenAt(c.head),
		Tail:      c.tokenAt(c.tail),
	}, nil
}

// InspectKey reports key's entry without promoting it.
func (c *LRU[V]) InspectKey(key string) (info EntryInfo, ok bool, err error) {
	if !c.cfg.Inspect {
		return info, false, ErrInspectDisabled
	}
	i, ok := c.items[c.digest(key)]
	if !ok {
		return info, false, nil
	}
	e := c.data[i]
	return EntryInfo{
		Digest:   e.digest,
		Cost:     e.cost,
		Previous: c.tokenAt(e.prev),
		Next:     c.tokenAt(e.next),
		AtHead:   e.prev == none,
		AtTail:   e.next == none,
	}, true, nil
}

// Order returns resident digests from most to least recently used.
func (c *LRU[V]) Order() ([]digest.Token, error) {
	if !c.cfg.Inspect {
		return nil, ErrInspectDisabled
	}
	out := make([]digest.Token, 0, len(c.items))
	for i := c.head; i != none; i = c.data[i].next {
		out = append(out, c.data[i].digest)
	}
	return out, nil
}

// Validate checks the link structure and the size ledger, returning an
// *InvariantViolation describing the first problem found. It is always
// available, regardless of WithInspect.
func (c *LRU[V]) Validate() error {
	n := len(c.items)
	if n == 0 {
		if c.head != none || c.tail != none {
			return violation("empty cache has head %d, tail %d", c.head, c.tail)
		}
		if c.remaining != c.cfg.Capacity {
			return violation("empty cache has %d of %d bytes remaining", c.remaining, c.cfg.Capacity)
		}
		return nil
	}
	if c.head == none || c.tail == none {
		return violation("%d entries but head %d, tail %d", n, c.head, c.tail)
	}
	if p := c.data[c.head].prev; p != none {
		return violation("head has previous %d", p)
	}
	if nx := c.data[c.tail].next; nx != none {
		return violation("tail has next %d", nx)
	}

	used := 0
	forward := make([]digest.Token, 0, n)
	last := none
	for i := c.head; i != none; i = c.data[i].next {
		if len(forward) == n {
			return violation("forward walk longer than %d entries", n)
		}
		e := c.data[i]
		if j, ok := c.items[e.digest]; !ok || j != i {
			return violation("slot %d (%s) not indexed by the entry table", i, e.digest)
		}
		if e.prev != last {
			return violation("slot %d previous is %d, want %d", i, e.prev, last)
		}
		if e.cost != c.cost(e.payload) {
			return violation("slot %d cost %d, payload accounts for %d", i, e.cost, c.cost(e.payload))
		}
		if e.cost > c.cfg.Capacity {
			return violation("slot %d cost %d exceeds capacity %d", i, e.cost, c.cfg.Capacity)
		}
		used += e.cost
		forward = append(forward, e.digest)
		last = i
	}
	if last != c.tail {
		return violation("forward walk ends at %d, tail is %d", last, c.tail)
	}
	if len(forward) != n {
		return violation("forward walk visits %d of %d entries", len(forward), n)
	}

	backward := make([]digest.Token, 0, n)
	for i := c.tail; i != none; i = c.data[i].prev {
		if len(backward) == n {
			return violation("backward walk longer than %d entries", n)
		}
		backward = append(backward, c.data[i].digest)
	}
	slices.Reverse(backward)
	if !slices.Equal(forward, backward) {
		return violation("forward and backward walks disagree")
	}

	if c.remaining < 0 {
		return violation("remaining is negative: %d", c.remaining)
	}
	if c.remaining != c.cfg.Capacity-used {
		return violation("remaining %d, want capacity %d - used %d", c.remaining, c.cfg.Capacity, used)
	}
	if len(c.data) != n+len(c.free) {
		return violation("arena has %d slots, %d entries and %d free", len(c.data), n, len(c.free))
	}
	return nil
}
