package sizedlru

// cost is the number of budget bytes an entry with the given payload uses.
func (c *LRU[V]) cost(payload []byte) int {
	return len(payload) + c.cfg.Overhead
}

// fits reports whether an entry of the given cost could ever be resident.
func (c *LRU[V]) fits(cost int) bool {
	return cost <= c.cfg.Capacity
}

// reserve evicts from the tail until size bytes are free, and reports the
// number of entries evicted. Callers must check fits first; an empty cache
// always has room for anything that fits.
func (c *LRU[V]) reserve(size int) (evicted int) {
	for c.remaining < size {
		if _, ok := c.evictTail(); !ok {
			break
		}
		evicted++
	}
	return evicted
}
