// Package sizedlru provides a single-threaded LRU cache bounded by the byte
// size of its encoded values.
//
// Keys are hashed into fixed-length digests and values are stored as
// encoded payloads. Each entry costs its payload length plus a fixed
// overhead; inserting evicts least recently used entries until the new
// entry fits, and entries that could never fit are rejected.
package sizedlru

// LRUCache is the interface for a byte-bounded LRU cache of V values.
type LRUCache[V any] interface {
	// Stores a value, evicting least recently used entries as needed, and
	// updates the "recently used"-ness of the key.
	Set(key string, value V) (V, error)

	// Returns key's value from the cache and
	// updates the "recently used"-ness of the key. #value, isFound, err
	Get(key string) (value V, ok bool, err error)

	// Checks if a key exists in cache without updating the recent-ness.
	Contains(key string) (ok bool)

	// Returns key's value without updating the "recently used"-ness of the key.
	Peek(key string) (value V, ok bool, err error)

	// Removes a key from the cache.
	Remove(key string) bool

	// Returns the number of items in the cache.
	Len() int

	// Returns the unused part of the byte budget.
	Remaining() int

	// Returns activity counters and the current size.
	Stats() Stats

	// Clears all cache entries.
	Purge()
}

var _ LRUCache[string] = (*LRU[string])(nil)
