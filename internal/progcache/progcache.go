// Package progcache caches compiled kernel binaries across compile calls.
// Runtime compilation of the same source for the same device is common in
// long-lived processes; the cache turns repeats into a map lookup.
//
// Entries are keyed by a hash of the kernel source and the full compile
// flag list, so a change to either recompiles. The cache is sharded to
// keep lock contention low when many goroutines compile concurrently.
package progcache

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
)

const (
	// shardCount must stay a power of two; shard selection uses a mask.
	shardCount = 8
	shardMask  = shardCount - 1

	// DefaultCapacity is the per-shard entry limit used when NewCache is
	// given a non-positive capacity. Compiled kernels are small, but a
	// process that generates sources dynamically could otherwise grow the
	// cache without bound.
	DefaultCapacity = 64
)

// Key identifies a compilation: one source compiled under one flag list.
type Key uint64

// MakeKey hashes kernel source and compile flags into a cache key.
func MakeKey(source []byte, flags []string) Key {
	h := fnv.New64a()
	h.Write(source)
	for _, f := range flags {
		h.Write([]byte{0})
		h.Write([]byte(f))
	}
	return Key(h.Sum64())
}

// Cache is a sharded LRU cache of compiled kernel binaries. It is safe
// for concurrent use. Stored binaries are shared, not copied; callers
// must treat them as immutable.
type Cache struct {
	shards   [shardCount]shard
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

type shard struct {
	mu      sync.Mutex
	entries map[Key][]byte
	order   []Key // oldest first
}

// NewCache creates a cache holding up to capacity binaries per shard.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &Cache{capacity: capacity}
	for i := range c.shards {
		c.shards[i].entries = make(map[Key][]byte)
	}
	return c
}

func (c *Cache) shard(key Key) *shard {
	return &c.shards[uint64(key)&shardMask]
}

// Get returns the cached binary for key, if present.
func (c *Cache) Get(key Key) ([]byte, bool) {
	s := c.shard(key)
	s.mu.Lock()
	data, ok := s.entries[key]
	if ok {
		s.touch(key)
	}
	s.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return data, true
}

// Put stores a compiled binary, evicting the least recently used entry
// when the shard is full.
func (c *Cache) Put(key Key, data []byte) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		s.entries[key] = data
		s.touch(key)
		return
	}
	for len(s.order) >= c.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.entries, oldest)
	}
	s.entries[key] = data
	s.order = append(s.order, key)
}

// touch moves key to the recent end of the shard's order. Caller holds
// the shard lock.
func (s *shard) touch(key Key) {
	for i, k := range s.order {
		if k == key {
			copy(s.order[i:], s.order[i+1:])
			s.order[len(s.order)-1] = key
			return
		}
	}
}

// Len returns the number of cached binaries.
func (c *Cache) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.Lock()
		n += len(s.entries)
		s.mu.Unlock()
	}
	return n
}

// Stats reports cache effectiveness counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// Stats returns the hit and miss counts since creation.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}
