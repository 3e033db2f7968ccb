package ctl

import (
	"hash/fnv"
	"sync"
)

// mibCache is a channel's resolved-handle cache: fully substituted key
// name -> MIB. Entries are populated lazily on first resolution and live for
// the process lifetime; the native name-to-handle mapping is stable, so
// nothing is evicted proactively. The only removal path is drop, used for
// the single re-resolution after a stale handle is detected.
//
// Concurrency: 16-shard design with per-shard RWMutex reduces contention
// when many goroutines resolve concurrently. First-use resolution runs under
// the shard lock with a second lookup, so concurrent callers of the same
// path perform exactly one native lookup and share its result. Native
// lookups are synchronous in-process calls, so holding the shard lock across
// one is cheap.
const numShards = 16

type mibShard struct {
	mu sync.RWMutex
	m  map[string]MIB
}

type mibCache struct {
	shards [numShards]mibShard
}

func newMIBCache() *mibCache {
	c := &mibCache{}
	for i := range c.shards {
		c.shards[i].m = make(map[string]MIB)
	}
	return c
}

// shardFor picks the shard for a name using FNV-1a. numShards is a power of
// two so the modulo is a bitmask.
func shardFor(name string) int {
	h := fnv.New32a()
	h.Write([]byte(name)) //nolint:errcheck // fnv hash.Write never errors
	return int(h.Sum32() & (numShards - 1))
}

func (c *mibCache) lookup(name string) (MIB, bool) {
	s := &c.shards[shardFor(name)]
	s.mu.RLock()
	mib, ok := s.m[name]
	s.mu.RUnlock()
	return mib, ok
}

// resolve returns the cached MIB for name, or runs fn to produce and store
// one. The double-checked lookup under the shard lock guarantees at most one
// fn call per name until the entry is dropped.
func (c *mibCache) resolve(name string, fn func() (MIB, error)) (MIB, error) {
	s := &c.shards[shardFor(name)]
	s.mu.Lock()
	defer s.mu.Unlock()
	if mib, ok := s.m[name]; ok {
		return mib, nil
	}
	mib, err := fn()
	if err != nil {
		return nil, err
	}
	s.m[name] = mib
	return mib, nil
}

func (c *mibCache) drop(name string) {
	s := &c.shards[shardFor(name)]
	s.mu.Lock()
	delete(s.m, name)
	s.mu.Unlock()
}

func (c *mibCache) len() int {
	total := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		total += len(s.m)
		s.mu.RUnlock()
	}
	return total
}
