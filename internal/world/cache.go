package world

import (
	"sort"
	"time"

	"worldforge/internal/chunk"
)

// cache holds evicted chunks keyed by coordinate until they are requested
// again or time out.
type cache struct {
	capacity int
	entries  map[chunk.Coord]*slot
}

func newCache(capacity int) *cache {
	return &cache{capacity: capacity, entries: make(map[chunk.Coord]*slot)}
}

// put stores s and reports false when the cache is full; the caller then
// disposes the chunk.
func (c *cache) put(s *slot) bool {
	if len(c.entries) >= c.capacity {
		return false
	}
	c.entries[s.chunk.Coord] = s
	return true
}

func (c *cache) take(coord chunk.Coord) (*slot, bool) {
	s, ok := c.entries[coord]
	if ok {
		delete(c.entries, coord)
	}
	return s, ok
}

// expire removes every entry that has sat in the cache longer than timeout
// and returns them oldest first.
func (c *cache) expire(now time.Time, timeout time.Duration) []*slot {
	var out []*slot
	for coord, s := range c.entries {
		if now.Sub(s.chunk.LastAccess) > timeout {
			out = append(out, s)
			delete(c.entries, coord)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].chunk, out[j].chunk
		if !a.LastAccess.Equal(b.LastAccess) {
			return a.LastAccess.Before(b.LastAccess)
		}
		return a.Coord.Less(b.Coord)
	})
	return out
}

func (c *cache) len() int {
	return len(c.entries)
}
