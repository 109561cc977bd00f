package report

import (
	"time"

	"github.com/planfacthq/planfact/internal/model"
)

// DefaultCacheEntries caps the number of memoized reports.
const DefaultCacheEntries = 20

// Key identifies one computed report. The record count is part of the
// identity so an edited day (different input set) can never be served a
// stale result.
type Key struct {
	OwnerID string
	Start   string // ISO date
	End     string
	Records int
}

// NewKey builds a cache key from a request signature.
func NewKey(ownerID string, start, end time.Time, records int) Key {
	return Key{
		OwnerID: ownerID,
		Start:   model.Day(start).Format(model.DateFormat),
		End:     model.Day(end).Format(model.DateFormat),
		Records: records,
	}
}

// Cache memoizes computed reports, evicting the oldest-inserted entry
// once full. Purely an optimization: bypassing it changes cost, never
// results. Not safe for concurrent use; callers own one per goroutine.
type Cache struct {
	capacity int
	order    []Key
	entries  map[Key]*Report
}

// NewCache returns a cache holding at most capacity entries.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheEntries
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]*Report, capacity),
	}
}

// Get returns the cached report for key, or nil on miss.
func (c *Cache) Get(key Key) *Report {
	return c.entries[key]
}

// Lookup scans for the most recently inserted entry matching owner and
// range regardless of record count. Lets callers reuse a result without
// refetching; writes invalidate the owner so this can't go stale.
func (c *Cache) Lookup(ownerID string, start, end time.Time) *Report {
	probe := NewKey(ownerID, start, end, 0)
	for i := len(c.order) - 1; i >= 0; i-- {
		k := c.order[i]
		if k.OwnerID == probe.OwnerID && k.Start == probe.Start && k.End == probe.End {
			return c.entries[k]
		}
	}
	return nil
}

// Put stores a report. Re-putting an existing key overwrites in place
// (last write wins) without touching the insertion order.
func (c *Cache) Put(key Key, r *Report) {
	if _, exists := c.entries[key]; exists {
		c.entries[key] = r
		return
	}

	if len(c.order) >= c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}

	c.order = append(c.order, key)
	c.entries[key] = r
}

// Invalidate drops a single entry.
func (c *Cache) Invalidate(key Key) {
	if _, ok := c.entries[key]; !ok {
		return
	}
	delete(c.entries, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// InvalidateOwner drops every entry belonging to an owner. Called after
// any write to that owner's records.
func (c *Cache) InvalidateOwner(ownerID string) {
	kept := c.order[:0]
	for _, k := range c.order {
		if k.OwnerID == ownerID {
			delete(c.entries, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// InvalidateAll empties the cache.
func (c *Cache) InvalidateAll() {
	c.order = nil
	c.entries = make(map[Key]*Report, c.capacity)
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	return len(c.entries)
}
