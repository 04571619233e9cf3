package sim

import "container/list"

// origin records how a resident block arrived.
type origin int

const (
	originDemand origin = iota
	originPrefetch
)

// cacheEntry is the payload carried by each container/list element:
// recency order lives in the list itself, the per-block annotation
// (origin, consumed) travels with the node — a doubly-linked list plus
// index map.
type cacheEntry struct {
	blockID  int64
	origin   origin
	consumed bool
}

// Cache is the fixed-capacity LRU block cache with prefetch accounting.
// The most-recently-touched entry sits at the front of the list;
// eviction always takes the back.
type Cache struct {
	capacity int64
	order    *list.List
	index    map[int64]*list.Element

	prefetchIssued        int64
	prefetchUsed          int64
	prefetchEvictedUnused int64
}

// NewCache constructs an empty cache with the given block capacity.
func NewCache(capacity int64) *Cache {
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		index:    make(map[int64]*list.Element),
	}
}

// Contains reports residency without reordering.
func (c *Cache) Contains(blockID int64) bool {
	_, ok := c.index[blockID]
	return ok
}

// Touch promotes an already-resident block to most-recent. If it was a
// not-yet-consumed prefetch, this demand access consumes it.
func (c *Cache) Touch(blockID int64) {
	elem, ok := c.index[blockID]
	if !ok {
		panic("sim: Touch called on a non-resident block")
	}
	c.order.MoveToFront(elem)
	entry := elem.Value.(*cacheEntry)
	if entry.origin == originPrefetch && !entry.consumed {
		entry.consumed = true
		c.prefetchUsed++
	}
}

// Admit inserts a block. If it is already resident, only a demand origin
// updates the entry (a demand touch on a prefetched block is handled by
// Touch, not Admit — this path exists for API completeness and
// is not on the CMC/RA hot path, since both call Admit only after a
// Contains check has already failed). Inserting past capacity evicts the
// least-recent entry.
func (c *Cache) Admit(blockID int64, o origin) {
	if elem, ok := c.index[blockID]; ok {
		if o == originDemand {
			entry := elem.Value.(*cacheEntry)
			entry.origin = originDemand
			entry.consumed = false
		}
		return
	}

	entry := &cacheEntry{blockID: blockID, origin: o}
	elem := c.order.PushFront(entry)
	c.index[blockID] = elem

	if int64(c.order.Len()) > c.capacity {
		c.evictOldest()
	}
}

// IssuePrefetch prefetches blockID. A block already resident is a no-op
// beyond nothing at all — no promotion, no counting — so a redundant
// prefetch can never rescue a stale entry from eviction.
func (c *Cache) IssuePrefetch(blockID int64) {
	if c.Contains(blockID) {
		return
	}
	c.Admit(blockID, originPrefetch)
	c.prefetchIssued++
}

func (c *Cache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	entry := back.Value.(*cacheEntry)
	if entry.origin == originPrefetch && !entry.consumed {
		c.prefetchEvictedUnused++
	}
	c.order.Remove(back)
	delete(c.index, entry.blockID)
}

// Len reports the number of resident blocks, for the capacity check the
// driver runs after every access.
func (c *Cache) Len() int64 {
	return int64(c.order.Len())
}

// PrefetchIssued, PrefetchUsed, and PrefetchEvictedUnused report the
// counters the statistics record needs.
func (c *Cache) PrefetchIssued() int64        { return c.prefetchIssued }
func (c *Cache) PrefetchUsed() int64          { return c.prefetchUsed }
func (c *Cache) PrefetchEvictedUnused() int64 { return c.prefetchEvictedUnused }

// residentUnusedPrefetches counts prefetched-but-not-yet-consumed blocks
// still resident at end of run, for the reconciliation check in
// simulator.go: prefetchEvictedUnused + residentUnused + prefetchUsed ==
// prefetchIssued.
func (c *Cache) residentUnusedPrefetches() int64 {
	var n int64
	for e := c.order.Front(); e != nil; e = e.Next() {
		entry := e.Value.(*cacheEntry)
		if entry.origin == originPrefetch && !entry.consumed {
			n++
		}
	}
	return n
}
