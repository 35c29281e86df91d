// SPDX-License-Identifier: EPL-2.0

package waveform

import "sync"

// SegmentCache is a fixed-capacity circular cache of waveform tiles,
// sized for the visible tile count plus prefetch headroom. Entries hold
// tasks, not images, so eviction and invalidation can cancel in-flight
// renders.
//
// Concurrent gets and puts are safe; viewport updates and clears are
// exclusive.
type SegmentCache struct {
	mu       sync.RWMutex
	entries  []*cacheEntry
	head     int
	viewport ViewportContext
}

type cacheEntry struct {
	key  SegmentKey
	task *Task
}

func NewSegmentCache(viewport ViewportContext) *SegmentCache {
	return &SegmentCache{
		entries:  make([]*cacheEntry, viewport.capacity()),
		viewport: viewport,
	}
}

// Get returns the cached task for key, or nil on a miss. Entries
// overwritten by wraparound are misses.
func (c *SegmentCache) Get(key SegmentKey) *Task {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, e := range c.entries {
		if e != nil && e.key == key {
			return e.task
		}
	}
	return nil
}

// Put stores task under key. An existing key is replaced in place, so
// racing duplicate puts leave exactly one winner and never a duplicate
// slot. A new key lands on the head slot, cancelling whatever pending
// work occupied it, and advances the head with wraparound.
func (c *SegmentCache) Put(key SegmentKey, task *Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e != nil && e.key == key {
			c.entries[i] = &cacheEntry{key: key, task: task}
			return
		}
	}

	if evicted := c.entries[c.head]; evicted != nil {
		evicted.task.Cancel()
	}
	c.entries[c.head] = &cacheEntry{key: key, task: task}
	c.head = (c.head + 1) % len(c.entries)
}

// UpdateViewport adapts the cache to a new viewport. A scale or height
// change invalidates every tile, so the cache is cleared outright. A
// width-only change preserves entries and resizes the storage.
func (c *SegmentCache) UpdateViewport(viewport ViewportContext) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.viewport.PixelsPerSecond != viewport.PixelsPerSecond ||
		c.viewport.HeightPx != viewport.HeightPx:
		c.clearLocked()
	case c.viewport.WidthPx != viewport.WidthPx:
		c.resizeLocked(viewport.capacity())
	}
	c.viewport = viewport
}

// Clear cancels every cached task and empties the cache.
func (c *SegmentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *SegmentCache) clearLocked() {
	for i, e := range c.entries {
		if e != nil {
			e.task.Cancel()
			c.entries[i] = nil
		}
	}
	c.head = 0
}

// resizeLocked compacts surviving entries into new storage. A shrink
// drops the overflow beyond the new capacity and cancels it; the head
// always lands back in range.
func (c *SegmentCache) resizeLocked(newSize int) {
	if newSize == len(c.entries) {
		return
	}

	newEntries := make([]*cacheEntry, newSize)
	copied := 0
	for _, e := range c.entries {
		if e == nil {
			continue
		}
		if copied < newSize {
			newEntries[copied] = e
			copied++
		} else {
			e.task.Cancel()
		}
	}

	c.entries = newEntries
	c.head = copied % newSize
}
