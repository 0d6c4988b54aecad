// Package cache implements the bounded transcode cache of spec.md §4.4:
// an ordered-sequence-plus-lookup-map LRU index over files on disk, sized
// in number of entries rather than bytes. No bounded-LRU-with-file-
// eviction library appears anywhere in the example corpus; container/list
// is the standard-library primitive that matches the spec's own
// description of the index's shape.
package cache

import (
	"container/list"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"surfmt/internal/logging"
)

// Cache is a fixed-capacity LRU index over transcode cache files named
// "<track_id>.<quality>.mp3" under dir.
type Cache struct {
	mu       sync.Mutex
	dir      string
	capacity int
	ll       *list.List
	index    map[string]*list.Element
}

// New creates an empty index with the given capacity (spec.md §4.4,
// "max size N") rooted at dir. dir is created if absent.
func New(dir string, capacity int) (*Cache, error) {
	if capacity < 1 {
		capacity = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: mkdir %s: %w", dir, err)
	}
	return &Cache{
		dir:      dir,
		capacity: capacity,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}, nil
}

func key(trackID string, quality int) string {
	return fmt.Sprintf("%s.%d", trackID, quality)
}

// Path returns the cache file path for (trackID, quality) without
// touching the index.
func (c *Cache) Path(trackID string, quality int) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s.%d.mp3", trackID, quality))
}

// Contains is a pure lookup, per spec.md §4.4.
func (c *Cache) Contains(trackID string, quality int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[key(trackID, quality)]
	return ok
}

// Put moves (trackID, quality) to the front of the index if present, or
// inserts it; if the index then exceeds capacity, the tail entry is
// evicted and its cache file path is returned for deletion outside the
// lock (spec.md §4.4: "Insert returns the evicted key's path so the file
// delete can happen outside the mutex if desired").
func (c *Cache) Put(trackID string, quality int) (evictedPath string, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key(trackID, quality)
	if el, ok := c.index[k]; ok {
		c.ll.MoveToFront(el)
		return "", false
	}

	el := c.ll.PushFront(k)
	c.index[k] = el

	if c.ll.Len() <= c.capacity {
		return "", false
	}

	tail := c.ll.Back()
	c.ll.Remove(tail)
	tailKey := tail.Value.(string)
	delete(c.index, tailKey)
	return filepath.Join(c.dir, tailKey+".mp3"), true
}

// GetCachedTranscode implements spec.md §4.4's get_cached_transcode:
// compute the cache path, record access via Put, and report whether the
// file exists with non-zero size. Eviction triggered by this access
// deletes the evicted file from disk.
func (c *Cache) GetCachedTranscode(trackID string, quality int) (path string, present bool) {
	path = c.Path(trackID, quality)
	evictedPath, evicted := c.Put(trackID, quality)
	if evicted && evictedPath != "" {
		if err := os.Remove(evictedPath); err != nil && !os.IsNotExist(err) {
			logging.Warnf("cache: evict %s: %v", evictedPath, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return path, false
	}
	return path, info.Size() > 0
}
