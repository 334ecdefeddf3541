// Package cache provides the per-mesh element cache: a byte-budgeted LRU of
// decoded per-element field arrays with exactly-once decode semantics.
//
// Decoding an element (reading raw node series and reshaping, possibly
// deriving strain) is the expensive step of seismogram extraction; queries
// landing in the same element must pay it once. Entries are write-once:
// once stored, an array is never mutated, so concurrent readers can share it
// without copying.
package cache

import (
	"container/list"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Cache is a least-recently-used cache keyed by element id.
//
// Thread-safety: all methods are safe for concurrent use. Concurrent
// GetOrCompute calls for the same id run the compute callback once; the
// racers all receive the same value.
type Cache[V any] struct {
	budget int64
	size   func(V) int64

	group singleflight.Group

	mu    sync.Mutex
	ll    *list.List
	items map[int]*list.Element
	used  int64
}

type entry[V any] struct {
	id    int
	val   V
	bytes int64
}

// New creates a cache with the given byte budget. size reports the retained
// size of a value. A zero budget disables storage entirely: every call
// recomputes, though concurrent racers for one id are still deduplicated.
func New[V any](budget int64, size func(V) int64) *Cache[V] {
	return &Cache[V]{
		budget: budget,
		size:   size,
		ll:     list.New(),
		items:  make(map[int]*list.Element),
	}
}

// GetOrCompute returns the cached value for id, or runs compute, stores the
// result within budget and returns it. compute runs at most once per id at
// any moment; an error is returned to all waiters and nothing is stored.
func (c *Cache[V]) GetOrCompute(id int, compute func() (V, error)) (V, error) {
	if v, ok := c.get(id); ok {
		return v, nil
	}

	res, err, _ := c.group.Do(strconv.Itoa(id), func() (any, error) {
		// A racer may have stored the value between the miss and the
		// singleflight admission.
		if v, ok := c.get(id); ok {
			return v, nil
		}
		v, err := compute()
		if err != nil {
			return nil, err
		}
		c.put(id, v)
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return res.(V), nil
}

func (c *Cache[V]) get(id int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[id]; ok {
		c.ll.MoveToFront(e)
		return e.Value.(*entry[V]).val, true
	}
	var zero V
	return zero, false
}

func (c *Cache[V]) put(id int, v V) {
	n := c.size(v)
	if n > c.budget {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[id]; ok {
		return
	}
	c.items[id] = c.ll.PushFront(&entry[V]{id: id, val: v, bytes: n})
	c.used += n
	for c.used > c.budget {
		back := c.ll.Back()
		if back == nil {
			break
		}
		ev := back.Value.(*entry[V])
		c.ll.Remove(back)
		delete(c.items, ev.id)
		c.used -= ev.bytes
	}
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Bytes returns the total retained size of resident entries.
func (c *Cache[V]) Bytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}
