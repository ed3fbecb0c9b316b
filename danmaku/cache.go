// Copyright 2025 The Danmagu Authors
// SPDX-License-Identifier: GPL-3.0-only

package danmaku

import "sync"

// Cache remembers fetched comment lists keyed by media path, so that
// reloading a file or toggling the overlay does not hit the comment
// service again. A small bound keeps memory flat across long
// playlists; the oldest entry is evicted first.
type Cache[T any] struct {
	mu      sync.Mutex
	entries map[string]T
	order   []string
	max     int
}

func NewCache[T any](max int) *Cache[T] {
	if max < 1 {
		max = 1
	}
	return &Cache[T]{
		entries: make(map[string]T),
		max:     max,
	}
}

func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *Cache[T]) Put(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.order = append(c.order, key)
		if len(c.order) > c.max {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	c.entries[key] = value
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]T)
	c.order = nil
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
