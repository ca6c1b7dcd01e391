// Copyright (c) 2014 AKUALAB INC., All rights reserved.
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache is an LRU cache with keys of type uint64 and values of type
// []float64. It is a front end for the LRU cache from the groupcache
// project (https://github.com/golang/groupcache) and is safe for concurrent
// use.
package cache

import (
	"sync"

	"github.com/golang/groupcache/lru"
)

type Cache struct {
	mu       sync.Mutex
	lruCache *lru.Cache
	capacity uint64
}

// NewCache returns a cache that holds up to cap values.
func NewCache(cap uint64) *Cache {

	return &Cache{
		lruCache: lru.New(int(cap)),
		capacity: cap,
	}
}

// Stats returns the number of cached values and the capacity.
func (c *Cache) Stats() (size, capacity uint64) {

	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(c.lruCache.Len()), c.capacity
}

// SetIfAbsent stores v unless the key is present. Returns the cached value.
func (c *Cache) SetIfAbsent(n uint64, v []float64) []float64 {

	c.mu.Lock()
	defer c.mu.Unlock()
	if cv, ok := c.lruCache.Get(n); ok {
		return cv.([]float64)
	}
	c.lruCache.Add(n, v)
	return v
}

func (c *Cache) Get(n uint64) (v []float64, ok bool) {

	c.mu.Lock()
	defer c.mu.Unlock()
	cv, ok := c.lruCache.Get(n)
	if ok {
		v = cv.([]float64)
	}
	return
}

// Clear removes all values.
func (c *Cache) Clear() {

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lruCache.Clear()
}
