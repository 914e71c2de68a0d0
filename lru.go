// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package lru provides a thread safe LRU cache bounded by size, by time since
// last use, or both. It serializes access to a simplelru.LRU.
package lru

import (
	"sync"
	"time"

	"github.com/craumix/golang-lrutime/simplelru"
	"github.com/hashicorp/go-hclog"
)

// Pair is a key and its value as returned by Snapshot.
type Pair[K comparable, V any] struct {
	Key   K `json:"key"`
	Value V `json:"value"`
}

// Cache is a thread-safe LRU cache with optional expiry.
type Cache[K comparable, V any] struct {
	lru     *simplelru.LRU[K, V]
	lock    sync.Mutex
	logger  hclog.Logger
	onEvict simplelru.EvictCallback[K, V]

	// evictions collected while the lock is held, delivered after it is released
	evicted []eviction[K, V]
}

type eviction[K comparable, V any] struct {
	key    K
	value  V
	reason simplelru.EvictReason
}

// Option configures a Cache.
type Option func(*settings)

type settings struct {
	clock  simplelru.Clock
	logger hclog.Logger
}

// WithClock makes the cache read time from c.
func WithClock(c simplelru.Clock) Option {
	return func(s *settings) { s.clock = c }
}

// WithLogger sets the logger evictions are reported to at debug level.
func WithLogger(l hclog.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an LRU of the given size.
func New[K comparable, V any](size int, opts ...Option) (*Cache[K, V], error) {
	return build(opts, func(cb simplelru.EvictCallback[K, V], lopts []simplelru.Option) (*simplelru.LRU[K, V], error) {
		return simplelru.NewWithCapacity(size, cb, lopts...)
	})
}

// NewWithExpiry creates a cache whose entries expire ttl after their last use.
func NewWithExpiry[K comparable, V any](ttl time.Duration, opts ...Option) (*Cache[K, V], error) {
	return build(opts, func(cb simplelru.EvictCallback[K, V], lopts []simplelru.Option) (*simplelru.LRU[K, V], error) {
		return simplelru.NewWithExpiry(ttl, cb, lopts...)
	})
}

// NewWithExpiryAndCapacity creates a cache bounded by both size and time.
func NewWithExpiryAndCapacity[K comparable, V any](ttl time.Duration, size int, opts ...Option) (*Cache[K, V], error) {
	return build(opts, func(cb simplelru.EvictCallback[K, V], lopts []simplelru.Option) (*simplelru.LRU[K, V], error) {
		return simplelru.NewWithExpiryAndCapacity(ttl, size, cb, lopts...)
	})
}

func build[K comparable, V any](opts []Option, mk func(simplelru.EvictCallback[K, V], []simplelru.Option) (*simplelru.LRU[K, V], error)) (*Cache[K, V], error) {
	s := settings{logger: hclog.NewNullLogger()}
	for _, opt := range opts {
		opt(&s)
	}

	c := &Cache[K, V]{logger: s.logger.Named("lru")}
	var lopts []simplelru.Option
	if s.clock != nil {
		lopts = append(lopts, simplelru.WithClock(s.clock))
	}

	lru, err := mk(c.collect, lopts)
	if err != nil {
		return nil, err
	}
	c.lru = lru
	return c, nil
}

// OnEvict registers fn to be called for every capacity or expiry eviction.
// fn runs after the cache lock is released and may call back into the cache.
func (c *Cache[K, V]) OnEvict(fn simplelru.EvictCallback[K, V]) {
	c.lock.Lock()
	c.onEvict = fn
	c.lock.Unlock()
}

func (c *Cache[K, V]) collect(key K, value V, reason simplelru.EvictReason) {
	c.logger.Debug("evicted entry", "key", key, "reason", reason)
	if c.onEvict != nil {
		c.evicted = append(c.evicted, eviction[K, V]{key, value, reason})
	}
}

// do runs fn under the lock and then delivers the evictions it caused.
// The lock is released even if fn panics.
func (c *Cache[K, V]) do(fn func(l *simplelru.LRU[K, V])) {
	evicted, onEvict := c.locked(fn)
	for _, e := range evicted {
		onEvict(e.key, e.value, e.reason)
	}
}

func (c *Cache[K, V]) locked(fn func(l *simplelru.LRU[K, V])) ([]eviction[K, V], simplelru.EvictCallback[K, V]) {
	c.lock.Lock()
	defer c.lock.Unlock()
	defer func() { c.evicted = nil }()

	fn(c.lru)
	return c.evicted, c.onEvict
}

// Purge removes all expired entries, returning how many were dropped.
func (c *Cache[K, V]) Purge() (evicted int) {
	c.do(func(l *simplelru.LRU[K, V]) { evicted = l.RemoveExpired() })
	return
}

// Clear is used to completely clear the cache.
func (c *Cache[K, V]) Clear() {
	c.do(func(l *simplelru.LRU[K, V]) { l.Clear() })
}

// Add adds a value to the cache. Returns the previous value if the key was
// already present.
func (c *Cache[K, V]) Add(key K, value V) (previous V, replaced bool) {
	c.do(func(l *simplelru.LRU[K, V]) { previous, replaced = l.Add(key, value) })
	return
}

// Get looks up a key's value from the cache.
func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { value, ok = l.Get(key) })
	return
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key.
func (c *Cache[K, V]) Peek(key K) (value V, ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { value, ok = l.Peek(key) })
	return
}

// Contains checks if a key is in the cache, without updating the
// recent-ness.
func (c *Cache[K, V]) Contains(key K) (ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { ok = l.Contains(key) })
	return
}

// Promote marks a key as recently used.
func (c *Cache[K, V]) Promote(key K) (ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { ok = l.Promote(key) })
	return
}

// Update calls fn with a pointer to the stored value while holding the lock.
// The key is marked as recently used. fn must not call into the cache.
func (c *Cache[K, V]) Update(key K, fn func(*V)) (ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) {
		var p *V
		if p, ok = l.GetMut(key); ok {
			fn(p)
		}
	})
	return
}

// GetOrAdd returns the value for key, adding the result of fn if the key is
// absent. loaded reports whether the value was already present. fn runs under
// the lock and must not call into the cache.
func (c *Cache[K, V]) GetOrAdd(key K, fn func(K) V) (value V, loaded bool) {
	c.do(func(l *simplelru.LRU[K, V]) {
		e := l.Entry(key)
		_, loaded = e.Occupied()
		value = *e.OrInsertWithKey(fn)
	})
	return
}

// GetOrLoad returns the value for key, calling load on a miss and caching
// its result. load runs without the lock held; if another caller stored the
// key meanwhile, that value wins. Errors from load are returned and nothing
// is cached.
func (c *Cache[K, V]) GetOrLoad(key K, load func(K) (V, error)) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load(key)
	if err != nil {
		return value, err
	}

	c.do(func(l *simplelru.LRU[K, V]) { value = *l.Entry(key).OrInsert(value) })
	return value, nil
}

// Remove removes the provided key from the cache.
func (c *Cache[K, V]) Remove(key K) (value V, present bool) {
	c.do(func(l *simplelru.LRU[K, V]) { value, present = l.Remove(key) })
	return
}

// Resize changes the cache size.
func (c *Cache[K, V]) Resize(size int) (evicted int) {
	c.do(func(l *simplelru.LRU[K, V]) { evicted = l.Resize(size) })
	return
}

// RemoveOldest removes the oldest item from the cache.
func (c *Cache[K, V]) RemoveOldest() (key K, value V, ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { key, value, ok = l.RemoveOldest() })
	return
}

// GetOldest returns the oldest entry
func (c *Cache[K, V]) GetOldest() (key K, value V, ok bool) {
	c.do(func(l *simplelru.LRU[K, V]) { key, value, ok = l.GetOldest() })
	return
}

// Keys returns a slice of the keys in the cache, from newest to oldest.
func (c *Cache[K, V]) Keys() (keys []K) {
	c.do(func(l *simplelru.LRU[K, V]) { keys = l.Keys() })
	return
}

// Values returns a slice of the values in the cache, from newest to oldest.
func (c *Cache[K, V]) Values() (values []V) {
	c.do(func(l *simplelru.LRU[K, V]) { values = l.Values() })
	return
}

// Snapshot copies the live entries, newest first.
func (c *Cache[K, V]) Snapshot() (pairs []Pair[K, V]) {
	c.do(func(l *simplelru.LRU[K, V]) {
		pairs = make([]Pair[K, V], 0, l.Len())
		for k, v := range l.Iter() {
			pairs = append(pairs, Pair[K, V]{k, v})
		}
	})
	return
}

// Each calls fn for every live entry, newest first, until fn returns false.
// The lock is held for the whole walk; fn must not call into the cache.
func (c *Cache[K, V]) Each(fn func(K, V) bool) {
	c.do(func(l *simplelru.LRU[K, V]) {
		for k, v := range l.Iter() {
			if !fn(k, v) {
				return
			}
		}
	})
}

// Len returns the number of items in the cache.
func (c *Cache[K, V]) Len() (n int) {
	c.do(func(l *simplelru.LRU[K, V]) { n = l.Len() })
	return
}

// IsEmpty reports whether the cache holds no live items.
func (c *Cache[K, V]) IsEmpty() (empty bool) {
	c.do(func(l *simplelru.LRU[K, V]) { empty = l.IsEmpty() })
	return
}
