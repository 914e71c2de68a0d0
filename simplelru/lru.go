// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import (
	"time"

	"github.com/go-errors/errors"
)

var (
	// ErrInvalidCapacity is returned when a cache is constructed with a negative capacity.
	ErrInvalidCapacity = errors.New("capacity must not be negative")

	// ErrInvalidTTL is returned when a cache is constructed with a negative expiry duration.
	ErrInvalidTTL = errors.New("expiry duration must not be negative")
)

// EvictReason tells an EvictCallback why an entry left the cache.
type EvictReason int

const (
	// EvictedCapacity means the entry was the least recently used one when
	// the cache grew past its capacity.
	EvictedCapacity EvictReason = iota + 1

	// EvictedExpired means the entry was not touched within the expiry duration.
	EvictedExpired
)

func (r EvictReason) String() string {
	switch r {
	case EvictedCapacity:
		return "capacity"
	case EvictedExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// EvictCallback is used to get a callback when a cache entry is evicted
type EvictCallback[K comparable, V any] func(key K, value V, reason EvictReason)

// LRU implements a non-thread safe LRU cache bounded by size, by time, or both.
type LRU[K comparable, V any] struct {
	capacity int
	bounded  bool

	ttl     time.Duration
	expires bool

	evictList *lruList[K, V]
	items     map[K]*element[K, V]
	onEvict   EvictCallback[K, V]
	clock     Clock
}

// NewWithCapacity constructs an LRU holding at most capacity entries.
// A capacity of zero is allowed; such a cache drops every entry it is given.
func NewWithCapacity[K comparable, V any](capacity int, onEvict EvictCallback[K, V], opts ...Option) (*LRU[K, V], error) {
	if capacity < 0 {
		return nil, errors.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return newLRU(capacity, true, 0, false, onEvict, opts), nil
}

// NewWithExpiry constructs an LRU whose entries expire ttl after they were last
// touched. The number of entries is not bounded.
func NewWithExpiry[K comparable, V any](ttl time.Duration, onEvict EvictCallback[K, V], opts ...Option) (*LRU[K, V], error) {
	if ttl < 0 {
		return nil, errors.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	return newLRU(0, false, ttl, true, onEvict, opts), nil
}

// NewWithExpiryAndCapacity constructs an LRU applying both the expiry duration
// and the capacity bound.
func NewWithExpiryAndCapacity[K comparable, V any](ttl time.Duration, capacity int, onEvict EvictCallback[K, V], opts ...Option) (*LRU[K, V], error) {
	if ttl < 0 {
		return nil, errors.Errorf("%w: %s", ErrInvalidTTL, ttl)
	}
	if capacity < 0 {
		return nil, errors.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return newLRU(capacity, true, ttl, true, onEvict, opts), nil
}

func newLRU[K comparable, V any](capacity int, bounded bool, ttl time.Duration, expires bool, onEvict EvictCallback[K, V], opts []Option) *LRU[K, V] {
	o := options{clock: systemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	return &LRU[K, V]{
		capacity:  capacity,
		bounded:   bounded,
		ttl:       ttl,
		expires:   expires,
		evictList: newList[K, V](),
		items:     make(map[K]*element[K, V]),
		onEvict:   onEvict,
		clock:     o.clock,
	}
}

// Clear is used to completely clear the cache. No callbacks are issued.
// Entry handles taken before the call are detached and no longer affect
// the cache.
func (c *LRU[K, V]) Clear() {
	for ent := c.evictList.front(); ent != nil; {
		next := ent.nextEntry()
		ent.next, ent.prev, ent.list = nil, nil, nil
		ent = next
	}
	clear(c.items)
	c.evictList.init()
}

// Add adds a value to the cache and marks it most recently used.
// If the key was present its previous value is returned with replaced set.
// Adding a new key may evict the least recently used entry.
func (c *LRU[K, V]) Add(key K, value V) (previous V, replaced bool) {
	now := c.clock.Now()
	if ent, ok := c.lookup(key, now); ok {
		previous = ent.value
		ent.value = value
		c.touch(ent, now)
		return previous, true
	}

	c.insert(key, value, now)
	return
}

// Get looks up a key's value from the cache, marking it most recently used
// and restarting its expiry duration.
func (c *LRU[K, V]) Get(key K) (value V, ok bool) {
	now := c.clock.Now()
	if ent, ok := c.lookup(key, now); ok {
		c.touch(ent, now)
		return ent.value, true
	}
	return
}

// GetMut behaves like Get but returns a pointer to the stored value so it can
// be changed in place. The pointer must not be used after the next call that
// modifies the cache.
func (c *LRU[K, V]) GetMut(key K) (value *V, ok bool) {
	now := c.clock.Now()
	if ent, ok := c.lookup(key, now); ok {
		c.touch(ent, now)
		return &ent.value, true
	}
	return nil, false
}

// Peek returns the key value (or undefined if not found) without updating
// the "recently used"-ness of the key or its expiry.
func (c *LRU[K, V]) Peek(key K) (value V, ok bool) {
	if ent, ok := c.lookup(key, c.clock.Now()); ok {
		return ent.value, true
	}
	return
}

// Contains checks if a live key is in the cache, without updating the
// recent-ness.
func (c *LRU[K, V]) Contains(key K) bool {
	_, ok := c.lookup(key, c.clock.Now())
	return ok
}

// Promote marks a live key most recently used and restarts its expiry duration.
func (c *LRU[K, V]) Promote(key K) bool {
	now := c.clock.Now()
	ent, ok := c.lookup(key, now)
	if ok {
		c.touch(ent, now)
	}
	return ok
}

// Remove removes the provided key from the cache, returning its value if the
// key was present and not yet expired. An expired entry is dropped as well but
// reported as absent.
func (c *LRU[K, V]) Remove(key K) (value V, present bool) {
	ent, ok := c.items[key]
	if !ok {
		return
	}
	if c.expired(ent, c.clock.Now()) {
		c.removeElement(ent, EvictedExpired)
		return
	}
	c.unlink(ent)
	return ent.value, true
}

// RemoveOldest removes the least recently used live entry from the cache.
func (c *LRU[K, V]) RemoveOldest() (key K, value V, ok bool) {
	c.removeExpired(c.clock.Now())
	if ent := c.evictList.back(); ent != nil {
		c.unlink(ent)
		return ent.key, ent.value, true
	}
	return
}

// GetOldest returns the least recently used live entry without touching it.
func (c *LRU[K, V]) GetOldest() (key K, value V, ok bool) {
	c.removeExpired(c.clock.Now())
	if ent := c.evictList.back(); ent != nil {
		return ent.key, ent.value, true
	}
	return
}

// Keys returns a slice of the live keys in the cache, most recently used first.
func (c *LRU[K, V]) Keys() []K {
	c.removeExpired(c.clock.Now())
	keys := make([]K, 0, c.evictList.length())
	for ent := c.evictList.front(); ent != nil; ent = ent.nextEntry() {
		keys = append(keys, ent.key)
	}
	return keys
}

// Values returns a slice of the live values in the cache, most recently used first.
func (c *LRU[K, V]) Values() []V {
	c.removeExpired(c.clock.Now())
	values := make([]V, 0, c.evictList.length())
	for ent := c.evictList.front(); ent != nil; ent = ent.nextEntry() {
		values = append(values, ent.value)
	}
	return values
}

// Len returns the number of live items in the cache.
// Expired items are purged before counting.
func (c *LRU[K, V]) Len() int {
	c.removeExpired(c.clock.Now())
	return c.evictList.length()
}

// IsEmpty reports whether the cache holds no live items.
func (c *LRU[K, V]) IsEmpty() bool {
	return c.Len() == 0
}

// Cap returns the capacity and whether the cache is bounded by size at all.
func (c *LRU[K, V]) Cap() (capacity int, bounded bool) {
	return c.capacity, c.bounded
}

// TTL returns the expiry duration and whether entries expire at all.
func (c *LRU[K, V]) TTL() (ttl time.Duration, expires bool) {
	return c.ttl, c.expires
}

// Resize changes the cache size, evicting least recently used entries that
// no longer fit. A negative size removes the size bound.
func (c *LRU[K, V]) Resize(size int) (evicted int) {
	if size < 0 {
		c.capacity, c.bounded = 0, false
		return 0
	}
	c.removeExpired(c.clock.Now())
	c.capacity, c.bounded = size, true
	return c.evictOverflow()
}

// Deadline returns the instant at which a live key expires unless it is touched
// again. ok is false if the key is absent or the cache has no expiry duration.
func (c *LRU[K, V]) Deadline(key K) (deadline time.Time, ok bool) {
	if !c.expires {
		return
	}
	if ent, ok := c.lookup(key, c.clock.Now()); ok {
		return ent.touched.Add(c.ttl), true
	}
	return
}

// RemoveExpired removes all expired entries from the cache.
// Unlike the purge run by other operations it scans every entry.
func (c *LRU[K, V]) RemoveExpired() (evicted int) {
	if !c.expires {
		return 0
	}
	now := c.clock.Now()
	for ent := c.evictList.back(); ent != nil; {
		prev := ent.prevEntry()
		if c.expired(ent, now) {
			c.removeElement(ent, EvictedExpired)
			evicted++
		}
		ent = prev
	}
	return
}

// lookup purges expired entries and returns the live element for key.
func (c *LRU[K, V]) lookup(key K, now time.Time) (*element[K, V], bool) {
	c.removeExpired(now)
	ent, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if c.expired(ent, now) {
		c.removeElement(ent, EvictedExpired)
		return nil, false
	}
	return ent, true
}

// insert adds a new element at the front and enforces the capacity.
// key must not be present.
func (c *LRU[K, V]) insert(key K, value V, now time.Time) *element[K, V] {
	ent := c.evictList.pushFront(key, value, now)
	c.items[key] = ent
	c.evictOverflow()
	return ent
}

func (c *LRU[K, V]) touch(ent *element[K, V], now time.Time) {
	ent.touched = now
	c.evictList.moveToFront(ent)
}

func (c *LRU[K, V]) expired(ent *element[K, V], now time.Time) bool {
	return c.expires && !now.Before(ent.touched.Add(c.ttl))
}

// removeExpired drops expired entries from the least recently used end.
// Touch times never decrease towards the front, so it stops at the first
// live element.
func (c *LRU[K, V]) removeExpired(now time.Time) (evicted int) {
	if !c.expires {
		return 0
	}
	for ent := c.evictList.back(); ent != nil && c.expired(ent, now); ent = c.evictList.back() {
		c.removeElement(ent, EvictedExpired)
		evicted++
	}
	return
}

func (c *LRU[K, V]) evictOverflow() (evicted int) {
	if !c.bounded {
		return 0
	}
	for c.evictList.length() > c.capacity {
		c.removeElement(c.evictList.back(), EvictedCapacity)
		evicted++
	}
	return
}

// removeElement is used to evict a given list element from the cache
func (c *LRU[K, V]) removeElement(e *element[K, V], reason EvictReason) {
	c.unlink(e)
	if c.onEvict != nil {
		c.onEvict(e.key, e.value, reason)
	}
}

func (c *LRU[K, V]) unlink(e *element[K, V]) {
	if e.list != c.evictList {
		return
	}
	c.evictList.remove(e)
	delete(c.items, e.key)
}

// MoveItem moves a live entry from src to dest, where it becomes the most
// recently used entry with a fresh expiry duration.
func MoveItem[K comparable, V any](key K, dest, src LRUCache[K, V]) (value V, moved bool) {
	if value, moved = src.Remove(key); moved {
		dest.Add(key, value)
	}
	return
}
