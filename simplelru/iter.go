// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import "iter"

// TimedValue is produced by NotifyIter for every entry it visits.
type TimedValue[V any] struct {
	Value V
	// Expired is set for entries that were found expired and have been
	// removed from the cache.
	Expired bool
}

// Iter returns an iterator over the live entries, most recently used first.
// Expired entries are purged when Iter is called. Iterating does not change
// the order or the expiry of any entry. The cache must not be modified while
// the iterator is in use; call Iter again to observe later changes.
func (c *LRU[K, V]) Iter() iter.Seq2[K, V] {
	now := c.clock.Now()
	c.removeExpired(now)
	return func(yield func(K, V) bool) {
		for ent := c.evictList.front(); ent != nil; ent = ent.nextEntry() {
			if c.expired(ent, now) {
				continue
			}
			if !yield(ent.key, ent.value) {
				return
			}
		}
	}
}

// PeekIter is like Iter but leaves the cache untouched: expired entries are
// skipped instead of being purged.
func (c *LRU[K, V]) PeekIter() iter.Seq2[K, V] {
	now := c.clock.Now()
	return func(yield func(K, V) bool) {
		for ent := c.evictList.front(); ent != nil; ent = ent.nextEntry() {
			if c.expired(ent, now) {
				continue
			}
			if !yield(ent.key, ent.value) {
				return
			}
		}
	}
}

// NotifyIter walks every entry, most recently used first, and reports
// expired ones instead of silently dropping them. Expired entries are removed
// as they are reached and the EvictCallback is not called for them. Live
// entries are not touched.
func (c *LRU[K, V]) NotifyIter() iter.Seq2[K, TimedValue[V]] {
	return func(yield func(K, TimedValue[V]) bool) {
		now := c.clock.Now()
		for ent := c.evictList.front(); ent != nil; {
			next := ent.nextEntry()
			tv := TimedValue[V]{Value: ent.value}
			if c.expired(ent, now) {
				c.unlink(ent)
				tv.Expired = true
			}
			if !yield(ent.key, tv) {
				return
			}
			ent = next
		}
	}
}
