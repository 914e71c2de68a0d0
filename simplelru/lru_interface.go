// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package simplelru provides a non-thread-safe LRU cache bounded by size,
// by time since last use, or both.
//
// Expired entries are dropped lazily: every operation that reads or counts
// entries first purges the ones whose expiry duration has passed. Reading an
// entry with Get, GetMut, Promote or an Entry handle counts as a use. Peek,
// Contains, Len and the iterators never change the order or the expiry.
package simplelru

import (
	"iter"
	"time"
)

// LRUCache is the interface for simple LRU cache.
type LRUCache[K comparable, V any] interface {
	// Adds a value to the cache, returns the previous value if the key was
	// present and updates the "recently used"-ness of the key.
	Add(key K, value V) (previous V, replaced bool)

	// Returns key's value from the cache and
	// updates the "recently used"-ness of the key. #value, isFound
	Get(key K) (value V, ok bool)

	// Returns a pointer to key's value and updates the "recently used"-ness
	// of the key.
	GetMut(key K) (value *V, ok bool)

	// Checks if a key exists in cache without updating the recent-ness.
	Contains(key K) (ok bool)

	// Returns key's value without updating the "recently used"-ness of the key.
	Peek(key K) (value V, ok bool)

	// Updates the "recently used"-ness of the key without reading it.
	Promote(key K) bool

	// Removes a key from the cache. An entry that has expired but was not yet
	// purged is dropped too and reported as absent.
	Remove(key K) (value V, present bool)

	// Removes the oldest entry from cache.
	RemoveOldest() (K, V, bool)

	// Returns the oldest entry from the cache. #key, value, isFound
	GetOldest() (K, V, bool)

	// Returns a slice of the keys in the cache, from newest to oldest.
	Keys() []K

	// Values returns a slice of the values in the cache, from newest to oldest.
	Values() []V

	// Iterates live entries from newest to oldest, purging expired ones first.
	Iter() iter.Seq2[K, V]

	// Iterates live entries from newest to oldest without modifying the cache.
	PeekIter() iter.Seq2[K, V]

	// Returns the number of live items in the cache.
	Len() int

	// Reports whether the cache holds no live items.
	IsEmpty() bool

	// Clears all cache entries.
	Clear()

	// Resizes cache, returning number evicted
	Resize(int) int

	// Returns the instant a live key expires unless touched again.
	Deadline(key K) (deadline time.Time, ok bool)

	// Removes all expired entries from the cache.
	RemoveExpired() (evicted int)
}

var _ LRUCache[string, int] = (*LRU[string, int])(nil)
