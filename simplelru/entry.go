// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

// Entry is a view of a single key's slot in an LRU. It is either occupied or
// vacant, never both. Resolving it touches the entry the same way Add and
// GetMut do. An Entry is only valid until the next call that modifies the
// cache.
type Entry[K comparable, V any] struct {
	c   *LRU[K, V]
	key K
	ent *element[K, V] // nil when vacant
}

// OccupiedEntry is an Entry whose key is present in the cache.
type OccupiedEntry[K comparable, V any] struct {
	c   *LRU[K, V]
	ent *element[K, V]
}

// VacantEntry is an Entry whose key is absent from the cache.
type VacantEntry[K comparable, V any] struct {
	c   *LRU[K, V]
	key K
}

// Entry purges expired entries and returns the slot for key.
func (c *LRU[K, V]) Entry(key K) Entry[K, V] {
	ent, _ := c.lookup(key, c.clock.Now())
	return Entry[K, V]{c: c, key: key, ent: ent}
}

// Key returns the key of the slot.
func (e Entry[K, V]) Key() K {
	return e.key
}

// Occupied returns the occupied view of e if the key is present.
func (e Entry[K, V]) Occupied() (OccupiedEntry[K, V], bool) {
	if e.ent == nil {
		return OccupiedEntry[K, V]{}, false
	}
	return OccupiedEntry[K, V]{c: e.c, ent: e.ent}, true
}

// Vacant returns the vacant view of e if the key is absent.
func (e Entry[K, V]) Vacant() (VacantEntry[K, V], bool) {
	if e.ent != nil {
		return VacantEntry[K, V]{}, false
	}
	return VacantEntry[K, V]{c: e.c, key: e.key}, true
}

// OrInsert returns a pointer to the present value, or inserts value and
// returns a pointer to it.
func (e Entry[K, V]) OrInsert(value V) *V {
	if o, ok := e.Occupied(); ok {
		return o.GetMut()
	}
	return VacantEntry[K, V]{c: e.c, key: e.key}.Insert(value)
}

// OrInsertWith is like OrInsert but only calls fn when the key is absent.
func (e Entry[K, V]) OrInsertWith(fn func() V) *V {
	if o, ok := e.Occupied(); ok {
		return o.GetMut()
	}
	return VacantEntry[K, V]{c: e.c, key: e.key}.Insert(fn())
}

// OrInsertWithKey is like OrInsertWith but passes the key to fn.
func (e Entry[K, V]) OrInsertWithKey(fn func(K) V) *V {
	if o, ok := e.Occupied(); ok {
		return o.GetMut()
	}
	return VacantEntry[K, V]{c: e.c, key: e.key}.Insert(fn(e.key))
}

// AndModify calls fn with the present value, touching it. A vacant entry is
// returned unchanged.
func (e Entry[K, V]) AndModify(fn func(*V)) Entry[K, V] {
	if o, ok := e.Occupied(); ok {
		fn(o.GetMut())
	}
	return e
}

// Key returns the key of the occupied slot.
func (o OccupiedEntry[K, V]) Key() K {
	return o.ent.key
}

// Get touches the entry and returns its value.
func (o OccupiedEntry[K, V]) Get() V {
	o.c.touch(o.ent, o.c.clock.Now())
	return o.ent.value
}

// GetMut touches the entry and returns a pointer to its value.
func (o OccupiedEntry[K, V]) GetMut() *V {
	o.c.touch(o.ent, o.c.clock.Now())
	return &o.ent.value
}

// Insert replaces the value, touches the entry and returns the old value.
func (o OccupiedEntry[K, V]) Insert(value V) V {
	old := o.ent.value
	o.ent.value = value
	o.c.touch(o.ent, o.c.clock.Now())
	return old
}

// Remove takes the entry out of the cache and returns its value.
func (o OccupiedEntry[K, V]) Remove() V {
	o.c.unlink(o.ent)
	return o.ent.value
}

// Key returns the key of the vacant slot.
func (v VacantEntry[K, V]) Key() K {
	return v.key
}

// Insert adds value as the most recently used entry and returns a pointer to
// it. In a cache with zero capacity the entry is evicted right away and the
// pointer refers to a value no longer held by the cache.
func (v VacantEntry[K, V]) Insert(value V) *V {
	ent := v.c.insert(v.key, value, v.c.clock.Now())
	return &ent.value
}
