// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import "time"

// element is a node of the recency list
type element[K comparable, V any] struct {
	// Next and previous pointers in the doubly-linked list of elements.
	// To simplify the implementation, internally a list l is implemented
	// as a ring, such that &l.root is both the next element of the last
	// list element (l.back()) and the previous element of the first list
	// element (l.front()).
	next, prev *element[K, V]

	// The list to which this element belongs.
	list *lruList[K, V]

	key   K
	value V

	// touched is the instant of the last insert, read or promotion.
	touched time.Time
}

// prevEntry returns the previous list element or nil.
func (e *element[K, V]) prevEntry() *element[K, V] {
	if p := e.prev; e.list != nil && p != &e.list.root {
		return p
	}
	return nil
}

// nextEntry returns the next list element or nil.
func (e *element[K, V]) nextEntry() *element[K, V] {
	if n := e.next; e.list != nil && n != &e.list.root {
		return n
	}
	return nil
}

// lruList represents a doubly linked list ordered by recency.
// The zero value for lruList is an empty list ready to use.
type lruList[K comparable, V any] struct {
	root element[K, V] // sentinel list element, only &root, root.prev, and root.next are used
	len  int           // current list length excluding (this) sentinel element
}

// init initializes or clears list l.
func (l *lruList[K, V]) init() *lruList[K, V] {
	l.root.next = &l.root
	l.root.prev = &l.root
	l.len = 0
	return l
}

// newList returns an initialized list.
func newList[K comparable, V any]() *lruList[K, V] { return new(lruList[K, V]).init() }

// length returns the number of elements of list l.
// The complexity is O(1).
func (l *lruList[K, V]) length() int { return l.len }

// front returns the most recently used element of list l or nil if the list is empty.
func (l *lruList[K, V]) front() *element[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

// back returns the least recently used element of list l or nil if the list is empty.
func (l *lruList[K, V]) back() *element[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

// lazyInit lazily initializes a zero List Value.
func (l *lruList[K, V]) lazyInit() {
	if l.root.next == nil {
		l.init()
	}
}

// insert inserts e after at, increments l.len, and returns e.
func (l *lruList[K, V]) insert(e, at *element[K, V]) *element[K, V] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.list = l
	l.len++
	return e
}

// remove removes e from its list, decrements l.len
func (l *lruList[K, V]) remove(e *element[K, V]) V {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil // avoid memory leaks
	e.prev = nil // avoid memory leaks
	e.list = nil
	l.len--

	return e.value
}

// move moves e to next to at.
func (l *lruList[K, V]) move(e, at *element[K, V]) {
	if e == at {
		return
	}
	e.prev.next = e.next
	e.next.prev = e.prev

	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
}

// pushFront inserts a new element e with value v at the front of list l and returns e.
func (l *lruList[K, V]) pushFront(k K, v V, touched time.Time) *element[K, V] {
	l.lazyInit()
	return l.insert(&element[K, V]{key: k, value: v, touched: touched}, &l.root)
}

// moveToFront moves element e to the front of list l.
// If e is not an element of l, the list is not modified.
// The element must not be nil.
func (l *lruList[K, V]) moveToFront(e *element[K, V]) {
	if e.list != l || l.root.next == e {
		return
	}
	l.move(e, &l.root)
}
