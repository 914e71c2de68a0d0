// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIter_Order(t *testing.T) {
	l, err := NewWithCapacity[int, string](3, nil)
	require.NoError(t, err)

	assert.Empty(t, collect(l.Iter()))

	l.Add(1, "a")
	l.Add(2, "b")
	l.Add(3, "c")
	l.Get(1)

	want := []pair[int, string]{{1, "a"}, {3, "c"}, {2, "b"}}
	assert.Equal(t, want, collect(l.Iter()))
	assert.Equal(t, want, collect(l.PeekIter()))

	// Iterating again sees the same order: iteration touches nothing.
	assert.Equal(t, want, collect(l.Iter()))
}

func TestIter_EarlyBreak(t *testing.T) {
	l, err := NewWithCapacity[int, int](10, nil)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		l.Add(i, i)
	}

	var seen []int
	for k := range l.Iter() {
		seen = append(seen, k)
		if len(seen) == 3 {
			break
		}
	}
	assert.Equal(t, []int{9, 8, 7}, seen)
}

func TestIter_ReflectsCurrentState(t *testing.T) {
	l, mock := newTimed(t, 2*time.Second, -1, nil)

	l.Add(1, "a")
	mock.Add(time.Second)
	l.Add(2, "b")
	assert.Equal(t, []pair[int, string]{{2, "b"}, {1, "a"}}, collect(l.Iter()))

	mock.Add(time.Second)
	assert.Equal(t, []pair[int, string]{{2, "b"}}, collect(l.Iter()))

	l.Add(3, "c")
	assert.Equal(t, []pair[int, string]{{3, "c"}, {2, "b"}}, collect(l.Iter()))
}

func TestPeekIter_LeavesExpiredInPlace(t *testing.T) {
	calls := 0
	l, mock := newTimed(t, time.Second, -1, func(int, string, EvictReason) { calls++ })

	l.Add(1, "a")
	mock.Add(500 * time.Millisecond)
	l.Add(2, "b")
	mock.Add(500 * time.Millisecond)

	assert.Equal(t, []pair[int, string]{{2, "b"}}, collect(l.PeekIter()))
	assert.Equal(t, 0, calls)
	assert.Equal(t, 2, l.evictList.length())

	assert.Equal(t, []pair[int, string]{{2, "b"}}, collect(l.Iter()))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, l.evictList.length())
}

func TestNotifyIter(t *testing.T) {
	calls := 0
	l, mock := newTimed(t, 2*time.Second, -1, func(int, string, EvictReason) { calls++ })

	l.Add(1, "a")
	l.Add(2, "b")
	mock.Add(time.Second)
	l.Add(3, "c")
	l.Get(1)
	mock.Add(time.Second)

	var got []pair[int, TimedValue[string]]
	for k, tv := range l.NotifyIter() {
		got = append(got, pair[int, TimedValue[string]]{k, tv})
	}
	assert.Equal(t, []pair[int, TimedValue[string]]{
		{1, TimedValue[string]{Value: "a"}},
		{3, TimedValue[string]{Value: "c"}},
		{2, TimedValue[string]{Value: "b", Expired: true}},
	}, got)
	assert.Equal(t, 0, calls)
	assert.Equal(t, []int{1, 3}, l.Keys())

	// Live entries were not touched by the walk.
	mock.Add(time.Second)
	assert.Equal(t, []int{}, l.Keys())
}
