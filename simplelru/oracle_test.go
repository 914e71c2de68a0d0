// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import (
	"math/rand"
	"slices"
	"testing"

	hlru "github.com/hashicorp/golang-lru/simplelru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Without an expiry duration the cache must behave exactly like a plain
// size-bounded LRU, so hashicorp's implementation serves as the reference.
func TestLRU_MatchesReferenceLRU(t *testing.T) {
	for _, size := range []int{1, 2, 7, 64} {
		r := rand.New(rand.NewSource(int64(size)))

		l, err := NewWithCapacity[int, int](size, nil)
		require.NoError(t, err)
		ref, err := hlru.NewLRU(size, nil)
		require.NoError(t, err)

		for i := 0; i < 5000; i++ {
			key := r.Intn(size * 3)
			switch op := r.Intn(10); {
			case op < 4:
				l.Add(key, i)
				ref.Add(key, i)
			case op < 7:
				v, ok := l.Get(key)
				rv, rok := ref.Get(key)
				require.Equal(t, rok, ok, "get %d", key)
				if ok {
					require.Equal(t, rv, v)
				}
			case op < 8:
				v, ok := l.Peek(key)
				rv, rok := ref.Peek(key)
				require.Equal(t, rok, ok, "peek %d", key)
				if ok {
					require.Equal(t, rv, v)
				}
			case op < 9:
				_, ok := l.Remove(key)
				require.Equal(t, ref.Remove(key), ok, "remove %d", key)
			default:
				require.Equal(t, ref.Contains(key), l.Contains(key), "contains %d", key)
			}
		}

		assert.Equal(t, ref.Len(), l.Len())
		want := make([]int, 0, ref.Len())
		for _, k := range ref.Keys() {
			want = append(want, k.(int))
		}
		slices.Reverse(want)
		assert.Equal(t, want, l.Keys(), "size %d", size)
	}
}
