// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lru

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		capacity int
		bounded  bool
		ttl      time.Duration
		expires  bool
		wantErr  string
	}{
		{name: "capacity", yaml: "capacity: 16", capacity: 16, bounded: true},
		{name: "ttl", yaml: "ttl: 1m30s", ttl: 90 * time.Second, expires: true},
		{name: "both", yaml: "capacity: 0\nttl: 0s", bounded: true, expires: true},
		{name: "empty", yaml: "", wantErr: ErrNoBounds.Error()},
		{name: "bad ttl", yaml: "ttl: soon", wantErr: `invalid ttl "soon"`},
		{name: "negative ttl", yaml: "ttl: -1s", wantErr: "must not be negative"},
		{name: "negative capacity", yaml: "capacity: -2", wantErr: "invalid capacity -2"},
		{name: "not yaml", yaml: "capacity: [", wantErr: "parse cache config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig([]byte(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			if tt.bounded {
				require.NotNil(t, cfg.Capacity)
				assert.Equal(t, tt.capacity, *cfg.Capacity)
			} else {
				assert.Nil(t, cfg.Capacity)
			}
			ttl, expires, err := cfg.Expiry()
			require.NoError(t, err)
			assert.Equal(t, tt.expires, expires)
			assert.Equal(t, tt.ttl, ttl)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 2\nttl: 10s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	mock := clock.NewMock()
	c, err := NewWithConfig[string, int](cfg, WithClock(mock))
	require.NoError(t, err)

	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	assert.Equal(t, []string{"c", "b"}, c.Keys())

	mock.Add(10 * time.Second)
	assert.Equal(t, 0, c.Len())

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNewWithConfig(t *testing.T) {
	capacity := 1
	c, err := NewWithConfig[int, int](Config{Capacity: &capacity})
	require.NoError(t, err)
	c.Add(1, 1)
	c.Add(2, 2)
	assert.Equal(t, []int{2}, c.Keys())

	mock := clock.NewMock()
	c, err = NewWithConfig[int, int](Config{TTL: "1s"}, WithClock(mock))
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		c.Add(i, i)
	}
	assert.Equal(t, 100, c.Len())
	mock.Add(time.Second)
	assert.Equal(t, 0, c.Len())

	_, err = NewWithConfig[int, int](Config{})
	assert.True(t, errors.Is(err, ErrNoBounds))
}
