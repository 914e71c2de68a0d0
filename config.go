// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package lru

import (
	"os"
	"time"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"
)

// ErrNoBounds is returned for a Config that sets neither a capacity nor a TTL.
var ErrNoBounds = errors.New("config must set capacity, ttl or both")

// Config describes the bounds of a cache, typically loaded from YAML:
//
//	capacity: 1024
//	ttl: 5m
type Config struct {
	// Capacity is the maximum number of entries. Unset means unbounded.
	Capacity *int `yaml:"capacity,omitempty" json:"capacity,omitempty"`

	// TTL is a duration string such as "30s" or "1h30m". Unset means entries
	// never expire.
	TTL string `yaml:"ttl,omitempty" json:"ttl,omitempty"`
}

// ParseConfig decodes a YAML document into a Config and validates it.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Errorf("parse cache config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses the YAML file at path.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Errorf("read cache config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// Expiry parses TTL. expires is false when no TTL is configured.
func (cfg Config) Expiry() (ttl time.Duration, expires bool, err error) {
	if cfg.TTL == "" {
		return 0, false, nil
	}
	ttl, err = time.ParseDuration(cfg.TTL)
	if err != nil {
		return 0, false, errors.Errorf("invalid ttl %q: %w", cfg.TTL, err)
	}
	if ttl < 0 {
		return 0, false, errors.Errorf("invalid ttl %q: must not be negative", cfg.TTL)
	}
	return ttl, true, nil
}

// Validate checks that cfg describes a constructible cache.
func (cfg Config) Validate() error {
	_, expires, err := cfg.Expiry()
	if err != nil {
		return err
	}
	if cfg.Capacity == nil && !expires {
		return ErrNoBounds
	}
	if cfg.Capacity != nil && *cfg.Capacity < 0 {
		return errors.Errorf("invalid capacity %d: must not be negative", *cfg.Capacity)
	}
	return nil
}

// NewWithConfig creates a cache bounded as cfg describes.
func NewWithConfig[K comparable, V any](cfg Config, opts ...Option) (*Cache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ttl, expires, _ := cfg.Expiry()

	switch {
	case cfg.Capacity != nil && expires:
		return NewWithExpiryAndCapacity[K, V](ttl, *cfg.Capacity, opts...)
	case expires:
		return NewWithExpiry[K, V](ttl, opts...)
	default:
		return New[K, V](*cfg.Capacity, opts...)
	}
}
