// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package simplelru

import "time"

// Clock supplies the current time used for TTL bookkeeping.
// Readings are expected to be monotonically non-decreasing.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures optional collaborators of an LRU.
type Option func(*options)

type options struct {
	clock Clock
}

// WithClock makes the cache read time from c instead of the system clock.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}
