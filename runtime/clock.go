// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"sync/atomic"
	"time"
)

// Clock is the timestamp source of the runtime, in unix seconds.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// ManualClock only moves when told to.
type ManualClock struct {
	now atomic.Int64
}

func NewManualClock(now int64) *ManualClock {
	c := &ManualClock{}
	c.now.Store(now)
	return c
}

func (c *ManualClock) Now() int64 {
	return c.now.Load()
}

func (c *ManualClock) Set(now int64) {
	c.now.Store(now)
}

// Advance moves the clock forward by d, truncated to seconds, and returns the new time.
func (c *ManualClock) Advance(d time.Duration) int64 {
	return c.now.Add(int64(d / time.Second))
}
