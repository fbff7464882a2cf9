// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import "sync/atomic"

// Stats counts cache hits and misses.
type Stats struct {
	hit, miss atomic.Int64
	reported  atomic.Int64
}

func (cs *Stats) Hit()  { cs.hit.Add(1) }
func (cs *Stats) Miss() { cs.miss.Add(1) }

// Counts returns the number of hits and misses so far.
func (cs *Stats) Counts() (hit, miss int64) {
	return cs.hit.Load(), cs.miss.Load()
}

// Rate returns the hit rate in per mille. It is 0 before any lookup.
func (cs *Stats) Rate() int64 {
	hit, miss := cs.Counts()
	if hit+miss == 0 {
		return 0
	}
	return hit * 1000 / (hit + miss)
}

// Changed returns the hit rate and whether it moved since the previous call.
func (cs *Stats) Changed() (rate int64, changed bool) {
	rate = cs.Rate()
	return rate, cs.reported.Swap(rate) != rate
}
