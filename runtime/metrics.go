// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/richie-labs/richie/metrics"

var (
	metricInstructionCount  = metrics.LazyLoadCounterVec("instruction_count", []string{"op", "result"})
	metricExecutionDuration = metrics.LazyLoadHistogram("instruction_duration_ms", metrics.BucketExecutionMs)
	metricStateCacheHitRate = metrics.LazyLoadGauge("state_cache_hit_permille")
)
