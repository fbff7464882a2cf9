// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package keeper

import "github.com/richie-labs/richie/metrics"

var (
	metricSettlementCount = metrics.LazyLoadCounterVec("keeper_settlement_count", []string{"result"})
	metricCurrentEpoch    = metrics.LazyLoadGauge("keeper_current_epoch")
)
