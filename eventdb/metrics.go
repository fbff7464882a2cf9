// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import "github.com/richie-labs/richie/metrics"

var metricIndexedEvents = metrics.LazyLoadCounter("eventdb_indexed_events_count")
