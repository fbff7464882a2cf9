// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/richie-labs/richie/log"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for program state and event databases",
	}
	genesisFlag = cli.StringFlag{
		Name:  "genesis",
		Usage: "path to the genesis file",
	}
	adminKeyFileFlag = cli.StringFlag{
		Name:  "admin-key-file",
		Usage: "path to the admin private key, enables the epoch keeper",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the state database",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8680",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}

	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: log.LegacyLevelInfo,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}

	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:  "enable-admin",
		Usage: "enables admin server",
	}
	adminAddrFlag = cli.StringFlag{
		Name:  "admin-addr",
		Value: "localhost:2113",
		Usage: "admin service listening address",
	}

	epochRewardFlag = cli.Uint64Flag{
		Name:  "epoch-reward",
		Value: 0,
		Usage: "reward funded into every epoch the keeper opens (0 disables funding)",
	}
	keeperIntervalFlag = cli.DurationFlag{
		Name:  "keeper-interval",
		Value: 10 * time.Second,
		Usage: "how often the keeper checks the epoch schedule",
	}
	preLaunchFlag = cli.BoolFlag{
		Name:  "pre-launch",
		Usage: "let the keeper open the unfunded pre-launch epoch",
	}
	skipClockCheckFlag = cli.BoolFlag{
		Name:  "skip-clock-check",
		Usage: "skip the NTP clock offset check at startup",
	}

	// solo mode only flags
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "blockchain data storage option, if set data will be saved to disk",
	}
	epochDurationFlag = cli.Int64Flag{
		Name:  "epoch-duration",
		Value: 600,
		Usage: "epoch duration in seconds of the devnet genesis",
	}
	soloEpochRewardFlag = cli.Uint64Flag{
		Name:  "epoch-reward",
		Value: 1_000_000_000,
		Usage: "reward funded into every epoch the keeper opens",
	}

	// genesis command flags
	launchTimeFlag = cli.Int64Flag{
		Name:  "launch-time",
		Usage: "unix launch time of the devnet genesis (defaults to now)",
	}

	// settle command flags
	epochFlag = cli.StringFlag{
		Name:  "epoch",
		Value: "current",
		Usage: "index of the epoch to settle, or 'current'",
	}
)
