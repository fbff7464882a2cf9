// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/richie-labs/richie/api"
	"github.com/richie-labs/richie/eventdb"
	"github.com/richie-labs/richie/genesis"
	"github.com/richie-labs/richie/keeper"
	"github.com/richie-labs/richie/kv"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/lvldb"
	"github.com/richie-labs/richie/metrics"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "richie")

	defaultFlags = []cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		apiEventsLimitFlag,
		enableAPILogsFlag,
		pprofFlag,
		verbosityFlag,
		jsonLogsFlag,
		enableMetricsFlag,
		metricsAddrFlag,
		enableAdminFlag,
		adminAddrFlag,
		keeperIntervalFlag,
		preLaunchFlag,
		skipClockCheckFlag,
	}
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Richie",
		Usage:     "Epoch based staking and reward engine",
		Copyright: "2025 Richie Labs",
		Flags: append([]cli.Flag{
			dataDirFlag,
			genesisFlag,
			adminKeyFileFlag,
			cacheFlag,
			epochRewardFlag,
		}, defaultFlags...),
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "single node devnet with a funded admin for test & dev",
				Flags: append([]cli.Flag{
					dataDirFlag,
					cacheFlag,
					persistFlag,
					epochDurationFlag,
					soloEpochRewardFlag,
				}, defaultFlags...),
				Action: soloAction,
			},
			{
				Name:  "settle",
				Usage: "settle every staker of an epoch with the admin key",
				Flags: []cli.Flag{
					dataDirFlag,
					adminKeyFileFlag,
					cacheFlag,
					epochFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: settleAction,
			},
			{
				Name:  "genesis",
				Usage: "print a devnet genesis file",
				Flags: []cli.Flag{
					launchTimeFlag,
					epochDurationFlag,
				},
				Action: genesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	gene, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	key, err := loadAdminKey(ctx)
	if err != nil {
		return err
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB, err := openEventDB(dataDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	return runNode(exitSignal, ctx, &nodeConfig{
		store:       mainDB,
		eventDB:     eventDB,
		clock:       runtime.SystemClock{},
		genesis:     gene,
		adminKey:    key,
		epochReward: ctx.Uint64(epochRewardFlag.Name),
		dataDir:     dataDir,
		logLevel:    logLevel,
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	clock := runtime.SystemClock{}
	gene := genesis.NewDevnet(clock.Now(), ctx.Int64(epochDurationFlag.Name))

	var (
		store   kv.Store
		eventDB *eventdb.EventDB
		dataDir string
		err     error
	)
	if ctx.Bool(persistFlag.Name) {
		if dataDir, err = makeDataDir(ctx); err != nil {
			return err
		}
		mainDB, err := openMainDB(ctx, dataDir)
		if err != nil {
			return err
		}
		defer func() { logger.Info("closing main database..."); mainDB.Close() }()
		store = mainDB
		if eventDB, err = openEventDB(dataDir); err != nil {
			return err
		}
	} else {
		dataDir = "Memory"
		store = lvldb.NewMem()
		if eventDB, err = eventdb.NewMem(); err != nil {
			return err
		}
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	return runNode(exitSignal, ctx, &nodeConfig{
		store:       store,
		eventDB:     eventDB,
		clock:       clock,
		genesis:     gene,
		adminKey:    genesis.DevAccounts()[0].PrivateKey,
		epochReward: ctx.Uint64(soloEpochRewardFlag.Name),
		preLaunch:   true,
		dataDir:     dataDir,
		logLevel:    logLevel,
	})
}

type nodeConfig struct {
	store       kv.Store
	eventDB     *eventdb.EventDB
	clock       runtime.Clock
	genesis     *genesis.Genesis
	adminKey    *ecdsa.PrivateKey
	epochReward uint64
	preLaunch   bool
	dataDir     string
	logLevel    *slog.LevelVar
}

func runNode(exitSignal context.Context, ctx *cli.Context, cfg *nodeConfig) error {
	if !ctx.Bool(skipClockCheckFlag.Name) {
		go checkClockOffset(time.Minute)
	}

	rt := runtime.New(cfg.store, cfg.clock)
	defer func() { logger.Info("closing runtime..."); rt.Close() }()

	applied, err := genesis.Setup(rt, cfg.genesis)
	if err != nil {
		return errors.WithMessage(err, "setup genesis")
	}
	if applied {
		logger.Info("genesis applied", "admin", cfg.genesis.Admin, "accounts", len(cfg.genesis.Accounts))
	}

	var k *keeper.Keeper
	if cfg.adminKey != nil {
		if addr := richie.PubkeyToAddress(cfg.adminKey.PublicKey); addr != cfg.genesis.Admin {
			return errors.Errorf("admin key %v does not match genesis admin %v", addr, cfg.genesis.Admin)
		}
		k = keeper.New(rt, cfg.adminKey, keeper.Options{
			EpochReward: cfg.epochReward,
			PreLaunch:   cfg.preLaunch || ctx.Bool(preLaunchFlag.Name),
		})
	}

	var metricsURL, adminURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := startAdminServer(ctx.String(adminAddrFlag.Name), cfg.logLevel)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	handler, closeAPI := api.New(rt, cfg.eventDB, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	defer func() { logger.Info("closing subscriptions..."); closeAPI() }()

	apiURL, stopAPI, err := startAPIServer(ctx.String(apiAddrFlag.Name), handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	var keeperAddr string
	if k != nil {
		keeperAddr = k.Admin().String()
	}
	printStartupMessage(cfg.genesis, keeperAddr, cfg.dataDir, apiURL, metricsURL, adminURL)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		return cfg.eventDB.Sync(gctx, rt)
	})
	if k != nil {
		g.Go(func() error {
			k.Run(gctx, ctx.Duration(keeperIntervalFlag.Name))
			return nil
		})
	}
	return g.Wait()
}

func genesisAction(ctx *cli.Context) error {
	launchTime := ctx.Int64(launchTimeFlag.Name)
	if launchTime == 0 {
		launchTime = time.Now().Unix()
	}
	gene := genesis.NewDevnet(launchTime, ctx.Int64(epochDurationFlag.Name))
	if err := gene.Validate(); err != nil {
		return err
	}
	data, err := gene.Marshal()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}
