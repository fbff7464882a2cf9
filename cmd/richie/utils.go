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
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/richie-labs/richie/api/admin"
	"github.com/richie-labs/richie/eventdb"
	"github.com/richie-labs/richie/genesis"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/lvldb"
	"github.com/richie-labs/richie/metrics"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	return log.Init(os.Stderr, ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name), useColor)
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func loadGenesis(ctx *cli.Context) (*genesis.Genesis, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, errors.Errorf("genesis file required, use --%s to specify one", genesisFlag.Name)
	}
	gene, err := genesis.Load(path)
	if err != nil {
		return nil, errors.WithMessage(err, "load genesis")
	}
	return gene, nil
}

// loadAdminKey reads the admin key file. An empty path yields a nil key.
func loadAdminKey(ctx *cli.Context) (*ecdsa.PrivateKey, error) {
	path := ctx.String(adminKeyFileFlag.Name)
	if path == "" {
		return nil, nil
	}
	key, err := crypto.LoadECDSA(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load admin key [%v]", path)
	}
	return key, nil
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use --%s to specify one", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              ctx.Int(cacheFlag.Name),
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", path)
	}
	return db, nil
}

func openEventDB(dir string) (*eventdb.EventDB, error) {
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, nil
}

// serve runs srv on addr in the background. The returned func stops it.
func serve(addr string, srv *http.Server) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String(), func() {
		srv.Close()
		if err := g.Wait(); err != nil {
			logger.Warn("server stopped", "addr", addr, "error", err)
		}
	}, nil
}

func startAPIServer(addr string, handler http.Handler) (string, func(), error) {
	url, stop, err := serve(addr, &http.Server{Handler: handler, ReadHeaderTimeout: time.Second})
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	return url + "/", stop, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())

	url, stop, err := serve(addr, &http.Server{Handler: router, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second})
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen metrics addr [%v]", addr)
	}
	return url + "/metrics", stop, nil
}

func startAdminServer(addr string, logLevel *slog.LevelVar) (string, func(), error) {
	url, stop, err := serve(addr, &http.Server{Handler: admin.New(logLevel), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second})
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}
	return url + "/admin", stop, nil
}

// checkClockOffset warns when the local clock drifts from NTP by more than maxOffset.
// Epoch boundaries are decided by the local clock.
func checkClockOffset(maxOffset time.Duration) {
	resp, err := ntp.Query("pool.ntp.org")
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}

// parseEpochIndex parses an epoch index. "current" yields ok == false.
func parseEpochIndex(s string) (index uint64, ok bool, err error) {
	if s == "" || s == "current" {
		return 0, false, nil
	}
	index, err = strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, errors.Wrapf(err, "invalid epoch [%v]", s)
	}
	return index, true, nil
}

func printStartupMessage(
	gene *genesis.Genesis,
	keeperAddr string,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	fmt.Printf(`Starting %v
    Admin        [ %v ]
    Stake mint   [ %v ]
    Reward mint  [ %v ]
    Epoch        [ %vs from %v ]
    Keeper       [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin API    [ %v ]
`,
		"Richie "+fullVersion(),
		gene.Admin,
		gene.StakeMint.Address,
		gene.RewardMint.Address,
		gene.Params.EpochDuration, time.Unix(gene.LaunchTime, 0),
		orDisabled(keeperAddr),
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL),
	)
}

func orDisabled(s string) string {
	if s == "" {
		return "Disabled"
	}
	return s
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "io.richie")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "io.richie")
		default:
			return filepath.Join(home, ".io.richie")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
