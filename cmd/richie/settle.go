// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/cheggaaa/pb.v1"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/richie-labs/richie/keeper"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/runtime"
)

func settleAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	initLogger(ctx)

	index, explicit, err := parseEpochIndex(ctx.String(epochFlag.Name))
	if err != nil {
		return err
	}
	key, err := loadAdminKey(ctx)
	if err != nil {
		return err
	}
	if key == nil {
		return errors.Errorf("admin key required, use --%s to specify one", adminKeyFileFlag.Name)
	}
	dataDir, err := makeDataDir(ctx)
	if err != nil {
		return err
	}
	mainDB, err := openMainDB(ctx, dataDir)
	if err != nil {
		return err
	}
	defer mainDB.Close()

	rt := runtime.New(mainDB, runtime.SystemClock{})
	defer rt.Close()

	if !explicit {
		if err := rt.View(func(p *program.Program) error {
			cfg, err := p.Config()
			if err != nil {
				return err
			}
			index = cfg.Index
			return nil
		}); err != nil {
			return err
		}
	}

	report, err := settleStakers(exitSignal, keeper.New(rt, key, keeper.Options{}), index)
	if err != nil {
		return err
	}
	fmt.Printf("epoch %d: settled %d, skipped %d, credited %d\n", report.Index, report.Settled, report.Skipped, report.Credited)
	return nil
}

// settleStakers settles every staker of the epoch, drawing a progress bar.
func settleStakers(ctx context.Context, k *keeper.Keeper, index uint64) (*keeper.Report, error) {
	owners, err := k.Stakers()
	if err != nil {
		return nil, err
	}

	pb := pb.New(len(owners)).
		SetMaxWidth(90).
		Start()
	defer func() { pb.NotPrint = true }()

	report := &keeper.Report{Index: index}
	for _, owner := range owners {
		select {
		case <-ctx.Done():
			return report, ctx.Err()
		default:
		}

		credited, skipped, err := k.Settle(owner, index)
		if err != nil {
			return report, errors.WithMessagef(err, "settle %v", owner)
		}
		if skipped {
			report.Skipped++
		} else {
			report.Settled++
			report.Credited += credited
		}
		pb.Increment()
	}
	pb.Finish()
	return report, nil
}
