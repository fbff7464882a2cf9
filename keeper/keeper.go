// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package keeper drives the epoch schedule on behalf of the admin. Once an epoch ends it
// settles every staker and opens the next epoch.
package keeper

import (
	"context"
	"crypto/ecdsa"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/config"
	"github.com/richie-labs/richie/program/epoch"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

var logger = log.WithContext("pkg", "keeper")

// Options configures the keeper.
type Options struct {
	// EpochReward funds every epoch the keeper opens. Zero disables opening funded epochs.
	EpochReward uint64
	// PreLaunch makes the keeper open the pre-launch window when no epoch exists.
	PreLaunch bool
}

// Report summarizes a settlement pass.
type Report struct {
	Index    uint64
	Settled  int    // stakers credited by this pass
	Skipped  int    // stakers settled earlier
	Credited uint64 // total reward credited by this pass
}

// Keeper submits admin instructions to the runtime.
type Keeper struct {
	rt      *runtime.Runtime
	key     *ecdsa.PrivateKey
	admin   richie.Address
	options Options

	lock  sync.Mutex
	nonce uint64
}

// New creates a keeper signing with the admin key.
func New(rt *runtime.Runtime, key *ecdsa.PrivateKey, options Options) *Keeper {
	return &Keeper{
		rt:      rt,
		key:     key,
		admin:   richie.PubkeyToAddress(key.PublicKey),
		options: options,
		nonce:   uint64(time.Now().UnixNano()),
	}
}

// Admin returns the address the keeper signs as.
func (k *Keeper) Admin() richie.Address {
	return k.admin
}

func (k *Keeper) nextNonce() uint64 {
	k.lock.Lock()
	defer k.lock.Unlock()

	k.nonce++
	return k.nonce
}

func (k *Keeper) execute(ix *instruction.Instruction) (*runtime.Receipt, error) {
	signed, err := instruction.Sign(ix, k.key)
	if err != nil {
		return nil, err
	}
	return k.rt.Execute(signed)
}

// Stakers returns the owners of every listed stake record.
func (k *Keeper) Stakers() ([]richie.Address, error) {
	var owners []richie.Address
	err := k.rt.View(func(p *program.Program) error {
		stakes, err := p.Stakes()
		if err != nil {
			return err
		}
		if stakes == nil {
			return nil
		}
		owners = make([]richie.Address, 0, len(stakes.List))
		for _, addr := range stakes.List {
			us, err := p.UserStakeAt(addr)
			if err != nil {
				return err
			}
			if us != nil {
				owners = append(owners, us.Owner)
			}
		}
		return nil
	})
	return owners, err
}

// Settle settles owner for epoch index. It reports skipped when the owner was settled earlier.
func (k *Keeper) Settle(owner richie.Address, index uint64) (credited uint64, skipped bool, err error) {
	receipt, err := k.execute(instruction.NewManageStakerReward(k.nextNonce(), owner, index))
	if err != nil {
		if errors.Is(err, reverts.ErrAlreadyCalculated) {
			metricSettlementCount().AddWithLabel(1, map[string]string{"result": "skipped"})
			return 0, true, nil
		}
		metricSettlementCount().AddWithLabel(1, map[string]string{"result": "failed"})
		return 0, false, err
	}
	for _, ev := range receipt.Events {
		if ev.Kind == program.EventRewardSettled {
			credited += ev.Amount
		}
	}
	metricSettlementCount().AddWithLabel(1, map[string]string{"result": "settled"})
	return credited, false, nil
}

// SettleAll settles every staker for epoch index.
func (k *Keeper) SettleAll(ctx context.Context, index uint64) (*Report, error) {
	owners, err := k.Stakers()
	if err != nil {
		return nil, err
	}
	logger.Debug("settling stakers", "index", index, "stakers", len(owners))

	report := &Report{Index: index}
	for _, owner := range owners {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		credited, skipped, err := k.Settle(owner, index)
		if err != nil {
			logger.Info("settle staker failed", "owner", owner, "index", index, "error", err)
			return report, errors.Wrapf(err, "settle %v", owner)
		}
		if skipped {
			report.Skipped++
			continue
		}
		report.Settled++
		report.Credited += credited
	}
	logger.Info("settled epoch", "index", index, "settled", report.Settled, "skipped", report.Skipped, "credited", report.Credited)
	return report, nil
}

func (k *Keeper) snapshot() (cfg *config.Config, ep *epoch.Epoch, err error) {
	err = k.rt.View(func(p *program.Program) error {
		if cfg, err = p.Config(); err != nil {
			return err
		}
		ep, err = p.Epoch(cfg.Index)
		return err
	})
	return
}

// Toggle opens epoch index funded with reward.
func (k *Keeper) Toggle(index, reward uint64) error {
	if _, err := k.execute(instruction.NewToggle(k.nextNonce(), index, reward)); err != nil {
		logger.Info("open epoch failed", "index", index, "error", err)
		return err
	}
	metricCurrentEpoch().Set(int64(index))
	logger.Info("opened epoch", "index", index, "reward", reward)
	return nil
}

// Step advances the schedule by at most one epoch. It reports whether an epoch was opened.
func (k *Keeper) Step(ctx context.Context) (bool, error) {
	cfg, ep, err := k.snapshot()
	if err != nil {
		return false, err
	}
	if !cfg.IsAdmin(k.admin) {
		return false, reverts.ErrUnAuthorized
	}

	if ep == nil {
		if cfg.Index != 0 || !k.options.PreLaunch {
			return false, nil
		}
		return true, k.Toggle(0, 0)
	}
	if !ep.Ended(k.rt.Clock().Now()) {
		return false, nil
	}
	if !cfg.RewardVaultInitialized() || k.options.EpochReward == 0 {
		logger.Debug("epoch ended, waiting for funding", "index", cfg.Index)
		return false, nil
	}

	if _, err := k.SettleAll(ctx, cfg.Index); err != nil {
		return false, err
	}
	if err := k.Toggle(cfg.Index+1, k.options.EpochReward); err != nil {
		return false, err
	}
	return true, nil
}

// Run steps the schedule every interval until ctx is done.
func (k *Keeper) Run(ctx context.Context, interval time.Duration) {
	logger.Info("keeper started", "admin", k.admin, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping keeper......")
			return
		case <-ticker.C:
			if _, err := k.Step(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("keeper step failed", "error", err)
			}
		}
	}
}
