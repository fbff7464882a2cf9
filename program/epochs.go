// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/richie-labs/richie/program/curve"
	"github.com/richie-labs/richie/program/epoch"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/richie"
)

// Toggle opens epoch index. Index zero opens the pre-launch window and carries no reward,
// every later index must follow the current one and be funded with rewardAmount.
func (p *Program) Toggle(admin richie.Address, index, rewardAmount uint64, now int64) error {
	logger.Debug("toggling epoch", "index", index, "reward", rewardAmount, "now", now)

	cfg, err := p.adminConfig(admin)
	if err != nil {
		return err
	}

	var duration int64
	if index == 0 {
		if cfg.Index != 0 {
			return reverts.ErrInvalidEpochIndex
		}
		exists, err := p.epochService.Exists(0)
		if err != nil {
			return err
		}
		if exists {
			return reverts.ErrInvalidEpochIndex.Wrap("pre-launch window already opened")
		}
		if rewardAmount != 0 {
			return reverts.ErrInvalidRewardAmount
		}
		duration = richie.PreLaunchDuration
	} else {
		if index != cfg.Index+1 {
			return reverts.ErrInvalidEpochIndex
		}
		exists, err := p.epochService.Exists(cfg.Index)
		if err != nil {
			return err
		}
		if !exists {
			return reverts.ErrInvalidEpochIndex.Wrap("previous epoch never opened")
		}
		if rewardAmount == 0 {
			return reverts.ErrInvalidRewardAmount
		}
		if !cfg.RewardVaultInitialized() {
			return reverts.ErrNotInitialized.Wrap("reward vault")
		}
		duration = cfg.EpochDuration

		source := token.AssociatedAddress(admin, cfg.RewardTokenMint)
		if err := p.tokens.Transfer(source, cfg.RewardVault, admin, rewardAmount); err != nil {
			logger.Info("fund epoch failed", "index", index, "error", err)
			return err
		}
	}

	end, err := addTime(now, duration)
	if err != nil {
		return err
	}
	ep := &epoch.Epoch{
		Index:             index,
		StakedStartTime:   now,
		StakeDuration:     duration,
		StakedEndTime:     end,
		Reward:            rewardAmount,
		TotalCurve:        cfg.TotalCurve,
		TotalStakedAmount: cfg.TotalStaked,
	}
	if err := p.epochService.Set(ep); err != nil {
		return err
	}

	cfg.Index = index
	cfg.TotalCurve = 0
	cfg.LastEpochTime = now
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventEpochOpened, Account: admin, Epoch: index, Amount: rewardAmount})
	logger.Info("opened epoch", "index", index, "start", now, "end", end, "totalCurve", ep.TotalCurve)
	return nil
}

// ManageStakerReward settles the stake entries of user for the ended epoch index,
// credits the prorated reward and carries the entries' curves into the next epoch.
// It returns the credited reward.
func (p *Program) ManageStakerReward(admin, user richie.Address, index uint64, now int64) (uint64, error) {
	logger.Debug("settling staker", "user", user, "index", index)

	cfg, err := p.adminConfig(admin)
	if err != nil {
		return 0, err
	}
	if !cfg.RewardVaultInitialized() {
		return 0, reverts.ErrNotInitialized.Wrap("reward vault")
	}
	if cfg.Index != index {
		return 0, reverts.ErrInvalidEpochIndex
	}
	ep, err := p.epochService.Get(index)
	if err != nil {
		return 0, err
	}
	if ep == nil {
		return 0, reverts.ErrInvalidEpochIndex.Wrap("epoch never opened")
	}

	us, err := p.userStakeService.Get(user)
	if err != nil {
		return 0, err
	}
	stakes, err := p.ledgerService.Get()
	if err != nil {
		return 0, err
	}
	if us == nil || !stakes.Contains(richie.UserStakeAddress(user)) {
		return 0, reverts.ErrInvalidUserStake
	}
	if !ep.Ended(now) {
		return 0, reverts.ErrUnFinishedEpoch
	}

	var (
		rewardSum uint64
		settled   int
		remaining = ep.Undistributed()
	)
	for _, entry := range us.StakeEntries {
		if entry.IsCalculated(index) {
			continue
		}

		contribution := entry.BaseCurve
		if entry.IsLocked(index) {
			contribution = entry.BoostedCurve
		}
		share := curve.Prorate(contribution, ep.Reward, ep.TotalCurve)
		if share > remaining {
			share = remaining
		}
		remaining -= share
		rewardSum += share

		base, err := curve.Base(entry.Amount, cfg.EpochDuration)
		if err != nil {
			return 0, err
		}
		boosted := base
		if entry.IsLocked(index + 1) {
			if boosted, err = curve.Boost(base, entry.Multiplier); err != nil {
				return 0, err
			}
		}
		entry.BaseCurve = base
		entry.BoostedCurve = boosted
		if cfg.TotalCurve, err = curve.Add(cfg.TotalCurve, boosted); err != nil {
			return 0, err
		}
		entry.MarkCalculated(index)
		settled++
	}
	if settled == 0 && len(us.StakeEntries) > 0 {
		return 0, reverts.ErrAlreadyCalculated
	}

	if index != 0 {
		us.PendingReward = curve.SaturatingAdd(us.PendingReward, rewardSum)
		ep.Distributed += rewardSum
		ep.Claimable = true
		if err := p.epochService.Set(ep); err != nil {
			return 0, err
		}
	} else {
		// the pre-launch principal enters epoch one at the plain curve
		if cfg.TotalCurve, err = curve.Mul(cfg.TotalStaked, uint64(cfg.EpochDuration)); err != nil {
			return 0, err
		}
	}

	if err := p.userStakeService.Set(us); err != nil {
		return 0, err
	}
	if err := p.configService.Set(cfg); err != nil {
		return 0, err
	}

	p.emit(&Event{Kind: EventRewardSettled, Account: user, Epoch: index, Amount: rewardSum})
	logger.Info("settled staker", "user", user, "index", index, "entries", settled, "reward", rewardSum)
	return rewardSum, nil
}

func addTime(t, d int64) (int64, error) {
	if d > 0 && t > t+d {
		return 0, reverts.ErrArithmeticOverflow
	}
	return t + d, nil
}
