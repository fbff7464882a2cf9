// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"github.com/richie-labs/richie/program/curve"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/program/userstake"
	"github.com/richie-labs/richie/richie"
)

// Stake deposits amount into epoch index locked for lockPeriod epochs.
// Index zero deposits into the pre-launch window, where only a lock of one epoch is accepted
// and the deposit carries no curve until the window is settled.
func (p *Program) Stake(user richie.Address, index, amount uint64, lockPeriod uint8, now int64) error {
	logger.Debug("staking", "user", user, "index", index, "amount", amount, "lockPeriod", lockPeriod)

	if amount == 0 {
		return reverts.ErrInvalidAmount
	}
	if _, ok := richie.LockSlot(lockPeriod); !ok {
		return reverts.ErrInvalidLockPeriod
	}
	cfg, err := p.configService.Get()
	if err != nil {
		return err
	}
	multiplier, err := curve.Multiplier(cfg.Multiplier, lockPeriod)
	if err != nil {
		return err
	}

	ep, err := p.epochService.Get(index)
	if err != nil {
		return err
	}
	if index == 0 {
		if lockPeriod != 1 {
			return reverts.ErrInvalidLockPeriod
		}
		if cfg.Index != 0 {
			return reverts.ErrInvalidEpochIndex
		}
		if ep == nil {
			return reverts.ErrInvalidStakeTime.Wrap("pre-launch window not opened")
		}
	} else {
		if index != cfg.Index || ep == nil {
			return reverts.ErrInvalidEpochIndex
		}
		if !ep.InWindow(now) {
			return reverts.ErrInvalidStakeTime
		}
	}

	us, err := p.userStakeService.Get(user)
	if err != nil {
		return err
	}
	if us == nil {
		us = &userstake.UserStake{Owner: user}
	}
	stakes, err := p.ledgerService.Get()
	if err != nil {
		return err
	}
	if err := stakes.Add(richie.UserStakeAddress(user)); err != nil {
		return err
	}

	if index == 0 {
		if entry := us.PreLaunchEntry(); entry != nil {
			// merge keeps the lock and multiplier captured by the first deposit
			if entry.Amount, err = curve.Add(entry.Amount, amount); err != nil {
				return err
			}
		} else if err := us.Append(&userstake.StakeEntry{
			Amount:     amount,
			LockPeriod: lockPeriod,
			Multiplier: multiplier,
		}); err != nil {
			return err
		}
	} else {
		base, err := curve.Base(amount, ep.AvailableTime(now))
		if err != nil {
			return err
		}
		boosted, err := curve.Boost(base, multiplier)
		if err != nil {
			return err
		}
		if err := us.Append(&userstake.StakeEntry{
			Amount:               amount,
			LastStakedEpochIndex: index,
			LockPeriod:           lockPeriod,
			Multiplier:           multiplier,
			BaseCurve:            base,
			BoostedCurve:         boosted,
		}); err != nil {
			return err
		}
		if ep.TotalCurve, err = curve.Add(ep.TotalCurve, boosted); err != nil {
			return err
		}
		if ep.TotalStakedAmount, err = curve.Add(ep.TotalStakedAmount, amount); err != nil {
			return err
		}
	}

	if cfg.TotalStaked, err = curve.Add(cfg.TotalStaked, amount); err != nil {
		return err
	}

	source := token.AssociatedAddress(user, cfg.StakeTokenMint)
	if err := p.tokens.Transfer(source, cfg.StakeVault, user, amount); err != nil {
		logger.Info("stake transfer failed", "user", user, "error", err)
		return err
	}

	if index != 0 {
		if err := p.epochService.Set(ep); err != nil {
			return err
		}
	}
	if err := p.userStakeService.Set(us); err != nil {
		return err
	}
	if err := p.ledgerService.Set(stakes); err != nil {
		return err
	}
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventStaked, Account: user, Epoch: index, Amount: amount})
	logger.Info("staked", "user", user, "index", index, "amount", amount)
	return nil
}

// Withdraw removes every entry of user staked in epoch index and pays the principal back.
// Entries still locked at the current epoch pay a penalty which is burned.
func (p *Program) Withdraw(user richie.Address, index uint64) (*WithdrawResult, error) {
	logger.Debug("withdrawing", "user", user, "index", index)

	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	us, err := p.userStakeService.Get(user)
	if err != nil {
		return nil, err
	}
	if us == nil {
		return nil, reverts.ErrNothingToWithdraw
	}
	entries := us.TakeEntries(index)
	if len(entries) == 0 {
		return nil, reverts.ErrNothingToWithdraw
	}
	current, err := p.epochService.Get(cfg.Index)
	if err != nil {
		return nil, err
	}

	res := &WithdrawResult{Entries: len(entries)}
	for _, entry := range entries {
		early := cfg.Index < entry.EndEpoch()

		rollback := entry.BaseCurve
		if early {
			penalty := curve.Penalty(entry.Amount)
			res.Penalty += penalty
			res.Amount += entry.Amount - penalty
			rollback = entry.BoostedCurve
		} else {
			res.Amount += entry.Amount
		}
		if entry.IsCalculated(cfg.Index) {
			// its share of the current epoch is already paid, only the carried curve goes
			cfg.TotalCurve = curve.SaturatingSub(cfg.TotalCurve, entry.BoostedCurve)
		} else if current != nil {
			current.TotalCurve = curve.SaturatingSub(current.TotalCurve, rollback)
		}
		if cfg.TotalStaked, err = curve.Sub(cfg.TotalStaked, entry.Amount); err != nil {
			return nil, err
		}
	}
	if res.Amount == 0 {
		return nil, reverts.ErrNothingToWithdraw
	}

	dest, err := p.tokens.EnsureAssociated(user, cfg.StakeTokenMint)
	if err != nil {
		return nil, err
	}
	authority := richie.ConfigAddress()
	if err := p.tokens.Transfer(cfg.StakeVault, dest, authority, res.Amount); err != nil {
		logger.Info("withdraw transfer failed", "user", user, "error", err)
		return nil, err
	}
	if res.Penalty > 0 {
		if err := p.tokens.Burn(cfg.StakeTokenMint, cfg.StakeVault, authority, res.Penalty); err != nil {
			return nil, err
		}
	}

	if current != nil {
		if err := p.epochService.Set(current); err != nil {
			return nil, err
		}
	}
	if err := p.userStakeService.Set(us); err != nil {
		return nil, err
	}
	if err := p.configService.Set(cfg); err != nil {
		return nil, err
	}

	p.emit(&Event{Kind: EventWithdrawn, Account: user, Epoch: index, Amount: res.Amount, Penalty: res.Penalty})
	logger.Info("withdrew", "user", user, "index", index, "amount", res.Amount, "penalty", res.Penalty)
	return res, nil
}

// Claim pays the pending reward of user out of the reward vault.
func (p *Program) Claim(user richie.Address) (uint64, error) {
	logger.Debug("claiming", "user", user)

	cfg, err := p.configService.Get()
	if err != nil {
		return 0, err
	}
	us, err := p.userStakeService.Get(user)
	if err != nil {
		return 0, err
	}
	if us == nil || us.PendingReward == 0 {
		return 0, reverts.ErrNoReward
	}
	if !cfg.RewardVaultInitialized() {
		return 0, reverts.ErrNotInitialized.Wrap("reward vault")
	}

	amount := us.PendingReward
	us.PendingReward = 0
	if err := p.userStakeService.Set(us); err != nil {
		return 0, err
	}

	dest, err := p.tokens.EnsureAssociated(user, cfg.RewardTokenMint)
	if err != nil {
		return 0, err
	}
	if err := p.tokens.Transfer(cfg.RewardVault, dest, richie.ConfigAddress(), amount); err != nil {
		logger.Info("claim transfer failed", "user", user, "error", err)
		return 0, err
	}

	p.emit(&Event{Kind: EventClaimed, Account: user, Amount: amount})
	logger.Info("claimed", "user", user, "amount", amount)
	return amount, nil
}
