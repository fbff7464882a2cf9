// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package program

import (
	"slices"

	"github.com/richie-labs/richie/program/config"
	"github.com/richie-labs/richie/program/ledger"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
)

// InitializeStakeVault creates the config, the staker list and the stake vault.
// The signer becomes the admin.
func (p *Program) InitializeStakeVault(admin, stakeMint richie.Address, aprBps uint64, epochDuration int64, now int64) error {
	logger.Debug("initializing stake vault", "admin", admin, "mint", stakeMint, "epochDuration", epochDuration)

	exists, err := p.configService.Exists()
	if err != nil {
		return err
	}
	if exists {
		return reverts.ErrAlreadyInitialized
	}
	if epochDuration <= 0 {
		return reverts.ErrInvalidEpochDuration
	}
	if _, err := p.tokens.GetMint(stakeMint); err != nil {
		return err
	}

	vault := richie.StakeVaultAddress()
	if err := p.tokens.CreateAccount(vault, stakeMint, richie.ConfigAddress()); err != nil {
		logger.Info("create stake vault failed", "error", err)
		return err
	}

	cfg := &config.Config{
		Admin:          admin,
		AprBps:         aprBps,
		EpochDuration:  epochDuration,
		LastEpochTime:  now,
		StakeTokenMint: stakeMint,
		StakeVault:     vault,
		Multiplier:     slices.Clone(richie.DefaultMultiplier),
	}
	if err := p.configService.Set(cfg); err != nil {
		return err
	}
	if err := p.ledgerService.Set(&ledger.Stakes{}); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventInitialized, Account: admin})
	logger.Info("initialized stake vault", "admin", admin, "vault", vault)
	return nil
}

// InitializeRewardVault creates the reward vault for rewardMint.
func (p *Program) InitializeRewardVault(admin, rewardMint richie.Address) error {
	logger.Debug("initializing reward vault", "admin", admin, "mint", rewardMint)

	cfg, err := p.adminConfig(admin)
	if err != nil {
		return err
	}
	if cfg.RewardVaultInitialized() {
		return reverts.ErrAlreadyInitialized
	}
	if _, err := p.tokens.GetMint(rewardMint); err != nil {
		return err
	}

	vault := richie.RewardVaultAddress()
	if err := p.tokens.CreateAccount(vault, rewardMint, richie.ConfigAddress()); err != nil {
		logger.Info("create reward vault failed", "error", err)
		return err
	}

	cfg.RewardTokenMint = rewardMint
	cfg.RewardVault = vault
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventRewardVaultInitialized, Account: admin})
	logger.Info("initialized reward vault", "vault", vault)
	return nil
}

// UpdateEpochDuration sets the duration of epochs opened from now on.
func (p *Program) UpdateEpochDuration(admin richie.Address, duration int64) error {
	cfg, err := p.adminConfig(admin)
	if err != nil {
		return err
	}
	if duration <= 0 {
		return reverts.ErrInvalidEpochDuration
	}
	cfg.EpochDuration = duration
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventConfigUpdated, Account: admin, Epoch: cfg.Index})
	logger.Info("updated epoch duration", "duration", duration)
	return nil
}

// UpdateMultiplier replaces the lock period multiplier table, in percent.
func (p *Program) UpdateMultiplier(admin richie.Address, multiplier []uint64) error {
	cfg, err := p.adminConfig(admin)
	if err != nil {
		return err
	}
	if len(multiplier) > richie.MaxMultipliers {
		return reverts.ErrTooManyMultipliers
	}
	cfg.Multiplier = slices.Clone(multiplier)
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventConfigUpdated, Account: admin, Epoch: cfg.Index})
	logger.Info("updated multiplier", "multiplier", multiplier)
	return nil
}

// UpdateAprBps sets the informational annual rate. Settlement does not consume it.
func (p *Program) UpdateAprBps(admin richie.Address, aprBps uint64) error {
	cfg, err := p.adminConfig(admin)
	if err != nil {
		return err
	}
	cfg.AprBps = aprBps
	if err := p.configService.Set(cfg); err != nil {
		return err
	}

	p.emit(&Event{Kind: EventConfigUpdated, Account: admin, Epoch: cfg.Index})
	logger.Info("updated apr", "aprBps", aprBps)
	return nil
}

// adminConfig loads the config and checks that signer is the admin.
func (p *Program) adminConfig(signer richie.Address) (*config.Config, error) {
	cfg, err := p.configService.Get()
	if err != nil {
		return nil, err
	}
	if !cfg.IsAdmin(signer) {
		return nil, reverts.ErrUnAuthorized
	}
	return cfg, nil
}
