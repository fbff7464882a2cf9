// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"github.com/richie-labs/richie/program/config"
	"github.com/richie-labs/richie/program/epoch"
	"github.com/richie-labs/richie/richie"
)

type Config struct {
	Admin           richie.Address  `json:"admin"`
	AprBps          uint64          `json:"aprBps"`
	EpochDuration   int64           `json:"epochDuration"`
	LastEpochTime   int64           `json:"lastEpochTime"`
	StakeTokenMint  richie.Address  `json:"stakeTokenMint"`
	StakeVault      richie.Address  `json:"stakeVault"`
	RewardTokenMint *richie.Address `json:"rewardTokenMint"`
	RewardVault     *richie.Address `json:"rewardVault"`
	TotalStaked     uint64          `json:"totalStaked"`
	TotalCurve      uint64          `json:"totalCurve"`
	Index           uint64          `json:"index"`
	Multiplier      []uint64        `json:"multiplier"`
}

func convertConfig(c *config.Config) *Config {
	cfg := &Config{
		Admin:          c.Admin,
		AprBps:         c.AprBps,
		EpochDuration:  c.EpochDuration,
		LastEpochTime:  c.LastEpochTime,
		StakeTokenMint: c.StakeTokenMint,
		StakeVault:     c.StakeVault,
		TotalStaked:    c.TotalStaked,
		TotalCurve:     c.TotalCurve,
		Index:          c.Index,
		Multiplier:     c.Multiplier,
	}
	if c.RewardVaultInitialized() {
		mint, vault := c.RewardTokenMint, c.RewardVault
		cfg.RewardTokenMint = &mint
		cfg.RewardVault = &vault
	}
	return cfg
}

type Epoch struct {
	Index             uint64 `json:"index"`
	StakedStartTime   int64  `json:"stakedStartTime"`
	StakeDuration     int64  `json:"stakeDuration"`
	StakedEndTime     int64  `json:"stakedEndTime"`
	Reward            uint64 `json:"reward"`
	TotalCurve        uint64 `json:"totalCurve"`
	TotalStakedAmount uint64 `json:"totalStakedAmount"`
	Claimable         bool   `json:"claimable"`
	Distributed       uint64 `json:"distributed"`
	Ended             bool   `json:"ended"`
}

func convertEpoch(e *epoch.Epoch, now int64) *Epoch {
	return &Epoch{
		Index:             e.Index,
		StakedStartTime:   e.StakedStartTime,
		StakeDuration:     e.StakeDuration,
		StakedEndTime:     e.StakedEndTime,
		Reward:            e.Reward,
		TotalCurve:        e.TotalCurve,
		TotalStakedAmount: e.TotalStakedAmount,
		Claimable:         e.Claimable,
		Distributed:       e.Distributed,
		Ended:             e.Ended(now),
	}
}

// StakerList lists the owners of the staker list, in insertion order.
type StakerList struct {
	Count  int              `json:"count"`
	Owners []richie.Address `json:"owners"`
}

type Vaults struct {
	StakeVault  uint64 `json:"stakeVault"`
	RewardVault uint64 `json:"rewardVault"`
	Timestamp   int64  `json:"timestamp"`
}
