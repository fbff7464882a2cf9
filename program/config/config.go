// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"io"
	"slices"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/richie-labs/richie/richie"
)

// Config holds the global parameters of the program.
type Config struct {
	Admin           richie.Address
	AprBps          uint64 // retained for compatibility, not consumed by settlement
	EpochDuration   int64  // seconds
	LastEpochTime   int64  // timestamp of the last turnover
	StakeTokenMint  richie.Address
	StakeVault      richie.Address
	RewardTokenMint richie.Address
	RewardVault     richie.Address
	TotalStaked     uint64 // principal currently in the stake vault
	TotalCurve      uint64 // carryforward curve for the next epoch
	Index           uint64 // current epoch index
	Multiplier      []uint64
}

type configRLP struct {
	Admin           richie.Address
	AprBps          uint64
	EpochDuration   uint64
	LastEpochTime   uint64
	StakeTokenMint  richie.Address
	StakeVault      richie.Address
	RewardTokenMint richie.Address
	RewardVault     richie.Address
	TotalStaked     uint64
	TotalCurve      uint64
	Index           uint64
	Multiplier      []uint64
}

// EncodeRLP implements rlp.Encoder. Signed fields are stored as their two's complement.
func (c *Config) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &configRLP{
		Admin:           c.Admin,
		AprBps:          c.AprBps,
		EpochDuration:   uint64(c.EpochDuration),
		LastEpochTime:   uint64(c.LastEpochTime),
		StakeTokenMint:  c.StakeTokenMint,
		StakeVault:      c.StakeVault,
		RewardTokenMint: c.RewardTokenMint,
		RewardVault:     c.RewardVault,
		TotalStaked:     c.TotalStaked,
		TotalCurve:      c.TotalCurve,
		Index:           c.Index,
		Multiplier:      c.Multiplier,
	})
}

// DecodeRLP implements rlp.Decoder.
func (c *Config) DecodeRLP(s *rlp.Stream) error {
	var obj configRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	*c = Config{
		Admin:           obj.Admin,
		AprBps:          obj.AprBps,
		EpochDuration:   int64(obj.EpochDuration),
		LastEpochTime:   int64(obj.LastEpochTime),
		StakeTokenMint:  obj.StakeTokenMint,
		StakeVault:      obj.StakeVault,
		RewardTokenMint: obj.RewardTokenMint,
		RewardVault:     obj.RewardVault,
		TotalStaked:     obj.TotalStaked,
		TotalCurve:      obj.TotalCurve,
		Index:           obj.Index,
		Multiplier:      obj.Multiplier,
	}
	return nil
}

// IsAdmin returns whether addr is the admin.
func (c *Config) IsAdmin(addr richie.Address) bool {
	return c.Admin == addr
}

// RewardVaultInitialized returns whether the reward mint and vault are set.
func (c *Config) RewardVaultInitialized() bool {
	return !c.RewardTokenMint.IsZero() && !c.RewardVault.IsZero()
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cpy := *c
	cpy.Multiplier = slices.Clone(c.Multiplier)
	return &cpy
}
