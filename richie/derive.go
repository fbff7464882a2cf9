// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package richie

import (
	"encoding/binary"
	"io"
)

// record seeds
var (
	SeedConfig = []byte("config")
	SeedVault  = []byte("vault")
	SeedReward = []byte("reward")
	SeedUser   = []byte("user")
	SeedEpoch  = []byte("epoch")
	SeedStake  = []byte("stake")
)

var pdaMarker = []byte("ProgramDerivedAddress")

// ProgramID is the identity of the staking program. Every record address is derived from it.
var ProgramID = BytesToAddress([]byte("richie-staking"))

// DeriveAddress derives a deterministic address owned by the program from the given seeds.
// Nobody holds a key for a derived address, only the program can authorize on its behalf.
func DeriveAddress(program Address, seeds ...[]byte) Address {
	h := Blake2bFn(func(w io.Writer) {
		w.Write(program[:])
		for _, s := range seeds {
			w.Write(s)
		}
		w.Write(pdaMarker)
	})
	return BytesToAddress(h[:])
}

// ConfigAddress returns the address of the config record, which is also the vault authority.
func ConfigAddress() Address {
	return DeriveAddress(ProgramID, SeedConfig)
}

// StakeVaultAddress returns the address of the stake token vault.
func StakeVaultAddress() Address {
	return DeriveAddress(ProgramID, SeedVault)
}

// RewardVaultAddress returns the address of the reward token vault.
func RewardVaultAddress() Address {
	return DeriveAddress(ProgramID, SeedReward)
}

// StakesAddress returns the address of the staker list.
func StakesAddress() Address {
	return DeriveAddress(ProgramID, SeedStake)
}

// UserStakeAddress returns the address of the stake record of the given owner.
func UserStakeAddress(owner Address) Address {
	return DeriveAddress(ProgramID, SeedUser, owner[:])
}

// EpochAddress returns the address of the epoch record at the given index.
func EpochAddress(index uint64) Address {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], index)
	return DeriveAddress(ProgramID, SeedEpoch, b[:])
}
