// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/program/userstake"
	"github.com/richie-labs/richie/richie"
)

type StakeEntry struct {
	Amount               uint64  `json:"amount"`
	LastStakedEpochIndex uint64  `json:"lastStakedEpochIndex"`
	LockPeriod           uint8   `json:"lockPeriod"`
	EndEpoch             uint64  `json:"endEpoch"`
	Multiplier           uint64  `json:"multiplier"`
	BaseCurve            uint64  `json:"baseCurve"`
	BoostedCurve         uint64  `json:"boostedCurve"`
	CalculatedIndex      *uint64 `json:"calculatedIndex"`
}

// Account is the staking position of an owner together with its token balances.
type Account struct {
	Owner         richie.Address `json:"owner"`
	UserStake     richie.Address `json:"userStake"`
	PendingReward uint64         `json:"pendingReward"`
	TotalStaked   uint64         `json:"totalStaked"`
	Entries       []*StakeEntry  `json:"entries"`
	StakeBalance  uint64         `json:"stakeBalance"`
	RewardBalance uint64         `json:"rewardBalance"`
}

func convertEntries(us *userstake.UserStake) []*StakeEntry {
	entries := make([]*StakeEntry, 0, len(us.StakeEntries))
	for _, e := range us.StakeEntries {
		entry := &StakeEntry{
			Amount:               e.Amount,
			LastStakedEpochIndex: e.LastStakedEpochIndex,
			LockPeriod:           e.LockPeriod,
			EndEpoch:             e.EndEpoch(),
			Multiplier:           e.Multiplier,
			BaseCurve:            e.BaseCurve,
			BoostedCurve:         e.BoostedCurve,
		}
		if idx, ok := e.CalculatedIndex(); ok {
			entry.CalculatedIndex = &idx
		}
		entries = append(entries, entry)
	}
	return entries
}

type TokenAccount struct {
	Address richie.Address `json:"address"`
	Mint    richie.Address `json:"mint"`
	Owner   richie.Address `json:"owner"`
	Amount  uint64         `json:"amount"`
}

func convertTokenAccount(addr richie.Address, a *token.Account) *TokenAccount {
	return &TokenAccount{
		Address: addr,
		Mint:    a.Mint,
		Owner:   a.Owner,
		Amount:  a.Amount,
	}
}
