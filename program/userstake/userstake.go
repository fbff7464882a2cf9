// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userstake

import (
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
)

// StakeEntry is a single deposit of a user.
type StakeEntry struct {
	Amount               uint64
	LastStakedEpochIndex uint64
	LockPeriod           uint8
	Multiplier           uint64 // percent, captured at stake time
	BaseCurve            uint64
	BoostedCurve         uint64
	Settled              uint64 // one plus the last settled epoch index, zero if never settled
}

// IsLocked returns whether the entry still holds its boost at epoch.
func (e *StakeEntry) IsLocked(epoch uint64) bool {
	return e.LastStakedEpochIndex+uint64(e.LockPeriod) > epoch
}

// EndEpoch returns the first epoch at which the entry may leave without penalty.
func (e *StakeEntry) EndEpoch() uint64 {
	return e.LastStakedEpochIndex + uint64(e.LockPeriod)
}

// CalculatedIndex returns the last settled epoch index.
func (e *StakeEntry) CalculatedIndex() (uint64, bool) {
	if e.Settled == 0 {
		return 0, false
	}
	return e.Settled - 1, true
}

// IsCalculated returns whether the entry has been settled for epoch.
func (e *StakeEntry) IsCalculated(epoch uint64) bool {
	idx, ok := e.CalculatedIndex()
	return ok && idx == epoch
}

// MarkCalculated records epoch as settled.
func (e *StakeEntry) MarkCalculated(epoch uint64) {
	e.Settled = epoch + 1
}

// UserStake holds the entries and the pending reward of a user.
type UserStake struct {
	Owner         richie.Address
	PendingReward uint64
	StakeEntries  []*StakeEntry
}

// PreLaunchEntry returns the entry staked in the pre-launch window, if any.
func (u *UserStake) PreLaunchEntry() *StakeEntry {
	for _, e := range u.StakeEntries {
		if e.LastStakedEpochIndex == 0 {
			return e
		}
	}
	return nil
}

// Append appends an entry, failing if the user already holds the max entries.
func (u *UserStake) Append(e *StakeEntry) error {
	if len(u.StakeEntries) >= richie.MaxStakeEntries {
		return reverts.ErrTooManyStakeEntries
	}
	u.StakeEntries = append(u.StakeEntries, e)
	return nil
}

// TakeEntries removes and returns every entry staked at epoch index.
func (u *UserStake) TakeEntries(index uint64) []*StakeEntry {
	var (
		taken []*StakeEntry
		kept  = u.StakeEntries[:0]
	)
	for _, e := range u.StakeEntries {
		if e.LastStakedEpochIndex == index {
			taken = append(taken, e)
		} else {
			kept = append(kept, e)
		}
	}
	u.StakeEntries = kept
	return taken
}

// TotalAmount returns the principal of all entries.
func (u *UserStake) TotalAmount() uint64 {
	var sum uint64
	for _, e := range u.StakeEntries {
		sum += e.Amount
	}
	return sum
}
