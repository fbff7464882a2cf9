// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package richie

// Constants of the staking protocol.
const (
	MaxMultipliers  = 5   // max slots of the lock period multiplier table
	MaxStakers      = 300 // max principals in the staker list
	MaxStakeEntries = 20  // max simultaneous entries of a single principal

	PreLaunchDuration           int64 = 6 * 60 * 60 // duration of the pre-launch staking window, in seconds
	EarlyWithdrawPenaltyPercent       = 5

	// record length budgets of the persisted layout, in bytes
	ConfigLen    = 188
	StakesLen    = 4 + 32*MaxStakers // 9604
	UserStakeLen = 860
	EpochLen     = 57
)

// LockPeriods lists the accepted lock periods in epochs. The position of a lock period
// is the slot of its multiplier.
var LockPeriods = [MaxMultipliers]uint8{1, 2, 4, 8, 16}

// DefaultMultiplier is the multiplier table set on initialization, in percent.
var DefaultMultiplier = []uint64{100, 120, 150, 200, 300}

// LockSlot returns the multiplier slot of the given lock period.
func LockSlot(lockPeriod uint8) (int, bool) {
	for i, p := range LockPeriods {
		if p == lockPeriod {
			return i, true
		}
	}
	return 0, false
}
