// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

// Signed durations travel as the two's complement uint64, RLP has no signed integers.

type InitializeStakeVaultArgs struct {
	AprBps        uint64
	EpochDuration uint64
}

type UpdateEpochDurationArgs struct {
	Duration uint64
}

type UpdateMultiplierArgs struct {
	Multiplier []uint64
}

type UpdateAprBpsArgs struct {
	AprBps uint64
}

type ToggleArgs struct {
	Index        uint64
	RewardAmount uint64
}

type ManageStakerRewardArgs struct {
	Index uint64
}

type StakeArgs struct {
	Index      uint64
	Amount     uint64
	LockPeriod uint8
}

type WithdrawArgs struct {
	Index uint64
}

type noArgs struct{}
