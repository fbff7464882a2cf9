// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// authorization
var (
	ErrUnAuthorized = New(6000, "unauthorized")
)

// epoch phase
var (
	ErrInvalidEpochIndex = New(6010, "invalid epoch index")
	ErrInvalidStakeTime  = New(6011, "invalid stake time")
	ErrUnFinishedEpoch   = New(6012, "epoch not finished")
	ErrAlreadyCalculated = New(6013, "reward already calculated")
	ErrEpochTooSoon      = New(6014, "epoch too soon")
)

// parameter
var (
	ErrInvalidLockPeriod    = New(6020, "invalid lock period")
	ErrTooManyMultipliers   = New(6021, "too many multipliers")
	ErrInvalidRewardAmount  = New(6022, "invalid reward amount")
	ErrInvalidAmount        = New(6023, "invalid amount")
	ErrInvalidEpochDuration = New(6024, "invalid epoch duration")
)

// liveness
var (
	ErrNoReward          = New(6030, "no reward")
	ErrNothingToWithdraw = New(6031, "nothing to withdraw")
	ErrInsufficientStake = New(6032, "insufficient stake")
)

// integrity
var (
	ErrInvalidUserStake    = New(6040, "invalid user stake")
	ErrNotInitialized      = New(6041, "not initialized")
	ErrAlreadyInitialized  = New(6042, "already initialized")
	ErrTooManyStakers      = New(6043, "too many stakers")
	ErrTooManyStakeEntries = New(6044, "too many stake entries")
	ErrArithmeticOverflow  = New(6045, "arithmetic overflow")
)
