// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package curve implements the time weighted score arithmetic. All operations are checked,
// except the reward proration which saturates.
package curve

import (
	gomath "math"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/holiman/uint256"

	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
)

// percent denominator of multipliers and penalties
const percent = 100

func Add(a, b uint64) (uint64, error) {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

func Sub(a, b uint64) (uint64, error) {
	v, overflow := math.SafeSub(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

func Mul(a, b uint64) (uint64, error) {
	v, overflow := math.SafeMul(a, b)
	if overflow {
		return 0, reverts.ErrArithmeticOverflow
	}
	return v, nil
}

// SaturatingAdd returns a+b, clamped at max uint64.
func SaturatingAdd(a, b uint64) uint64 {
	v, overflow := math.SafeAdd(a, b)
	if overflow {
		return gomath.MaxUint64
	}
	return v
}

// SaturatingSub returns a-b, clamped at zero.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Base computes amount × seconds, the plain curve of amount staked for the given time.
func Base(amount uint64, seconds int64) (uint64, error) {
	if seconds < 0 {
		return 0, reverts.ErrArithmeticOverflow
	}
	return Mul(amount, uint64(seconds))
}

// Boost computes base × multiplier / 100.
func Boost(base, multiplier uint64) (uint64, error) {
	v := new(uint256.Int).Mul(uint256.NewInt(base), uint256.NewInt(multiplier))
	v.Div(v, uint256.NewInt(percent))
	if !v.IsUint64() {
		return 0, reverts.ErrArithmeticOverflow
	}
	return v.Uint64(), nil
}

// Prorate computes contribution × reward / total with truncation. A zero total yields zero,
// and the result saturates at max uint64.
func Prorate(contribution, reward, total uint64) uint64 {
	if total == 0 {
		return 0
	}
	v := new(uint256.Int).Mul(uint256.NewInt(contribution), uint256.NewInt(reward))
	v.Div(v, uint256.NewInt(total))
	if !v.IsUint64() {
		return gomath.MaxUint64
	}
	return v.Uint64()
}

// Penalty computes the early withdraw penalty of amount.
func Penalty(amount uint64) uint64 {
	v := new(uint256.Int).Mul(uint256.NewInt(amount), uint256.NewInt(richie.EarlyWithdrawPenaltyPercent))
	return v.Div(v, uint256.NewInt(percent)).Uint64()
}

// Multiplier looks up the multiplier of lockPeriod in table.
func Multiplier(table []uint64, lockPeriod uint8) (uint64, error) {
	slot, ok := richie.LockSlot(lockPeriod)
	if !ok || slot >= len(table) {
		return 0, reverts.ErrInvalidLockPeriod
	}
	return table[slot], nil
}
