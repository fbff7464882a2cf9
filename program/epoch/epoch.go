// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"io"

	"github.com/ethereum/go-ethereum/rlp"
)

// Epoch is the snapshot of a single epoch.
type Epoch struct {
	Index             uint64
	StakedStartTime   int64
	StakeDuration     int64
	StakedEndTime     int64
	Reward            uint64 // budget in reward token
	TotalCurve        uint64 // settlement denominator, frozen at open and adjusted by stakes and withdrawals
	TotalStakedAmount uint64
	Claimable         bool
	Distributed       uint64 // reward credited to stakers so far, never above Reward
}

type epochRLP struct {
	Index             uint64
	StakedStartTime   uint64
	StakeDuration     uint64
	StakedEndTime     uint64
	Reward            uint64
	TotalCurve        uint64
	TotalStakedAmount uint64
	Claimable         bool
	Distributed       uint64
}

// EncodeRLP implements rlp.Encoder.
func (e *Epoch) EncodeRLP(w io.Writer) error {
	return rlp.Encode(w, &epochRLP{
		Index:             e.Index,
		StakedStartTime:   uint64(e.StakedStartTime),
		StakeDuration:     uint64(e.StakeDuration),
		StakedEndTime:     uint64(e.StakedEndTime),
		Reward:            e.Reward,
		TotalCurve:        e.TotalCurve,
		TotalStakedAmount: e.TotalStakedAmount,
		Claimable:         e.Claimable,
		Distributed:       e.Distributed,
	})
}

// DecodeRLP implements rlp.Decoder.
func (e *Epoch) DecodeRLP(s *rlp.Stream) error {
	var obj epochRLP
	if err := s.Decode(&obj); err != nil {
		return err
	}
	*e = Epoch{
		Index:             obj.Index,
		StakedStartTime:   int64(obj.StakedStartTime),
		StakeDuration:     int64(obj.StakeDuration),
		StakedEndTime:     int64(obj.StakedEndTime),
		Reward:            obj.Reward,
		TotalCurve:        obj.TotalCurve,
		TotalStakedAmount: obj.TotalStakedAmount,
		Claimable:         obj.Claimable,
		Distributed:       obj.Distributed,
	}
	return nil
}

// InWindow returns whether now is within the deposit window, both ends included.
func (e *Epoch) InWindow(now int64) bool {
	return e.StakedStartTime <= now && now <= e.StakedStartTime+e.StakeDuration
}

// Ended returns whether the epoch is over and ready to be settled.
func (e *Epoch) Ended(now int64) bool {
	return now > e.StakedStartTime+e.StakeDuration
}

// AvailableTime returns the remaining seconds of the deposit window at now.
func (e *Epoch) AvailableTime(now int64) int64 {
	return e.StakeDuration - (now - e.StakedStartTime)
}

// Undistributed returns the part of the reward not yet credited.
func (e *Epoch) Undistributed() uint64 {
	if e.Distributed >= e.Reward {
		return 0
	}
	return e.Reward - e.Distributed
}
