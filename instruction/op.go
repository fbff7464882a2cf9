// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instruction

import (
	"encoding/json"
	"fmt"
)

// Op identifies the operation an instruction invokes.
type Op uint8

const (
	OpInitializeStakeVault Op = iota + 1
	OpInitializeRewardVault
	OpUpdateEpochDuration
	OpUpdateMultiplier
	OpUpdateAprBps
	OpToggle
	OpManageStakerReward
	OpStake
	OpClaim
	OpWithdraw
)

var opNames = [...]string{
	OpInitializeStakeVault:  "initialize_stake_vault",
	OpInitializeRewardVault: "initialize_reward_vault",
	OpUpdateEpochDuration:   "update_epoch_duration",
	OpUpdateMultiplier:      "update_multiplier",
	OpUpdateAprBps:          "update_apr_bps",
	OpToggle:                "toggle",
	OpManageStakerReward:    "manage_staker_reward",
	OpStake:                 "stake",
	OpClaim:                 "claim",
	OpWithdraw:              "withdraw",
}

// IsValid reports whether op is a known operation.
func (op Op) IsValid() bool {
	return op > 0 && int(op) < len(opNames)
}

// IsAdmin reports whether op may only be signed by the admin.
func (op Op) IsAdmin() bool {
	switch op {
	case OpStake, OpClaim, OpWithdraw:
		return false
	}
	return op.IsValid()
}

func (op Op) String() string {
	if !op.IsValid() {
		return fmt.Sprintf("op(%d)", uint8(op))
	}
	return opNames[op]
}

func (op Op) MarshalJSON() ([]byte, error) {
	return json.Marshal(op.String())
}

func (op *Op) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseOp(s)
	if err != nil {
		return err
	}
	*op = parsed
	return nil
}

// ParseOp returns the op named s.
func ParseOp(s string) (Op, error) {
	for i, name := range opNames {
		if i > 0 && name == s {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", s)
}
