// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/richie"
)

type handler func(p *program.Program, signer richie.Address, ix *instruction.Instruction, now int64) error

var handlers = map[instruction.Op]handler{
	instruction.OpInitializeStakeVault: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, now int64) error {
		var args instruction.InitializeStakeVaultArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		mint, err := ix.Account(0)
		if err != nil {
			return err
		}
		return p.InitializeStakeVault(signer, mint, args.AprBps, int64(args.EpochDuration), now)
	},
	instruction.OpInitializeRewardVault: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, _ int64) error {
		mint, err := ix.Account(0)
		if err != nil {
			return err
		}
		return p.InitializeRewardVault(signer, mint)
	},
	instruction.OpUpdateEpochDuration: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, _ int64) error {
		var args instruction.UpdateEpochDurationArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		return p.UpdateEpochDuration(signer, int64(args.Duration))
	},
	instruction.OpUpdateMultiplier: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, _ int64) error {
		var args instruction.UpdateMultiplierArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		return p.UpdateMultiplier(signer, args.Multiplier)
	},
	instruction.OpUpdateAprBps: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, _ int64) error {
		var args instruction.UpdateAprBpsArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		return p.UpdateAprBps(signer, args.AprBps)
	},
	instruction.OpToggle: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, now int64) error {
		var args instruction.ToggleArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		return p.Toggle(signer, args.Index, args.RewardAmount, now)
	},
	instruction.OpManageStakerReward: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, now int64) error {
		var args instruction.ManageStakerRewardArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		user, err := ix.Account(0)
		if err != nil {
			return err
		}
		_, err = p.ManageStakerReward(signer, user, args.Index, now)
		return err
	},
	instruction.OpStake: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, now int64) error {
		var args instruction.StakeArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		return p.Stake(signer, args.Index, args.Amount, args.LockPeriod, now)
	},
	instruction.OpClaim: func(p *program.Program, signer richie.Address, _ *instruction.Instruction, _ int64) error {
		_, err := p.Claim(signer)
		return err
	},
	instruction.OpWithdraw: func(p *program.Program, signer richie.Address, ix *instruction.Instruction, _ int64) error {
		var args instruction.WithdrawArgs
		if err := ix.DecodeArgs(&args); err != nil {
			return err
		}
		_, err := p.Withdraw(signer, args.Index)
		return err
	},
}
