// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package program implements the epoch staking engine: deposits with lock boosts,
// epoch turnover, per user reward settlement, withdrawal and claim.
package program

import (
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/program/config"
	"github.com/richie-labs/richie/program/epoch"
	"github.com/richie-labs/richie/program/ledger"
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/program/userstake"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

var logger = log.WithContext("pkg", "program")

func SetLogger(l log.Logger) {
	logger = l
}

// Program executes staking operations against a state.
type Program struct {
	configService    *config.Service
	epochService     *epoch.Service
	ledgerService    *ledger.Service
	userStakeService *userstake.Service
	tokens           *token.Ledger

	events []*Event
}

// New create a new instance.
func New(st *state.State) *Program {
	return &Program{
		configService:    config.New(st),
		epochService:     epoch.New(st),
		ledgerService:    ledger.New(st),
		userStakeService: userstake.New(st),
		tokens:           token.New(st),
	}
}

// Events returns events emitted so far.
func (p *Program) Events() []*Event {
	return p.events
}

func (p *Program) emit(ev *Event) {
	p.events = append(p.events, ev)
}

// WithdrawResult summarizes a withdrawal.
type WithdrawResult struct {
	Amount  uint64 // paid out to the user
	Penalty uint64 // burned
	Entries int    // number of entries removed
}

//
// Getters - no state change
//

// Config returns the global config.
func (p *Program) Config() (*config.Config, error) {
	return p.configService.Get()
}

// Epoch returns the epoch record of index, nil if never opened.
func (p *Program) Epoch(index uint64) (*epoch.Epoch, error) {
	return p.epochService.Get(index)
}

// Stakes returns the staker list.
func (p *Program) Stakes() (*ledger.Stakes, error) {
	return p.ledgerService.Get()
}

// UserStake returns the stake record of owner, nil if the owner never staked.
func (p *Program) UserStake(owner richie.Address) (*userstake.UserStake, error) {
	return p.userStakeService.Get(owner)
}

// UserStakeAt returns the stake record stored at addr, as listed in the staker list.
func (p *Program) UserStakeAt(addr richie.Address) (*userstake.UserStake, error) {
	return p.userStakeService.GetAt(addr)
}

// StakeVaultBalance returns the principal held by the stake vault.
func (p *Program) StakeVaultBalance() (uint64, error) {
	return p.tokens.Balance(richie.StakeVaultAddress())
}

// RewardVaultBalance returns the reward tokens held by the reward vault.
func (p *Program) RewardVaultBalance() (uint64, error) {
	return p.tokens.Balance(richie.RewardVaultAddress())
}

// Tokens returns the token ledger the program moves funds with.
func (p *Program) Tokens() *token.Ledger {
	return p.tokens
}
