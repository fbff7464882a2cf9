// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package genesis describes the initial state of a staking deployment: the token mints,
// the funded accounts and the program parameters.
package genesis

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

// Genesis is the initial state.
type Genesis struct {
	LaunchTime int64          `yaml:"launchTime"`
	Admin      richie.Address `yaml:"admin"`
	StakeMint  Mint           `yaml:"stakeMint"`
	RewardMint Mint           `yaml:"rewardMint"`
	Params     Params         `yaml:"params"`
	Accounts   []Account      `yaml:"accounts"`
}

// Mint is a token mint created at genesis.
type Mint struct {
	Address   richie.Address `yaml:"address"`
	Authority richie.Address `yaml:"authority"`
	Decimals  uint8          `yaml:"decimals"`
}

// Params are the program parameters set on initialization.
type Params struct {
	AprBps        uint64   `yaml:"aprBps"`
	EpochDuration int64    `yaml:"epochDuration"`        // seconds
	Multiplier    []uint64 `yaml:"multiplier,omitempty"` // percent per lock period, default table if empty
}

// Account is funded at genesis with stake and reward tokens.
type Account struct {
	Owner  richie.Address `yaml:"owner"`
	Stake  uint64         `yaml:"stake,omitempty"`
	Reward uint64         `yaml:"reward,omitempty"`
}

// Load reads the genesis from a yaml file.
func Load(path string) (*Genesis, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis file")
	}
	return Parse(data)
}

// Parse decodes and validates a yaml genesis.
func Parse(data []byte) (*Genesis, error) {
	var gen Genesis
	if err := yaml.Unmarshal(data, &gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}
	return &gen, nil
}

// Marshal encodes the genesis as yaml.
func (g *Genesis) Marshal() ([]byte, error) {
	return yaml.Marshal(g)
}

// Validate checks the genesis for obvious mistakes.
func (g *Genesis) Validate() error {
	if g.Admin.IsZero() {
		return errors.New("admin is required")
	}
	if g.StakeMint.Address.IsZero() || g.RewardMint.Address.IsZero() {
		return errors.New("both mints are required")
	}
	if g.StakeMint.Address == g.RewardMint.Address {
		return errors.New("stake and reward mints must differ")
	}
	if g.Params.EpochDuration <= 0 {
		return fmt.Errorf("invalid epoch duration %d", g.Params.EpochDuration)
	}
	if len(g.Params.Multiplier) > richie.MaxMultipliers {
		return fmt.Errorf("too many multipliers: %d", len(g.Params.Multiplier))
	}
	seen := make(map[richie.Address]bool, len(g.Accounts))
	for _, acc := range g.Accounts {
		if acc.Owner.IsZero() {
			return errors.New("account owner is required")
		}
		if seen[acc.Owner] {
			return fmt.Errorf("duplicated account %v", acc.Owner)
		}
		seen[acc.Owner] = true
	}
	return nil
}

// Apply creates the mints, funds the accounts and initializes both vaults.
func (g *Genesis) Apply(p *program.Program) error {
	tokens := p.Tokens()
	for _, m := range []Mint{g.StakeMint, g.RewardMint} {
		if err := tokens.CreateMint(m.Address, m.Authority, m.Decimals); err != nil {
			return errors.Wrapf(err, "create mint %v", m.Address)
		}
	}
	fund := func(owner richie.Address, m Mint, amount uint64) error {
		if amount == 0 {
			return nil
		}
		dest, err := tokens.EnsureAssociated(owner, m.Address)
		if err != nil {
			return err
		}
		return tokens.MintTo(m.Address, dest, m.Authority, amount)
	}
	for _, acc := range g.Accounts {
		if err := fund(acc.Owner, g.StakeMint, acc.Stake); err != nil {
			return errors.Wrapf(err, "fund %v", acc.Owner)
		}
		if err := fund(acc.Owner, g.RewardMint, acc.Reward); err != nil {
			return errors.Wrapf(err, "fund %v", acc.Owner)
		}
	}

	if err := p.InitializeStakeVault(g.Admin, g.StakeMint.Address, g.Params.AprBps, g.Params.EpochDuration, g.LaunchTime); err != nil {
		return errors.Wrap(err, "initialize stake vault")
	}
	if err := p.InitializeRewardVault(g.Admin, g.RewardMint.Address); err != nil {
		return errors.Wrap(err, "initialize reward vault")
	}
	if len(g.Params.Multiplier) > 0 {
		if err := p.UpdateMultiplier(g.Admin, g.Params.Multiplier); err != nil {
			return errors.Wrap(err, "set multiplier")
		}
	}
	return nil
}

// Setup applies the genesis on rt unless the program is initialized already.
// It reports whether the genesis was applied.
func Setup(rt *runtime.Runtime, g *Genesis) (bool, error) {
	err := rt.View(func(p *program.Program) error {
		_, err := p.Config()
		return err
	})
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, reverts.ErrNotInitialized) {
		return false, err
	}
	if err := rt.Apply(g.Apply); err != nil {
		return false, err
	}
	return true, nil
}
