// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package userstake

import (
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/program/storage"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

// Service reads and writes user stake records.
type Service struct {
	state *state.State
}

func New(st *state.State) *Service {
	return &Service{state: st}
}

// Get returns the user stake of owner, or nil if the owner never staked.
func (s *Service) Get(owner richie.Address) (*UserStake, error) {
	return s.GetAt(richie.UserStakeAddress(owner))
}

// GetAt returns the user stake stored at the record address, or nil if absent.
func (s *Service) GetAt(addr richie.Address) (*UserStake, error) {
	us, err := storage.NewRecord[UserStake](s.state, addr).Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user stake")
	}
	return us, nil
}

// Set stores the user stake at the record address of its owner.
func (s *Service) Set(us *UserStake) error {
	return storage.NewRecord[UserStake](s.state, richie.UserStakeAddress(us.Owner)).Set(us)
}
