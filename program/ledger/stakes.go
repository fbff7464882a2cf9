// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"slices"

	"github.com/pkg/errors"

	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/storage"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

// Stakes enumerates the user stake records, in insertion order.
type Stakes struct {
	List []richie.Address
}

// Contains returns whether the user stake record is listed.
func (s *Stakes) Contains(userStake richie.Address) bool {
	return slices.Contains(s.List, userStake)
}

// Add appends the user stake record if not listed yet.
func (s *Stakes) Add(userStake richie.Address) error {
	if s.Contains(userStake) {
		return nil
	}
	if len(s.List) >= richie.MaxStakers {
		return reverts.ErrTooManyStakers
	}
	s.List = append(s.List, userStake)
	return nil
}

// Service reads and writes the stakes list.
type Service struct {
	record *storage.Record[Stakes]
}

func New(st *state.State) *Service {
	return &Service{record: storage.NewRecord[Stakes](st, richie.StakesAddress())}
}

// Get returns the stakes list. An absent list is reported as empty.
func (s *Service) Get() (*Stakes, error) {
	stakes, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get stakes")
	}
	if stakes == nil {
		return &Stakes{}, nil
	}
	return stakes, nil
}

// Set stores the stakes list.
func (s *Service) Set(stakes *Stakes) error {
	return s.record.Set(stakes)
}
