// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package epoch

import (
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/program/storage"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

// Service reads and writes epoch records, one per index.
type Service struct {
	state *state.State
}

func New(st *state.State) *Service {
	return &Service{state: st}
}

func (s *Service) record(index uint64) *storage.Record[Epoch] {
	return storage.NewRecord[Epoch](s.state, richie.EpochAddress(index))
}

// Get returns the epoch at index, or nil if it has not been opened.
func (s *Service) Get(index uint64) (*Epoch, error) {
	e, err := s.record(index).Get()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get epoch %d", index)
	}
	return e, nil
}

// Exists returns whether the epoch at index has been opened.
func (s *Service) Exists(index uint64) (bool, error) {
	return s.record(index).Exists()
}

// Set stores the epoch at its index.
func (s *Service) Set(e *Epoch) error {
	return s.record(e.Index).Set(e)
}
