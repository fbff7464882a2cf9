// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package config

import (
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/storage"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/state"
)

// Service reads and writes the config singleton.
type Service struct {
	record *storage.Record[Config]
}

func New(st *state.State) *Service {
	return &Service{record: storage.NewRecord[Config](st, richie.ConfigAddress())}
}

// Exists returns whether the config has been initialized.
func (s *Service) Exists() (bool, error) {
	return s.record.Exists()
}

// Get returns the config, failing if not initialized.
func (s *Service) Get() (*Config, error) {
	c, err := s.record.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get config")
	}
	if c == nil {
		return nil, reverts.ErrNotInitialized
	}
	return c, nil
}

// Set stores the config.
func (s *Service) Set(c *Config) error {
	return s.record.Set(c)
}
