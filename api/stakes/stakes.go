// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/api/utils"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/runtime"
)

type Stakes struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Stakes {
	return &Stakes{rt}
}

// view runs fn on the latest state, reporting an uninitialized program as not found.
func (s *Stakes) view(fn func(p *program.Program) error) error {
	err := s.rt.View(fn)
	if errors.Is(err, reverts.ErrNotInitialized) {
		return utils.NotFound(err)
	}
	return err
}

func (s *Stakes) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	var cfg *Config
	if err := s.view(func(p *program.Program) error {
		c, err := p.Config()
		if err != nil {
			return err
		}
		cfg = convertConfig(c)
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

func (s *Stakes) handleGetEpoch(w http.ResponseWriter, req *http.Request) error {
	indexStr := mux.Vars(req)["index"]

	var ep *Epoch
	if err := s.view(func(p *program.Program) error {
		var index uint64
		if indexStr == "current" {
			cfg, err := p.Config()
			if err != nil {
				return err
			}
			index = cfg.Index
		} else {
			var err error
			if index, err = utils.ParseUint(indexStr, "index"); err != nil {
				return err
			}
		}
		e, err := p.Epoch(index)
		if err != nil {
			return err
		}
		if e == nil {
			return utils.NotFound(errors.Errorf("epoch %d not opened", index))
		}
		ep = convertEpoch(e, s.rt.Clock().Now())
		return nil
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, ep)
}

func (s *Stakes) handleGetStakers(w http.ResponseWriter, _ *http.Request) error {
	list := &StakerList{}
	if err := s.view(func(p *program.Program) error {
		stakes, err := p.Stakes()
		if err != nil {
			return err
		}
		if stakes == nil {
			return nil
		}
		for _, addr := range stakes.List {
			us, err := p.UserStakeAt(addr)
			if err != nil {
				return err
			}
			if us != nil {
				list.Owners = append(list.Owners, us.Owner)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	list.Count = len(list.Owners)
	return utils.WriteJSON(w, list)
}

func (s *Stakes) handleGetVaults(w http.ResponseWriter, _ *http.Request) error {
	vaults := &Vaults{Timestamp: s.rt.Clock().Now()}
	if err := s.view(func(p *program.Program) (err error) {
		if vaults.StakeVault, err = p.StakeVaultBalance(); err != nil {
			return
		}
		vaults.RewardVault, err = p.RewardVaultBalance()
		return
	}); err != nil {
		return err
	}
	return utils.WriteJSON(w, vaults)
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/config").
		Methods(http.MethodGet).
		Name("GET /program/config").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetConfig))
	sub.Path("/epochs/{index}").
		Methods(http.MethodGet).
		Name("GET /program/epochs/{index}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetEpoch))
	sub.Path("/stakers").
		Methods(http.MethodGet).
		Name("GET /program/stakers").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakers))
	sub.Path("/vaults").
		Methods(http.MethodGet).
		Name("GET /program/vaults").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetVaults))
}
