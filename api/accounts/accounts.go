// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/api/utils"
	"github.com/richie-labs/richie/program"
	"github.com/richie-labs/richie/program/reverts"
	"github.com/richie-labs/richie/program/token"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func (a *Accounts) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	owner, err := richie.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	acc := &Account{
		Owner:     owner,
		UserStake: richie.UserStakeAddress(owner),
		Entries:   []*StakeEntry{},
	}
	err = a.rt.View(func(p *program.Program) error {
		cfg, err := p.Config()
		if err != nil {
			return err
		}
		us, err := p.UserStake(owner)
		if err != nil {
			return err
		}
		if us != nil {
			acc.PendingReward = us.PendingReward
			acc.TotalStaked = us.TotalAmount()
			acc.Entries = convertEntries(us)
		}
		tokens := p.Tokens()
		if acc.StakeBalance, err = tokens.Balance(token.AssociatedAddress(owner, cfg.StakeTokenMint)); err != nil {
			return err
		}
		if cfg.RewardVaultInitialized() {
			if acc.RewardBalance, err = tokens.Balance(token.AssociatedAddress(owner, cfg.RewardTokenMint)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, reverts.ErrNotInitialized) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) handleGetTokenAccount(w http.ResponseWriter, req *http.Request) error {
	addr, err := richie.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "address"))
	}

	var acc *TokenAccount
	err = a.rt.View(func(p *program.Program) error {
		ta, err := p.Tokens().GetAccount(addr)
		if err != nil {
			return err
		}
		acc = convertTokenAccount(addr, ta)
		return nil
	})
	if err != nil {
		if errors.Is(err, token.ErrAccountNotFound) {
			return utils.NotFound(err)
		}
		return err
	}
	return utils.WriteJSON(w, acc)
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/{address}/token").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/token").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetTokenAccount))
}
