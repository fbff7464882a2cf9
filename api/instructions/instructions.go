// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package instructions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/api/utils"
	"github.com/richie-labs/richie/instruction"
	"github.com/richie-labs/richie/richie"
	"github.com/richie-labs/richie/runtime"
)

type Instructions struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Instructions {
	return &Instructions{rt}
}

// handleSendInstruction executes a signed instruction. A reverted instruction is still answered
// with its receipt, rejected ones fail the request.
func (i *Instructions) handleSendInstruction(w http.ResponseWriter, req *http.Request) error {
	var raw RawInstruction
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	data, err := hexutil.Decode(raw.Raw)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}
	ix, err := instruction.Decode(data)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}

	receipt, err := i.rt.Execute(ix)
	if receipt != nil {
		return utils.WriteJSON(w, receipt)
	}
	switch {
	case errors.Is(err, runtime.ErrKnownInstruction):
		return utils.HTTPError(err, http.StatusConflict)
	case errors.Is(err, runtime.ErrClosed):
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	default:
		return utils.BadRequest(err)
	}
}

func (i *Instructions) handleGetReceipt(w http.ResponseWriter, req *http.Request) error {
	id, err := richie.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	receipt, err := i.rt.GetReceipt(id)
	if err != nil {
		return err
	}
	if receipt == nil {
		return utils.NotFound(errors.New("receipt not found"))
	}
	return utils.WriteJSON(w, receipt)
}

func (i *Instructions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /instructions").
		HandlerFunc(utils.WrapHandlerFunc(i.handleSendInstruction))
	sub.Path("/{id}/receipt").
		Methods(http.MethodGet).
		Name("GET /instructions/{id}/receipt").
		HandlerFunc(utils.WrapHandlerFunc(i.handleGetReceipt))
}
