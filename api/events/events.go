// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/richie-labs/richie/api/utils"
	"github.com/richie-labs/richie/eventdb"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) normalize(filter *eventdb.Filter) (*eventdb.Filter, error) {
	if filter.Order != "" && filter.Order != eventdb.ASC && filter.Order != eventdb.DESC {
		return nil, fmt.Errorf("invalid order %q", filter.Order)
	}
	if filter.Options == nil {
		filter.Options = &eventdb.Options{Offset: 0, Limit: e.limit}
	} else if filter.Options.Limit > e.limit {
		return nil, fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit)
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter eventdb.Filter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	normalized, err := e.normalize(&filter)
	if err != nil {
		return utils.BadRequest(err)
	}
	events, err := e.db.Filter(req.Context(), normalized)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
