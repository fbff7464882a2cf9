// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/richie-labs/richie/api/admin/loglevel"
)

// New returns the admin router, meant to be served on a private address.
func New(logLevel *slog.LevelVar) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
