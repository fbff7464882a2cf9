// Copyright (c) 2025 The Richie developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/richie-labs/richie/api/accounts"
	"github.com/richie-labs/richie/api/events"
	"github.com/richie-labs/richie/api/instructions"
	"github.com/richie-labs/richie/api/stakes"
	"github.com/richie-labs/richie/api/subscriptions"
	"github.com/richie-labs/richie/eventdb"
	"github.com/richie-labs/richie/log"
	"github.com/richie-labs/richie/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	EventsLimit     uint64
	PprofOn         bool
	EnableReqLogger bool
	EnableMetrics   bool
}

// New return api router. A nil eventDB disables the events endpoint.
func New(
	rt *runtime.Runtime,
	eventDB *eventdb.EventDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakes.New(rt).
		Mount(router, "/program")
	accounts.New(rt).
		Mount(router, "/accounts")
	instructions.New(rt).
		Mount(router, "/instructions")
	if eventDB != nil {
		events.New(eventDB, opts.EventsLimit).
			Mount(router, "/events")
	}
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
	)(handler)

	handler = RequestLoggerHandler(handler, logger, opts.EnableReqLogger)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
