// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the read-only REST view of a farm.
package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/runefarm/chef/api/chef"
	"github.com/runefarm/chef/api/middleware"
	"github.com/runefarm/chef/api/runes"
	"github.com/runefarm/chef/api/tokens"
	"github.com/runefarm/chef/api/utils"
	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/metrics"
	"github.com/runefarm/chef/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New returns the api router over rt.
func New(rt *runtime.Runtime, opts Options) http.HandlerFunc {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()
	router.Path("/").
		Methods(http.MethodGet).
		Name("GET /").
		HandlerFunc(utils.WrapHandlerFunc(func(w http.ResponseWriter, _ *http.Request) error {
			return utils.WriteJSON(w, utils.M{
				"blockNumber": rt.BlockNumber(),
				"chef":        builtin.Chef,
				"rune":        builtin.Rune,
			})
		}))

	chef.New(rt).
		Mount(router, "/chef")
	runes.New(rt, builtin.Rune).
		Mount(router, "/rune")
	tokens.New(rt).
		Mount(router, "/tokens")

	if opts.EnableMetrics {
		if h := metrics.HTTPHandler(); h != nil {
			router.PathPrefix("/metrics").Handler(h)
		}
		router.Use(metricsMiddleware)
	}

	if opts.EnableReqLogger != nil {
		router.Use(middleware.RequestLoggerMiddleware(logger, opts.EnableReqLogger, opts.SlowQueriesThreshold))
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	return handler.ServeHTTP
}
