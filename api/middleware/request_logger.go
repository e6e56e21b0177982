// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package middleware

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/runefarm/chef/log"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLoggerMiddleware logs every request while enabled is set. Requests
// slower than slowQueriesThreshold are always logged, as warnings.
func RequestLoggerMiddleware(logger log.Logger, enabled *atomic.Bool, slowQueriesThreshold time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled.Load() && slowQueriesThreshold == 0 {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			duration := time.Since(start)

			route := ""
			if current := mux.CurrentRoute(r); current != nil {
				route = current.GetName()
			}
			ctx := []any{
				"route", route,
				"uri", r.URL.String(),
				"status", rec.status,
				"durationMs", duration.Milliseconds(),
				"remoteAddr", r.RemoteAddr,
			}
			switch {
			case slowQueriesThreshold > 0 && duration > slowQueriesThreshold:
				logger.Warn("slow API request", ctx...)
			case enabled.Load():
				logger.Info("API request", ctx...)
			}
		})
	}
}
