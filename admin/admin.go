// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/runefarm/chef/api/utils"
	"github.com/runefarm/chef/log"
)

var logger = log.WithContext("pkg", "admin")

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type apiLogsRequest struct {
	Enabled bool `json:"enabled"`
}

type apiLogsResponse struct {
	Enabled bool `json:"enabled"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

func getLogLevel(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func postLogLevel(logLevel *slog.LevelVar) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req logLevelRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		level, ok := levels[req.Level]
		if !ok {
			return utils.BadRequest(errors.Errorf("invalid verbosity level %q", req.Level))
		}
		logLevel.Set(level)
		logger.Info("log level changed", "level", req.Level)
		return utils.WriteJSON(w, logLevelResponse{CurrentLevel: logLevel.Level().String()})
	}
}

func getAPILogs(enabled *atomic.Bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) error {
		return utils.WriteJSON(w, apiLogsResponse{Enabled: enabled.Load()})
	}
}

func postAPILogs(enabled *atomic.Bool) utils.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		var req apiLogsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return utils.BadRequest(errors.WithMessage(err, "body"))
		}
		enabled.Store(req.Enabled)
		logger.Info("api request logging changed", "enabled", req.Enabled)
		return utils.WriteJSON(w, apiLogsResponse{Enabled: enabled.Load()})
	}
}

// HTTPHandler serves the runtime controls of a running server: the log
// level and the api request logger switch.
func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool) http.Handler {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	sub.Path("/loglevel").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(getLogLevel(logLevel)))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(postLogLevel(logLevel)))
	sub.Path("/apilogs").
		Methods(http.MethodGet).
		HandlerFunc(utils.WrapHandlerFunc(getAPILogs(apiLogs)))
	sub.Path("/apilogs").
		Methods(http.MethodPost).
		HandlerFunc(utils.WrapHandlerFunc(postAPILogs(apiLogs)))

	return handlers.CompressHandler(router)
}
