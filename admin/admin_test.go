// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, path, bytes.NewBufferString(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)
	h := HTTPHandler(&logLevel, &atomic.Bool{})

	rr := serve(t, h, http.MethodGet, "/admin/loglevel", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res logLevelResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "INFO", res.CurrentLevel)

	rr = serve(t, h, http.MethodPost, "/admin/loglevel", `{"level":"debug"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "DEBUG", res.CurrentLevel)
	assert.Equal(t, slog.LevelDebug, logLevel.Level())
}

func TestLogLevelInvalidInput(t *testing.T) {
	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelWarn)
	h := HTTPHandler(&logLevel, &atomic.Bool{})

	tests := []struct {
		name string
		body string
	}{
		{"unknown level", `{"level":"invalid_body"}`},
		{"malformed body", `{"level":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, h, http.MethodPost, "/admin/loglevel", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, slog.LevelWarn, logLevel.Level())
		})
	}

	rr := serve(t, h, http.MethodPut, "/admin/loglevel", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestAPILogs(t *testing.T) {
	var enabled atomic.Bool
	h := HTTPHandler(&slog.LevelVar{}, &enabled)

	rr := serve(t, h, http.MethodPost, "/admin/apilogs", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, enabled.Load())

	rr = serve(t, h, http.MethodGet, "/admin/apilogs", "")
	require.Equal(t, http.StatusOK, rr.Code)
	var res apiLogsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Enabled)

	rr = serve(t, h, http.MethodPost, "/admin/apilogs", `nope`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, enabled.Load())
}
