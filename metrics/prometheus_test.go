// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gathered(t *testing.T, name string) float64 {
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != namespace+"_"+name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += m.GetHistogram().GetSampleSum()
			}
		}
		return total
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()
	InitializePrometheusMetrics()

	lazy := LazyLoadCounter("lazy_count")
	lazy().Add(2)
	Counter("lazy_count").Add(3)
	assert.Equal(t, float64(5), gathered(t, "lazy_count"))

	cv := CounterVec("outcomes", []string{"outcome"})
	cv.AddWithLabel(1, map[string]string{"outcome": "ok"})
	cv.AddWithLabel(4, map[string]string{"outcome": "reverted"})
	assert.Equal(t, float64(5), gathered(t, "outcomes"))

	g := Gauge("height")
	g.Set(10)
	g.Add(-3)
	assert.Equal(t, float64(7), gathered(t, "height"))

	gv := GaugeVec("pool_weight", []string{"pid"})
	gv.SetWithLabel(40, map[string]string{"pid": "0"})
	gv.AddWithLabel(2, map[string]string{"pid": "0"})
	assert.Equal(t, float64(42), gathered(t, "pool_weight"))

	h := Histogram("gas", BucketGas)
	h.Observe(1000)
	h.Observe(500)
	assert.Equal(t, float64(1500), gathered(t, "gas"))

	HistogramVec("gas_by_call", []string{"call"}, BucketGas).
		ObserveWithLabels(700, map[string]string{"call": "deposit"})
	assert.Equal(t, float64(700), gathered(t, "gas_by_call"))

	srv := httptest.NewServer(HTTPHandler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
