// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"strconv"

	"github.com/runefarm/chef/metrics"
)

var (
	metricPositionCount = metrics.LazyLoadCounterVec("chef_position_ops_count", []string{"op"})
	metricAccrualCount  = metrics.LazyLoadCounter("chef_pool_accruals_count")
	metricPoolWeight    = metrics.LazyLoadGaugeVec("chef_pool_weight", []string{"pid"})
)

func poolLabels(pid uint64) map[string]string {
	return map[string]string{"pid": strconv.FormatUint(pid, 10)}
}
