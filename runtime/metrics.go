// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/runefarm/chef/metrics"

var (
	metricExecCount   = metrics.LazyLoadCounterVec("runtime_exec_count", []string{"name", "outcome"})
	metricExecGas     = metrics.LazyLoadHistogram("runtime_exec_gas", metrics.BucketGas)
	metricBlockHeight = metrics.LazyLoadGauge("runtime_block_height")
)
