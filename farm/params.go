// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"github.com/ethereum/go-ethereum/params"
	"github.com/holiman/uint256"
)

// Constants of the ledger.
const (
	// MaxBasisPoints is the denominator of every basis-point rate.
	MaxBasisPoints uint64 = 10000

	SloadGas       uint64 = params.SloadGasEIP2200 // 800
	SstoreSetGas   uint64 = params.SstoreSetGas    // 20000
	SstoreResetGas uint64 = params.SstoreResetGas  // 5000
	TransferGas    uint64 = 21000 / 3
)

var (
	// AccRewardPrecision scales the per-share reward accumulator.
	AccRewardPrecision = uint256.NewInt(1e12)

	// BasisPoints is MaxBasisPoints as uint256.
	BasisPoints = uint256.NewInt(MaxBasisPoints)
)
