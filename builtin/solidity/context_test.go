// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

// newContext returns a fresh Context over an empty state.
func newContext() *Context {
	return NewContext(farm.Address{1}, state.New(nil), gascharger.New())
}

// resetGas swaps in a fresh charger so the next operation is measured alone.
func resetGas(ctx *Context) {
	ctx.charger = gascharger.New()
}
