// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package solidity provides storage primitives for builtin contracts, laid
// out the way a solidity contract would lay out its state variables.
package solidity

import (
	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

type Context struct {
	address farm.Address
	state   *state.State
	charger *gascharger.Charger
}

func NewContext(address farm.Address, state *state.State, charger *gascharger.Charger) *Context {
	return &Context{
		address: address,
		state:   state,
		charger: charger,
	}
}

func (c *Context) Address() farm.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}

func (c *Context) Charger() *gascharger.Charger {
	return c.charger
}

func (c *Context) UseGas(gas uint64) {
	c.charger.Charge(gas)
}
