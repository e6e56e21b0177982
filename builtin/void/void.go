// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package void implements the fee sink receiving the bot share of reward
// token transfer fees. It only keeps account of what it received.
package void

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/state"
)

var (
	slotRune     = farm.Slot("void-rune")
	slotDev      = farm.Slot("void-dev")
	slotReceived = farm.Slot("void-received")

	logger = log.WithContext("pkg", "void")
)

type Void struct {
	addr     farm.Address
	rune     *solidity.Address
	dev      *solidity.Address
	received *solidity.Mapping[farm.Address, *uint256.Int]
}

func New(addr farm.Address, state *state.State, charger *gascharger.Charger) *Void {
	sctx := solidity.NewContext(addr, state, charger)
	return &Void{
		addr:     addr,
		rune:     solidity.NewAddress(sctx, slotRune),
		dev:      solidity.NewAddress(sctx, slotDev),
		received: solidity.NewMapping[farm.Address, *uint256.Int](sctx, slotReceived),
	}
}

func (v *Void) Initialize(runeAddr, dev farm.Address) {
	v.rune.Set(runeAddr)
	v.dev.Set(dev)
}

func (v *Void) Rune() (farm.Address, error) { return v.rune.Get() }

func (v *Void) DevAddress() (farm.Address, error) { return v.dev.Get() }

// Received returns the cumulative amount of token received.
func (v *Void) Received(token farm.Address) (*uint256.Int, error) {
	return v.received.Get(token)
}

// OnTokenReceived records an incoming fee.
func (v *Void) OnTokenReceived(token, from farm.Address, amount *uint256.Int) error {
	total, err := v.received.Get(token)
	if err != nil {
		return err
	}
	fresh := total.IsZero()
	if _, overflow := total.AddOverflow(total, amount); overflow {
		// saturate, the counter is informational
		total.SetAllOne()
	}
	if err := v.received.Set(token, total, fresh); err != nil {
		return err
	}
	logger.Trace("fee received", "void", v.addr, "token", token, "from", from, "amount", amount)
	return nil
}
