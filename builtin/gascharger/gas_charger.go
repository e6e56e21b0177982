// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gascharger meters the storage work done by a builtin contract call.
package gascharger

import (
	"fmt"

	"github.com/runefarm/chef/farm"
)

type Charger struct {
	sloadOps       uint64
	sstoreSetOps   uint64
	sstoreResetOps uint64
	transferOps    uint64
	customGas      uint64
	totalGas       uint64
}

func New() *Charger {
	return &Charger{}
}

// Charge accounts gas, classifying it by the operation it is a multiple of.
func (c *Charger) Charge(gas uint64) {
	if c == nil || gas == 0 {
		return
	}
	c.totalGas += gas

	switch {
	case gas%farm.SstoreSetGas == 0:
		c.sstoreSetOps += gas / farm.SstoreSetGas
	case gas%farm.SstoreResetGas == 0:
		c.sstoreResetOps += gas / farm.SstoreResetGas
	case gas%farm.TransferGas == 0:
		c.transferOps += gas / farm.TransferGas
	case gas%farm.SloadGas == 0:
		c.sloadOps += gas / farm.SloadGas
	default:
		c.customGas += gas
	}
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"SLOAD: %d ops (%d gas) | SSTORE_SET: %d ops (%d gas) | SSTORE_RESET: %d ops (%d gas) | TRANSFER: %d ops (%d gas) | CUSTOM: %d gas | TOTAL: %d gas",
		c.sloadOps,
		c.sloadOps*farm.SloadGas,
		c.sstoreSetOps,
		c.sstoreSetOps*farm.SstoreSetGas,
		c.sstoreResetOps,
		c.sstoreResetOps*farm.SstoreResetGas,
		c.transferOps,
		c.transferOps*farm.TransferGas,
		c.customGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	if c == nil {
		return 0
	}
	return c.totalGas
}
