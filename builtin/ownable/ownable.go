// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package ownable implements the owner role of a builtin contract with a
// two-step hand over: the owner nominates, the nominee accepts.
package ownable

import (
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/farm"
)

var (
	slotOwner        = farm.Slot("ownable-owner")
	slotPendingOwner = farm.Slot("ownable-pending-owner")
)

type Ownable struct {
	owner   *solidity.Address
	pending *solidity.Address
}

func New(sctx *solidity.Context) *Ownable {
	return &Ownable{
		owner:   solidity.NewAddress(sctx, slotOwner),
		pending: solidity.NewAddress(sctx, slotPendingOwner),
	}
}

// Initialize sets the first owner. It fails once an owner exists.
func (o *Ownable) Initialize(owner farm.Address) error {
	current, err := o.owner.Get()
	if err != nil {
		return err
	}
	if !current.IsZero() {
		return reverts.New(reverts.Unauthorized, "owner already set")
	}
	o.owner.Set(owner)
	return nil
}

func (o *Ownable) Owner() (farm.Address, error) {
	return o.owner.Get()
}

func (o *Ownable) PendingOwner() (farm.Address, error) {
	return o.pending.Get()
}

// RequireOwner fails with Unauthorized unless caller is the owner.
func (o *Ownable) RequireOwner(caller farm.Address) error {
	owner, err := o.owner.Get()
	if err != nil {
		return err
	}
	if owner.IsZero() || owner != caller {
		return reverts.New(reverts.Unauthorized, "caller is not the owner")
	}
	return nil
}

// TransferOwnership nominates to as the next owner.
func (o *Ownable) TransferOwnership(caller, to farm.Address) error {
	if err := o.RequireOwner(caller); err != nil {
		return err
	}
	o.pending.Set(to)
	return nil
}

// AcceptOwnership completes a hand over started by TransferOwnership.
func (o *Ownable) AcceptOwnership(caller farm.Address) error {
	pending, err := o.pending.Get()
	if err != nil {
		return err
	}
	if pending.IsZero() || pending != caller {
		return reverts.New(reverts.Unauthorized, "caller is not the pending owner")
	}
	o.owner.Set(caller)
	o.pending.Set(farm.Address{})
	return nil
}
