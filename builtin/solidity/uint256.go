// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	context *Context
	pos     farm.Bytes32
}

func NewUint256(context *Context, pos farm.Bytes32) *Uint256 {
	return &Uint256{context: context, pos: pos}
}

func (u *Uint256) Get() (*uint256.Int, error) {
	u.context.UseGas(farm.SloadGas)
	storage, err := u.context.state.GetStorage(u.context.address, u.pos)
	if err != nil {
		return nil, err
	}
	return new(uint256.Int).SetBytes32(storage[:]), nil
}

func (u *Uint256) Set(value *uint256.Int) {
	u.context.UseGas(farm.SstoreResetGas)
	u.context.state.SetStorage(u.context.address, u.pos, value.Bytes32())
}

// Add adds value, reverting on overflow.
func (u *Uint256) Add(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	if _, overflow := current.AddOverflow(current, value); overflow {
		return reverts.New(reverts.ArithmeticOverflow, "uint256 add")
	}
	u.Set(current)
	return nil
}

// Sub subtracts value, reverting on underflow.
func (u *Uint256) Sub(value *uint256.Int) error {
	current, err := u.Get()
	if err != nil {
		return err
	}
	if _, underflow := current.SubOverflow(current, value); underflow {
		return reverts.New(reverts.ArithmeticOverflow, "uint256 sub")
	}
	u.Set(current)
	return nil
}
