// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/runefarm/chef/farm"
)

// Raw is an rlp encoded value stored at a fixed position, for scalars and
// small structs that don't fit the Uint256 or Address wrappers.
type Raw[V any] struct {
	context *Context
	pos     farm.Bytes32
}

func NewRaw[V any](context *Context, pos farm.Bytes32) *Raw[V] {
	return &Raw[V]{context: context, pos: pos}
}

func (r *Raw[V]) Get() (value V, err error) {
	err = r.context.state.DecodeStorage(r.context.address, r.pos, func(raw []byte) error {
		value = zeroOf[V]()
		if len(raw) == 0 {
			r.context.UseGas(farm.SloadGas)
			return nil
		}
		r.context.UseGas(slots(len(raw)) * farm.SloadGas)
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func (r *Raw[V]) Set(value V) error {
	return r.context.state.EncodeStorage(r.context.address, r.pos, func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		r.context.UseGas(slots(len(val)) * farm.SstoreResetGas)
		return val, nil
	})
}
