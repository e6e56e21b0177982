// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/runefarm/chef/farm"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for builtin contracts, similar to the mapping in Solidity.
// Entries live at blake2b(key, pos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos farm.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos farm.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) farm.Bytes32 {
	return farm.Blake2b(key.Bytes(), m.basePos.Bytes())
}

// Get returns the value stored under key. Absent entries decode as the zero
// value, with pointer types allocated.
func (m *Mapping[K, V]) Get(key K) (value V, err error) {
	err = m.context.state.DecodeStorage(m.context.address, m.position(key), func(raw []byte) error {
		value = zeroOf[V]()
		if len(raw) == 0 {
			m.context.UseGas(farm.SloadGas)
			return nil
		}
		m.context.UseGas(slots(len(raw)) * farm.SloadGas)
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

// Set stores value under key. newValue selects the charge for a fresh slot.
func (m *Mapping[K, V]) Set(key K, value V, newValue bool) error {
	return m.context.state.EncodeStorage(m.context.address, m.position(key), func() ([]byte, error) {
		val, err := rlp.EncodeToBytes(value)
		if err != nil {
			return nil, err
		}
		if newValue {
			m.context.UseGas(slots(len(val)) * farm.SstoreSetGas)
		} else {
			m.context.UseGas(slots(len(val)) * farm.SstoreResetGas)
		}
		return val, nil
	})
}

// Delete clears the entry of key.
func (m *Mapping[K, V]) Delete(key K) {
	m.context.UseGas(farm.SstoreResetGas)
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}

func zeroOf[V any]() (value V) {
	if t := reflect.TypeOf(value); t != nil && t.Kind() == reflect.Ptr {
		value = reflect.New(t.Elem()).Interface().(V)
	}
	return
}
