// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
)

func TestUint256(t *testing.T) {
	ctx := newContext()
	u := NewUint256(ctx, farm.Bytes32{1})

	u.Set(uint256.NewInt(1000))
	assert.Equal(t, farm.SstoreResetGas, ctx.charger.TotalGas())

	resetGas(ctx)
	value, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, uint256.NewInt(1000), value)
	assert.Equal(t, farm.SloadGas, ctx.charger.TotalGas())

	resetGas(ctx)
	require.NoError(t, u.Add(uint256.NewInt(500)))
	assert.Equal(t, farm.SstoreResetGas+farm.SloadGas, ctx.charger.TotalGas())

	require.NoError(t, u.Sub(uint256.NewInt(200)))
	value, _ = u.Get()
	assert.Equal(t, uint256.NewInt(1300), value)
}

func TestUint256Overflow(t *testing.T) {
	ctx := newContext()
	u := NewUint256(ctx, farm.Bytes32{2})

	err := u.Sub(uint256.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))

	allOnes := new(uint256.Int).SetAllOne()
	u.Set(allOnes)
	err = u.Add(uint256.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))

	value, _ := u.Get()
	assert.Equal(t, allOnes, value, "failed add leaves the value untouched")
}

func TestAddressSlot(t *testing.T) {
	ctx := newContext()
	a := NewAddress(ctx, farm.Bytes32{3})

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	dev := farm.BytesToAddress([]byte("dev"))
	a.Set(dev)
	got, err = a.Get()
	require.NoError(t, err)
	assert.Equal(t, dev, got)
}

func TestRaw(t *testing.T) {
	ctx := newContext()
	type percents struct{ Dev, Vault, Charity uint64 }
	r := NewRaw[percents](ctx, farm.Bytes32{4})

	got, err := r.Get()
	require.NoError(t, err)
	assert.Equal(t, percents{}, got)

	require.NoError(t, r.Set(percents{100, 200, 300}))
	got, err = r.Get()
	require.NoError(t, err)
	assert.Equal(t, percents{100, 200, 300}, got)

	n := NewRaw[uint64](ctx, farm.Bytes32{5})
	require.NoError(t, n.Set(42))
	v, err := n.Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), v)
}
