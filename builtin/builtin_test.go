// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/state"
)

func TestDeploy(t *testing.T) {
	st := state.New(nil)

	_, err := builtin.CodeAt(st, builtin.Chef)
	assert.True(t, errors.Is(err, builtin.ErrNotDeployed))

	require.NoError(t, builtin.Deploy(st, builtin.Chef, builtin.ChefCode))
	code, err := builtin.CodeAt(st, builtin.Chef)
	require.NoError(t, err)
	assert.Equal(t, builtin.ChefCode, code)

	assert.Error(t, builtin.Deploy(st, builtin.Chef, builtin.RuneCode))
	assert.Error(t, builtin.Deploy(st, builtin.Rune, builtin.Code("evm")))
}

func TestAddresses(t *testing.T) {
	addrs := map[string]bool{}
	for _, a := range append([]string{
		builtin.Rune.String(), builtin.ElRune.String(), builtin.Void.String(),
		builtin.Chef.String(), builtin.Clock.String(),
	}, builtin.TokenAddress("LP").String(), builtin.TokenAddress("LP2").String()) {
		assert.False(t, addrs[a], a)
		addrs[a] = true
	}
	assert.Equal(t, builtin.TokenAddress("LP"), builtin.TokenAddress("LP"))
}

func TestBlockNumber(t *testing.T) {
	st := state.New(nil)
	bn := builtin.NewBlockNumber(st, nil)

	n, err := bn.Get()
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, bn.Set(42))
	n, err = builtin.NewBlockNumber(st, nil).Get()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)
}
