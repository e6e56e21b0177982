// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package token

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

var (
	alice = farm.BytesToAddress([]byte("alice"))
	bob   = farm.BytesToAddress([]byte("bob"))
	chef  = farm.BytesToAddress([]byte("chef"))
)

func newToken(t *testing.T) *Token {
	tok := New(farm.BytesToAddress([]byte("lp")), state.New(nil), gascharger.New())
	require.NoError(t, tok.Initialize(Metadata{Name: "LPToken", Symbol: "LP", Decimals: 18}))
	require.NoError(t, tok.Mint(alice, uint256.NewInt(1000)))
	return tok
}

func balance(t *testing.T, tok *Token, owner farm.Address) uint64 {
	bal, err := tok.BalanceOf(owner)
	require.NoError(t, err)
	return bal.Uint64()
}

func TestMetadataAndSupply(t *testing.T) {
	tok := newToken(t)

	meta, err := tok.Metadata()
	require.NoError(t, err)
	assert.Equal(t, Metadata{Name: "LPToken", Symbol: "LP", Decimals: 18}, meta)

	supply, err := tok.TotalSupply()
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), supply.Uint64())
	assert.Equal(t, uint64(1000), balance(t, tok, alice))
	assert.Equal(t, uint64(0), balance(t, tok, bob))
}

func TestTransfer(t *testing.T) {
	tok := newToken(t)

	require.NoError(t, tok.Transfer(alice, bob, uint256.NewInt(400)))
	assert.Equal(t, uint64(600), balance(t, tok, alice))
	assert.Equal(t, uint64(400), balance(t, tok, bob))

	err := tok.Transfer(bob, alice, uint256.NewInt(401))
	assert.True(t, reverts.Is(err, reverts.TransferFailure))

	err = tok.Transfer(alice, farm.Address{}, uint256.NewInt(1))
	assert.True(t, reverts.Is(err, reverts.TransferFailure))

	// emptying a balance is allowed and reads back as zero
	require.NoError(t, tok.Transfer(bob, alice, uint256.NewInt(400)))
	assert.Equal(t, uint64(0), balance(t, tok, bob))
	assert.Equal(t, uint64(1000), balance(t, tok, alice))
}

func TestTransferFrom(t *testing.T) {
	tok := newToken(t)

	err := tok.TransferFrom(chef, alice, chef, uint256.NewInt(100))
	assert.True(t, reverts.Is(err, reverts.TransferFailure), "no allowance")

	require.NoError(t, tok.Approve(alice, chef, uint256.NewInt(1000)))
	require.NoError(t, tok.TransferFrom(chef, alice, chef, uint256.NewInt(100)))

	allowance, err := tok.Allowance(alice, chef)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), allowance.Uint64())
	assert.Equal(t, uint64(900), balance(t, tok, alice))
	assert.Equal(t, uint64(100), balance(t, tok, chef))

	require.NoError(t, tok.Approve(alice, chef, new(uint256.Int)))
	allowance, _ = tok.Allowance(alice, chef)
	assert.True(t, allowance.IsZero())
}

func TestMintOverflow(t *testing.T) {
	tok := newToken(t)
	err := tok.Mint(bob, new(uint256.Int).SetAllOne())
	assert.True(t, reverts.Is(err, reverts.ArithmeticOverflow))
}
