// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/builtin/chef"
	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/rune"
	"github.com/runefarm/chef/builtin/token"
	"github.com/runefarm/chef/builtin/void"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

var (
	alice   = farm.BytesToAddress([]byte("alice"))
	bob     = farm.BytesToAddress([]byte("bob"))
	carol   = farm.BytesToAddress([]byte("carol"))
	dev     = farm.BytesToAddress([]byte("dev"))
	vault   = farm.BytesToAddress([]byte("vault"))
	charity = farm.BytesToAddress([]byte("charity"))

	runeAddr = farm.BytesToAddress([]byte("tir-rune"))
	elAddr   = farm.BytesToAddress([]byte("el-rune"))
	voidAddr = farm.BytesToAddress([]byte("tir-void"))
	chefAddr = farm.BytesToAddress([]byte("tir-chef"))
	lpAddr   = farm.BytesToAddress([]byte("lp"))
	lp2Addr  = farm.BytesToAddress([]byte("lp2"))
)

// world wires the contracts of the farm over one state, resolving
// addresses the way the runtime does.
type world struct {
	t       *testing.T
	st      *state.State
	charger *gascharger.Charger
	tokens  map[farm.Address]bool
}

func (w *world) Token(addr farm.Address) (chef.Token, error) {
	if addr == runeAddr || addr == elAddr {
		return w.rune(addr), nil
	}
	if w.tokens[addr] {
		return w.token(addr), nil
	}
	return nil, reverts.Newf(reverts.InvalidPool, "no token at %v", addr)
}

func (w *world) RewardToken(addr farm.Address) (chef.RewardToken, error) {
	if addr != runeAddr && addr != elAddr {
		return nil, reverts.Newf(reverts.InvalidPool, "no reward token at %v", addr)
	}
	return w.rune(addr), nil
}

func (w *world) Receiver(addr farm.Address) (rune.Receiver, error) {
	if addr == voidAddr {
		return w.void(), nil
	}
	return nil, nil
}

func (w *world) rune(addr farm.Address) *rune.Rune {
	return rune.New(addr, w.st, w.charger, w)
}

func (w *world) token(addr farm.Address) *token.Token {
	return token.New(addr, w.st, w.charger)
}

func (w *world) void() *void.Void {
	return void.New(voidAddr, w.st, w.charger)
}

func (w *world) chef() *chef.Chef {
	return chef.New(chefAddr, w.st, w.charger, w)
}

func amount(n uint64) *uint256.Int { return uint256.NewInt(n) }

// newWorld deploys the farm as its deployment scripts do: dev deploys the
// runes, the void and the chef, then hands the rune over to the chef.
// Two LP tokens are deployed, alice, bob and carol holding 1000 of each.
func newWorld(t *testing.T, rewardPerBlock, startBlock uint64) *world {
	w := &world{t: t, st: state.New(nil), charger: gascharger.New(), tokens: map[farm.Address]bool{}}

	tir := w.rune(runeAddr)
	require.NoError(t, tir.Initialize(dev, token.Metadata{Name: "Tir", Symbol: "TIR", Decimals: 18}))
	require.NoError(t, tir.SetDevAddress(dev, dev))
	require.NoError(t, w.rune(elAddr).Initialize(dev, token.Metadata{Name: "El", Symbol: "EL", Decimals: 18}))

	w.void().Initialize(runeAddr, dev)

	require.NoError(t, w.chef().Initialize(dev, chef.Params{
		Rune:             runeAddr,
		Dev:              dev,
		Vault:            vault,
		Charity:          charity,
		Void:             voidAddr,
		WithdrawFeeToken: elAddr,
		RewardPerBlock:   amount(rewardPerBlock),
		StartBlock:       startBlock,
	}))
	require.NoError(t, tir.TransferOwnership(dev, chefAddr))
	require.NoError(t, tir.AcceptOwnership(chefAddr))

	for _, addr := range []farm.Address{lpAddr, lp2Addr} {
		w.tokens[addr] = true
		lp := w.token(addr)
		require.NoError(t, lp.Initialize(token.Metadata{Name: "LPToken", Symbol: "LP", Decimals: 18}))
		require.NoError(t, lp.Mint(dev, amount(10_000_000_000)))
		for _, holder := range []farm.Address{alice, bob, carol} {
			require.NoError(t, lp.Transfer(dev, holder, amount(1000)))
			require.NoError(t, lp.Approve(holder, chefAddr, amount(1000)))
		}
	}
	return w
}

// exec runs fn the way the runtime does: its effects are discarded when it fails.
func (w *world) exec(fn func() error) error {
	cp := w.st.NewCheckpoint()
	if err := fn(); err != nil {
		w.st.RevertTo(cp)
		return err
	}
	return nil
}

func (w *world) balance(tokenAddr, owner farm.Address) uint64 {
	var (
		bal *uint256.Int
		err error
	)
	if tokenAddr == runeAddr {
		bal, err = w.rune(runeAddr).BalanceOf(owner)
	} else {
		bal, err = w.token(tokenAddr).BalanceOf(owner)
	}
	require.NoError(w.t, err)
	return bal.Uint64()
}

func (w *world) pending(pid uint64, user farm.Address, blockNum uint64) uint64 {
	p, err := w.chef().PendingReward(pid, user, blockNum)
	require.NoError(w.t, err)
	return p.Uint64()
}

func (w *world) stake(pid uint64, user farm.Address) *chef.UserStake {
	s, err := w.chef().UserStake(pid, user)
	require.NoError(w.t, err)
	return s
}
