// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/builtin/chef"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/rune"
	"github.com/runefarm/chef/farm"
)

func TestStateVariables(t *testing.T) {
	w := newWorld(t, 1, 100)
	c := w.chef()

	for _, tt := range []struct {
		name string
		get  func() (farm.Address, error)
		want farm.Address
	}{
		{"rune", c.Rune, runeAddr},
		{"dev", c.DevAddress, dev},
		{"vault", c.VaultAddress, vault},
		{"charity", c.CharityAddress, charity},
		{"void", c.VoidAddress, voidAddr},
		{"withdrawFeeToken", c.WithdrawFeeToken, elAddr},
		{"owner", c.Owner, dev},
	} {
		got, err := tt.get()
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, got, tt.name)
	}

	rate, err := c.RewardPerBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rate.Uint64())
	start, err := c.StartBlock()
	require.NoError(t, err)
	assert.Equal(t, uint64(100), start)
}

func TestDefaults(t *testing.T) {
	c := newWorld(t, 1, 100).chef()

	for _, get := range []func() (uint64, error){
		c.DevMintPercent, c.VaultMintPercent, c.CharityMintPercent,
		c.DevDepositPercent, c.VaultDepositPercent, c.CharityDepositPercent,
		c.PoolLength, c.TotalAllocationWeight,
	} {
		v, err := get()
		require.NoError(t, err)
		assert.Zero(t, v)
	}
}

func TestEmergencyWithdraw(t *testing.T) {
	w := newWorld(t, 1, 100)
	c := w.chef()

	// 0% deposit fee
	pid, err := c.AddPool(dev, 1, 100, lpAddr, 0, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), pid)

	require.NoError(t, c.Deposit(alice, 1, 0, amount(100)))
	assert.Equal(t, uint64(900), w.balance(lpAddr, alice))

	require.NoError(t, c.EmergencyWithdraw(alice, 0))
	assert.Equal(t, uint64(1000), w.balance(lpAddr, alice))
	assert.Equal(t, uint64(0), w.balance(runeAddr, alice))

	// 1% deposit fee
	pid, err = c.AddPool(dev, 1, 100, lp2Addr, 100, true)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), pid)

	require.NoError(t, c.Deposit(alice, 1, 1, amount(100)))
	assert.Equal(t, uint64(900), w.balance(lp2Addr, alice))

	require.NoError(t, c.EmergencyWithdraw(alice, 1))
	assert.Equal(t, uint64(999), w.balance(lp2Addr, alice))
	assert.Equal(t, uint64(0), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(1), w.balance(lp2Addr, chefAddr), "fee retained")

	s := w.stake(1, alice)
	assert.True(t, s.Amount.IsZero())
	assert.True(t, s.RewardDebt.IsZero())
}

func TestEmergencyWithdrawForfeitsReward(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))
	assert.Equal(t, uint64(10_000), w.pending(0, alice, 110))

	require.NoError(t, c.EmergencyWithdraw(alice, 0))
	assert.Equal(t, uint64(0), w.pending(0, alice, 110))
	assert.Equal(t, uint64(0), w.balance(runeAddr, alice))

	supply, err := w.rune(runeAddr).TotalSupply()
	require.NoError(t, err)
	assert.True(t, supply.IsZero(), "no mint on the emergency path")

	pool, err := c.Pool(0)
	require.NoError(t, err)
	assert.True(t, pool.TotalStaked.IsZero())
}

func TestAccrualSharesByStake(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 10, 100, lpAddr, 0, false)
	require.NoError(t, err)

	pool, _ := c.Pool(0)
	assert.Equal(t, uint64(100), pool.LastRewardBlock, "emission starts at the start block")

	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))
	require.NoError(t, c.Deposit(bob, 50, 0, amount(300)))
	assert.Equal(t, uint64(0), w.pending(0, alice, 100))

	assert.Equal(t, uint64(1000), w.pending(0, alice, 104))
	assert.Equal(t, uint64(3000), w.pending(0, bob, 104))

	// a zero deposit harvests
	require.NoError(t, c.Deposit(alice, 104, 0, amount(0)))
	assert.Equal(t, uint64(1000), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(3000), w.balance(runeAddr, chefAddr))
	assert.Equal(t, uint64(0), w.pending(0, alice, 104))
	assert.Equal(t, uint64(3000), w.pending(0, bob, 104))

	require.NoError(t, c.Withdraw(bob, 106, 0, amount(300)))
	assert.Equal(t, uint64(4500), w.balance(runeAddr, bob))
	assert.Equal(t, uint64(1000), w.balance(lpAddr, bob))
	assert.Equal(t, uint64(500), w.pending(0, alice, 106))
	assert.Equal(t, uint64(500), w.balance(runeAddr, chefAddr))

	pool, _ = c.Pool(0)
	assert.Equal(t, uint64(106), pool.LastRewardBlock)
	assert.Equal(t, uint64(100), pool.TotalStaked.Uint64())
	assert.Equal(t, "15000000000000", pool.AccRewardPerShare.Dec())
}

func TestAccrualSharesByWeight(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	_, err = c.AddPool(dev, 1, 300, lp2Addr, 0, false)
	require.NoError(t, err)

	total, _ := c.TotalAllocationWeight()
	assert.Equal(t, uint64(400), total)

	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))
	require.NoError(t, c.Deposit(bob, 50, 1, amount(100)))

	assert.Equal(t, uint64(2500), w.pending(0, alice, 110))
	assert.Equal(t, uint64(7500), w.pending(1, bob, 110))
}

func TestEmptyPoolIsNotCreditedLater(t *testing.T) {
	w := newWorld(t, 10, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)

	require.NoError(t, c.UpdatePool(0, 120))
	require.NoError(t, c.Deposit(alice, 150, 0, amount(100)))

	pool, _ := c.Pool(0)
	assert.Equal(t, uint64(150), pool.LastRewardBlock)
	assert.True(t, pool.AccRewardPerShare.IsZero())
	assert.Equal(t, uint64(100), w.pending(0, alice, 160))

	supply, _ := w.rune(runeAddr).TotalSupply()
	assert.True(t, supply.IsZero())

	// settling twice at the same height changes nothing
	require.NoError(t, c.UpdatePool(0, 160))
	require.NoError(t, c.UpdatePool(0, 160))
	require.NoError(t, c.UpdatePool(0, 155))
	supply, _ = w.rune(runeAddr).TotalSupply()
	assert.Equal(t, uint64(100), supply.Uint64())
}

func TestMintSplit(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	require.NoError(t, c.SetMintPercents(dev, chef.Percents{Dev: 1000, Vault: 500}))
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))

	assert.Equal(t, uint64(850), w.pending(0, alice, 101))
	require.NoError(t, c.Deposit(alice, 101, 0, amount(0)))

	assert.Equal(t, uint64(850), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(100), w.balance(runeAddr, dev))
	assert.Equal(t, uint64(50), w.balance(runeAddr, vault))
	assert.Equal(t, uint64(0), w.balance(runeAddr, charity))
	assert.Equal(t, uint64(0), w.balance(runeAddr, chefAddr))

	supply, _ := w.rune(runeAddr).TotalSupply()
	assert.Equal(t, uint64(1000), supply.Uint64())
}

func TestDepositSplit(t *testing.T) {
	w := newWorld(t, 0, 100)
	c := w.chef()
	require.NoError(t, c.SetDepositPercents(dev, chef.Percents{Dev: 5000, Vault: 2500}))
	_, err := c.AddPool(dev, 1, 100, lp2Addr, 1000, false)
	require.NoError(t, err)

	devBefore := w.balance(lp2Addr, dev)
	require.NoError(t, c.Deposit(alice, 10, 0, amount(1000)))

	assert.Equal(t, uint64(0), w.balance(lp2Addr, alice))
	assert.Equal(t, devBefore+50, w.balance(lp2Addr, dev))
	assert.Equal(t, uint64(25), w.balance(lp2Addr, vault))
	assert.Equal(t, uint64(0), w.balance(lp2Addr, charity))
	assert.Equal(t, uint64(925), w.balance(lp2Addr, chefAddr), "stake plus the unsplit remainder")

	pool, _ := c.Pool(0)
	assert.Equal(t, uint64(900), pool.TotalStaked.Uint64())
	assert.Equal(t, uint64(900), w.stake(0, alice).Amount.Uint64())

	require.NoError(t, c.Withdraw(alice, 11, 0, amount(900)))
	assert.Equal(t, uint64(900), w.balance(lp2Addr, alice))
	assert.Equal(t, uint64(25), w.balance(lp2Addr, chefAddr))
}

func TestWithdrawInsufficientStake(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))

	err = w.exec(func() error { return c.Withdraw(alice, 110, 0, amount(101)) })
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))
	assert.Equal(t, uint64(100), w.stake(0, alice).Amount.Uint64())

	err = w.exec(func() error { return c.Withdraw(bob, 110, 0, amount(1)) })
	assert.True(t, reverts.Is(err, reverts.InsufficientStake))

	// a withdraw of nothing only harvests
	require.NoError(t, c.Withdraw(alice, 110, 0, amount(0)))
	assert.Equal(t, uint64(10_000), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(100), w.stake(0, alice).Amount.Uint64())
}

func TestFailedDepositLeavesNoTrace(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))

	err = w.exec(func() error { return c.Deposit(carol, 110, 0, amount(1001)) })
	assert.True(t, reverts.Is(err, reverts.TransferFailure))

	pool, _ := c.Pool(0)
	assert.Equal(t, uint64(100), pool.LastRewardBlock)
	supply, _ := w.rune(runeAddr).TotalSupply()
	assert.True(t, supply.IsZero())
	assert.Equal(t, uint64(1000), w.balance(lpAddr, carol))
}

func TestPoolAdministration(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()

	_, err := c.AddPool(alice, 1, 100, lpAddr, 0, false)
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	_, err = c.AddPool(dev, 1, 100, lpAddr, 10001, false)
	assert.True(t, reverts.Is(err, reverts.InvalidFeeKind))
	_, err = c.AddPool(dev, 1, 100, farm.BytesToAddress([]byte("nothing")), 0, false)
	assert.True(t, reverts.Is(err, reverts.InvalidPool))
	_, err = c.AddPool(dev, 1, 100, runeAddr, 0, false)
	assert.True(t, reverts.Is(err, reverts.InvalidPool), "the reward token cannot be staked")
	n, _ := c.PoolLength()
	assert.Equal(t, uint64(0), n)

	_, err = c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	_, err = c.AddPool(dev, 1, 50, lpAddr, 0, false)
	assert.True(t, reverts.Is(err, reverts.InvalidPool), "one pool per staking token")

	assert.True(t, reverts.Is(c.SetPool(dev, 1, 1, 10, 0, false), reverts.InvalidPool))
	assert.True(t, reverts.Is(c.SetPool(alice, 1, 0, 10, 0, false), reverts.Unauthorized))
	assert.True(t, reverts.Is(c.SetPool(dev, 1, 0, 10, 10001, false), reverts.InvalidFeeKind))
	assert.True(t, reverts.Is(c.Deposit(alice, 1, 7, amount(1)), reverts.InvalidPool))
	assert.True(t, reverts.Is(c.Withdraw(alice, 1, 7, amount(1)), reverts.InvalidPool))
	assert.True(t, reverts.Is(c.EmergencyWithdraw(alice, 7), reverts.InvalidPool))
	assert.True(t, reverts.Is(c.UpdatePool(7, 1), reverts.InvalidPool))
	_, err = c.PendingReward(7, alice, 1)
	assert.True(t, reverts.Is(err, reverts.InvalidPool))
	_, err = c.UserStake(7, alice)
	assert.True(t, reverts.Is(err, reverts.InvalidPool))

	require.NoError(t, c.SetPool(dev, 1, 0, 40, 200, false))
	pool, err := c.Pool(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), pool.AllocWeight)
	assert.Equal(t, uint64(200), pool.DepositFeeBps)
	assert.Equal(t, lpAddr, pool.StakingToken)
	total, _ := c.TotalAllocationWeight()
	assert.Equal(t, uint64(40), total)
	n, _ = c.PoolLength()
	assert.Equal(t, uint64(1), n)
}

func TestSetPoolWithUpdate(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	_, err = c.AddPool(dev, 1, 100, lp2Addr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))

	require.NoError(t, c.SetPool(dev, 110, 0, 300, 0, true))
	assert.Equal(t, uint64(5000), w.pending(0, alice, 110))
	assert.Equal(t, uint64(12_500), w.pending(0, alice, 120))
}

func TestUpdateEmissionRate(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))

	assert.True(t, reverts.Is(c.UpdateEmissionRate(alice, 110, amount(0)), reverts.Unauthorized))
	require.NoError(t, c.UpdateEmissionRate(dev, 110, amount(0)))

	assert.Equal(t, uint64(10_000), w.pending(0, alice, 200))
	rate, _ := c.RewardPerBlock()
	assert.True(t, rate.IsZero())
}

func TestMintingDisabledEndsEmission(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))
	require.NoError(t, c.Deposit(alice, 105, 0, amount(0)))
	assert.Equal(t, uint64(5000), w.balance(runeAddr, alice))

	require.NoError(t, w.rune(runeAddr).DisableMintingForever(dev))

	assert.Equal(t, uint64(0), w.pending(0, alice, 110))
	require.NoError(t, c.Deposit(alice, 110, 0, amount(0)))
	require.NoError(t, c.Withdraw(alice, 120, 0, amount(100)))
	assert.Equal(t, uint64(5000), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(1000), w.balance(lpAddr, alice))

	pool, _ := c.Pool(0)
	assert.Equal(t, uint64(120), pool.LastRewardBlock)
}

func TestDevRole(t *testing.T) {
	c := newWorld(t, 1, 100).chef()

	assert.True(t, reverts.Is(c.SetMintPercents(alice, chef.Percents{}), reverts.Unauthorized))
	assert.True(t, reverts.Is(c.SetDepositPercents(alice, chef.Percents{}), reverts.Unauthorized))
	assert.True(t, reverts.Is(c.SetDevAddress(alice, alice), reverts.Unauthorized))

	for _, p := range []chef.Percents{
		{Dev: 10001},
		{Vault: 5000, Charity: 5001},
	} {
		assert.True(t, reverts.Is(c.SetMintPercents(dev, p), reverts.InvalidFeeKind))
		assert.True(t, reverts.Is(c.SetDepositPercents(dev, p), reverts.InvalidFeeKind))
	}

	require.NoError(t, c.SetMintPercents(dev, chef.Percents{Dev: 1, Vault: 2, Charity: 3}))
	require.NoError(t, c.SetDepositPercents(dev, chef.Percents{Dev: 4, Vault: 5, Charity: 6}))
	mint, _ := c.MintPercents()
	deposit, _ := c.DepositPercents()
	assert.Equal(t, chef.Percents{Dev: 1, Vault: 2, Charity: 3}, mint)
	assert.Equal(t, chef.Percents{Dev: 4, Vault: 5, Charity: 6}, deposit)
	v, _ := c.CharityDepositPercent()
	assert.Equal(t, uint64(6), v)

	require.NoError(t, c.SetDevAddress(dev, bob))
	got, _ := c.DevAddress()
	assert.Equal(t, bob, got)
	assert.True(t, reverts.Is(c.SetMintPercents(dev, chef.Percents{}), reverts.Unauthorized))
}

func TestRewardTransferPaysFeesToVoid(t *testing.T) {
	w := newWorld(t, 1000, 100)
	c := w.chef()
	require.NoError(t, w.rune(runeAddr).SetFeeInfo(dev, rune.FeeInfo{
		Vault: vault, Bot: voidAddr, VaultBps: 100, BotBps: 2000,
	}))
	_, err := c.AddPool(dev, 1, 100, lpAddr, 0, false)
	require.NoError(t, err)
	require.NoError(t, c.Deposit(alice, 50, 0, amount(100)))
	require.NoError(t, c.Deposit(alice, 110, 0, amount(0)))

	// 10000 harvested, 1% to the vault and 20% to the void
	assert.Equal(t, uint64(7900), w.balance(runeAddr, alice))
	assert.Equal(t, uint64(100), w.balance(runeAddr, vault))
	assert.Equal(t, uint64(2000), w.balance(runeAddr, voidAddr))

	got, err := w.void().Received(runeAddr)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), got.Uint64())
}

func TestDevCannotBeZero(t *testing.T) {
	w := newWorld(t, 0, 100)
	c := w.chef()
	require.NoError(t, c.SetDepositPercents(dev, chef.Percents{Dev: 5000}))
	_, err := c.AddPool(dev, 1, 100, lp2Addr, 1000, false)
	require.NoError(t, err)

	err = w.exec(func() error { return c.SetDevAddress(dev, farm.Address{}) })
	assert.True(t, reverts.Is(err, reverts.Unauthorized))
	got, _ := c.DevAddress()
	assert.Equal(t, dev, got)

	// the dev share of deposit fees still has somewhere to go
	devBefore := w.balance(lp2Addr, dev)
	require.NoError(t, c.Deposit(alice, 10, 0, amount(100)))
	assert.Equal(t, devBefore+5, w.balance(lp2Addr, dev))
	assert.Equal(t, uint64(90), w.stake(0, alice).Amount.Uint64())
}

func TestSoleStakerReceivesWholePoolEmission(t *testing.T) {
	const (
		rate     = 1000
		weight   = 100
		total    = 400
		devSplit = 1000
	)
	w := newWorld(t, rate, 100)
	c := w.chef()
	require.NoError(t, c.SetMintPercents(dev, chef.Percents{Dev: devSplit}))
	_, err := c.AddPool(dev, 1, weight, lpAddr, 0, false)
	require.NoError(t, err)
	_, err = c.AddPool(dev, 1, total-weight, lp2Addr, 0, false)
	require.NoError(t, err)
	require.NoError(t, w.token(lpAddr).Approve(alice, chefAddr, amount(10_000)))

	steps := []struct {
		block    uint64
		deposit  bool
		amount   uint64
		wantHeld uint64
	}{
		{100, true, 100, 100},
		{110, true, 150, 250},
		{125, false, 50, 200},
		{131, true, 300, 500},
		{140, true, 500, 1000},
		{152, false, 600, 400},
		{160, false, 400, 0},
	}
	runeBefore := w.balance(runeAddr, dev)
	for i, s := range steps {
		if s.deposit {
			require.NoError(t, c.Deposit(alice, s.block, 0, amount(s.amount)), "step %d", i)
		} else {
			require.NoError(t, c.Withdraw(alice, s.block, 0, amount(s.amount)), "step %d", i)
		}
		assert.Equal(t, s.wantHeld, w.stake(0, alice).Amount.Uint64(), "step %d", i)

		// every block since the first deposit had alice as the only staker
		blocks := s.block - steps[0].block
		want := blocks * rate * weight / total * (10000 - devSplit) / 10000
		assert.Equal(t, want, w.balance(runeAddr, alice), "step %d", i)
	}

	blocks := steps[len(steps)-1].block - steps[0].block
	emitted := blocks * rate * weight / total
	assert.Equal(t, emitted, w.balance(runeAddr, alice)+w.balance(runeAddr, dev)-runeBefore)
	assert.Equal(t, uint64(0), w.balance(runeAddr, chefAddr))
	assert.Equal(t, uint64(1000), w.balance(lpAddr, alice))
}
