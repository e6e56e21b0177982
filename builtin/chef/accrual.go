// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
)

// emission is the reward a pool earned over a block range, already split.
type emission struct {
	shares   []share      // minted straight to dev, vault and charity
	poolPart *uint256.Int // minted to the chef, backs the accumulator
}

// poolEmission computes what pool earned between its last reward block and
// blockNum. It returns nil when nothing accrues.
func (c *Chef) poolEmission(pool *Pool, blockNum uint64) (*emission, error) {
	if blockNum <= pool.LastRewardBlock || pool.TotalStaked.IsZero() || pool.AllocWeight == 0 {
		return nil, nil
	}
	total, err := c.totalWeight.Get()
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}
	rewardToken, err := c.rewardToken()
	if err != nil {
		return nil, err
	}
	// a rune that can no longer mint ends the emission
	mintable, err := rewardToken.Mintable()
	if err != nil {
		return nil, err
	}
	if !mintable {
		return nil, nil
	}
	rate, err := c.rewardPerBlock.Get()
	if err != nil {
		return nil, err
	}

	blocks := uint256.NewInt(blockNum - pool.LastRewardBlock)
	perBlocks, overflow := new(uint256.Int).MulOverflow(blocks, rate)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "pool reward")
	}
	reward, overflow := new(uint256.Int).MulDivOverflow(perBlocks, uint256.NewInt(pool.AllocWeight), uint256.NewInt(total))
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "pool reward")
	}
	if reward.IsZero() {
		return nil, nil
	}

	percents, err := c.mintPercents.Get()
	if err != nil {
		return nil, err
	}
	cfg, err := c.getConfig()
	if err != nil {
		return nil, err
	}
	dev, err := c.dev.Get()
	if err != nil {
		return nil, err
	}
	shares, rest, err := percents.split(reward, dev, cfg.Vault, cfg.Charity)
	if err != nil {
		return nil, err
	}
	return &emission{shares: shares, poolPart: rest}, nil
}

// accumulate returns acc + part*precision/staked.
func accumulate(acc, part, staked *uint256.Int) (*uint256.Int, error) {
	inc, overflow := new(uint256.Int).MulDivOverflow(part, farm.AccRewardPrecision, staked)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "reward per share")
	}
	next, overflow := new(uint256.Int).AddOverflow(acc, inc)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "reward per share")
	}
	return next, nil
}

func (c *Chef) rewardToken() (RewardToken, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return nil, err
	}
	return c.registry.RewardToken(cfg.Rune)
}

// UpdatePool settles the accumulator of pool pid up to blockNum.
func (c *Chef) UpdatePool(pid uint64, blockNum uint64) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	_, err = c.updatePool(poolID(pid), pool, blockNum)
	return err
}

// updatePool settles pool in place and persists it. It reports whether
// anything was minted.
func (c *Chef) updatePool(pid poolID, pool *Pool, blockNum uint64) (bool, error) {
	if blockNum <= pool.LastRewardBlock {
		return false, nil
	}
	em, err := c.poolEmission(pool, blockNum)
	if err != nil {
		return false, err
	}
	if em != nil {
		rewardToken, err := c.rewardToken()
		if err != nil {
			return false, err
		}
		for _, s := range em.shares {
			if err := rewardToken.Mint(c.addr, s.to, s.amount); err != nil {
				return false, err
			}
		}
		if !em.poolPart.IsZero() {
			if err := rewardToken.Mint(c.addr, c.addr, em.poolPart); err != nil {
				return false, err
			}
			acc, err := accumulate(pool.AccRewardPerShare, em.poolPart, pool.TotalStaked)
			if err != nil {
				return false, err
			}
			pool.AccRewardPerShare = acc
		}
		metricAccrualCount().Add(1)
		logger.Debug("pool accrued", "pid", uint64(pid), "from", pool.LastRewardBlock, "to", blockNum, "poolPart", em.poolPart, "acc", pool.AccRewardPerShare)
	}
	pool.LastRewardBlock = blockNum
	if err := c.pools.Set(pid, pool, false); err != nil {
		return false, err
	}
	return em != nil, nil
}

// MassUpdatePools settles every pool up to blockNum.
func (c *Chef) MassUpdatePools(blockNum uint64) error {
	n, err := c.poolLength.Get()
	if err != nil {
		return err
	}
	for pid := uint64(0); pid < n; pid++ {
		if err := c.UpdatePool(pid, blockNum); err != nil {
			return err
		}
	}
	return nil
}

// PendingReward returns the reward user could harvest from pool pid at
// blockNum, before reward token transfer fees.
func (c *Chef) PendingReward(pid uint64, user farm.Address, blockNum uint64) (*uint256.Int, error) {
	pool, err := c.Pool(pid)
	if err != nil {
		return nil, err
	}
	stake, err := c.userStake(poolID(pid), user)
	if err != nil {
		return nil, err
	}
	acc := pool.AccRewardPerShare
	em, err := c.poolEmission(pool, blockNum)
	if err != nil {
		return nil, err
	}
	if em != nil && !em.poolPart.IsZero() {
		if acc, err = accumulate(acc, em.poolPart, pool.TotalStaked); err != nil {
			return nil, err
		}
	}
	return pending(stake, acc)
}

// accrued returns amount*acc/precision.
func accrued(amount, acc *uint256.Int) (*uint256.Int, error) {
	out, overflow := new(uint256.Int).MulDivOverflow(amount, acc, farm.AccRewardPrecision)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "accrued reward")
	}
	return out, nil
}

func pending(stake *UserStake, acc *uint256.Int) (*uint256.Int, error) {
	total, err := accrued(stake.Amount, acc)
	if err != nil {
		return nil, err
	}
	if total.Lt(stake.RewardDebt) {
		return new(uint256.Int), nil
	}
	return total.Sub(total, stake.RewardDebt), nil
}
