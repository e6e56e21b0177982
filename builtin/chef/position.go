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

// Deposit settles pool pid, pays caller the pending reward and stakes
// amount of the pool token. The pool deposit fee is kept out of the stake
// and split per the deposit percents. A zero amount only harvests.
func (c *Chef) Deposit(caller farm.Address, blockNum uint64, pid uint64, amount *uint256.Int) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	id := poolID(pid)
	stake, err := c.userStake(id, caller)
	if err != nil {
		return err
	}
	fresh := stake.isEmpty()

	if _, err := c.updatePool(id, pool, blockNum); err != nil {
		return err
	}
	if err := c.harvest(caller, stake, pool); err != nil {
		return err
	}

	if !amount.IsZero() {
		tok, err := c.registry.Token(pool.StakingToken)
		if err != nil {
			return err
		}
		if err := tok.TransferFrom(c.addr, caller, c.addr, amount); err != nil {
			return err
		}
		fee, err := bps(amount, pool.DepositFeeBps)
		if err != nil {
			return err
		}
		if !fee.IsZero() {
			if err := c.splitDepositFee(tok, fee); err != nil {
				return err
			}
		}
		net := new(uint256.Int).Sub(amount, fee)
		if _, overflow := stake.Amount.AddOverflow(stake.Amount, net); overflow {
			return reverts.New(reverts.ArithmeticOverflow, "stake")
		}
		if _, overflow := pool.TotalStaked.AddOverflow(pool.TotalStaked, net); overflow {
			return reverts.New(reverts.ArithmeticOverflow, "pool stake")
		}
		logger.Debug("deposit", "pid", pid, "user", caller, "amount", amount, "fee", fee)
	}

	if stake.RewardDebt, err = accrued(stake.Amount, pool.AccRewardPerShare); err != nil {
		return err
	}
	if err := c.save(id, pool, caller, stake, fresh); err != nil {
		return err
	}
	metricPositionCount().AddWithLabel(1, map[string]string{"op": "deposit"})
	return nil
}

// Withdraw settles pool pid, pays caller the pending reward and unstakes amount.
func (c *Chef) Withdraw(caller farm.Address, blockNum uint64, pid uint64, amount *uint256.Int) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	id := poolID(pid)
	stake, err := c.userStake(id, caller)
	if err != nil {
		return err
	}
	if stake.Amount.Lt(amount) {
		return reverts.Newf(reverts.InsufficientStake, "withdraw %v exceeds stake %v", amount, stake.Amount)
	}
	fresh := stake.isEmpty()

	if _, err := c.updatePool(id, pool, blockNum); err != nil {
		return err
	}
	if err := c.harvest(caller, stake, pool); err != nil {
		return err
	}

	if !amount.IsZero() {
		stake.Amount.Sub(stake.Amount, amount)
		if _, underflow := pool.TotalStaked.SubOverflow(pool.TotalStaked, amount); underflow {
			return reverts.New(reverts.ArithmeticOverflow, "pool stake")
		}
		tok, err := c.registry.Token(pool.StakingToken)
		if err != nil {
			return err
		}
		if err := tok.Transfer(c.addr, caller, amount); err != nil {
			return err
		}
		logger.Debug("withdraw", "pid", pid, "user", caller, "amount", amount)
	}

	if stake.RewardDebt, err = accrued(stake.Amount, pool.AccRewardPerShare); err != nil {
		return err
	}
	if err := c.save(id, pool, caller, stake, fresh); err != nil {
		return err
	}
	metricPositionCount().AddWithLabel(1, map[string]string{"op": "withdraw"})
	return nil
}

// EmergencyWithdraw returns the whole stake of caller in pool pid and
// forfeits the pending reward. It never settles the pool nor touches the
// reward token.
func (c *Chef) EmergencyWithdraw(caller farm.Address, pid uint64) error {
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	id := poolID(pid)
	stake, err := c.userStake(id, caller)
	if err != nil {
		return err
	}
	fresh := stake.isEmpty()
	amount := stake.Amount

	if _, underflow := pool.TotalStaked.SubOverflow(pool.TotalStaked, amount); underflow {
		return reverts.New(reverts.ArithmeticOverflow, "pool stake")
	}
	if err := c.save(id, pool, caller, &UserStake{Amount: new(uint256.Int), RewardDebt: new(uint256.Int)}, fresh); err != nil {
		return err
	}
	if !amount.IsZero() {
		tok, err := c.registry.Token(pool.StakingToken)
		if err != nil {
			return err
		}
		if err := tok.Transfer(c.addr, caller, amount); err != nil {
			return err
		}
	}
	metricPositionCount().AddWithLabel(1, map[string]string{"op": "emergency_withdraw"})
	logger.Info("emergency withdraw", "pid", pid, "user", caller, "amount", amount)
	return nil
}

// harvest pays the pending reward of stake out of the chef's reward balance.
func (c *Chef) harvest(to farm.Address, stake *UserStake, pool *Pool) error {
	if stake.Amount.IsZero() {
		return nil
	}
	reward, err := pending(stake, pool.AccRewardPerShare)
	if err != nil {
		return err
	}
	return c.safeRewardTransfer(to, reward)
}

// safeRewardTransfer transfers amount of reward token, capped at the chef's
// balance so rounding never blocks a position.
func (c *Chef) safeRewardTransfer(to farm.Address, amount *uint256.Int) error {
	if amount.IsZero() {
		return nil
	}
	rewardToken, err := c.rewardToken()
	if err != nil {
		return err
	}
	bal, err := rewardToken.BalanceOf(c.addr)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		amount = bal
	}
	if amount.IsZero() {
		return nil
	}
	return rewardToken.Transfer(c.addr, to, amount)
}

// splitDepositFee routes the deposit percents of fee. The rest stays with the chef.
func (c *Chef) splitDepositFee(tok Token, fee *uint256.Int) error {
	percents, err := c.depositPercents.Get()
	if err != nil {
		return err
	}
	cfg, err := c.getConfig()
	if err != nil {
		return err
	}
	dev, err := c.dev.Get()
	if err != nil {
		return err
	}
	shares, _, err := percents.split(fee, dev, cfg.Vault, cfg.Charity)
	if err != nil {
		return err
	}
	for _, s := range shares {
		if err := tok.Transfer(c.addr, s.to, s.amount); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chef) save(pid poolID, pool *Pool, user farm.Address, stake *UserStake, fresh bool) error {
	if err := c.pools.Set(pid, pool, false); err != nil {
		return err
	}
	return c.users.Set(userKey(pid, user), stake, fresh)
}
