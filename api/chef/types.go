// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	builtinchef "github.com/runefarm/chef/builtin/chef"
	"github.com/runefarm/chef/farm"
)

type Percents struct {
	Dev     uint64 `json:"dev"`
	Vault   uint64 `json:"vault"`
	Charity uint64 `json:"charity"`
}

// Config is the configuration of the reward chef. Amounts are decimal strings.
type Config struct {
	Address               farm.Address `json:"address"`
	Owner                 farm.Address `json:"owner"`
	Rune                  farm.Address `json:"rune"`
	Dev                   farm.Address `json:"dev"`
	Vault                 farm.Address `json:"vault"`
	Charity               farm.Address `json:"charity"`
	Void                  farm.Address `json:"void"`
	WithdrawFeeToken      farm.Address `json:"withdrawFeeToken"`
	RewardPerBlock        string       `json:"rewardPerBlock"`
	StartBlock            uint64       `json:"startBlock"`
	TotalAllocationWeight uint64       `json:"totalAllocationWeight"`
	PoolLength            uint64       `json:"poolLength"`
	MintPercents          Percents     `json:"mintPercents"`
	DepositPercents       Percents     `json:"depositPercents"`
	BlockNumber           uint64       `json:"blockNumber"`
}

type Pool struct {
	ID                uint64       `json:"id"`
	StakingToken      farm.Address `json:"stakingToken"`
	AllocWeight       uint64       `json:"allocWeight"`
	LastRewardBlock   uint64       `json:"lastRewardBlock"`
	AccRewardPerShare string       `json:"accRewardPerShare"`
	DepositFeeBps     uint64       `json:"depositFeeBps"`
	TotalStaked       string       `json:"totalStaked"`
}

type UserStake struct {
	Pool          uint64       `json:"pool"`
	User          farm.Address `json:"user"`
	Amount        string       `json:"amount"`
	RewardDebt    string       `json:"rewardDebt"`
	PendingReward string       `json:"pendingReward"`
	BlockNumber   uint64       `json:"blockNumber"`
}

func convertPool(pid uint64, p *builtinchef.Pool) *Pool {
	return &Pool{
		ID:                pid,
		StakingToken:      p.StakingToken,
		AllocWeight:       p.AllocWeight,
		LastRewardBlock:   p.LastRewardBlock,
		AccRewardPerShare: p.AccRewardPerShare.Dec(),
		DepositFeeBps:     p.DepositFeeBps,
		TotalStaked:       p.TotalStaked.Dec(),
	}
}
