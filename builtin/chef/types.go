// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"encoding/binary"

	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
)

// Token is the part of a fungible token the chef drives.
type Token interface {
	BalanceOf(owner farm.Address) (*uint256.Int, error)
	Transfer(caller, to farm.Address, amount *uint256.Int) error
	TransferFrom(spender, from, to farm.Address, amount *uint256.Int) error
}

// RewardToken is the token the chef mints rewards in.
type RewardToken interface {
	Token
	Mint(caller, to farm.Address, amount *uint256.Int) error
	Mintable() (bool, error)
}

// Registry resolves the contracts deployed at addresses.
type Registry interface {
	Token(addr farm.Address) (Token, error)
	RewardToken(addr farm.Address) (RewardToken, error)
}

// Params are the construction parameters of the chef.
type Params struct {
	Rune             farm.Address
	Dev              farm.Address
	Vault            farm.Address
	Charity          farm.Address
	Void             farm.Address
	WithdrawFeeToken farm.Address
	RewardPerBlock   *uint256.Int
	StartBlock       uint64
}

// config is the immutable part of Params.
type config struct {
	Rune             farm.Address
	Vault            farm.Address
	Charity          farm.Address
	Void             farm.Address
	WithdrawFeeToken farm.Address
	StartBlock       uint64
}

// Pool is a staking pool.
type Pool struct {
	StakingToken      farm.Address
	AllocWeight       uint64
	LastRewardBlock   uint64
	AccRewardPerShare *uint256.Int // scaled by farm.AccRewardPrecision
	DepositFeeBps     uint64
	TotalStaked       *uint256.Int
}

func (p *Pool) normalize() {
	if p.AccRewardPerShare == nil {
		p.AccRewardPerShare = new(uint256.Int)
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(uint256.Int)
	}
}

// UserStake is the position of a user in a pool.
type UserStake struct {
	Amount     *uint256.Int
	RewardDebt *uint256.Int
}

func (u *UserStake) normalize() {
	if u.Amount == nil {
		u.Amount = new(uint256.Int)
	}
	if u.RewardDebt == nil {
		u.RewardDebt = new(uint256.Int)
	}
}

func (u *UserStake) isEmpty() bool {
	return u.Amount.IsZero() && u.RewardDebt.IsZero()
}

// Percents splits an amount, in basis points, between the dev, vault and
// charity addresses. The rest is what no share claims.
type Percents struct {
	Dev     uint64
	Vault   uint64
	Charity uint64
}

func (p Percents) validate() error {
	for _, bps := range []uint64{p.Dev, p.Vault, p.Charity} {
		if bps > farm.MaxBasisPoints {
			return reverts.Newf(reverts.InvalidFeeKind, "percent %d exceeds %d", bps, farm.MaxBasisPoints)
		}
	}
	if sum := p.Dev + p.Vault + p.Charity; sum > farm.MaxBasisPoints {
		return reverts.Newf(reverts.InvalidFeeKind, "percents sum %d exceeds %d", sum, farm.MaxBasisPoints)
	}
	return nil
}

type poolID uint64

func (id poolID) Bytes() []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(id))
}

func userKey(pid poolID, user farm.Address) farm.Bytes32 {
	return farm.Blake2b(pid.Bytes(), user.Bytes())
}
