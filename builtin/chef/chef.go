// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package chef implements the reward chef: a registry of staking pools
// sharing a per-block emission of the reward token in proportion to their
// allocation weights, and within a pool in proportion to stake.
//
// Each pool carries an accumulator of reward per staked unit. A position
// remembers the accumulator value it was last settled at (its reward
// debt), so pending reward is amount*acc - debt without iterating users.
package chef

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/ownable"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/state"
)

var (
	slotConfig          = farm.Slot("chef-config")
	slotDev             = farm.Slot("chef-dev")
	slotRewardPerBlock  = farm.Slot("chef-reward-per-block")
	slotTotalWeight     = farm.Slot("chef-total-weight")
	slotPoolLength      = farm.Slot("chef-pool-length")
	slotPools           = farm.Slot("chef-pools")
	slotPoolByToken     = farm.Slot("chef-pool-by-token")
	slotUsers           = farm.Slot("chef-users")
	slotMintPercents    = farm.Slot("chef-mint-percents")
	slotDepositPercents = farm.Slot("chef-deposit-percents")

	logger = log.WithContext("pkg", "chef")
)

// Chef implements native methods of the reward chef.
type Chef struct {
	addr     farm.Address
	registry Registry
	ownable  *ownable.Ownable

	config          *solidity.Raw[*config]
	dev             *solidity.Address
	rewardPerBlock  *solidity.Uint256
	totalWeight     *solidity.Raw[uint64]
	poolLength      *solidity.Raw[uint64]
	pools           *solidity.Mapping[poolID, *Pool]
	poolByToken     *solidity.Mapping[farm.Address, uint64] // pid+1, zero when absent
	users           *solidity.Mapping[farm.Bytes32, *UserStake]
	mintPercents    *solidity.Raw[Percents]
	depositPercents *solidity.Raw[Percents]
}

// New creates a chef bound to addr. registry resolves the reward and
// staking tokens.
func New(addr farm.Address, state *state.State, charger *gascharger.Charger, registry Registry) *Chef {
	sctx := solidity.NewContext(addr, state, charger)
	return &Chef{
		addr:     addr,
		registry: registry,
		ownable:  ownable.New(sctx),

		config:          solidity.NewRaw[*config](sctx, slotConfig),
		dev:             solidity.NewAddress(sctx, slotDev),
		rewardPerBlock:  solidity.NewUint256(sctx, slotRewardPerBlock),
		totalWeight:     solidity.NewRaw[uint64](sctx, slotTotalWeight),
		poolLength:      solidity.NewRaw[uint64](sctx, slotPoolLength),
		pools:           solidity.NewMapping[poolID, *Pool](sctx, slotPools),
		poolByToken:     solidity.NewMapping[farm.Address, uint64](sctx, slotPoolByToken),
		users:           solidity.NewMapping[farm.Bytes32, *UserStake](sctx, slotUsers),
		mintPercents:    solidity.NewRaw[Percents](sctx, slotMintPercents),
		depositPercents: solidity.NewRaw[Percents](sctx, slotDepositPercents),
	}
}

// Initialize stores the construction parameters and makes deployer the owner.
func (c *Chef) Initialize(deployer farm.Address, p Params) error {
	if err := c.ownable.Initialize(deployer); err != nil {
		return err
	}
	if err := c.config.Set(&config{
		Rune:             p.Rune,
		Vault:            p.Vault,
		Charity:          p.Charity,
		Void:             p.Void,
		WithdrawFeeToken: p.WithdrawFeeToken,
		StartBlock:       p.StartBlock,
	}); err != nil {
		return err
	}
	c.dev.Set(p.Dev)
	rate := p.RewardPerBlock
	if rate == nil {
		rate = new(uint256.Int)
	}
	c.rewardPerBlock.Set(rate)
	logger.Debug("chef initialized", "addr", c.addr, "rune", p.Rune, "rewardPerBlock", rate, "startBlock", p.StartBlock)
	return nil
}

// Address returns the chef address.
func (c *Chef) Address() farm.Address {
	return c.addr
}

//
// Getters - no state change
//

func (c *Chef) getConfig() (*config, error) {
	return c.config.Get()
}

func (c *Chef) Rune() (farm.Address, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return farm.Address{}, err
	}
	return cfg.Rune, nil
}

func (c *Chef) VaultAddress() (farm.Address, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return farm.Address{}, err
	}
	return cfg.Vault, nil
}

func (c *Chef) CharityAddress() (farm.Address, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return farm.Address{}, err
	}
	return cfg.Charity, nil
}

func (c *Chef) VoidAddress() (farm.Address, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return farm.Address{}, err
	}
	return cfg.Void, nil
}

// WithdrawFeeToken returns the token configured to denominate withdraw fees.
// It is kept for reference only.
func (c *Chef) WithdrawFeeToken() (farm.Address, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return farm.Address{}, err
	}
	return cfg.WithdrawFeeToken, nil
}

func (c *Chef) StartBlock() (uint64, error) {
	cfg, err := c.getConfig()
	if err != nil {
		return 0, err
	}
	return cfg.StartBlock, nil
}

func (c *Chef) DevAddress() (farm.Address, error) {
	return c.dev.Get()
}

func (c *Chef) Owner() (farm.Address, error) {
	return c.ownable.Owner()
}

func (c *Chef) RewardPerBlock() (*uint256.Int, error) {
	return c.rewardPerBlock.Get()
}

func (c *Chef) TotalAllocationWeight() (uint64, error) {
	return c.totalWeight.Get()
}

func (c *Chef) PoolLength() (uint64, error) {
	return c.poolLength.Get()
}

// Pool returns the pool pid, InvalidPool if it does not exist.
func (c *Chef) Pool(pid uint64) (*Pool, error) {
	n, err := c.poolLength.Get()
	if err != nil {
		return nil, err
	}
	if pid >= n {
		return nil, reverts.Newf(reverts.InvalidPool, "pool %d does not exist", pid)
	}
	p, err := c.pools.Get(poolID(pid))
	if err != nil {
		return nil, err
	}
	p.normalize()
	return p, nil
}

// UserStake returns the position of user in pool pid.
func (c *Chef) UserStake(pid uint64, user farm.Address) (*UserStake, error) {
	if _, err := c.Pool(pid); err != nil {
		return nil, err
	}
	return c.userStake(poolID(pid), user)
}

func (c *Chef) userStake(pid poolID, user farm.Address) (*UserStake, error) {
	u, err := c.users.Get(userKey(pid, user))
	if err != nil {
		return nil, err
	}
	u.normalize()
	return u, nil
}

func (c *Chef) MintPercents() (Percents, error)    { return c.mintPercents.Get() }
func (c *Chef) DepositPercents() (Percents, error) { return c.depositPercents.Get() }

func (c *Chef) DevMintPercent() (uint64, error) {
	p, err := c.mintPercents.Get()
	return p.Dev, err
}

func (c *Chef) VaultMintPercent() (uint64, error) {
	p, err := c.mintPercents.Get()
	return p.Vault, err
}

func (c *Chef) CharityMintPercent() (uint64, error) {
	p, err := c.mintPercents.Get()
	return p.Charity, err
}

func (c *Chef) DevDepositPercent() (uint64, error) {
	p, err := c.depositPercents.Get()
	return p.Dev, err
}

func (c *Chef) VaultDepositPercent() (uint64, error) {
	p, err := c.depositPercents.Get()
	return p.Vault, err
}

func (c *Chef) CharityDepositPercent() (uint64, error) {
	p, err := c.depositPercents.Get()
	return p.Charity, err
}

//
// Owner
//

func (c *Chef) TransferOwnership(caller, to farm.Address) error {
	return c.ownable.TransferOwnership(caller, to)
}

func (c *Chef) AcceptOwnership(caller farm.Address) error {
	return c.ownable.AcceptOwnership(caller)
}

// AddPool appends a pool staking stakingToken and returns its id.
// withUpdate settles every existing pool first so the weight change does
// not apply to their unsettled blocks.
func (c *Chef) AddPool(caller farm.Address, blockNum uint64, weight uint64, stakingToken farm.Address, depositFeeBps uint64, withUpdate bool) (uint64, error) {
	if err := c.ownable.RequireOwner(caller); err != nil {
		return 0, err
	}
	if depositFeeBps > farm.MaxBasisPoints {
		return 0, reverts.Newf(reverts.InvalidFeeKind, "deposit fee %d exceeds %d", depositFeeBps, farm.MaxBasisPoints)
	}
	cfg, err := c.getConfig()
	if err != nil {
		return 0, err
	}
	if stakingToken == cfg.Rune {
		return 0, reverts.Newf(reverts.InvalidPool, "reward token %v cannot be staked", stakingToken)
	}
	if _, err := c.registry.Token(stakingToken); err != nil {
		return 0, err
	}
	existing, err := c.poolByToken.Get(stakingToken)
	if err != nil {
		return 0, err
	}
	if existing != 0 {
		return 0, reverts.Newf(reverts.InvalidPool, "token %v already staked by pool %d", stakingToken, existing-1)
	}
	if withUpdate {
		if err := c.MassUpdatePools(blockNum); err != nil {
			return 0, err
		}
	}

	total, err := c.totalWeight.Get()
	if err != nil {
		return 0, err
	}
	if total+weight < total {
		return 0, reverts.New(reverts.ArithmeticOverflow, "total allocation weight")
	}
	if err := c.totalWeight.Set(total + weight); err != nil {
		return 0, err
	}

	pid, err := c.poolLength.Get()
	if err != nil {
		return 0, err
	}
	pool := &Pool{
		StakingToken:      stakingToken,
		AllocWeight:       weight,
		LastRewardBlock:   max(blockNum, cfg.StartBlock),
		AccRewardPerShare: new(uint256.Int),
		DepositFeeBps:     depositFeeBps,
		TotalStaked:       new(uint256.Int),
	}
	if err := c.pools.Set(poolID(pid), pool, true); err != nil {
		return 0, err
	}
	if err := c.poolByToken.Set(stakingToken, pid+1, true); err != nil {
		return 0, err
	}
	if err := c.poolLength.Set(pid + 1); err != nil {
		return 0, err
	}

	metricPoolWeight().SetWithLabel(int64(weight), poolLabels(pid))
	logger.Info("pool added", "pid", pid, "token", stakingToken, "weight", weight, "depositFeeBps", depositFeeBps)
	return pid, nil
}

// SetPool updates the weight and deposit fee of pool pid.
func (c *Chef) SetPool(caller farm.Address, blockNum uint64, pid uint64, weight uint64, depositFeeBps uint64, withUpdate bool) error {
	if err := c.ownable.RequireOwner(caller); err != nil {
		return err
	}
	if depositFeeBps > farm.MaxBasisPoints {
		return reverts.Newf(reverts.InvalidFeeKind, "deposit fee %d exceeds %d", depositFeeBps, farm.MaxBasisPoints)
	}
	if _, err := c.Pool(pid); err != nil {
		return err
	}
	if withUpdate {
		if err := c.MassUpdatePools(blockNum); err != nil {
			return err
		}
	}
	// reload, the mass update may have settled it
	pool, err := c.Pool(pid)
	if err != nil {
		return err
	}
	total, err := c.totalWeight.Get()
	if err != nil {
		return err
	}
	total -= pool.AllocWeight
	if total+weight < total {
		return reverts.New(reverts.ArithmeticOverflow, "total allocation weight")
	}
	if err := c.totalWeight.Set(total + weight); err != nil {
		return err
	}

	pool.AllocWeight = weight
	pool.DepositFeeBps = depositFeeBps
	if err := c.pools.Set(poolID(pid), pool, false); err != nil {
		return err
	}
	metricPoolWeight().SetWithLabel(int64(weight), poolLabels(pid))
	logger.Info("pool updated", "pid", pid, "weight", weight, "depositFeeBps", depositFeeBps)
	return nil
}

// UpdateEmissionRate settles every pool at the old rate, then sets the new one.
func (c *Chef) UpdateEmissionRate(caller farm.Address, blockNum uint64, rewardPerBlock *uint256.Int) error {
	if err := c.ownable.RequireOwner(caller); err != nil {
		return err
	}
	if err := c.MassUpdatePools(blockNum); err != nil {
		return err
	}
	c.rewardPerBlock.Set(rewardPerBlock)
	logger.Info("emission rate updated", "rewardPerBlock", rewardPerBlock)
	return nil
}

//
// Dev role
//

func (c *Chef) requireDev(caller farm.Address) error {
	dev, err := c.dev.Get()
	if err != nil {
		return err
	}
	if dev.IsZero() || dev != caller {
		return reverts.New(reverts.Unauthorized, "dev: wut?")
	}
	return nil
}

// SetDevAddress hands the dev role over. Current dev only; the role
// cannot be handed to the zero address.
func (c *Chef) SetDevAddress(caller, newDev farm.Address) error {
	if err := c.requireDev(caller); err != nil {
		return err
	}
	if newDev.IsZero() {
		return reverts.New(reverts.Unauthorized, "dev: zero address")
	}
	c.dev.Set(newDev)
	logger.Info("dev changed", "from", caller, "to", newDev)
	return nil
}

// SetMintPercents sets the shares of each emission diverted from the pools.
func (c *Chef) SetMintPercents(caller farm.Address, p Percents) error {
	if err := c.requireDev(caller); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	return c.mintPercents.Set(p)
}

// SetDepositPercents sets the shares of each collected deposit fee.
func (c *Chef) SetDepositPercents(caller farm.Address, p Percents) error {
	if err := c.requireDev(caller); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	return c.depositPercents.Set(p)
}
