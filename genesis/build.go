// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/builtin/chef"
	runepkg "github.com/runefarm/chef/builtin/rune"
	"github.com/runefarm/chef/builtin/token"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/runtime"
)

var logger = log.WithContext("pkg", "genesis")

// Build deploys the farm described by cfg through rt. The reward rune ends
// up owned by the chef, the only minter of rewards.
func Build(rt *runtime.Runtime, cfg *Config) (*Book, error) {
	book := NewBook(cfg)

	exec := func(name string, caller farm.Address, fn func(env *runtime.Env) error) error {
		receipt := rt.Exec("genesis:"+name, caller, fn)
		if receipt.Err != nil {
			return errors.WithMessage(receipt.Err, name)
		}
		logger.Debug("genesis step", "name", name, "gas", receipt.GasUsed)
		return nil
	}

	deployer, err := book.resolveOr(cfg.Chef.Deployer, "dev")
	if err != nil {
		return nil, err
	}
	dev, err := book.resolveOr(cfg.Chef.Dev, "dev")
	if err != nil {
		return nil, err
	}
	vault, err := book.resolveOr(cfg.Chef.Vault, "vault")
	if err != nil {
		return nil, err
	}
	charity, err := book.resolveOr(cfg.Chef.Charity, "charity")
	if err != nil {
		return nil, err
	}

	for _, tc := range cfg.Tokens {
		if err := deployToken(book, tc, deployer, exec); err != nil {
			return nil, err
		}
	}

	// reward runes and the fee sink
	if err := exec("rune", deployer, func(env *runtime.Env) error {
		r, err := deployRune(env, builtin.Rune, cfg.Rune, "Tir", "TIR")
		if err != nil {
			return err
		}
		return r.SetDevAddress(env.Caller(), dev)
	}); err != nil {
		return nil, err
	}
	if err := exec("el-rune", deployer, func(env *runtime.Env) error {
		_, err := deployRune(env, builtin.ElRune, cfg.ElRune, "El", "EL")
		return err
	}); err != nil {
		return nil, err
	}
	if err := exec("void", deployer, func(env *runtime.Env) error {
		if err := env.Deploy(builtin.Void, builtin.VoidCode); err != nil {
			return err
		}
		v, err := env.VoidAt(builtin.Void)
		if err != nil {
			return err
		}
		v.Initialize(builtin.Rune, dev)
		return nil
	}); err != nil {
		return nil, err
	}
	if fees := cfg.Rune.Fees; fees != nil {
		info, err := feeInfo(book, fees)
		if err != nil {
			return nil, err
		}
		if err := exec("rune-fees", dev, func(env *runtime.Env) error {
			r, err := env.RuneAt(builtin.Rune)
			if err != nil {
				return err
			}
			return r.SetFeeInfo(env.Caller(), info)
		}); err != nil {
			return nil, err
		}
	}

	if err := exec("chef", deployer, func(env *runtime.Env) error {
		if err := env.Deploy(builtin.Chef, builtin.ChefCode); err != nil {
			return err
		}
		c, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		return c.Initialize(env.Caller(), chef.Params{
			Rune:             builtin.Rune,
			Dev:              dev,
			Vault:            vault,
			Charity:          charity,
			Void:             builtin.Void,
			WithdrawFeeToken: builtin.ElRune,
			RewardPerBlock:   cfg.Chef.RewardPerBlock.amount(),
			StartBlock:       cfg.Chef.StartBlock,
		})
	}); err != nil {
		return nil, err
	}

	// hand the rune over to the chef
	if err := exec("rune-transfer-ownership", deployer, func(env *runtime.Env) error {
		r, err := env.RuneAt(builtin.Rune)
		if err != nil {
			return err
		}
		return r.TransferOwnership(env.Caller(), builtin.Chef)
	}); err != nil {
		return nil, err
	}
	if err := exec("rune-accept-ownership", builtin.Chef, func(env *runtime.Env) error {
		r, err := env.RuneAt(builtin.Rune)
		if err != nil {
			return err
		}
		return r.AcceptOwnership(env.Caller())
	}); err != nil {
		return nil, err
	}

	if err := setPercents(cfg.Chef, dev, exec); err != nil {
		return nil, err
	}
	for _, pc := range cfg.Pools {
		tokenAddr, err := book.Resolve(pc.Token)
		if err != nil {
			return nil, errors.WithMessage(err, "pool")
		}
		if err := exec("add-pool", deployer, func(env *runtime.Env) error {
			c, err := env.ChefAt(builtin.Chef)
			if err != nil {
				return err
			}
			_, err = c.AddPool(env.Caller(), env.BlockNumber(), pc.Weight, tokenAddr, pc.DepositFeeBps, false)
			return err
		}); err != nil {
			return nil, err
		}
	}

	logger.Info("genesis built", "tokens", len(cfg.Tokens), "pools", len(cfg.Pools), "block", rt.BlockNumber())
	return book, nil
}

type execFunc func(name string, caller farm.Address, fn func(env *runtime.Env) error) error

func deployToken(book *Book, tc TokenConfig, deployer farm.Address, exec execFunc) error {
	if tc.Symbol == "" {
		return errors.New("token symbol required")
	}
	holder, err := book.resolveOr(tc.Holder, "dev")
	if err != nil {
		return err
	}
	allocations := make(map[farm.Address]*Amount, len(tc.Allocations))
	for ref, amt := range tc.Allocations {
		addr, err := book.Resolve(ref)
		if err != nil {
			return errors.WithMessagef(err, "token %s", tc.Symbol)
		}
		allocations[addr] = &amt
	}

	addr := builtin.TokenAddress(tc.Symbol)
	return exec("token:"+tc.Symbol, deployer, func(env *runtime.Env) error {
		if err := env.Deploy(addr, builtin.TokenCode); err != nil {
			return err
		}
		tok, err := env.TokenAt(addr)
		if err != nil {
			return err
		}
		decimals := tc.Decimals
		if decimals == 0 {
			decimals = 18
		}
		if err := tok.Initialize(token.Metadata{Name: tc.Name, Symbol: tc.Symbol, Decimals: decimals}); err != nil {
			return err
		}
		if err := tok.Mint(holder, tc.Supply.amount()); err != nil {
			return err
		}
		for to, amt := range allocations {
			if err := tok.Transfer(holder, to, amt.amount()); err != nil {
				return err
			}
		}
		return nil
	})
}

func deployRune(env *runtime.Env, addr farm.Address, rc RuneConfig, name, symbol string) (*runepkg.Rune, error) {
	if err := env.Deploy(addr, builtin.RuneCode); err != nil {
		return nil, err
	}
	r, err := env.RuneAt(addr)
	if err != nil {
		return nil, err
	}
	meta := token.Metadata{Name: rc.Name, Symbol: rc.Symbol, Decimals: rc.Decimals}
	if meta.Name == "" {
		meta.Name = name
	}
	if meta.Symbol == "" {
		meta.Symbol = symbol
	}
	if meta.Decimals == 0 {
		meta.Decimals = 18
	}
	if err := r.Initialize(env.Caller(), meta); err != nil {
		return nil, err
	}
	return r, nil
}

func feeInfo(book *Book, fc *FeeConfig) (runepkg.FeeInfo, error) {
	info := runepkg.FeeInfo{
		VaultBps:   fc.VaultBps,
		CharityBps: fc.CharityBps,
		DevBps:     fc.DevBps,
		BotBps:     fc.BotBps,
	}
	for _, f := range []struct {
		ref string
		out *farm.Address
	}{
		{fc.Vault, &info.Vault},
		{fc.Charity, &info.Charity},
		{fc.Dev, &info.Dev},
		{fc.Bot, &info.Bot},
	} {
		if f.ref == "" {
			continue
		}
		addr, err := book.Resolve(f.ref)
		if err != nil {
			return info, errors.WithMessage(err, "rune fees")
		}
		*f.out = addr
	}
	return info, nil
}

func setPercents(cc ChefConfig, dev farm.Address, exec execFunc) error {
	for _, p := range []struct {
		name string
		cfg  *PercentsConfig
		set  func(c *chef.Chef, caller farm.Address, p chef.Percents) error
	}{
		{"mint-percents", cc.MintPercents, (*chef.Chef).SetMintPercents},
		{"deposit-percents", cc.DepositPercents, (*chef.Chef).SetDepositPercents},
	} {
		if p.cfg == nil {
			continue
		}
		percents := chef.Percents{Dev: p.cfg.Dev, Vault: p.cfg.Vault, Charity: p.cfg.Charity}
		if err := exec(p.name, dev, func(env *runtime.Env) error {
			c, err := env.ChefAt(builtin.Chef)
			if err != nil {
				return err
			}
			return p.set(c, env.Caller(), percents)
		}); err != nil {
			return err
		}
	}
	return nil
}
