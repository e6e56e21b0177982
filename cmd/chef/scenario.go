// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/builtin/chef"
	"github.com/runefarm/chef/builtin/reverts"
	runepkg "github.com/runefarm/chef/builtin/rune"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/genesis"
	"github.com/runefarm/chef/runtime"
)

// Scenario is a genesis plus the calls replayed on top of it.
type Scenario struct {
	Genesis *genesis.Config `yaml:"genesis"`
	Steps   []Step          `yaml:"steps"`
}

// Step is one call. Block and Mine move the clock before the call; a step
// without an action only moves the clock.
type Step struct {
	Block        uint64            `yaml:"block"`
	Mine         uint64            `yaml:"mine"`
	Caller       string            `yaml:"caller"`
	Action       string            `yaml:"action"`
	Args         map[string]string `yaml:"args"`
	ExpectRevert string            `yaml:"expect-revert"`
}

func decodeScenario(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "decode scenario")
	}
	if sc.Genesis == nil {
		sc.Genesis = genesis.DevConfig()
	}
	for i, step := range sc.Steps {
		if step.Action == "" {
			continue
		}
		if _, ok := actions[step.Action]; ok {
			continue
		}
		if _, ok := queries[step.Action]; ok {
			continue
		}
		return nil, errors.Errorf("step %d: unknown action %q, want one of: %s", i, step.Action, strings.Join(actionNames(), ", "))
	}
	return &sc, nil
}

func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario")
	}
	return decodeScenario(data)
}

// player replays steps against a built farm.
type player struct {
	rt   *runtime.Runtime
	book *genesis.Book
	out  io.Writer
}

func (p *player) play(steps []Step) error {
	for i, step := range steps {
		if err := p.step(step); err != nil {
			return errors.WithMessagef(err, "step %d (%s)", i, step.Action)
		}
	}
	return nil
}

func (p *player) step(step Step) error {
	if step.Block > 0 {
		if err := p.rt.AdvanceTo(step.Block); err != nil {
			return err
		}
	}
	if step.Mine > 0 {
		if err := p.rt.Mine(step.Mine); err != nil {
			return err
		}
	}
	if step.Action == "" {
		return nil
	}
	args := stepArgs{book: p.book, m: step.Args}

	if query, ok := queries[step.Action]; ok {
		return p.rt.View(func(env *runtime.Env) error {
			out, err := query(env, args)
			if err != nil {
				return err
			}
			printf(p.out, "#%-6d %-22s %s\n", env.BlockNumber(), step.Action, out)
			return nil
		})
	}

	caller, err := p.book.Resolve(step.Caller)
	if err != nil {
		return errors.WithMessage(err, "caller")
	}
	act := actions[step.Action]
	receipt := p.rt.Exec(step.Action, caller, func(env *runtime.Env) error {
		return act(env, args)
	})
	p.print(receipt)
	return checkReceipt(receipt, step.ExpectRevert)
}

func (p *player) print(r *runtime.Receipt) {
	status := "ok"
	if r.Reverted {
		status = "reverted: " + r.Err.Error()
	}
	printf(p.out, "#%-6d %-22s %-8s gas=%-6d %s\n", r.BlockNum, r.Name, p.book.Name(r.Caller), r.GasUsed, status)
}

// checkReceipt matches the outcome of a call with the revert kind expected, if any.
func checkReceipt(r *runtime.Receipt, expectRevert string) error {
	if expectRevert == "" {
		if r.Reverted {
			return r.Err
		}
		return nil
	}
	if !r.Reverted {
		return errors.Errorf("expected revert %q, call succeeded", expectRevert)
	}
	if got := reverts.KindOf(r.Err).String(); got != expectRevert {
		return errors.Errorf("expected revert %q, got: %v", expectRevert, r.Err)
	}
	return nil
}

type stepArgs struct {
	book *genesis.Book
	m    map[string]string
}

func (a stepArgs) str(key string) (string, error) {
	v, ok := a.m[key]
	if !ok {
		return "", errors.Errorf("missing arg %q", key)
	}
	return v, nil
}

func (a stepArgs) address(key string) (farm.Address, error) {
	v, err := a.str(key)
	if err != nil {
		return farm.Address{}, err
	}
	return a.book.Resolve(v)
}

func (a stepArgs) amount(key string) (*uint256.Int, error) {
	v, err := a.str(key)
	if err != nil {
		return nil, err
	}
	return genesis.ParseAmount(v)
}

func (a stepArgs) uint(key string) (uint64, error) {
	v, err := a.str(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(v, 10, 64)
	return n, errors.Wrapf(err, "arg %q", key)
}

// optUint reads an optional unsigned arg, zero when absent.
func (a stepArgs) optUint(key string) (uint64, error) {
	if _, ok := a.m[key]; !ok {
		return 0, nil
	}
	return a.uint(key)
}

func (a stepArgs) flag(key string) (bool, error) {
	v, ok := a.m[key]
	if !ok {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	return b, errors.Wrapf(err, "arg %q", key)
}

func (a stepArgs) optAddress(key string) (farm.Address, error) {
	if _, ok := a.m[key]; !ok {
		return farm.Address{}, nil
	}
	return a.address(key)
}

func (a stepArgs) percents() (chef.Percents, error) {
	var (
		p   chef.Percents
		err error
	)
	if p.Dev, err = a.optUint("dev"); err != nil {
		return p, err
	}
	if p.Vault, err = a.optUint("vault"); err != nil {
		return p, err
	}
	p.Charity, err = a.optUint("charity")
	return p, err
}

// ledger is a fungible token as the scenario drives it.
type ledger interface {
	BalanceOf(owner farm.Address) (*uint256.Int, error)
	Approve(caller, spender farm.Address, amount *uint256.Int) error
	Transfer(caller, to farm.Address, amount *uint256.Int) error
}

func ledgerAt(env *runtime.Env, addr farm.Address) (ledger, error) {
	code, err := builtin.CodeAt(env.State(), addr)
	if err != nil {
		return nil, err
	}
	switch code {
	case builtin.TokenCode:
		return env.TokenAt(addr)
	case builtin.RuneCode:
		return env.RuneAt(addr)
	}
	return nil, errors.Errorf("%v is a %s contract, not a token", addr, code)
}

type action func(env *runtime.Env, args stepArgs) error

// chefAction adapts a call on the chef at its builtin address.
func chefAction(fn func(c *chef.Chef, env *runtime.Env, args stepArgs) error) action {
	return func(env *runtime.Env, args stepArgs) error {
		c, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		return fn(c, env, args)
	}
}

func runeAction(fn func(r *runepkg.Rune, env *runtime.Env, args stepArgs) error) action {
	return func(env *runtime.Env, args stepArgs) error {
		r, err := env.RuneAt(builtin.Rune)
		if err != nil {
			return err
		}
		return fn(r, env, args)
	}
}

func tokenAction(fn func(l ledger, env *runtime.Env, args stepArgs) error) action {
	return func(env *runtime.Env, args stepArgs) error {
		addr, err := args.address("token")
		if err != nil {
			return err
		}
		l, err := ledgerAt(env, addr)
		if err != nil {
			return err
		}
		return fn(l, env, args)
	}
}

// poolAmountAction adapts the chef calls taking a pool and an amount.
func poolAmountAction(call func(c *chef.Chef, caller farm.Address, blockNum, pid uint64, amount *uint256.Int) error) action {
	return chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		pid, err := args.uint("pid")
		if err != nil {
			return err
		}
		amount, err := args.amount("amount")
		if err != nil {
			return err
		}
		return call(c, env.Caller(), env.BlockNumber(), pid, amount)
	})
}

var actions = map[string]action{
	"approve": tokenAction(func(l ledger, env *runtime.Env, args stepArgs) error {
		spender, err := args.address("spender")
		if err != nil {
			return err
		}
		amount, err := args.amount("amount")
		if err != nil {
			return err
		}
		return l.Approve(env.Caller(), spender, amount)
	}),
	"transfer": tokenAction(func(l ledger, env *runtime.Env, args stepArgs) error {
		to, err := args.address("to")
		if err != nil {
			return err
		}
		amount, err := args.amount("amount")
		if err != nil {
			return err
		}
		return l.Transfer(env.Caller(), to, amount)
	}),
	"deposit":  poolAmountAction((*chef.Chef).Deposit),
	"withdraw": poolAmountAction((*chef.Chef).Withdraw),
	"emergency-withdraw": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		pid, err := args.uint("pid")
		if err != nil {
			return err
		}
		return c.EmergencyWithdraw(env.Caller(), pid)
	}),
	"update-pool": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		pid, err := args.uint("pid")
		if err != nil {
			return err
		}
		return c.UpdatePool(pid, env.BlockNumber())
	}),
	"mass-update-pools": chefAction(func(c *chef.Chef, env *runtime.Env, _ stepArgs) error {
		return c.MassUpdatePools(env.BlockNumber())
	}),
	"add-pool": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		tok, err := args.address("token")
		if err != nil {
			return err
		}
		weight, err := args.uint("weight")
		if err != nil {
			return err
		}
		fee, err := args.optUint("deposit-fee-bps")
		if err != nil {
			return err
		}
		withUpdate, err := args.flag("with-update")
		if err != nil {
			return err
		}
		_, err = c.AddPool(env.Caller(), env.BlockNumber(), weight, tok, fee, withUpdate)
		return err
	}),
	"set-pool": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		pid, err := args.uint("pid")
		if err != nil {
			return err
		}
		weight, err := args.uint("weight")
		if err != nil {
			return err
		}
		fee, err := args.optUint("deposit-fee-bps")
		if err != nil {
			return err
		}
		withUpdate, err := args.flag("with-update")
		if err != nil {
			return err
		}
		return c.SetPool(env.Caller(), env.BlockNumber(), pid, weight, fee, withUpdate)
	}),
	"update-emission-rate": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		rate, err := args.amount("reward-per-block")
		if err != nil {
			return err
		}
		return c.UpdateEmissionRate(env.Caller(), env.BlockNumber(), rate)
	}),
	"set-dev": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		to, err := args.address("to")
		if err != nil {
			return err
		}
		return c.SetDevAddress(env.Caller(), to)
	}),
	"set-mint-percents": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		p, err := args.percents()
		if err != nil {
			return err
		}
		return c.SetMintPercents(env.Caller(), p)
	}),
	"set-deposit-percents": chefAction(func(c *chef.Chef, env *runtime.Env, args stepArgs) error {
		p, err := args.percents()
		if err != nil {
			return err
		}
		return c.SetDepositPercents(env.Caller(), p)
	}),
	"set-rune-dev": runeAction(func(r *runepkg.Rune, env *runtime.Env, args stepArgs) error {
		to, err := args.address("to")
		if err != nil {
			return err
		}
		return r.SetDevAddress(env.Caller(), to)
	}),
	"set-fee-info": runeAction(func(r *runepkg.Rune, env *runtime.Env, args stepArgs) error {
		var (
			info runepkg.FeeInfo
			err  error
		)
		for _, f := range []struct {
			key  string
			addr *farm.Address
			bps  *uint64
		}{
			{"vault", &info.Vault, &info.VaultBps},
			{"charity", &info.Charity, &info.CharityBps},
			{"dev", &info.Dev, &info.DevBps},
			{"bot", &info.Bot, &info.BotBps},
		} {
			if *f.addr, err = args.optAddress(f.key); err != nil {
				return err
			}
			if *f.bps, err = args.optUint(f.key + "-bps"); err != nil {
				return err
			}
		}
		return r.SetFeeInfo(env.Caller(), info)
	}),
	"disable-minting": runeAction(func(r *runepkg.Rune, env *runtime.Env, _ stepArgs) error {
		return r.DisableMintingForever(env.Caller())
	}),
}

type query func(env *runtime.Env, args stepArgs) (string, error)

var queries = map[string]query{
	"pending": func(env *runtime.Env, args stepArgs) (string, error) {
		c, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return "", err
		}
		pid, err := args.uint("pid")
		if err != nil {
			return "", err
		}
		user, err := args.address("user")
		if err != nil {
			return "", err
		}
		pending, err := c.PendingReward(pid, user, env.BlockNumber())
		if err != nil {
			return "", err
		}
		return args.m["user"] + " pending=" + pending.Dec(), nil
	},
	"balance": func(env *runtime.Env, args stepArgs) (string, error) {
		addr, err := args.address("token")
		if err != nil {
			return "", err
		}
		l, err := ledgerAt(env, addr)
		if err != nil {
			return "", err
		}
		owner, err := args.address("owner")
		if err != nil {
			return "", err
		}
		bal, err := l.BalanceOf(owner)
		if err != nil {
			return "", err
		}
		return args.m["owner"] + " balance=" + bal.Dec(), nil
	},
}

// actionNames lists the supported actions and queries.
func actionNames() []string {
	names := make([]string, 0, len(actions)+len(queries))
	for name := range actions {
		names = append(names, name)
	}
	for name := range queries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
