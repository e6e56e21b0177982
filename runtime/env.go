// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/pkg/errors"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/builtin/chef"
	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/reverts"
	runepkg "github.com/runefarm/chef/builtin/rune"
	"github.com/runefarm/chef/builtin/token"
	"github.com/runefarm/chef/builtin/void"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

// Env is the context of a single call. It binds the contracts deployed at
// addresses to the call's state and gas meter.
type Env struct {
	state    *state.State
	charger  *gascharger.Charger
	caller   farm.Address
	blockNum uint64
}

var (
	_ chef.Registry     = (*Env)(nil)
	_ runepkg.Receivers = (*Env)(nil)
)

func newEnv(st *state.State, charger *gascharger.Charger, caller farm.Address, blockNum uint64) *Env {
	return &Env{state: st, charger: charger, caller: caller, blockNum: blockNum}
}

func (e *Env) Caller() farm.Address         { return e.caller }
func (e *Env) BlockNumber() uint64          { return e.blockNum }
func (e *Env) State() *state.State          { return e.state }
func (e *Env) Charger() *gascharger.Charger { return e.charger }

// Deploy tags addr as holding a contract of kind code.
func (e *Env) Deploy(addr farm.Address, code builtin.Code) error {
	return builtin.Deploy(e.state, addr, code)
}

func (e *Env) expect(addr farm.Address, want builtin.Code) error {
	code, err := builtin.CodeAt(e.state, addr)
	if err != nil {
		return err
	}
	if code != want {
		return errors.Errorf("%v holds a %s contract, not %s", addr, code, want)
	}
	return nil
}

func (e *Env) TokenAt(addr farm.Address) (*token.Token, error) {
	if err := e.expect(addr, builtin.TokenCode); err != nil {
		return nil, err
	}
	return token.New(addr, e.state, e.charger), nil
}

func (e *Env) RuneAt(addr farm.Address) (*runepkg.Rune, error) {
	if err := e.expect(addr, builtin.RuneCode); err != nil {
		return nil, err
	}
	return runepkg.New(addr, e.state, e.charger, e), nil
}

func (e *Env) VoidAt(addr farm.Address) (*void.Void, error) {
	if err := e.expect(addr, builtin.VoidCode); err != nil {
		return nil, err
	}
	return void.New(addr, e.state, e.charger), nil
}

func (e *Env) ChefAt(addr farm.Address) (*chef.Chef, error) {
	if err := e.expect(addr, builtin.ChefCode); err != nil {
		return nil, err
	}
	return chef.New(addr, e.state, e.charger, e), nil
}

// Token resolves a staking token. Both plain tokens and runes can be staked.
func (e *Env) Token(addr farm.Address) (chef.Token, error) {
	code, err := builtin.CodeAt(e.state, addr)
	if err != nil {
		if errors.Is(err, builtin.ErrNotDeployed) {
			return nil, reverts.Newf(reverts.InvalidPool, "no token at %v", addr)
		}
		return nil, err
	}
	switch code {
	case builtin.TokenCode:
		return token.New(addr, e.state, e.charger), nil
	case builtin.RuneCode:
		return runepkg.New(addr, e.state, e.charger, e), nil
	}
	return nil, reverts.Newf(reverts.InvalidPool, "%v holds a %s contract, not a token", addr, code)
}

func (e *Env) RewardToken(addr farm.Address) (chef.RewardToken, error) {
	r, err := e.RuneAt(addr)
	if err != nil {
		return nil, reverts.Newf(reverts.InvalidPool, "reward token: %v", err)
	}
	return r, nil
}

// Receiver returns the transfer hook deployed at addr, nil for plain accounts.
func (e *Env) Receiver(addr farm.Address) (runepkg.Receiver, error) {
	code, err := builtin.CodeAt(e.state, addr)
	if err != nil {
		if errors.Is(err, builtin.ErrNotDeployed) {
			return nil, nil
		}
		return nil, err
	}
	if code == builtin.VoidCode {
		return void.New(addr, e.state, e.charger), nil
	}
	return nil, nil
}
