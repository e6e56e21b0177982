// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tokens

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/runefarm/chef/api/utils"
	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/builtin/token"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/runtime"
)

type Token struct {
	Address     farm.Address `json:"address"`
	Kind        string       `json:"kind"`
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Decimals    uint8        `json:"decimals"`
	TotalSupply string       `json:"totalSupply"`
}

type Balance struct {
	Token   farm.Address `json:"token"`
	Owner   farm.Address `json:"owner"`
	Balance string       `json:"balance"`
}

// ledger is what plain tokens and runes have in common.
type ledger interface {
	Metadata() (token.Metadata, error)
	TotalSupply() (*uint256.Int, error)
	BalanceOf(owner farm.Address) (*uint256.Int, error)
}

type Tokens struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Tokens {
	return &Tokens{rt}
}

func ledgerAt(env *runtime.Env, addr farm.Address) (ledger, builtin.Code, error) {
	code, err := builtin.CodeAt(env.State(), addr)
	if err != nil {
		return nil, "", err
	}
	switch code {
	case builtin.TokenCode:
		t, err := env.TokenAt(addr)
		return t, code, err
	case builtin.RuneCode:
		r, err := env.RuneAt(addr)
		return r, code, err
	}
	return nil, "", utils.NotFound(errors.Errorf("%v holds a %s contract, not a token", addr, code))
}

func (t *Tokens) handleGetToken(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := Token{Address: addr}
	err = t.rt.View(func(env *runtime.Env) error {
		l, code, err := ledgerAt(env, addr)
		if err != nil {
			return err
		}
		meta, err := l.Metadata()
		if err != nil {
			return err
		}
		supply, err := l.TotalSupply()
		if err != nil {
			return err
		}
		out.Kind = string(code)
		out.Name, out.Symbol, out.Decimals = meta.Name, meta.Symbol, meta.Decimals
		out.TotalSupply = supply.Dec()
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, &out)
}

func (t *Tokens) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	addr, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	owner, err := utils.AddressVar(req, "owner")
	if err != nil {
		return err
	}
	out := Balance{Token: addr, Owner: owner}
	err = t.rt.View(func(env *runtime.Env) error {
		l, _, err := ledgerAt(env, addr)
		if err != nil {
			return err
		}
		bal, err := l.BalanceOf(owner)
		if err != nil {
			return err
		}
		out.Balance = bal.Dec()
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, &out)
}

func (t *Tokens) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetToken))
	sub.Path("/{address}/balances/{owner}").
		Methods(http.MethodGet).
		Name("GET /tokens/{address}/balances/{owner}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetBalance))
}
