// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/runefarm/chef/api/utils"
	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/runtime"
)

type Chef struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Chef {
	return &Chef{rt}
}

func (c *Chef) handleGetChef(w http.ResponseWriter, req *http.Request) error {
	var out Config
	err := c.rt.View(func(env *runtime.Env) error {
		ch, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		out.Address = ch.Address()
		out.BlockNumber = env.BlockNumber()
		if out.Owner, err = ch.Owner(); err != nil {
			return err
		}
		if out.Rune, err = ch.Rune(); err != nil {
			return err
		}
		if out.Dev, err = ch.DevAddress(); err != nil {
			return err
		}
		if out.Vault, err = ch.VaultAddress(); err != nil {
			return err
		}
		if out.Charity, err = ch.CharityAddress(); err != nil {
			return err
		}
		if out.Void, err = ch.VoidAddress(); err != nil {
			return err
		}
		if out.WithdrawFeeToken, err = ch.WithdrawFeeToken(); err != nil {
			return err
		}
		rate, err := ch.RewardPerBlock()
		if err != nil {
			return err
		}
		out.RewardPerBlock = rate.Dec()
		if out.StartBlock, err = ch.StartBlock(); err != nil {
			return err
		}
		if out.TotalAllocationWeight, err = ch.TotalAllocationWeight(); err != nil {
			return err
		}
		if out.PoolLength, err = ch.PoolLength(); err != nil {
			return err
		}
		mint, err := ch.MintPercents()
		if err != nil {
			return err
		}
		out.MintPercents = Percents(mint)
		deposit, err := ch.DepositPercents()
		if err != nil {
			return err
		}
		out.DepositPercents = Percents(deposit)
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, &out)
}

func (c *Chef) handleGetPools(w http.ResponseWriter, req *http.Request) error {
	var pools []*Pool
	err := c.rt.View(func(env *runtime.Env) error {
		ch, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		n, err := ch.PoolLength()
		if err != nil {
			return err
		}
		pools = make([]*Pool, 0, n)
		for pid := uint64(0); pid < n; pid++ {
			p, err := ch.Pool(pid)
			if err != nil {
				return err
			}
			pools = append(pools, convertPool(pid, p))
		}
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, pools)
}

func (c *Chef) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	var out *Pool
	err = c.rt.View(func(env *runtime.Env) error {
		ch, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		p, err := ch.Pool(pid)
		if err != nil {
			return err
		}
		out = convertPool(pid, p)
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, out)
}

func (c *Chef) handleGetUserStake(w http.ResponseWriter, req *http.Request) error {
	pid, err := utils.Uint64Var(req, "pid")
	if err != nil {
		return err
	}
	user, err := utils.AddressVar(req, "address")
	if err != nil {
		return err
	}
	out := UserStake{Pool: pid, User: user}
	err = c.rt.View(func(env *runtime.Env) error {
		ch, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		stake, err := ch.UserStake(pid, user)
		if err != nil {
			return err
		}
		pending, err := ch.PendingReward(pid, user, env.BlockNumber())
		if err != nil {
			return err
		}
		out.Amount = stake.Amount.Dec()
		out.RewardDebt = stake.RewardDebt.Dec()
		out.PendingReward = pending.Dec()
		out.BlockNumber = env.BlockNumber()
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, &out)
}

func (c *Chef) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /chef").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetChef))

	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("/pools").
		Methods(http.MethodGet).
		Name("GET /chef/pools").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPools))
	sub.Path("/pools/{pid}").
		Methods(http.MethodGet).
		Name("GET /chef/pools/{pid}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetPool))
	sub.Path("/pools/{pid}/users/{address}").
		Methods(http.MethodGet).
		Name("GET /chef/pools/{pid}/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGetUserStake))
}
