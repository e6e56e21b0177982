// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/runefarm/chef/api/utils"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/runtime"
)

type FeeInfo struct {
	Vault      farm.Address `json:"vault"`
	Charity    farm.Address `json:"charity"`
	Dev        farm.Address `json:"dev"`
	Bot        farm.Address `json:"bot"`
	VaultBps   uint64       `json:"vaultBps"`
	CharityBps uint64       `json:"charityBps"`
	DevBps     uint64       `json:"devBps"`
	BotBps     uint64       `json:"botBps"`
}

type Rune struct {
	Address      farm.Address `json:"address"`
	Name         string       `json:"name"`
	Symbol       string       `json:"symbol"`
	Decimals     uint8        `json:"decimals"`
	TotalSupply  string       `json:"totalSupply"`
	Mintable     bool         `json:"mintable"`
	Owner        farm.Address `json:"owner"`
	PendingOwner farm.Address `json:"pendingOwner"`
	Dev          farm.Address `json:"dev"`
	Fees         FeeInfo      `json:"fees"`
}

type Runes struct {
	rt   *runtime.Runtime
	addr farm.Address
}

// New serves the rune deployed at addr.
func New(rt *runtime.Runtime, addr farm.Address) *Runes {
	return &Runes{rt, addr}
}

func (r *Runes) handleGetRune(w http.ResponseWriter, req *http.Request) error {
	out := Rune{Address: r.addr}
	err := r.rt.View(func(env *runtime.Env) error {
		rn, err := env.RuneAt(r.addr)
		if err != nil {
			return err
		}
		meta, err := rn.Metadata()
		if err != nil {
			return err
		}
		out.Name, out.Symbol, out.Decimals = meta.Name, meta.Symbol, meta.Decimals
		supply, err := rn.TotalSupply()
		if err != nil {
			return err
		}
		out.TotalSupply = supply.Dec()
		if out.Mintable, err = rn.Mintable(); err != nil {
			return err
		}
		if out.Owner, err = rn.Owner(); err != nil {
			return err
		}
		if out.PendingOwner, err = rn.PendingOwner(); err != nil {
			return err
		}
		if out.Dev, err = rn.DevAddress(); err != nil {
			return err
		}
		fees, err := rn.FeeInfo()
		if err != nil {
			return err
		}
		out.Fees = FeeInfo(*fees)
		return nil
	})
	if err != nil {
		return utils.StateError(err)
	}
	return utils.WriteJSON(w, &out)
}

func (r *Runes) Mount(root *mux.Router, pathPrefix string) {
	root.Path(pathPrefix).
		Methods(http.MethodGet).
		Name("GET /rune").
		HandlerFunc(utils.WrapHandlerFunc(r.handleGetRune))
}
