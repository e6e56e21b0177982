// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin names the farm contracts and tags the addresses they are
// deployed at.
package builtin

import (
	"github.com/pkg/errors"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/state"
)

// Code tags the contract deployed at an address.
type Code string

const (
	TokenCode Code = "token"
	RuneCode  Code = "rune"
	VoidCode  Code = "void"
	ChefCode  Code = "chef"
)

func (c Code) valid() bool {
	switch c {
	case TokenCode, RuneCode, VoidCode, ChefCode:
		return true
	}
	return false
}

// Builtin contract addresses.
var (
	Rune   = farm.BytesToAddress([]byte("Rune"))
	ElRune = farm.BytesToAddress([]byte("ElRune"))
	Void   = farm.BytesToAddress([]byte("Void"))
	Chef   = farm.BytesToAddress([]byte("Chef"))
	Clock  = farm.BytesToAddress([]byte("Clock"))
)

// TokenAddress returns the address a staking token with symbol is deployed at.
func TokenAddress(symbol string) farm.Address {
	return farm.BytesToAddress([]byte("Token:" + symbol))
}

// ErrNotDeployed is returned when no contract lives at an address.
var ErrNotDeployed = errors.New("contract not deployed")

// Deploy tags addr with code. An address is deployed at most once.
func Deploy(st *state.State, addr farm.Address, code Code) error {
	if !code.valid() {
		return errors.Errorf("unknown contract code %q", code)
	}
	existing, err := st.GetCode(addr)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return errors.Errorf("%v already deployed as %s", addr, existing)
	}
	st.SetCode(addr, []byte(code))
	return nil
}

// CodeAt returns the code tag of addr, or ErrNotDeployed.
func CodeAt(st *state.State, addr farm.Address) (Code, error) {
	code, err := st.GetCode(addr)
	if err != nil {
		return "", err
	}
	if len(code) == 0 {
		return "", errors.WithMessagef(ErrNotDeployed, "%v", addr)
	}
	return Code(code), nil
}

var slotBlockNumber = farm.Slot("clock-block-number")

// BlockNumber is the persisted block height of the farm.
type BlockNumber struct {
	raw *solidity.Raw[uint64]
}

func NewBlockNumber(st *state.State, charger *gascharger.Charger) *BlockNumber {
	return &BlockNumber{solidity.NewRaw[uint64](solidity.NewContext(Clock, st, charger), slotBlockNumber)}
}

func (b *BlockNumber) Get() (uint64, error) { return b.raw.Get() }

func (b *BlockNumber) Set(n uint64) error { return b.raw.Set(n) }
