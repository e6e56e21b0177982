// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package token implements a standard fungible token ledger: balances,
// allowances and total supply. It backs staking tokens directly and is
// embedded by the reward token.
package token

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/state"
)

var (
	slotMetadata    = farm.Slot("token-metadata")
	slotTotalSupply = farm.Slot("token-total-supply")
	slotBalances    = farm.Slot("token-balances")
	slotAllowances  = farm.Slot("token-allowances")

	logger = log.WithContext("pkg", "token")
)

// Metadata describes a token.
type Metadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// Token implements the ledger of a fungible token at an address.
type Token struct {
	addr        farm.Address
	metadata    *solidity.Raw[Metadata]
	totalSupply *solidity.Uint256
	balances    *solidity.Mapping[farm.Address, *uint256.Int]
	allowances  *solidity.Mapping[farm.Bytes32, *uint256.Int]
}

// New creates a token bound to addr.
func New(addr farm.Address, state *state.State, charger *gascharger.Charger) *Token {
	sctx := solidity.NewContext(addr, state, charger)
	return &Token{
		addr:        addr,
		metadata:    solidity.NewRaw[Metadata](sctx, slotMetadata),
		totalSupply: solidity.NewUint256(sctx, slotTotalSupply),
		balances:    solidity.NewMapping[farm.Address, *uint256.Int](sctx, slotBalances),
		allowances:  solidity.NewMapping[farm.Bytes32, *uint256.Int](sctx, slotAllowances),
	}
}

func allowanceKey(owner, spender farm.Address) farm.Bytes32 {
	return farm.Blake2b(owner.Bytes(), spender.Bytes())
}

// Address returns the token address.
func (t *Token) Address() farm.Address {
	return t.addr
}

// Initialize stores the token metadata.
func (t *Token) Initialize(meta Metadata) error {
	return t.metadata.Set(meta)
}

func (t *Token) Metadata() (Metadata, error) {
	return t.metadata.Get()
}

func (t *Token) TotalSupply() (*uint256.Int, error) {
	return t.totalSupply.Get()
}

func (t *Token) BalanceOf(owner farm.Address) (*uint256.Int, error) {
	return t.balances.Get(owner)
}

func (t *Token) Allowance(owner, spender farm.Address) (*uint256.Int, error) {
	return t.allowances.Get(allowanceKey(owner, spender))
}

// Approve sets the amount spender may move out of caller's balance.
func (t *Token) Approve(caller, spender farm.Address, amount *uint256.Int) error {
	return t.setAllowance(caller, spender, amount)
}

// Transfer moves amount from caller to to.
func (t *Token) Transfer(caller, to farm.Address, amount *uint256.Int) error {
	return t.Move(caller, to, amount)
}

// TransferFrom moves amount from from to to, spending spender's allowance.
func (t *Token) TransferFrom(spender, from, to farm.Address, amount *uint256.Int) error {
	if err := t.SpendAllowance(from, spender, amount); err != nil {
		return err
	}
	return t.Move(from, to, amount)
}

// Mint credits amount to to and grows the supply. It performs no
// authorization, callers gate it.
func (t *Token) Mint(to farm.Address, amount *uint256.Int) error {
	if err := t.totalSupply.Add(amount); err != nil {
		return err
	}
	return t.credit(to, amount)
}

// SpendAllowance consumes amount of the allowance granted by owner to spender.
func (t *Token) SpendAllowance(owner, spender farm.Address, amount *uint256.Int) error {
	allowed, err := t.Allowance(owner, spender)
	if err != nil {
		return err
	}
	if allowed.Lt(amount) {
		return reverts.Newf(reverts.TransferFailure, "allowance %v of %v below %v", allowed, spender, amount)
	}
	return t.setAllowance(owner, spender, allowed.Sub(allowed, amount))
}

// Move moves amount between balances without any fee.
func (t *Token) Move(from, to farm.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.New(reverts.TransferFailure, "transfer to the zero address")
	}
	if err := t.debit(from, amount); err != nil {
		return err
	}
	if err := t.credit(to, amount); err != nil {
		return err
	}
	logger.Trace("transfer", "token", t.addr, "from", from, "to", to, "amount", amount)
	return nil
}

func (t *Token) debit(from farm.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(from)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.Newf(reverts.TransferFailure, "balance %v of %v below %v", bal, from, amount)
	}
	return t.setBalance(from, bal, new(uint256.Int).Sub(bal, amount))
}

func (t *Token) credit(to farm.Address, amount *uint256.Int) error {
	bal, err := t.balances.Get(to)
	if err != nil {
		return err
	}
	sum, overflow := new(uint256.Int).AddOverflow(bal, amount)
	if overflow {
		return reverts.New(reverts.ArithmeticOverflow, "balance")
	}
	return t.setBalance(to, bal, sum)
}

func (t *Token) setBalance(owner farm.Address, prev, next *uint256.Int) error {
	if next.IsZero() {
		t.balances.Delete(owner)
		return nil
	}
	return t.balances.Set(owner, next, prev.IsZero())
}

func (t *Token) setAllowance(owner, spender farm.Address, amount *uint256.Int) error {
	key := allowanceKey(owner, spender)
	if amount.IsZero() {
		t.allowances.Delete(key)
		return nil
	}
	return t.allowances.Set(key, amount, true)
}
