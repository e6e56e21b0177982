// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"maps"
	"slices"
	"strings"

	"github.com/pkg/errors"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/farm"
)

// Book names the accounts and contracts of a farm.
type Book struct {
	accounts  map[string]farm.Address
	contracts map[string]farm.Address
	tokens    map[string]farm.Address
}

// NewBook returns a book holding the dev accounts, the accounts of cfg
// and the builtin contracts. Tokens are added as they are deployed.
func NewBook(cfg *Config) *Book {
	b := &Book{
		accounts: make(map[string]farm.Address),
		contracts: map[string]farm.Address{
			"rune":    builtin.Rune,
			"el-rune": builtin.ElRune,
			"void":    builtin.Void,
			"chef":    builtin.Chef,
		},
		tokens: make(map[string]farm.Address),
	}
	for _, acc := range DevAccounts() {
		b.accounts[acc.Name] = acc.Address
	}
	if cfg != nil {
		for name, addr := range cfg.Accounts {
			b.accounts[name] = addr
		}
		for _, tc := range cfg.Tokens {
			b.tokens[tc.Symbol] = builtin.TokenAddress(tc.Symbol)
		}
	}
	return b
}

// Resolve returns the address ref refers to: a hex address, a contract
// name, a token symbol or an account name.
func (b *Book) Resolve(ref string) (farm.Address, error) {
	if strings.HasPrefix(ref, "0x") {
		addr, err := farm.ParseAddress(ref)
		if err != nil {
			return farm.Address{}, err
		}
		return *addr, nil
	}
	if addr, ok := b.contracts[ref]; ok {
		return addr, nil
	}
	if addr, ok := b.tokens[ref]; ok {
		return addr, nil
	}
	if addr, ok := b.accounts[ref]; ok {
		return addr, nil
	}
	return farm.Address{}, errors.Errorf("unknown account %q", ref)
}

func (b *Book) resolveOr(ref, fallback string) (farm.Address, error) {
	if ref == "" {
		ref = fallback
	}
	return b.Resolve(ref)
}

// Name returns the name addr is known by, or its hex form.
func (b *Book) Name(addr farm.Address) string {
	for _, m := range []map[string]farm.Address{b.contracts, b.tokens, b.accounts} {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			if m[name] == addr {
				return name
			}
		}
	}
	return addr.String()
}

// Tokens returns the deployed staking tokens by symbol.
func (b *Book) Tokens() map[string]farm.Address {
	return maps.Clone(b.tokens)
}

// Accounts returns the named accounts.
func (b *Book) Accounts() map[string]farm.Address {
	return maps.Clone(b.accounts)
}
