// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"crypto/ecdsa"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/runefarm/chef/farm"
)

// DevAccount is a pre-funded account of the development farm.
type DevAccount struct {
	Name       string
	Address    farm.Address
	PrivateKey *ecdsa.PrivateKey
}

var devAccounts atomic.Value

// DevAccounts returns the named accounts of the development farm. Their keys
// are fixed so addresses are stable across runs.
func DevAccounts() []DevAccount {
	if accs := devAccounts.Load(); accs != nil {
		return accs.([]DevAccount)
	}

	keys := []struct{ name, key string }{
		{"alice", "dce1443bd2ef0c2631adc1c67e5c93f13dc23a41c18b536effbbdcbcdb96fb65"},
		{"bob", "321d6443bc6177273b5abf54210fe806d451d6b7973bccc2384ef78bbcd0bf51"},
		{"carol", "2d7c882bad2a01105e36dda3646693bc1aaaa45b0ed63fb0ce23c060294f3af2"},
		{"dev", "593537225b037191d322c3b1df585fb1e5100811b71a6f7fc7e29cca1333483e"},
		{"vault", "ca7b25fc980c759df5f3ce17a3d881d6e19a38e651fc4315fc08917edab41058"},
		{"charity", "88d2d80b12b92feaa0da6d62309463d20408157723f2d7e799b6a74ead9a673b"},
		{"bot", "fbb9e7ba5fe9969a71c6599052237b91adeb1e5fc0c96727b66e56ff5d02f9d0"},
	}
	accs := make([]DevAccount, 0, len(keys))
	for _, k := range keys {
		pk, err := crypto.HexToECDSA(k.key)
		if err != nil {
			panic(err)
		}
		addr := crypto.PubkeyToAddress(pk.PublicKey)
		accs = append(accs, DevAccount{k.name, farm.Address(addr), pk})
	}
	devAccounts.Store(accs)
	return accs
}

// DevAccountByName returns the dev account called name.
func DevAccountByName(name string) (DevAccount, bool) {
	for _, acc := range DevAccounts() {
		if acc.Name == name {
			return acc, true
		}
	}
	return DevAccount{}, false
}

// DevConfig returns the development farm: two LP tokens held by dev with
// 1000 of each allocated to alice, bob and carol, and one pool per token.
func DevConfig() *Config {
	lp := func(name, symbol string) TokenConfig {
		return TokenConfig{
			Name:     name,
			Symbol:   symbol,
			Decimals: 18,
			Supply:   NewAmount(10_000_000_000),
			Holder:   "dev",
			Allocations: map[string]Amount{
				"alice": *NewAmount(1000),
				"bob":   *NewAmount(1000),
				"carol": *NewAmount(1000),
			},
		}
	}
	return &Config{
		Tokens: []TokenConfig{lp("LPToken", "LP"), lp("LPToken2", "LP2")},
		Rune:   RuneConfig{Name: "Tir", Symbol: "TIR", Decimals: 18},
		ElRune: RuneConfig{Name: "El", Symbol: "EL", Decimals: 18},
		Chef: ChefConfig{
			Deployer:       "dev",
			Dev:            "dev",
			Vault:          "vault",
			Charity:        "charity",
			RewardPerBlock: NewAmount(1000),
			StartBlock:     100,
		},
		Pools: []PoolConfig{
			{Token: "LP", Weight: 100},
			{Token: "LP2", Weight: 100, DepositFeeBps: 100},
		},
	}
}
