// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"bytes"
	"os"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/runefarm/chef/farm"
)

// Config describes the contracts deployed at genesis. Account fields are
// references resolved by Book.Resolve: a dev account name, a contract
// name or a hex address.
type Config struct {
	Accounts map[string]farm.Address `yaml:"accounts"`
	Tokens   []TokenConfig           `yaml:"tokens"`
	Rune     RuneConfig              `yaml:"rune"`
	ElRune   RuneConfig              `yaml:"el-rune"`
	Chef     ChefConfig              `yaml:"chef"`
	Pools    []PoolConfig            `yaml:"pools"`
}

type TokenConfig struct {
	Name        string            `yaml:"name"`
	Symbol      string            `yaml:"symbol"`
	Decimals    uint8             `yaml:"decimals"`
	Supply      *Amount           `yaml:"supply"`
	Holder      string            `yaml:"holder"`
	Allocations map[string]Amount `yaml:"allocations"`
}

type RuneConfig struct {
	Name     string     `yaml:"name"`
	Symbol   string     `yaml:"symbol"`
	Decimals uint8      `yaml:"decimals"`
	Fees     *FeeConfig `yaml:"fees"`
}

// FeeConfig is the transfer fee schedule of the rune.
type FeeConfig struct {
	Vault      string `yaml:"vault"`
	Charity    string `yaml:"charity"`
	Dev        string `yaml:"dev"`
	Bot        string `yaml:"bot"`
	VaultBps   uint64 `yaml:"vault-bps"`
	CharityBps uint64 `yaml:"charity-bps"`
	DevBps     uint64 `yaml:"dev-bps"`
	BotBps     uint64 `yaml:"bot-bps"`
}

type ChefConfig struct {
	Deployer        string          `yaml:"deployer"`
	Dev             string          `yaml:"dev"`
	Vault           string          `yaml:"vault"`
	Charity         string          `yaml:"charity"`
	RewardPerBlock  *Amount         `yaml:"reward-per-block"`
	StartBlock      uint64          `yaml:"start-block"`
	MintPercents    *PercentsConfig `yaml:"mint-percents"`
	DepositPercents *PercentsConfig `yaml:"deposit-percents"`
}

// PercentsConfig are basis points of a fee split.
type PercentsConfig struct {
	Dev     uint64 `yaml:"dev"`
	Vault   uint64 `yaml:"vault"`
	Charity uint64 `yaml:"charity"`
}

type PoolConfig struct {
	Token         string `yaml:"token"`
	Weight        uint64 `yaml:"weight"`
	DepositFeeBps uint64 `yaml:"deposit-fee-bps"`
}

// Amount is a token amount written in decimal or 0x prefixed hex.
type Amount struct {
	uint256.Int
}

func NewAmount(v uint64) *Amount {
	var a Amount
	a.SetUint64(v)
	return &a
}

func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.Errorf("line %d: amount must be a scalar", node.Line)
	}
	return errors.WithMessagef(a.parse(node.Value), "line %d", node.Line)
}

func (a Amount) MarshalYAML() (any, error) {
	return a.Dec(), nil
}

func (a *Amount) parse(s string) error {
	s = strings.ReplaceAll(s, "_", "")
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return a.SetFromHex(s)
	}
	return a.SetFromDecimal(s)
}

// ParseAmount parses a decimal or 0x prefixed hex amount.
func ParseAmount(s string) (*uint256.Int, error) {
	var a Amount
	if err := a.parse(s); err != nil {
		return nil, errors.WithMessagef(err, "amount %q", s)
	}
	return &a.Int, nil
}

// amount returns a copy of a, zero when nil.
func (a *Amount) amount() *uint256.Int {
	if a == nil {
		return new(uint256.Int)
	}
	return a.Int.Clone()
}

// Decode reads a config from YAML. Unknown fields are rejected.
func Decode(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode genesis")
	}
	return &cfg, nil
}

// Load reads a config from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read genesis")
	}
	return Decode(data)
}
