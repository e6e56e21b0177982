// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chef

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
)

// bps returns floor(amount * rate / 10000).
func bps(amount *uint256.Int, rate uint64) (*uint256.Int, error) {
	if rate == 0 || amount.IsZero() {
		return new(uint256.Int), nil
	}
	out, overflow := new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(rate), farm.BasisPoints)
	if overflow {
		return nil, reverts.New(reverts.ArithmeticOverflow, "basis points")
	}
	return out, nil
}

type share struct {
	to     farm.Address
	amount *uint256.Int
}

// split divides amount per p. The shares never exceed amount, the
// remainder is returned as rest.
func (p Percents) split(amount *uint256.Int, dev, vault, charity farm.Address) ([]share, *uint256.Int, error) {
	rest := new(uint256.Int).Set(amount)
	shares := make([]share, 0, 3)
	for _, s := range []struct {
		to   farm.Address
		rate uint64
	}{{dev, p.Dev}, {vault, p.Vault}, {charity, p.Charity}} {
		part, err := bps(amount, s.rate)
		if err != nil {
			return nil, nil, err
		}
		if part.IsZero() {
			continue
		}
		rest.Sub(rest, part)
		shares = append(shares, share{s.to, part})
	}
	return shares, rest, nil
}
