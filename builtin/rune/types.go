// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package rune

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/farm"
)

// MintState is either Mintable or PermanentlyDisabled. Only Mintable
// offers a transition, so minting cannot be re-enabled.
type MintState interface {
	IsMintable() bool
	encode() uint8
}

type Mintable struct{}

func (Mintable) IsMintable() bool { return true }
func (Mintable) encode() uint8    { return 0 }

// Disable trips the one-way switch.
func (Mintable) Disable() PermanentlyDisabled { return PermanentlyDisabled{} }

type PermanentlyDisabled struct{}

func (PermanentlyDisabled) IsMintable() bool { return false }
func (PermanentlyDisabled) encode() uint8    { return 1 }

func decodeMintState(b uint8) MintState {
	if b == 0 {
		return Mintable{}
	}
	return PermanentlyDisabled{}
}

// FeeInfo is the transfer fee schedule. Rates are in basis points of the
// transferred amount.
type FeeInfo struct {
	Vault   farm.Address
	Charity farm.Address
	Dev     farm.Address
	Bot     farm.Address

	VaultBps   uint64
	CharityBps uint64
	DevBps     uint64
	BotBps     uint64
}

type feePortion struct {
	to  farm.Address
	bps uint64
	bot bool
}

func (f *FeeInfo) portions() []feePortion {
	return []feePortion{
		{f.Vault, f.VaultBps, false},
		{f.Charity, f.CharityBps, false},
		{f.Dev, f.DevBps, false},
		{f.Bot, f.BotBps, true},
	}
}

// Receiver is a contract notified when it is credited a bot fee.
type Receiver interface {
	OnTokenReceived(token, from farm.Address, amount *uint256.Int) error
}

// Receivers resolves the receiver deployed at an address, nil if none.
type Receivers interface {
	Receiver(addr farm.Address) (Receiver, error)
}
