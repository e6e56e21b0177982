// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rune implements the reward token: a fungible token whose minting
// is owner gated and can be switched off forever, and whose transfers pay a
// fee schedule administered by the dev role.
package rune

import (
	"github.com/holiman/uint256"

	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/ownable"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/builtin/solidity"
	"github.com/runefarm/chef/builtin/token"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/state"
)

var (
	slotMintState = farm.Slot("rune-mint-state")
	slotDev       = farm.Slot("rune-dev")
	slotFeeInfo   = farm.Slot("rune-fee-info")

	logger = log.WithContext("pkg", "rune")
)

// Rune implements native methods of the reward token.
type Rune struct {
	*token.Token

	ownable   *ownable.Ownable
	mintState *solidity.Raw[uint8]
	dev       *solidity.Address
	fees      *solidity.Raw[*FeeInfo]
	receivers Receivers
}

// New creates a rune bound to addr. receivers may be nil, in which case no
// bot fee notification happens.
func New(addr farm.Address, state *state.State, charger *gascharger.Charger, receivers Receivers) *Rune {
	sctx := solidity.NewContext(addr, state, charger)
	return &Rune{
		Token:     token.New(addr, state, charger),
		ownable:   ownable.New(sctx),
		mintState: solidity.NewRaw[uint8](sctx, slotMintState),
		dev:       solidity.NewAddress(sctx, slotDev),
		fees:      solidity.NewRaw[*FeeInfo](sctx, slotFeeInfo),
		receivers: receivers,
	}
}

// Initialize sets metadata and makes deployer the owner.
func (r *Rune) Initialize(deployer farm.Address, meta token.Metadata) error {
	if err := r.Token.Initialize(meta); err != nil {
		return err
	}
	return r.ownable.Initialize(deployer)
}

//
// Ownership
//

func (r *Rune) Owner() (farm.Address, error) { return r.ownable.Owner() }

func (r *Rune) PendingOwner() (farm.Address, error) { return r.ownable.PendingOwner() }

func (r *Rune) TransferOwnership(caller, to farm.Address) error {
	return r.ownable.TransferOwnership(caller, to)
}

func (r *Rune) AcceptOwnership(caller farm.Address) error {
	return r.ownable.AcceptOwnership(caller)
}

//
// Minting
//

func (r *Rune) MintState() (MintState, error) {
	b, err := r.mintState.Get()
	if err != nil {
		return nil, err
	}
	return decodeMintState(b), nil
}

func (r *Rune) Mintable() (bool, error) {
	s, err := r.MintState()
	if err != nil {
		return false, err
	}
	return s.IsMintable(), nil
}

// Mint creates amount new tokens for to. The mint state is checked before
// the caller so a disabled rune reports MintingDisabled to everyone.
func (r *Rune) Mint(caller, to farm.Address, amount *uint256.Int) error {
	s, err := r.MintState()
	if err != nil {
		return err
	}
	if !s.IsMintable() {
		return reverts.New(reverts.MintingDisabled, "minting has been forever disabled")
	}
	if err := r.ownable.RequireOwner(caller); err != nil {
		return err
	}
	if err := r.Token.Mint(to, amount); err != nil {
		return err
	}
	logger.Debug("minted", "to", to, "amount", amount)
	return nil
}

// DisableMintingForever trips the one-way mint switch. Dev only.
func (r *Rune) DisableMintingForever(caller farm.Address) error {
	if err := r.requireDev(caller); err != nil {
		return err
	}
	s, err := r.MintState()
	if err != nil {
		return err
	}
	if m, ok := s.(Mintable); ok {
		if err := r.mintState.Set(m.Disable().encode()); err != nil {
			return err
		}
		logger.Info("minting disabled forever", "rune", r.Address())
	}
	return nil
}

//
// Dev role
//

func (r *Rune) DevAddress() (farm.Address, error) {
	return r.dev.Get()
}

func (r *Rune) requireDev(caller farm.Address) error {
	dev, err := r.dev.Get()
	if err != nil {
		return err
	}
	if dev.IsZero() || dev != caller {
		return reverts.New(reverts.Unauthorized, "dev: wut?")
	}
	return nil
}

// SetDevAddress hands the dev role over. While no dev is set the owner
// assigns the first one. The role cannot be handed to the zero address.
func (r *Rune) SetDevAddress(caller, newDev farm.Address) error {
	dev, err := r.dev.Get()
	if err != nil {
		return err
	}
	if dev.IsZero() {
		if err := r.ownable.RequireOwner(caller); err != nil {
			return err
		}
	} else if dev != caller {
		return reverts.New(reverts.Unauthorized, "dev: wut?")
	}
	if newDev.IsZero() {
		return reverts.New(reverts.Unauthorized, "dev: zero address")
	}
	r.dev.Set(newDev)
	return nil
}

//
// Transfer fees
//

func (r *Rune) FeeInfo() (*FeeInfo, error) {
	return r.fees.Get()
}

func (r *Rune) VaultFee() (uint64, error) {
	f, err := r.fees.Get()
	if err != nil {
		return 0, err
	}
	return f.VaultBps, nil
}

func (r *Rune) CharityFee() (uint64, error) {
	f, err := r.fees.Get()
	if err != nil {
		return 0, err
	}
	return f.CharityBps, nil
}

func (r *Rune) DevFee() (uint64, error) {
	f, err := r.fees.Get()
	if err != nil {
		return 0, err
	}
	return f.DevBps, nil
}

func (r *Rune) BotFee() (uint64, error) {
	f, err := r.fees.Get()
	if err != nil {
		return 0, err
	}
	return f.BotBps, nil
}

// SetFeeInfo replaces the fee schedule atomically. Dev only.
func (r *Rune) SetFeeInfo(caller farm.Address, info FeeInfo) error {
	if err := r.requireDev(caller); err != nil {
		return err
	}
	var sum uint64
	for _, p := range info.portions() {
		if p.bps > farm.MaxBasisPoints {
			return reverts.Newf(reverts.InvalidFeeKind, "fee %d exceeds %d", p.bps, farm.MaxBasisPoints)
		}
		if p.bps > 0 && p.to.IsZero() {
			return reverts.New(reverts.InvalidFeeKind, "fee routed to the zero address")
		}
		sum += p.bps
	}
	if sum > farm.MaxBasisPoints {
		return reverts.Newf(reverts.InvalidFeeKind, "fees sum %d exceeds %d", sum, farm.MaxBasisPoints)
	}
	return r.fees.Set(&info)
}

// Transfer moves amount from caller to to, paying the fee schedule out of it.
func (r *Rune) Transfer(caller, to farm.Address, amount *uint256.Int) error {
	return r.transfer(caller, to, amount)
}

// TransferFrom is Transfer on behalf of from, spending spender's allowance.
func (r *Rune) TransferFrom(spender, from, to farm.Address, amount *uint256.Int) error {
	if err := r.SpendAllowance(from, spender, amount); err != nil {
		return err
	}
	return r.transfer(from, to, amount)
}

func (r *Rune) transfer(from, to farm.Address, amount *uint256.Int) error {
	if to.IsZero() {
		return reverts.New(reverts.TransferFailure, "transfer to the zero address")
	}
	bal, err := r.BalanceOf(from)
	if err != nil {
		return err
	}
	if bal.Lt(amount) {
		return reverts.Newf(reverts.TransferFailure, "balance %v of %v below %v", bal, from, amount)
	}
	fees, err := r.fees.Get()
	if err != nil {
		return err
	}

	net := new(uint256.Int).Set(amount)
	for _, p := range fees.portions() {
		if p.bps == 0 {
			continue
		}
		fee, _ := new(uint256.Int).MulDivOverflow(amount, uint256.NewInt(p.bps), farm.BasisPoints)
		if fee.IsZero() {
			continue
		}
		if err := r.Move(from, p.to, fee); err != nil {
			return err
		}
		net.Sub(net, fee)
		if p.bot {
			if err := r.notify(p.to, from, fee); err != nil {
				return err
			}
		}
	}
	return r.Move(from, to, net)
}

func (r *Rune) notify(to, from farm.Address, amount *uint256.Int) error {
	if r.receivers == nil {
		return nil
	}
	rcv, err := r.receivers.Receiver(to)
	if err != nil {
		return err
	}
	if rcv == nil {
		return nil
	}
	return rcv.OnTokenReceived(r.Address(), from, amount)
}
