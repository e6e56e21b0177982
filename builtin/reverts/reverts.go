// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the failures a builtin contract call can revert with.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	Unauthorized Kind = iota + 1
	MintingDisabled
	InvalidFeeKind
	InsufficientStake
	TransferFailure
	InvalidPool
	ArithmeticOverflow
)

var kindNames = map[Kind]string{
	Unauthorized:       "unauthorized",
	MintingDisabled:    "minting disabled",
	InvalidFeeKind:     "invalid fee",
	InsufficientStake:  "insufficient stake",
	TransferFailure:    "transfer failure",
	InvalidPool:        "invalid pool",
	ArithmeticOverflow: "arithmetic overflow",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ErrRevert is returned by contract methods whose preconditions fail.
// The runtime discards all effects of a call that returned one.
type ErrRevert struct {
	kind    Kind
	message string
}

// New creates a revert of the given kind.
func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{kind: kind, message: message}
}

// Newf creates a revert of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Kind() Kind { return e.kind }

func (e *ErrRevert) Message() string { return e.message }

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.kind.String() + ": " + e.message
}

// IsRevertErr reports whether err is or wraps a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Is reports whether err is or wraps a revert of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf returns the kind of the revert carried by err, zero if none.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return 0
}
