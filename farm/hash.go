// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farm

import (
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2b computes the blake2b-256 checksum of the concatenated data.
// Storage mappings derive entry positions with it.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	h, _ := blake2b.New256(nil)
	for _, b := range data {
		h.Write(b)
	}
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// Keccak256 computes the legacy keccak-256 checksum of the concatenated data.
func Keccak256(data ...[]byte) Bytes32 {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	var out Bytes32
	h.Sum(out[:0])
	return out
}

// Slot returns the storage position of a named contract variable, the
// keccak-256 of its name.
func Slot(name string) Bytes32 {
	return Keccak256([]byte(name))
}
