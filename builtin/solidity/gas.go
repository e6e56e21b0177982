// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

// slots returns the number of 32-byte words an encoded value occupies.
func slots(length int) uint64 {
	return (uint64(length) + 31) / 32
}
