// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the contract storage of the farm.
// It follows the flow as below:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ stage ] -> [ kv batch ]
//	         |
//	   [ lru cache ]
//	         |
//	  [ read-only kv ]
//
// Every contract owns a flat key space of 32-byte slots holding rlp
// encoded values, plus a code tag naming the contract kind deployed at the
// address. Empty values are equivalent to absent ones.
package state
