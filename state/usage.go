// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/kv"
)

// Usage is what a contract holds in a persisted store.
type Usage struct {
	Code  []byte
	Slots int
}

// ScanUsage walks the persisted state in store and reports the code and
// slot count of every address holding either.
func ScanUsage(store kv.Store) (map[farm.Address]*Usage, error) {
	usage := make(map[farm.Address]*Usage)
	at := func(key []byte) *Usage {
		addr := farm.BytesToAddress(key[:farm.AddressLength])
		u, ok := usage[addr]
		if !ok {
			u = &Usage{}
			usage[addr] = u
		}
		return u
	}

	for _, b := range []kv.Bucket{codeBucket, storageBucket} {
		if err := func() error {
			it := store.NewIterator(b.Range())
			defer it.Release()
			for it.Next() {
				key, _ := b.Trim(it.Key())
				if len(key) < farm.AddressLength {
					return errors.Errorf("malformed state key %x", it.Key())
				}
				u := at(key)
				if b == codeBucket {
					u.Code = append([]byte(nil), it.Value()...)
				} else {
					u.Slots++
				}
			}
			return it.Error()
		}(); err != nil {
			return nil, errors.Wrap(err, "scan state")
		}
	}
	return usage, nil
}
