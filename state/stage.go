// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/pkg/errors"

	"github.com/runefarm/chef/kv"
)

// Stage holds the changes of a state ready to be written.
type Stage struct {
	changes map[stateKey][]byte
}

// Len returns the number of changed entries.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Commit writes all changes into store in a single batch.
func (s *Stage) Commit(store kv.Store) error {
	batch := store.NewBatch()
	putters := map[kv.Bucket]kv.Putter{
		storageBucket: storageBucket.NewPutter(batch),
		codeBucket:    codeBucket.NewPutter(batch),
	}
	for k, v := range s.changes {
		var err error
		if len(v) == 0 {
			err = putters[k.bucket].Delete(k.bucketKey())
		} else {
			err = putters[k.bucket].Put(k.bucketKey(), v)
		}
		if err != nil {
			return errors.Wrap(err, "stage")
		}
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "commit stage")
	}
	metricCommittedCounter().Add(int64(len(s.changes)))
	return nil
}
