// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/runefarm/chef/cache"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/kv"
	"github.com/runefarm/chef/stackedmap"
)

const readCacheSize = 4096

var (
	storageBucket = kv.Bucket("s")
	codeBucket    = kv.Bucket("c")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

// Cause returns the underlying failure.
func (e *Error) Cause() error { return e.cause }

type stateKey struct {
	bucket kv.Bucket
	addr   farm.Address
	key    farm.Bytes32
}

// bucketKey is the persisted form of k within its bucket: address | slot.
// Code entries omit the slot.
func (k stateKey) bucketKey() []byte {
	if k.bucket == codeBucket {
		return append([]byte(nil), k.addr[:]...)
	}
	return append(append(make([]byte, 0, len(k.addr)+len(k.key)), k.addr[:]...), k.key[:]...)
}

// State manages contract storage and codes.
type State struct {
	db    map[kv.Bucket]kv.Getter
	cache *cache.LRU[stateKey, []byte]
	sm    *stackedmap.StackedMap[stateKey, []byte]
}

// New creates a state backed by db. A nil db means an empty backing store.
func New(db kv.Getter) *State {
	c, _ := cache.NewLRU[stateKey, []byte](readCacheSize)
	s := &State{cache: c}
	if db != nil {
		s.db = map[kv.Bucket]kv.Getter{
			storageBucket: storageBucket.NewGetter(db),
			codeBucket:    codeBucket.NewGetter(db),
		}
	}
	s.sm = stackedmap.New(s.load)
	return s
}

// load implements stackedmap.MapGetter.
func (s *State) load(key stateKey) ([]byte, bool, error) {
	if s.db == nil {
		return nil, true, nil
	}
	if v, ok := s.cache.Get(key); ok {
		metricCacheCounter().AddWithLabel(1, map[string]string{"event": "hit"})
		return v, true, nil
	}
	metricCacheCounter().AddWithLabel(1, map[string]string{"event": "miss"})

	db := s.db[key.bucket]
	v, err := db.Get(key.bucketKey())
	if err != nil {
		if !db.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	s.cache.Add(key, v)
	return v, true, nil
}

// GetStorage returns storage value for the given address and key.
func (s *State) GetStorage(addr farm.Address, key farm.Bytes32) (farm.Bytes32, error) {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return farm.Bytes32{}, err
	}
	if len(raw) == 0 {
		return farm.Bytes32{}, nil
	}
	kind, content, _, err := rlp.Split(raw)
	if err != nil {
		return farm.Bytes32{}, &Error{err}
	}
	if kind == rlp.List {
		// structured value, represented by its hash
		return farm.Blake2b(raw), nil
	}
	return farm.BytesToBytes32(content), nil
}

// SetStorage sets storage value for the given address and key.
func (s *State) SetStorage(addr farm.Address, key, value farm.Bytes32) {
	if value.IsZero() {
		s.SetRawStorage(addr, key, nil)
		return
	}
	v, _ := rlp.EncodeToBytes(bytes.TrimLeft(value[:], "\x00"))
	s.SetRawStorage(addr, key, v)
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr farm.Address, key farm.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(stateKey{storageBucket, addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage sets storage value in rlp raw.
func (s *State) SetRawStorage(addr farm.Address, key farm.Bytes32, raw rlp.RawValue) {
	s.sm.Put(stateKey{storageBucket, addr, key}, raw)
}

// EncodeStorage sets storage value encoded by given enc method.
func (s *State) EncodeStorage(addr farm.Address, key farm.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage gets and decodes storage value.
func (s *State) DecodeStorage(addr farm.Address, key farm.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// GetCode returns code for the given address.
func (s *State) GetCode(addr farm.Address) ([]byte, error) {
	v, _, err := s.sm.Get(stateKey{bucket: codeBucket, addr: addr})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetCode sets code for the given address.
func (s *State) SetCode(addr farm.Address, code []byte) {
	s.sm.Put(stateKey{bucket: codeBucket, addr: addr}, append([]byte(nil), code...))
}

// Exists returns whether code is deployed at the given address.
func (s *State) Exists(addr farm.Address) (bool, error) {
	code, err := s.GetCode(addr)
	if err != nil {
		return false, err
	}
	return len(code) > 0, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo reverts to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
}

// Merge releases the checkpoint specified by revision and every one made
// after it. Changes since then are kept.
func (s *State) Merge(revision int) {
	s.sm.MergeTo(revision)
}

// Stage collects the cumulative changes since the state was created.
func (s *State) Stage() *Stage {
	changes := make(map[stateKey][]byte)
	s.sm.Journal(func(k stateKey, v []byte) bool {
		changes[k] = v
		return true
	})
	return &Stage{changes: changes}
}
