// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/lvldb"
)

func TestStorage(t *testing.T) {
	st := New(nil)
	addr := farm.BytesToAddress([]byte("acc"))
	key := farm.BytesToBytes32([]byte("slot"))

	v, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.True(t, v.IsZero())

	value := farm.BytesToBytes32([]byte{1, 2})
	st.SetStorage(addr, key, value)
	v, err = st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, value, v)

	raw, err := st.GetRawStorage(addr, key)
	require.NoError(t, err)
	expected, _ := rlp.EncodeToBytes([]byte{1, 2})
	assert.Equal(t, rlp.RawValue(expected), raw)

	st.SetStorage(addr, key, farm.Bytes32{})
	raw, err = st.GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestStructuredStorage(t *testing.T) {
	st := New(nil)
	addr := farm.BytesToAddress([]byte("acc"))
	key := farm.BytesToBytes32([]byte("list"))

	type pair struct{ A, B uint64 }
	require.NoError(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(&pair{1, 2})
	}))

	var got pair
	require.NoError(t, st.DecodeStorage(addr, key, func(raw []byte) error {
		return rlp.DecodeBytes(raw, &got)
	}))
	assert.Equal(t, pair{1, 2}, got)

	raw, _ := st.GetRawStorage(addr, key)
	h, err := st.GetStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, farm.Blake2b(raw), h)

	err = st.DecodeStorage(addr, key, func([]byte) error { return assert.AnError })
	var stateErr *Error
	assert.ErrorAs(t, err, &stateErr)
}

func TestCheckpoint(t *testing.T) {
	st := New(nil)
	addr := farm.BytesToAddress([]byte("acc"))
	k1 := farm.BytesToBytes32([]byte("k1"))
	k2 := farm.BytesToBytes32([]byte("k2"))

	st.SetStorage(addr, k1, farm.BytesToBytes32([]byte{1}))
	cp := st.NewCheckpoint()

	st.SetStorage(addr, k1, farm.BytesToBytes32([]byte{2}))
	st.SetStorage(addr, k2, farm.BytesToBytes32([]byte{3}))
	st.SetCode(addr, []byte("rune"))

	st.RevertTo(cp)

	v, _ := st.GetStorage(addr, k1)
	assert.Equal(t, farm.BytesToBytes32([]byte{1}), v)
	v, _ = st.GetStorage(addr, k2)
	assert.True(t, v.IsZero())
	exists, err := st.Exists(addr)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMerge(t *testing.T) {
	st := New(nil)
	addr := farm.BytesToAddress([]byte("acc"))
	k1 := farm.BytesToBytes32([]byte("k1"))

	outer := st.NewCheckpoint()
	st.SetStorage(addr, k1, farm.BytesToBytes32([]byte{1}))
	inner := st.NewCheckpoint()
	st.SetStorage(addr, k1, farm.BytesToBytes32([]byte{2}))
	st.Merge(inner)

	assert.Equal(t, inner, st.NewCheckpoint())
	st.RevertTo(inner)
	v, _ := st.GetStorage(addr, k1)
	assert.Equal(t, farm.BytesToBytes32([]byte{2}), v)
	assert.Equal(t, 1, st.Stage().Len())

	st.RevertTo(outer)
	v, _ = st.GetStorage(addr, k1)
	assert.True(t, v.IsZero())
	assert.Equal(t, 0, st.Stage().Len())
}

func TestStageCommit(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	addr := farm.BytesToAddress([]byte("chef"))
	k1 := farm.BytesToBytes32([]byte("k1"))
	k2 := farm.BytesToBytes32([]byte("k2"))

	st := New(db)
	st.SetCode(addr, []byte("chef"))
	st.SetStorage(addr, k1, farm.BytesToBytes32([]byte{7}))
	st.SetStorage(addr, k2, farm.BytesToBytes32([]byte{8}))

	stage := st.Stage()
	assert.Equal(t, 3, stage.Len())
	require.NoError(t, stage.Commit(db))

	st = New(db)
	code, err := st.GetCode(addr)
	require.NoError(t, err)
	assert.Equal(t, []byte("chef"), code)
	v, _ := st.GetStorage(addr, k1)
	assert.Equal(t, farm.BytesToBytes32([]byte{7}), v)

	// clearing a slot deletes the persisted entry
	st.SetStorage(addr, k2, farm.Bytes32{})
	require.NoError(t, st.Stage().Commit(db))

	has, err := db.Has(storageBucket.Key(stateKey{storageBucket, addr, k2}.bucketKey()))
	require.NoError(t, err)
	assert.False(t, has)

	st = New(db)
	v, _ = st.GetStorage(addr, k2)
	assert.True(t, v.IsZero())
	v, _ = st.GetStorage(addr, k1)
	assert.False(t, v.IsZero())
	_, hit, miss := st.cache.Stats().Stats()
	assert.Equal(t, int64(0), hit)
	assert.Equal(t, int64(2), miss)
}

func TestScanUsage(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	chef := farm.BytesToAddress([]byte("chef"))
	tok := farm.BytesToAddress([]byte("token"))

	st := New(db)
	st.SetCode(chef, []byte("chef"))
	for i := 0; i < 3; i++ {
		st.SetStorage(chef, farm.BytesToBytes32([]byte{byte(i)}), farm.BytesToBytes32([]byte{1}))
	}
	st.SetStorage(tok, farm.BytesToBytes32([]byte("supply")), farm.BytesToBytes32([]byte{9}))
	require.NoError(t, st.Stage().Commit(db))

	usage, err := ScanUsage(db)
	require.NoError(t, err)
	require.Len(t, usage, 2)
	assert.Equal(t, []byte("chef"), usage[chef].Code)
	assert.Equal(t, 3, usage[chef].Slots)
	assert.Empty(t, usage[tok].Code)
	assert.Equal(t, 1, usage[tok].Slots)
}
