// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runefarm/chef/kv"
	"github.com/runefarm/chef/lvldb"
)

func TestBucket(t *testing.T) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	defer db.Close()

	b := kv.Bucket("s")
	putter := b.NewPutter(db)
	getter := b.NewGetter(db)

	assert.NoError(t, putter.Put([]byte("k"), []byte("v")))

	val, err := getter.Get([]byte("k"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	// stored with prefix in the source store
	val, err = db.Get([]byte("sk"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
	assert.Equal(t, []byte("sk"), b.Key([]byte("k")))

	has, err := getter.Has([]byte("k"))
	assert.NoError(t, err)
	assert.True(t, has)

	assert.NoError(t, putter.Delete([]byte("k")))
	_, err = getter.Get([]byte("k"))
	assert.True(t, getter.IsNotFound(err))

	trimmed, ok := b.Trim([]byte("sk"))
	assert.True(t, ok)
	assert.Equal(t, []byte("k"), trimmed)
	_, ok = b.Trim([]byte("tk"))
	assert.False(t, ok)

	r := b.Range()
	assert.Equal(t, []byte("s"), r.From)
	assert.Equal(t, []byte("t"), r.To)
}
