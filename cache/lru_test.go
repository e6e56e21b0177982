// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLRUInvalidSize(t *testing.T) {
	_, err := NewLRU[string, int](0)
	assert.Error(t, err)
}

func TestLRU(t *testing.T) {
	c, err := NewLRU[string, []byte](2)
	require.NoError(t, err)

	c.Add("a", []byte{1})
	c.Add("b", []byte{2})
	c.Add("c", []byte{3})
	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest entry evicted")
	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, []byte{3}, v)

	c.Remove("c")
	_, ok = c.Get("c")
	assert.False(t, ok)

	_, hit, miss := c.Stats().Stats()
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(2), miss)

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrLoad(t *testing.T) {
	c, _ := NewLRU[int, string](8)

	loads := 0
	load := func(k int) (string, error) {
		loads++
		if k < 0 {
			return "", errors.New("negative")
		}
		return "v", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.GetOrLoad(1, load)
		require.NoError(t, err)
		assert.Equal(t, "v", v)
	}
	assert.Equal(t, 1, loads)

	_, err := c.GetOrLoad(-1, load)
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len(), "failed loads are not cached")
}

func TestCacheStats(t *testing.T) {
	cs := &Stats{}
	cs.Hit()
	cs.Miss()
	changed, hit, miss := cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(1), hit)
	assert.Equal(t, int64(1), miss)

	changed, _, _ = cs.Stats()
	assert.False(t, changed)

	cs.Hit()
	changed, hit, _ = cs.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(2), hit)
}
