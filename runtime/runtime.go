// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes calls against the farm contracts. Every call runs
// inside a state checkpoint and is reverted as a whole when it fails.
package runtime

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/builtin/gascharger"
	"github.com/runefarm/chef/builtin/reverts"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/kv"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/state"
)

var logger = log.WithContext("pkg", "runtime")

// Receipt is the outcome of an executed call.
type Receipt struct {
	Name     string
	Caller   farm.Address
	BlockNum uint64
	GasUsed  uint64
	Reverted bool
	Err      error
}

// Runtime owns the state and the block clock of the farm.
type Runtime struct {
	mu       sync.Mutex
	state    *state.State
	blockNum uint64
}

// New creates a runtime over st, resuming at the persisted block number.
func New(st *state.State) (*Runtime, error) {
	n, err := builtin.NewBlockNumber(st, nil).Get()
	if err != nil {
		return nil, errors.Wrap(err, "load block number")
	}
	metricBlockHeight().Set(int64(n))
	return &Runtime{state: st, blockNum: n}, nil
}

func (rt *Runtime) State() *state.State { return rt.state }

func (rt *Runtime) BlockNumber() uint64 {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.blockNum
}

// AdvanceTo moves the clock to block n. The clock never goes backwards.
func (rt *Runtime) AdvanceTo(n uint64) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.advanceTo(n)
}

// Mine advances the clock by k blocks.
func (rt *Runtime) Mine(k uint64) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	if rt.blockNum+k < rt.blockNum {
		return errors.New("block number overflow")
	}
	return rt.advanceTo(rt.blockNum + k)
}

func (rt *Runtime) advanceTo(n uint64) error {
	if n < rt.blockNum {
		return errors.Errorf("cannot go back from block %d to %d", rt.blockNum, n)
	}
	if n == rt.blockNum {
		return nil
	}
	if err := builtin.NewBlockNumber(rt.state, nil).Set(n); err != nil {
		return err
	}
	rt.blockNum = n
	metricBlockHeight().Set(int64(n))
	return nil
}

// Exec runs fn on behalf of caller at the current block. All effects of fn
// are discarded when it returns an error, which is reported in the receipt.
func (rt *Runtime) Exec(name string, caller farm.Address, fn func(env *Env) error) *Receipt {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	var (
		start   = time.Now()
		charger = gascharger.New()
		env     = newEnv(rt.state, charger, caller, rt.blockNum)
		cp      = rt.state.NewCheckpoint()
		err     = fn(env)
	)
	receipt := &Receipt{
		Name:     name,
		Caller:   caller,
		BlockNum: rt.blockNum,
		GasUsed:  charger.TotalGas(),
	}
	outcome := "success"
	if err == nil {
		rt.state.Merge(cp)
	} else {
		rt.state.RevertTo(cp)
		receipt.Reverted = true
		receipt.Err = err
		outcome = "reverted"
		if !reverts.IsRevertErr(err) {
			outcome = "failed"
		}
	}

	metricExecCount().AddWithLabel(1, map[string]string{"name": name, "outcome": outcome})
	metricExecGas().Observe(int64(receipt.GasUsed))
	logger.Debug("executed", "name", name, "caller", caller, "block", rt.blockNum,
		"gas", receipt.GasUsed, "reverted", receipt.Reverted, "elapsed", time.Since(start))
	if logger.Enabled(context.Background(), log.LevelTrace) {
		logger.Trace("gas breakdown", "name", name, "breakdown", charger.Breakdown())
	}
	return receipt
}

// View runs fn read-only at the current block. Whatever fn writes is discarded.
func (rt *Runtime) View(fn func(env *Env) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	cp := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(cp)
	return fn(newEnv(rt.state, nil, farm.Address{}, rt.blockNum))
}

// Commit persists all changes made so far into store.
func (rt *Runtime) Commit(store kv.Store) (int, error) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	stage := rt.state.Stage()
	if err := stage.Commit(store); err != nil {
		return 0, err
	}
	logger.Info("state committed", "entries", stage.Len(), "block", rt.blockNum)
	return stage.Len(), nil
}
