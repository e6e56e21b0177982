// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"bytes"
	"io"
	"net"
	"os"
	"slices"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/runefarm/chef/admin"
	"github.com/runefarm/chef/api"
	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/farm"
	"github.com/runefarm/chef/genesis"
	"github.com/runefarm/chef/kv"
	"github.com/runefarm/chef/lvldb"
	"github.com/runefarm/chef/metrics"
	"github.com/runefarm/chef/runtime"
	"github.com/runefarm/chef/state"
)

func runAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	path := ctx.String(configFlag.Name)
	if path == "" {
		return errors.Errorf("missing -%s", configFlag.Name)
	}
	sc, err := loadScenario(path)
	if err != nil {
		return err
	}

	persist := ctx.Bool(persistFlag.Name)
	var db *lvldb.LevelDB
	if persist {
		dataDir, err := makeDataDir(ctx)
		if err != nil {
			return err
		}
		if db, err = openStateDB(dataDir, false); err != nil {
			return err
		}
	} else if db, err = lvldb.NewMem(); err != nil {
		return err
	}
	defer db.Close()

	rt, err := openRuntime(db, false)
	if err != nil {
		return err
	}
	book, err := genesis.Build(rt, sc.Genesis)
	if err != nil {
		return errors.WithMessage(err, "build genesis")
	}

	p := &player{rt: rt, book: book, out: os.Stdout}
	if err := p.play(sc.Steps); err != nil {
		return err
	}
	if persist {
		if _, err := rt.Commit(db); err != nil {
			return errors.WithMessage(err, "commit state")
		}
	}
	return printFarm(os.Stdout, rt, book)
}

func inspectAction(ctx *cli.Context) error {
	if _, err := initLogger(ctx); err != nil {
		return err
	}
	db, err := openStateDB(ctx.String(dataDirFlag.Name), true)
	if err != nil {
		return err
	}
	defer db.Close()

	rt, err := openRuntime(db, true)
	if err != nil {
		return err
	}
	book := genesis.NewBook(nil)
	if err := printFarm(os.Stdout, rt, book); err != nil {
		return err
	}
	return printUsage(os.Stdout, db, book)
}

func serveAction(ctx *cli.Context) error {
	logLevel, err := initLogger(ctx)
	if err != nil {
		return err
	}
	enableMetrics := ctx.Bool(enableMetricsFlag.Name)
	if enableMetrics {
		metrics.InitializePrometheusMetrics()
	}

	db, err := openStateDB(ctx.String(dataDirFlag.Name), true)
	if err != nil {
		return err
	}
	defer db.Close()

	rt, err := openRuntime(db, true)
	if err != nil {
		return err
	}

	enableReqLogger := &atomic.Bool{}
	enableReqLogger.Store(ctx.Bool(enableAPILogsFlag.Name))
	apiHandler := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      enableReqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        enableMetrics,
	})
	timeout := time.Duration(ctx.Uint64(apiTimeoutFlag.Name)) * time.Millisecond

	exitCtx, cancel := handleExitSignal()
	defer cancel()
	g, gctx := errgroup.WithContext(exitCtx)

	apiListener, err := listen(ctx.String(apiAddrFlag.Name))
	if err != nil {
		return err
	}
	logger.Info("API server started", "url", "http://"+apiListener.Addr().String()+"/", "block", rt.BlockNumber())
	g.Go(func() error {
		return serveAPI(gctx, apiListener, apiHandler, timeout)
	})

	if addr := ctx.String(adminAddrFlag.Name); addr != "" {
		adminListener, err := listen(addr)
		if err != nil {
			cancel()
			_ = g.Wait()
			return err
		}
		logger.Info("admin server started", "url", "http://"+adminListener.Addr().String()+"/admin")
		g.Go(func() error {
			return serveAPI(gctx, adminListener, admin.HTTPHandler(logLevel, enableReqLogger), timeout)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("exited")
	return nil
}

func listen(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listen addr [%v]", addr)
	}
	return listener, nil
}

// printFarm writes the chef configuration and its pools.
func printFarm(w io.Writer, rt *runtime.Runtime, book *genesis.Book) error {
	return rt.View(func(env *runtime.Env) error {
		c, err := env.ChefAt(builtin.Chef)
		if err != nil {
			return err
		}
		rate, err := c.RewardPerBlock()
		if err != nil {
			return err
		}
		start, err := c.StartBlock()
		if err != nil {
			return err
		}
		dev, err := c.DevAddress()
		if err != nil {
			return err
		}
		weight, err := c.TotalAllocationWeight()
		if err != nil {
			return err
		}
		mint, err := c.MintPercents()
		if err != nil {
			return err
		}
		deposit, err := c.DepositPercents()
		if err != nil {
			return err
		}
		n, err := c.PoolLength()
		if err != nil {
			return err
		}

		printf(w, "block:            %d\n", env.BlockNumber())
		printf(w, "reward per block: %s\n", rate.Dec())
		printf(w, "start block:      %d\n", start)
		printf(w, "dev:              %s\n", book.Name(dev))
		printf(w, "mint percents:    dev=%d vault=%d charity=%d\n", mint.Dev, mint.Vault, mint.Charity)
		printf(w, "deposit percents: dev=%d vault=%d charity=%d\n", deposit.Dev, deposit.Vault, deposit.Charity)
		printf(w, "total weight:     %d\n\n", weight)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		printf(tw, "PID\tTOKEN\tWEIGHT\tFEE BPS\tLAST REWARD\tSTAKED\tACC PER SHARE\n")
		for pid := uint64(0); pid < n; pid++ {
			pool, err := c.Pool(pid)
			if err != nil {
				return err
			}
			printf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n", pid, symbolOf(env, book, pool.StakingToken), pool.AllocWeight,
				pool.DepositFeeBps, pool.LastRewardBlock, pool.TotalStaked.Dec(), pool.AccRewardPerShare.Dec())
		}
		return tw.Flush()
	})
}

// symbolOf names a token by its symbol, falling back to the book.
func symbolOf(env *runtime.Env, book *genesis.Book, addr farm.Address) string {
	if tok, err := env.TokenAt(addr); err == nil {
		if meta, err := tok.Metadata(); err == nil {
			return meta.Symbol
		}
	}
	return book.Name(addr)
}

// printUsage writes the code and slot count of every contract in store.
func printUsage(w io.Writer, store kv.Store, book *genesis.Book) error {
	usage, err := state.ScanUsage(store)
	if err != nil {
		return err
	}
	addrs := make([]farm.Address, 0, len(usage))
	for addr := range usage {
		addrs = append(addrs, addr)
	}
	slices.SortFunc(addrs, func(a, b farm.Address) int {
		return bytes.Compare(a[:], b[:])
	})

	printf(w, "\n")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	printf(tw, "ADDRESS\tNAME\tCODE\tSLOTS\n")
	for _, addr := range addrs {
		u := usage[addr]
		printf(tw, "%v\t%s\t%s\t%d\n", addr, book.Name(addr), u.Code, u.Slots)
	}
	return tw.Flush()
}
