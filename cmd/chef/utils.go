// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/runefarm/chef/builtin"
	"github.com/runefarm/chef/log"
	"github.com/runefarm/chef/lvldb"
	"github.com/runefarm/chef/runtime"
	"github.com/runefarm/chef/state"
)

const stateDBName = "state.db"

func initLogger(ctx *cli.Context) (*slog.LevelVar, error) {
	verbosity := ctx.Uint64(verbosityFlag.Name)
	if verbosity > log.LegacyLevelTrace {
		return nil, errors.Errorf("invalid verbosity %d", verbosity)
	}
	lvl := &slog.LevelVar{}
	lvl.Set(log.FromLegacyLevel(int(verbosity)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, lvl)
	} else {
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, lvl, useColor(os.Stderr))
	}
	log.SetDefault(log.NewLogger(handler))
	return lvl, nil
}

func useColor(f *os.File) bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".org.runefarm.chef")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func makeDataDir(ctx *cli.Context) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create data dir [%v]", dataDir)
	}
	return dataDir, nil
}

func openStateDB(dataDir string, readOnly bool) (*lvldb.LevelDB, error) {
	path := filepath.Join(dataDir, stateDBName)
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
		ReadOnly:               readOnly,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open state database [%v]", path)
	}
	return db, nil
}

// openRuntime opens a runtime over db. When requireFarm is set the db must
// hold a built farm.
func openRuntime(db *lvldb.LevelDB, requireFarm bool) (*runtime.Runtime, error) {
	st := state.New(db)
	_, err := builtin.CodeAt(st, builtin.Chef)
	switch {
	case err == nil && !requireFarm:
		return nil, errors.New("data dir already holds a farm")
	case err != nil && requireFarm:
		return nil, errors.Wrap(err, "data dir holds no farm, use 'run --persist' first")
	case err != nil && !errors.Is(err, builtin.ErrNotDeployed):
		return nil, err
	}
	return runtime.New(st)
}

// serveAPI serves handler on listener until ctx is done, then shuts the server down.
func serveAPI(ctx context.Context, listener net.Listener, handler http.Handler, timeout time.Duration) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve API")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handleExitSignal returns a context cancelled on SIGINT or SIGTERM.
func handleExitSignal() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
