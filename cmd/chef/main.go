// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/runefarm/chef/log"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Version = fullVersion()
	app.Name = "chef"
	app.Usage = "Rune farm ledger: replay scenarios and serve the farm state"
	app.Copyright = "2025 The VeChainThor developers"
	app.Commands = []cli.Command{
		{
			Name:  "run",
			Usage: "build a farm from a scenario file and replay its steps",
			Flags: []cli.Flag{
				configFlag,
				dataDirFlag,
				persistFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: runAction,
		},
		{
			Name:  "inspect",
			Usage: "print the chef and its pools from a persisted farm",
			Flags: []cli.Flag{
				dataDirFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: inspectAction,
		},
		{
			Name:  "serve",
			Usage: "serve the REST API over a persisted farm",
			Flags: []cli.Flag{
				dataDirFlag,
				apiAddrFlag,
				apiCorsFlag,
				apiTimeoutFlag,
				adminAddrFlag,
				enableAPILogsFlag,
				apiSlowQueriesThresholdFlag,
				enableMetricsFlag,
				verbosityFlag,
				jsonLogsFlag,
			},
			Action: serveAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
