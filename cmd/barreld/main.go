// barreld is a development host of the staking ledger. Every command opens
// the database kept in the home directory, applies a single change and
// commits it.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iov-one/barrel"
	cli "gopkg.in/urfave/cli.v1"
)

var (
	homeFlag = cli.StringFlag{
		Name:  "home",
		Value: filepath.Join(os.ExpandEnv("$HOME"), ".barreld"),
		Usage: "directory to store files under",
	}
	fromFlag = cli.StringFlag{
		Name:  "from",
		Usage: "address of the caller",
	}
	toFlag = cli.StringFlag{
		Name:  "to",
		Usage: "address of the recipient",
	}
	amountFlag = cli.StringFlag{
		Name:  "amount",
		Value: "0",
		Usage: "amount in the smallest unit",
	}
	blocksFlag = cli.Uint64Flag{
		Name:  "blocks",
		Value: 1,
		Usage: "number of blocks to process",
	}
	intervalFlag = cli.DurationFlag{
		Name:  "interval",
		Value: 0,
		Usage: "time between blocks",
	}
)

func newApp(out io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "barreld"
	app.Usage = "Staking ledger development host"
	app.Version = barrel.Version()
	app.Writer = out
	app.Flags = []cli.Flag{homeFlag}
	app.Commands = []cli.Command{
		{
			Name:      "init",
			Usage:     "write the default configuration and load the genesis file",
			ArgsUsage: "<genesis.json>",
			Action:    initAction,
		},
		{
			Name:   "mint",
			Usage:  "create new funds",
			Flags:  []cli.Flag{fromFlag, toFlag, amountFlag},
			Action: mintAction,
		},
		{
			Name:   "transfer",
			Usage:  "send funds of the caller",
			Flags:  []cli.Flag{fromFlag, toFlag, amountFlag},
			Action: transferAction,
		},
		{
			Name:   "register",
			Usage:  "register the caller as a validator",
			Flags:  []cli.Flag{fromFlag, amountFlag},
			Action: registerAction,
		},
		{
			Name:   "delegate",
			Usage:  "delegate stake of the caller to a validator",
			Flags:  []cli.Flag{fromFlag, toFlag, amountFlag},
			Action: delegateAction,
		},
		{
			Name:   "advance",
			Usage:  "process blocks",
			Flags:  []cli.Flag{blocksFlag, intervalFlag},
			Action: advanceAction,
		},
		{
			Name:  "query",
			Usage: "print the ledger state",
			Subcommands: []cli.Command{
				{
					Name:      "balance",
					ArgsUsage: "<address>",
					Action:    queryBalanceAction,
				},
				{
					Name:   "issuance",
					Action: queryIssuanceAction,
				},
				{
					Name:      "validator",
					ArgsUsage: "[address]",
					Action:    queryValidatorAction,
				},
				{
					Name:   "active",
					Action: queryActiveAction,
				},
			},
		},
	}
	return app
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
