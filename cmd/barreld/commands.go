package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/iov-one/barrel"
	"github.com/iov-one/barrel/app"
	"github.com/iov-one/barrel/coin"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/x/currency"
	"github.com/iov-one/barrel/x/staking"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cli "gopkg.in/urfave/cli.v1"
)

func initAction(c *cli.Context) (err error) {
	home := c.GlobalString(homeFlag.Name)
	genesisPath := c.Args().First()
	if genesisPath == "" {
		return errors.Wrap(errors.ErrEmpty, "genesis file path required")
	}
	gen, err := app.LoadGenesis(genesisPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(home, configFile)); os.IsNotExist(err) {
		if err := SaveConfig(home, DefaultConfig()); err != nil {
			return err
		}
	}

	n, err := openNode(home, c.App.Writer, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.db.Close(); err == nil {
			err = cerr
		}
	}()
	defer errors.Recover(&err)

	n.stack.InitChain(gen.AppState)
	fmt.Fprintf(c.App.Writer, "initialized chain %q\n", gen.ChainID)
	return nil
}

func mintAction(c *cli.Context) error {
	to, err := addressFlag(c, toFlag.Name)
	if err != nil {
		return err
	}
	amount, err := coin.ParseBalance(c.String(amountFlag.Name))
	if err != nil {
		return err
	}
	return deliver(c, currency.MintMsg{To: to, Amount: amount})
}

func transferAction(c *cli.Context) error {
	to, err := addressFlag(c, toFlag.Name)
	if err != nil {
		return err
	}
	amount, err := coin.ParseBalance(c.String(amountFlag.Name))
	if err != nil {
		return err
	}
	return deliver(c, currency.TransferMsg{To: to, Amount: amount})
}

func registerAction(c *cli.Context) error {
	amount, err := coin.ParseBalance(c.String(amountFlag.Name))
	if err != nil {
		return err
	}
	return deliver(c, staking.RegisterMsg{Amount: amount})
}

func delegateAction(c *cli.Context) error {
	to, err := addressFlag(c, toFlag.Name)
	if err != nil {
		return err
	}
	amount, err := coin.ParseBalance(c.String(amountFlag.Name))
	if err != nil {
		return err
	}
	return deliver(c, staking.DelegateMsg{To: to, Amount: amount})
}

func addressFlag(c *cli.Context, name string) (barrel.Address, error) {
	raw := c.String(name)
	if raw == "" {
		return nil, errors.Wrapf(errors.ErrEmpty, "--%s flag required", name)
	}
	addr, err := barrel.ParseAddress(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "--%s", name)
	}
	return addr, nil
}

// deliver submits the message on behalf of the --from address and commits
// the result.
func deliver(c *cli.Context, msg barrel.Msg) (err error) {
	caller, err := addressFlag(c, fromFlag.Name)
	if err != nil {
		return err
	}
	n, err := openNode(c.GlobalString(homeFlag.Name), c.App.Writer, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.Close(); err == nil {
			err = cerr
		}
	}()

	if err := n.stack.Deliver(context.Background(), caller, msg); err != nil {
		return errors.Wrap(err, msg.Path())
	}
	fmt.Fprintf(c.App.Writer, "%s: ok\n", msg.Path())
	return nil
}

func advanceAction(c *cli.Context) (err error) {
	reg := prometheus.NewRegistry()
	n, err := openNode(c.GlobalString(homeFlag.Name), c.App.Writer, reg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.Close(); err == nil {
			err = cerr
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if addr := n.conf.MetricsAddr; addr != "" {
		srv := &http.Server{
			Addr:              addr,
			Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				n.stack.Logger().Error("metrics server", "err", err)
			}
		}()
		defer srv.Close()
	}

	interval := c.Duration(intervalFlag.Name)
	for i := uint64(0); i < c.Uint64(blocksFlag.Name); i++ {
		if i > 0 && interval > 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(interval):
			}
		}
		if err := processBlock(ctx, c, n); err != nil {
			return err
		}
	}
	return nil
}

func processBlock(ctx context.Context, c *cli.Context, n *node) (err error) {
	defer errors.Recover(&err)

	height, res := n.stack.NextBlock(ctx)
	if err := n.stack.Commit(); err != nil {
		return err
	}
	if res.ValidatorsUpdated {
		fmt.Fprintf(c.App.Writer, "block %d: active validators %v\n", height, res.Validators)
	} else {
		fmt.Fprintf(c.App.Writer, "block %d\n", height)
	}
	return nil
}

// query opens the node read only and prints the result of fn as JSON.
func query(c *cli.Context, fn func(s *app.Stack, db barrel.ReadOnlyKVStore) (interface{}, error)) (err error) {
	n, err := openNode(c.GlobalString(homeFlag.Name), c.App.Writer, nil)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := n.db.Close(); err == nil {
			err = cerr
		}
	}()

	res, err := fn(n.stack, n.stack.ReadStore())
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "serialize")
	}
	fmt.Fprintln(c.App.Writer, string(raw))
	return nil
}

func queryAddress(c *cli.Context) (barrel.Address, error) {
	raw := c.Args().First()
	if raw == "" {
		return nil, nil
	}
	return barrel.ParseAddress(raw)
}

func queryBalanceAction(c *cli.Context) error {
	who, err := queryAddress(c)
	if err != nil {
		return err
	}
	return query(c, func(s *app.Stack, db barrel.ReadOnlyKVStore) (interface{}, error) {
		if who == nil {
			return s.Currency.Accounts(db)
		}
		balance, ok, err := s.Currency.Balance(db, who)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotFound, "account %s", who)
		}
		return balance, nil
	})
}

func queryIssuanceAction(c *cli.Context) error {
	return query(c, func(s *app.Stack, db barrel.ReadOnlyKVStore) (interface{}, error) {
		return s.Currency.TotalIssuance(db)
	})
}

func queryValidatorAction(c *cli.Context) error {
	who, err := queryAddress(c)
	if err != nil {
		return err
	}
	return query(c, func(s *app.Stack, db barrel.ReadOnlyKVStore) (interface{}, error) {
		if who == nil {
			return s.Staking.Validators(db)
		}
		stake, ok, err := s.Staking.Validator(db, who)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(errors.ErrNotFound, "validator %s", who)
		}
		return stake, nil
	})
}

func queryActiveAction(c *cli.Context) error {
	return query(c, func(s *app.Stack, db barrel.ReadOnlyKVStore) (interface{}, error) {
		active, err := s.Staking.ActiveValidators(db)
		if err != nil {
			return nil, err
		}
		if active == nil {
			active = []barrel.Address{}
		}
		return active, nil
	})
}
