package main

import (
	"io"

	"github.com/iov-one/barrel/app"
	"github.com/iov-one/barrel/errors"
	"github.com/iov-one/barrel/store/leveldb"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// node is an application opened over the database of a home directory.
type node struct {
	conf  Config
	db    *leveldb.CommitStore
	stack *app.Stack
}

func newLogger(out io.Writer, level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(out)).With("module", "barrel")
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// openNode loads the configuration and opens the database. reg may be nil.
func openNode(home string, out io.Writer, reg prometheus.Registerer) (*node, error) {
	conf, err := LoadConfig(home)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(out, conf.LogLevel)
	if err != nil {
		return nil, err
	}
	db, err := leveldb.NewCommitStore(conf.dbPath(home))
	if err != nil {
		return nil, err
	}
	stack := app.NewStack(db, logger, app.NewMetrics(reg))
	return &node{conf: conf, db: db, stack: stack}, nil
}

// Close commits all pending changes and releases the database.
func (n *node) Close() error {
	if err := n.stack.Commit(); err != nil {
		n.db.Close()
		return err
	}
	return n.db.Close()
}
