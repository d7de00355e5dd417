package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/barrel/errors"
)

// collectBtree returns all items within [start, end) in ascending order.
// nil start or end means the range is not bounded on that side.
func collectBtree(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// cacheIterator joins the cached items with those of the parent,
// taking into consideration overwrites and deletes.
type cacheIterator struct {
	parent Iterator
	// items are cached writes, sorted in the iteration order.
	items     []btree.Item
	ascending bool

	// next parent item, read ahead so it can be compared with the cache.
	pkey, pvalue []byte
	pending      bool
	parentDone   bool
}

var _ Iterator = (*cacheIterator)(nil)

func newCacheIterator(parent Iterator, items []btree.Item, ascending bool) *cacheIterator {
	return &cacheIterator{
		parent:    parent,
		items:     items,
		ascending: ascending,
	}
}

func (c *cacheIterator) Next() ([]byte, []byte, error) {
	for {
		if !c.pending && !c.parentDone {
			switch key, value, err := c.parent.Next(); {
			case errors.ErrIteratorDone.Is(err):
				c.parentDone = true
			case err != nil:
				return nil, nil, err
			default:
				c.pkey, c.pvalue, c.pending = key, value, true
			}
		}

		if len(c.items) == 0 {
			if !c.pending {
				return nil, nil, errors.ErrIteratorDone
			}
			c.pending = false
			return c.pkey, c.pvalue, nil
		}

		item := c.items[0]
		if c.pending {
			cmp := bytes.Compare(c.pkey, item.(keyer).Key())
			if !c.ascending {
				cmp = -cmp
			}
			if cmp < 0 {
				c.pending = false
				return c.pkey, c.pvalue, nil
			}
			if cmp == 0 {
				// Parent value is shadowed by the cache.
				c.pending = false
			}
		}

		c.items = c.items[1:]
		switch t := item.(type) {
		case setItem:
			return t.key, t.value, nil
		case deletedItem:
			continue
		default:
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", t)
		}
	}
}

func (c *cacheIterator) Release() {
	c.parent.Release()
	c.items = nil
	c.pending = false
}
