// Copyright 2026 The Tuplestore Authors
// This file is part of Tuplestore.
//
// Tuplestore is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Tuplestore is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Tuplestore. If not, see <http://www.gnu.org/licenses/>.

package kv

import (
	"bytes"
	"context"
	"os"

	"github.com/erigontech/mdbx-go/mdbx"
	"github.com/pkg/errors"
)

// MDBXConfig configures the persistent backend. See config.Load to read
// one of these from YAML.
type MDBXConfig struct {
	Path     string `yaml:"path"`
	MaxSize  int64  `yaml:"max_size_bytes"`  // upper bound of the memory map
	GrowStep int64  `yaml:"grow_step_bytes"` // map growth increment
	ReadOnly bool   `yaml:"read_only"`
}

// defaultMaxSize and defaultGrowStep are used when a config leaves
// MaxSize/GrowStep unset.
const (
	defaultMaxSize  = 1 << 30 // 1 GiB
	defaultGrowStep = 1 << 24 // 16 MiB
)

// MDBX is the persistent OKVS backend, a single unnamed table inside an
// MDBX environment.
type MDBX struct {
	env *mdbx.Env
	dbi mdbx.DBI
}

// NewMDBX opens (creating if absent) a persistent store at cfg.Path.
func NewMDBX(cfg MDBXConfig) (*MDBX, error) {
	env, err := mdbx.NewEnv()
	if err != nil {
		return nil, errors.Wrap(err, "kv: mdbx new env")
	}
	maxSize := cfg.MaxSize
	if maxSize == 0 {
		maxSize = defaultMaxSize
	}
	growStep := cfg.GrowStep
	if growStep == 0 {
		growStep = defaultGrowStep
	}
	if err := env.SetGeometry(-1, -1, int(maxSize), int(growStep), -1, -1); err != nil {
		return nil, errors.Wrap(err, "kv: mdbx set geometry")
	}
	if err := env.SetOption(mdbx.OptMaxDB, 1); err != nil {
		return nil, errors.Wrap(err, "kv: mdbx set max dbs")
	}

	flags := uint(mdbx.NoSubdir)
	if cfg.ReadOnly {
		flags |= mdbx.Readonly
	}
	if err := os.MkdirAll(parentDir(cfg.Path), 0o755); err != nil {
		return nil, errors.Wrap(err, "kv: create data directory")
	}
	if err := env.Open(cfg.Path, flags, 0o644); err != nil {
		return nil, errors.Wrapf(err, "kv: mdbx open %q", cfg.Path)
	}

	m := &MDBX{env: env}
	txn, err := env.BeginTxn(nil, 0)
	if err != nil {
		return nil, errors.Wrap(err, "kv: mdbx open root dbi")
	}
	dbi, err := txn.OpenDBI("", mdbx.Create, nil, nil)
	if err != nil {
		_ = txn.Abort()
		return nil, errors.Wrap(err, "kv: mdbx open root dbi")
	}
	if err := txn.Commit(); err != nil {
		return nil, errors.Wrap(err, "kv: mdbx commit dbi open")
	}
	m.dbi = dbi
	return m, nil
}

func parentDir(path string) string {
	idx := bytes.LastIndexByte([]byte(path), '/')
	if idx < 0 {
		return "."
	}
	return path[:idx]
}

func (m *MDBX) Close() error {
	m.env.Close()
	return nil
}

func (m *MDBX) Begin(_ context.Context) (Tx, error) {
	txn, err := m.env.BeginTxn(nil, 0)
	if err != nil {
		return nil, errors.Wrap(err, "kv: mdbx begin")
	}
	return &mdbxTx{dbi: m.dbi, txn: txn}, nil
}

type mdbxTx struct {
	dbi    mdbx.DBI
	txn    *mdbx.Txn
	closed bool
}

func (tx *mdbxTx) Get(key []byte) ([]byte, bool, error) {
	if tx.closed {
		return nil, false, ErrTxClosed
	}
	v, err := tx.txn.Get(tx.dbi, key)
	if err != nil {
		if mdbx.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "kv: mdbx get")
	}
	return v, true, nil
}

func (tx *mdbxTx) Put(key, value []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	if err := tx.txn.Put(tx.dbi, key, value, 0); err != nil {
		return errors.Wrap(err, "kv: mdbx put")
	}
	return nil
}

func (tx *mdbxTx) Delete(key []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	if err := tx.txn.Del(tx.dbi, key, nil); err != nil && !mdbx.IsNotFound(err) {
		return errors.Wrap(err, "kv: mdbx delete")
	}
	return nil
}

func (tx *mdbxTx) Prefix(prefix []byte) (Iterator, error) {
	return tx.Range(prefix, true, Strinc(prefix), false, RangeOptions{})
}

func (tx *mdbxTx) Range(start []byte, startIncl bool, end []byte, endIncl bool, opts RangeOptions) (Iterator, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	cur, err := tx.txn.OpenCursor(tx.dbi)
	if err != nil {
		return nil, errors.Wrap(err, "kv: mdbx open cursor")
	}
	it := &mdbxIterator{
		cur: cur, start: start, startIncl: startIncl,
		end: end, endIncl: endIncl, opts: opts, first: true,
	}
	if opts.Reverse {
		return newBufferedReverseIterator(it)
	}
	return it, nil
}

func (tx *mdbxTx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true
	if err := tx.txn.Commit(); err != nil {
		return errors.Wrap(err, "kv: mdbx commit")
	}
	return nil
}

func (tx *mdbxTx) Rollback() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true
	tx.txn.Abort()
	return nil
}

// mdbxIterator walks forward using a cursor the iterator owns exclusively;
// Close releases it. Offset/Limit are applied as the cursor advances so a
// limited scan never reads more pages than it needs to.
type mdbxIterator struct {
	cur                  *mdbx.Cursor
	start, end           []byte
	startIncl, endIncl   bool
	opts                 RangeOptions
	first                bool
	skipped, yielded     int
	key, value           []byte
	err                  error
	done, closed         bool
}

func (it *mdbxIterator) Next() bool {
	if it.done || it.err != nil {
		return false
	}
	if it.opts.Limit > 0 && it.yielded >= it.opts.Limit {
		it.done = true
		return false
	}
	for {
		var k, v []byte
		var err error
		if it.first {
			it.first = false
			k, v, err = it.cur.Get(it.start, nil, mdbx.SetRange)
		} else {
			k, v, err = it.cur.Get(nil, nil, mdbx.Next)
		}
		if err != nil {
			if mdbx.IsNotFound(err) {
				it.done = true
				return false
			}
			it.err = errors.Wrap(err, "kv: mdbx cursor")
			return false
		}
		if !it.startIncl && bytes.Equal(k, it.start) {
			continue
		}
		cmp := bytes.Compare(k, it.end)
		if it.endIncl && cmp > 0 || !it.endIncl && cmp >= 0 {
			it.done = true
			return false
		}
		if it.skipped < it.opts.Offset {
			it.skipped++
			continue
		}
		it.key, it.value = k, v
		it.yielded++
		return true
	}
}

func (it *mdbxIterator) Key() []byte   { return it.key }
func (it *mdbxIterator) Value() []byte { return it.value }
func (it *mdbxIterator) Err() error    { return it.err }
func (it *mdbxIterator) Close() error {
	if it.closed {
		return nil
	}
	it.closed = true
	it.cur.Close()
	return nil
}

// newBufferedReverseIterator drains a forward cursor scan into memory,
// replays it back to front, and applies Offset/Limit to the reversed
// order. MDBX cursors also support backward stepping
// natively (mdbx.Prev from mdbx.SetRange's predecessor); buffering keeps
// this iterator's bound-handling logic in one place rather than
// duplicated forwards and backwards.
func newBufferedReverseIterator(fwd *mdbxIterator) (Iterator, error) {
	defer fwd.Close()
	opts := fwd.opts
	fwd.opts.Offset, fwd.opts.Limit = 0, 0
	var items []kvItem
	for fwd.Next() {
		items = append(items, kvItem{
			key:   append([]byte(nil), fwd.Key()...),
			value: append([]byte(nil), fwd.Value()...),
		})
	}
	if fwd.Err() != nil {
		return nil, fwd.Err()
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	if opts.Offset > 0 {
		if opts.Offset >= len(items) {
			items = nil
		} else {
			items = items[opts.Offset:]
		}
	}
	if opts.Limit > 0 && opts.Limit < len(items) {
		items = items[:opts.Limit]
	}
	return &sliceIterator{items: items, pos: -1}, nil
}
