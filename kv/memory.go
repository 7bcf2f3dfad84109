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
	"sync"

	"github.com/google/btree"
)

type kvItem struct {
	key   []byte
	value []byte
}

func lessItem(a, b kvItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// Memory is an in-memory OKVS backed by a google/btree ordered tree.
// Transactions snapshot-isolate via the tree's O(1) Clone: Begin clones
// the committed tree, writes mutate the clone, and Commit installs the
// clone back as the committed tree. A reader that began before a
// concurrent writer's Commit keeps its own clone and never observes the
// writer's uncommitted (or even committed-after-the-read-began) mutations.
type Memory struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[kvItem]
}

// NewMemory opens a fresh, empty in-memory store.
func NewMemory() *Memory {
	return &Memory{tree: btree.NewG(32, lessItem)}
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Begin(_ context.Context) (Tx, error) {
	m.mu.RLock()
	snapshot := m.tree.Clone()
	m.mu.RUnlock()
	return &memoryTx{db: m, snapshot: snapshot}, nil
}

type memoryTx struct {
	db       *Memory
	snapshot *btree.BTreeG[kvItem]
	closed   bool
}

func (tx *memoryTx) Get(key []byte) ([]byte, bool, error) {
	if tx.closed {
		return nil, false, ErrTxClosed
	}
	item, ok := tx.snapshot.Get(kvItem{key: key})
	if !ok {
		return nil, false, nil
	}
	return item.value, true, nil
}

func (tx *memoryTx) Put(key, value []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	k := append([]byte(nil), key...)
	v := append([]byte(nil), value...)
	tx.snapshot.ReplaceOrInsert(kvItem{key: k, value: v})
	return nil
}

func (tx *memoryTx) Delete(key []byte) error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.snapshot.Delete(kvItem{key: key})
	return nil
}

func (tx *memoryTx) Prefix(prefix []byte) (Iterator, error) {
	return tx.Range(prefix, true, Strinc(prefix), false, RangeOptions{})
}

func (tx *memoryTx) Range(start []byte, startIncl bool, end []byte, endIncl bool, opts RangeOptions) (Iterator, error) {
	if tx.closed {
		return nil, ErrTxClosed
	}
	var items []kvItem
	tx.snapshot.AscendRange(kvItem{key: start}, kvItem{key: end}, func(item kvItem) bool {
		if !startIncl && bytes.Equal(item.key, start) {
			return true
		}
		items = append(items, item)
		return true
	})
	if endIncl {
		if last, ok := tx.snapshot.Get(kvItem{key: end}); ok {
			items = append(items, last)
		}
	}
	if opts.Reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
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

func (tx *memoryTx) Commit() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.db.mu.Lock()
	tx.db.tree = tx.snapshot
	tx.db.mu.Unlock()
	tx.closed = true
	return nil
}

func (tx *memoryTx) Rollback() error {
	if tx.closed {
		return ErrTxClosed
	}
	tx.closed = true
	return nil
}

type sliceIterator struct {
	items []kvItem
	pos   int
}

func (it *sliceIterator) Next() bool {
	it.pos++
	return it.pos < len(it.items)
}

func (it *sliceIterator) Key() []byte   { return it.items[it.pos].key }
func (it *sliceIterator) Value() []byte { return it.items[it.pos].value }
func (it *sliceIterator) Err() error    { return nil }
func (it *sliceIterator) Close() error  { return nil }
