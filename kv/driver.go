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

// Package kv is the narrow ordered key-value store (OKVS) capability the
// rest of this module depends on: get/put/delete, prefix and range scans,
// and a transaction lifecycle. Everything above this package, the tuple
// codec, the store, the query engine, is written only against these
// interfaces, never against a specific engine.
package kv

import "context"

// RangeOptions are the standard modifiers a range scan accepts.
type RangeOptions struct {
	// Offset skips this many matching entries before the first yielded one.
	Offset int
	// Limit caps the number of entries yielded; 0 means unlimited.
	Limit int
	// Reverse yields entries in descending key order.
	Reverse bool
}

// DB is an opened OKVS. A DB is a value in its own right; there is no
// global mutable state behind Open. See txn.Run for how a DB and an
// already-open Tx compose.
type DB interface {
	// Begin opens a new transaction. Exactly one of Commit or Rollback
	// must be called on the result, and the Tx must not be used after.
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

// Tx is a single OKVS transaction.
type Tx interface {
	// Get returns the value stored at key, or ok=false if absent.
	Get(key []byte) (value []byte, ok bool, err error)
	// Put inserts or overwrites the value at key.
	Put(key, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key []byte) error

	// Prefix returns entries whose key starts with prefix, in ascending
	// key order. It is shorthand for Range(prefix, true, Strinc(prefix),
	// false, RangeOptions{}).
	Prefix(prefix []byte) (Iterator, error)
	// Range returns entries in [start, end) or (start, end], per the
	// inclusivity flags, honoring opts.
	Range(start []byte, startIncl bool, end []byte, endIncl bool, opts RangeOptions) (Iterator, error)

	Commit() error
	Rollback() error
}

// Iterator walks a range or prefix scan result. The caller that opens an
// Iterator owns it exclusively and must Close it; no Iterator is shared
// between concurrent callers, even within the same transaction.
type Iterator interface {
	// Next advances to the next entry, returning false at end of range
	// or on error (check Err to distinguish the two).
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}
