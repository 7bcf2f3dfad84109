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

// Package tuplestore is the public facade over the store and query
// engine: open a database, declare relations, run transactional
// pipelines of where-steps and combinators against them.
package tuplestore

import (
	"context"

	"github.com/Silentsoul04/tuplestore/config"
	"github.com/Silentsoul04/tuplestore/kv"
	"github.com/Silentsoul04/tuplestore/query"
	"github.com/Silentsoul04/tuplestore/store"
	"github.com/Silentsoul04/tuplestore/txn"
	"github.com/Silentsoul04/tuplestore/tuple"
)

// DB is an opened tuplestore wrapping an OKVS. It keeps no record of the
// relations used against it. A DB is a plain value; there is no
// package-level mutable state.
type DB struct {
	kv kv.DB
}

// Open resolves cfg to a backend and wraps it as a DB.
func Open(cfg config.Config) (*DB, error) {
	backend, err := config.Open(cfg)
	if err != nil {
		return nil, err
	}
	return &DB{kv: backend}, nil
}

// OpenMemory opens an in-memory DB directly, bypassing config. The
// common case for tests and short-lived tools.
func OpenMemory() *DB {
	return &DB{kv: kv.NewMemory()}
}

// Close releases the underlying OKVS.
func (db *DB) Close() error { return db.kv.Close() }

// Relation returns a Store for the named relation of the given arity,
// covered by the default full-permutation index plan. Nothing is recorded
// on db; calls with the same name and arity address the same keyspace.
func (db *DB) Relation(name string, arity int, opts ...store.Option) *store.Store {
	return store.New(store.NewRelation(name, arity, opts...))
}

// Transactional runs fn against carrier, which must be nil or db itself
// (opens a new transaction, committed on success) or a kv.Tx obtained
// from an enclosing Transactional call (reused, not independently
// committed). This is the dispatch txn.Run implements; DB exposes it
// pre-bound to its own kv.DB so callers rarely need the txn package
// directly.
func (db *DB) Transactional(ctx context.Context, carrier any, fn func(tx kv.Tx) error) error {
	switch c := carrier.(type) {
	case nil:
		carrier = db.kv
	case *DB:
		carrier = c.kv
	}
	return txn.Run(ctx, carrier, fn)
}

// Re-exported query-engine building blocks, so a caller imports only
// this package for the common case.
type (
	Binding = query.Binding
	Stream  = query.Stream
	Step    = query.Step
	Pattern = store.Pattern
	Slot    = store.Slot
)

// Var builds a pattern slot that binds the matched column under name.
func Var(name string) store.Slot { return store.Var(name) }

// Const builds a pattern slot that must match v exactly.
func Const(v tuple.Value) store.Slot { return store.Const(v) }

// Where builds a where-step for pattern p against s. See query.Where.
func Where(s *store.Store, p store.Pattern) query.Step { return query.Where(s, p) }

// Compose left-folds a seed through a sequence of Steps. See query.Compose.
func Compose(tx kv.Tx, steps ...query.Step) (query.Stream, error) {
	return query.Compose(tx, steps...)
}
