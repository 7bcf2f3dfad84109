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

// Package txn provides the transaction-carrier dispatch that lets a
// query function accept either a database or an already-open
// transaction and behave correctly either way, without two-phase commit
// and without reflecting on call context.
package txn

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Silentsoul04/tuplestore/internal/xlog"
	"github.com/Silentsoul04/tuplestore/kv"
)

// Run dispatches on the dynamic type of carrier, which must be either a
// kv.DB (open a new transaction) or a kv.Tx (reuse the caller's). This
// is the explicit, overloaded-entry-point replacement for a
// reflection-based decorator: the dispatch happens once, here, on the
// concrete type handed in, rather than by inspecting the wrapped
// function's signature.
//   - a kv.Tx is reused as-is: fn runs against it and Run returns fn's
//     error without touching commit/rollback; the enclosing caller that
//     opened the transaction owns its lifecycle.
//   - a kv.DB begins a fresh transaction, runs fn, commits on a nil
//     return and rolls back (then returns the original error) otherwise.
//
// Nested query functions join an outer transaction rather than opening a
// new one, purely by which concrete type they were handed.
func Run(ctx context.Context, carrier any, fn func(tx kv.Tx) error) (err error) {
	switch c := carrier.(type) {
	case kv.Tx:
		return fn(c)
	case kv.DB:
		tx, beginErr := c.Begin(ctx)
		if beginErr != nil {
			return errors.Wrap(beginErr, "txn: begin")
		}
		defer func() {
			if err != nil {
				if rbErr := tx.Rollback(); rbErr != nil {
					xlog.L.Errorw("txn: rollback after failure also failed", "error", rbErr, "original", err)
				}
				return
			}
			err = tx.Commit()
		}()
		err = fn(tx)
		return err
	default:
		return errors.Errorf("txn: carrier must be a kv.DB or kv.Tx, got %T", carrier)
	}
}
