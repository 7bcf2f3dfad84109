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

package txn

import (
	"context"

	"github.com/cenkalti/backoff/v4"

	"github.com/Silentsoul04/tuplestore/internal/xlog"
	"github.com/Silentsoul04/tuplestore/kv"
)

// Conflict marks an error returned from fn as retryable by RunRetrying.
// An OKVS driver that surfaces write conflicts should wrap them in
// Conflict before returning; plain errors are treated as permanent.
type Conflict struct{ Err error }

func (c Conflict) Error() string { return c.Err.Error() }
func (c Conflict) Unwrap() error { return c.Err }

// RunRetrying is Run plus retry-on-conflict: a transactional error kind
// the core spec calls out (§7 "transactional errors ... the caller
// chooses whether to retry") but leaves unimplemented. Only meaningful
// when carrier is a kv.DB: each retry opens a fresh transaction, since
// retrying inside a caller-owned kv.Tx would not actually escape
// whatever conflicted it.
func RunRetrying(ctx context.Context, carrier any, fn func(tx kv.Tx) error) error {
	if _, isTx := carrier.(kv.Tx); isTx {
		return Run(ctx, carrier, fn)
	}

	policy := backoff.WithContext(backoff.NewExponentialBackOff(), ctx)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := Run(ctx, carrier, fn)
		if err == nil {
			return nil
		}
		var conflict Conflict
		if errorsAsConflict(err, &conflict) {
			xlog.L.Debugw("txn: retrying after conflict", "attempt", attempt)
			return err
		}
		return backoff.Permanent(err)
	}, policy)
}

func errorsAsConflict(err error, target *Conflict) bool {
	for err != nil {
		if c, ok := err.(Conflict); ok {
			*target = c
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
