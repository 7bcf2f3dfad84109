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

import "github.com/pkg/errors"

// ErrTxClosed is a usage error: a Tx was used after Commit or Rollback.
var ErrTxClosed = errors.New("kv: transaction already closed")

// ErrStrincOverflow is a data error: Strinc was asked for the successor
// of a key made entirely of 0xFF bytes, which has none.
var ErrStrincOverflow = errors.New("kv: key has no lexicographic successor")
