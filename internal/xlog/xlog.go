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

// Package xlog is the shared logging sink for the store and query
// packages. It exists so tests and embedders can swap the logger without
// every package depending on zap's construction details directly.
package xlog

import "go.uber.org/zap"

// L is the package-wide sugared logger. Replace it with SetLogger before
// opening a store if the embedding application wants its own sink.
var L = zap.NewNop().Sugar()

// SetLogger installs logger as the sink used by store/query/txn tracing.
func SetLogger(logger *zap.Logger) {
	L = logger.Sugar()
}

// Development installs a human-readable, debug-level logger. Intended for
// tests and local exploration, not production use.
func Development() error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	SetLogger(logger)
	return nil
}
