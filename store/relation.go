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

// Package store implements the n-tuple relation: it plans a covering set
// of permutations for a relation's arity, and for every added tuple
// writes one physical key per permutation so that any fully- or
// partially-bound pattern can be answered with a single prefix scan.
package store

import (
	"github.com/pkg/errors"

	"github.com/Silentsoul04/tuplestore/planner"
	"github.com/Silentsoul04/tuplestore/tuple"
)

// ErrArityMismatch is returned when a tuple's length disagrees with its
// relation's declared arity.
var ErrArityMismatch = errors.New("store: tuple arity does not match relation")

// Relation is a named n-ary relation together with the set of key
// permutations it maintains. Two Relations constructed with the same
// name and arity describe the same physical keyspace.
type Relation struct {
	Name         string
	Arity        int
	Permutations []planner.Permutation
}

// Option configures a Relation at construction time.
type Option func(*Relation)

// WithPermutations overrides the default full-permutation cover with a
// caller-supplied, manually verified list, for relations whose arity
// makes the factorial write amplification too costly. The caller is
// responsible for the list still satisfying the covering-set contract
// (planner.Covers) for every pattern it intends to run; NewRelation does
// not check it.
func WithPermutations(perms []planner.Permutation) Option {
	return func(r *Relation) { r.Permutations = perms }
}

// NewRelation builds a Relation covering every bound-column subset of an
// Arity-tuple relation. See planner.Plan for why this is the full set of
// permutations rather than a smaller rotation-only cover.
func NewRelation(name string, arity int, opts ...Option) *Relation {
	r := &Relation{Name: name, Arity: arity, Permutations: planner.Plan(arity)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Relation) checkArity(t tuple.Tuple) error {
	if len(t) != r.Arity {
		return errors.Wrapf(ErrArityMismatch, "relation %q wants %d, got %d", r.Name, r.Arity, len(t))
	}
	return nil
}
