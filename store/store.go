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

package store

import (
	"github.com/pkg/errors"

	"github.com/Silentsoul04/tuplestore/internal/xlog"
	"github.com/Silentsoul04/tuplestore/kv"
	"github.com/Silentsoul04/tuplestore/planner"
	"github.com/Silentsoul04/tuplestore/tuple"
)

// ErrNoCoveringPermutation signals a planner invariant violation: the
// store could not find a planned permutation whose prefix covers a
// pattern's bound columns. This can only happen if Relation.Permutations
// was built or overridden incorrectly; it is never a data-dependent
// outcome and is never recovered from.
var ErrNoCoveringPermutation = errors.New("store: no planned permutation covers the bound columns")

// Store answers add/remove/ask/from for a single Relation.
type Store struct {
	rel *Relation
}

// New wraps a Relation for use against an OKVS transaction.
func New(rel *Relation) *Store { return &Store{rel: rel} }

// Relation returns the underlying relation.
func (s *Store) Relation() *Relation { return s.rel }

func (s *Store) relPrefix() []byte {
	return tuple.Encode(tuple.Tuple{tuple.Text(s.rel.Name)})
}

func (s *Store) permKey(permIdx int, permuted tuple.Tuple) []byte {
	key := s.relPrefix()
	key = append(key, tuple.Encode(tuple.Tuple{tuple.Int(int64(permIdx))})...)
	key = append(key, tuple.Encode(permuted)...)
	return key
}

// Add inserts t once per planned permutation. Re-adding an already
// present tuple is a no-op (Put is idempotent).
func (s *Store) Add(tx kv.Tx, t tuple.Tuple) error {
	if err := s.rel.checkArity(t); err != nil {
		return err
	}
	for i, perm := range s.rel.Permutations {
		key := s.permKey(i, planner.Apply(perm, t))
		if err := tx.Put(key, nil); err != nil {
			return errors.Wrapf(err, "store: add relation %q permutation %d", s.rel.Name, i)
		}
	}
	xlog.L.Debugw("store add", "relation", s.rel.Name, "tuple", t)
	return nil
}

// Remove deletes t from every planned permutation. Removing an absent
// tuple is not an error.
func (s *Store) Remove(tx kv.Tx, t tuple.Tuple) error {
	if err := s.rel.checkArity(t); err != nil {
		return err
	}
	for i, perm := range s.rel.Permutations {
		key := s.permKey(i, planner.Apply(perm, t))
		if err := tx.Delete(key); err != nil {
			return errors.Wrapf(err, "store: remove relation %q permutation %d", s.rel.Name, i)
		}
	}
	xlog.L.Debugw("store remove", "relation", s.rel.Name, "tuple", t)
	return nil
}

// Ask tests presence against the canonical (identity) permutation; every
// other permutation agrees by the write invariant maintained by Add/Remove.
func (s *Store) Ask(tx kv.Tx, t tuple.Tuple) (bool, error) {
	if err := s.rel.checkArity(t); err != nil {
		return false, err
	}
	canonical := s.canonicalIndex()
	key := s.permKey(canonical, planner.Apply(s.rel.Permutations[canonical], t))
	_, ok, err := tx.Get(key)
	if err != nil {
		return false, errors.Wrapf(err, "store: ask relation %q", s.rel.Name)
	}
	return ok, nil
}

// canonicalIndex is the identity permutation's index, if present, else 0.
func (s *Store) canonicalIndex() int {
	for i, perm := range s.rel.Permutations {
		identity := true
		for col, p := range perm {
			if p != col {
				identity = false
				break
			}
		}
		if identity {
			return i
		}
	}
	return 0
}

// Match is one result of a pattern scan: the full stored tuple in its
// original column order, plus the values captured by the pattern's
// variable slots.
type Match struct {
	Tuple    tuple.Tuple
	Bindings map[string]tuple.Value
}

// From chooses a planned permutation whose prefix covers the pattern's
// bound columns, issues a prefix scan, and decodes each result back into
// a Match. See spec §4.3 for the full algorithm this implements.
func (s *Store) From(tx kv.Tx, pattern Pattern) (*Cursor, error) {
	if len(pattern) != s.rel.Arity {
		return nil, errors.Wrapf(ErrArityMismatch, "relation %q wants %d, pattern has %d", s.rel.Name, s.rel.Arity, len(pattern))
	}
	bound := pattern.Bound()
	permIdx, perm, ok := s.choosePermutation(bound)
	if !ok {
		return nil, errors.Wrapf(ErrNoCoveringPermutation, "relation %q, bound columns %v", s.rel.Name, bound)
	}

	prefix := s.relPrefix()
	prefix = append(prefix, tuple.Encode(tuple.Tuple{tuple.Int(int64(permIdx))})...)
	boundValues := make(tuple.Tuple, len(bound))
	for i := 0; i < len(bound); i++ {
		boundValues[i] = pattern[perm[i]].Value()
	}
	prefix = append(prefix, tuple.Encode(boundValues)...)

	it, err := tx.Prefix(prefix)
	if err != nil {
		return nil, errors.Wrapf(err, "store: from relation %q", s.rel.Name)
	}
	return &Cursor{it: it, relPrefixLen: len(s.relPrefix()), perm: perm, pattern: pattern}, nil
}

// choosePermutation picks the first planned permutation, in declaration
// order, whose leading columns are exactly the bound set.
func (s *Store) choosePermutation(bound map[int]struct{}) (int, planner.Permutation, bool) {
	for i, perm := range s.rel.Permutations {
		if planner.Covers(perm, bound) {
			return i, perm, true
		}
	}
	return 0, nil, false
}

// Cursor iterates the results of a From call, owning the underlying
// kv.Iterator exclusively. Callers must Close it.
type Cursor struct {
	it           kv.Iterator
	relPrefixLen int
	perm         planner.Permutation
	pattern      Pattern

	current Match
	err     error
}

// Next advances to the next match, decoding each scanned key as it goes.
func (c *Cursor) Next() bool {
	for c.it.Next() {
		key := c.it.Key()
		// Skip the relation prefix and permutation-id segment: both are
		// self-delimiting codec encodings, so the first remaining
		// encoded value begins the permuted tuple.
		rest := key[c.relPrefixLen:]
		_, rest, err := tuple.DecodeOne(rest)
		if err != nil {
			c.err = errors.Wrap(err, "store: decode permutation id")
			return false
		}
		permuted, err := tuple.Decode(rest)
		if err != nil {
			c.err = errors.Wrap(err, "store: decode tuple")
			return false
		}
		original := planner.Apply(planner.Invert(c.perm), permuted)

		bindings := make(map[string]tuple.Value)
		for i, slot := range c.pattern {
			if slot.IsVar() {
				bindings[slot.Name()] = original[i]
			}
		}
		c.current = Match{Tuple: original, Bindings: bindings}
		return true
	}
	c.err = c.it.Err()
	return false
}

func (c *Cursor) Value() Match { return c.current }
func (c *Cursor) Err() error   { return c.err }
func (c *Cursor) Close() error { return c.it.Close() }
