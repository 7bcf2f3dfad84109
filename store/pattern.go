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

import "github.com/Silentsoul04/tuplestore/tuple"

// Slot is one position of a Pattern: either a concrete Value to match
// against, or a named variable to bind.
type Slot struct {
	name   string
	value  tuple.Value
	isVar  bool
}

// Const builds a pattern slot that must match v exactly.
func Const(v tuple.Value) Slot { return Slot{value: v} }

// Var builds a pattern slot that binds whatever value occupies the
// column, under the given variable name.
func Var(name string) Slot { return Slot{name: name, isVar: true} }

func (s Slot) IsVar() bool     { return s.isVar }
func (s Slot) Name() string    { return s.name }
func (s Slot) Value() tuple.Value { return s.value }

// Pattern is a relation-arity sequence of slots.
type Pattern []Slot

// Bound returns the set of column indices holding concrete values.
func (p Pattern) Bound() map[int]struct{} {
	b := make(map[int]struct{})
	for i, s := range p {
		if !s.isVar {
			b[i] = struct{}{}
		}
	}
	return b
}

// Ground reports whether every slot is a concrete value.
func (p Pattern) Ground() bool {
	for _, s := range p {
		if s.isVar {
			return false
		}
	}
	return true
}

// AsTuple converts a fully-ground pattern to a tuple, for Ask calls
// built by substitution. Panics if the pattern still has variables;
// callers must check Ground first.
func (p Pattern) AsTuple() tuple.Tuple {
	t := make(tuple.Tuple, len(p))
	for i, s := range p {
		if s.isVar {
			panic("store: AsTuple called on a non-ground pattern")
		}
		t[i] = s.value
	}
	return t
}
