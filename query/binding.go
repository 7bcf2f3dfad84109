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

// Package query implements the pattern-matching query engine: where-steps
// that join a pattern against a store, composed with the standard stream
// combinators over immutable Bindings.
package query

import "github.com/Silentsoul04/tuplestore/tuple"

// Binding is an immutable name -> Value mapping. It is never mutated in
// place; Extend returns a new Binding that shares nothing mutable with
// its parent. Copy-on-write over a small Go map is sufficient in place
// of a hash-array-mapped trie since bindings carry only as many entries
// as a query has variables.
type Binding struct {
	vars map[string]tuple.Value
}

// Empty is the zero binding: no variables bound. It is the seed every
// where-step without an upstream starts from.
func Empty() Binding { return Binding{} }

// Get returns the value bound to name, and whether it is bound at all.
func (b Binding) Get(name string) (tuple.Value, bool) {
	if b.vars == nil {
		return tuple.Value{}, false
	}
	v, ok := b.vars[name]
	return v, ok
}

// Len reports how many variables are bound.
func (b Binding) Len() int { return len(b.vars) }

// Range calls f for every bound variable. Iteration order is unspecified.
func (b Binding) Range(f func(name string, v tuple.Value)) {
	for k, v := range b.vars {
		f(k, v)
	}
}

// Extend returns a new Binding with name bound to v, leaving b untouched.
// If name is already bound in b to an unequal value, ok is false and the
// original Binding is returned unchanged. This is the "previously bound
// variables must agree" rule from the where-step contract.
func (b Binding) Extend(name string, v tuple.Value) (Binding, bool) {
	if existing, bound := b.Get(name); bound {
		return b, existing.Equal(v)
	}
	out := make(map[string]tuple.Value, len(b.vars)+1)
	for k, v := range b.vars {
		out[k] = v
	}
	out[name] = v
	return Binding{vars: out}, true
}

// Merge extends b with every variable in extra, applying the same
// agreement rule per variable as Extend. ok is false if any variable
// conflicts.
func (b Binding) Merge(extra map[string]tuple.Value) (Binding, bool) {
	out := b
	for name, v := range extra {
		var ok bool
		out, ok = out.Extend(name, v)
		if !ok {
			return b, false
		}
	}
	return out, true
}

// Equal reports whether b and other bind the same names to equal values.
func (b Binding) Equal(other Binding) bool {
	if len(b.vars) != len(other.vars) {
		return false
	}
	for k, v := range b.vars {
		ov, ok := other.vars[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}
