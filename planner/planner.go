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

// Package planner computes, for a relation of a given arity, the covering
// set of column permutations whose prefixes collectively answer every
// possible pattern-binding signature.
package planner

// Permutation is a column ordering: Permutation[i] names which original
// column sits at physical position i.
type Permutation []int

// Plan returns every permutation of [0, n-1]. Plain cyclic rotations only
// cover subsets that are contiguous under some rotation; they miss
// non-adjacent subsets once N >= 4. For N=4 no rotation of (0,1,2,3) has
// {0,2} as its first two elements, yet a pattern binding columns 0 and 2
// of a 4-tuple and leaving 1 and 3 free is a completely ordinary query.
// Full enumeration is the verified-correct covering set: for any
// non-empty subset S of size k there trivially exists a permutation
// starting with S (in any order) followed by the complement, so every
// bound-column combination is covered regardless of adjacency. Callers
// with arity >= 5 or otherwise many columns that find the factorial
// blowup too costly should hand the relation a smaller, manually
// verified permutation list via store.WithPermutations instead.
func Plan(n int) []Permutation {
	if n <= 0 {
		return nil
	}
	base := make(Permutation, n)
	for i := range base {
		base[i] = i
	}
	var out []Permutation
	permute(base, 0, &out)
	return out
}

func permute(items Permutation, k int, out *[]Permutation) {
	if k == len(items) {
		cp := make(Permutation, len(items))
		copy(cp, items)
		*out = append(*out, cp)
		return
	}
	for i := k; i < len(items); i++ {
		items[k], items[i] = items[i], items[k]
		permute(items, k+1, out)
		items[k], items[i] = items[i], items[k]
	}
}

// Covers reports whether perm's first len(bound) entries are exactly the
// set bound (in any order), which is the condition store.From uses to
// pick a permutation for a pattern whose bound columns are the set
// `bound`.
func Covers(perm Permutation, bound map[int]struct{}) bool {
	if len(bound) > len(perm) {
		return false
	}
	for i := 0; i < len(bound); i++ {
		if _, ok := bound[perm[i]]; !ok {
			return false
		}
	}
	return true
}

// Invert returns the permutation that undoes perm: Invert(perm)[perm[i]] == i.
func Invert(perm Permutation) Permutation {
	inv := make(Permutation, len(perm))
	for i, col := range perm {
		inv[col] = i
	}
	return inv
}

// Apply reorders items according to perm: Apply(perm, items)[i] == items[perm[i]].
func Apply[T any](perm Permutation, items []T) []T {
	out := make([]T, len(items))
	for i, col := range perm {
		out[i] = items[col]
	}
	return out
}
