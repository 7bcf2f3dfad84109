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

// Strinc computes the lexicographic successor of b: the smallest byte
// string strictly greater than every string with b as a prefix. It
// trims trailing 0xFF bytes (they cannot be incremented) and increments
// the last remaining byte, matching FoundationDB's strinc, which is what
// turns a prefix into a half-open range end for a prefix scan.
func Strinc(b []byte) []byte {
	i := len(b) - 1
	for i >= 0 && b[i] == 0xFF {
		i--
	}
	if i < 0 {
		panic(ErrStrincOverflow)
	}
	out := make([]byte, i+1)
	copy(out, b[:i+1])
	out[i]++
	return out
}
