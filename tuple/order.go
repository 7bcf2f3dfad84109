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

package tuple

import "bytes"

// Compare defines the total order the codec's byte encoding is required
// to preserve: kinds are ordered by tag (null < bytes < text < int <
// float < bool < uuid, matching the codec's tag table), and values of the
// same kind are ordered by their natural value order. Floats and ints are
// disjoint order classes: a float never compares by magnitude against an
// int, only by tag.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindNull:
		return 0
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindInt:
		return a.i.Cmp(b.i)
	case KindFloat:
		if a.f == b.f {
			return 0
		}
		if a.f < b.f {
			return -1
		}
		return 1
	case KindUUID:
		return bytes.Compare(a.u[:], b.u[:])
	case KindBytes:
		return bytes.Compare(a.by, b.by)
	case KindText:
		return bytes.Compare([]byte(a.s), []byte(b.s))
	default:
		return 0
	}
}

// CompareTuples orders tuples element-wise, left to right, the same way
// their encodings compare lexicographically.
func CompareTuples(a, b Tuple) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
