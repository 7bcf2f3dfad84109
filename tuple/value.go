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

// Package tuple implements the order-preserving tuple codec: Value, the
// tagged union of supported column types, and Encode/Decode, the
// bijective, self-delimiting serialisation whose byte order matches the
// element-wise order of the encoded tuples.
package tuple

import (
	"math/big"

	"github.com/google/uuid"
)

// Kind tags the dynamic type carried by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBytes
	KindText
	KindInt
	KindFloat
	KindBool
	KindUUID
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBytes:
		return "bytes"
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the column types the codec supports: null,
// bool, arbitrary-magnitude signed integer, float64, UUID, bytes and text.
// It is intentionally a value type, not an interface, so tuples of Values
// are cheap to copy. The embedded []byte field makes Value itself
// incomparable with ==; use Equal.
type Value struct {
	kind Kind
	i    *big.Int
	f    float64
	b    bool
	u    uuid.UUID
	s    string
	by   []byte
}

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps a machine int64 as an arbitrary-magnitude integer Value.
func Int(v int64) Value { return Value{kind: KindInt, i: big.NewInt(v)} }

// BigInt wraps an arbitrary-magnitude integer Value. The big.Int is
// copied so later mutation of v does not affect the Value.
func BigInt(v *big.Int) Value { return Value{kind: KindInt, i: new(big.Int).Set(v)} }

// Float wraps an IEEE-754 double.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// UUIDValue wraps a 128-bit UUID.
func UUIDValue(v uuid.UUID) Value { return Value{kind: KindUUID, u: v} }

// Bytes wraps a raw byte string. The slice is copied.
func Bytes(v []byte) Value {
	cp := make([]byte, len(v))
	copy(cp, v)
	return Value{kind: KindBytes, by: cp}
}

// Text wraps a UTF-8 string.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Kind reports the dynamic type of the Value.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the wrapped bool and whether v is a KindBool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsBigInt returns the wrapped integer and whether v is a KindInt.
func (v Value) AsBigInt() (*big.Int, bool) {
	if v.kind != KindInt {
		return nil, false
	}
	return v.i, true
}

// AsInt64 returns the wrapped integer as an int64 and whether v is a
// KindInt whose value fits in an int64; otherwise it returns 0, false.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt || !v.i.IsInt64() {
		return 0, false
	}
	return v.i.Int64(), true
}

// AsFloat returns the wrapped float and whether v is a KindFloat.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsUUID returns the wrapped UUID and whether v is a KindUUID.
func (v Value) AsUUID() (uuid.UUID, bool) { return v.u, v.kind == KindUUID }

// AsBytes returns the wrapped byte string and whether v is a KindBytes.
func (v Value) AsBytes() ([]byte, bool) { return v.by, v.kind == KindBytes }

// AsText returns the wrapped string and whether v is a KindText.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// Equal reports whether v and other carry the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i.Cmp(other.i) == 0
	case KindFloat:
		return v.f == other.f
	case KindUUID:
		return v.u == other.u
	case KindBytes:
		return string(v.by) == string(other.by)
	case KindText:
		return v.s == other.s
	default:
		return false
	}
}

// Tuple is an ordered sequence of Values.
type Tuple []Value

// Equal reports whether t and other have the same length and equal
// elements in order.
func (t Tuple) Equal(other Tuple) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Equal(other[i]) {
			return false
		}
	}
	return true
}
