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

import (
	"encoding/binary"
	"math"
	"math/big"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Type tags. The numeric values and their ordering are part of the wire
// contract: encode(a) <= encode(b) iff a <= b depends on these tags
// sorting in the same relative order as the value domains they head.
const (
	tagNull       byte = 0x00
	tagBytes      byte = 0x01
	tagText       byte = 0x02
	tagNegBigInt  byte = 0x0B
	tagNegIntBase byte = 0x0C // 0x0C..0x13, negative int of 1..8 bytes
	tagIntZero    byte = 0x14
	// positive int of 1..8 bytes is tagIntZero+n, n in 1..8 (0x15..0x1C)
	tagPosBigInt byte = 0x1D
	tagDouble     byte = 0x21
	tagFalse      byte = 0x26
	tagTrue       byte = 0x27
	tagUUID       byte = 0x30
)

// ErrUnknownTag is a data error: the byte stream starts with a tag this
// codec does not recognise.
var ErrUnknownTag = errors.New("tuple: unknown type tag")

// ErrTruncated is a data error: the byte stream ends before a value's
// payload is fully read.
var ErrTruncated = errors.New("tuple: truncated encoding")

// sizeLimit[n] is the largest unsigned value representable in n bytes,
// for n in 0..8. sizeLimit[8] == math.MaxUint64.
var sizeLimit = [9]uint64{
	0,
	0xFF,
	0xFFFF,
	0xFFFFFF,
	0xFFFFFFFF,
	0xFFFFFFFFFF,
	0xFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFF,
	0xFFFFFFFFFFFFFFFF,
}

// Encode serialises t into an order-preserving, self-delimiting byte
// string: for any two tuples a, b of the same arity (or compatible
// prefixes), Encode(a) <= Encode(b) lexicographically iff a <= b
// element-wise.
func Encode(t Tuple) []byte {
	out := make([]byte, 0, 16*len(t))
	for _, v := range t {
		out = appendValue(out, v)
	}
	return out
}

// Decode is the inverse of Encode: it parses a concatenation of encoded
// Values until the input is exhausted.
func Decode(b []byte) (Tuple, error) {
	var out Tuple
	pos := 0
	for pos < len(b) {
		v, next, err := decodeOne(b, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		pos = next
	}
	return out, nil
}

// DecodeOne parses a single Value from the front of b and returns the
// unconsumed remainder. Callers that need to strip a self-delimiting
// prefix (e.g. store's permutation-id segment) without decoding the
// whole tail use this instead of Decode.
func DecodeOne(b []byte) (Value, []byte, error) {
	v, next, err := decodeOne(b, 0)
	if err != nil {
		return Value{}, nil, err
	}
	return v, b[next:], nil
}

func appendValue(out []byte, v Value) []byte {
	switch v.kind {
	case KindNull:
		return append(out, tagNull)
	case KindBool:
		if v.b {
			return append(out, tagTrue)
		}
		return append(out, tagFalse)
	case KindBytes:
		return appendEscaped(append(out, tagBytes), v.by)
	case KindText:
		return appendEscaped(append(out, tagText), []byte(v.s))
	case KindFloat:
		return appendFloat(out, v.f)
	case KindUUID:
		out = append(out, tagUUID)
		return append(out, v.u[:]...)
	case KindInt:
		return appendInt(out, v.i)
	default:
		panic("tuple: unsupported value kind " + v.kind.String())
	}
}

func appendEscaped(out []byte, raw []byte) []byte {
	for _, b := range raw {
		if b == 0x00 {
			out = append(out, 0x00, 0xFF)
		} else {
			out = append(out, b)
		}
	}
	return append(out, 0x00)
}

func appendFloat(out []byte, f float64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f))
	adjusted := floatAdjust(buf, true)
	out = append(out, tagDouble)
	return append(out, adjusted[:]...)
}

func floatAdjust(v [8]byte, encode bool) [8]byte {
	if encode && v[0]&0x80 != 0x00 {
		return flipAll(v)
	}
	if !encode && v[0]&0x80 != 0x80 {
		return flipAll(v)
	}
	out := v
	out[0] ^= 0x80
	return out
}

func flipAll(v [8]byte) [8]byte {
	var out [8]byte
	for i, b := range v {
		out[i] = b ^ 0xFF
	}
	return out
}

func appendInt(out []byte, v *big.Int) []byte {
	switch v.Sign() {
	case 0:
		return append(out, tagIntZero)
	case 1:
		return appendPosInt(out, v)
	default:
		return appendNegInt(out, v)
	}
}

var bigSizeLimit8 = new(big.Int).SetUint64(sizeLimit[8])

func appendPosInt(out []byte, v *big.Int) []byte {
	if v.Cmp(bigSizeLimit8) <= 0 {
		u := v.Uint64()
		n := smallestFit(u)
		out = append(out, tagIntZero+byte(n))
		return appendBigEndianSuffix(out, u, n)
	}
	mag := v.Bytes()
	length := len(mag)
	out = append(out, tagPosBigInt, byte(length))
	return append(out, mag...)
}

func appendNegInt(out []byte, v *big.Int) []byte {
	neg := new(big.Int).Neg(v)
	if neg.Cmp(bigSizeLimit8) <= 0 {
		n := smallestFit(neg.Uint64())
		maxv := new(big.Int).SetUint64(sizeLimit[n])
		val := new(big.Int).Add(maxv, v) // v is negative
		out = append(out, tagNegIntBase+byte(8-n)) // base 0x14 - n == 0x0C + (8-n)
		return appendBigEndianSuffix(out, val.Uint64(), n)
	}
	length := (neg.BitLen() + 7) / 8
	limit := new(big.Int).Lsh(big.NewInt(1), uint(length*8))
	limit.Sub(limit, big.NewInt(1))
	transformed := new(big.Int).Add(v, limit)
	mag := leftPad(transformed.Bytes(), length)
	out = append(out, tagNegBigInt, byte(length)^0xFF)
	return append(out, mag...)
}

// smallestFit returns the smallest n in 0..8 such that u fits in n bytes
// unsigned (sizeLimit[n] >= u).
func smallestFit(u uint64) int {
	for n := 0; n <= 8; n++ {
		if sizeLimit[n] >= u {
			return n
		}
	}
	return 8
}

func appendBigEndianSuffix(out []byte, u uint64, n int) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], u)
	return append(out, buf[8-n:]...)
}

func leftPad(b []byte, length int) []byte {
	if len(b) >= length {
		return b
	}
	out := make([]byte, length)
	copy(out[length-len(b):], b)
	return out
}

func decodeOne(b []byte, pos int) (Value, int, error) {
	if pos >= len(b) {
		return Value{}, pos, ErrTruncated
	}
	tag := b[pos]
	switch {
	case tag == tagNull:
		return Null(), pos + 1, nil
	case tag == tagFalse:
		return Bool(false), pos + 1, nil
	case tag == tagTrue:
		return Bool(true), pos + 1, nil
	case tag == tagBytes:
		raw, end, err := decodeEscaped(b, pos+1)
		if err != nil {
			return Value{}, pos, err
		}
		return Bytes(raw), end, nil
	case tag == tagText:
		raw, end, err := decodeEscaped(b, pos+1)
		if err != nil {
			return Value{}, pos, err
		}
		return Text(string(raw)), end, nil
	case tag == tagDouble:
		return decodeFloat(b, pos)
	case tag == tagUUID:
		return decodeUUID(b, pos)
	case tag == tagIntZero:
		return Int(0), pos + 1, nil
	case tag > tagIntZero && tag < tagPosBigInt:
		n := int(tag - tagIntZero)
		return decodePosSmallInt(b, pos, n)
	case tag > tagNegBigInt && tag < tagIntZero:
		n := int(tagIntZero - tag)
		return decodeNegSmallInt(b, pos, n)
	case tag == tagPosBigInt:
		return decodePosBigInt(b, pos)
	case tag == tagNegBigInt:
		return decodeNegBigInt(b, pos)
	default:
		return Value{}, pos, errors.Wrapf(ErrUnknownTag, "tag=0x%02x at pos=%d", tag, pos)
	}
}

func decodeEscaped(b []byte, pos int) ([]byte, int, error) {
	end, err := findTerminator(b, pos)
	if err != nil {
		return nil, pos, err
	}
	raw := unescape(b[pos:end])
	return raw, end + 1, nil
}

// findTerminator returns the index of the bare 0x00 terminator starting
// the search at pos, treating a 0x00 immediately followed by 0xFF as an
// escaped zero rather than a terminator.
func findTerminator(b []byte, pos int) (int, error) {
	for {
		idx := indexByte(b, pos, 0x00)
		if idx < 0 {
			return 0, errors.Wrap(ErrTruncated, "unterminated bytes/text value")
		}
		if idx+1 == len(b) || b[idx+1] != 0xFF {
			return idx, nil
		}
		pos = idx + 2
	}
}

func indexByte(b []byte, from int, target byte) int {
	for i := from; i < len(b); i++ {
		if b[i] == target {
			return i
		}
	}
	return -1
}

func unescape(raw []byte) []byte {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == 0x00 && i+1 < len(raw) && raw[i+1] == 0xFF {
			out = append(out, 0x00)
			i++
			continue
		}
		out = append(out, raw[i])
	}
	return out
}

func decodeFloat(b []byte, pos int) (Value, int, error) {
	if pos+9 > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "double")
	}
	var buf [8]byte
	copy(buf[:], b[pos+1:pos+9])
	restored := floatAdjust(buf, false)
	bits := binary.BigEndian.Uint64(restored[:])
	return Float(math.Float64frombits(bits)), pos + 9, nil
}

func decodeUUID(b []byte, pos int) (Value, int, error) {
	if pos+17 > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "uuid")
	}
	var u uuid.UUID
	copy(u[:], b[pos+1:pos+17])
	return UUIDValue(u), pos + 17, nil
}

func decodePosSmallInt(b []byte, pos int, n int) (Value, int, error) {
	end := pos + 1 + n
	if end > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "positive int")
	}
	u := readBigEndianUint(b[pos+1 : end])
	return BigInt(new(big.Int).SetUint64(u)), end, nil
}

func decodeNegSmallInt(b []byte, pos int, n int) (Value, int, error) {
	end := pos + 1 + n
	if end > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "negative int")
	}
	u := readBigEndianUint(b[pos+1 : end])
	val := new(big.Int).SetUint64(u)
	val.Sub(val, new(big.Int).SetUint64(sizeLimit[n]))
	return BigInt(val), end, nil
}

func decodePosBigInt(b []byte, pos int) (Value, int, error) {
	if pos+2 > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "positive big-int length")
	}
	length := int(b[pos+1])
	end := pos + 2 + length
	if end > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "positive big-int magnitude")
	}
	val := new(big.Int).SetBytes(b[pos+2 : end])
	return BigInt(val), end, nil
}

func decodeNegBigInt(b []byte, pos int) (Value, int, error) {
	if pos+2 > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "negative big-int length")
	}
	length := int(b[pos+1] ^ 0xFF)
	end := pos + 2 + length
	if end > len(b) {
		return Value{}, pos, errors.Wrap(ErrTruncated, "negative big-int magnitude")
	}
	mag := new(big.Int).SetBytes(b[pos+2 : end])
	limit := new(big.Int).Lsh(big.NewInt(1), uint(length*8))
	limit.Sub(limit, big.NewInt(1))
	val := new(big.Int).Sub(mag, limit)
	return BigInt(val), end, nil
}

func readBigEndianUint(b []byte) uint64 {
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:])
}
