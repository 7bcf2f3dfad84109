package tuple_test

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silentsoul04/tuplestore/tuple"
)

func roundTrip(t *testing.T, v tuple.Value) {
	t.Helper()
	encoded := tuple.Encode(tuple.Tuple{v})
	decoded, err := tuple.Decode(encoded)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.True(t, v.Equal(decoded[0]), "round-trip mismatch for %+v -> %+v", v, decoded[0])
}

func TestRoundTripMixedDomain(t *testing.T) {
	u := uuid.New()
	values := []tuple.Value{
		tuple.Null(),
		tuple.Bool(true),
		tuple.Bool(false),
		tuple.Int(0),
		tuple.Int(1),
		tuple.Int(-1),
		tuple.Int(255),
		tuple.Int(256),
		tuple.Int(-255),
		tuple.Int(-256),
		tuple.BigInt(new(big.Int).Lsh(big.NewInt(1), 200)),
		tuple.BigInt(new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 200))),
		tuple.Float(3.1415),
		tuple.Float(-3.1415),
		tuple.Float(0),
		tuple.UUIDValue(u),
		tuple.Bytes([]byte{0x00, 0x01, 0x02}),
		tuple.Bytes([]byte{}),
		tuple.Text(""),
		tuple.Text("hyperdev.fr"),
		tuple.Text("été"), // arbitrary unicode
	}
	for _, v := range values {
		roundTrip(t, v)
	}
}

func TestRoundTripTuple(t *testing.T) {
	u := uuid.New()
	in := tuple.Tuple{tuple.UUIDValue(u), tuple.Text("title"), tuple.Text("hyperdev.fr")}
	encoded := tuple.Encode(in)
	out, err := tuple.Decode(encoded)
	require.NoError(t, err)
	assert.True(t, in.Equal(out))
}

func TestDecodeUnknownTag(t *testing.T) {
	_, err := tuple.Decode([]byte{0xFE})
	require.Error(t, err)
	assert.ErrorIs(t, err, tuple.ErrUnknownTag)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := tuple.Decode([]byte{0x02, 'h', 'i'}) // text with no terminator
	require.Error(t, err)
	assert.ErrorIs(t, err, tuple.ErrTruncated)
}

func TestBytesEscaping(t *testing.T) {
	raw := []byte{0x00, 0x00, 0xAB, 0x00}
	encoded := tuple.Encode(tuple.Tuple{tuple.Bytes(raw)})
	decoded, err := tuple.Decode(encoded)
	require.NoError(t, err)
	got, ok := decoded[0].AsBytes()
	require.True(t, ok)
	assert.Equal(t, raw, got)
}

func TestOrderZeroIsBetweenSigns(t *testing.T) {
	assert.True(t, tuple.Compare(tuple.Int(-1), tuple.Int(0)) < 0)
	assert.True(t, tuple.Compare(tuple.Int(0), tuple.Int(1)) < 0)
	assert.True(t, tuple.Compare(tuple.Int(-1000000), tuple.Int(-1)) < 0)
}
