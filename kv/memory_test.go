package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silentsoul04/tuplestore/kv"
)

func TestMemoryGetPutDelete(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Put([]byte("a"), []byte("1")))
	v, ok, err := tx.Get([]byte("a"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("1"), v)
	require.NoError(t, tx.Commit())

	tx2, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx2.Delete([]byte("a")))
	require.NoError(t, tx2.Commit())

	tx3, err := db.Begin(ctx)
	require.NoError(t, err)
	_, ok, err = tx3.Get([]byte("a"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryPrefixScanOrder(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	for _, k := range []string{"a/3", "a/1", "a/2", "b/1"} {
		require.NoError(t, tx.Put([]byte(k), nil))
	}
	require.NoError(t, tx.Commit())

	tx2, err := db.Begin(ctx)
	require.NoError(t, err)
	it, err := tx2.Prefix([]byte("a/"))
	require.NoError(t, err)
	defer it.Close()

	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []string{"a/1", "a/2", "a/3"}, got)
}

func TestMemoryRangeOffsetLimitReverse(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	for i := byte('0'); i <= '9'; i++ {
		require.NoError(t, tx.Put([]byte{i}, nil))
	}
	require.NoError(t, tx.Commit())

	tx2, err := db.Begin(ctx)
	require.NoError(t, err)
	it, err := tx2.Range([]byte("3"), true, kv.Strinc([]byte("9")), false, kv.RangeOptions{Offset: 1, Limit: 2})
	require.NoError(t, err)
	var got []string
	for it.Next() {
		got = append(got, string(it.Key()))
	}
	assert.Equal(t, []string{"4", "5"}, got)
	require.NoError(t, it.Close())

	rev, err := tx2.Range([]byte("3"), true, kv.Strinc([]byte("9")), false, kv.RangeOptions{Offset: 1, Limit: 2, Reverse: true})
	require.NoError(t, err)
	var gotRev []string
	for rev.Next() {
		gotRev = append(gotRev, string(rev.Key()))
	}
	assert.Equal(t, []string{"8", "7"}, gotRev)
	require.NoError(t, rev.Close())
}

func TestMemorySnapshotIsolation(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()

	seed, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, seed.Put([]byte("title"), []byte("before")))
	require.NoError(t, seed.Commit())

	reader, err := db.Begin(ctx)
	require.NoError(t, err)

	writer, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, writer.Put([]byte("title"), []byte("after")))
	require.NoError(t, writer.Commit())

	v, ok, err := reader.Get([]byte("title"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("before"), v, "reader begun before writer's commit must not see the write")
}
