package store_test

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silentsoul04/tuplestore/kv"
	"github.com/Silentsoul04/tuplestore/planner"
	"github.com/Silentsoul04/tuplestore/store"
	"github.com/Silentsoul04/tuplestore/tuple"
)

func drain(t *testing.T, c *store.Cursor) []store.Match {
	t.Helper()
	defer c.Close()
	var out []store.Match
	for c.Next() {
		out = append(out, c.Value())
	}
	require.NoError(t, c.Err())
	return out
}

func TestAskConsistency(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	rel := store.NewRelation("triples", 3)
	s := store.New(rel)

	tx, err := db.Begin(ctx)
	require.NoError(t, err)

	id := uuid.New()
	trip := tuple.Tuple{tuple.UUIDValue(id), tuple.Text("title"), tuple.Text("hyperdev.fr")}

	require.NoError(t, s.Add(tx, trip))
	ok, err := s.Ask(tx, trip)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Add(tx, trip)) // idempotent re-add
	require.NoError(t, s.Remove(tx, trip))
	ok, err = s.Ask(tx, trip)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPatternCompletenessAcrossIndices(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	rel := store.NewRelation("quad", 4)
	s := store.New(rel)

	tx, err := db.Begin(ctx)
	require.NoError(t, err)
	for v := 0; v < 4; v++ {
		require.NoError(t, s.Add(tx, tuple.Tuple{
			tuple.Text("coll"), tuple.Text("id"), tuple.Text("key"), tuple.Int(int64(v)),
		}))
	}

	// Bound columns {0, 2} are non-adjacent: this exercises exactly the
	// permutation the cyclic-rotation planner would have missed.
	pattern := store.Pattern{
		store.Const(tuple.Text("coll")),
		store.Var("id"),
		store.Const(tuple.Text("key")),
		store.Var("v"),
	}
	cur, err := s.From(tx, pattern)
	require.NoError(t, err)
	matches := drain(t, cur)
	require.Len(t, matches, 4)

	var got []int64
	for _, m := range matches {
		v, ok := m.Bindings["v"].AsInt64()
		require.True(t, ok)
		got = append(got, v)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	assert.Equal(t, []int64{0, 1, 2, 3}, got)
}

func TestStoreAgreementAcrossEveryPermutation(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	rel := store.NewRelation("rel3", 3)
	s := store.New(rel)

	tx, err := db.Begin(ctx)
	require.NoError(t, err)

	tuples := []tuple.Tuple{
		{tuple.Int(1), tuple.Text("a"), tuple.Bool(true)},
		{tuple.Int(2), tuple.Text("b"), tuple.Bool(false)},
	}
	for _, tp := range tuples {
		require.NoError(t, s.Add(tx, tp))
	}
	require.NoError(t, s.Remove(tx, tuples[0]))

	// Every fully-free pattern (no bound columns) must match under any
	// permutation and recover the same surviving set.
	free := store.Pattern{store.Var("a"), store.Var("b"), store.Var("c")}
	cur, err := s.From(tx, free)
	require.NoError(t, err)
	matches := drain(t, cur)
	require.Len(t, matches, 1)
	assert.True(t, matches[0].Tuple.Equal(tuples[1]))

	// Scan each planned permutation's subspace directly: once inverted,
	// every one of them must hold exactly the surviving tuple.
	for i, perm := range rel.Permutations {
		prefix := tuple.Encode(tuple.Tuple{tuple.Text("rel3"), tuple.Int(int64(i))})
		it, err := tx.Prefix(prefix)
		require.NoError(t, err)
		var got []tuple.Tuple
		for it.Next() {
			permuted, err := tuple.Decode(it.Key()[len(prefix):])
			require.NoError(t, err)
			got = append(got, planner.Apply(planner.Invert(perm), permuted))
		}
		require.NoError(t, it.Err())
		require.NoError(t, it.Close())
		require.Len(t, got, 1, "permutation %d", i)
		assert.True(t, got[0].Equal(tuples[1]), "permutation %d", i)
	}
}

func TestAddRemoveTransactionIsolated(t *testing.T) {
	db := kv.NewMemory()
	ctx := context.Background()
	rel := store.NewRelation("t", 2)
	s := store.New(rel)

	seed, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, seed.Commit())

	reader, err := db.Begin(ctx)
	require.NoError(t, err)

	writer, err := db.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Add(writer, tuple.Tuple{tuple.Text("x"), tuple.Int(1)}))
	require.NoError(t, writer.Commit())

	ok, err := s.Ask(reader, tuple.Tuple{tuple.Text("x"), tuple.Int(1)})
	require.NoError(t, err)
	assert.False(t, ok, "reader begun before writer's commit must not observe the insert")
}
