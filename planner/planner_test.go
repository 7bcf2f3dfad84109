package planner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Silentsoul04/tuplestore/planner"
)

func TestPlanCoversEveryNonEmptySubset(t *testing.T) {
	for n := 1; n <= 4; n++ {
		perms := planner.Plan(n)
		for mask := 1; mask < (1 << n); mask++ {
			bound := map[int]struct{}{}
			for col := 0; col < n; col++ {
				if mask&(1<<col) != 0 {
					bound[col] = struct{}{}
				}
			}
			found := false
			for _, perm := range perms {
				if planner.Covers(perm, bound) {
					found = true
					break
				}
			}
			assert.True(t, found, "arity %d: no permutation covers subset %v", n, bound)
		}
	}
}

func TestPlanQuadStoreNonAdjacentSubset(t *testing.T) {
	perms := planner.Plan(4)
	bound := map[int]struct{}{0: {}, 2: {}}
	found := false
	for _, perm := range perms {
		if planner.Covers(perm, bound) {
			found = true
			break
		}
	}
	assert.True(t, found, "expected a permutation covering the non-adjacent {coll, key} subset")
}

func TestInvertAndApplyRoundTrip(t *testing.T) {
	perm := planner.Permutation{2, 0, 1}
	items := []string{"a", "b", "c"}
	permuted := planner.Apply(perm, items)
	require.Equal(t, []string{"c", "a", "b"}, permuted)
	inv := planner.Invert(perm)
	restored := planner.Apply(inv, permuted)
	assert.Equal(t, items, restored)
}

func TestPlanEmptyAndUnary(t *testing.T) {
	assert.Nil(t, planner.Plan(0))
	assert.Equal(t, []planner.Permutation{{0}}, planner.Plan(1))
}
