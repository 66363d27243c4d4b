package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRand_SameSeedSameSequence(t *testing.T) {
	a := NewRand(42)
	b := NewRand(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float(), b.Float())
	}
}

func TestRand_ChanceBounds(t *testing.T) {
	r := NewRand(1)
	assert.False(t, r.Chance(0))
	assert.False(t, r.Chance(-0.5))
	assert.True(t, r.Chance(1))
	assert.True(t, r.Chance(1.5))
}

func TestRand_BetweenInclusive(t *testing.T) {
	r := NewRand(7)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := r.Between(3, 5)
		assert.GreaterOrEqual(t, v, 3)
		assert.LessOrEqual(t, v, 5)
		seen[v] = true
	}
	assert.True(t, seen[3] && seen[4] && seen[5], "all values in range reachable")

	assert.Equal(t, 9, r.Between(9, 9))
	assert.Equal(t, 9, r.Between(9, 4), "degenerate range collapses to min")
}

func TestRand_FloatBetween(t *testing.T) {
	r := NewRand(7)
	for i := 0; i < 1000; i++ {
		v := r.FloatBetween(1.5, 2.5)
		assert.GreaterOrEqual(t, v, 1.5)
		assert.Less(t, v, 2.5)
	}
	assert.Equal(t, 3.0, r.FloatBetween(3, 3))
}

func TestRand_Vary(t *testing.T) {
	r := NewRand(11)
	for i := 0; i < 1000; i++ {
		v := r.Vary(100, 0.2)
		assert.GreaterOrEqual(t, v, 80)
		assert.LessOrEqual(t, v, 120)
	}
}

func TestRand_PickIndex(t *testing.T) {
	r := NewRand(3)

	assert.Equal(t, 0, r.PickIndex([]float64{0, 0, 0}), "zero total falls back to 0")
	assert.Equal(t, 1, r.PickIndex([]float64{0, 5, 0}), "all mass on one index")

	counts := [3]int{}
	for i := 0; i < 3000; i++ {
		counts[r.PickIndex([]float64{0.4, 0.5, 0.1})]++
	}
	assert.Greater(t, counts[0], counts[2], "heavier weight drawn more often")
	assert.Greater(t, counts[1], counts[2])
}
