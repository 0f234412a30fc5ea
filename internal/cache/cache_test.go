package cache

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanewin/falkor-rentalintel/internal/model"
)

func sampleResults() []model.MatchResult {
	return []model.MatchResult{
		{
			ListingID:    "l1",
			ScorePercent: 92.5,
			SubScores:    map[string]float64{"budget": 100, "pets": 95},
			MatchLevel:   "Excellent Match",
		},
		{
			ListingID:    "l2",
			ScorePercent: 71.0,
			SubScores:    map[string]float64{"budget": 94},
			MatchLevel:   "Good Match",
		},
	}
}

func TestGet_MissThenHit(t *testing.T) {
	c := New()

	_, ok := c.Get("k")
	assert.False(t, ok)

	got := c.GetOrCompute("k", sampleResults)
	assert.Len(t, got, 2)

	cached, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, got, cached)
	assert.Equal(t, 1, c.Len())
}

func TestGetOrCompute_ComputesOncePerKey(t *testing.T) {
	c := New()
	var calls atomic.Int32

	compute := func() []model.MatchResult {
		calls.Add(1)
		return sampleResults()
	}

	c.GetOrCompute("k", compute)
	c.GetOrCompute("k", compute)
	c.GetOrCompute("k2", compute)

	assert.Equal(t, int32(2), calls.Load())
}

func TestGetOrCompute_ReturnsCopies(t *testing.T) {
	c := New()

	first := c.GetOrCompute("k", sampleResults)
	first[0].ScorePercent = 1
	first[0].SubScores["budget"] = 1

	second, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 92.5, second[0].ScorePercent)
	assert.Equal(t, 100.0, second[0].SubScores["budget"])
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.GetOrCompute("k", sampleResults)

	c.Invalidate("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	// Invalidating a missing key is a no-op.
	c.Invalidate("missing")
}

func TestPurge(t *testing.T) {
	c := New()
	c.GetOrCompute("k1", sampleResults)
	c.GetOrCompute("k2", sampleResults)
	require.Equal(t, 2, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestGetOrCompute_ConcurrentSameKey(t *testing.T) {
	c := New()
	var calls atomic.Int32

	compute := func() []model.MatchResult {
		calls.Add(1)
		return sampleResults()
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := c.GetOrCompute("k", compute)
			assert.Len(t, got, 2)
		}()
	}
	wg.Wait()

	// Singleflight collapses concurrent misses; late arrivals hit the cache.
	// A few extra computations across flight windows are tolerated.
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
	assert.LessOrEqual(t, calls.Load(), int32(8))
}
