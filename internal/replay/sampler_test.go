package replay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampler_DrawDistinct(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(42)))

	for trial := 0; trial < 100; trial++ {
		indices, err := sampler.Draw(50, 10)
		require.NoError(t, err)
		require.Len(t, indices, 10)

		seen := make(map[int]bool, 10)
		for _, idx := range indices {
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, 50)
			assert.False(t, seen[idx], "index %d drawn twice", idx)
			seen[idx] = true
		}
	}
}

func TestSampler_DrawFullPopulation(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(7)))

	indices, err := sampler.Draw(5, 5)
	require.NoError(t, err)

	seen := make(map[int]bool, 5)
	for _, idx := range indices {
		seen[idx] = true
	}
	// Drawing n from n must return every index exactly once.
	assert.Len(t, seen, 5)
}

func TestSampler_DrawErrors(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(1)))

	cases := []struct {
		name string
		n, k int
	}{
		{"zero k", 10, 0},
		{"negative k", 10, -3},
		{"k exceeds population", 10, 11},
		{"empty population", 0, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := sampler.Draw(tc.n, tc.k)
			assert.ErrorIs(t, err, ErrInsufficientSamples)
		})
	}
}

func TestSampler_DrawIsDeterministicPerSeed(t *testing.T) {
	a := NewSampler(rand.New(rand.NewSource(99)))
	b := NewSampler(rand.New(rand.NewSource(99)))

	first, err := a.Draw(100, 8)
	require.NoError(t, err)
	second, err := b.Draw(100, 8)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSampler_DrawUniformity(t *testing.T) {
	sampler := NewSampler(rand.New(rand.NewSource(42)))

	const (
		n      = 20
		k      = 5
		trials = 4000
	)

	counts := make([]int, n)
	for trial := 0; trial < trials; trial++ {
		indices, err := sampler.Draw(n, k)
		require.NoError(t, err)
		for _, idx := range indices {
			counts[idx]++
		}
	}

	// Each index should be selected in about k/n of the trials. The
	// binomial standard deviation here is ~27, so 150 is a generous band.
	expected := trials * k / n
	for idx, count := range counts {
		assert.InDelta(t, expected, count, 150, "index %d drawn %d times, expected ~%d", idx, count, expected)
	}
}
