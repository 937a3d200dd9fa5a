package replay

import (
	"fmt"
	"math/rand"
	"time"
)

// Sampler draws distinct indices uniformly at random. It runs a partial
// Fisher-Yates pass over a sparse view of the index range, so a draw of k
// indices costs O(k) time and O(k) space no matter how large the range is.
// Repeated draw-and-reject over the full range would not give that bound.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler. A nil rng gets a time-seeded source; tests
// pass a fixed seed for determinism.
func NewSampler(rng *rand.Rand) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{rng: rng}
}

// Draw selects k distinct indices from [0, n) such that every n-choose-k
// subset is equally likely. Fails with ErrInsufficientSamples when k is
// non-positive or exceeds n.
func (s *Sampler) Draw(n, k int) ([]int, error) {
	if k <= 0 || k > n {
		return nil, fmt.Errorf("%w: requested %d from population of %d", ErrInsufficientSamples, k, n)
	}

	// Fisher-Yates over a virtual [0, n) permutation. Only positions the
	// pass actually touches are materialized in the swaps map, keeping the
	// cost independent of n.
	swaps := make(map[int]int, 2*k)
	out := make([]int, k)
	for i := 0; i < k; i++ {
		j := i + s.rng.Intn(n-i)
		vi, ok := swaps[i]
		if !ok {
			vi = i
		}
		vj, ok := swaps[j]
		if !ok {
			vj = j
		}
		out[i] = vj
		swaps[j] = vi
	}
	return out, nil
}
