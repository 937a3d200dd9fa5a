package replay

import (
	"math/rand"
	"sync"
)

// Buffer is the experience replay buffer handed to producers and training
// loops. It holds at most its capacity of the most recent entries, appends
// in O(1), and samples k-entry batches without replacement in O(k).
//
// A single mutex covers both Append and the snapshot-select-read sequence
// inside Sample. Without it an interleaved Append could overwrite a slot
// already chosen for a pending sample and produce a torn read.
type Buffer struct {
	mu      sync.Mutex
	store   *RingStore
	sampler *Sampler
	rng     *rand.Rand
}

// Option configures a Buffer at construction.
type Option func(*Buffer)

// WithRand supplies the random source used for sampling. Tests use a fixed
// seed to make draws reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(b *Buffer) { b.rng = rng }
}

// New constructs a buffer with a fixed capacity. Fails with
// ErrInvalidCapacity when capacity is not positive.
func New(capacity int, opts ...Option) (*Buffer, error) {
	store, err := NewRingStore(capacity)
	if err != nil {
		return nil, err
	}
	b := &Buffer{store: store}
	for _, opt := range opts {
		opt(b)
	}
	b.sampler = NewSampler(b.rng)
	return b, nil
}

// Append stores one transition, evicting the oldest live entry when the
// buffer is full. It always succeeds for well-formed input; shape
// consistency across appends is the producer's responsibility.
func (b *Buffer) Append(state []float32, action int, reward float32, nextState []float32, done bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store.Append(Entry{
		State:     state,
		Action:    action,
		Reward:    reward,
		NextState: nextState,
		Done:      done,
	})
}

// Sample draws k distinct entries uniformly from the live window and
// returns them transposed into a Batch. Fails with ErrInsufficientSamples
// when k is non-positive or exceeds Len(); the buffer is never mutated and
// no partial batch is returned.
func (b *Buffer) Sample(k int) (Batch, error) {
	b.mu.Lock()
	indices, err := b.sampler.Draw(b.store.Len(), k)
	if err != nil {
		b.mu.Unlock()
		return Batch{}, err
	}
	entries := make([]Entry, k)
	for i, idx := range indices {
		e, err := b.store.At(idx)
		if err != nil {
			b.mu.Unlock()
			return Batch{}, err
		}
		entries[i] = e
	}
	b.mu.Unlock()

	// Entries are value copies taken under the lock; transposition does
	// not need the critical section.
	return Assemble(entries)
}

// Len returns the number of live entries.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Len()
}

// Cap returns the fixed capacity. Reset swaps the store pointer, so even
// this constant read needs the lock.
func (b *Buffer) Cap() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Cap()
}

// State reports the buffer's fill state.
func (b *Buffer) State() FillState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.State()
}

// Reset discards all live entries by rebuilding the ring at the same
// capacity. This is the only way the buffer shrinks.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	store, err := NewRingStore(b.store.Cap())
	if err != nil {
		// Capacity was validated at construction.
		panic(err)
	}
	b.store = store
}
