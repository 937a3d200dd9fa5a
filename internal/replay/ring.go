package replay

import "fmt"

// FillState describes how much of a ring's capacity is occupied.
type FillState string

const (
	FillStateEmpty   FillState = "empty"
	FillStateFilling FillState = "filling"
	FillStateFull    FillState = "full"
)

// RingStore is a preallocated circular arena of Entry slots. Appends are
// O(1) and overwrite the oldest entry once the ring is full; memory is
// allocated once at construction and never grows.
//
// RingStore is not safe for concurrent use. Buffer provides the locking.
type RingStore struct {
	slots  []Entry
	cursor int // next slot to write
	count  int // number of slots written at least once, <= len(slots)
}

// NewRingStore allocates a ring with the given fixed capacity.
func NewRingStore(capacity int) (*RingStore, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &RingStore{slots: make([]Entry, capacity)}, nil
}

// Append writes e into the slot under the cursor and advances it. When the
// ring is full the logically oldest entry is overwritten and count stays
// at capacity; the full state is absorbing.
func (r *RingStore) Append(e Entry) {
	r.slots[r.cursor] = e
	r.cursor = (r.cursor + 1) % len(r.slots)
	if r.count < len(r.slots) {
		r.count++
	}
}

// Get reads a physical slot. Slots outside [0, capacity) or never written
// fail with ErrIndexOutOfRange.
func (r *RingStore) Get(slot int) (Entry, error) {
	if slot < 0 || slot >= len(r.slots) {
		return Entry{}, fmt.Errorf("%w: slot %d, capacity %d", ErrIndexOutOfRange, slot, len(r.slots))
	}
	if slot >= r.count {
		return Entry{}, fmt.Errorf("%w: slot %d not yet written", ErrIndexOutOfRange, slot)
	}
	return r.slots[slot], nil
}

// At reads by logical index, where 0 is the oldest live entry and Len()-1
// the newest. Before the ring wraps, logical and physical indices coincide;
// after wrapping the oldest entry sits under the cursor.
func (r *RingStore) At(logical int) (Entry, error) {
	if logical < 0 || logical >= r.count {
		return Entry{}, fmt.Errorf("%w: logical index %d, size %d", ErrIndexOutOfRange, logical, r.count)
	}
	if r.count < len(r.slots) {
		return r.slots[logical], nil
	}
	return r.slots[(r.cursor+logical)%len(r.slots)], nil
}

// Len returns the number of live entries.
func (r *RingStore) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *RingStore) Cap() int { return len(r.slots) }

// State reports the fill state of the ring.
func (r *RingStore) State() FillState {
	switch {
	case r.count == 0:
		return FillStateEmpty
	case r.count < len(r.slots):
		return FillStateFilling
	default:
		return FillStateFull
	}
}
