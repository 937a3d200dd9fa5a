package replay

import "fmt"

// Batch is a column-major view of k sampled entries: five parallel slices
// of equal length, in fixed field order. Element i of every column belongs
// to the same sampled entry.
type Batch struct {
	States     [][]float32
	Actions    []int
	Rewards    []float32
	NextStates [][]float32
	Dones      []bool
}

// Len returns the number of entries the batch was assembled from.
func (b Batch) Len() int { return len(b.Rewards) }

// Assemble transposes a row of entries into a Batch. The columns are
// preallocated to the exact batch size; no intermediate slices are built.
// Fails with ErrEmptyBatch on zero entries.
func Assemble(entries []Entry) (Batch, error) {
	if len(entries) == 0 {
		return Batch{}, fmt.Errorf("%w: no entries to assemble", ErrEmptyBatch)
	}

	k := len(entries)
	b := Batch{
		States:     make([][]float32, k),
		Actions:    make([]int, k),
		Rewards:    make([]float32, k),
		NextStates: make([][]float32, k),
		Dones:      make([]bool, k),
	}
	for i, e := range entries {
		b.States[i] = e.State
		b.Actions[i] = e.Action
		b.Rewards[i] = e.Reward
		b.NextStates[i] = e.NextState
		b.Dones[i] = e.Done
	}
	return b, nil
}
