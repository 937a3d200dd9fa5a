package replay

import "errors"

var (
	// ErrInvalidCapacity is returned when a buffer is constructed with a
	// non-positive capacity.
	ErrInvalidCapacity = errors.New("capacity must be greater than zero")

	// ErrInsufficientSamples is returned when a sample request asks for
	// more entries than are currently live, or for a non-positive count.
	ErrInsufficientSamples = errors.New("insufficient samples")

	// ErrIndexOutOfRange is returned for reads outside the valid slot
	// range. Unreachable through the Buffer surface.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrEmptyBatch is returned when assembling zero entries. Unreachable
	// through the Buffer surface, which rejects k <= 0 first.
	ErrEmptyBatch = errors.New("empty batch")
)
