package events

import "context"

// Publisher is implemented by downstream fan-out mechanisms.
type Publisher interface {
	PublishBufferStatus(ctx context.Context, event BufferStatusEvent) error
	PublishSample(ctx context.Context, event SampleEvent) error
}

// BufferStatusEvent is emitted whenever the buffer's fill state changes and
// periodically by the occupancy watcher.
type BufferStatusEvent struct {
	State          string `json:"state"`
	PrevState      string `json:"prev_state,omitempty"`
	Size           int    `json:"size"`
	Capacity       int    `json:"capacity"`
	TotalAppends   uint64 `json:"total_appends"`
	TotalEvictions uint64 `json:"total_evictions"`
}

// SampleEvent records one served training batch.
type SampleEvent struct {
	BatchSize int `json:"batch_size"`
	Available int `json:"available"`
}

// NoopPublisher logs nothing; useful for tests.
type NoopPublisher struct{}

// PublishBufferStatus satisfies Publisher.
func (NoopPublisher) PublishBufferStatus(context.Context, BufferStatusEvent) error { return nil }

// PublishSample satisfies Publisher.
func (NoopPublisher) PublishSample(context.Context, SampleEvent) error { return nil }
