package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartridge/experience/internal/events"
	"github.com/cartridge/experience/internal/metrics"
	"github.com/cartridge/experience/internal/replay"
)

// TransitionInput is one transition as submitted by an actor.
type TransitionInput struct {
	State     []float32 `json:"state"`
	Action    int       `json:"action"`
	Reward    float32   `json:"reward"`
	NextState []float32 `json:"next_state"`
	Done      bool      `json:"done"`
}

// AppendResult summarizes an append call.
type AppendResult struct {
	Appended int `json:"appended"`
	Evicted  int `json:"evicted"`
}

// SampleResult carries one transposed training batch.
type SampleResult struct {
	States     [][]float32 `json:"states"`
	Actions    []int       `json:"actions"`
	Rewards    []float32   `json:"rewards"`
	NextStates [][]float32 `json:"next_states"`
	Dones      []bool      `json:"dones"`
	BatchSize  int         `json:"batch_size"`
	Available  int         `json:"available"`
}

// Stats reports buffer occupancy and lifetime counters.
type Stats struct {
	Size           int        `json:"size"`
	Capacity       int        `json:"capacity"`
	State          string     `json:"state"`
	TotalAppends   uint64     `json:"total_appends"`
	TotalEvictions uint64     `json:"total_evictions"`
	LastAppendAt   *time.Time `json:"last_append_at,omitempty"`
}

// ReplayService mediates between transports and the replay buffer. It owns
// the lifetime counters and publishes fill-state transitions downstream.
type ReplayService struct {
	buf       *replay.Buffer
	publisher events.Publisher
	metrics   *metrics.Collector
	logger    zerolog.Logger

	mu             sync.Mutex
	totalAppends   uint64
	totalEvictions uint64
	lastAppendAt   time.Time
}

// NewReplayService creates a new ReplayService
func NewReplayService(buf *replay.Buffer, publisher events.Publisher, collector *metrics.Collector, logger zerolog.Logger) *ReplayService {
	return &ReplayService{
		buf:       buf,
		publisher: publisher,
		metrics:   collector,
		logger:    logger,
	}
}

// AppendBatch appends a slice of transitions in arrival order. Appends are
// total: once a transition is well-formed JSON it is always stored, at
// worst evicting the oldest live entry. The whole batch is accounted under
// one critical section, so concurrent requests cannot miscount evictions
// or double-report a fill-state transition.
func (s *ReplayService) AppendBatch(ctx context.Context, transitions []TransitionInput) AppendResult {
	if len(transitions) == 0 {
		return AppendResult{}
	}

	s.mu.Lock()
	prevState := s.buf.State()
	evicted := 0
	for _, t := range transitions {
		if s.buf.Len() == s.buf.Cap() {
			evicted++
		}
		s.buf.Append(t.State, t.Action, t.Reward, t.NextState, t.Done)
	}
	newState := s.buf.State()
	size := s.buf.Len()

	s.totalAppends += uint64(len(transitions))
	s.totalEvictions += uint64(evicted)
	s.lastAppendAt = time.Now().UTC()
	appends, evictions := s.totalAppends, s.totalEvictions
	s.mu.Unlock()

	s.metrics.TransitionsAppended(len(transitions), evicted, size)
	if newState != prevState {
		s.notifyStateChange(ctx, prevState, newState, size, appends, evictions)
	}

	return AppendResult{Appended: len(transitions), Evicted: evicted}
}

// SampleBatch draws a uniform batch of batchSize distinct transitions.
// Errors from the buffer (replay.ErrInsufficientSamples) pass through
// untouched so transports can map them.
func (s *ReplayService) SampleBatch(ctx context.Context, batchSize int) (*SampleResult, error) {
	start := time.Now()

	batch, err := s.buf.Sample(batchSize)
	if err != nil {
		return nil, err
	}

	available := s.buf.Len()
	s.metrics.BatchSampled(batch.Len(), available, time.Since(start))
	if err := s.publisher.PublishSample(ctx, events.SampleEvent{
		BatchSize: batch.Len(),
		Available: available,
	}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to publish sample event")
	}

	return &SampleResult{
		States:     batch.States,
		Actions:    batch.Actions,
		Rewards:    batch.Rewards,
		NextStates: batch.NextStates,
		Dones:      batch.Dones,
		BatchSize:  batch.Len(),
		Available:  available,
	}, nil
}

// Stats returns current occupancy and lifetime counters.
func (s *ReplayService) Stats(ctx context.Context) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Size:           s.buf.Len(),
		Capacity:       s.buf.Cap(),
		State:          string(s.buf.State()),
		TotalAppends:   s.totalAppends,
		TotalEvictions: s.totalEvictions,
	}
	if !s.lastAppendAt.IsZero() {
		t := s.lastAppendAt
		stats.LastAppendAt = &t
	}
	return stats
}

// Reset rebuilds the ring, discarding all live entries. Lifetime counters
// survive the reset.
func (s *ReplayService) Reset(ctx context.Context) {
	s.mu.Lock()
	prevState := s.buf.State()
	s.buf.Reset()
	appends, evictions := s.totalAppends, s.totalEvictions
	s.mu.Unlock()

	s.logger.Info().Str("prev_state", string(prevState)).Msg("Replay buffer reset")
	if prevState != replay.FillStateEmpty {
		s.notifyStateChange(ctx, prevState, replay.FillStateEmpty, 0, appends, evictions)
	}
}

func (s *ReplayService) notifyStateChange(ctx context.Context, from, to replay.FillState, size int, appends, evictions uint64) {
	s.metrics.BufferStateChanged(string(from), string(to), size)

	event := events.BufferStatusEvent{
		State:          string(to),
		PrevState:      string(from),
		Size:           size,
		Capacity:       s.buf.Cap(),
		TotalAppends:   appends,
		TotalEvictions: evictions,
	}
	if err := s.publisher.PublishBufferStatus(ctx, event); err != nil {
		s.logger.Error().Err(err).Str("state", string(to)).Msg("Failed to publish buffer status")
	}
}
