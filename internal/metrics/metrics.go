package metrics

import (
	"time"

	"github.com/rs/zerolog"
)

// Metrics collector for replay buffer operations
type Collector struct {
	logger zerolog.Logger
}

func NewCollector(logger zerolog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// Track append throughput
func (c *Collector) TransitionsAppended(count, evicted, size int) {
	c.logger.Info().
		Str("metric", "transitions_appended").
		Int("count", count).
		Int("evicted", evicted).
		Int("size", size).
		Msg("Append metric")
}

// Track sampling latency and batch sizes
func (c *Collector) BatchSampled(batchSize, available int, duration time.Duration) {
	c.logger.Info().
		Str("metric", "batch_sampled").
		Int("batch_size", batchSize).
		Int("available", available).
		Dur("duration", duration).
		Msg("Sample metric")
}

// Track buffer fill-state transitions
func (c *Collector) BufferStateChanged(fromState, toState string, size int) {
	c.logger.Info().
		Str("metric", "buffer_state_transition").
		Str("from_state", fromState).
		Str("to_state", toState).
		Int("size", size).
		Msg("Buffer state transition metric")
}
