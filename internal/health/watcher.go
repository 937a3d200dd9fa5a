package health

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/cartridge/experience/internal/events"
	"github.com/cartridge/experience/internal/service"
)

// Config holds occupancy reporting configuration
type Config struct {
	ReportInterval time.Duration
}

// Watcher periodically reports buffer occupancy so operators can see fill
// level and eviction pressure without polling the stats endpoint.
type Watcher struct {
	svc       *service.ReplayService
	publisher events.Publisher
	config    Config
	logger    zerolog.Logger
}

// NewWatcher creates a new occupancy watcher
func NewWatcher(svc *service.ReplayService, publisher events.Publisher, config Config, logger zerolog.Logger) *Watcher {
	return &Watcher{
		svc:       svc,
		publisher: publisher,
		config:    config,
		logger:    logger,
	}
}

// Start begins the reporting loop and blocks until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.ReportInterval)
	defer ticker.Stop()

	w.logger.Info().
		Dur("report_interval", w.config.ReportInterval).
		Msg("Starting occupancy watcher")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Occupancy watcher stopped")
			return
		case <-ticker.C:
			w.report(ctx)
		}
	}
}

func (w *Watcher) report(ctx context.Context) {
	stats := w.svc.Stats(ctx)

	fillRatio := 0.0
	if stats.Capacity > 0 {
		fillRatio = float64(stats.Size) / float64(stats.Capacity)
	}

	entry := w.logger.Debug()
	if stats.State == "full" {
		// A full buffer overwrites experience on every append.
		entry = w.logger.Warn()
	}
	entry.
		Int("size", stats.Size).
		Int("capacity", stats.Capacity).
		Float64("fill_ratio", fillRatio).
		Uint64("total_evictions", stats.TotalEvictions).
		Msg("Buffer occupancy")

	event := events.BufferStatusEvent{
		State:          stats.State,
		Size:           stats.Size,
		Capacity:       stats.Capacity,
		TotalAppends:   stats.TotalAppends,
		TotalEvictions: stats.TotalEvictions,
	}
	if err := w.publisher.PublishBufferStatus(ctx, event); err != nil {
		w.logger.Error().Err(err).Msg("Failed to publish occupancy report")
	}
}
